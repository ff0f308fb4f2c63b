package services

import (
	"regexp"
	"strings"

	"github.com/custodia-labs/sercha-extract/internal/logger"
)

// matchFlags makes patterns case-insensitive, multi-line and lets '.' match newlines.
const matchFlags = "(?ims)"

// compilePattern compiles a user pattern with the extraction flags applied.
func compilePattern(pattern string) (*regexp.Regexp, error) {
	return regexp.Compile(matchFlags + pattern)
}

// ExtractMatch returns the trimmed text of the given capture group from the
// first match of pattern in content.
//
// It reports false when content or pattern is empty, when the pattern does
// not compile, when nothing matches, when group is out of range, or when the
// group captured only whitespace. It never panics on bad input.
func ExtractMatch(content, pattern string, group int) (string, bool) {
	if content == "" || pattern == "" {
		return "", false
	}

	re, err := compilePattern(pattern)
	if err != nil {
		logger.Errorw("invalid extraction pattern", "pattern", pattern, "error", err)
		return "", false
	}

	return extractCompiled(re, content, pattern, group)
}

func extractCompiled(re *regexp.Regexp, content, pattern string, group int) (string, bool) {
	loc := re.FindStringSubmatchIndex(content)
	if loc == nil {
		return "", false
	}

	if group < 0 || group > re.NumSubexp() {
		logger.Warnw("capture group not found in pattern",
			"pattern", pattern, "group", group, "groups", re.NumSubexp())
		return "", false
	}

	start, end := loc[2*group], loc[2*group+1]
	if start < 0 {
		// Group exists but did not participate in the match.
		return "", false
	}

	value := strings.TrimSpace(content[start:end])
	if value == "" {
		return "", false
	}
	return value, true
}
