package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/sercha-extract/internal/core/domain"
)

// Replaced in tests.
var (
	stdin      io.Reader = os.Stdin
	isTerminal           = func() bool { return term.IsTerminal(int(os.Stdin.Fd())) }
)

var patternCmd = &cobra.Command{
	Use:   "pattern",
	Short: "Work with extraction patterns",
}

var patternTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Evaluate a pattern against text without storing anything",
	Long: `Evaluate a pattern against text and show the matched group and the
value it coerces to. Content comes from --content, or from stdin when piped.

Patterns are case-insensitive, multi-line and dot matches newline.

Examples:
  sercha-extract pattern test --pattern 'Tutar:\s*([\d.,]+)' --type monetary --content 'Tutar: 1.234,56'
  cat invoice.txt | sercha-extract pattern test -p 'Fatura No:\s*(\S+)'`,
	Args: cobra.NoArgs,
	RunE: runPatternTest,
}

func init() {
	patternTestCmd.Flags().StringP("pattern", "p", "", "Pattern with at least one capture group")
	patternTestCmd.Flags().IntP("group", "g", domain.DefaultExtractionGroup, "Capture group to read")
	patternTestCmd.Flags().StringP("type", "t", string(domain.DataTypeString), "Data type to coerce to")
	patternTestCmd.Flags().StringP("content", "c", "", "Text to match against")
	_ = patternTestCmd.MarkFlagRequired("pattern")

	patternCmd.AddCommand(patternTestCmd)
	rootCmd.AddCommand(patternCmd)
}

func runPatternTest(cmd *cobra.Command, _ []string) error {
	if extractionService == nil {
		return errors.New("extraction service not configured")
	}

	flags := cmd.Flags()
	pattern, _ := flags.GetString("pattern")
	group, _ := flags.GetInt("group")
	typeName, _ := flags.GetString("type")
	content, _ := flags.GetString("content")

	dataType, err := domain.ParseDataType(typeName)
	if err != nil {
		return err
	}
	if group < 0 {
		return domain.ErrInvalidGroup
	}

	if !flags.Changed("content") {
		if isTerminal() {
			return errors.New("no content: pass --content or pipe text on stdin")
		}
		data, err := io.ReadAll(stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		content = string(data)
	}

	result := extractionService.TestPattern(content, pattern, group, dataType)

	cmd.Println(matchMark(result.Matched))
	if !result.Matched {
		return nil
	}
	cmd.Printf("  Raw:   %q\n", result.Raw)
	if result.Value == nil {
		cmd.Printf("  Value: null (not a valid %s)\n", dataType)
		return nil
	}
	cmd.Printf("  Value: %s (%s)\n", result.Value.String(), result.Value.Kind)
	return nil
}
