// Package filesystem reads documents from a local directory tree and
// watches it for changes.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/sercha-extract/internal/core/domain"
	"github.com/custodia-labs/sercha-extract/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-extract/internal/logger"
)

// Ensure Connector implements the interface.
var _ driven.Connector = (*Connector)(nil)

// MaxFileSize is the largest file read; bigger files are skipped.
const MaxFileSize = 10 << 20

// ErrClosed is returned when using a closed connector.
var ErrClosed = errors.New("connector closed")

// fallbackMIMETypes covers extensions the platform mime table may not know.
var fallbackMIMETypes = map[string]string{
	".md":       "text/markdown",
	".markdown": "text/markdown",
	".eml":      "message/rfc822",
	".txt":      "text/plain",
	".csv":      "text/csv",
	".tsv":      "text/tab-separated-values",
	".log":      "text/plain",
	".yaml":     "text/yaml",
	".yml":      "text/yaml",
	".toml":     "text/toml",
}

// Connector reads files under a root directory.
type Connector struct {
	rootPath string
	settings domain.WatchSettings

	mu      sync.Mutex
	closed  bool
	watcher *fsnotify.Watcher
}

// New creates a filesystem connector rooted at rootPath.
// Only files whose extension settings accepts are read.
func New(rootPath string, settings domain.WatchSettings) *Connector {
	return &Connector{
		rootPath: rootPath,
		settings: settings,
	}
}

// RootPath returns the watched directory.
func (c *Connector) RootPath() string {
	return c.rootPath
}

// Validate checks that the root path exists and is a directory.
func (c *Connector) Validate(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	info, err := os.Stat(c.rootPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("root path does not exist: %s", c.rootPath)
		}
		return fmt.Errorf("cannot access root path: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("root path is not a directory: %s", c.rootPath)
	}
	return nil
}

// FullSync walks the root directory and emits every accepted file.
// Hidden files and directories are skipped. Unreadable files are reported
// on the error channel and the walk continues.
func (c *Connector) FullSync(ctx context.Context) (<-chan domain.RawDocument, <-chan error) {
	docs := make(chan domain.RawDocument)
	errs := make(chan error, 1)

	go func() {
		defer close(docs)
		defer close(errs)

		if err := c.Validate(ctx); err != nil {
			errs <- err
			return
		}

		walkErr := filepath.WalkDir(c.rootPath, func(path string, d fs.DirEntry, err error) error {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if err != nil {
				logger.Warnw("walk error", "path", path, "error", err)
				return nil
			}
			if c.isHiddenPath(path) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() || !c.settings.Accepts(filepath.Ext(path)) {
				return nil
			}

			raw, readErr := c.readFile(path)
			if readErr != nil {
				logger.Warnw("skipping file", "path", path, "error", readErr)
				return nil
			}
			if raw == nil {
				return nil
			}

			select {
			case docs <- *raw:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		if walkErr != nil {
			errs <- walkErr
		}
	}()

	return docs, errs
}

// Watch emits file changes under the root directory until ctx is cancelled.
// Created and written files are throttled to settings.MaxRate per second;
// deletions are never throttled. New subdirectories are watched as they appear.
func (c *Connector) Watch(ctx context.Context) (<-chan domain.RawDocumentChange, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrClosed
	}
	if err := c.Validate(ctx); err != nil {
		return nil, fmt.Errorf("root path error: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := c.addTree(watcher, c.rootPath); err != nil {
		watcher.Close()
		return nil, err
	}
	c.watcher = watcher

	limiter := rate.NewLimiter(rate.Inf, 1)
	if c.settings.MaxRate > 0 {
		limiter = rate.NewLimiter(rate.Limit(c.settings.MaxRate), 1)
	}

	changes := make(chan domain.RawDocumentChange)
	go c.watchLoop(ctx, watcher, limiter, changes)

	return changes, nil
}

func (c *Connector) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, limiter *rate.Limiter, changes chan<- domain.RawDocumentChange) {
	defer close(changes)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Create) && !c.isHiddenPath(event.Name) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := c.addTree(watcher, event.Name); err != nil {
						logger.Warnw("cannot watch directory", "path", event.Name, "error", err)
					}
					continue
				}
			}

			change := c.handleFsEvent(event)
			if change == nil {
				continue
			}
			if change.Type != domain.ChangeDeleted {
				if err := limiter.Wait(ctx); err != nil {
					return
				}
			}

			select {
			case changes <- *change:
			case <-ctx.Done():
				return
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warnw("watcher error", "error", err)
		}
	}
}

// addTree watches dir and every non-hidden directory below it.
func (c *Connector) addTree(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if c.isHiddenPath(path) {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

// handleFsEvent converts an fsnotify event into a change.
// It returns nil for events that should be ignored.
func (c *Connector) handleFsEvent(event fsnotify.Event) *domain.RawDocumentChange {
	if c.isHiddenPath(event.Name) || !c.settings.Accepts(filepath.Ext(event.Name)) {
		return nil
	}

	var changeType domain.ChangeType
	switch {
	case event.Has(fsnotify.Create):
		changeType = domain.ChangeCreated
	case event.Has(fsnotify.Write):
		changeType = domain.ChangeUpdated
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return &domain.RawDocumentChange{
			Type: domain.ChangeDeleted,
			Document: domain.RawDocument{
				URI:      event.Name,
				MIMEType: DetectMIMEType(event.Name),
			},
		}
	default:
		return nil
	}

	raw, err := c.readFile(event.Name)
	if err != nil {
		logger.Debugw("skipping event", "path", event.Name, "error", err)
		return nil
	}
	if raw == nil {
		return nil
	}
	return &domain.RawDocumentChange{Type: changeType, Document: *raw}
}

// readFile loads a regular file. It returns nil for anything else and for
// files above MaxFileSize.
func (c *Connector) readFile(path string) (*domain.RawDocument, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, nil
	}
	if info.Size() > MaxFileSize {
		logger.Warnw("file too large", "path", path, "size", info.Size())
		return nil, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &domain.RawDocument{
		URI:      path,
		MIMEType: DetectMIMEType(path),
		Content:  content,
	}, nil
}

// Close stops watching. It is idempotent.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	if c.watcher != nil {
		err := c.watcher.Close()
		c.watcher = nil
		return err
	}
	return nil
}

// isHiddenPath reports whether path is hidden relative to the root.
// A root that itself lives under a dot directory is still watched.
func (c *Connector) isHiddenPath(path string) bool {
	rel, err := filepath.Rel(c.rootPath, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return isHidden(path)
	}
	return isHidden(rel)
}

// isHidden reports whether any element of path starts with a dot.
// The special elements "." and ".." are not hidden.
func isHidden(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == "" || part == "." || part == ".." {
			continue
		}
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}

// DetectMIMEType guesses a MIME type from the file extension,
// without parameters such as charset.
func DetectMIMEType(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return "text/plain"
	}
	if mimeType, ok := fallbackMIMETypes[ext]; ok {
		return mimeType
	}
	if mimeType := mime.TypeByExtension(ext); mimeType != "" {
		if mediaType, _, err := mime.ParseMediaType(mimeType); err == nil {
			return mediaType
		}
		return mimeType
	}
	return "application/octet-stream"
}
