// Package report renders analysis results to Markdown files, Excel
// workbooks, and the console.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pmlens/pmlens/internal/types"
)

// Payload carries everything a reporter may render. Recommendation and
// Result may each be nil when the pipeline stopped early.
type Payload struct {
	ProjectPath    string
	GeneratedAt    time.Time
	Recommendation *types.Recommendation
	Result         *types.ProcessingResult
	Files          []*types.FileInfo
}

// Options controls where and how file-producing reporters write.
type Options struct {
	Directory      string
	TimestampFiles bool
	Overwrite      bool
}

// Reporter renders a payload. File reporters return the written path;
// the console reporter returns the empty string.
type Reporter interface {
	Format() string
	Generate(payload *Payload, opts Options) (string, error)
}

// ForFormat maps a config output-format name to its reporter, or nil for
// names it does not know.
func ForFormat(name string) Reporter {
	switch name {
	case "markdown", "md":
		return NewMarkdown()
	case "excel", "xlsx":
		return NewExcel()
	case "console":
		return NewConsole(os.Stdout)
	default:
		return nil
	}
}

// outputPath builds the report file path, creating the directory and
// refusing to clobber existing files unless allowed.
func outputPath(opts Options, stem, ext string, generatedAt time.Time) (string, error) {
	dir := opts.Directory
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating report directory: %w", err)
	}

	name := stem + ext
	if opts.TimestampFiles {
		name = fmt.Sprintf("%s_%s%s", stem, generatedAt.Format("20060102_150405"), ext)
	}
	path := filepath.Join(dir, name)

	if !opts.Overwrite {
		if _, err := os.Stat(path); err == nil {
			return "", fmt.Errorf("report %s already exists", path)
		}
	}
	return path, nil
}
