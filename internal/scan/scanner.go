// Package scan discovers project-management documents in a directory tree
// and classifies them by document type and format.
package scan

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/pmlens/pmlens/internal/types"
)

// defaultPatterns matches filenames (lowercased) to document types. Order
// matters: the first type whose patterns match becomes the primary
// classification when a filename is ambiguous.
var defaultPatterns = []struct {
	docType  types.DocumentType
	patterns []string
}{
	{types.DocCharter, []string{
		"*charter*", "*project*charter*", "*project_charter*",
		"charter.*", "project-charter.*",
	}},
	{types.DocRiskRegister, []string{
		"*risk*", "*risk*register*", "*risk_register*", "*risks*",
		"risk-register.*", "risk_management.*", "*risk*plan*",
	}},
	{types.DocStakeholderRegister, []string{
		"*stakeholder*", "*stakeholder*register*", "*stakeholder_register*",
		"stakeholder-register.*", "*stakeholders*",
	}},
	{types.DocWBS, []string{
		"*wbs*", "*work*breakdown*", "*work_breakdown*",
		"work-breakdown.*", "*deliverable*", "*scope*",
	}},
	{types.DocRoadmap, []string{
		"*roadmap*", "*timeline*", "*schedule*", "*plan*",
		"roadmap.*", "project-timeline.*", "*milestones*",
	}},
	{types.DocProjectSchedule, []string{
		"*.mpp", "*schedule*", "*project*plan*", "*timeline*",
		"schedule.*", "project-schedule.*",
	}},
}

// formatExtensions maps file extensions to formats.
var formatExtensions = map[string]types.FileFormat{
	".md":       types.FormatMarkdown,
	".markdown": types.FormatMarkdown,
	".xlsx":     types.FormatExcel,
	".xls":      types.FormatExcelLegacy,
	".mpp":      types.FormatMicrosoftProject,
	".yaml":     types.FormatYAML,
	".yml":      types.FormatYAML,
	".json":     types.FormatJSON,
	".csv":      types.FormatCSV,
}

// Scanner walks a project directory and produces FileInfo records for the
// documents it recognizes.
type Scanner struct {
	// MaxFileSize caps the size of files the scanner will admit.
	MaxFileSize int64

	// IncludeHidden admits dotfiles and dot-directories when true.
	IncludeHidden bool

	// Recursive descends into subdirectories when true.
	Recursive bool

	// Probes limits concurrent readability probes.
	Probes int64
}

// NewScanner creates a scanner with the defaults the CLI uses: recursive,
// hidden files skipped, 100 MB cap.
func NewScanner() *Scanner {
	return &Scanner{
		MaxFileSize:   100 * 1024 * 1024,
		IncludeHidden: false,
		Recursive:     true,
		Probes:        int64(runtime.NumCPU()),
	}
}

// ScanDirectory discovers project files under root. Files that are too
// large, of unsupported formats, or unclassifiable are skipped; unknown
// document types are kept only when the format is Excel or MS Project,
// since those are worth probing for tabular data anyway.
func (s *Scanner) ScanDirectory(ctx context.Context, root string) ([]*types.FileInfo, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scanning %s: not a directory", root)
	}

	var files []*types.FileInfo
	err = filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtrees degrade the scan, they don't fail it.
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		name := d.Name()
		if d.IsDir() {
			if p == root {
				return nil
			}
			if !s.IncludeHidden && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			if !s.Recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if !s.IncludeHidden && strings.HasPrefix(name, ".") {
			return nil
		}

		fi, err := s.describeFile(p)
		if err != nil || fi == nil {
			return nil
		}
		files = append(files, fi)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}

	if err := s.probeReadability(ctx, files); err != nil {
		return nil, err
	}
	return files, nil
}

// describeFile builds the FileInfo record for a single path, or nil when
// the file should be skipped.
func (s *Scanner) describeFile(p string) (*types.FileInfo, error) {
	stat, err := os.Stat(p)
	if err != nil {
		return nil, err
	}
	if stat.Size() > s.MaxFileSize {
		return nil, nil
	}

	ext := strings.ToLower(filepath.Ext(p))
	format, ok := formatExtensions[ext]
	if !ok {
		return nil, nil
	}

	matched := MatchDocumentPatterns(filepath.Base(p))
	primary := matched[0]
	if primary == types.DocUnknown &&
		format != types.FormatExcel && format != types.FormatMicrosoftProject {
		return nil, nil
	}

	return &types.FileInfo{
		Path:             p,
		Format:           format,
		DocumentType:     primary,
		SizeBytes:        stat.Size(),
		LastModified:     stat.ModTime(),
		IsReadable:       true,
		ProcessingStatus: types.StatusNotStarted,
		MatchedPatterns:  matched,
	}, nil
}

// MatchDocumentPatterns matches a filename against the pattern table and
// returns every matching document type, primary first. Filenames that
// match nothing classify as unknown.
func MatchDocumentPatterns(filename string) []types.DocumentType {
	lower := strings.ToLower(filename)

	var matches []types.DocumentType
	for _, entry := range defaultPatterns {
		for _, pattern := range entry.patterns {
			if ok, _ := path.Match(pattern, lower); ok {
				matches = append(matches, entry.docType)
				break
			}
		}
	}
	if len(matches) == 0 {
		return []types.DocumentType{types.DocUnknown}
	}
	return matches
}

// probeReadability opens each file to verify it is actually readable,
// bounded by a semaphore so large catalogs don't exhaust file handles.
func (s *Scanner) probeReadability(ctx context.Context, files []*types.FileInfo) error {
	sem := semaphore.NewWeighted(max(s.Probes, 1))
	var wg sync.WaitGroup

	for _, fi := range files {
		if err := sem.Acquire(ctx, 1); err != nil {
			return err
		}
		wg.Add(1)
		go func(fi *types.FileInfo) {
			defer wg.Done()
			defer sem.Release(1)

			f, err := os.Open(fi.Path)
			if err != nil {
				fi.IsReadable = false
				fi.ErrorMessage = err.Error()
				return
			}
			f.Close()
		}(fi)
	}

	wg.Wait()
	return nil
}

// Statistics summarizes a scanned catalog.
type Statistics struct {
	TotalFiles      int
	ByFormat        map[types.FileFormat]int
	ByDocumentType  map[types.DocumentType]int
	TotalSizeBytes  int64
	ReadableFiles   int
	UnreadableFiles int
	NewestFile      string
	OldestFile      string
}

// ComputeStatistics aggregates counts, sizes, and age extremes.
func ComputeStatistics(files []*types.FileInfo) *Statistics {
	stats := &Statistics{
		TotalFiles:     len(files),
		ByFormat:       make(map[types.FileFormat]int),
		ByDocumentType: make(map[types.DocumentType]int),
	}

	var newest, oldest time.Time
	for _, fi := range files {
		stats.ByFormat[fi.Format]++
		stats.ByDocumentType[fi.DocumentType]++
		stats.TotalSizeBytes += fi.SizeBytes
		if fi.IsReadable {
			stats.ReadableFiles++
		} else {
			stats.UnreadableFiles++
		}
		if newest.IsZero() || fi.LastModified.After(newest) {
			newest = fi.LastModified
			stats.NewestFile = fi.Filename()
		}
		if oldest.IsZero() || fi.LastModified.Before(oldest) {
			oldest = fi.LastModified
			stats.OldestFile = fi.Filename()
		}
	}
	return stats
}
