// Package mdparse parses project-management Markdown documents into
// headings, sections, pipe tables, and front matter.
package mdparse

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	headerRe      = regexp.MustCompile(`(?m)^(#{1,6})\s+(.+)$`)
	tableRe       = regexp.MustCompile(`(?m)^\|(.+)\|\s*\n\|[-\s|:]+\|\s*\n((?:\|.+\|\s*\n?)*)`)
	frontMatterRe = regexp.MustCompile(`(?s)\A---\s*\n(.*?)\n---\s*\n`)
	bulletRe      = regexp.MustCompile(`(?m)^\s*[-*+]\s+(.+)$`)
	numberedRe    = regexp.MustCompile(`(?m)^\s*\d+\.\s+(.+)$`)
	h1Re          = regexp.MustCompile(`(?m)^#\s+(.+)$`)
)

// Header is a single heading with its nesting level.
type Header struct {
	Level    int
	Text     string
	Position int
}

// Section is the content between a heading and the next heading of equal
// or shallower level.
type Section struct {
	Title   string
	Level   int
	Content string
}

// Table is a parsed pipe table. Rows are keyed by header text; rows whose
// cell count disagrees with the header are dropped.
type Table struct {
	Headers []string
	Rows    []map[string]string
}

// Document is the parsed form of one Markdown file.
type Document struct {
	Path       string
	Title      string
	Metadata   map[string]any
	Headers    []Header
	Sections   []Section
	Tables     []Table
	Bullets    []string
	Numbered   []string
	RawContent string
}

// ParseFile reads and parses a Markdown file.
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	doc := Parse(string(data))
	doc.Path = path
	return doc, nil
}

// Parse parses Markdown content. It never fails: malformed elements are
// simply not extracted.
func Parse(content string) *Document {
	doc := &Document{
		Metadata:   parseFrontMatter(content),
		Headers:    parseHeaders(content),
		Tables:     parseTables(content),
		RawContent: content,
	}
	doc.Sections = parseSections(content, doc.Headers)
	doc.Title = parseTitle(content, doc.Metadata)
	for _, m := range bulletRe.FindAllStringSubmatch(content, -1) {
		doc.Bullets = append(doc.Bullets, strings.TrimSpace(m[1]))
	}
	for _, m := range numberedRe.FindAllStringSubmatch(content, -1) {
		doc.Numbered = append(doc.Numbered, strings.TrimSpace(m[1]))
	}
	return doc
}

// SectionByKeyword returns the first section whose title contains any of
// the keywords, case-insensitive.
func (d *Document) SectionByKeyword(keywords ...string) (Section, bool) {
	for _, s := range d.Sections {
		title := strings.ToLower(s.Title)
		for _, kw := range keywords {
			if strings.Contains(title, strings.ToLower(kw)) {
				return s, true
			}
		}
	}
	return Section{}, false
}

// TablesWithColumns returns tables whose headers contain at least one of
// the keywords, case-insensitive.
func (d *Document) TablesWithColumns(keywords ...string) []Table {
	var out []Table
	for _, t := range d.Tables {
		if tableHasColumn(t, keywords) {
			out = append(out, t)
		}
	}
	return out
}

func tableHasColumn(t Table, keywords []string) bool {
	for _, h := range t.Headers {
		header := strings.ToLower(h)
		for _, kw := range keywords {
			if strings.Contains(header, strings.ToLower(kw)) {
				return true
			}
		}
	}
	return false
}

func parseFrontMatter(content string) map[string]any {
	m := frontMatterRe.FindStringSubmatch(content)
	if m == nil {
		return nil
	}
	meta := make(map[string]any)
	if err := yaml.Unmarshal([]byte(m[1]), &meta); err != nil {
		return nil
	}
	return meta
}

func parseTitle(content string, meta map[string]any) string {
	if m := h1Re.FindStringSubmatch(content); m != nil {
		return strings.TrimSpace(m[1])
	}
	if title, ok := meta["title"].(string); ok {
		return title
	}
	return ""
}

func parseHeaders(content string) []Header {
	var headers []Header
	for _, idx := range headerRe.FindAllStringSubmatchIndex(content, -1) {
		headers = append(headers, Header{
			Level:    idx[3] - idx[2],
			Text:     strings.TrimSpace(content[idx[4]:idx[5]]),
			Position: idx[0],
		})
	}
	return headers
}

func parseSections(content string, headers []Header) []Section {
	var sections []Section
	for i, h := range headers {
		end := len(content)
		for j := i + 1; j < len(headers); j++ {
			if headers[j].Level <= h.Level {
				end = headers[j].Position
				break
			}
		}
		body := content[h.Position:end]
		if nl := strings.IndexByte(body, '\n'); nl >= 0 {
			body = body[nl+1:]
		} else {
			body = ""
		}
		sections = append(sections, Section{
			Title:   h.Text,
			Level:   h.Level,
			Content: strings.TrimSpace(body),
		})
	}
	return sections
}

func parseTables(content string) []Table {
	var tables []Table
	for _, m := range tableRe.FindAllStringSubmatch(content, -1) {
		headers := splitRow(m[1])
		if len(headers) == 0 {
			continue
		}
		var rows []map[string]string
		for _, line := range strings.Split(strings.TrimSpace(m[2]), "\n") {
			line = strings.TrimSpace(line)
			if !strings.HasPrefix(line, "|") {
				continue
			}
			cells := splitRow(line)
			if len(cells) != len(headers) {
				continue
			}
			row := make(map[string]string, len(headers))
			for i, h := range headers {
				row[h] = cells[i]
			}
			rows = append(rows, row)
		}
		if len(rows) > 0 {
			tables = append(tables, Table{Headers: headers, Rows: rows})
		}
	}
	return tables
}

// splitRow splits a pipe-delimited row into trimmed cells. Only the single
// leading and trailing pipe are stripped, so empty interior and edge cells
// survive (blank Owner/Mitigation columns are a normal register shape).
func splitRow(row string) []string {
	row = strings.TrimSpace(row)
	row = strings.TrimPrefix(row, "|")
	row = strings.TrimSuffix(row, "|")
	parts := strings.Split(row, "|")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}
