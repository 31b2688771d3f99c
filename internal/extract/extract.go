// Package extract pulls structured project entities (risks, deliverables,
// milestones, stakeholders) out of parsed documents. Each extractor works
// in tiers: structured tables first, then labeled sections, then a raw
// text scan.
package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pmlens/pmlens/internal/types"
)

// columnRule maps header keyword variants to a canonical field name.
// Rules are checked in order; the first rule a header matches wins.
type columnRule struct {
	field string
	terms []string
}

// mapColumns assigns each header to at most one canonical field. Later
// headers do not displace earlier winners.
func mapColumns(headers []string, rules []columnRule) map[string]string {
	mapping := make(map[string]string)
	for _, header := range headers {
		lower := strings.ToLower(strings.TrimSpace(header))
		for _, rule := range rules {
			if _, taken := mapping[rule.field]; taken {
				continue
			}
			if containsAny(lower, rule.terms) {
				mapping[rule.field] = header
				break
			}
		}
	}
	return mapping
}

// fieldValue resolves a canonical field against a row, falling back to a
// substring match over the row's own keys.
func fieldValue(row map[string]string, mapping map[string]string, field string) string {
	if col, ok := mapping[field]; ok {
		return strings.TrimSpace(row[col])
	}
	for key, value := range row {
		if strings.Contains(strings.ToLower(key), strings.ToLower(field)) {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

func containsAny(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

// parseScale turns a probability/impact cell into a 0..1 value. Numbers
// (optionally percentages) are used directly; otherwise word buckets map
// to 0.8 / 0.5 / 0.2, defaulting to 0.5.
func parseScale(value string, high, medium, low []string) float64 {
	fields := strings.Fields(strings.TrimSpace(value))
	if len(fields) == 0 {
		return 0.5
	}
	token := fields[0]

	if n, err := strconv.ParseFloat(strings.TrimSuffix(token, "%"), 64); err == nil {
		if n > 1 {
			n /= 100
		}
		return types.Clamp01(n)
	}

	lower := strings.ToLower(token)
	switch {
	case containsAny(lower, high):
		return 0.8
	case containsAny(lower, medium):
		return 0.5
	case containsAny(lower, low):
		return 0.2
	default:
		return 0.5
	}
}

var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"02/01/2006",
	"2006/01/02",
	"01-02-2006",
	"02-01-2006",
}

// parseDate tries the accepted layouts in order. The zero time signals
// an absent or unparseable date.
func parseDate(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}

var listSplitRe = regexp.MustCompile(`[,;|\n]`)

// parseList splits a delimited cell into trimmed entries, dropping
// single-character fragments.
func parseList(value string) []string {
	var out []string
	for _, part := range listSplitRe.Split(value, -1) {
		part = strings.TrimSpace(part)
		if len(part) > 1 {
			out = append(out, part)
		}
	}
	return out
}

// parseLevel maps influence/interest words onto the four-step scale,
// defaulting to medium.
func parseLevel(value string) types.StakeholderLevel {
	lower := strings.ToLower(strings.TrimSpace(value))
	switch {
	case lower == "":
		return types.LevelMedium
	case containsAny(lower, []string{"very high", "very_high", "critical"}):
		return types.LevelVeryHigh
	case containsAny(lower, []string{"high", "strong"}):
		return types.LevelHigh
	case containsAny(lower, []string{"medium", "moderate", "average"}):
		return types.LevelMedium
	case containsAny(lower, []string{"low", "weak", "minimal"}):
		return types.LevelLow
	default:
		return types.LevelMedium
	}
}

// normalizeStatus lowercases and folds separators so status words match
// regardless of snake/kebab/space styling.
func normalizeStatus(value string) string {
	lower := strings.ToLower(strings.TrimSpace(value))
	lower = strings.ReplaceAll(lower, "_", " ")
	return strings.ReplaceAll(lower, "-", " ")
}

// textEntries splits free text into candidate entries on blank lines and
// horizontal rules, keeping only entries mentioning one of the keywords.
var entrySplitRe = regexp.MustCompile(`\n\s*\n|\n-{3,}|\n={3,}`)

func textEntries(content string, keywords []string) []string {
	var entries []string
	for _, chunk := range entrySplitRe.Split(content, -1) {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		if containsAny(strings.ToLower(chunk), keywords) {
			entries = append(entries, chunk)
		}
	}
	return entries
}

// firstLine returns the first non-empty line, truncated to max runes.
func firstLine(entry string, max int) string {
	for _, line := range strings.Split(entry, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		runes := []rune(line)
		if len(runes) > max {
			return string(runes[:max])
		}
		return line
	}
	return ""
}
