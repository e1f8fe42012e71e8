// Package query implements the flat key:value filter mini-language used by
// query-based issue selection.
//
// A query is zero or more whitespace-separated key:value tokens, combined
// with AND semantics. Values may be double-quoted to contain whitespace
// ("team:\"Platform Infra\""). There is no OR, negation, or grouping.
package query

import (
	"regexp"
	"strconv"
	"strings"
)

// Filter is the structured result of parsing a query string. Zero-value
// fields mean the key was absent (or dropped); an empty filter matches
// everything.
type Filter struct {
	State    string
	Team     string
	Assignee string
	Label    string
	Project  string
	Cycle    string
	Priority *int // nil when absent or out of range
}

// IsEmpty reports whether no recognized filter key was present.
func (f Filter) IsEmpty() bool {
	return f.State == "" && f.Team == "" && f.Assignee == "" &&
		f.Label == "" && f.Project == "" && f.Cycle == "" && f.Priority == nil
}

// SupportedKeys lists the filter keys the parser recognizes, as a
// discoverability aid for help text and error messages. Unrecognized keys
// are silently dropped, not rejected.
func SupportedKeys() []string {
	return []string{"state", "team", "assignee", "label", "project", "cycle", "priority"}
}

// colonSpacing matches whitespace immediately surrounding a colon, outside
// of any quoting concern ("state : Todo" normalizes to "state:Todo").
var colonSpacing = regexp.MustCompile(`\s*:\s*`)

// Parse turns a query string into a Filter.
//
// Unrecognized keys are dropped. Priority values that fail to parse as an
// integer, or fall outside [0,4], are dropped. When the same key appears
// more than once, the last occurrence wins. Empty input yields an empty
// filter.
func Parse(q string) Filter {
	var f Filter

	q = strings.TrimSpace(q)
	if q == "" {
		return f
	}
	q = colonSpacing.ReplaceAllString(q, ":")

	for _, token := range tokenize(q) {
		key, value, ok := strings.Cut(token, ":")
		if !ok || value == "" {
			continue
		}
		value = strings.Trim(value, `"`)

		switch strings.ToLower(key) {
		case "state":
			f.State = value
		case "team":
			f.Team = value
		case "assignee":
			f.Assignee = value
		case "label":
			f.Label = value
		case "project":
			f.Project = value
		case "cycle":
			f.Cycle = value
		case "priority":
			if p, err := strconv.Atoi(value); err == nil && p >= 0 && p <= 4 {
				f.Priority = &p
			}
		}
	}

	return f
}

// tokenize splits on whitespace, keeping double-quoted spans intact.
func tokenize(q string) []string {
	var tokens []string
	var b strings.Builder
	inQuotes := false

	for _, r := range q {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			b.WriteRune(r)
		case !inQuotes && (r == ' ' || r == '\t' || r == '\n'):
			if b.Len() > 0 {
				tokens = append(tokens, b.String())
				b.Reset()
			}
		default:
			b.WriteRune(r)
		}
	}
	if b.Len() > 0 {
		tokens = append(tokens, b.String())
	}
	return tokens
}
