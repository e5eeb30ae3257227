// Package learning defines the journal entry model and the pure
// transformations the UI applies to it: attachment and custom-property
// codecs, tag splitting, category aggregation, and client-side
// filtering and sorting.
package learning

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// DateLayout is the calendar-date form learnings travel in.
const DateLayout = "2006-01-02"

// DefaultCategories are always offered even when no entry uses them.
var DefaultCategories = []string{"Job", "Life"}

// Attachment is an uploaded file reference associated with a learning.
type Attachment struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

// Learning is a single journaled record. Attachments and
// CustomProperties are always held decoded; the serialized string form
// exists only on the wire.
type Learning struct {
	ID               int64
	Title            string
	Description      string
	Category         string
	Date             time.Time
	Tags             string
	ImageURL         string
	Attachments      []Attachment
	CustomProperties map[string]string
}

// PropertyRow is one editable key/value row in the custom-property
// editor. Rows keep their order until folded into a mapping on submit.
type PropertyRow struct {
	Key   string
	Value string
}

// SortKey selects the client-side ordering of a loaded page.
type SortKey string

const (
	SortByDate     SortKey = "date"
	SortByCategory SortKey = "category"
	SortByTitle    SortKey = "title"
)

// EncodeAttachments serializes an attachment list for transport. An
// empty list encodes to absent (nil) rather than "[]" so the backend
// stores null for entries without attachments.
func EncodeAttachments(list []Attachment) (*string, error) {
	if len(list) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(list)
	if err != nil {
		return nil, fmt.Errorf("encode attachments: %w", err)
	}
	s := string(raw)
	return &s, nil
}

// DecodeAttachments parses the stored attachment string. Absent or
// blank input decodes to an empty list.
func DecodeAttachments(raw *string) ([]Attachment, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	var list []Attachment
	if err := json.Unmarshal([]byte(*raw), &list); err != nil {
		return nil, fmt.Errorf("decode attachments: %w", err)
	}
	return list, nil
}

// EncodeProperties serializes a custom-property mapping for transport.
// An empty mapping encodes to absent (nil) rather than "{}".
func EncodeProperties(props map[string]string) (*string, error) {
	if len(props) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(props)
	if err != nil {
		return nil, fmt.Errorf("encode custom properties: %w", err)
	}
	s := string(raw)
	return &s, nil
}

// DecodeProperties parses the stored custom-property string. Absent or
// blank input decodes to an empty mapping.
func DecodeProperties(raw *string) (map[string]string, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	var props map[string]string
	if err := json.Unmarshal([]byte(*raw), &props); err != nil {
		return nil, fmt.Errorf("decode custom properties: %w", err)
	}
	return props, nil
}

// FoldProperties collapses editor rows into the submitted mapping.
// Rows with a blank key (after trimming) are dropped; later rows with a
// duplicate key overwrite earlier ones.
func FoldProperties(rows []PropertyRow) map[string]string {
	var props map[string]string
	for _, row := range rows {
		key := strings.TrimSpace(row.Key)
		if key == "" {
			continue
		}
		if props == nil {
			props = make(map[string]string)
		}
		props[key] = row.Value
	}
	return props
}

// PropertyRows expands a mapping into editor rows in stable key order.
func PropertyRows(props map[string]string) []PropertyRow {
	if len(props) == 0 {
		return nil
	}
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	rows := make([]PropertyRow, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, PropertyRow{Key: k, Value: props[k]})
	}
	return rows
}

// SplitTags breaks the comma-separated tag string into trimmed chips.
// A blank string yields no chips.
func SplitTags(tags string) []string {
	if strings.TrimSpace(tags) == "" {
		return nil
	}
	parts := strings.Split(tags, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Categories returns the picklist shown to the user: the defaults plus
// every category observed in the loaded entries, deduplicated, defaults
// first and the rest in first-seen order.
func Categories(entries []Learning) []string {
	seen := make(map[string]struct{}, len(DefaultCategories)+len(entries))
	out := make([]string, 0, len(DefaultCategories)+len(entries))
	for _, c := range DefaultCategories {
		seen[c] = struct{}{}
		out = append(out, c)
	}
	for _, e := range entries {
		c := strings.TrimSpace(e.Category)
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

// Filter returns the entries whose title, description, tags, or
// category contain term, case-insensitively. A blank term matches
// everything.
func Filter(entries []Learning, term string) []Learning {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return entries
	}
	out := make([]Learning, 0, len(entries))
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Title), term) ||
			strings.Contains(strings.ToLower(e.Description), term) ||
			strings.Contains(strings.ToLower(e.Tags), term) ||
			strings.Contains(strings.ToLower(e.Category), term) {
			out = append(out, e)
		}
	}
	return out
}

// Sort returns a sorted copy of entries. Title and category sort
// ascending with locale-aware collation; date sorts newest first.
func Sort(entries []Learning, key SortKey) []Learning {
	out := make([]Learning, len(entries))
	copy(out, entries)

	switch key {
	case SortByCategory:
		coll := collate.New(language.Und)
		sort.SliceStable(out, func(i, j int) bool {
			return coll.CompareString(out[i].Category, out[j].Category) < 0
		})
	case SortByTitle:
		coll := collate.New(language.Und)
		sort.SliceStable(out, func(i, j int) bool {
			return coll.CompareString(out[i].Title, out[j].Title) < 0
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Date.After(out[j].Date)
		})
	}
	return out
}

// Reverse returns entries in the opposite order. The table view's
// direction toggle flips whatever order the rows already have instead
// of re-sorting by the active column.
func Reverse(entries []Learning) []Learning {
	out := make([]Learning, len(entries))
	for i, e := range entries {
		out[len(entries)-1-i] = e
	}
	return out
}

var imageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".bmp":  {},
	".webp": {},
}

// IsImageFilename reports whether the attachment should get an inline
// image preview rather than generic file iconography.
func IsImageFilename(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	_, ok := imageExtensions[ext]
	return ok
}

// IsURL reports whether a custom-property value should render as a
// hyperlink.
func IsURL(value string) bool {
	return strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://")
}

// ParseDate reads a wire-format calendar date. A blank value yields the
// zero time.
func ParseDate(value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", value, err)
	}
	return t, nil
}

// FormatDate writes a calendar date in wire format, blank for the zero
// time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}
