// Package survey defines the question and segment structures produced by
// the header-parsing layer and consumed by the analysis engine.
package survey

import (
	"strings"

	"github.com/surveylens/surveylens/internal/dataset"
)

// Type classifies how a question's answers are encoded.
type Type string

const (
	TypeSingle  Type = "single"
	TypeMulti   Type = "multi"
	TypeRanking Type = "ranking"
)

// Level governs counting granularity: respondent-level questions
// deduplicate by respondent identity, row-level questions count every
// qualifying row (one row per product evaluation).
type Level string

const (
	LevelRespondent Level = "respondent"
	LevelRow        Level = "row"
)

// OverallLabel is the reserved group label/value selecting every row
// regardless of filters.
const OverallLabel = "Overall"

// OptionColumn is one answer option of a multi or ranking question. The
// primary header plus any alternate headers (case-insensitive duplicate
// columns in the source file) are always read as a union.
type OptionColumn struct {
	Label      string   `json:"label"`
	Header     string   `json:"header"`
	AltHeaders []string `json:"alt_headers,omitempty"`
}

// Headers returns the primary header followed by all alternates.
func (o OptionColumn) Headers() []string {
	if len(o.AltHeaders) == 0 {
		return []string{o.Header}
	}
	headers := make([]string, 0, 1+len(o.AltHeaders))
	headers = append(headers, o.Header)
	headers = append(headers, o.AltHeaders...)
	return headers
}

// QuestionDef describes one survey question after header parsing.
type QuestionDef struct {
	ID    string `json:"qid"`
	Label string `json:"label"`
	Type  Type   `json:"type"`
	Level Level  `json:"level"`

	// Options holds the binary option columns of a multi or ranking
	// question, in original column order.
	Options []OptionColumn `json:"options,omitempty"`

	// TextSummaryColumn holds pipe-delimited selected-option text per row.
	// Only consulted for multi questions with no binary option columns.
	TextSummaryColumn string `json:"text_summary_column,omitempty"`

	// SingleSourceColumn is the value column of a single-select question;
	// its distinct values are synthesized into options.
	SingleSourceColumn string `json:"single_source_column,omitempty"`
}

// UsesTextSummary reports whether multi-select resolution should read the
// pipe-delimited text column instead of binary option columns.
func (q *QuestionDef) UsesTextSummary() bool {
	return q.Type == TypeMulti && len(q.Options) == 0 && q.TextSummaryColumn != ""
}

// ResolveOptions returns the question's answer options. Single-select
// options are synthesized from the source column's distinct values in
// first-seen order; other types return the configured option columns with
// empty labels dropped.
func (q *QuestionDef) ResolveOptions(ds *dataset.Dataset) []OptionColumn {
	if q.Type == TypeSingle {
		values := ds.DistinctValues(q.SingleSourceColumn)
		options := make([]OptionColumn, 0, len(values))
		for _, v := range values {
			options = append(options, OptionColumn{Label: v, Header: q.SingleSourceColumn})
		}
		return options
	}

	options := make([]OptionColumn, 0, len(q.Options))
	for _, o := range q.Options {
		if strings.TrimSpace(o.Label) == "" {
			continue
		}
		options = append(options, o)
	}
	return options
}

// SegmentDef is one equality filter on a dataset column. The value
// OverallLabel selects every row regardless of the column.
type SegmentDef struct {
	Column string `json:"column"`
	Value  string `json:"value"`
}

// GroupDef names a row subset defined by segment filters. Filters on the
// same column are OR'd, filters across distinct columns are AND'd.
type GroupDef struct {
	Label    string       `json:"label"`
	Key      string       `json:"key"`
	Segments []SegmentDef `json:"segments,omitempty"`
}

// ComparisonSet splits respondents by the distinct values of one column,
// yielding one group per value. It is the primary-comparison input of the
// confounder analyses.
type ComparisonSet struct {
	Column string   `json:"column"`
	Values []string `json:"values"`
}

// Groups expands the comparison set into one GroupDef per value.
func (c ComparisonSet) Groups() []GroupDef {
	groups := make([]GroupDef, 0, len(c.Values))
	for _, v := range c.Values {
		groups = append(groups, GroupDef{
			Label:    v,
			Key:      KeyForLabel(v),
			Segments: []SegmentDef{{Column: c.Column, Value: v}},
		})
	}
	return groups
}

// ProductBucket groups row-level product evaluations by attribute
// filters, e.g. all rows whose product belongs to one price tier.
type ProductBucket struct {
	Label   string       `json:"label"`
	Filters []SegmentDef `json:"filters"`
}

// Group converts the bucket into an equivalent GroupDef.
func (p ProductBucket) Group() GroupDef {
	return GroupDef{Label: p.Label, Key: KeyForLabel(p.Label), Segments: p.Filters}
}

// KeyForLabel derives a stable, JSON-safe group key from a display label.
func KeyForLabel(label string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(label)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "_"
	}
	return b.String()
}

// OverallGroup returns the reserved group selecting all rows.
func OverallGroup() GroupDef {
	return GroupDef{Label: OverallLabel, Key: KeyForLabel(OverallLabel)}
}

// Index provides qid lookup for question-aware segment resolution.
type Index map[string]*QuestionDef

// NewIndex builds an Index from a question list.
func NewIndex(questions []*QuestionDef) Index {
	idx := make(Index, len(questions))
	for _, q := range questions {
		idx[q.ID] = q
	}
	return idx
}
