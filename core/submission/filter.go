package submission

import (
	"sort"
	"strings"

	"github.com/ntic/scicon/core"
)

// AllValue is the dropdown value meaning "no constraint".
const AllValue = "ALL"

// Criterion is either "match anything" or "match exactly one value".
// The zero value matches anything.
type Criterion[T comparable] struct {
	value  T
	active bool
}

func Any[T comparable]() Criterion[T] { return Criterion[T]{} }

func Only[T comparable](v T) Criterion[T] { return Criterion[T]{value: v, active: true} }

// Value returns the expected value and whether the criterion is active.
func (c Criterion[T]) Value() (T, bool) { return c.value, c.active }

func (c Criterion[T]) Matches(v T) bool {
	return !c.active || c.value == v
}

type Filter struct {
	// Query is matched case-insensitively against title, event title, track and keywords.
	Query  string
	Status Criterion[Status]
	Event  Criterion[string]
	Type   Criterion[Type]
}

// haystack is what the free text query is searched in.
func haystack(s Submission) string {
	var b strings.Builder
	b.WriteString(s.Title)
	b.WriteByte(' ')
	b.WriteString(s.EventTitle)
	b.WriteByte(' ')
	b.WriteString(s.Track)
	for _, kw := range s.Keywords {
		b.WriteByte(' ')
		b.WriteString(kw)
	}
	return strings.ToLower(b.String())
}

func (f Filter) Matches(s Submission) bool {
	if !f.Status.Matches(s.Status) || !f.Event.Matches(s.EventID) || !f.Type.Matches(s.Type) {
		return false
	}
	query := core.CleanString(f.Query, true /* lower */)
	if query == "" {
		return true
	}
	return strings.Contains(haystack(s), query)
}

// Apply returns the records matching f, most recently updated first.
// Records updated at the same instant keep their relative input order. records is not modified.
func Apply(records []Submission, f Filter) []Submission {
	out := make([]Submission, 0, len(records))
	for _, r := range records {
		if f.Matches(r) {
			out = append(out, r.clone())
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out
}

// QueryFilter is the loosely typed form of a Filter, as bound from a query string or CLI flags.
// Dropdown fields accept AllValue or an empty string for "no constraint".
type QueryFilter struct {
	Search string `query:"search"`
	Status string `query:"status" validate:"omitempty,status_filter"`
	Event  string `query:"event"`
	Type   string `query:"type" validate:"omitempty,type_filter"`
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Status = core.CleanString(qf.Status)
	qf.Event = core.CleanString(qf.Event)
	qf.Type = core.CleanString(qf.Type)
	if !strings.EqualFold(qf.Status, AllValue) {
		qf.Status = strings.ToLower(qf.Status)
	}
	if !strings.EqualFold(qf.Type, AllValue) {
		qf.Type = strings.ToLower(qf.Type)
	}
}

func isAll(v string) bool { return v == "" || strings.EqualFold(v, AllValue) }

// Filter converts a validated QueryFilter into a Filter.
func (qf QueryFilter) Filter() Filter {
	f := Filter{Query: qf.Search}
	if !isAll(qf.Status) {
		f.Status = Only(Status(qf.Status))
	}
	if !isAll(qf.Event) {
		f.Event = Only(qf.Event)
	}
	if !isAll(qf.Type) {
		f.Type = Only(Type(qf.Type))
	}
	return f
}
