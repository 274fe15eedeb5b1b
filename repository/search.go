// Package repository holds the data-access layer: the credential store, the
// reference-record store and the filtered search query builder.
// File: repository/search.go
package repository

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ---------------- search specification ----------------

// FieldKind selects how a submitted filter value becomes a predicate.
type FieldKind int

const (
	// TextField matches case-insensitive substrings.
	TextField FieldKind = iota
	// ExactField matches the stored value exactly.
	ExactField
	// DateField matches a year, a month or a single day.
	DateField
)

// SearchField is one optional filter. Name is both the form key and the column.
type SearchField struct {
	Name string
	Kind FieldKind
}

// SearchSpec describes the searchable shape of one record kind.
type SearchSpec struct {
	Table   string
	Columns []string
	Fields  []SearchField
}

// FieldNames lists the filter keys in declaration order.
func (s SearchSpec) FieldNames() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

var (
	StakeholderSearch = SearchSpec{
		Table:   "stakeholders",
		Columns: []string{"id", "name", "type", "description", "contact"},
		Fields: []SearchField{
			{Name: "name", Kind: TextField},
			{Name: "type", Kind: TextField},
			{Name: "description", Kind: TextField},
			{Name: "contact", Kind: TextField},
		},
	}

	LiteratureSearch = SearchSpec{
		Table:   "literature",
		Columns: []string{"id", "title", "author", "keywords", "rating", "availability"},
		Fields: []SearchField{
			{Name: "title", Kind: TextField},
			{Name: "author", Kind: TextField},
			{Name: "keywords", Kind: TextField},
			{Name: "rating", Kind: ExactField},
			{Name: "availability", Kind: TextField},
		},
	}

	EventSearch = SearchSpec{
		Table:   "events",
		Columns: []string{"id", "name", "description", "country", "time", "info"},
		Fields: []SearchField{
			{Name: "name", Kind: TextField},
			{Name: "description", Kind: TextField},
			{Name: "country", Kind: TextField},
			{Name: "time", Kind: DateField},
			{Name: "info", Kind: TextField},
		},
	}
)

// ---------------- query building ----------------

// ErrInvalidDateFilter is returned when a date filter is not YYYY, YYYY-MM or YYYY-MM-DD.
var ErrInvalidDateFilter = errors.New("date filter must be YYYY, YYYY-MM or YYYY-MM-DD")

// SearchQuery is a named-parameter statement ready for sqlx.Named.
type SearchQuery struct {
	SQL  string
	Args map[string]interface{}
}

// BuildSearch turns the submitted filter values into a parameterized SELECT.
// Empty or absent values add no predicate, so no filters selects every row.
// Text values are bound as submitted, surrounding spaces included. Values are
// always bound; identifiers come only from spec.
func BuildSearch(spec SearchSpec, values map[string]string) (SearchQuery, error) {
	var b strings.Builder
	args := map[string]interface{}{}

	fmt.Fprintf(&b, "SELECT %s FROM %s WHERE 1=1", strings.Join(spec.Columns, ", "), spec.Table)

	for _, f := range spec.Fields {
		value := values[f.Name]
		if f.Kind == DateField {
			value = strings.TrimSpace(value)
		}
		if value == "" {
			continue
		}
		switch f.Kind {
		case TextField:
			fmt.Fprintf(&b, " AND LOWER(%s) LIKE LOWER(:%s)", f.Name, f.Name)
			args[f.Name] = "%" + strings.ToLower(value) + "%"
		case ExactField:
			fmt.Fprintf(&b, " AND %s = :%s", f.Name, f.Name)
			args[f.Name] = value
		case DateField:
			r, err := ParseDateFilter(value)
			if err != nil {
				return SearchQuery{}, err
			}
			if r.Exact {
				fmt.Fprintf(&b, " AND %s = :%s", f.Name, f.Name)
				args[f.Name] = r.From
			} else {
				fmt.Fprintf(&b, " AND %s >= :%s_from AND %s < :%s_to", f.Name, f.Name, f.Name, f.Name)
				args[f.Name+"_from"] = r.From
				args[f.Name+"_to"] = r.To
			}
		}
	}

	b.WriteString(" ORDER BY id")
	return SearchQuery{SQL: b.String(), Args: args}, nil
}

// ---------------- date filters ----------------

// DateRange is the half-open interval [From, To) a date filter selects.
// Exact is set for a single day, where From alone is compared by equality.
type DateRange struct {
	From  time.Time
	To    time.Time
	Exact bool
}

// ParseDateFilter accepts a year, a year-month or a full date.
func ParseDateFilter(value string) (DateRange, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return DateRange{From: t, To: t.AddDate(0, 0, 1), Exact: true}, nil
	}
	if t, err := time.Parse("2006-01", value); err == nil {
		return DateRange{From: t, To: t.AddDate(0, 1, 0)}, nil
	}
	if t, err := time.Parse("2006", value); err == nil {
		return DateRange{From: t, To: t.AddDate(1, 0, 0)}, nil
	}
	return DateRange{}, fmt.Errorf("%w: got %q", ErrInvalidDateFilter, value)
}
