package recordstore

import (
	"slices"
)

type FieldKeyString = string
type FieldValString = string

/***** ListFilter *****/

// ListFilter defines the criteria for listing records from a collection:
// field predicates, sort order and an optional page size.
type ListFilter struct {
	predicates   []FieldPredicate
	allMustMatch bool
	sortKeys     []SortKey
	perPage      int
}

func (f ListFilter) Predicates() []FieldPredicate {
	return f.predicates
}

func (f ListFilter) AllPredicatesMustMatch() bool {
	return f.allMustMatch
}

func (f ListFilter) SortKeys() []SortKey {
	return f.sortKeys
}

func (f ListFilter) PerPage() int {
	return f.perPage
}

/***** FieldPredicate *****/

// FieldPredicate matches a record whose data field equals the given value.
type FieldPredicate struct {
	key FieldKeyString
	val FieldValString
}

func P(key FieldKeyString, val FieldValString) FieldPredicate {
	return FieldPredicate{key: key, val: val}
}

func (fp FieldPredicate) Key() FieldKeyString {
	return fp.key
}

func (fp FieldPredicate) Val() FieldValString {
	return fp.val
}

/***** SortKey *****/

// SortKey orders a listing by one record data field.
type SortKey struct {
	field      FieldKeyString
	descending bool
}

func (sk SortKey) Field() FieldKeyString {
	return sk.field
}

func (sk SortKey) Descending() bool {
	return sk.descending
}

/***** ListFilterBuilder *****/

// ListFilterBuilder builds a generic list filter to be used by record store
// engines to build queries for their specific query language (the record
// service's filter syntax, Postgres, ...).
// It is designed to only allow "useful" filter combinations:
//
//   - empty filter
//   - (predicate)
//   - (predicate OR predicate...)
//   - (predicate AND predicate...)
//   - any of the above with sort keys and/or a page size
type ListFilterBuilder interface {
	// Matching starts predicate collection.
	Matching() EmptyListFilterBuilder

	// MatchingAnyRecord directly creates an empty ListFilter.
	MatchingAnyRecord() ListFilter

	// SortedByAsc starts a filter with only a sort order.
	SortedByAsc(field FieldKeyString) CompletedListFilterBuilder

	// SortedByDesc starts a filter with only a descending sort order.
	SortedByDesc(field FieldKeyString) CompletedListFilterBuilder
}

type EmptyListFilterBuilder interface {
	// AnyFieldValueOf adds one or multiple FieldPredicate(s) expecting ANY of them to match.
	//
	// It sanitizes the input:
	//	- removing empty/partial FieldPredicate(s) (key or val is "")
	//	- sorting the FieldPredicate(s)
	//	- removing duplicate FieldPredicate(s)
	AnyFieldValueOf(predicate FieldPredicate, predicates ...FieldPredicate) CompletedListFilterBuilder

	// AllFieldValuesOf adds one or multiple FieldPredicate(s) expecting ALL of them to match.
	//
	// It sanitizes the input the same way as AnyFieldValueOf.
	AllFieldValuesOf(predicate FieldPredicate, predicates ...FieldPredicate) CompletedListFilterBuilder
}

type CompletedListFilterBuilder interface {
	// AndSortedByAsc appends an ascending sort key.
	AndSortedByAsc(field FieldKeyString) CompletedListFilterBuilder

	// AndSortedByDesc appends a descending sort key.
	AndSortedByDesc(field FieldKeyString) CompletedListFilterBuilder

	// AndPerPage limits the page size; non-positive input is ignored.
	AndPerPage(perPage int) CompletedListFilterBuilder

	// Finalize returns the ListFilter.
	Finalize() ListFilter
}

// listFilterBuilder implements all the interfaces of ListFilterBuilder.
type listFilterBuilder struct {
	filter ListFilter
}

// BuildListFilter creates a ListFilterBuilder which must eventually be
// finalized with Finalize() or MatchingAnyRecord().
func BuildListFilter() ListFilterBuilder {
	return listFilterBuilder{}
}

// Matching starts predicate collection.
func (fb listFilterBuilder) Matching() EmptyListFilterBuilder {
	return fb
}

// MatchingAnyRecord directly creates an empty ListFilter.
func (fb listFilterBuilder) MatchingAnyRecord() ListFilter {
	return fb.filter
}

// AnyFieldValueOf adds one or multiple FieldPredicate(s) expecting ANY of them to match.
func (fb listFilterBuilder) AnyFieldValueOf(
	predicate FieldPredicate,
	predicates ...FieldPredicate,
) CompletedListFilterBuilder {

	fb.filter.predicates = append(
		fb.filter.predicates,
		fb.sanitizePredicates(predicate, predicates...)...,
	)

	return fb
}

// AllFieldValuesOf adds one or multiple FieldPredicate(s) expecting ALL of them to match.
func (fb listFilterBuilder) AllFieldValuesOf(
	predicate FieldPredicate,
	predicates ...FieldPredicate,
) CompletedListFilterBuilder {

	fb.filter.allMustMatch = true

	fb.filter.predicates = append(
		fb.filter.predicates,
		fb.sanitizePredicates(predicate, predicates...)...,
	)

	return fb
}

func (fb listFilterBuilder) sanitizePredicates(
	predicate FieldPredicate,
	predicates ...FieldPredicate,
) []FieldPredicate {

	allPredicates := append([]FieldPredicate{predicate}, predicates...)
	allPredicates = slices.DeleteFunc(allPredicates, func(p FieldPredicate) bool { return len(p.key) == 0 || len(p.val) == 0 })
	slices.SortFunc(
		allPredicates,
		func(a, b FieldPredicate) int {
			if a.key > b.key {
				return 1
			}

			if a.key < b.key {
				return -1
			}

			return 0
		})

	allPredicates = slices.Compact(allPredicates)
	allPredicates = slices.Clip(allPredicates)

	return allPredicates
}

// SortedByAsc starts a filter with only a sort order.
func (fb listFilterBuilder) SortedByAsc(field FieldKeyString) CompletedListFilterBuilder {
	return fb.AndSortedByAsc(field)
}

// SortedByDesc starts a filter with only a descending sort order.
func (fb listFilterBuilder) SortedByDesc(field FieldKeyString) CompletedListFilterBuilder {
	return fb.AndSortedByDesc(field)
}

// AndSortedByAsc appends an ascending sort key; empty fields are dropped.
func (fb listFilterBuilder) AndSortedByAsc(field FieldKeyString) CompletedListFilterBuilder {
	if field != "" {
		fb.filter.sortKeys = append(fb.filter.sortKeys, SortKey{field: field})
	}

	return fb
}

// AndSortedByDesc appends a descending sort key; empty fields are dropped.
func (fb listFilterBuilder) AndSortedByDesc(field FieldKeyString) CompletedListFilterBuilder {
	if field != "" {
		fb.filter.sortKeys = append(fb.filter.sortKeys, SortKey{field: field, descending: true})
	}

	return fb
}

// AndPerPage limits the page size; non-positive input is ignored.
func (fb listFilterBuilder) AndPerPage(perPage int) CompletedListFilterBuilder {
	if perPage > 0 {
		fb.filter.perPage = perPage
	}

	return fb
}

// Finalize returns the ListFilter.
func (fb listFilterBuilder) Finalize() ListFilter {
	return fb.filter
}
