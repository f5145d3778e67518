package services

import "fmt"

type BoundOp string

const (
	GreaterOrEqual BoundOp = ">="
	LessOrEqual    BoundOp = "<="
)

// Bound is a single inclusive comparison clause against a numeric column.
// Each axis (lat, lng, price) expands to at most two independent bounds that
// are combined by conjunction; min and max never share a clause, so supplying
// only one side of a pair still filters correctly on that side.
type Bound struct {
	Column string
	Op     BoundOp
	Value  float64
}

// SQL renders the bound as a parameterized WHERE fragment.
func (b Bound) SQL() (string, interface{}) {
	return fmt.Sprintf("%s %s ?", b.Column, b.Op), b.Value
}

// Matches evaluates the bound against an in-memory value.
func (b Bound) Matches(v float64) bool {
	if b.Op == GreaterOrEqual {
		return v >= b.Value
	}
	return v <= b.Value
}

// SpotFilters carries the recognized search options. A nil pointer means the
// option was not supplied.
type SpotFilters struct {
	MinLat   *float64
	MaxLat   *float64
	MinLng   *float64
	MaxLng   *float64
	MinPrice *float64
	MaxPrice *float64
	Page     int
	Size     int
}

// Bounds expands the supplied filter options into clauses.
func (f SpotFilters) Bounds() []Bound {
	var bounds []Bound
	add := func(column string, op BoundOp, v *float64) {
		if v != nil {
			bounds = append(bounds, Bound{Column: column, Op: op, Value: *v})
		}
	}
	add("lat", GreaterOrEqual, f.MinLat)
	add("lat", LessOrEqual, f.MaxLat)
	add("lng", GreaterOrEqual, f.MinLng)
	add("lng", LessOrEqual, f.MaxLng)
	add("price", GreaterOrEqual, f.MinPrice)
	add("price", LessOrEqual, f.MaxPrice)
	return bounds
}

const (
	DefaultPage = 1
	MaxPage     = 10
	DefaultSize = 20
	MaxSize     = 20
)

// NormalizePage clamps page to [1, 10] and size to [1, 20], applying the
// defaults when a value was not supplied (zero).
func NormalizePage(page, size int) (int, int) {
	if page <= 0 {
		page = DefaultPage
	}
	if page > MaxPage {
		page = MaxPage
	}
	if size <= 0 {
		size = DefaultSize
	}
	if size > MaxSize {
		size = MaxSize
	}
	return page, size
}
