package sweeptable

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Role tells coordinate and value columns apart.
type Role uint8

// Supported roles.
const (
	Coordinate Role = iota
	Value
)

func (r Role) String() string {
	switch r {
	case Coordinate:
		return "coordinate"
	case Value:
		return "value"
	}
	return "unknown"
}

func (r Role) isValid() bool { return r == Coordinate || r == Value }

// Column describes a single column of a store. Apart from Size, Start
// and End, which are updated by shape inference, descriptors are
// immutable once declared.
type Column struct {
	Name       string
	Role       Role
	Unit       string
	Instrument string
	Parameter  string

	// Precision is the number of digits after the decimal point.
	// Zero falls back to the store default.
	Precision int

	// Format is an fmt verb such as "%.3f", it takes priority over
	// Precision.
	Format string

	// Formatter takes priority over Format. It is never serialized.
	Formatter func(float64) string

	// Size is the number of steps of a coordinate, zero if unknown.
	Size int

	// Steps and Stepsize are informational sweep parameters.
	Steps    int
	Stepsize float64

	// Start and End are the first and last values of a detected sweep.
	Start, End float64

	// Meta holds free-form extras.
	Meta map[string]string
}

// Label returns a label containing the name, the instrument parameter
// and the unit, if set.
func (c *Column) Label() string {
	label := c.Name
	if c.Instrument != "" && c.Parameter != "" {
		label += " (" + c.Instrument + "." + c.Parameter
		if c.Unit != "" {
			label += " [" + c.Unit + "]"
		}
		label += ")"
	}
	return label
}

// headerFields returns the sorted key/value pairs written to the header.
func (c *Column) headerFields() [][2]string {
	kv := map[string]string{
		"name": c.Name,
		"type": c.Role.String(),
	}
	if c.Role == Coordinate {
		kv["size"] = strconv.Itoa(c.Size)
	}
	if c.Unit != "" {
		kv["units"] = c.Unit
	}
	if c.Instrument != "" {
		kv["instrument"] = c.Instrument
	}
	if c.Parameter != "" {
		kv["parameter"] = c.Parameter
	}
	if c.Precision > 0 {
		kv["precision"] = strconv.Itoa(c.Precision)
	}
	if c.Format != "" {
		kv["format"] = c.Format
	}
	if c.Steps != 0 {
		kv["steps"] = strconv.Itoa(c.Steps)
	}
	if c.Stepsize != 0 {
		kv["stepsize"] = strconv.FormatFloat(c.Stepsize, 'g', -1, 64)
	}
	for k, v := range c.Meta {
		if _, ok := kv[k]; !ok {
			kv[k] = v
		}
	}

	keys := make([]string, 0, len(kv))
	for k := range kv {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([][2]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, [2]string{k, strings.TrimSpace(kv[k])})
	}
	return pairs
}

// --------------------------------------------------------------------

// Schema is the ordered list of column descriptors. Duplicate names are
// allowed, columns are addressed by position.
type Schema struct {
	cols   []Column
	ncoord int
}

// NumColumns returns the number of declared columns.
func (s *Schema) NumColumns() int { return len(s.cols) }

// NumCoordinates returns the number of coordinate columns.
func (s *Schema) NumCoordinates() int { return s.ncoord }

// NumValues returns the number of value columns.
func (s *Schema) NumValues() int { return len(s.cols) - s.ncoord }

// Column returns a copy of the n-th descriptor.
func (s *Schema) Column(n int) (Column, bool) {
	if n < 0 || n >= len(s.cols) {
		return Column{}, false
	}
	return s.cols[n], true
}

// Columns returns a copy of all descriptors.
func (s *Schema) Columns() []Column {
	return append([]Column(nil), s.cols...)
}

// Coordinates returns the indices of coordinate columns.
func (s *Schema) Coordinates() []int {
	idx := make([]int, 0, s.ncoord)
	for i, c := range s.cols {
		if c.Role == Coordinate {
			idx = append(idx, i)
		}
	}
	return idx
}

// Name returns the name of column n, or colN if it has none.
func (s *Schema) Name(n int) string {
	if n >= 0 && n < len(s.cols) && s.cols[n].Name != "" {
		return s.cols[n].Name
	}
	return fmt.Sprintf("col%d", n)
}

func (s *Schema) declare(c Column) error {
	if !c.Role.isValid() {
		return fmt.Errorf("%w: invalid role %d for column %q", ErrConfig, c.Role, c.Name)
	}
	if c.Meta != nil {
		meta := make(map[string]string, len(c.Meta))
		for k, v := range c.Meta {
			meta[k] = v
		}
		c.Meta = meta
	}
	if c.Role == Coordinate {
		s.ncoord++
	}
	s.cols = append(s.cols, c)
	return nil
}

// complete adds descriptors until there are n columns. All but one
// missing column are assumed to be coordinates, the last is a value.
func (s *Schema) complete(n int) {
	for len(s.cols) < n-1 {
		_ = s.declare(Column{Name: fmt.Sprintf("col%d", len(s.cols)+1), Role: Coordinate})
	}
	if len(s.cols) < n {
		_ = s.declare(Column{Name: fmt.Sprintf("col%d", len(s.cols)+1), Role: Value})
	}
}

// recount fixes the coordinate/value split after loading. Without any
// value column all but the last column are coordinates.
func (s *Schema) recount() {
	s.ncoord = 0
	for _, c := range s.cols {
		if c.Role == Coordinate {
			s.ncoord++
		}
	}
	if s.ncoord == len(s.cols) && s.ncoord > 0 {
		s.cols[len(s.cols)-1].Role = Value
		s.ncoord--
	}
}
