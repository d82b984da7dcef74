package sweeptable

import "math"

// Dim is a single dimension of an inferred loop nest.
type Dim struct {
	Column int // column index, -1 for an implicit repetition
	Size   int
	Start  float64
	End    float64
}

// Shape is the loop nest inferred from the recorded values.
type Shape struct {
	// Dims are ordered slowest to fastest varying.
	Dims []Dim

	// Complete is true if the product of all sizes equals the row count.
	Complete bool

	// Blocks are the block sizes implied by the fastest dimension.
	Blocks []int
}

// Sizes returns the dimension sizes, slowest first.
func (s *Shape) Sizes() []int {
	sizes := make([]int, len(s.Dims))
	for i, d := range s.Dims {
		sizes[i] = d.Size
	}
	return sizes
}

// Shape infers the loop nest of the retained rows. The result is
// memoized until more rows are appended. As a side effect, the sizes of
// the detected coordinate columns are updated, as is the block
// bookkeeping unless the data file is still open.
func (s *Store) Shape() *Shape {
	if s.shape != nil {
		return s.shape
	}

	shape := inferShape(s.rows, s.schema.Coordinates(), s.o.Tolerance)
	if len(s.rows) < 2 {
		for _, col := range s.schema.Coordinates() {
			s.schema.cols[col].Size = len(s.rows)
		}
	}
	for _, d := range shape.Dims {
		if d.Column < 0 {
			continue
		}
		c := &s.schema.cols[d.Column]
		c.Size, c.Start, c.End = d.Size, d.Start, d.End
	}

	// block boundaries of an open file are already on disk
	if len(shape.Blocks) != 0 && s.file == nil {
		last := shape.Blocks[len(shape.Blocks)-1]
		s.nmaxBlock = shape.Blocks[0]
		if last == shape.Blocks[0] {
			s.blocks, s.nlast = append([]int(nil), shape.Blocks...), 0
		} else {
			s.blocks, s.nlast = append([]int(nil), shape.Blocks[:len(shape.Blocks)-1]...), last
		}
	}

	if !shape.Complete && len(s.rows) > 1 {
		s.o.Logger.Warn("incomplete sweep, unable to infer full shape", "rows", len(s.rows), "sizes", shape.Sizes())
	}

	s.shape = shape
	return shape
}

// inferShape recovers the nested loop structure from the rows. coords
// are the candidate coordinate columns. Periods are detected by where a
// column returns to its start value, within tol.
func inferShape(rows [][]float64, coords []int, tol float64) *Shape {
	n := len(rows)
	if n < 2 {
		return &Shape{Complete: true}
	}

	equal := func(a, b float64) bool {
		if tol == 0 {
			return a == b
		}
		return math.Abs(a-b) <= tol
	}

	var found []Dim // fastest first
	sized := make([]bool, len(coords))
	stride := 1

	for range coords {
		dim := -1
		for i, col := range coords {
			if sized[i] || stride >= n {
				continue
			}
			if !equal(rows[0][col], rows[stride][col]) {
				dim = i
				break
			}
		}
		if dim < 0 {
			break
		}
		sized[dim] = true

		col := coords[dim]
		start := rows[0][col]

		size := 1
		for size*stride < n && !equal(rows[size*stride][col], start) {
			size++
		}

		found = append(found, Dim{
			Column: col,
			Size:   size,
			Start:  start,
			End:    rows[stride*(size-1)][col],
		})
		stride *= size
	}

	// the whole nest may be repeated, e.g. a single coordinate
	// swept multiple times
	if len(found) != 0 && stride < n && n%stride == 0 {
		found = append(found, Dim{Column: -1, Size: n / stride})
		stride = n
	}

	shape := &Shape{
		Dims:     make([]Dim, len(found)),
		Complete: n == stride,
	}
	for i, d := range found {
		shape.Dims[len(found)-1-i] = d
	}

	if len(found) != 0 {
		if b := found[0].Size; b > 0 {
			for i := 0; i < n/b; i++ {
				shape.Blocks = append(shape.Blocks, b)
			}
			if r := n % b; r != 0 {
				shape.Blocks = append(shape.Blocks, r)
			}
		}
	}
	return shape
}
