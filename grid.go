package sweeptable

// Grid is an N-dimensional view of the rows of a store. Axes are
// ordered by column, an implicit repetition axis comes first. The last
// axis runs over the columns of a row.
type Grid struct {
	rows    [][]float64
	shape   []int // axis lengths, excluding the column axis
	axes    []int // column per axis, -1 for repetition
	strides []int // row stride per axis
}

// Reshape returns the rows as an N-dimensional grid. It returns
// ErrReshapeUnavailable if the sweep is incomplete or no dimension was
// detected, and ErrReshapeNotSimple if the detected dimensions are not
// ordered consistently by column. The result is memoized.
func (s *Store) Reshape() (*Grid, error) {
	if s.grid != nil {
		return s.grid, nil
	}

	shape := s.Shape()
	if !shape.Complete || len(shape.Dims) == 0 {
		return nil, ErrReshapeUnavailable
	}

	grid, err := newGrid(s.rows, shape.Dims)
	if err != nil {
		s.o.Logger.Warn("unable to do simple data reshape", "sizes", shape.Sizes())
		return nil, err
	}

	s.grid = grid
	return grid, nil
}

func newGrid(rows [][]float64, dims []Dim) (*Grid, error) {
	// row strides, dims are slowest first
	strides := make([]int, len(dims))
	stride := 1
	for i := len(dims) - 1; i >= 0; i-- {
		strides[i] = stride
		stride *= dims[i].Size
	}

	g := &Grid{rows: rows}
	start := 0
	if dims[0].Column < 0 {
		g.shape = append(g.shape, dims[0].Size)
		g.axes = append(g.axes, -1)
		g.strides = append(g.strides, strides[0])
		start = 1
	}

	// columns must be monotonic in loop order, in either direction
	cols := dims[start:]
	asc, desc := true, true
	for i := 1; i < len(cols); i++ {
		if cols[i].Column <= cols[i-1].Column {
			asc = false
		}
		if cols[i].Column >= cols[i-1].Column {
			desc = false
		}
	}
	if !asc && !desc {
		return nil, ErrReshapeNotSimple
	}

	for k := range cols {
		i := start + k
		if desc {
			i = len(dims) - 1 - k
		}
		g.shape = append(g.shape, dims[i].Size)
		g.axes = append(g.axes, dims[i].Column)
		g.strides = append(g.strides, strides[i])
	}
	return g, nil
}

// Shape returns the axis lengths, the last axis being the columns.
func (g *Grid) Shape() []int {
	ncols := 0
	if len(g.rows) != 0 {
		ncols = len(g.rows[0])
	}
	return append(append([]int(nil), g.shape...), ncols)
}

// Axes returns the column index of each axis, -1 for a repetition axis.
func (g *Grid) Axes() []int { return append([]int(nil), g.axes...) }

// At returns the row at the given axis position, or nil if out of range.
func (g *Grid) At(idx ...int) []float64 {
	if len(idx) != len(g.shape) {
		return nil
	}

	off := 0
	for i, n := range idx {
		if n < 0 || n >= g.shape[i] {
			return nil
		}
		off += n * g.strides[i]
	}
	return g.rows[off]
}

// Column returns the values of column col in grid order, the last axis
// varying fastest.
func (g *Grid) Column(col int) []float64 {
	if len(g.rows) == 0 || col < 0 || col >= len(g.rows[0]) {
		return nil
	}

	total := 1
	for _, n := range g.shape {
		total *= n
	}

	vals := make([]float64, 0, total)
	idx := make([]int, len(g.shape))
	for i := 0; i < total; i++ {
		vals = append(vals, g.At(idx...)[col])
		for a := len(idx) - 1; a >= 0; a-- {
			if idx[a]++; idx[a] < g.shape[a] {
				break
			}
			idx[a] = 0
		}
	}
	return vals
}
