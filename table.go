package sweeptable

import "fmt"

// FromRows returns a memory backed store holding a copy of rows. Columns
// are named after the table width: Y; X, Y; X, Y, Z; col1 .. colN. All
// but the last column start out as coordinates. Once the shape is
// inferred, trailing coordinates beyond the second one without a detected
// size are turned into values.
func FromRows(name string, rows [][]float64, o *Options) (*Store, error) {
	oo := *o.norm()
	oo.Backing = MemoryBacked

	s := New(name, &oo)
	if len(rows) == 0 {
		return s, nil
	}

	switch n := len(rows[0]); n {
	case 1:
		_ = s.Declare(Column{Name: "Y", Role: Value})
	case 2:
		_ = s.Declare(Column{Name: "X", Role: Coordinate})
		_ = s.Declare(Column{Name: "Y", Role: Value})
	case 3:
		_ = s.Declare(Column{Name: "X", Role: Coordinate})
		_ = s.Declare(Column{Name: "Y", Role: Coordinate})
		_ = s.Declare(Column{Name: "Z", Role: Value})
	default:
		for i := 1; i < n; i++ {
			_ = s.Declare(Column{Name: fmt.Sprintf("col%d", i), Role: Coordinate})
		}
		_ = s.Declare(Column{Name: fmt.Sprintf("col%d", n), Role: Value})
	}

	if err := s.AppendRows(rows); err != nil {
		return nil, err
	}
	s.Shape()

	cols := s.schema.cols
	for i := len(cols) - 1; i >= 2; i-- {
		if cols[i].Role != Coordinate {
			continue
		}
		if cols[i].Size != 0 {
			break
		}
		cols[i].Role = Value
		s.schema.ncoord--
	}
	return s, nil
}

// WriteFile creates a data file at path and writes all retained rows. A
// block boundary is inserted whenever a coordinate which is constant
// between the first two rows changes. The file is closed on return.
func (s *Store) WriteFile(path string) (err error) {
	if !s.o.Backing.InMemory() {
		return errNoBacking
	}
	if err := s.Create(path); err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); err == nil {
			err = cerr
		}
	}()

	var blockCols []int
	if len(s.rows) > 1 {
		for _, col := range s.schema.Coordinates() {
			if s.rows[0][col] == s.rows[1][col] {
				blockCols = append(blockCols, col)
			}
		}
	}

	for i, row := range s.rows {
		if i != 0 {
			for _, col := range blockCols {
				if row[col] != s.rows[i-1][col] {
					if err := s.w.MarkBlock(); err != nil {
						return err
					}
					break
				}
			}
		}
		if err := s.w.WriteRow(row); err != nil {
			return err
		}
	}
	return nil
}
