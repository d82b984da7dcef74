package sweeptable

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/exp/constraints"
)

// Number is the set of types accepted by AppendValues.
type Number interface {
	constraints.Integer | constraints.Float
}

// Store accumulates sweep data in memory, in a file, or both. A store is
// either written or read, never both. It is not safe for concurrent use.
type Store struct {
	o      *Options
	name   string
	schema Schema

	comments  []string
	created   time.Time
	timestamp string
	path      string // the data file path

	file *os.File
	w    *Writer

	readOnly bool
	rows     [][]float64 // retained rows, if memory backed

	npoints   int   // total number of points
	nlast     int   // points in the current block
	nmaxBlock int   // maximum points in any block
	blocks    []int // sizes of completed blocks

	shape *Shape // memoized shape
	grid  *Grid  // memoized reshape
}

// New returns a new, empty store. The name is used by the filename
// generator.
func New(name string, o *Options) *Store {
	o = o.norm()
	now := o.Now()
	return &Store{
		o:         o,
		name:      name,
		created:   now,
		timestamp: now.Format(timestampLayout),
	}
}

// Name returns the store name.
func (s *Store) Name() string { return s.name }

// Path returns the data file path, if any.
func (s *Store) Path() string { return s.path }

// Timestamp returns the creation timestamp.
func (s *Store) Timestamp() string { return s.timestamp }

// Schema returns the column schema.
func (s *Store) Schema() *Schema { return &s.schema }

// NumColumns returns the number of declared columns.
func (s *Store) NumColumns() int { return s.schema.NumColumns() }

// NumCoordinates returns the number of coordinate columns.
func (s *Store) NumCoordinates() int { return s.schema.NumCoordinates() }

// NumValues returns the number of value columns.
func (s *Store) NumValues() int { return s.schema.NumValues() }

// Comments returns the free-text comments.
func (s *Store) Comments() []string { return append([]string(nil), s.comments...) }

// IsOpen returns true if a data file is open for writing.
func (s *Store) IsOpen() bool { return s.file != nil }

// Declare appends a column descriptor. It fails once the header has
// been written or if the store is read-only.
func (s *Store) Declare(c Column) error {
	if s.readOnly {
		return errReadOnly
	}
	if s.w != nil {
		return errHeader
	}
	return s.schema.declare(c)
}

// AddComment adds a comment. If the data file is open, the comment is
// written immediately.
func (s *Store) AddComment(text string) error {
	if s.readOnly {
		return errReadOnly
	}
	s.comments = append(s.comments, text)
	if s.file != nil {
		return s.w.WriteComment(text)
	}
	return nil
}

// Create creates the data file at path and writes the header. Missing
// parent directories are created. If path is empty, the filename
// generator is used. A companion settings file is written when a
// settings provider is configured.
func (s *Store) Create(path string) error {
	if s.readOnly {
		return errReadOnly
	}
	if s.w != nil {
		return errHeader
	}

	if path == "" {
		var err error
		if path, err = s.o.Generator.NewFilename(s.name, s.created); err != nil {
			return ioError(err)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return ioError(err)
	}

	f, err := os.Create(path)
	if err != nil {
		s.o.Logger.Error("unable to create data file", "path", path, "error", err)
		return ioError(err)
	}

	s.path = path
	s.file = f
	s.w = NewWriter(f, s.schema.cols, &WriterOptions{DefaultPrecision: s.o.DefaultPrecision})

	if err := s.w.WriteHeader(Header{
		Filename:  filepath.Base(path),
		Timestamp: s.timestamp,
		Comments:  s.comments,
	}); err != nil {
		_ = s.Close()
		return err
	}

	if s.o.Settings != nil {
		if err := writeSettings(s.SettingsPath(), filepath.Base(path), s.timestamp, s.o.Settings); err != nil {
			_ = s.Close()
			return err
		}
	}
	return nil
}

// Close flushes and closes the data file. It may be called multiple
// times.
func (s *Store) Close() error {
	if s.file == nil {
		return nil
	}

	err := s.w.Close()
	if cerr := s.file.Close(); err == nil && cerr != nil {
		err = ioError(cerr)
	}
	s.file = nil
	return err
}

// AppendScalar appends a single value.
func (s *Store) AppendScalar(v float64) error {
	return s.append([][]float64{{v}}, false)
}

// Append appends a single row.
func (s *Store) Append(row ...float64) error {
	if len(row) == 0 {
		return errNoData
	}
	return s.append([][]float64{row}, false)
}

// AppendRows appends multiple rows of equal length.
func (s *Store) AppendRows(rows [][]float64) error {
	return s.append(rows, false)
}

// AppendColumns appends one row per element of the given column
// vectors, which must be of equal length.
func (s *Store) AppendColumns(cols ...[]float64) error {
	if len(cols) == 0 {
		return errNoData
	}

	nrows := len(cols[0])
	for _, col := range cols[1:] {
		if len(col) != nrows {
			return fmt.Errorf("%w: columns of unequal length %d and %d", ErrShape, nrows, len(col))
		}
	}

	rows := make([][]float64, nrows)
	for i := range rows {
		rows[i] = make([]float64, len(cols))
		for j, col := range cols {
			rows[i][j] = col[i]
		}
	}
	return s.append(rows, false)
}

// AppendValues appends rows of any numeric type. Integer rows are
// rendered without a decimal point.
func AppendValues[T Number](s *Store, rows ...[]T) error {
	conv := make([][]float64, len(rows))
	for i, row := range rows {
		conv[i] = make([]float64, len(row))
		for j, v := range row {
			conv[i][j] = float64(v)
		}
	}
	return s.append(conv, isIntegral[T]())
}

// NewBlock starts a new block.
func (s *Store) NewBlock() error {
	if s.readOnly {
		return errReadOnly
	}
	if s.o.Backing.InFile() {
		if s.file == nil {
			return errNotOpen
		}
		if err := s.w.MarkBlock(); err != nil {
			return err
		}
	}

	s.blocks = append(s.blocks, s.nlast)
	s.nlast = 0
	return nil
}

func (s *Store) append(rows [][]float64, integral bool) error {
	if s.readOnly {
		return errReadOnly
	}
	if len(rows) == 0 {
		return errNoData
	}
	if s.o.Backing.InFile() && s.file == nil {
		return errNotOpen
	}

	ncols := len(rows[0])
	for _, row := range rows[1:] {
		if len(row) != ncols {
			return fmt.Errorf("%w: rows of unequal length %d and %d", ErrShape, ncols, len(row))
		}
	}
	if ncols == 0 {
		return errNoData
	}

	if s.schema.NumColumns() == 0 {
		s.o.Logger.Warn("no columns declared, adding according to data", "columns", ncols)
		s.schema.complete(ncols)
		if s.w != nil {
			s.w.cols = s.schema.cols
		}
	}
	if n := s.schema.NumColumns(); ncols != n {
		return &ShapeError{Expected: n, Actual: ncols}
	}

	if s.o.Backing.InFile() {
		for _, row := range rows {
			if err := s.w.writeRow(row, integral); err != nil {
				return err
			}
		}
	}
	if s.o.Backing.InMemory() {
		for _, row := range rows {
			s.rows = append(s.rows, append([]float64(nil), row...))
		}
	}

	s.npoints += len(rows)
	s.nlast += len(rows)
	if s.nlast > s.nmaxBlock {
		s.nmaxBlock = s.nlast
	}
	s.shape, s.grid = nil, nil
	return nil
}

// --------------------------------------------------------------------

// NumPoints returns the number of rows.
func (s *Store) NumPoints() int { return s.npoints }

// MaxBlockPoints returns the number of rows of the largest block.
func (s *Store) MaxBlockPoints() int { return s.nmaxBlock }

// NumBlocks returns the number of blocks, including the current one if
// it has rows.
func (s *Store) NumBlocks() int {
	if s.nlast > 0 {
		return len(s.blocks) + 1
	}
	return len(s.blocks)
}

// NumBlocksComplete returns the number of completed blocks.
func (s *Store) NumBlocksComplete() int { return len(s.blocks) }

// BlockSize returns the number of rows in block n.
func (s *Store) BlockSize(n int) int {
	switch {
	case n == len(s.blocks):
		return s.nlast
	case n < 0 || n > len(s.blocks):
		return 0
	}
	return s.blocks[n]
}

// BlockSizes returns the sizes of all blocks.
func (s *Store) BlockSizes() []int {
	sizes := append([]int(nil), s.blocks...)
	if s.nlast > 0 {
		sizes = append(sizes, s.nlast)
	}
	return sizes
}

// Rows returns the retained rows. It returns nil unless the store is
// memory backed. Rows must not be modified.
func (s *Store) Rows() [][]float64 { return s.rows }

// --------------------------------------------------------------------

// TimeName returns the store name prefixed with the creation time.
func (s *Store) TimeName() string {
	return s.created.Format("150405") + "_" + s.name
}

// SettingsPath returns the path of the companion settings file.
func (s *Store) SettingsPath() string {
	if s.path == "" {
		return ""
	}
	return strings.TrimSuffix(s.path, filepath.Ext(s.path)) + ".set"
}

// CopyFile copies a related file into the directory of the data file.
func (s *Store) CopyFile(src string) error {
	if s.path == "" {
		return errNotOpen
	}

	in, err := os.Open(src)
	if err != nil {
		return ioError(err)
	}
	defer in.Close()

	out, err := os.Create(filepath.Join(filepath.Dir(s.path), filepath.Base(src)))
	if err != nil {
		return ioError(err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return ioError(err)
	}
	return ioError(out.Close())
}

// FormatLabel returns a label for column n.
func (s *Store) FormatLabel(n int) string {
	c, ok := s.schema.Column(n)
	if !ok {
		return ""
	}
	if c.Name == "" && (c.Instrument == "" || c.Parameter == "") {
		return fmt.Sprintf("dim%d", n)
	}
	return strings.TrimSpace(c.Label())
}

// Title returns a plot title containing the file name and the names of
// the given coordinate and value columns.
func (s *Store) Title(coords []int, value int) string {
	dir := filepath.Base(filepath.Dir(s.path))
	title := dir + "/" + filepath.Base(s.path) + ", " + s.schema.Name(value) + " vs "
	for i, c := range coords {
		if i != 0 {
			title += ", "
		}
		title += s.schema.Name(c)
	}
	return title
}

func isIntegral[T Number]() bool {
	var one T = 1
	return one/2 == 0
}
