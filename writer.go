package sweeptable

import (
	"errors"
	"fmt"
	"io"
	"strconv"
)

var errClosed = errors.New("sweeptable: writer is closed")

// WriterOptions define writer specific options.
type WriterOptions struct {
	// DefaultPrecision is the number of digits after the decimal point
	// used for columns without their own precision or format.
	// Default: 12.
	DefaultPrecision int
}

func (o *WriterOptions) norm() *WriterOptions {
	var oo WriterOptions
	if o != nil {
		oo = *o
	}

	if oo.DefaultPrecision < 1 {
		oo.DefaultPrecision = 12
	}

	return &oo
}

// Header holds the file level header lines.
type Header struct {
	Filename  string
	Timestamp string
	Comments  []string
}

// Writer instances render a table as text. Every line is written with
// a single call to the underlying writer and flushed, if the writer
// supports it, so an interrupted sweep leaves only complete lines.
type Writer struct {
	w    io.Writer
	o    *WriterOptions
	cols []Column

	buf    []byte // line buffer
	header bool   // header written
	closed bool
}

// NewWriter wraps a writer and returns a Writer for the given columns.
func NewWriter(w io.Writer, cols []Column, o *WriterOptions) *Writer {
	return &Writer{
		w:    w,
		o:    o.norm(),
		cols: cols,
	}
}

// WriteHeader writes the header, it must be called before any row.
func (w *Writer) WriteHeader(h Header) error {
	if w.closed {
		return errClosed
	}
	if w.header {
		return errHeader
	}
	w.header = true

	w.buf = w.buf[:0]
	w.buf = append(w.buf, "# Filename: "...)
	w.buf = append(w.buf, h.Filename...)
	w.buf = append(w.buf, "\n# Timestamp: "...)
	w.buf = append(w.buf, h.Timestamp...)
	w.buf = append(w.buf, "\n\n"...)
	for _, c := range h.Comments {
		w.buf = appendComment(w.buf, c)
	}
	for i := range w.cols {
		w.buf = append(w.buf, "# Column "...)
		w.buf = strconv.AppendInt(w.buf, int64(i+1), 10)
		w.buf = append(w.buf, ":\n"...)
		for _, kv := range w.cols[i].headerFields() {
			w.buf = append(w.buf, "#\t"...)
			w.buf = append(w.buf, kv[0]...)
			w.buf = append(w.buf, ": "...)
			w.buf = append(w.buf, kv[1]...)
			w.buf = append(w.buf, '\n')
		}
	}
	w.buf = append(w.buf, '\n')
	return w.flush()
}

// WriteComment writes a single comment line.
func (w *Writer) WriteComment(text string) error {
	if w.closed {
		return errClosed
	}
	w.buf = appendComment(w.buf[:0], text)
	return w.flush()
}

// WriteRow writes a row of floating point values.
func (w *Writer) WriteRow(row []float64) error {
	return w.writeRow(row, false)
}

// WriteIntRow writes a row of integers, rendered without a decimal point.
func (w *Writer) WriteIntRow(row []int64) error {
	if w.closed {
		return errClosed
	}

	w.buf = w.buf[:0]
	for i, v := range row {
		if i != 0 {
			w.buf = append(w.buf, '\t')
		}
		w.buf = strconv.AppendInt(w.buf, v, 10)
	}
	w.buf = append(w.buf, '\n')
	return w.flush()
}

// MarkBlock writes a block boundary. Consecutive marks are allowed.
func (w *Writer) MarkBlock() error {
	if w.closed {
		return errClosed
	}
	w.buf = append(w.buf[:0], '\n')
	return w.flush()
}

// Close marks the writer as closed. It does not close the underlying
// writer and may be called multiple times.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	if f, ok := w.w.(interface{ Sync() error }); ok {
		return f.Sync()
	}
	return nil
}

func (w *Writer) writeRow(row []float64, integral bool) error {
	if w.closed {
		return errClosed
	}

	w.buf = w.buf[:0]
	for i, v := range row {
		if i != 0 {
			w.buf = append(w.buf, '\t')
		}
		w.buf = w.appendValue(w.buf, i, v, integral)
	}
	w.buf = append(w.buf, '\n')
	return w.flush()
}

// appendValue formats v using, in order of priority: the column
// formatter, format, precision and finally the default precision.
func (w *Writer) appendValue(dst []byte, col int, v float64, integral bool) []byte {
	if integral {
		return strconv.AppendFloat(dst, v, 'f', 0, 64)
	}

	prec := w.o.DefaultPrecision
	if col < len(w.cols) {
		c := &w.cols[col]
		switch {
		case c.Formatter != nil:
			return append(dst, c.Formatter(v)...)
		case c.Format != "":
			return fmt.Appendf(dst, c.Format, v)
		case c.Precision > 0:
			prec = c.Precision
		}
	}
	return strconv.AppendFloat(dst, v, 'e', prec, 64)
}

func (w *Writer) flush() error {
	if _, err := w.w.Write(w.buf); err != nil {
		return ioError(err)
	}
	if f, ok := w.w.(interface{ Flush() error }); ok {
		if err := f.Flush(); err != nil {
			return ioError(err)
		}
	}
	return nil
}

func appendComment(dst []byte, text string) []byte {
	dst = append(dst, "# "...)
	dst = append(dst, text...)
	return append(dst, '\n')
}
