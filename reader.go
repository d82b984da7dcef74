package sweeptable

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

type metaKind uint8

const (
	metaString metaKind = iota
	metaInt
	metaFloat
)

type metaTag struct {
	key  string
	re   *regexp.Regexp
	kind metaKind
}

// metaTags are matched in order against comment lines within a column
// context, the first match wins.
var metaTags = []metaTag{
	{"instrument", regexp.MustCompile(`(?i)^#[ \t]*Ins?trument: ?(.*)$`), metaString},
	{"parameter", regexp.MustCompile(`(?i)^#[ \t]*Parameter: ?(.*)$`), metaString},
	{"units", regexp.MustCompile(`(?i)^#[ \t]*Units?: ?(.*)$`), metaString},
	{"steps", regexp.MustCompile(`(?i)^#[ \t]*Steps?: ?(.*)$`), metaInt},
	{"stepsize", regexp.MustCompile(`(?i)^#[ \t]*Stepsizes?: ?(.*)$`), metaFloat},
	{"name", regexp.MustCompile(`(?i)^#[ \t]*Name: ?(.*)$`), metaString},
	{"type", regexp.MustCompile(`(?i)^#[ \t]*Type?: ?(.*)$`), metaString},
	{"size", regexp.MustCompile(`(?i)^#[ \t]*Size: ?(.*)$`), metaInt},
	{"precision", regexp.MustCompile(`(?i)^#[ \t]*Precision: ?(.*)$`), metaInt},
	{"format", regexp.MustCompile(`(?i)^#[ \t]*Format: ?(.*)$`), metaString},
	{"start", regexp.MustCompile(`(?i)^#[ \t]*Start: ?(.*)$`), metaFloat},
	{"end", regexp.MustCompile(`(?i)^#[ \t]*End: ?(.*)$`), metaFloat},
}

var (
	reFilename  = regexp.MustCompile(`(?i)^#[ \t]*Filename: ?(.*)$`)
	reTimestamp = regexp.MustCompile(`(?i)^#[ \t]*Timestamp: ?(.*)$`)
	reSteps     = regexp.MustCompile(`(?i)^#.*[ \t](\d+) steps`)
	reColumn    = regexp.MustCompile(`(?i)^#[ \t]*Column ?(\d+):?[ \t]*$`)
	reExtra     = regexp.MustCompile(`^#\t+([A-Za-z_][\w.-]*): ?(.*)$`)
	reComment   = regexp.MustCompile(`^#[ \t]?(.*)$`)
)

// Load reads a data file. If path is a directory, it must contain
// exactly one .dat file. The returned store is memory backed and
// read-only.
func Load(path string, o *Options) (*Store, error) {
	if fi, err := os.Stat(path); err != nil {
		return nil, ioError(err)
	} else if fi.IsDir() {
		if path, err = findDataFile(path); err != nil {
			return nil, err
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, ioError(err)
	}
	defer f.Close()

	s, err := Parse(f, path, o)
	if err != nil {
		return nil, err
	}
	s.path = path
	return s, nil
}

// Parse reads a data file from r, the name is used in errors and as the
// store name. The returned store is memory backed and read-only.
func Parse(r io.Reader, name string, o *Options) (*Store, error) {
	o = o.norm()
	o.Backing = MemoryBacked

	p := &parser{
		s: &Store{
			o:        o,
			name:     strings.TrimSuffix(filepath.Base(name), filepath.Ext(name)),
			readOnly: true,
		},
		file: name,
		ctx:  -1,
	}
	if err := p.parse(r); err != nil {
		return nil, err
	}
	return p.s, nil
}

type parser struct {
	s       *Store
	file    string
	ctx     int  // current column context, -1 if none
	header  bool // a Filename line was seen
	columns bool // a Column line was seen
	nfields int  // maximum number of fields
	nblock  int  // rows in the current block
}

func (p *parser) parse(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	s := p.s
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), " \t\r\n")

		if len(line) == 0 {
			if len(s.rows) != 0 {
				s.blocks = append(s.blocks, p.nblock)
				if p.nblock > s.nmaxBlock {
					s.nmaxBlock = p.nblock
				}
				p.nblock = 0
			}
			continue
		}

		if pos := strings.IndexByte(line, '#'); pos == 0 {
			p.parseMeta(line)
			continue
		} else if pos > 0 {
			p.parseMeta(line[pos:])
			line = line[:pos]
		}

		if err := p.parseRow(line, lineNo); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return ioError(err)
	}

	if p.nblock > s.nmaxBlock {
		s.nmaxBlock = p.nblock
	}
	s.nlast = p.nblock
	s.npoints = len(s.rows)

	// pad ragged rows, NaN never matches during period detection
	for i, row := range s.rows {
		for len(row) < p.nfields {
			row = append(row, math.NaN())
		}
		s.rows[i] = row
	}

	if s.schema.NumColumns() < p.nfields {
		s.o.Logger.Warn("missing column metadata, adding according to data", "file", p.file, "columns", p.nfields)
	}
	s.schema.complete(p.nfields)
	s.schema.recount()
	return nil
}

func (p *parser) parseRow(line string, lineNo int) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	row := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return &ParseError{File: p.file, Line: lineNo, Text: f, Err: err}
		}
		row[i] = v
	}

	if len(fields) > p.nfields {
		p.nfields = len(fields)
	}
	p.s.rows = append(p.s.rows, row)
	p.nblock++
	return nil
}

func (p *parser) parseMeta(line string) {
	s := p.s

	if p.ctx < 0 {
		if m := reFilename.FindStringSubmatch(line); m != nil {
			p.header = true
			return
		}
		if m := reTimestamp.FindStringSubmatch(line); m != nil {
			s.timestamp = m[1]
			if t, err := parseTimestamp(m[1]); err == nil {
				s.created = t
			}
			return
		}
	}

	// sized descriptors only occur in headerless files, ahead of any
	// Column line
	if !p.header && !p.columns {
		if m := reSteps.FindStringSubmatch(line); m != nil {
			size, _ := strconv.Atoi(m[1])
			s.schema.cols = append(s.schema.cols, Column{Size: size})
			p.ctx = len(s.schema.cols) - 1
			return
		}
	}

	if m := reColumn.FindStringSubmatch(line); m != nil {
		p.columns = true
		if n, _ := strconv.Atoi(m[1]); n > len(s.schema.cols) {
			s.schema.cols = append(s.schema.cols, Column{})
			p.ctx = len(s.schema.cols) - 1
		} else if n > 0 {
			p.ctx = n - 1
		}
		return
	}

	// descriptor keys are tab indented, free comments are not
	if p.ctx >= 0 && strings.HasPrefix(line, "#\t") {
		c := &s.schema.cols[p.ctx]
		for _, tag := range metaTags {
			if m := tag.re.FindStringSubmatch(line); m != nil && c.setMeta(tag, strings.TrimSpace(m[1])) {
				return
			}
		}
		if m := reExtra.FindStringSubmatch(line); m != nil {
			if c.Meta == nil {
				c.Meta = make(map[string]string)
			}
			c.Meta[m[1]] = strings.TrimSpace(m[2])
			return
		}
	}

	if m := reComment.FindStringSubmatch(line); m != nil {
		s.o.Logger.Debug("unrecognized metadata, keeping as comment", "file", p.file, "line", line)
		s.comments = append(s.comments, m[1])
	}
}

// setMeta assigns a recognized tag, it returns false if the value
// cannot be converted.
func (c *Column) setMeta(tag metaTag, val string) bool {
	var (
		iv  int
		fv  float64
		err error
	)
	switch tag.kind {
	case metaInt:
		iv, err = strconv.Atoi(val)
	case metaFloat:
		fv, err = strconv.ParseFloat(val, 64)
	}
	if err != nil {
		return false
	}

	switch tag.key {
	case "instrument":
		c.Instrument = val
	case "parameter":
		c.Parameter = val
	case "units":
		c.Unit = val
	case "steps":
		c.Steps = iv
	case "stepsize":
		c.Stepsize = fv
	case "name":
		c.Name = val
	case "type":
		switch strings.ToLower(val) {
		case "coordinate":
			c.Role = Coordinate
		case "value", "values":
			c.Role = Value
		default:
			return false
		}
	case "size":
		c.Size = iv
	case "precision":
		c.Precision = iv
	case "format":
		c.Format = val
	case "start":
		c.Start = fv
	case "end":
		c.End = fv
	}
	return true
}

func findDataFile(dir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.dat"))
	if err != nil {
		return "", ioError(err)
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: no .dat file found in %s", ErrIO, dir)
	case 1:
		return matches[0], nil
	}
	return "", fmt.Errorf("%w: multiple .dat files in %s", ErrIO, dir)
}
