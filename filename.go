package sweeptable

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const timestampLayout = time.ANSIC

func parseTimestamp(s string) (time.Time, error) {
	return time.ParseInLocation(timestampLayout, s, time.Local)
}

// FilenameGenerator produces data file paths.
type FilenameGenerator interface {
	// NewFilename returns a path for a store with the given name and
	// creation time.
	NewFilename(name string, ts time.Time) (string, error)
}

// DateTimeGenerator places files in a directory tree derived from the
// creation time:
//
//	<DataDir>/YYYYMMDD/HHMMSS_<name>/HHMMSS_<name>.dat
type DateTimeGenerator struct {
	DataDir    string
	DateSubdir bool // create a YYYYMMDD subdirectory
	TimeSubdir bool // create a HHMMSS_<name> subdirectory
}

// NewDateTimeGenerator returns a generator rooted at dataDir which
// creates both date and time subdirectories.
func NewDateTimeGenerator(dataDir string) *DateTimeGenerator {
	return &DateTimeGenerator{DataDir: dataDir, DateSubdir: true, TimeSubdir: true}
}

// Dir returns the directory for a file.
func (g *DateTimeGenerator) Dir(name string, ts time.Time) string {
	path := g.DataDir
	if g.DateSubdir {
		path = filepath.Join(path, ts.Format("20060102"))
	}
	if g.TimeSubdir {
		sub := ts.Format("150405")
		if name != "" {
			sub += "_" + name
		}
		path = filepath.Join(path, sub)
	}
	return path
}

// NewFilename implements FilenameGenerator.
func (g *DateTimeGenerator) NewFilename(name string, ts time.Time) (string, error) {
	fn := ts.Format("150405") + "_" + name + ".dat"
	return filepath.Join(g.Dir(name, ts), fn), nil
}

// IncrementalGenerator numbers files incrementally, <Basename>_<n>.dat.
// Numbers of existing files are skipped.
type IncrementalGenerator struct {
	basename string
	counter  int
}

// NewIncrementalGenerator returns a generator which continues after the
// highest existing number, but at least at start.
func NewIncrementalGenerator(basename string, start int) *IncrementalGenerator {
	g := &IncrementalGenerator{basename: basename}
	if start < 1 {
		start = 1
	}
	g.counter = g.next()
	if g.counter < start {
		g.counter = start
	}
	return g
}

// NewFilename implements FilenameGenerator. The name and time are
// ignored.
func (g *IncrementalGenerator) NewFilename(_ string, _ time.Time) (string, error) {
	fn := g.filename(g.counter)
	for exists(fn) {
		g.counter++
		fn = g.filename(g.counter)
	}
	g.counter++
	return fn, nil
}

func (g *IncrementalGenerator) filename(n int) string {
	return g.basename + "_" + strconv.Itoa(n) + ".dat"
}

// next finds the first free number after the last contiguous one by
// exponential probing followed by bisection.
func (g *IncrementalGenerator) next() int {
	if !exists(g.filename(1)) {
		return 1
	}

	lo, hi := 1, 2
	for exists(g.filename(hi)) {
		lo, hi = hi, hi*2
	}
	for hi-lo > 1 {
		mid := lo + (hi-lo)/2
		if exists(g.filename(mid)) {
			lo = mid
		} else {
			hi = mid
		}
	}
	return hi
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
