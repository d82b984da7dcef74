package sweeptable_test

import (
	"os"
	"path/filepath"

	"github.com/bsm/sweeptable"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("FromRows", func() {
	names := func(s *sweeptable.Store) []string {
		var names []string
		for _, c := range s.Schema().Columns() {
			names = append(names, c.Name)
		}
		return names
	}

	It("should name columns by width", func() {
		s, err := sweeptable.FromRows("t", [][]float64{{1}, {2}}, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(names(s)).To(Equal([]string{"Y"}))
		Expect(s.NumCoordinates()).To(Equal(0))

		s, err = sweeptable.FromRows("t", [][]float64{{1, 2}, {2, 3}}, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(names(s)).To(Equal([]string{"X", "Y"}))

		s, err = sweeptable.FromRows("t", seedSweep(2, 3), nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(names(s)).To(Equal([]string{"X", "Y", "Z"}))
		Expect(s.NumCoordinates()).To(Equal(2))

		s, err = sweeptable.FromRows("t", seedSweep(2, 2, 2), nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(names(s)).To(Equal([]string{"col1", "col2", "col3", "col4"}))
		Expect(s.NumCoordinates()).To(Equal(3))
	})

	It("should turn constant trailing coordinates into values", func() {
		var rows [][]float64
		for _, row := range seedSweep(2, 3) {
			rows = append(rows, []float64{row[0], row[1], 7, row[2]})
		}

		s, err := sweeptable.FromRows("t", rows, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(s.NumCoordinates()).To(Equal(2))
		Expect(s.NumValues()).To(Equal(2))
		Expect(s.Shape().Sizes()).To(Equal([]int{2, 3}))
	})

	It("should copy rows", func() {
		rows := [][]float64{{1, 2}, {2, 3}}
		s, err := sweeptable.FromRows("t", rows, nil)
		Expect(err).NotTo(HaveOccurred())
		rows[0][0] = 9
		Expect(s.Rows()[0]).To(Equal([]float64{1, 2}))
	})

	It("should reject ragged rows", func() {
		_, err := sweeptable.FromRows("t", [][]float64{{1, 2}, {3}}, nil)
		Expect(err).To(BeErr(sweeptable.ErrShape))
	})

	It("should accept empty tables", func() {
		s, err := sweeptable.FromRows("t", nil, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(s.NumColumns()).To(Equal(0))
	})

	It("should write files with blocks", func() {
		dir := tempDir()
		defer os.RemoveAll(dir)

		s, err := sweeptable.FromRows("t", seedSweep(2, 3), &sweeptable.Options{Now: fixedNow})
		Expect(err).NotTo(HaveOccurred())

		path := filepath.Join(dir, "t.dat")
		Expect(s.WriteFile(path)).To(Succeed())
		Expect(s.IsOpen()).To(BeFalse())

		loaded, err := sweeptable.Load(path, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded.BlockSizes()).To(Equal([]int{3, 3}))
		Expect(loaded.Rows()).To(Equal(s.Rows()))
		Expect(loaded.Timestamp()).To(Equal("Wed Oct 14 10:15:30 2026"))

		x, _ := loaded.Schema().Column(0)
		Expect(x.Name).To(Equal("X"))
		Expect(x.Size).To(Equal(2))
	})
})
