package sweeptable_test

import (
	"os"
	"path/filepath"

	"github.com/bsm/sweeptable"
	. "github.com/onsi/ginkgo"
	"github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"
)

var _ = Describe("Grid", func() {
	var dir string

	BeforeEach(func() {
		dir = tempDir()
	})

	AfterEach(func() {
		Expect(os.RemoveAll(dir)).To(Succeed())
	})

	// permuted returns a store whose coordinate column perm[i] is driven
	// by loop i.
	permuted := func(perm []int, sizes ...int) *sweeptable.Store {
		s := sweeptable.New("perm", &sweeptable.Options{Backing: sweeptable.MemoryBacked})
		for range sizes {
			Expect(s.Declare(sweeptable.Column{Role: sweeptable.Coordinate})).To(Succeed())
		}
		Expect(s.Declare(sweeptable.Column{Name: "v", Role: sweeptable.Value})).To(Succeed())

		for _, src := range seedSweep(sizes...) {
			row := make([]float64, len(src))
			for i, col := range perm {
				row[col] = src[i]
			}
			row[len(row)-1] = src[len(src)-1]
			Expect(s.Append(row...)).To(Succeed())
		}
		return s
	}

	table.DescribeTable("should round-trip through files",
		func(sizes ...int) {
			path := filepath.Join(dir, "grid.dat")
			w := sweeptable.New("grid", &sweeptable.Options{Now: fixedNow})
			for i := range sizes {
				Expect(w.Declare(sweeptable.Column{Name: string(rune('a' + i)), Role: sweeptable.Coordinate})).To(Succeed())
			}
			Expect(w.Declare(sweeptable.Column{Name: "v", Role: sweeptable.Value})).To(Succeed())
			Expect(w.Create(path)).To(Succeed())
			Expect(w.AppendRows(seedSweep(sizes...))).To(Succeed())
			Expect(w.Close()).To(Succeed())

			s, err := sweeptable.Load(path, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.NumCoordinates()).To(Equal(len(sizes)))
			Expect(s.NumValues()).To(Equal(1))

			grid, err := s.Reshape()
			Expect(err).NotTo(HaveOccurred())
			Expect(grid.Shape()).To(Equal(append(sizes, len(sizes)+1)))

			last := make([]int, len(sizes))
			for i, n := range sizes {
				last[i] = n - 1
			}
			row := grid.At(last...)
			Expect(row).To(Equal(s.Rows()[s.NumPoints()-1]))
		},
		table.Entry("1-D", 4),
		table.Entry("2-D", 3, 5),
		table.Entry("3-D", 2, 3, 4),
	)

	It("should index by coordinate", func() {
		grid, err := seedStore(2, 3).Reshape()
		Expect(err).NotTo(HaveOccurred())
		Expect(grid.Axes()).To(Equal([]int{0, 1}))
		Expect(grid.At(1, 2)).To(Equal([]float64{1, 2, 2.5}))
		Expect(grid.At(0, 1)).To(Equal([]float64{0, 1, 0.5}))
		Expect(grid.Column(2)).To(Equal([]float64{0, 0.5, 1, 1.5, 2, 2.5}))
	})

	It("should order axes by column", func() {
		s := permuted([]int{1, 0}, 2, 3)
		shape := s.Shape()
		Expect(shape.Sizes()).To(Equal([]int{2, 3}))
		Expect(shape.Dims[1].Column).To(Equal(0))

		grid, err := s.Reshape()
		Expect(err).NotTo(HaveOccurred())
		Expect(grid.Axes()).To(Equal([]int{0, 1}))
		Expect(grid.Shape()).To(Equal([]int{3, 2, 3}))
		Expect(grid.At(2, 1)).To(Equal([]float64{2, 1, 2.5}))
		Expect(grid.Column(2)).To(Equal([]float64{0, 1.5, 0.5, 2, 1, 2.5}))
	})

	It("should put repetitions first", func() {
		s, err := sweeptable.FromRows("rep", [][]float64{{0, 1}, {1, 2}, {2, 3}, {0, 4}, {1, 5}, {2, 6}}, nil)
		Expect(err).NotTo(HaveOccurred())

		grid, err := s.Reshape()
		Expect(err).NotTo(HaveOccurred())
		Expect(grid.Axes()).To(Equal([]int{-1, 0}))
		Expect(grid.Shape()).To(Equal([]int{2, 3, 2}))
		Expect(grid.At(1, 0)).To(Equal([]float64{0, 4}))
	})

	It("should reject non-simple orders", func() {
		s := permuted([]int{1, 0, 2}, 2, 2, 2)
		Expect(s.Shape().Complete).To(BeTrue())

		_, err := s.Reshape()
		Expect(err).To(Equal(sweeptable.ErrReshapeNotSimple))
		Expect(err).To(BeErr(sweeptable.ErrReshapeUnavailable))
	})

	It("should guard bounds", func() {
		grid, err := seedStore(2, 3).Reshape()
		Expect(err).NotTo(HaveOccurred())
		Expect(grid.At(2, 0)).To(BeNil())
		Expect(grid.At(0, -1)).To(BeNil())
		Expect(grid.At(0)).To(BeNil())
		Expect(grid.Column(3)).To(BeNil())
		Expect(grid.Column(-1)).To(BeNil())
	})

	It("should memoize", func() {
		s := seedStore(2, 2)
		grid, err := s.Reshape()
		Expect(err).NotTo(HaveOccurred())

		again, err := s.Reshape()
		Expect(err).NotTo(HaveOccurred())
		Expect(again).To(BeIdenticalTo(grid))
	})
})
