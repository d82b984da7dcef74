package sweeptable_test

import (
	"os"
	"path/filepath"

	"github.com/bsm/sweeptable"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("DateTimeGenerator", func() {
	It("should derive paths from the creation time", func() {
		subject := sweeptable.NewDateTimeGenerator("/data")
		Expect(subject.NewFilename("iv", fixedTime)).To(Equal("/data/20261014/101530_iv/101530_iv.dat"))
		Expect(subject.Dir("", fixedTime)).To(Equal("/data/20261014/101530"))
	})

	It("should allow flat layouts", func() {
		subject := &sweeptable.DateTimeGenerator{DataDir: "/data", TimeSubdir: true}
		Expect(subject.NewFilename("iv", fixedTime)).To(Equal("/data/101530_iv/101530_iv.dat"))

		subject = &sweeptable.DateTimeGenerator{DataDir: "/data"}
		Expect(subject.NewFilename("iv", fixedTime)).To(Equal("/data/101530_iv.dat"))
	})
})

var _ = Describe("IncrementalGenerator", func() {
	var dir string

	touch := func(name string) {
		Expect(os.WriteFile(filepath.Join(dir, name), nil, 0o644)).To(Succeed())
	}

	BeforeEach(func() {
		dir = tempDir()
	})

	AfterEach(func() {
		Expect(os.RemoveAll(dir)).To(Succeed())
	})

	It("should start at one", func() {
		subject := sweeptable.NewIncrementalGenerator(filepath.Join(dir, "run"), 0)
		Expect(subject.NewFilename("", fixedTime)).To(Equal(filepath.Join(dir, "run_1.dat")))
		Expect(subject.NewFilename("", fixedTime)).To(Equal(filepath.Join(dir, "run_2.dat")))
	})

	It("should continue after existing files", func() {
		touch("run_1.dat")
		touch("run_2.dat")
		touch("run_3.dat")

		subject := sweeptable.NewIncrementalGenerator(filepath.Join(dir, "run"), 1)
		Expect(subject.NewFilename("", fixedTime)).To(Equal(filepath.Join(dir, "run_4.dat")))

		touch("run_5.dat")
		Expect(subject.NewFilename("", fixedTime)).To(Equal(filepath.Join(dir, "run_6.dat")))
	})

	It("should honour the start number", func() {
		subject := sweeptable.NewIncrementalGenerator(filepath.Join(dir, "run"), 10)
		Expect(subject.NewFilename("", fixedTime)).To(Equal(filepath.Join(dir, "run_10.dat")))
	})

	It("should feed stores", func() {
		touch("run_1.dat")
		s := sweeptable.New("ignored", &sweeptable.Options{
			Generator: sweeptable.NewIncrementalGenerator(filepath.Join(dir, "run"), 1),
		})
		Expect(s.Create("")).To(Succeed())
		Expect(s.Path()).To(Equal(filepath.Join(dir, "run_2.dat")))
		Expect(s.Close()).To(Succeed())
	})
})
