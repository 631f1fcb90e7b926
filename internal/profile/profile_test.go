package profile_test

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/galprof/internal/geom"
	"github.com/san-kum/galprof/internal/particle"
	"github.com/san-kum/galprof/internal/profile"
)

const tol = 1e-12

func massAt(ids *particle.IDSource, mass, x float64) particle.Particle[geom.Vec3] {
	return particle.New(ids, mass, geom.Vec3{X: x}, geom.Vec3{})
}

func starAt(ids *particle.IDSource, x, age float64) particle.Star[geom.Vec3] {
	var ab particle.Abundances
	ab[particle.Carbon] = 0.25
	return particle.NewStar(massAt(ids, 1, x), 0.02, ab, age)
}

var _ = Describe("New", func() {
	var (
		ids    *particle.IDSource
		origin geom.Vec3
	)

	BeforeEach(func() {
		ids = particle.NewIDSource()
		origin = geom.Vec3{}
	})

	Describe("bin layout", func() {
		It("creates n contiguous bins covering the range", func() {
			p, err := profile.New([]particle.Particle[geom.Vec3]{}, origin, profile.Density,
				profile.Range{Min: 0.3, Max: 7.1}, 9)
			Expect(err).NotTo(HaveOccurred())

			bins := p.Bins()
			Expect(bins).To(HaveLen(9))
			Expect(bins[0].Inner).To(Equal(0.3))
			Expect(bins[8].Outer).To(Equal(7.1))
			for i := 0; i < len(bins)-1; i++ {
				Expect(bins[i].Outer).To(Equal(bins[i+1].Inner))
				Expect(bins[i].Outer).To(BeNumerically(">", bins[i].Inner))
			}
		})

		It("spaces log bins uniformly in log radius", func() {
			p, err := profile.New([]particle.Particle[geom.Vec3]{}, origin, profile.Density,
				profile.Range{Min: 1, Max: 100}, 2, profile.LogBins())
			Expect(err).NotTo(HaveOccurred())
			Expect(p.LogBins()).To(BeTrue())

			bins := p.Bins()
			Expect(bins[0].Outer).To(BeNumerically("~", 10, 1e-9))
			Expect(bins[0].Radius).To(BeNumerically("~", math.Pow(10, 0.5), 1e-9))
			Expect(bins[1].Radius).To(BeNumerically("~", math.Pow(10, 1.5), 1e-9))
		})

		It("uses annulus areas for 2D coordinates", func() {
			p, err := profile.New([]particle.Particle[geom.Vec2]{}, geom.Vec2{}, profile.Density,
				profile.Range{Min: 0, Max: 2}, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Dims()).To(Equal(2))
			Expect(p.Bin(0).Volume).To(BeNumerically("~", math.Pi, tol))
			Expect(p.Bin(1).Volume).To(BeNumerically("~", 3*math.Pi, tol))
		})
	})

	Describe("validation", func() {
		none := []particle.Particle[geom.Vec3]{}

		DescribeTable("rejects bad configurations",
			func(r profile.Range, n int, logBins bool, want error) {
				_, err := profile.New(none, geom.Vec3{}, profile.Density, r, n, profile.WithLogBins(logBins))
				Expect(err).To(MatchError(want))
				Expect(errors.Is(err, profile.ErrInvalidConfig)).To(BeTrue())
			},
			Entry("zero bins", profile.Range{Min: 0, Max: 1}, 0, false, profile.ErrBinCount),
			Entry("empty range", profile.Range{Min: 2, Max: 2}, 4, false, profile.ErrRange),
			Entry("inverted range", profile.Range{Min: 3, Max: 1}, 4, false, profile.ErrRange),
			Entry("log bins from zero", profile.Range{Min: 0, Max: 1}, 4, true, profile.ErrLogMinRadius),
			Entry("log bins from negative", profile.Range{Min: -1, Max: 1}, 4, true, profile.ErrLogMinRadius),
			Entry("infinite maximum", profile.Range{Min: 0, Max: math.Inf(1)}, 2, false, profile.ErrRange),
			Entry("infinite minimum", profile.Range{Min: math.Inf(-1), Max: 1}, 2, false, profile.ErrRange),
			Entry("NaN maximum", profile.Range{Min: 0, Max: math.NaN()}, 2, false, profile.ErrRange),
			Entry("width overflows", profile.Range{Min: -math.MaxFloat64, Max: math.MaxFloat64}, 2, false, profile.ErrRange),
			Entry("shell volume overflows", profile.Range{Min: 1e-300, Max: 1e300}, 4, true, profile.ErrRange),
		)

		It("validates ranges without building a profile", func() {
			r := profile.Range{Min: 0, Max: math.Inf(1)}
			Expect(r.Validate(2, false)).To(MatchError(profile.ErrRange))
			Expect(profile.Range{Min: 0.1, Max: 1}.Validate(3, true)).To(Succeed())
			Expect(profile.Range{Min: 0, Max: 1}.Validate(0, false)).To(MatchError(profile.ErrBinCount))
		})

		It("keeps every bin volume finite on accepted ranges", func() {
			p, err := profile.New(none, geom.Vec3{}, profile.Density, profile.Range{Min: 1e-3, Max: 1e100}, 8, profile.LogBins())
			Expect(err).NotTo(HaveOccurred())
			for _, b := range p.Bins() {
				Expect(math.IsInf(b.Volume, 0) || math.IsNaN(b.Volume)).To(BeFalse())
				Expect(b.Outer).To(BeNumerically(">", b.Inner))
			}
		})

		It("accepts a zero minimum with linear bins", func() {
			_, err := profile.New(none, geom.Vec3{}, profile.Density, profile.Range{Min: 0, Max: 1}, 4)
			Expect(err).NotTo(HaveOccurred())
		})

		It("rejects kinds the particle type can't provide", func() {
			gas := []particle.Gas[geom.Vec3]{particle.BlankGas[geom.Vec3](ids)}
			_, err := profile.New(gas, origin, profile.AvgAge, profile.Range{Min: 0, Max: 1}, 1)
			Expect(err).To(MatchError(profile.ErrUnsupportedKind))

			_, err = profile.New(none, origin, profile.AvgMetallicity, profile.Range{Min: 0, Max: 1}, 1)
			Expect(err).To(MatchError(profile.ErrUnsupportedKind))

			_, err = profile.New(gas, origin, profile.AvgCarbonFraction, profile.Range{Min: 0, Max: 1}, 1)
			Expect(err).NotTo(HaveOccurred())
		})

		It("only offers what an interface element type declares", func() {
			bodies := []particle.Body[geom.Vec3]{starAt(ids, 0.5, 1)}
			_, err := profile.New(bodies, origin, profile.AvgAge, profile.Range{Min: 0, Max: 1}, 1)
			Expect(err).To(MatchError(profile.ErrUnsupportedKind))

			p, err := profile.New(bodies, origin, profile.CumulativeMass, profile.Range{Min: 0, Max: 1}, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Bin(0).Value).To(Equal(1.0))
		})

		It("rejects unknown kinds", func() {
			_, err := profile.New(none, origin, profile.Kind(42), profile.Range{Min: 0, Max: 1}, 1)
			Expect(err).To(MatchError(profile.ErrUnknownKind))
		})
	})

	Describe("aggregation", func() {
		It("computes density for the three particle example", func() {
			ps := []particle.Particle[geom.Vec3]{massAt(ids, 1, 0.5), massAt(ids, 1, 1.5), massAt(ids, 1, 4)}
			p, err := profile.New(ps, origin, profile.Density, profile.Range{Min: 0, Max: 2}, 2)
			Expect(err).NotTo(HaveOccurred())

			pts := p.Points()
			Expect(pts).To(HaveLen(2))
			Expect(pts[0].Radius).To(BeNumerically("~", 0.5, tol))
			Expect(pts[1].Radius).To(BeNumerically("~", 1.5, tol))
			Expect(pts[0].Value).To(BeNumerically("~", 3/(4*math.Pi), tol))
			Expect(pts[1].Value).To(BeNumerically("~", 3/(28*math.Pi), tol))
			Expect(p.TotalCount()).To(Equal(2))
		})

		It("measures distance from the centre", func() {
			centre := geom.Vec3{X: 10, Y: 10, Z: 10}
			ps := []particle.Particle[geom.Vec3]{
				particle.New(ids, 2, geom.Vec3{X: 10, Y: 10.5, Z: 10}, geom.Vec3{}),
				particle.New(ids, 3, geom.Vec3{X: 0, Y: 0, Z: 0}, geom.Vec3{}),
			}
			p, err := profile.New(ps, centre, profile.CumulativeMass, profile.Range{Min: 0, Max: 1}, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Bin(0).Value).To(Equal(2.0))
		})

		It("recovers a uniform density", func() {
			const rho = 3.5
			empty, err := profile.New([]particle.Particle[geom.Vec3]{}, origin, profile.Density,
				profile.Range{Min: 0, Max: 4}, 8)
			Expect(err).NotTo(HaveOccurred())

			var ps []particle.Particle[geom.Vec3]
			for _, b := range empty.Bins() {
				ps = append(ps, massAt(ids, rho*b.Volume, b.Radius))
			}
			p, err := profile.New(ps, origin, profile.Density, profile.Range{Min: 0, Max: 4}, 8)
			Expect(err).NotTo(HaveOccurred())
			for _, b := range p.Bins() {
				Expect(b.Count).To(Equal(1))
				Expect(b.Value).To(BeNumerically("~", rho, 1e-9))
			}
		})

		It("accumulates mass monotonically", func() {
			gen := particle.NewGenerator[geom.Vec3](ids, 7, particle.DefaultRanges())
			ps := make([]particle.Particle[geom.Vec3], 500)
			for i := range ps {
				ps[i] = gen.Particle()
			}
			p, err := profile.New(ps, geom.Vec3{X: 5, Y: 5, Z: 5}, profile.CumulativeMass,
				profile.Range{Min: 0.1, Max: 8}, 12, profile.LogBins())
			Expect(err).NotTo(HaveOccurred())

			bins := p.Bins()
			for i := 1; i < len(bins); i++ {
				Expect(bins[i].Value).To(BeNumerically(">=", bins[i-1].Value))
			}
		})

		It("counts particles on both range edges", func() {
			ps := []particle.Particle[geom.Vec3]{
				massAt(ids, 1, 1), massAt(ids, 1, 1.7), massAt(ids, 1, 3),
				massAt(ids, 1, 0.999), massAt(ids, 1, 3.001),
			}
			for _, opt := range []profile.Option{profile.WithLogBins(false), profile.LogBins()} {
				p, err := profile.New(ps, origin, profile.CumulativeMass, profile.Range{Min: 1, Max: 3}, 4, opt)
				Expect(err).NotTo(HaveOccurred())
				Expect(p.TotalCount()).To(Equal(3))
				Expect(p.Bin(0).Count).To(Equal(1))
				Expect(p.Bin(3).Count).To(Equal(1))
			}
		})

		It("averages per bin and leaves empty bins at zero", func() {
			stars := []particle.Star[geom.Vec3]{starAt(ids, 0.5, 2), starAt(ids, 0.6, 4)}
			p, err := profile.New(stars, origin, profile.AvgAge, profile.Range{Min: 0, Max: 2}, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Bin(0).Value).To(BeNumerically("~", 3, tol))
			Expect(p.Bin(1).Value).To(Equal(0.0))
			Expect(p.Bin(1).Count).To(Equal(0))

			p, err = profile.New(stars, origin, profile.AvgCarbonFraction, profile.Range{Min: 0, Max: 2}, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Bin(0).Value).To(BeNumerically("~", 0.25, tol))

			p, err = profile.New(stars, origin, profile.AvgMetallicity, profile.Range{Min: 0, Max: 2}, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Bin(0).Value).To(BeNumerically("~", 0.02, tol))
		})

		It("does not alias its bins", func() {
			p, err := profile.New([]particle.Particle[geom.Vec3]{massAt(ids, 1, 0.5)}, origin,
				profile.CumulativeMass, profile.Range{Min: 0, Max: 1}, 1)
			Expect(err).NotTo(HaveOccurred())
			bins := p.Bins()
			bins[0].Value = 99
			Expect(p.Bin(0).Value).To(Equal(1.0))
		})
	})
})

var _ = Describe("Export", func() {
	var p *profile.Profile

	BeforeEach(func() {
		ids := particle.NewIDSource()
		ps := []particle.Particle[geom.Vec3]{massAt(ids, 1, 0.5), massAt(ids, 2, 1.5)}
		var err error
		p, err = profile.New(ps, geom.Vec3{}, profile.CumulativeMass, profile.Range{Min: 0, Max: 2}, 2)
		Expect(err).NotTo(HaveOccurred())
	})

	It("writes one line per bin", func() {
		var buf bytes.Buffer
		n, err := p.WriteTo(&buf)
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(int64(buf.Len())))
		Expect(buf.String()).To(Equal("0.5, 1\n1.5, 3\n"))
	})

	It("writes a text file", func() {
		path := filepath.Join(GinkgoT().TempDir(), "mass.txt")
		Expect(p.WriteText(path)).To(Succeed())

		data, err := os.ReadFile(path)
		Expect(err).NotTo(HaveOccurred())
		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		Expect(lines).To(HaveLen(p.Len()))
		Expect(lines[1]).To(Equal("1.5, 3"))
	})

	It("reports unwritable destinations", func() {
		path := filepath.Join(GinkgoT().TempDir(), "missing", "mass.txt")
		err := p.WriteText(path)

		var werr *profile.WriteError
		Expect(errors.As(err, &werr)).To(BeTrue())
		Expect(werr.Path).To(Equal(path))
		Expect(errors.Is(err, os.ErrNotExist)).To(BeTrue())
	})

	It("formats lines with shortest round-trip floats", func() {
		Expect(profile.FormatLine(0.25, 1e-7)).To(Equal("0.25, 1e-07"))
	})
})
