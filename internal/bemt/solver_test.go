package bemt

import (
	"context"
	"math"
	"sync"

	"github.com/google/go-cmp/cmp"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/san-kum/rotorsim/internal/aero"
	"github.com/san-kum/rotorsim/internal/rotor"
)

func referenceGeometry() *rotor.Geometry {
	g, err := rotor.New(rotor.Params{
		RadiusM:      2.0,
		InnerRadiusM: 1.6,
		PitchM:       3.5,
		NumBlades:    2,
		Chord:        []float64{0.4},
		DesignRPM:    100,
	})
	Expect(err).NotTo(HaveOccurred())
	return g
}

func quietOptions() Options {
	logger, _ := test.NewNullLogger()
	opts := DefaultOptions()
	opts.Logger = logger
	return opts
}

func newSolver(opts Options) *Solver {
	s, err := New(referenceGeometry(), opts)
	Expect(err).NotTo(HaveOccurred())
	return s
}

func expectFinite(res *Result) {
	values := []float64{
		res.ThrustN, res.TorqueNm, res.PowerW,
		res.ThrustCoefficient, res.PowerCoefficient, res.TorqueCoefficient,
		res.FigureOfMerit, res.TipSpeedMS, res.TipMach, res.ConvergenceError,
		res.Wake.TotalCirculation, res.Wake.ContractionFactor,
		res.Wake.VortexCoreRadius, res.Wake.MeanInducedVelocity,
	}
	for _, e := range res.Elements {
		values = append(values, e.InducedAxial, e.InducedSwirl, e.Velocity, e.Inflow,
			e.AngleOfAttack, e.Reynolds, e.LiftCoefficient, e.DragCoefficient,
			e.Lift, e.Drag, e.Thrust, e.Torque)
	}
	values = append(values, res.Wake.Circulation...)
	for i, v := range values {
		ExpectWithOffset(1, math.IsNaN(v) || math.IsInf(v, 0)).To(BeFalse(), "value %d is %v", i, v)
	}
}

var _ = Describe("Solver", func() {
	var (
		ctx context.Context
		s   *Solver
	)

	BeforeEach(func() {
		ctx = context.Background()
		s = newSolver(quietOptions())
	})

	Context("reference rotor at 100 rpm and zero collective", func() {
		It("converges within the iteration limit", func() {
			res, err := s.Compute(ctx, 100, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Converged).To(BeTrue())
			Expect(res.Iterations).To(BeNumerically("<=", DefaultMaxIterations))
			Expect(res.ConvergenceError).To(BeNumerically("<", DefaultTolerance))
		})

		It("reports the exact tip speed", func() {
			res, err := s.Compute(ctx, 100, 0)
			Expect(err).NotTo(HaveOccurred())
			want := 2 * math.Pi * 100 / 60 * 2.0
			Expect(res.TipSpeedMS).To(BeNumerically("~", want, 1e-12))
			Expect(res.TipSpeedMS).To(BeNumerically("~", 20.94, 0.01))
			Expect(res.TipMach).To(BeNumerically("~", want/DefaultSpeedOfSound, 1e-12))
		})

		It("returns one element per station", func() {
			res, err := s.Compute(ctx, 100, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Elements).To(HaveLen(rotor.DefaultStations))
			expectFinite(res)
		})

		It("holds the seed and reports negative loads unclipped", func() {
			res, err := s.Compute(ctx, 100, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Converged).To(BeTrue())
			Expect(res.Iterations).To(Equal(1))
			Expect(res.ConvergenceError).To(BeZero())

			seed := math.Sqrt(DefaultLoadingFactor) * res.TipSpeedMS
			for _, e := range res.Elements {
				Expect(e.AngleOfAttack).To(BeNumerically("<", 0))
				Expect(math.Abs(e.AngleOfAttack)).To(BeNumerically("<=", aero.DefaultStallAngle))
				Expect(e.InducedAxial).To(BeNumerically("~", seed, 1e-12))
			}

			Expect(res.ThrustN).To(BeNumerically("~", -12.62, 0.01))
			Expect(res.TorqueNm).To(BeNumerically("~", -5.71, 0.01))
			Expect(res.PowerW).To(BeNumerically("~", -59.76, 0.01))
			Expect(res.PowerW).To(BeNumerically("~", res.TorqueNm*res.TipSpeedMS/2.0, 1e-9))
			Expect(res.FigureOfMerit).To(BeZero())
		})
	})

	Context("with all elements in the linear regime", func() {
		BeforeEach(func() {
			opts := quietOptions()
			airfoil := aero.DefaultAirfoil()
			airfoil.StallAngle = 30 * math.Pi / 180
			opts.Airfoil = airfoil
			s = newSolver(opts)
		})

		DescribeTable("produces non-negative loads",
			func(rpm, collective float64) {
				res, err := s.Compute(ctx, rpm, collective)
				Expect(err).NotTo(HaveOccurred())
				Expect(res.Iterations).To(BeNumerically("<=", DefaultMaxIterations))
				for _, e := range res.Elements {
					Expect(math.Abs(e.AngleOfAttack)).To(BeNumerically("<=", 30*math.Pi/180))
				}
				Expect(res.ThrustN).To(BeNumerically(">=", 0))
				Expect(res.TorqueNm).To(BeNumerically(">=", 0))
				Expect(res.PowerW).To(BeNumerically(">=", 0))
			},
			Entry("60 rpm, 3 deg", 60.0, 3.0),
			Entry("100 rpm, 3 deg", 100.0, 3.0),
			Entry("100 rpm, 5 deg", 100.0, 5.0),
			Entry("140 rpm, 5 deg", 140.0, 5.0),
		)
	})

	It("increases thrust and power strictly with rpm", func() {
		prevThrust, prevPower := math.Inf(-1), math.Inf(-1)
		for _, rpm := range []float64{50, 60, 80, 100, 120, 150} {
			res, err := s.Compute(ctx, rpm, 5)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.ThrustN).To(BeNumerically(">", prevThrust), "rpm %v", rpm)
			Expect(res.PowerW).To(BeNumerically(">", prevPower), "rpm %v", rpm)
			prevThrust, prevPower = res.ThrustN, res.PowerW
		}
	})

	It("is deterministic", func() {
		a, err := s.Compute(ctx, 110, 5)
		Expect(err).NotTo(HaveOccurred())
		b, err := s.Compute(ctx, 110, 5)
		Expect(err).NotTo(HaveOccurred())
		Expect(cmp.Diff(a, b)).To(BeEmpty())
	})

	It("gives identical results when called concurrently", func() {
		want, err := s.Compute(ctx, 90, 4)
		Expect(err).NotTo(HaveOccurred())

		results := make([]*Result, 8)
		var wg sync.WaitGroup
		for i := range results {
			wg.Add(1)
			go func(idx int) {
				defer wg.Done()
				defer GinkgoRecover()
				res, err := s.Compute(ctx, 90, 4)
				Expect(err).NotTo(HaveOccurred())
				results[idx] = res
			}(i)
		}
		wg.Wait()

		for _, res := range results {
			Expect(cmp.Diff(want, res)).To(BeEmpty())
		}
	})

	DescribeTable("keeps the figure of merit in (0, 1] for converged positive thrust",
		func(rpm, collective float64) {
			res, err := s.Compute(ctx, rpm, collective)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Converged).To(BeTrue())
			Expect(res.ThrustN).To(BeNumerically(">", 0))
			Expect(res.FigureOfMerit).To(BeNumerically(">", 0))
			Expect(res.FigureOfMerit).To(BeNumerically("<=", 1))
		},
		Entry("3 deg", 100.0, 3.0),
		Entry("5 deg", 100.0, 5.0),
		Entry("8 deg", 80.0, 8.0),
		Entry("10 deg", 150.0, 10.0),
	)

	DescribeTable("survives deep stall",
		func(collective float64) {
			res, err := s.Compute(ctx, 100, collective)
			Expect(err).NotTo(HaveOccurred())
			Expect(res).NotTo(BeNil())
			for _, e := range res.Elements {
				Expect(math.Abs(e.AngleOfAttack)).To(BeNumerically(">", aero.DefaultStallAngle))
			}
			expectFinite(res)
		},
		Entry("60 deg", 60.0),
		Entry("80 deg", 80.0),
		Entry("89 deg", 89.0),
		Entry("-60 deg", -60.0),
	)

	It("derives wake diagnostics from the loaded rotor", func() {
		res, err := s.Compute(ctx, 100, 5)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Wake.Circulation).To(HaveLen(len(res.Elements)))
		Expect(res.Wake.TotalCirculation).To(BeNumerically(">", 0))
		Expect(res.Wake.ContractionFactor).To(BeNumerically(">", 0))
		Expect(res.Wake.ContractionFactor).To(BeNumerically("<", 1))
		Expect(res.Wake.VortexCoreRadius).To(BeNumerically(">", 0))
	})

	Context("when the iteration budget runs out", func() {
		It("returns the partial result flagged as not converged", func() {
			logger, hook := test.NewNullLogger()
			opts := DefaultOptions()
			opts.MaxIterations = 5
			opts.Logger = logger
			s = newSolver(opts)

			res, err := s.Compute(ctx, 100, 5)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Converged).To(BeFalse())
			Expect(res.Iterations).To(Equal(5))
			Expect(res.ConvergenceError).To(BeNumerically(">", DefaultTolerance))
			Expect(res.ThrustN).To(BeNumerically(">", 0))
			expectFinite(res)

			Expect(hook.LastEntry()).NotTo(BeNil())
			Expect(hook.LastEntry().Level).To(Equal(logrus.WarnLevel))
		})

		It("treats a cancelled context the same way", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()

			res, err := s.Compute(cctx, 100, 5)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Converged).To(BeFalse())
			Expect(res.Iterations).To(Equal(0))
			expectFinite(res)
		})
	})

	DescribeTable("rejects invalid operating points",
		func(rpm, collective float64) {
			_, err := s.Compute(ctx, rpm, collective)
			Expect(err).To(MatchError(ErrInvalidOperatingPoint))
		},
		Entry("zero rpm", 0.0, 5.0),
		Entry("negative rpm", -100.0, 5.0),
		Entry("NaN rpm", math.NaN(), 5.0),
		Entry("infinite rpm", math.Inf(1), 5.0),
		Entry("NaN collective", 100.0, math.NaN()),
	)
})

var _ = Describe("New", func() {
	It("rejects a nil geometry", func() {
		_, err := New(nil, quietOptions())
		Expect(err).To(MatchError(rotor.ErrInvalidGeometry))
	})

	DescribeTable("rejects invalid options",
		func(mutate func(*Options)) {
			opts := quietOptions()
			mutate(&opts)
			_, err := New(referenceGeometry(), opts)
			Expect(err).To(MatchError(ErrInvalidOptions))
		},
		Entry("zero iterations", func(o *Options) { o.MaxIterations = 0 }),
		Entry("zero tolerance", func(o *Options) { o.Tolerance = 0 }),
		Entry("zero relaxation", func(o *Options) { o.Relaxation = 0 }),
		Entry("over-relaxation", func(o *Options) { o.Relaxation = 1.5 }),
		Entry("negative loading", func(o *Options) { o.LoadingFactor = -0.1 }),
		Entry("zero density", func(o *Options) { o.AirDensity = 0 }),
	)

	It("fills in the default airfoil and logger", func() {
		opts := DefaultOptions()
		opts.Airfoil = nil
		s, err := New(referenceGeometry(), opts)
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Options().Airfoil).To(Equal(aero.DefaultAirfoil()))
		Expect(s.Options().Logger).NotTo(BeNil())
	})

	It("warns about a coarse discretization but still solves", func() {
		logger, hook := test.NewNullLogger()
		opts := DefaultOptions()
		opts.Stations = 2
		opts.Logger = logger

		s, err := New(referenceGeometry(), opts)
		Expect(err).NotTo(HaveOccurred())
		Expect(hook.Entries).To(HaveLen(1))
		Expect(hook.LastEntry().Level).To(Equal(logrus.WarnLevel))

		res, err := s.Compute(context.Background(), 100, 5)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Elements).To(HaveLen(2))
		expectFinite(res)
	})

	It("falls back to the default station count", func() {
		opts := quietOptions()
		opts.Stations = 0
		s, err := New(referenceGeometry(), opts)
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Options().Stations).To(Equal(rotor.DefaultStations))
	})
})
