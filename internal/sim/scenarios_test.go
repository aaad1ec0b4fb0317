package sim_test

import (
	"context"
	"math"
	"math/rand"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/pendulum/internal/dynamo"
	"github.com/san-kum/pendulum/internal/metrics"
	"github.com/san-kum/pendulum/internal/params"
	"github.com/san-kum/pendulum/internal/recorder"
	"github.com/san-kum/pendulum/internal/sim"
)

const tick = 1.0 / 480

func seconds(s float64) int {
	return int(s/tick + 0.5)
}

var _ = Describe("Cart pendulum session", func() {
	var (
		gains *mat.Dense
		cfg   sim.SessionConfig
	)

	BeforeEach(func() {
		var err error
		gains, err = params.LoadGains(filepath.Join("..", "..", "configs", "lqr_gains.csv"))
		Expect(err).NotTo(HaveOccurred())

		p, ok := params.GetPreset("rest_bottom")
		Expect(ok).To(BeTrue())
		cfg = sim.DefaultSessionConfig(p, gains)
	})

	Describe("rail", func() {
		It("keeps the cart between the rail ends under sustained manual input", func() {
			cfg.Controller.Active = false
			s, err := sim.NewSession(cfg)
			Expect(err).NotTo(HaveOccurred())
			defer s.Close()

			lo, hi := s.Model.RailBounds()
			Expect(lo).To(Equal(50.0))
			Expect(hi).To(Equal(1230.0))

			// the groove is solved at velocity level; with a stiff error bias
			// the cart overshoots an end by at most a few millimetres
			const slack = 3.0
			centre := cfg.Bounds.Width / 2

			for _, dir := range []dynamo.Direction{dynamo.DirectionPositive, dynamo.DirectionNegative} {
				nearest := math.Inf(1)
				for i := 0; i < seconds(10); i++ {
					Expect(s.Tick(tick, dir)).To(Succeed())

					x := s.State().CartX() + centre
					Expect(x).To(BeNumerically(">=", lo-slack))
					Expect(x).To(BeNumerically("<=", hi+slack))

					end := hi
					if dir == dynamo.DirectionNegative {
						end = lo
					}
					nearest = math.Min(nearest, math.Abs(x-end))
				}
				Expect(nearest).To(BeNumerically("<", 5), "cart never reached the %v rail end", dir)
			}
		})
	})

	Describe("friction", func() {
		It("never reports more than the configured friction", func() {
			coeff := 100.0
			cfg.Params.CartFriction = &coeff
			cfg.Controller.Active = false
			peak := metrics.NewPeakFriction()
			cfg.Metrics = []dynamo.Metric{peak}

			s, err := sim.NewSession(cfg)
			Expect(err).NotTo(HaveOccurred())
			defer s.Close()

			rng := rand.New(rand.NewSource(42))
			for i := 0; i < seconds(5); i++ {
				in := dynamo.DirectionFromKeys(rng.Intn(3) == 0, rng.Intn(3) == 0)
				Expect(s.Tick(tick, in)).To(Succeed())
				Expect(math.Abs(s.Model.FrictionForce())).To(BeNumerically("<=", coeff))
			}

			Expect(peak.Value()).To(BeNumerically(">", 0))
			Expect(peak.Value()).To(BeNumerically("<=", coeff))
		})
	})

	Describe("balancing", func() {
		It("brings the bob from 170 degrees to upright", func() {
			p, _ := params.GetPreset("near_upright")
			Expect(p.Angle).To(Equal(170.0))
			cfg.Params = p

			s, err := sim.NewSession(cfg)
			Expect(err).NotTo(HaveOccurred())

			runner := sim.Runner{KeepHistory: true}
			res, err := runner.Run(context.Background(), s.Loop, sim.NoInput, 5)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.States).To(HaveLen(seconds(5)))

			final := res.States[len(res.States)-1]
			Expect(math.Abs(final.Angle() - 180)).To(BeNumerically("<", 5))

			quarter := len(res.States) / 4
			means := make([]float64, 4)
			for q := range means {
				sum := 0.0
				for _, x := range res.States[q*quarter : (q+1)*quarter] {
					sum += math.Abs(x.Angle() - 180)
				}
				means[q] = sum / float64(quarter)
			}
			for q := 1; q < len(means); q++ {
				Expect(means[q]).To(BeNumerically("<=", means[q-1]), "quarter means %v", means)
			}
		})

		It("stays at rest with the controller off and the bob hanging", func() {
			cfg.Controller.Active = false
			s, err := sim.NewSession(cfg)
			Expect(err).NotTo(HaveOccurred())

			var runner sim.Runner
			_, err = runner.Run(context.Background(), s.Loop, nil, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(math.Abs(s.State().Angle())).To(BeNumerically("<", 1e-6))
			Expect(math.Abs(s.State().CartX())).To(BeNumerically("<", 1e-6))
		})
	})

	Describe("controller toggle", func() {
		It("changes nothing but the controller impulse", func() {
			p, _ := params.GetPreset("swing")
			cfg.Params = p
			cfg.Controller.Active = false

			a, err := sim.NewSession(cfg)
			Expect(err).NotTo(HaveOccurred())
			b, err := sim.NewSession(cfg)
			Expect(err).NotTo(HaveOccurred())

			// b is toggled twice before running; both must evolve identically
			b.ToggleController()
			b.ToggleController()

			for i := 0; i < seconds(1); i++ {
				Expect(a.Tick(tick, dynamo.DirectionNone)).To(Succeed())
				Expect(b.Tick(tick, dynamo.DirectionNone)).To(Succeed())
			}
			Expect(b.State()).To(Equal(a.State()))
			Expect(b.Impulse().X).To(BeZero())
		})
	})

	Describe("recording", func() {
		It("writes one row per tick and closes the file on stop", func() {
			dir := GinkgoT().TempDir()
			rec, err := recorder.New(dir, "cart", recorder.DefaultFields, tick)
			Expect(err).NotTo(HaveOccurred())
			cfg.Sink = rec

			s, err := sim.NewSession(cfg)
			Expect(err).NotTo(HaveOccurred())

			var runner sim.Runner
			_, err = runner.Run(context.Background(), s.Loop, nil, 0.5)
			Expect(err).NotTo(HaveOccurred())

			Expect(rec.Insert(dynamo.Record{})).To(MatchError(dynamo.ErrRecorderClosed))

			loaded, err := recorder.Load(rec.Path())
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.Rows).To(Equal(seconds(0.5)))
			Expect(loaded.Header).To(Equal(append([]string{"ts", "interval"}, recorder.DefaultFields...)))
			Expect(loaded.Column("interval")[0]).To(Equal(tick))
		})
	})

	Describe("ensemble", func() {
		It("runs every parameter set on its own space", func() {
			var cases []sim.Case
			for _, name := range params.ListPresets() {
				p, _ := params.GetPreset(name)
				c := sim.DefaultSessionConfig(p, gains)
				c.Metrics = metrics.Default(p, c.Gravity, c.Physics.TickInterval)
				cases = append(cases, sim.Case{Name: name, Config: c})
			}

			e := sim.Ensemble{Duration: 0.5, Limit: 2}
			results, err := e.Run(context.Background(), cases)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(len(cases)))
			for i, r := range results {
				Expect(r.Name).To(Equal(cases[i].Name))
				Expect(r.Ticks).To(Equal(seconds(0.5)))
				Expect(r.Metrics).To(HaveKey("control_effort"))
			}
		})

		It("reports invalid parameter sets", func() {
			bad := cfg
			bad.Params.CartMass = 0
			e := sim.Ensemble{Duration: 0.1}
			_, err := e.Run(context.Background(), []sim.Case{{Name: "bad", Config: bad}})
			Expect(err).To(MatchError(dynamo.ErrInvalidParameter))
		})
	})
})
