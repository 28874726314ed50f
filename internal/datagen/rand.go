package datagen

import (
	"math"
	"math/rand"
)

// rng wraps a seeded source with the sampling shapes the simulator
// needs. Everything downstream of one seed is fully deterministic.
type rng struct {
	r *rand.Rand
}

func newRNG(seed int64) *rng {
	return &rng{r: rand.New(rand.NewSource(seed))}
}

func (g *rng) Float64() float64 {
	return g.r.Float64()
}

// Uniform draws from U(lo, hi).
func (g *rng) Uniform(lo, hi float64) float64 {
	return lo + g.r.Float64()*(hi-lo)
}

// IntN draws from {0..n-1}.
func (g *rng) IntN(n int) int {
	return g.r.Intn(n)
}

// Normal draws from N(mean, stddev).
func (g *rng) Normal(mean, stddev float64) float64 {
	return mean + g.r.NormFloat64()*stddev
}

// Choice picks one of the options uniformly.
func (g *rng) Choice(options []string) string {
	return options[g.r.Intn(len(options))]
}

// WeightedChoice picks one of the options with the given probabilities.
// Probabilities must sum to 1; any residual mass goes to the last option.
func (g *rng) WeightedChoice(options []string, probs []float64) string {
	u := g.r.Float64()
	acc := 0.0
	for i, p := range probs {
		acc += p
		if u < acc {
			return options[i]
		}
	}
	return options[len(options)-1]
}

// WeightedInt is WeightedChoice over ints.
func (g *rng) WeightedInt(options []int, probs []float64) int {
	u := g.r.Float64()
	acc := 0.0
	for i, p := range probs {
		acc += p
		if u < acc {
			return options[i]
		}
	}
	return options[len(options)-1]
}

// Beta draws from Beta(alpha, beta) via two gamma variates.
func (g *rng) Beta(alpha, beta float64) float64 {
	x := g.gamma(alpha)
	y := g.gamma(beta)
	if x+y == 0 {
		return 0.5
	}
	return x / (x + y)
}

// gamma draws from Gamma(shape, 1) with the Marsaglia-Tsang squeeze
// method; shapes below 1 use the standard boost transform.
func (g *rng) gamma(shape float64) float64 {
	if shape < 1 {
		return g.gamma(shape+1) * math.Pow(g.r.Float64(), 1/shape)
	}
	d := shape - 1.0/3.0
	c := 1 / math.Sqrt(9*d)
	for {
		x := g.r.NormFloat64()
		v := 1 + c*x
		if v <= 0 {
			continue
		}
		v = v * v * v
		u := g.r.Float64()
		if u < 1-0.0331*x*x*x*x {
			return d * v
		}
		if math.Log(u) < 0.5*x*x+d*(1-v+math.Log(v)) {
			return d * v
		}
	}
}
