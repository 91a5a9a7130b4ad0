package rng

import (
	"math/rand"
	"time"
)

// Sampler wraps a uniform/normal source behind the handful of draws the
// simulation needs. A zero seed picks one from the wall clock, so runs are
// reproducible only when the caller pins the seed.
type Sampler struct {
	r *rand.Rand
}

// NewSampler creates a Sampler from the given seed.
func NewSampler(seed int64) *Sampler {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Sampler{r: rand.New(rand.NewSource(seed))}
}

// Float64 returns a uniform draw in [0, 1).
func (s *Sampler) Float64() float64 {
	return s.r.Float64()
}

// Intn returns a uniform draw in [0, n). It panics if n <= 0.
func (s *Sampler) Intn(n int) int {
	return s.r.Intn(n)
}

// Norm returns a normal draw with the given mean and standard deviation.
func (s *Sampler) Norm(mean, sd float64) float64 {
	return mean + sd*s.r.NormFloat64()
}

// Sample returns k distinct indices drawn without replacement from [0, n),
// in random order. Asking for k > n yields all n indices.
func (s *Sampler) Sample(k, n int) []int {
	if k > n {
		k = n
	}
	if k <= 0 {
		return nil
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	// Partial Fisher-Yates: only the first k slots need settling.
	for i := 0; i < k; i++ {
		j := i + s.r.Intn(n-i)
		idx[i], idx[j] = idx[j], idx[i]
	}
	return idx[:k]
}
