// Package imm implements the two-phase IMM sample-size estimator
// (spec.md §4.4): phase 1 bounds OPT via a doubling schedule, phase 2
// samples enough RR sets for a (1-1/e-ε) approximation guarantee.
package imm

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"

	"github.com/nodewave/influenceengine/internal/coverage"
	"github.com/nodewave/influenceengine/internal/graphmodel"
	"github.com/nodewave/influenceengine/internal/rrset"
	"github.com/nodewave/influenceengine/internal/sampler"
)

// maxDoublingRounds bounds phase 1's doubling loop; ept is monotone
// increasing in R so the loop always terminates well before this, but the
// cap protects against pathological inputs (e.g. n=1) from spinning.
const maxDoublingRounds = 64

// Result holds the RR-set store and seed set produced by phase 2, so
// callers (minimize's re-use of the same pipeline) can inspect coverage.
type Result struct {
	Store *rrset.Store
	Seeds []int
	R     int64
}

// log2 returns log base 2 of n.
func log2(n int) float64 { return math.Log(float64(n)) / math.Ln2 }

// LogCnk computes ln(C(n,k)) via a numerically stable sum of log ratios,
// reflecting k > n/2 to n-k (spec.md §4.4).
func LogCnk(n, k int) float64 {
	if k < 0 || k > n {
		return -1
	}
	if k == 0 || k == n {
		return 0
	}
	if k > n/2 {
		k = n - k
	}
	terms := make([]float64, k)
	for i := 1; i <= k; i++ {
		terms[i-1] = math.Log(float64(n-i+1)) - math.Log(float64(i))
	}
	return floats.Sum(terms)
}

func buildRR(g *graphmodel.Graph, propagation string, model graphmodel.Model, r int64, rng *rand.Rand) *rrset.Store {
	store := rrset.New(g.N)
	for i := int64(0); i < r; i++ {
		root := rng.Intn(g.N)
		sampler.Generate(propagation, g, model, root, rng, store, nil)
	}
	return store
}

// Run executes the full IMM pipeline and returns the RR-set store and
// seed set produced by phase 2's max-coverage pass.
func Run(g *graphmodel.Graph, propagation string, model graphmodel.Model, k int, epsilon float64, rng *rand.Rand) *Result {
	n := g.N
	epsPrime := epsilon * math.Sqrt2

	var optPrime float64
	for x := 1; x <= maxDoublingRounds; x++ {
		ci := int64((2.0 + 2.0*epsPrime/3.0) * (math.Log(float64(n)) + LogCnk(n, k) + math.Log(log2(n))) * math.Pow(2, float64(x)) / (epsPrime * epsPrime))
		if ci < 1 {
			ci = 1
		}
		store := buildRR(g, propagation, model, ci, rng)
		seeds := coverage.Greedy(store, n, k, nil, nil)
		cov := coverage.Coverage(store, seeds, nil)
		ept := float64(cov) / float64(store.NumSets()) * float64(n)

		if ept > float64(n)/math.Pow(2, float64(x)) {
			optPrime = ept / (1.0 + epsPrime)
			break
		}
	}
	if optPrime <= 0 {
		optPrime = 1 // degenerate fallback so phase 2 still produces a finite R
	}

	e := math.E
	alpha := math.Sqrt(math.Log(float64(n)) + math.Log(2))
	beta := math.Sqrt((1 - 1/e) * (LogCnk(n, k) + math.Log(float64(n)) + math.Log(2)))
	R := int64(2.0 * float64(n) * math.Pow((1-1/e)*alpha+beta, 2) / (epsilon * epsilon * optPrime))
	if R < 1 {
		R = 1
	}

	store := buildRR(g, propagation, model, R, rng)
	seeds := coverage.Greedy(store, n, k, nil, nil)

	return &Result{Store: store, Seeds: seeds, R: R}
}
