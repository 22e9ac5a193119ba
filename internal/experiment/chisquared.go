package experiment

import (
	"gonum.org/v1/gonum/stat/distuv"
)

// uniformityPValue runs a chi-squared goodness-of-fit test of counts against
// the uniform distribution and returns the p-value.
func uniformityPValue(counts []uint64) float64 {
	if len(counts) < 2 {
		return 1
	}
	var total uint64
	for _, c := range counts {
		total += c
	}
	if total == 0 {
		return 1
	}
	expected := float64(total) / float64(len(counts))

	var statistic float64
	for _, c := range counts {
		d := float64(c) - expected
		statistic += d * d / expected
	}
	return chiSquaredSurvival(statistic, float64(len(counts)-1))
}

// independencePValue runs a chi-squared test of mutual independence of the
// coordinates of the tuples counted in c and returns the p-value.
//
// Expected cell counts are the product of the observed marginal
// frequencies. Degrees of freedom are (prod |M_i| - 1) - sum (|M_i| - 1),
// where M_i is the set of values seen in coordinate i.
func independencePValue(c *Cooccurrences) float64 {
	n := float64(c.NumKeys())
	if n == 0 {
		return 1
	}

	marginals := make([]map[uint64]float64, c.Width())
	for i := range marginals {
		marginals[i] = make(map[uint64]float64)
	}
	c.Each(func(tuple []uint64, count uint64) {
		for i, v := range tuple {
			marginals[i][v] += float64(count)
		}
	})
	for _, m := range marginals {
		for v := range m {
			m[v] /= n
		}
	}

	// Cells never observed contribute their expected count. Summed over the
	// whole table that is sum(o^2/e) - n, which only needs the observed cells.
	var statistic float64
	c.Each(func(tuple []uint64, count uint64) {
		e := n
		for i, v := range tuple {
			e *= marginals[i][v]
		}
		o := float64(count)
		statistic += o * o / e
	})
	statistic = max(statistic-n, 0)

	cells, free := 1.0, 0.0
	for _, m := range marginals {
		cells *= float64(len(m))
		free += float64(len(m) - 1)
	}
	return chiSquaredSurvival(statistic, cells-1-free)
}

// chiSquaredSurvival is P(X > x) for X ~ chi-squared with dof degrees of
// freedom. A test without degrees of freedom cannot reject anything.
func chiSquaredSurvival(x, dof float64) float64 {
	if dof <= 0 {
		return 1
	}
	return distuv.ChiSquared{K: dof}.Survival(x)
}
