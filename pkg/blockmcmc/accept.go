package blockmcmc

import (
	"math"
	"math/rand/v2"
)

// MetropolisAccept applies the Metropolis-Hastings rule to an objective
// delta dS and log proposal ratio mP at inverse temperature beta.
//
// At beta = +Inf only strict improvements are accepted. Otherwise the move is
// accepted when a = -dS*beta + mP is positive, and with probability exp(a)
// otherwise.
func MetropolisAccept(dS, mP, beta float64, rng *rand.Rand) bool {
	if math.IsInf(beta, 1) {
		return dS < 0
	}
	a := -dS*beta + mP
	if a > 0 {
		return true
	}
	return rng.Float64() < math.Exp(a)
}

// AcceptProbability returns the probability with which MetropolisAccept
// accepts the given move.
func AcceptProbability(dS, mP, beta float64) float64 {
	if math.IsInf(beta, 1) {
		if dS < 0 {
			return 1
		}
		return 0
	}
	a := -dS*beta + mP
	if a > 0 {
		return 1
	}
	return math.Exp(a)
}
