package engine

import "math"

// accrueWages applies the per-tick salary growth to the bank balance of
// every employed household. Employment is redrawn each tick, so a household
// skipped now may be paid next tick. Wages arrive only through the banking
// rail; coin balances are untouched.
func (e *Engine) accrueWages() {
	n := len(e.pop.Households)
	if n == 0 {
		return
	}
	employed := int(math.Round(float64(n) * (1 - e.params.UnemploymentRate)))
	if employed <= 0 {
		return
	}
	// Annual growth spread evenly across the year, one tick per day.
	growth := 1 + (e.params.YearlySalary-1)/ticksPerYear
	for _, i := range e.rnd.Sample(employed, n) {
		e.pop.Households[i].BankBalance *= growth
	}
}
