package validate

// KahanSum returns the compensated sum of vs.
//
// A running compensation term tracks the low-order bits lost on each addition
// and re-injects them on the next one, bounding the total summation error
// independently of how many values are summed. Plain left-to-right summation
// accumulates error roughly in proportion to the number of terms, which
// matters for weight distributions beyond ~100 entries.
func KahanSum(vs []float64) float64 {
	var sum, comp float64
	for _, v := range vs {
		y := v - comp
		t := sum + y
		comp = (t - sum) - y
		sum = t
	}
	return sum
}
