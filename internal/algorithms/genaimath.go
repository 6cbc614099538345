package algorithms

import "math"

// Deterministic math helpers for the generative AI producers. Determinism is
// load-bearing: two runs with the same inputs must produce identical steps,
// so all pseudo-randomness is derived from string seeds (DJB2 hash feeding a
// Mulberry32 PRNG) instead of math/rand.

func djb2(s string) uint32 {
	var h uint32 = 5381
	for _, c := range []byte(s) {
		h = h<<5 + h + uint32(c)
	}
	return h
}

// seedRandom returns a Mulberry32 PRNG seeded from the given string,
// producing floats in [0, 1).
func seedRandom(seed string) func() float64 {
	state := djb2(seed)
	return func() float64 {
		state += 0x6D2B79F5
		t := state
		t = (t ^ t>>15) * (t | 1)
		t ^= t + (t^t>>7)*(t|61)
		return float64(t^t>>14) / 4294967296
	}
}

// generateEmbeddings returns one deterministic dim-sized vector per token,
// with values in [-1, 1).
func generateEmbeddings(tokens []string, dim int) [][]float64 {
	vectors := make([][]float64, len(tokens))
	for i, token := range tokens {
		rng := seedRandom("emb:" + token)
		vec := make([]float64, dim)
		for j := range vec {
			vec[j] = 2*rng() - 1
		}
		vectors[i] = vec
	}
	return vectors
}

// generateWeightMatrix returns a deterministic rows x cols matrix derived
// from the given name, with values in [-1, 1).
func generateWeightMatrix(name string, rows, cols int) [][]float64 {
	rng := seedRandom("weights:" + name)
	m := make([][]float64, rows)
	for i := range m {
		row := make([]float64, cols)
		for j := range row {
			row[j] = 2*rng() - 1
		}
		m[i] = row
	}
	return m
}

func matMul(a, b [][]float64) [][]float64 {
	rows, inner, cols := len(a), len(b), len(b[0])
	out := make([][]float64, rows)
	for i := range out {
		row := make([]float64, cols)
		for j := 0; j < cols; j++ {
			var sum float64
			for k := 0; k < inner; k++ {
				sum += a[i][k] * b[k][j]
			}
			row[j] = sum
		}
		out[i] = row
	}
	return out
}

func transpose(m [][]float64) [][]float64 {
	rows, cols := len(m), len(m[0])
	out := make([][]float64, cols)
	for j := range out {
		row := make([]float64, rows)
		for i := 0; i < rows; i++ {
			row[i] = m[i][j]
		}
		out[j] = row
	}
	return out
}

func scaleMatrix(m [][]float64, factor float64) [][]float64 {
	out := make([][]float64, len(m))
	for i, row := range m {
		scaled := make([]float64, len(row))
		for j, v := range row {
			scaled[j] = v * factor
		}
		out[i] = scaled
	}
	return out
}

// softmaxRows applies a numerically stable row-wise softmax: the row maximum
// is subtracted before exponentiation so large scores cannot overflow.
func softmaxRows(m [][]float64) [][]float64 {
	out := make([][]float64, len(m))
	for i, row := range m {
		rowMax := math.Inf(-1)
		for _, v := range row {
			rowMax = math.Max(rowMax, v)
		}

		exps := make([]float64, len(row))
		var sum float64
		for j, v := range row {
			exps[j] = math.Exp(v - rowMax)
			sum += exps[j]
		}
		for j := range exps {
			exps[j] /= sum
		}
		out[i] = exps
	}
	return out
}
