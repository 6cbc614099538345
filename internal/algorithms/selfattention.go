package algorithms

import (
	"context"
	"fmt"
	"math"

	"github.com/slok/stepviz/internal/engine"
	"github.com/slok/stepviz/internal/model"
)

// produceSelfAttention emits the trace of single-head scaled dot-product
// attention: X -> Q/K/V projections, raw scores, scaling by 1/sqrt(d_k),
// row-wise softmax and the weighted value output.
//
// Inputs: "tokens" (list of strings), "embeddingDim" (integer).
func produceSelfAttention(ctx context.Context, inputs model.Inputs, sb *engine.StepBuilder) error {
	tokens, err := stringSliceInput(inputs, "tokens")
	if err != nil {
		return err
	}
	dim, err := intInput(inputs, "embeddingDim")
	if err != nil {
		return err
	}
	if len(tokens) == 0 {
		return fmt.Errorf("input \"tokens\" must not be empty")
	}
	if dim <= 0 {
		return fmt.Errorf("input \"embeddingDim\" must be positive, got %d", dim)
	}

	seqLen := len(tokens)
	dk := dim // Single head: d_k = d_model.

	x := generateEmbeddings(tokens, dim)
	wq := generateWeightMatrix("W_Q", dim, dk)
	wk := generateWeightMatrix("W_K", dim, dk)
	wv := generateWeightMatrix("W_V", dim, dk)

	embeddingActions := make([]model.VisualAction, seqLen)
	for i := range tokens {
		embeddingActions[i] = model.VisualAction{
			Type:   "showEmbedding",
			Params: map[string]any{"tokenIndex": i, "values": x[i]},
		}
	}

	_, err = sb.Emit(engine.StepSpec{
		ID:    "show-input",
		Title: "Input Embeddings",
		Explanation: fmt.Sprintf(
			"Starting with %d token%s, each represented as a %d-dimensional embedding vector. The input matrix X has shape [%d, %d].",
			seqLen, plural(seqLen), dim, seqLen, dim),
		State:         map[string]any{"tokens": tokens, "embeddingDim": dim, "X": x},
		VisualActions: embeddingActions,
		CodeHighlight: model.CodeHighlight{Language: "pseudocode", Lines: []int{1}},
		Phase:         "input",
	})
	if err != nil {
		return err
	}

	projections := []struct {
		name    string
		stepID  string
		meaning string
		weights [][]float64
	}{
		{"Q", "compute-q", "what is this token looking for?", wq},
		{"K", "compute-k", "what does this token contain?", wk},
		{"V", "compute-v", "what does this token communicate?", wv},
	}

	var q, k, v [][]float64
	for _, p := range projections {
		projected := matMul(x, p.weights)
		switch p.name {
		case "Q":
			q = projected
		case "K":
			k = projected
		default:
			v = projected
		}

		_, err = sb.Emit(engine.StepSpec{
			ID:    p.stepID,
			Title: fmt.Sprintf("Compute %s Matrix", p.name),
			Explanation: fmt.Sprintf(
				"%s = X × W_%s. Each embedding is projected into %q space (%q). Shape: [%d, %d] × [%d, %d] = [%d, %d].",
				p.name, p.name, p.name, p.meaning, seqLen, dim, dim, dk, seqLen, dk),
			State: map[string]any{"tokens": tokens, p.name: projected},
			VisualActions: []model.VisualAction{
				{Type: "showProjectionMatrix", Params: map[string]any{"projectionType": p.name, "matrix": projected}},
			},
			CodeHighlight: model.CodeHighlight{Language: "pseudocode", Lines: []int{2}},
			Phase:         "projection",
		})
		if err != nil {
			return err
		}
	}

	scores := matMul(q, transpose(k))
	_, err = sb.Emit(engine.StepSpec{
		ID:    "compute-scores",
		Title: "Raw Attention Scores",
		Explanation: fmt.Sprintf(
			"scores = Q × Kᵀ. Entry [i, j] is the dot product of query i with key j: how much token i attends to token j. Shape: [%d, %d].",
			seqLen, seqLen),
		State: map[string]any{"tokens": tokens, "scores": scores},
		VisualActions: []model.VisualAction{
			{Type: "showScoreMatrix", Params: map[string]any{"matrix": scores, "scaled": false}},
		},
		CodeHighlight: model.CodeHighlight{Language: "pseudocode", Lines: []int{3}},
		Phase:         "scores",
	})
	if err != nil {
		return err
	}

	scaled := scaleMatrix(scores, 1/math.Sqrt(float64(dk)))
	_, err = sb.Emit(engine.StepSpec{
		ID:    "scale-scores",
		Title: "Scale Scores",
		Explanation: fmt.Sprintf(
			"Scores are divided by sqrt(d_k) = sqrt(%d) ≈ %.3f so the softmax input keeps a stable variance as the dimension grows.",
			dk, math.Sqrt(float64(dk))),
		State: map[string]any{"tokens": tokens, "scaledScores": scaled},
		VisualActions: []model.VisualAction{
			{Type: "showScoreMatrix", Params: map[string]any{"matrix": scaled, "scaled": true}},
		},
		CodeHighlight: model.CodeHighlight{Language: "pseudocode", Lines: []int{4}},
		Phase:         "scores",
	})
	if err != nil {
		return err
	}

	weights := softmaxRows(scaled)
	weightActions := make([]model.VisualAction, seqLen)
	for i := range weights {
		weightActions[i] = model.VisualAction{
			Type:   "showAttentionWeights",
			Params: map[string]any{"queryIndex": i, "weights": weights[i]},
		}
	}

	_, err = sb.Emit(engine.StepSpec{
		ID:    "softmax",
		Title: "Softmax Attention Weights",
		Explanation: "Each row of the scaled score matrix is passed through softmax, turning it into a probability distribution: non-negative weights that sum to 1.",
		State: map[string]any{"tokens": tokens, "weights": weights},
		VisualActions: weightActions,
		CodeHighlight: model.CodeHighlight{Language: "pseudocode", Lines: []int{5}},
		Phase:         "attention",
	})
	if err != nil {
		return err
	}

	output := matMul(weights, v)
	_, err = sb.Emit(engine.StepSpec{
		ID:    "weighted-values",
		Title: "Weighted Value Output",
		Explanation: fmt.Sprintf(
			"output = weights × V. Every token's output is the attention-weighted mix of all value vectors. Shape: [%d, %d].",
			seqLen, dk),
		State: map[string]any{"tokens": tokens, "output": output},
		VisualActions: []model.VisualAction{
			{Type: "showProjectionMatrix", Params: map[string]any{"projectionType": "output", "matrix": output}},
			{Type: "showMessage", Params: map[string]any{"text": "Self-attention complete", "messageType": "success"}},
		},
		CodeHighlight: model.CodeHighlight{Language: "pseudocode", Lines: []int{6}},
		IsTerminal:    true,
		Phase:         "output",
	})
	return err
}
