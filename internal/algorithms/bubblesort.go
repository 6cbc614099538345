package algorithms

import (
	"context"
	"fmt"
	"strconv"

	"github.com/slok/stepviz/internal/engine"
	"github.com/slok/stepviz/internal/model"
)

// produceBubbleSort emits the trace of bubble sort over an integer array.
//
// Inputs: "array" (list of integers).
func produceBubbleSort(ctx context.Context, inputs model.Inputs, sb *engine.StepBuilder) error {
	array, err := intSliceInput(inputs, "array")
	if err != nil {
		return err
	}

	n := len(array)
	labels := make([]string, n)
	for i := range labels {
		labels[i] = strconv.Itoa(i)
	}

	_, err = sb.Emit(engine.StepSpec{
		ID:    "initialize",
		Title: "Initial Array",
		Explanation: fmt.Sprintf(
			"Sorting %d element%s with bubble sort. Each pass bubbles the largest unsorted element to the end.",
			n, plural(n)),
		State: map[string]any{"array": snapshot(array), "sortedCount": 0},
		VisualActions: []model.VisualAction{
			{Type: "updateBarChart", Params: map[string]any{"values": snapshot(array), "labels": labels}},
		},
		CodeHighlight: model.CodeHighlight{Language: "pseudocode", Lines: []int{1}},
		Phase:         "initialization",
	})
	if err != nil {
		return err
	}

	swapped := true
	for pass := 0; pass < n-1 && swapped; pass++ {
		swapped = false
		for j := 0; j < n-1-pass; j++ {
			result := "equal"
			switch {
			case array[j] < array[j+1]:
				result = "less"
			case array[j] > array[j+1]:
				result = "greater"
			}

			_, err = sb.Emit(engine.StepSpec{
				ID:    "compare",
				Title: fmt.Sprintf("Compare Positions %d and %d", j, j+1),
				Explanation: fmt.Sprintf(
					"Comparing array[%d] = %d with array[%d] = %d: %s.",
					j, array[j], j+1, array[j+1], compareText(result)),
				State: map[string]any{
					"array": snapshot(array), "comparing": []int{j, j + 1}, "sortedCount": pass,
				},
				VisualActions: []model.VisualAction{
					{Type: "compareElements", Params: map[string]any{"indexA": j, "indexB": j + 1, "result": result}},
				},
				CodeHighlight: model.CodeHighlight{Language: "pseudocode", Lines: []int{3, 4}},
				Phase:         "sorting",
			})
			if err != nil {
				return err
			}

			if result == "greater" {
				array[j], array[j+1] = array[j+1], array[j]
				swapped = true

				_, err = sb.Emit(engine.StepSpec{
					ID:    "swap",
					Title: fmt.Sprintf("Swap Positions %d and %d", j, j+1),
					Explanation: fmt.Sprintf(
						"array[%d] was greater than array[%d], swapping them. The array is now %v.",
						j, j+1, array),
					State: map[string]any{
						"array": snapshot(array), "swapped": []int{j, j + 1}, "sortedCount": pass,
					},
					VisualActions: []model.VisualAction{
						{Type: "swapElements", Params: map[string]any{"indexA": j, "indexB": j + 1}},
						{Type: "updateBarChart", Params: map[string]any{"values": snapshot(array), "labels": labels}},
					},
					CodeHighlight: model.CodeHighlight{Language: "pseudocode", Lines: []int{5}},
					Phase:         "sorting",
				})
				if err != nil {
					return err
				}
			}
		}

		_, err = sb.Emit(engine.StepSpec{
			ID:    "pass_complete",
			Title: fmt.Sprintf("Pass %d Complete", pass+1),
			Explanation: fmt.Sprintf(
				"The largest unsorted element settled at position %d. %d element%s now in final position.",
				n-1-pass, pass+1, pluralVerb(pass+1)),
			State: map[string]any{"array": snapshot(array), "sortedCount": pass + 1},
			VisualActions: []model.VisualAction{
				{Type: "markSorted", Params: map[string]any{"from": n - 1 - pass, "to": n - 1}},
			},
			CodeHighlight: model.CodeHighlight{Language: "pseudocode", Lines: []int{7}},
			Phase:         "sorting",
		})
		if err != nil {
			return err
		}
	}

	_, err = sb.Emit(engine.StepSpec{
		ID:          "done",
		Title:       "Array Sorted",
		Explanation: fmt.Sprintf("No more swaps needed, the array is sorted: %v.", array),
		State:       map[string]any{"array": snapshot(array), "sortedCount": n},
		VisualActions: []model.VisualAction{
			{Type: "updateBarChart", Params: map[string]any{"values": snapshot(array), "labels": labels}},
			{Type: "showMessage", Params: map[string]any{"text": "Sorted!", "messageType": "success"}},
		},
		CodeHighlight: model.CodeHighlight{Language: "pseudocode", Lines: []int{9}},
		IsTerminal:    true,
		Phase:         "result",
	})
	return err
}

func snapshot(vs []int) []int { return append([]int(nil), vs...) }

func compareText(result string) string {
	switch result {
	case "less":
		return "already in order"
	case "greater":
		return "out of order, they must be swapped"
	}
	return "equal, no swap needed"
}

func pluralVerb(n int) string {
	if n == 1 {
		return " is"
	}
	return "s are"
}
