package algorithms

import (
	"context"
	"fmt"

	"github.com/slok/stepviz/internal/engine"
	"github.com/slok/stepviz/internal/model"
)

// produceBinarySearch emits the trace of an iterative binary search over a
// sorted integer array.
//
// Inputs: "array" (sorted list of integers), "target" (integer).
func produceBinarySearch(ctx context.Context, inputs model.Inputs, sb *engine.StepBuilder) error {
	array, err := intSliceInput(inputs, "array")
	if err != nil {
		return err
	}
	target, err := intInput(inputs, "target")
	if err != nil {
		return err
	}

	n := len(array)
	left, right := 0, n-1

	initActions := []model.VisualAction{
		{Type: "movePointer", Params: map[string]any{"id": "left", "to": left}},
		{Type: "movePointer", Params: map[string]any{"id": "right", "to": right}},
	}
	// An empty array has no range to highlight.
	if n > 0 {
		initActions = append([]model.VisualAction{
			{Type: "highlightRange", Params: map[string]any{"from": left, "to": right, "color": "highlight"}},
		}, initActions...)
	}

	_, err = sb.Emit(engine.StepSpec{
		ID:    "initialize",
		Title: "Initialize Search",
		Explanation: fmt.Sprintf(
			"Searching for %d in a sorted array of %d element%s. Setting left = 0, right = %d. The entire array is the search space.",
			target, n, plural(n), right),
		State: map[string]any{
			"array": array, "target": target, "left": left, "right": right, "result": nil,
		},
		VisualActions: initActions,
		CodeHighlight: model.CodeHighlight{Language: "pseudocode", Lines: []int{1, 2, 3}},
		Phase:         "initialization",
	})
	if err != nil {
		return err
	}

	iteration := 0
	for left <= right {
		iteration++
		mid := (left + right) / 2

		_, err = sb.Emit(engine.StepSpec{
			ID:    "calculate_mid",
			Title: fmt.Sprintf("Calculate Middle (Iteration %d)", iteration),
			Explanation: fmt.Sprintf(
				"mid = floor((%d + %d) / 2) = %d. Checking array[%d] = %d.",
				left, right, mid, mid, array[mid]),
			State: map[string]any{
				"array": array, "target": target, "left": left, "right": right, "mid": mid, "result": nil,
			},
			VisualActions: []model.VisualAction{
				{Type: "highlightRange", Params: map[string]any{"from": left, "to": right, "color": "highlight"}},
				{Type: "highlightElement", Params: map[string]any{"index": mid, "color": "compare"}},
				{Type: "movePointer", Params: map[string]any{"id": "mid", "to": mid}},
			},
			CodeHighlight: model.CodeHighlight{Language: "pseudocode", Lines: []int{5, 6}},
			Phase:         "search",
		})
		if err != nil {
			return err
		}

		switch {
		case array[mid] == target:
			_, err = sb.Emit(engine.StepSpec{
				ID:    "found",
				Title: "Target Found!",
				Explanation: fmt.Sprintf(
					"array[%d] = %d equals target %d. Found at index %d after %d iteration%s.",
					mid, array[mid], target, mid, iteration, plural(iteration)),
				State: map[string]any{
					"array": array, "target": target, "left": left, "right": right, "mid": mid, "result": mid,
				},
				VisualActions: []model.VisualAction{
					{Type: "markFound", Params: map[string]any{"index": mid}},
					{Type: "showMessage", Params: map[string]any{
						"text": fmt.Sprintf("Found %d at index %d!", target, mid), "messageType": "success",
					}},
				},
				CodeHighlight: model.CodeHighlight{Language: "pseudocode", Lines: []int{8}},
				IsTerminal:    true,
				Phase:         "result",
			})
			return err

		case array[mid] < target:
			newLeft := mid + 1
			actions := []model.VisualAction{
				{Type: "dimRange", Params: map[string]any{"from": left, "to": mid}},
				{Type: "movePointer", Params: map[string]any{"id": "left", "to": newLeft}},
			}
			// The remaining space may be empty, highlight it only if it exists.
			if newLeft <= right {
				actions = append(actions, model.VisualAction{
					Type: "highlightRange", Params: map[string]any{"from": newLeft, "to": right, "color": "highlight"},
				})
			}
			_, err = sb.Emit(engine.StepSpec{
				ID:    "go_right",
				Title: "Search Right Half",
				Explanation: fmt.Sprintf(
					"array[%d] = %d is less than target %d. Discarding the left half, setting left = %d.",
					mid, array[mid], target, newLeft),
				State: map[string]any{
					"array": array, "target": target, "left": newLeft, "right": right, "mid": mid, "result": nil,
				},
				VisualActions: actions,
				CodeHighlight: model.CodeHighlight{Language: "pseudocode", Lines: []int{9, 10}},
				Phase:         "search",
			})
			if err != nil {
				return err
			}
			left = newLeft

		default:
			newRight := mid - 1
			_, err = sb.Emit(engine.StepSpec{
				ID:    "go_left",
				Title: "Search Left Half",
				Explanation: fmt.Sprintf(
					"array[%d] = %d is greater than target %d. Discarding the right half, setting right = %d.",
					mid, array[mid], target, newRight),
				State: map[string]any{
					"array": array, "target": target, "left": left, "right": newRight, "mid": mid, "result": nil,
				},
				VisualActions: []model.VisualAction{
					{Type: "dimRange", Params: map[string]any{"from": mid, "to": right}},
					{Type: "movePointer", Params: map[string]any{"id": "right", "to": newRight}},
				},
				CodeHighlight: model.CodeHighlight{Language: "pseudocode", Lines: []int{11, 12}},
				Phase:         "search",
			})
			if err != nil {
				return err
			}
			right = newRight
		}
	}

	_, err = sb.Emit(engine.StepSpec{
		ID:    "not_found",
		Title: "Target Not Found",
		Explanation: fmt.Sprintf(
			"left (%d) is greater than right (%d), the search space is empty. %d is not in the array.",
			left, right, target),
		State: map[string]any{
			"array": array, "target": target, "left": left, "right": right, "result": nil,
		},
		VisualActions: []model.VisualAction{
			{Type: "showMessage", Params: map[string]any{
				"text": fmt.Sprintf("%d is not in the array", target), "messageType": "error",
			}},
		},
		CodeHighlight: model.CodeHighlight{Language: "pseudocode", Lines: []int{14}},
		IsTerminal:    true,
		Phase:         "result",
	})
	return err
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
