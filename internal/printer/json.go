package printer

import (
	"encoding/json"
	"io"
	"time"

	"github.com/slok/stepviz/internal/model"
)

// JSONPrinter prints information in JSON format.
type JSONPrinter struct {
	writer io.Writer
}

// NewJSONPrinter creates a new JSON printer.
func NewJSONPrinter(w io.Writer) *JSONPrinter {
	return &JSONPrinter{writer: w}
}

// catalogItem represents an algorithm in the catalog output.
type catalogItem struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Category        string `json:"category"`
	Description     string `json:"description"`
	Difficulty      string `json:"difficulty"`
	TimeComplexity  string `json:"time_complexity"`
	SpaceComplexity string `json:"space_complexity"`
}

// refItem represents a stored fixture reference in the list output.
type refItem struct {
	ID          string    `json:"id"`
	AlgorithmID string    `json:"algorithm_id"`
	StepCount   int       `json:"step_count"`
	GeneratedAt time.Time `json:"generated_at"`
	GeneratedBy string    `json:"generated_by"`
}

// messageOutput represents a simple message output.
type messageOutput struct {
	Message string `json:"message"`
}

// PrintCatalog prints the algorithm catalog in JSON format.
func (j *JSONPrinter) PrintCatalog(infos []model.AlgorithmInfo) error {
	items := make([]catalogItem, len(infos))
	for i, info := range infos {
		items[i] = catalogItem{
			ID:              info.ID,
			Name:            info.Name,
			Category:        string(info.Category),
			Description:     info.Description,
			Difficulty:      info.Difficulty,
			TimeComplexity:  info.TimeComplexity,
			SpaceComplexity: info.SpaceComplexity,
		}
	}

	enc := json.NewEncoder(j.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(items)
}

// PrintSequence prints the full step sequence artifact in its wire format.
func (j *JSONPrinter) PrintSequence(seq model.StepSequence) error {
	enc := json.NewEncoder(j.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(seq)
}

// PrintSequenceRefs prints stored fixture references in JSON format.
func (j *JSONPrinter) PrintSequenceRefs(refs []model.SequenceRef) error {
	items := make([]refItem, len(refs))
	for i, ref := range refs {
		items[i] = refItem{
			ID:          ref.ID,
			AlgorithmID: ref.AlgorithmID,
			StepCount:   ref.StepCount,
			GeneratedAt: ref.GeneratedAt.UTC(),
			GeneratedBy: ref.GeneratedBy,
		}
	}

	enc := json.NewEncoder(j.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(items)
}

// PrintMessage prints a simple message in JSON format.
func (j *JSONPrinter) PrintMessage(msg string) error {
	enc := json.NewEncoder(j.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(messageOutput{Message: msg})
}
