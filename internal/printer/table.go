package printer

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/slok/stepviz/internal/model"
)

// TablePrinter prints information in a table format.
type TablePrinter struct {
	writer io.Writer
}

// NewTablePrinter creates a new table printer.
func NewTablePrinter(w io.Writer) *TablePrinter {
	return &TablePrinter{writer: w}
}

// PrintCatalog prints the algorithm catalog in a table format.
func (t *TablePrinter) PrintCatalog(infos []model.AlgorithmInfo) error {
	if len(infos) == 0 {
		return nil
	}

	tw := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tDIFFICULTY\tTIME\tSPACE")

	for _, info := range infos {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			info.ID, info.Name, info.Category, info.Difficulty, info.TimeComplexity, info.SpaceComplexity)
	}

	return nil
}

// PrintSequence prints a step sequence summary: one row per step.
func (t *TablePrinter) PrintSequence(seq model.StepSequence) error {
	fmt.Fprintf(t.writer, "Algorithm:  %s\n", seq.AlgorithmID)
	fmt.Fprintf(t.writer, "Steps:      %d\n", len(seq.Steps))
	fmt.Fprintf(t.writer, "Generated:  %s (%s)\n", seq.GeneratedAt.UTC().Format("2006-01-02 15:04:05"), seq.GeneratedBy)
	fmt.Fprintln(t.writer)

	tw := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintln(tw, "INDEX\tID\tPHASE\tACTIONS\tTITLE")

	for _, step := range seq.Steps {
		id := step.ID
		if step.IsTerminal {
			id += " (terminal)"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n", step.Index, id, step.Phase, len(step.VisualActions), step.Title)
	}

	return nil
}

// PrintSequenceRefs prints stored fixture references in a table format.
func (t *TablePrinter) PrintSequenceRefs(refs []model.SequenceRef) error {
	if len(refs) == 0 {
		return nil
	}

	tw := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintln(tw, "ALGORITHM\tSTEPS\tGENERATED\tBY")

	for _, ref := range refs {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n",
			ref.AlgorithmID, ref.StepCount, ref.GeneratedAt.UTC().Format("2006-01-02 15:04:05"), ref.GeneratedBy)
	}

	return nil
}

// PrintMessage prints a simple message.
func (t *TablePrinter) PrintMessage(msg string) error {
	_, err := fmt.Fprintln(t.writer, msg)
	return err
}
