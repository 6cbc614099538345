package printer

import "github.com/slok/stepviz/internal/model"

// Printer knows how to print catalog and sequence information in different
// formats.
type Printer interface {
	PrintCatalog(infos []model.AlgorithmInfo) error
	PrintSequence(seq model.StepSequence) error
	PrintSequenceRefs(refs []model.SequenceRef) error
	PrintMessage(msg string) error
}
