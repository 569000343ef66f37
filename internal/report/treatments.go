package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/davetashner/nitroviz/internal/metrics"
	"github.com/davetashner/nitroviz/internal/style"
)

func init() {
	Register(&treatmentsSection{})
}

// treatmentsSection reports N and ST per fertilization arm.
type treatmentsSection struct {
	sums []metrics.TreatmentSummary
}

func (s *treatmentsSection) Name() string        { return "treatments" }
func (s *treatmentsSection) Description() string { return "N and ST statistics per NPK treatment" }

func (s *treatmentsSection) Analyze(src *Sources) error {
	if src == nil || src.NPK == nil {
		return fmt.Errorf("treatments: %w", ErrDataNotAvailable)
	}
	labels := make([]string, len(style.Treatments))
	for i, tr := range style.Treatments {
		labels[i] = tr.Label
	}
	sums, err := metrics.SummarizeTreatments(src.NPK, labels)
	if err != nil {
		return fmt.Errorf("treatments: %w", err)
	}
	s.sums = sums
	return nil
}

func (s *treatmentsSection) Render(w io.Writer) error {
	_, _ = fmt.Fprintf(w, "%s\n", SectionTitle("NPK Treatments"))
	_, _ = fmt.Fprintf(w, "--------------\n")

	tbl := NewTable(
		Column{Header: "Treatment"},
		Column{Header: "kg N/ha", Align: AlignRight},
		Column{Header: "Samples", Align: AlignRight},
		Column{Header: "N %", Align: AlignRight},
		Column{Header: "ST mg/g", Align: AlignRight},
	)
	for _, sum := range s.sums {
		rate := ""
		if tr, ok := style.TreatmentByLabel(sum.Label); ok {
			rate = strconv.Itoa(tr.Rate)
		}
		tbl.AddRow(sum.Label, rate, strconv.Itoa(sum.Samples), meanStd(sum.N, 2), meanStd(sum.ST, 1))
	}
	if err := tbl.Render(w); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "\n")
	return nil
}

func meanStd(s metrics.Summary, prec int) string {
	if s.Count == 0 {
		return "n/a"
	}
	return fmt.Sprintf("%.*f ± %.*f", prec, s.Mean, prec, s.Std)
}
