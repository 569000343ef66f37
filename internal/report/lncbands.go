package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/davetashner/nitroviz/internal/dataset"
	"github.com/davetashner/nitroviz/internal/metrics"
	"github.com/davetashner/nitroviz/internal/style"
)

func init() {
	Register(&lncBandsSection{})
}

// lncBandsSection classifies each treatment's latest monthly mean N against
// that month's seasonal thresholds.
type lncBandsSection struct {
	rows []lncRow
}

type lncRow struct {
	label     string
	latest    metrics.Point
	band      style.Band
	optimum   int
	classed   int
	hasLatest bool
}

func (s *lncBandsSection) Name() string { return "lnc-bands" }
func (s *lncBandsSection) Description() string {
	return "Latest leaf nitrogen band and optimum occupancy per treatment"
}

func (s *lncBandsSection) Analyze(src *Sources) error {
	if src == nil || src.NPK == nil {
		return fmt.Errorf("lnc-bands: %w", ErrDataNotAvailable)
	}
	byTreatment, err := metrics.MeanByTreatmentMonth(src.NPK, dataset.ColN)
	if err != nil {
		return fmt.Errorf("lnc-bands: %w", err)
	}
	s.rows = s.rows[:0]
	for _, tr := range style.Treatments {
		pts := byTreatment[tr.Label]
		row := lncRow{label: tr.Label}
		if len(pts) > 0 {
			row.latest = pts[len(pts)-1]
			row.band = metrics.ClassifyWith(row.latest.Mean, style.ForMonth(row.latest.Month.Month))
			row.hasLatest = true
			occ := metrics.Occupancy(pts)
			row.optimum, row.classed = occ[style.Optimum], occ.Total()
		}
		s.rows = append(s.rows, row)
	}
	return nil
}

func (s *lncBandsSection) Render(w io.Writer) error {
	_, _ = fmt.Fprintf(w, "%s\n", SectionTitle("Leaf Nitrogen Bands"))
	_, _ = fmt.Fprintf(w, "-------------------\n")

	tbl := NewTable(
		Column{Header: "Treatment"},
		Column{Header: "Latest Month"},
		Column{Header: "Mean N %", Align: AlignRight},
		Column{Header: "Band", Color: ColorBand},
		Column{Header: "Months in Optimum", Align: AlignRight},
	)
	for _, r := range s.rows {
		if !r.hasLatest {
			tbl.AddRow(r.label, "n/a", "n/a", "", "0/0")
			continue
		}
		tbl.AddRow(r.label, r.latest.Month.String(), fmt.Sprintf("%.2f", r.latest.Mean), r.band.String(),
			strconv.Itoa(r.optimum)+"/"+strconv.Itoa(r.classed))
	}
	if err := tbl.Render(w); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "\n")
	return nil
}
