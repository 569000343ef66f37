package report

import (
	"fmt"
	"io"

	"github.com/davetashner/nitroviz/internal/metrics"
)

// recentMonths bounds the ratio table to the latest stretch of the series.
const recentMonths = 12

func init() {
	Register(&nstRatioSection{})
}

// nstRatioSection lists the recent monthly N/ST ratio with the series peak
// flagged.
type nstRatioSection struct {
	points []metrics.NSTPoint
	peak   metrics.YearMonth
}

func (s *nstRatioSection) Name() string        { return "nst-ratio" }
func (s *nstRatioSection) Description() string { return "Monthly N/ST ratio for the latest twelve months" }

func (s *nstRatioSection) Analyze(src *Sources) error {
	if src == nil || src.NPK == nil {
		return fmt.Errorf("nst-ratio: %w", ErrDataNotAvailable)
	}
	series, err := metrics.MonthlyNST(src.NPK)
	if err != nil {
		return fmt.Errorf("nst-ratio: %w", err)
	}
	if len(series.Points) == 0 {
		return fmt.Errorf("nst-ratio: no month has both N and ST: %w", ErrDataNotAvailable)
	}
	s.peak = series.Points[metrics.ArgMax(series.Column("Ratio"))].Month
	s.points = series.Points[max(0, len(series.Points)-recentMonths):]
	return nil
}

func (s *nstRatioSection) Render(w io.Writer) error {
	_, _ = fmt.Fprintf(w, "%s\n", SectionTitle("N/ST Ratio"))
	_, _ = fmt.Fprintf(w, "----------\n")
	_, _ = fmt.Fprintf(w, "  Series peak: %s\n\n", s.peak)

	tbl := NewTable(
		Column{Header: "Month"},
		Column{Header: "N %", Align: AlignRight},
		Column{Header: "ST mg/g", Align: AlignRight},
		Column{Header: "N/ST", Align: AlignRight},
		Column{Header: "", Color: ColorFlag},
	)
	for _, p := range s.points {
		flag := ""
		if p.Month == s.peak {
			flag = "peak"
		}
		tbl.AddRow(p.Month.String(), fmt.Sprintf("%.2f", p.N), fmt.Sprintf("%.1f", p.ST),
			fmt.Sprintf("%.4f", p.Ratio), flag)
	}
	if err := tbl.Render(w); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "\n")
	return nil
}
