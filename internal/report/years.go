package report

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"

	"github.com/davetashner/nitroviz/internal/dataset"
	"github.com/davetashner/nitroviz/internal/metrics"
)

func init() {
	Register(&yearsSection{})
}

// yearsSection shows the year effect on starch: per-year ST against the
// overall mean, with the lowest year flagged.
type yearsSection struct {
	years   []metrics.YearSummary
	overall float64
	lowest  int
}

func (s *yearsSection) Name() string        { return "years" }
func (s *yearsSection) Description() string { return "Starch by collection year against the overall mean" }

func (s *yearsSection) Analyze(src *Sources) error {
	if src == nil || src.NPK == nil {
		return fmt.Errorf("years: %w", ErrDataNotAvailable)
	}
	byYear, err := metrics.ValuesByYear(src.NPK, dataset.ColST)
	if err != nil {
		return fmt.Errorf("years: %w", err)
	}
	if len(byYear) == 0 {
		return fmt.Errorf("years: no dated ST readings: %w", ErrDataNotAvailable)
	}
	years, err := metrics.SummarizeYears(src.NPK, dataset.ColST, slices.Sorted(maps.Keys(byYear)))
	if err != nil {
		return fmt.Errorf("years: %w", err)
	}
	s.years = years
	s.overall, _ = metrics.Mean(metrics.Values(src.NPK.Samples, dataset.ColST))
	s.lowest = years[0].Year
	low := years[0].Mean
	for _, y := range years[1:] {
		if y.Mean < low {
			s.lowest, low = y.Year, y.Mean
		}
	}
	return nil
}

func (s *yearsSection) Render(w io.Writer) error {
	_, _ = fmt.Fprintf(w, "%s\n", SectionTitle("Starch by Year"))
	_, _ = fmt.Fprintf(w, "--------------\n")
	_, _ = fmt.Fprintf(w, "  Overall mean ST: %.1f mg/g\n\n", s.overall)

	tbl := NewTable(
		Column{Header: "Year"},
		Column{Header: "Samples", Align: AlignRight},
		Column{Header: "Mean ST", Align: AlignRight},
		Column{Header: "vs Overall", Align: AlignRight},
		Column{Header: "", Color: ColorFlag},
	)
	for _, y := range s.years {
		flag := ""
		if y.Year == s.lowest && len(s.years) > 1 {
			flag = "lowest"
		}
		tbl.AddRow(strconv.Itoa(y.Year), strconv.Itoa(y.Count), fmt.Sprintf("%.1f", y.Mean),
			fmt.Sprintf("%+.1f", y.Mean-s.overall), flag)
	}
	if err := tbl.Render(w); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "\n")
	return nil
}
