package report

import (
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/dustin/go-humanize"

	"github.com/davetashner/nitroviz/internal/dataset"
	"github.com/davetashner/nitroviz/internal/metrics"
	"github.com/davetashner/nitroviz/internal/style"
)

func init() {
	Register(&collectionSection{})
}

// collectionSection summarizes sampling effort per crop at the four sites.
type collectionSection struct {
	crops []metrics.CropSummary
	sites map[string]map[string]int
	total int
}

func (s *collectionSection) Name() string { return "collection" }
func (s *collectionSection) Description() string {
	return "Samples per crop and site with collection date ranges"
}

func (s *collectionSection) Analyze(src *Sources) error {
	if src == nil || src.Unified == nil {
		return fmt.Errorf("collection: %w", ErrDataNotAvailable)
	}
	t := src.Unified.Filter(func(smp *dataset.Sample) bool { return slices.Contains(dataset.Sites, smp.Location) })

	crops, err := metrics.SummarizeCrops(t, style.CropOrder)
	if err != nil {
		return fmt.Errorf("collection: %w", err)
	}
	sites, err := metrics.CountByLocationCrop(t)
	if err != nil {
		return fmt.Errorf("collection: %w", err)
	}
	s.crops, s.sites, s.total = crops, sites, t.Len()
	return nil
}

func (s *collectionSection) Render(w io.Writer) error {
	_, _ = fmt.Fprintf(w, "%s\n", SectionTitle("Data Collection"))
	_, _ = fmt.Fprintf(w, "---------------\n")
	_, _ = fmt.Fprintf(w, "  %s samples at %d sites\n\n", humanize.Comma(int64(s.total)), len(s.sites))

	tbl := NewTable(
		Column{Header: "Crop"},
		Column{Header: "Samples", Align: AlignRight},
		Column{Header: "First"},
		Column{Header: "Last"},
		Column{Header: "Dates", Align: AlignRight},
		Column{Header: "Sites", Align: AlignRight},
	)
	for _, c := range s.crops {
		first, last := "n/a", "n/a"
		if !c.First.IsZero() {
			first, last = c.First.Format("Jan 2006"), c.Last.Format("Jan 2006")
		}
		tbl.AddRow(c.Crop, humanize.Comma(int64(c.Total)), first, last,
			strconv.Itoa(c.UniqueDates), strconv.Itoa(s.sitesWith(c.Crop)))
	}
	if err := tbl.Render(w); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "\n")
	return nil
}

func (s *collectionSection) sitesWith(crop string) int {
	n := 0
	for _, crops := range s.sites {
		if crops[crop] > 0 {
			n++
		}
	}
	return n
}
