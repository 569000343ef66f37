package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/davetashner/nitroviz/internal/dataset"
)

// ReportJSON is the top-level JSON structure for --format json output.
type ReportJSON struct {
	DataDir   string        `json:"data_dir"`
	Generated string        `json:"generated"`
	Tables    TablesJSON    `json:"tables"`
	Sections  []SectionJSON `json:"sections,omitempty"`
}

// TablesJSON reports the row counts of the loaded source tables. A missing
// table is reported as -1.
type TablesJSON struct {
	Unified int `json:"unified"`
	NPK     int `json:"npk"`
}

// SectionJSON is the JSON representation of a single report section.
type SectionJSON struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status"`            // "ok", "skipped"
	Content     string `json:"content,omitempty"` // rendered text
}

// RenderText writes the header and every requested section to w. Sections
// whose source table is missing are noted and skipped.
func RenderText(src *Sources, dataDir string, sections []string, w io.Writer) error {
	_, _ = fmt.Fprintf(w, "%s\n", SectionTitle("nitroviz summary"))
	_, _ = fmt.Fprintf(w, "  Data:    %s\n", dataDir)
	_, _ = fmt.Fprintf(w, "  Unified: %s\n", rowCount(src.Unified))
	_, _ = fmt.Fprintf(w, "  NPK:     %s\n\n", rowCount(src.NPK))

	for _, name := range ResolveSections(sections) {
		sec := Get(name)
		if sec == nil {
			continue
		}
		if err := sec.Analyze(src); err != nil {
			if errors.Is(err, ErrDataNotAvailable) {
				_, _ = fmt.Fprintf(w, "%s: skipped (%v)\n\n", sec.Name(), err)
				continue
			}
			return fmt.Errorf("section %s: %w", name, err)
		}
		if err := sec.Render(w); err != nil {
			return fmt.Errorf("section %s render: %w", name, err)
		}
	}
	return nil
}

// RenderJSON writes the report as machine-readable JSON.
func RenderJSON(src *Sources, dataDir string, sections []string, w io.Writer) error {
	out := ReportJSON{
		DataDir:   dataDir,
		Generated: time.Now().Format(time.RFC3339),
		Tables:    TablesJSON{Unified: -1, NPK: -1},
	}
	if src.Unified != nil {
		out.Tables.Unified = src.Unified.Len()
	}
	if src.NPK != nil {
		out.Tables.NPK = src.NPK.Len()
	}

	for _, name := range ResolveSections(sections) {
		sec := Get(name)
		if sec == nil {
			continue
		}

		sj := SectionJSON{
			Name:        sec.Name(),
			Description: sec.Description(),
		}

		if err := sec.Analyze(src); err != nil {
			if errors.Is(err, ErrDataNotAvailable) {
				sj.Status = "skipped"
				out.Sections = append(out.Sections, sj)
				continue
			}
			return fmt.Errorf("section %s: %w", name, err)
		}

		sj.Status = "ok"
		var buf bytes.Buffer
		if err := sec.Render(&buf); err != nil {
			return fmt.Errorf("section %s render: %w", name, err)
		}
		sj.Content = buf.String()
		out.Sections = append(out.Sections, sj)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("JSON marshal: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// ResolveSections determines which sections to run without printing warnings.
// If filter is empty, all registered sections are used.
func ResolveSections(filter []string) []string {
	if len(filter) == 0 {
		return List()
	}

	available := make(map[string]bool)
	for _, name := range List() {
		available[name] = true
	}

	var names []string
	for _, name := range filter {
		if available[name] {
			names = append(names, name)
		}
	}
	return names
}

func rowCount(t *dataset.Table) string {
	if t == nil {
		return "not available"
	}
	return humanize.Comma(int64(t.Len())) + " rows"
}
