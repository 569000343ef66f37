package render

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/davetashner/nitroviz/internal/chart"
	"github.com/davetashner/nitroviz/internal/style"
)

// PlotlyURL is the plotly.js bundle every page loads.
const PlotlyURL = "https://cdn.plot.ly/plotly-2.35.2.min.js"

// HTMLRenderer writes documents as self-contained HTML pages.
type HTMLRenderer struct {
	// Version is written into the generator meta tag.
	Version string

	nowFunc func() time.Time
}

// NewHTMLRenderer returns a renderer stamped with version.
func NewHTMLRenderer(version string) *HTMLRenderer {
	return &HTMLRenderer{Version: version}
}

var (
	pageTmplOnce sync.Once
	pageTmpl     *template.Template
)

func loadTemplate() *template.Template {
	pageTmplOnce.Do(func() {
		pageTmpl = template.Must(template.New("page").Funcs(template.FuncMap{
			"json": func(v any) (template.JS, error) {
				b, err := json.Marshal(v)
				if err != nil {
					return "", err
				}
				return template.JS(b), nil //nolint:gosec // intentional unescaped embedding
			},
			"cellStyle": cellStyle,
			"rowStyle":  rowStyle,
		}).Parse(pageTemplate))
	})
	return pageTmpl
}

type pageData struct {
	Doc         *Document
	BaseCSS     template.CSS
	PlotlyURL   string
	Version     string
	GeneratedAt string
	Blocks      []Block
}

// Render writes doc to w.
func (r *HTMLRenderer) Render(doc *Document, w io.Writer) error {
	now := time.Now()
	if r.nowFunc != nil {
		now = r.nowFunc()
	}

	data := pageData{
		Doc:         doc,
		BaseCSS:     template.CSS(style.BaseCSS), //nolint:gosec // constant stylesheet
		PlotlyURL:   PlotlyURL,
		Version:     r.Version,
		GeneratedAt: now.Format("2006-01-02 15:04"),
		Blocks:      numberFigures(doc.Blocks),
	}

	if err := loadTemplate().Execute(w, data); err != nil {
		return fmt.Errorf("execute page template: %w", err)
	}
	return nil
}

// numberFigures copies blocks, giving each figure a page-unique element id.
func numberFigures(blocks []Block) []Block {
	n := 0
	var copyBlocks func([]Block) []Block
	copyBlocks = func(in []Block) []Block {
		out := make([]Block, len(in))
		for i, b := range in {
			if b.Kind == KindFigure {
				n++
				b.id = fmt.Sprintf("figure-%d", n)
			}
			b.Children = copyBlocks(b.Children)
			out[i] = b
		}
		return out
	}
	return copyBlocks(blocks)
}

// ID returns the element id assigned to a figure block.
func (b Block) ID() string { return b.id }

func cellStyle(c chart.TableCell) template.CSS {
	var parts []string
	if c.Background != "" {
		parts = append(parts, "background: "+c.Background)
	}
	if c.Color != "" {
		parts = append(parts, "color: "+c.Color)
	}
	if c.Bold {
		parts = append(parts, "font-weight: bold")
	}
	return template.CSS(strings.Join(parts, "; ")) //nolint:gosec // colors come from the validated theme
}

func rowStyle(r chart.TableRow) template.CSS {
	var parts []string
	if r.Background != "" {
		parts = append(parts, "background: "+r.Background)
	}
	if r.Bold {
		parts = append(parts, "font-weight: bold")
	}
	return template.CSS(strings.Join(parts, "; ")) //nolint:gosec // colors come from the validated theme
}
