package render

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta name="generator" content="nitroviz {{.Version}}">
{{- if .Doc.RunID}}
<meta name="nitroviz-run-id" content="{{.Doc.RunID}}">
{{- end}}
{{- if .Doc.Revision}}
<meta name="nitroviz-data-revision" content="{{.Doc.Revision}}">
{{- end}}
<title>{{.Doc.Title}}</title>
<script src="{{.PlotlyURL}}" charset="utf-8"></script>
{{.Doc.Head}}
<style>
{{.BaseCSS}}
{{.Doc.CSS}}
</style>
</head>
<body>
<h1>{{.Doc.Heading}}</h1>
{{- if .Doc.Subtitle}}
<p class="subtitle">{{.Doc.Subtitle}}</p>
{{- end}}
{{range .Blocks}}{{template "block" .}}{{end}}
<p class="timestamp">Report generated: {{.GeneratedAt}}</p>
</body>
</html>
{{define "block"}}
{{- if eq .Kind "h2"}}<h2>{{.Text}}</h2>
{{else if eq .Kind "h3"}}<h3>{{.Text}}</h3>
{{else if eq .Kind "h4"}}<h4>{{.Text}}</h4>
{{else if eq .Kind "p"}}<p>{{.HTML}}</p>
{{else if eq .Kind "ul"}}<ul>{{range .Items}}<li>{{.}}</li>{{end}}</ul>
{{else if eq .Kind "box"}}<div class="{{.Class}}">
{{range .Children}}{{template "block" .}}{{end}}</div>
{{else if eq .Kind "figure"}}<div id="{{.ID}}" class="figure"></div>
<script>Plotly.newPlot({{.ID}}, {{json .Figure.Data}}, {{json .Figure.Layout}}, {"responsive": true});</script>
{{else if eq .Kind "table"}}{{template "table" .Table}}
{{else if eq .Kind "raw"}}{{.HTML}}
{{end}}
{{- end}}
{{define "table"}}<table class="{{.Class}}">
<tr>{{range .Headers}}<th>{{.}}</th>{{end}}</tr>
{{range .Rows}}<tr{{with rowStyle .}} style="{{.}}"{{end}}>{{range .Cells}}<td{{with cellStyle .}} style="{{.}}"{{end}}>{{.Text}}</td>{{end}}</tr>
{{end}}</table>
{{- end}}`
