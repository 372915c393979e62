package dashboard

import (
	"fmt"
	"html/template"
)

var templateFuncs = template.FuncMap{
	"percent": func(v float64) string {
		return fmt.Sprintf("%.2f%%", v*100)
	},
	"kb": func(size uint64) string {
		return fmt.Sprintf("%.1f KB", float64(size)/1024)
	},
	"fmtval": func(v float64) string {
		return fmt.Sprintf("%.3f", v)
	},
}

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Instrument Test Results Dashboard</title>
<style>
  body { font-family: sans-serif; margin: 2em; color: #2c3e50; background: #f7f9fa; }
  h1 { text-align: center; }
  .cards { display: flex; flex-wrap: wrap; justify-content: center; }
  .card { background: white; border: 1px solid #ddd; border-radius: 8px;
          padding: 20px; margin: 10px; box-shadow: 0 2px 4px rgba(0,0,0,0.1);
          min-width: 280px; }
  .card h2 { margin-top: 0; }
  .rate { font-size: 1.6em; font-weight: bold; }
  .rate.good { color: #27ae60; }
  .rate.bad { color: #c0392b; }
  table { border-collapse: collapse; width: 100%; margin-top: 10px; }
  th, td { border: 1px solid #ddd; padding: 4px 8px; text-align: right; font-size: 0.85em; }
  th:first-child, td:first-child { text-align: left; }
  .empty { text-align: center; color: #7f8c8d; margin-top: 4em; }
  .links a { margin-right: 0.8em; font-size: 0.85em; }
  footer { text-align: center; color: #7f8c8d; margin-top: 3em; }
</style>
</head>
<body>
<h1>Instrument Test Results Dashboard</h1>
{{if not .Entries}}
<div class="empty">
  <h2>No test results found</h2>
  <p>Run the simulations first: <code>instrsim run all</code></p>
</div>
{{else}}
<div class="cards">
{{range .Entries}}
  <div class="card">
    <h2>{{.Summary.Type}}</h2>
    <div class="rate {{if ge .Summary.PassRate 0.95}}good{{else}}bad{{end}}">{{percent .Summary.PassRate}}</div>
    <p>{{.Summary.SampleCount}} samples ({{.Summary.PassCount}} pass / {{.Summary.FailCount}} fail)</p>
    <p>Run {{printf "%.8s" .Summary.RunID}} at {{.Summary.Timestamp.Format "2006-01-02 15:04:05"}}</p>
    {{if .Summary.Channels}}
    <table>
      <tr><th>channel</th><th>mean</th><th>std</th><th>min</th><th>max</th><th>LCL</th><th>UCL</th></tr>
      {{range $name, $cs := .Summary.Channels}}
      <tr>
        <td>{{$name}}{{if $cs.Unit}} ({{$cs.Unit}}){{end}}</td>
        <td>{{fmtval $cs.Mean}}</td><td>{{fmtval $cs.Std}}</td>
        <td>{{fmtval $cs.Min}}</td><td>{{fmtval $cs.Max}}</td>
        <td>{{fmtval $cs.LCL}}</td><td>{{fmtval $cs.UCL}}</td>
      </tr>
      {{end}}
    </table>
    {{end}}
    {{if .Summary.Groups}}
    <table>
      <tr><th>group</th><th>pass rate</th><th>mean</th><th>std</th><th>min</th><th>max</th></tr>
      {{range $name, $gs := .Summary.Groups}}
      <tr>
        <td>{{$name}}{{if $gs.Unit}} ({{$gs.Unit}}){{end}}</td>
        <td>{{percent $gs.PassRate}}</td>
        <td>{{fmtval $gs.Mean}}</td><td>{{fmtval $gs.Std}}</td>
        <td>{{fmtval $gs.Min}}</td><td>{{fmtval $gs.Max}}</td>
      </tr>
      {{end}}
    </table>
    {{end}}
    <p class="links">
      {{$type := .Summary.Type}}
      {{range .Artifacts}}<a href="/reports/{{$type}}/{{.File}}">{{.Type}} ({{kb .Size}})</a>{{end}}
    </p>
  </div>
{{end}}
</div>
{{end}}
<footer>Generated {{.GeneratedAt.Format "2006-01-02 15:04:05"}}</footer>
</body>
</html>
`
