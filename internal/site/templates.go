package site

// pageTemplate renders one referee page: the current card, then the toggle
// button and the history panel with every earlier card.
const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Referee {{.ID}}</title>
<link rel="stylesheet" href="../style.css">
<script src="../custom.js" defer></script>
</head>
<body>
<h2>Referee {{.ID}}</h2>
<h2>{{.Current.Name}}</h2>
<h3>{{.Current.Flag}} {{.Current.Country}}</h3>
{{template "card" .Current}}
{{- if .History}}
<button id="{{.Toggle.ButtonID}}">{{.Toggle.ShowLabel}}</button>
<div id="{{.Toggle.PanelID}}">
{{- range .History}}
{{template "card" .}}
{{- end}}
</div>
{{- end}}
{{- if .Athena}}
<p><a href="{{.Athena}}">Athena profile</a></p>
{{- end}}
</body>
</html>
`

const cardTemplate = `{{define "card"}}<div class="card {{.Status}}">
<p class="date">{{.RecordedOn}}</p>
<p class="status">{{.StatusText}}</p>
<p class="{{.Class "name"}}">{{.Name}}</p>
<p class="{{.Class "category"}}">Category {{.Category}}</p>
{{- if .Photo}}
<img class="{{.Class "photo"}}" src="{{.Photo}}" alt="{{.Name}}">
{{- end}}
<p class="{{.Class "other"}}"><span class="birthdate" data-birthdate="{{.Birthdate}}">{{.Birthdate}}</span> {{.Sex}}</p>
<p class="{{.Class "country"}}">{{.Flag}} {{.Country}}</p>
</div>{{end}}`

const changesTemplate = `{{- if .Changed}}
<h2>Referee Updates, {{.Date}}</h2>
<ul>
{{- range .Changed}}
<li>
<a href="referees/{{.Slug}}.html">Referee {{.ID}} ({{.Name}} - {{.Country}})</a> has changed:
<ul>
{{- range .Lines}}
<li>{{.}}</li>
{{- end}}
</ul>
</li>
{{- end}}
</ul>
{{- end}}
{{- if .Added}}
<h2>New Referees</h2>
<ul>
{{- range .Added}}
<li><a href="referees/{{.Slug}}.html">Referee {{.ID}} ({{.Name}} - {{.Country}})</a></li>
{{- end}}
</ul>
{{- end}}
{{- if .Removed}}
<h2>Retired Referees</h2>
<ul>
{{- range .Removed}}
<li><a href="referees/{{.Slug}}.html">Referee {{.ID}} ({{.Name}} - {{.Country}})</a></li>
{{- end}}
</ul>
{{- end}}
`

// cssContent is formatted with the highlight class for each %s
const cssContent = `body {
  font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
  max-width: 40rem;
  margin: 2rem auto;
  padding: 0 1rem;
  color: #222;
}
.card {
  border: 1px solid #ccc;
  border-radius: 6px;
  padding: 0.5rem 1rem;
  margin: 1rem 0;
}
.card.retired { opacity: 0.6; }
.card img { max-width: 8rem; }
.date, .status { color: #666; font-size: 0.9rem; }
.%s {
  animation: %s 1s linear infinite;
  background: #fff3b0;
}
@keyframes %s {
  50%% { opacity: 0.2; }
}
`
