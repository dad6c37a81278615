package page

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"text/template"
)

//go:embed script.js.tmpl
var scriptSource string

var scriptTmpl = template.Must(template.New("script").Parse(scriptSource))

// ScriptOptions selects what the browser script does on page-ready.
// Parts already applied server-side by Enhance should be left off; the age
// line in particular is inserted again on every run.
type ScriptOptions struct {
	Toggle ToggleConfig
	Age    *AgeConfig // nil leaves the age line to the server
	Title  bool
}

// WriteScript writes the browser script for opts to w
func WriteScript(w io.Writer, opts ScriptOptions) error {
	if err := opts.Toggle.Validate(); err != nil {
		return err
	}

	toggle, err := json.Marshal(opts.Toggle)
	if err != nil {
		return fmt.Errorf("encoding toggle config: %w", err)
	}
	ageCfg := []byte("null")
	if opts.Age != nil {
		if ageCfg, err = json.Marshal(opts.Age); err != nil {
			return fmt.Errorf("encoding age config: %w", err)
		}
	}

	return scriptTmpl.Execute(w, map[string]any{
		"Toggle": string(toggle),
		"Age":    string(ageCfg),
		"Title":  opts.Title,
	})
}
