package page

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Policy decides what a click does to the history panel
type Policy string

const (
	PolicyToggle Policy = "toggle" // each click flips the panel
	PolicyShow   Policy = "show"   // clicks only ever reveal the panel
)

// Valid reports whether p is a known policy
func (p Policy) Valid() bool {
	return p == PolicyToggle || p == PolicyShow
}

// ToggleConfig describes the history toggle on a page
type ToggleConfig struct {
	ButtonID  string `koanf:"button_id" yaml:"button_id" json:"buttonId"`
	ButtonTag string `koanf:"button_tag" yaml:"button_tag" json:"buttonTag"` // optional, scopes the button selector

	PanelID string `koanf:"panel_id" yaml:"panel_id" json:"panelId"`

	// Elements carrying MarkerClass get HighlightClass while highlighted.
	MarkerClass    string `koanf:"marker_class" yaml:"marker_class" json:"markerClass"`
	HighlightClass string `koanf:"highlight_class" yaml:"highlight_class" json:"highlightClass"`

	Policy      Policy `koanf:"policy" yaml:"policy" json:"policy"`
	UpdateLabel bool   `koanf:"update_label" yaml:"update_label" json:"updateLabel"`
	ShowLabel   string `koanf:"show_label" yaml:"show_label" json:"showLabel"`
	HideLabel   string `koanf:"hide_label" yaml:"hide_label" json:"hideLabel"`
}

// DefaultToggleConfig is the current profile page toggle: blink_me__ elements
// blink, the panel flips, and the button label follows the panel.
func DefaultToggleConfig() ToggleConfig {
	return ToggleConfig{
		ButtonID:       "toggle",
		PanelID:        "history",
		MarkerClass:    "blink_me__",
		HighlightClass: "blink_me",
		Policy:         PolicyToggle,
		UpdateLabel:    true,
		ShowLabel:      "Show History",
		HideLabel:      "Hide History",
	}
}

// LegacyToggleConfig is the earlier toggle: blink_off elements blink, the
// panel is only ever revealed, and the button keeps its label.
func LegacyToggleConfig() ToggleConfig {
	cfg := DefaultToggleConfig()
	cfg.ButtonTag = "button"
	cfg.MarkerClass = "blink_off"
	cfg.HighlightClass = "blink"
	cfg.Policy = PolicyShow
	cfg.UpdateLabel = false
	return cfg
}

// Validate checks the config for missing selectors and unknown policies
func (c ToggleConfig) Validate() error {
	if c.ButtonID == "" || c.PanelID == "" {
		return fmt.Errorf("toggle: button_id and panel_id are required")
	}
	if c.MarkerClass == "" || c.HighlightClass == "" {
		return fmt.Errorf("toggle: marker_class and highlight_class are required")
	}
	if !c.Policy.Valid() {
		return fmt.Errorf("toggle: invalid policy %q (must be 'toggle' or 'show')", c.Policy)
	}
	return nil
}

// ButtonSelector returns the CSS selector of the trigger button
func (c ToggleConfig) ButtonSelector() string {
	return c.ButtonTag + "#" + c.ButtonID
}

// HistoryPanelState holds the two UI flags driven by the toggle button
type HistoryPanelState struct {
	Highlighted bool
	Visible     bool
}

// HistoryToggle is the click-driven state machine behind the history button.
// The zero state (not highlighted, panel hidden) is the page-load state.
type HistoryToggle struct {
	cfg   ToggleConfig
	state HistoryPanelState
}

// NewHistoryToggle creates a toggle in its page-load state
func NewHistoryToggle(cfg ToggleConfig) *HistoryToggle {
	return &HistoryToggle{cfg: cfg}
}

// State returns the current flags
func (t *HistoryToggle) State() HistoryPanelState {
	return t.state
}

// Click applies one click and returns the new state
func (t *HistoryToggle) Click() HistoryPanelState {
	t.state.Highlighted = !t.state.Highlighted
	switch t.cfg.Policy {
	case PolicyShow:
		t.state.Visible = true
	default:
		t.state.Visible = !t.state.Visible
	}
	return t.state
}

// Label returns the button text for the current state
func (t *HistoryToggle) Label() string {
	if t.state.Visible {
		return t.cfg.HideLabel
	}
	return t.cfg.ShowLabel
}

// Reconcile writes the current state onto doc: highlight class on marked
// elements, panel visibility, and the button label when enabled.
func (t *HistoryToggle) Reconcile(doc *goquery.Document) {
	marked := doc.Find("." + t.cfg.MarkerClass)
	if t.state.Highlighted {
		marked.AddClass(t.cfg.HighlightClass)
	} else {
		marked.RemoveClass(t.cfg.HighlightClass)
	}

	setHidden(doc.Find("#"+t.cfg.PanelID), !t.state.Visible)

	if t.cfg.UpdateLabel {
		doc.Find(t.cfg.ButtonSelector()).SetText(t.Label())
	}
}

// setHidden sets or clears an inline "display: none" while keeping any
// other declarations of the style attribute.
func setHidden(sel *goquery.Selection, hidden bool) {
	sel.Each(func(_ int, s *goquery.Selection) {
		style, _ := s.Attr("style")

		var decls []string
		for _, d := range strings.Split(style, ";") {
			d = strings.TrimSpace(d)
			if d == "" {
				continue
			}
			prop := strings.ToLower(strings.TrimSpace(strings.SplitN(d, ":", 2)[0]))
			if prop == "display" {
				continue
			}
			decls = append(decls, d)
		}
		if hidden {
			decls = append(decls, "display: none")
		}

		if len(decls) == 0 {
			s.RemoveAttr("style")
			return
		}
		s.SetAttr("style", strings.Join(decls, "; ")+";")
	})
}
