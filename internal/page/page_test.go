package page

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/pfrederiksen/uww-referees/internal/age"
)

const profileHTML = `<!DOCTYPE html>
<html><head><title>Referee</title></head><body>
<h2>UWW Referee</h2>
<h2>Jane Smith</h2>
<h3>France</h3>
<p class="birthdate" data-birthdate="1980-05-12">Born 1980-05-12</p>
<span class="name blink_me__">Jane Smith</span>
<span class="country">FRA</span>
<span class="category blink_off">I</span>
<button id="toggle">Show History</button>
<div id="history" style="color: red"><p>old card</p></div>
</body></html>`

func newDoc(t *testing.T, src string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		t.Fatalf("parsing HTML: %v", err)
	}
	return doc
}

func render(t *testing.T, doc *goquery.Document) string {
	t.Helper()
	out, err := doc.Html()
	if err != nil {
		t.Fatalf("rendering HTML: %v", err)
	}
	return out
}

func isHidden(sel *goquery.Selection) bool {
	style, _ := sel.Attr("style")
	for _, d := range strings.Split(style, ";") {
		kv := strings.SplitN(d, ":", 2)
		if len(kv) == 2 && strings.EqualFold(strings.TrimSpace(kv[0]), "display") &&
			strings.EqualFold(strings.TrimSpace(kv[1]), "none") {
			return true
		}
	}
	return false
}

func TestIDFromPath(t *testing.T) {
	tests := []struct {
		path   string
		wantID int
		wantOK bool
	}{
		{"/referees/42_smith", 42, true},
		{"/referees/0000042.html", 42, true},
		{"42", 42, true},
		{"/p/-7_x", -7, true},
		{"/p/ 12abc", 12, true},
		{"/referees/abc_42", 0, false},
		{"/referees/", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			id, ok := IDFromPath(tt.path)
			if id != tt.wantID || ok != tt.wantOK {
				t.Errorf("IDFromPath(%q) = (%d, %v), want (%d, %v)", tt.path, id, ok, tt.wantID, tt.wantOK)
			}
		})
	}
}

func TestParseIdentity(t *testing.T) {
	t.Run("path and second h2", func(t *testing.T) {
		doc := newDoc(t, profileHTML)
		id := ParseIdentity("/referees/42_smith", doc)
		if got := id.Title(); got != "42 - Jane Smith" {
			t.Errorf("Title() = %q, want %q", got, "42 - Jane Smith")
		}
	})

	t.Run("missing inputs", func(t *testing.T) {
		doc := newDoc(t, "<html><body><h2>Only one</h2></body></html>")
		id := ParseIdentity("/referees/index", doc)
		if got := id.Title(); got != "NaN - " {
			t.Errorf("Title() = %q, want %q", got, "NaN - ")
		}
	})
}

func TestSetTitle(t *testing.T) {
	t.Run("replaces existing title", func(t *testing.T) {
		doc := newDoc(t, profileHTML)
		SetTitle(doc, "42 - Jane Smith")
		if got := doc.Find("title").Text(); got != "42 - Jane Smith" {
			t.Errorf("title = %q", got)
		}
		if n := doc.Find("title").Length(); n != 1 {
			t.Errorf("expected one title element, got %d", n)
		}
	})

	t.Run("creates missing title", func(t *testing.T) {
		doc := newDoc(t, "<html><head></head><body></body></html>")
		SetTitle(doc, "7 - X")
		if got := doc.Find("head title").Text(); got != "7 - X" {
			t.Errorf("title = %q", got)
		}
	})
}

func TestHistoryToggle_ToggleTwiceRestores(t *testing.T) {
	doc := newDoc(t, profileHTML)
	tg := NewHistoryToggle(DefaultToggleConfig())
	tg.Reconcile(doc)
	initial := render(t, doc)

	if !isHidden(doc.Find("#history")) {
		t.Error("panel should be hidden at load")
	}
	if doc.Find(".blink_me").Length() != 0 {
		t.Error("nothing should blink at load")
	}
	if got := doc.Find("#toggle").Text(); got != "Show History" {
		t.Errorf("label = %q, want Show History", got)
	}

	state := tg.Click()
	tg.Reconcile(doc)
	if !state.Highlighted || !state.Visible {
		t.Errorf("after one click state = %+v", state)
	}
	if isHidden(doc.Find("#history")) {
		t.Error("panel should be visible after one click")
	}
	if !doc.Find("span.name").HasClass("blink_me") {
		t.Error("marked element should blink after one click")
	}
	if got := doc.Find("#toggle").Text(); got != "Hide History" {
		t.Errorf("label = %q, want Hide History", got)
	}

	state = tg.Click()
	tg.Reconcile(doc)
	if state != (HistoryPanelState{}) {
		t.Errorf("after two clicks state = %+v", state)
	}
	if got := render(t, doc); got != initial {
		t.Errorf("two clicks should restore the page\ngot:  %s\nwant: %s", got, initial)
	}
}

func TestHistoryToggle_ShowPolicy(t *testing.T) {
	cfg := DefaultToggleConfig()
	cfg.Policy = PolicyShow
	doc := newDoc(t, profileHTML)
	tg := NewHistoryToggle(cfg)

	tg.Click()
	state := tg.Click()
	tg.Reconcile(doc)

	if !state.Visible {
		t.Error("show policy should keep the panel visible")
	}
	if state.Highlighted {
		t.Error("highlight should still flip back")
	}
	if isHidden(doc.Find("#history")) {
		t.Error("panel should not be hidden")
	}
}

func TestHistoryToggle_Legacy(t *testing.T) {
	doc := newDoc(t, profileHTML)
	tg := NewHistoryToggle(LegacyToggleConfig())
	tg.Click()
	tg.Reconcile(doc)

	if !doc.Find("span.category").HasClass("blink") {
		t.Error("blink_off element should get blink")
	}
	if doc.Find("span.name").HasClass("blink") {
		t.Error("blink_me__ element is not a legacy marker")
	}
	if got := doc.Find("#toggle").Text(); got != "Show History" {
		t.Errorf("legacy toggle must not relabel, got %q", got)
	}
	if got := tg.cfg.ButtonSelector(); got != "button#toggle" {
		t.Errorf("ButtonSelector() = %q", got)
	}
}

func TestSetHiddenKeepsOtherDeclarations(t *testing.T) {
	doc := newDoc(t, profileHTML)
	panel := doc.Find("#history")

	setHidden(panel, true)
	if got, _ := panel.Attr("style"); got != "color: red; display: none;" {
		t.Errorf("hidden style = %q", got)
	}
	setHidden(panel, false)
	if got, _ := panel.Attr("style"); got != "color: red;" {
		t.Errorf("visible style = %q", got)
	}

	bare := doc.Find("#toggle")
	setHidden(bare, true)
	setHidden(bare, false)
	if _, ok := bare.Attr("style"); ok {
		t.Error("style attribute should be dropped when empty")
	}
}

func TestToggleConfigValidate(t *testing.T) {
	if err := DefaultToggleConfig().Validate(); err != nil {
		t.Errorf("default config: %v", err)
	}
	if err := LegacyToggleConfig().Validate(); err != nil {
		t.Errorf("legacy config: %v", err)
	}

	bad := DefaultToggleConfig()
	bad.Policy = "flip"
	if err := bad.Validate(); err == nil {
		t.Error("expected error for unknown policy")
	}

	bad = DefaultToggleConfig()
	bad.PanelID = ""
	if err := bad.Validate(); err == nil {
		t.Error("expected error for missing panel id")
	}
}

func TestAnnotateAge(t *testing.T) {
	today := age.Date(2026, 10, 18)

	t.Run("inserts after first anchor", func(t *testing.T) {
		doc := newDoc(t, profileHTML)
		text, err := AnnotateAge(doc, DefaultAgeConfig(), today)
		if err != nil {
			t.Fatalf("AnnotateAge: %v", err)
		}
		if text != "46 years, 5 months, 6 days old" {
			t.Errorf("text = %q", text)
		}
		next := doc.Find("h3").First().Next()
		if goquery.NodeName(next) != "h4" || !next.HasClass("age") || next.Text() != text {
			t.Errorf("unexpected element after h3: %s %q", goquery.NodeName(next), next.Text())
		}
	})

	t.Run("second call duplicates", func(t *testing.T) {
		doc := newDoc(t, profileHTML)
		for i := 0; i < 2; i++ {
			if _, err := AnnotateAge(doc, DefaultAgeConfig(), today); err != nil {
				t.Fatal(err)
			}
		}
		if n := doc.Find("h4.age").Length(); n != 2 {
			t.Errorf("expected 2 age lines, got %d", n)
		}
	})

	errorCases := []struct {
		name string
		html string
		want error
	}{
		{"no birth date", "<html><body><h3>x</h3></body></html>", ErrNoBirthDate},
		{"no anchor", `<html><body><p class="birthdate" data-birthdate="1980-05-12"></p></body></html>`, ErrNoAnchor},
		{"future", `<html><body><h3>x</h3><p class="birthdate" data-birthdate="2030-01-01"></p></body></html>`, ErrFutureBirthDate},
	}
	for _, tc := range errorCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := AnnotateAge(newDoc(t, tc.html), DefaultAgeConfig(), today)
			if !errors.Is(err, tc.want) {
				t.Errorf("error = %v, want %v", err, tc.want)
			}
		})
	}

	t.Run("invalid date", func(t *testing.T) {
		doc := newDoc(t, `<html><body><h3>x</h3><p class="birthdate" data-birthdate="not a date"></p></body></html>`)
		if _, err := AnnotateAge(doc, DefaultAgeConfig(), today); err == nil {
			t.Error("expected error for malformed date")
		}
		if doc.Find("h4").Length() != 0 {
			t.Error("nothing should be inserted on error")
		}
	})
}

func TestEnhance(t *testing.T) {
	doc := newDoc(t, profileHTML)
	res, err := Enhance(doc, Options{
		Path:   "/referees/0000042.html",
		Toggle: DefaultToggleConfig(),
		Age:    DefaultAgeConfig(),
		Today:  age.Date(2026, 10, 18),
	})
	if err != nil {
		t.Fatalf("Enhance: %v", err)
	}

	if res.Title != "42 - Jane Smith" || doc.Find("title").Text() != res.Title {
		t.Errorf("title = %q / %q", res.Title, doc.Find("title").Text())
	}
	if res.Age == "" || doc.Find("h4.age").Text() != res.Age {
		t.Errorf("age = %q", res.Age)
	}
	if !isHidden(doc.Find("#history")) {
		t.Error("history should start hidden")
	}
}

func TestEnhance_AgeFailureStillSetsTitle(t *testing.T) {
	doc := newDoc(t, `<html><head></head><body><h2>a</h2><h2>B</h2><div id="history"></div></body></html>`)
	res, err := Enhance(doc, Options{
		Path:   "/referees/7_b",
		Toggle: DefaultToggleConfig(),
		Age:    DefaultAgeConfig(),
		Today:  age.Date(2026, 10, 18),
	})
	if !errors.Is(err, ErrNoBirthDate) {
		t.Fatalf("error = %v, want ErrNoBirthDate", err)
	}
	if res.Title != "7 - B" || doc.Find("title").Text() != "7 - B" {
		t.Errorf("title = %q", doc.Find("title").Text())
	}
	if !isHidden(doc.Find("#history")) {
		t.Error("history should be hidden even when age fails")
	}
}

func TestWriteScript(t *testing.T) {
	t.Run("toggle only", func(t *testing.T) {
		var sb strings.Builder
		if err := WriteScript(&sb, ScriptOptions{Toggle: DefaultToggleConfig()}); err != nil {
			t.Fatalf("WriteScript: %v", err)
		}
		out := sb.String()
		for _, want := range []string{`"markerClass":"blink_me__"`, `"policy":"toggle"`, "var ageCfg = null;", "var setTitle = false;"} {
			if !strings.Contains(out, want) {
				t.Errorf("script missing %q", want)
			}
		}
	})

	t.Run("matches golden file", func(t *testing.T) {
		want, err := os.ReadFile(filepath.Join("testdata", "script_toggle.js"))
		if err != nil {
			t.Fatalf("reading golden file: %v", err)
		}
		var sb strings.Builder
		if err := WriteScript(&sb, ScriptOptions{Toggle: DefaultToggleConfig()}); err != nil {
			t.Fatalf("WriteScript: %v", err)
		}
		if got := sb.String(); got != string(want) {
			t.Errorf("script differs from testdata/script_toggle.js:\n%s", got)
		}
	})

	t.Run("with age and title", func(t *testing.T) {
		cfg := DefaultAgeConfig()
		var sb strings.Builder
		if err := WriteScript(&sb, ScriptOptions{Toggle: LegacyToggleConfig(), Age: &cfg, Title: true}); err != nil {
			t.Fatalf("WriteScript: %v", err)
		}
		out := sb.String()
		for _, want := range []string{`"attr":"data-birthdate"`, `"policy":"show"`, "var setTitle = true;"} {
			if !strings.Contains(out, want) {
				t.Errorf("script missing %q", want)
			}
		}
	})

	t.Run("rejects invalid config", func(t *testing.T) {
		cfg := DefaultToggleConfig()
		cfg.Policy = ""
		if err := WriteScript(&strings.Builder{}, ScriptOptions{Toggle: cfg}); err == nil {
			t.Error("expected validation error")
		}
	})
}
