package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pfrederiksen/uww-referees/internal/age"
	"github.com/pfrederiksen/uww-referees/internal/history"
	"github.com/pfrederiksen/uww-referees/internal/referee"
)

type fakeVersions map[int][]history.Version

func (f fakeVersions) Versions(_ context.Context, id int) ([]history.Version, error) {
	if id == 500 {
		return nil, errors.New("database is locked")
	}
	return f[id], nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "referees"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "referees", "0000042.html"), []byte("<h2>Referee 42</h2>"), 0o644); err != nil {
		t.Fatal(err)
	}

	versions := fakeVersions{
		42: {
			{IDNumber: 42, RecordedOn: "2026-03-01", Status: history.StatusChanged, ChangedFields: []string{"category"}, Referee: referee.Referee{IDNumber: 42, Category: "I"}},
			{IDNumber: 42, RecordedOn: "2025-01-10", Status: history.StatusAdded, Referee: referee.Referee{IDNumber: 42, Category: "II"}},
		},
	}

	s := New(Config{SiteDir: dir}, versions)
	s.today = func() age.CalendarDate { return age.Date(2026, 10, 18) }
	srv := httptest.NewServer(s.Router())
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp.StatusCode, string(body)
}

func TestAgeEndpoint(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantAge    string
	}{
		{"server today", "?birthdate=1980-05-12", http.StatusOK, "46 years, 5 months, 6 days old"},
		{"explicit today", "?birthdate=2020-01-31&today=2020-03-01", http.StatusOK, "1 month, 1 day old"},
		{"same day", "?birthdate=2026-10-18", http.StatusOK, "old"},
		{"missing birthdate", "", http.StatusBadRequest, ""},
		{"invalid birthdate", "?birthdate=12/05/1980", http.StatusUnprocessableEntity, ""},
		{"invalid today", "?birthdate=1980-05-12&today=never", http.StatusUnprocessableEntity, ""},
		{"future birthdate", "?birthdate=2030-01-01", http.StatusUnprocessableEntity, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := get(t, srv.URL+"/api/age"+tt.query)
			if status != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", status, tt.wantStatus, body)
			}
			if tt.wantAge == "" {
				return
			}
			var resp ageResponse
			if err := json.Unmarshal([]byte(body), &resp); err != nil {
				t.Fatalf("decoding response: %v", err)
			}
			if resp.Age != tt.wantAge {
				t.Errorf("age = %q, want %q", resp.Age, tt.wantAge)
			}
		})
	}
}

func TestVersionsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	status, body := get(t, srv.URL+"/api/referees/42/versions")
	if status != http.StatusOK {
		t.Fatalf("status = %d, body %s", status, body)
	}
	var got []versionResponse
	if err := json.Unmarshal([]byte(body), &got); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(got) != 2 || got[0].RecordedOn != "2026-03-01" || got[1].Status != history.StatusAdded {
		t.Errorf("unexpected versions: %+v", got)
	}
	if got[1].ChangedFields == nil {
		t.Error("changed_fields should be an empty list, not null")
	}

	for path, want := range map[string]int{
		"/api/referees/7/versions":   http.StatusNotFound,
		"/api/referees/abc/versions": http.StatusBadRequest,
		"/api/referees/500/versions": http.StatusInternalServerError,
	} {
		if status, _ := get(t, srv.URL+path); status != want {
			t.Errorf("GET %s = %d, want %d", path, status, want)
		}
	}
}

func TestStaticFiles(t *testing.T) {
	srv := newTestServer(t)

	status, body := get(t, srv.URL+"/referees/0000042.html")
	if status != http.StatusOK || !strings.Contains(body, "Referee 42") {
		t.Errorf("GET page = %d %q", status, body)
	}

	if status, _ := get(t, srv.URL+"/referees/missing.html"); status != http.StatusNotFound {
		t.Errorf("missing page status = %d", status)
	}

	if status, body := get(t, srv.URL+"/healthz"); status != http.StatusOK || !strings.Contains(body, "ok") {
		t.Errorf("healthz = %d %q", status, body)
	}
}

func TestVersionsDisabled(t *testing.T) {
	s := New(Config{SiteDir: t.TempDir()}, nil)
	srv := httptest.NewServer(s.Router())
	defer srv.Close()

	if status, _ := get(t, srv.URL+"/api/referees/42/versions"); status != http.StatusNotFound {
		t.Errorf("status = %d, want 404", status)
	}
}
