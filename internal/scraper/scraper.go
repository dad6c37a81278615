package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"
	"github.com/cenkalti/backoff/v4"

	"github.com/pfrederiksen/uww-referees/internal/licence"
	"github.com/pfrederiksen/uww-referees/internal/logger"
	"github.com/pfrederiksen/uww-referees/internal/progress"
	"github.com/pfrederiksen/uww-referees/internal/referee"
)

const (
	RegisterURL = "https://uww.org/development/referees"
	ProfileURL  = "https://athena.uww.org/p/%d"
	UserAgent   = "uww-referees/1.0 (github.com/pfrederiksen/uww-referees)"
	Timeout     = 30 * time.Second
)

// DefaultInstructors are licences missing from the published list
var DefaultInstructors = []int{
	4236, 2525, 4717, 4729, 3520, 4489, 4443,
	4754, 4177, 4734, 4150, 3408, 3231,
}

// ErrNotProfile marks a page that is not a referee profile
var ErrNotProfile = errors.New("not a referee profile")

// StatusError is returned for non-200 responses
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d from %s", e.Code, e.URL)
}

// Options configures a Scraper
type Options struct {
	RegisterURL  string
	ProfileURL   string // fmt pattern taking the licence number
	UserAgent    string
	Timeout      time.Duration
	MaxRetries   int
	RetryWait    time.Duration // first backoff interval
	OlympicOnly  bool          // keep only Olympic styles categories
	ExcludeLists []string
	Instructors  []int
}

// DefaultOptions returns options for the public register
func DefaultOptions() Options {
	return Options{
		RegisterURL:  RegisterURL,
		ProfileURL:   ProfileURL,
		UserAgent:    UserAgent,
		Timeout:      Timeout,
		MaxRetries:   3,
		RetryWait:    500 * time.Millisecond,
		OlympicOnly:  true,
		ExcludeLists: licence.DefaultExcludes,
		Instructors:  DefaultInstructors,
	}
}

// Scraper fetches the referees' list and referee profiles
type Scraper struct {
	client   *http.Client
	opts     Options
	reporter progress.Reporter
}

// New creates a new Scraper instance
func New(opts Options) *Scraper {
	return &Scraper{
		client: &http.Client{
			Timeout: opts.Timeout,
		},
		opts:     opts,
		reporter: progress.Nop{},
	}
}

// SetReporter sets where profile progress is reported
func (s *Scraper) SetReporter(r progress.Reporter) {
	s.reporter = r
}

// FetchLicences downloads the referees' list linked from the register page
// and returns the licence numbers it carries, instructors first.
func (s *Scraper) FetchLicences(ctx context.Context) ([]int, error) {
	page, err := s.fetch(ctx, s.opts.RegisterURL)
	if err != nil {
		return nil, fmt.Errorf("fetching register page: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("parsing register page: %w", err)
	}

	href, ok := licence.FindListLink(doc, s.opts.ExcludeLists)
	if !ok {
		return nil, fmt.Errorf("no %q link on %s", licence.ListLinkText, s.opts.RegisterURL)
	}
	listURL, err := resolve(s.opts.RegisterURL, href)
	if err != nil {
		return nil, fmt.Errorf("resolving list link: %w", err)
	}

	logger.Info("Downloading referees' list", logger.Fields{"url": listURL})
	data, err := s.fetch(ctx, listURL)
	if err != nil {
		return nil, fmt.Errorf("fetching referees' list: %w", err)
	}

	text, err := licence.ExtractText(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("reading referees' list: %w", err)
	}

	numbers := licence.WithInstructors(s.opts.Instructors, licence.ParseNumbers(text))
	logger.Info("Parsed referees' list", logger.Fields{"licences": len(numbers)})
	return numbers, nil
}

// FetchReferees fetches one profile per licence number. Pages that are not
// profiles, or that keep failing, are skipped; only cancellation aborts.
func (s *Scraper) FetchReferees(ctx context.Context, numbers []int) ([]*referee.Referee, error) {
	numbers = dedupe(numbers)
	refs := make([]*referee.Referee, 0, len(numbers))

	s.reporter.Start(len(numbers), "Fetching profiles")
	defer s.reporter.Finish()

	for i, n := range numbers {
		if err := ctx.Err(); err != nil {
			return refs, err
		}

		ref, err := s.FetchReferee(ctx, n)
		s.reporter.Update(i+1, fmt.Sprintf("licence %d", n))

		switch {
		case err == nil:
			refs = append(refs, ref)
			logger.IncrCounter("scrape.pages")
		case errors.Is(err, ErrNotProfile):
			logger.Debug("Skipping page", logger.Fields{"id_number": n})
			logger.IncrCounter("scrape.skipped")
		case ctx.Err() != nil:
			return refs, ctx.Err()
		default:
			logger.Warn("Skipping profile", logger.Fields{"id_number": n}, err)
			logger.IncrCounter("scrape.failed")
		}
	}

	logger.SetGauge("referees.total", float64(len(refs)))
	return refs, nil
}

// FetchReferee fetches and parses a single profile
func (s *Scraper) FetchReferee(ctx context.Context, n int) (*referee.Referee, error) {
	link := fmt.Sprintf(s.opts.ProfileURL, n)

	start := time.Now()
	body, err := s.fetch(ctx, link)
	logger.RecordTiming("scrape.fetch", time.Since(start))
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) && se.Code == http.StatusNotFound {
			return nil, ErrNotProfile
		}
		return nil, err
	}

	return s.parseProfile(bytes.NewReader(body), n, link)
}

// parseProfile extracts a referee from a profile page
func (s *Scraper) parseProfile(r io.Reader, n int, link string) (*referee.Referee, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	// Only complete profiles have a second h1 with "Name (SEX)"
	h1 := doc.Find("h1")
	if h1.Length() < 2 {
		return nil, ErrNotProfile
	}
	heading := h1.Eq(1).Text()

	ref := &referee.Referee{
		IDNumber: n,
		Name:     strings.TrimSpace(strings.SplitN(heading, "(", 2)[0]),
		Athena:   link,
	}

	parts := strings.Split(heading, "(")
	ref.Sex = strings.ToUpper(strings.TrimSpace(strings.SplitN(parts[len(parts)-1], ")", 2)[0]))

	// "Mar 4, 1975 - FRA - France"
	header := strings.Join(strings.Fields(doc.Find("h4").First().Text()), " ")
	fields := strings.Split(header, " - ")
	if len(fields) < 2 {
		return nil, fmt.Errorf("unexpected profile header %q", header)
	}
	birth, err := parseBirthdate(fields[0])
	if err != nil {
		return nil, err
	}
	ref.Birthdate = birth
	ref.Country = strings.TrimSpace(fields[1])

	if label := doc.Find("span.label-referee").First(); label.Length() > 0 {
		text := label.Text()
		if !s.opts.OlympicOnly || strings.Contains(text, "Olympic styles") {
			if words := strings.Fields(text); len(words) > 0 {
				ref.Category = words[len(words)-1]
			}
		}
	}

	ref.IsActive = strings.Contains(doc.Find("div.alert").First().Text(), "Active referee license")

	if img := doc.Find("img"); img.Length() > 1 {
		if src, ok := img.Eq(1).Attr("src"); ok && src != "" {
			if abs, err := resolve(link, src); err == nil {
				src = abs
			}
			ref.Photo = src
		}
	}

	return ref, nil
}

// parseBirthdate normalises a profile date such as "Mar 4, 1975" to
// YYYY-MM-DD.
func parseBirthdate(text string) (string, error) {
	t, err := dateparse.ParseIn(strings.TrimSpace(text), time.UTC)
	if err != nil {
		return "", fmt.Errorf("parsing birth date %q: %w", text, err)
	}
	return t.Format("2006-01-02"), nil
}

// fetch GETs url, retrying network errors, 429 and 5xx with exponential
// backoff.
func (s *Scraper) fetch(ctx context.Context, target string) ([]byte, error) {
	var body []byte

	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("creating request: %w", err))
		}
		req.Header.Set("User-Agent", s.opts.UserAgent)

		resp, err := s.client.Do(req)
		if err != nil {
			return fmt.Errorf("fetching page: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			statusErr := &StatusError{URL: target, Code: resp.StatusCode}
			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				return statusErr
			}
			return backoff.Permanent(statusErr)
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("reading body: %w", err)
		}
		return nil
	}

	eb := backoff.NewExponentialBackOff()
	if s.opts.RetryWait > 0 {
		eb.InitialInterval = s.opts.RetryWait
	}
	retries := s.opts.MaxRetries
	if retries < 0 {
		retries = 0
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(eb, uint64(retries)), ctx)

	notify := func(err error, wait time.Duration) {
		logger.IncrCounter("scrape.retries")
		logger.Debug("Retrying request", logger.Fields{"url": target, "wait": wait.String(), "error": err.Error()})
	}

	if err := backoff.RetryNotify(op, policy, notify); err != nil {
		return nil, err
	}
	return body, nil
}

// resolve makes ref absolute against base
func resolve(base, ref string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	r, err := url.Parse(ref)
	if err != nil {
		return "", err
	}
	return b.ResolveReference(r).String(), nil
}

func dedupe(numbers []int) []int {
	seen := make(map[int]bool, len(numbers))
	out := make([]int, 0, len(numbers))
	for _, n := range numbers {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}
