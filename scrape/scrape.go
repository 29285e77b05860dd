// Package scrape fetches battle grids from puzzle pages. Example grids are
// pulled out of the page's code blocks; the personal input needs the
// visitor's session cookie.
package scrape

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Config holds fetcher configuration.
type Config struct {
	BaseURL      string
	Session      string        // session cookie value, required for Input
	RequestDelay time.Duration // delay between HTTP requests to be polite
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		BaseURL:      "https://adventofcode.com",
		RequestDelay: 500 * time.Millisecond,
	}
}

// Fetcher downloads puzzle pages and inputs.
type Fetcher struct {
	config Config
	client *http.Client
	log    *slog.Logger
}

func NewFetcher(config Config, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{
		config: config,
		client: &http.Client{Timeout: 30 * time.Second},
		log:    logger,
	}
}

// ExampleGrids scrapes the puzzle page for the given day and returns every
// code block that looks like a battle grid.
func (f *Fetcher) ExampleGrids(year, day int) ([]string, error) {
	pageURL := fmt.Sprintf("%s/%d/day/%d", f.config.BaseURL, year, day)
	f.log.Info("fetching puzzle page", "url", pageURL)

	req, err := http.NewRequest(http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "skirmish-fetch/1.0 (grid-collector)")
	f.addSession(req)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, err
	}

	var grids []string
	doc.Find("pre code").Each(func(i int, s *goquery.Selection) {
		text := s.Text()
		if LooksLikeGrid(text) {
			grids = append(grids, strings.TrimRight(text, "\n")+"\n")
		}
	})

	f.log.Info("extracted grids", "count", len(grids))
	if f.config.RequestDelay > 0 {
		time.Sleep(f.config.RequestDelay)
	}
	return grids, nil
}

// Input downloads the personal puzzle input for the given day. A session
// cookie is required since inputs differ per account.
func (f *Fetcher) Input(year, day int) (string, error) {
	if f.config.Session == "" {
		return "", fmt.Errorf("session cookie is required for inputs")
	}

	inputURL := fmt.Sprintf("%s/%d/day/%d/input", f.config.BaseURL, year, day)
	f.log.Info("fetching puzzle input", "url", inputURL)

	req, err := http.NewRequest(http.MethodGet, inputURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "skirmish-fetch/1.0 (grid-collector)")
	f.addSession(req)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	text := string(body)
	if !LooksLikeGrid(text) {
		return "", fmt.Errorf("input does not look like a battle grid")
	}
	return text, nil
}

func (f *Fetcher) addSession(req *http.Request) {
	if f.config.Session != "" {
		req.AddCookie(&http.Cookie{Name: "session", Value: f.config.Session})
	}
}

// LooksLikeGrid reports whether text is a plausible battle grid: at least
// three lines, every character drawn from the grid alphabet, and a wall
// border on the first line.
func LooksLikeGrid(text string) bool {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	if len(lines) < 3 {
		return false
	}
	for _, line := range lines {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			return false
		}
		for _, r := range line {
			switch r {
			case '#', '.', 'E', 'G':
			default:
				return false
			}
		}
	}
	first := strings.TrimRight(lines[0], "\r")
	return strings.Count(first, "#") == len(first)
}
