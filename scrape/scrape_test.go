package scrape

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLooksLikeGrid(t *testing.T) {
	cases := []struct {
		name string
		text string
		want bool
	}{
		{"simple grid", "#####\n#E.G#\n#####\n", true},
		{"no trailing newline", "#####\n#E.G#\n#####", true},
		{"too short", "###\n###\n", false},
		{"prose", "In this example, the Elf wins.\n#####\n#####\n", false},
		{"stray character", "#####\n#E?G#\n#####\n", false},
		{"no wall border", ".....\n#E.G#\n#####\n", false},
		{"blank interior line", "#####\n\n#####\n", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := LooksLikeGrid(tc.text); got != tc.want {
				t.Fatalf("LooksLikeGrid(%q) = %v, want %v", tc.text, got, tc.want)
			}
		})
	}
}

func TestExampleGrids(t *testing.T) {
	page := `<html><body>
<article>
<p>For example:</p>
<pre><code>#######
#.G...#
#...EG#
#.#.#G#
#..G#E#
#.....#
#######
</code></pre>
<p>Some prose with an inline <code>snippet</code>.</p>
<pre><code>not a grid
at all
here</code></pre>
<pre><code>#####
#E.G#
#####
</code></pre>
</article>
</body></html>`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/2018/day/15" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(page))
	}))
	defer srv.Close()

	cfg := DefaultConfig()
	cfg.BaseURL = srv.URL
	cfg.RequestDelay = 0

	grids, err := NewFetcher(cfg, nil).ExampleGrids(2018, 15)
	if err != nil {
		t.Fatalf("ExampleGrids: %v", err)
	}
	if len(grids) != 2 {
		t.Fatalf("got %d grids, want 2", len(grids))
	}
	if grids[1] != "#####\n#E.G#\n#####\n" {
		t.Fatalf("second grid = %q", grids[1])
	}
}

func TestInputRequiresSession(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RequestDelay = 0
	if _, err := NewFetcher(cfg, nil).Input(2018, 15); err == nil {
		t.Fatal("expected error without session cookie")
	}
}

func TestInputSendsSessionCookie(t *testing.T) {
	const grid = "#####\n#E.G#\n#####\n"

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie("session")
		if err != nil || c.Value != "sekrit" {
			http.Error(w, "missing session", http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(grid))
	}))
	defer srv.Close()

	cfg := DefaultConfig()
	cfg.BaseURL = srv.URL
	cfg.Session = "sekrit"
	cfg.RequestDelay = 0

	got, err := NewFetcher(cfg, nil).Input(2018, 15)
	if err != nil {
		t.Fatalf("Input: %v", err)
	}
	if got != grid {
		t.Fatalf("input = %q, want %q", got, grid)
	}
}
