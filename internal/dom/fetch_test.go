package dom

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/thesavant42/auditfilter/internal/config"
	"go.uber.org/goleak"
)

func TestIsURL(t *testing.T) {
	tests := []struct {
		source string
		want   bool
	}{
		{"https://example.gov.uk/audits/1/", true},
		{"http://localhost:8000/cases/1/", true},
		{"  https://example.gov.uk", true},
		{"testdata/page.html", false},
		{"ftp://example.gov.uk", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			if got := IsURL(tt.source); got != tt.want {
				t.Errorf("IsURL(%q) = %v, want %v", tt.source, got, tt.want)
			}
		})
	}
}

func TestLoadFromServer(t *testing.T) {
	defer goleak.VerifyNone(t)

	body, err := os.ReadFile("testdata/freq_links_filter.html")
	if err != nil {
		t.Fatal(err)
	}

	var gotCookie, gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("sessionid"); err == nil {
			gotCookie = c.Value
		}
		gotAgent = r.UserAgent()
		w.Header().Set("Content-Type", "text/html")
		w.Write(body)
	}))
	defer server.Close()

	fetcher, err := NewFetcher(5*time.Second, "auditfilter-test", "sessionid=abc123", nil)
	if err != nil {
		t.Fatalf("NewFetcher() error = %v", err)
	}
	defer fetcher.httpClient.CloseIdleConnections()

	page, err := Load(context.Background(), fetcher, server.URL+"/links/", config.DefaultScreens()[config.ScreenFreqLinks], nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := len(page.Records()); got != 8 {
		t.Errorf("len(Records()) = %d, want 8", got)
	}
	if gotCookie != "abc123" {
		t.Errorf("session cookie = %q, want abc123", gotCookie)
	}
	if gotAgent != "auditfilter-test" {
		t.Errorf("user agent = %q", gotAgent)
	}
}

func TestFetchErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer server.Close()

	tests := []struct {
		name   string
		cookie string
		url    string
	}{
		{"http status", "", server.URL},
		{"bad scheme", "", "ftp://example.gov.uk/"},
		{"malformed cookie", "no-equals-sign", server.URL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher, err := NewFetcher(5*time.Second, "auditfilter-test", tt.cookie, nil)
			if err != nil {
				t.Fatalf("NewFetcher() error = %v", err)
			}
			if _, err := fetcher.Fetch(context.Background(), tt.url); err == nil {
				t.Error("Fetch() should fail")
			}
		})
	}
}

func TestFetchRejectsOversizedPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(strings.Repeat("x", 65)))
	}))
	defer server.Close()

	fetcher, err := NewFetcher(5*time.Second, "auditfilter-test", "", nil)
	if err != nil {
		t.Fatalf("NewFetcher() error = %v", err)
	}

	fetcher.maxPageSize = 65
	body, err := fetcher.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch() of a page at the limit error = %v", err)
	}
	if len(body) != 65 {
		t.Errorf("len(body) = %d, want 65", len(body))
	}

	fetcher.maxPageSize = 64
	if _, err := fetcher.Fetch(context.Background(), server.URL); err == nil || !strings.Contains(err.Error(), "exceeds 64 bytes") {
		t.Errorf("Fetch() of an oversized page error = %v", err)
	}
}

func TestLoadWithoutFetcher(t *testing.T) {
	_, err := Load(context.Background(), nil, "https://example.gov.uk/", config.DefaultScreens()[config.ScreenFreqLinks], nil)
	if err == nil {
		t.Error("Load() of a URL without a fetcher should fail")
	}
}
