package dom

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/thesavant42/auditfilter/internal/models"
	"golang.org/x/net/publicsuffix"
)

const maxPageSize = 10 * 1024 * 1024

// Fetcher retrieves rendered pages from the case-management application
type Fetcher struct {
	httpClient  *http.Client
	userAgent   string
	cookie      string // Optional "name=value" session cookie
	maxPageSize int64
	logger      *log.Logger
}

// NewFetcher creates a page fetcher with the given timeout
func NewFetcher(timeout time.Duration, userAgent, sessionCookie string, logger *log.Logger) (*Fetcher, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	return &Fetcher{
		httpClient: &http.Client{
			Timeout: timeout,
			Jar:     jar,
		},
		userAgent:   userAgent,
		cookie:      sessionCookie,
		maxPageSize: maxPageSize,
		logger:      logger,
	}, nil
}

// Fetch downloads the page at rawURL
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme: %s", u.Scheme)
	}

	if f.cookie != "" {
		name, value, ok := strings.Cut(f.cookie, "=")
		if !ok {
			return nil, fmt.Errorf("session cookie must be name=value")
		}
		f.httpClient.Jar.SetCookies(u, []*http.Cookie{{Name: name, Value: value}})
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html")

	start := time.Now()
	resp, err := f.httpClient.Do(req)
	if err != nil {
		if f.logger != nil {
			f.logger.Error("page fetch failed", "url", u.String(), "error", err)
		}
		return nil, fmt.Errorf("failed to fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxPageSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read page: %w", err)
	}
	if int64(len(body)) > f.maxPageSize {
		return nil, fmt.Errorf("page exceeds %d bytes", f.maxPageSize)
	}

	if f.logger != nil {
		f.logger.Debug("page fetched", "url", u.String(), "bytes", len(body), "elapsed", time.Since(start))
	}
	return body, nil
}

// IsURL reports whether source looks like an http(s) URL rather than a file path
func IsURL(source string) bool {
	source = strings.TrimSpace(source)
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// Load opens source as a file or, for URLs, fetches it with f
func Load(ctx context.Context, f *Fetcher, source string, screen models.Screen, logger *log.Logger) (*Page, error) {
	if !IsURL(source) {
		return Open(source, screen, logger)
	}
	if f == nil {
		return nil, fmt.Errorf("no fetcher configured for %s", source)
	}
	body, err := f.Fetch(ctx, source)
	if err != nil {
		return nil, err
	}
	return Parse(bytes.NewReader(body), screen, logger)
}
