package scraper

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"

	"github.com/pfrederiksen/ugl-courses/internal/textnorm"
)

const (
	DefaultUserAgent = "ugl-courses/1.0 (github.com/pfrederiksen/ugl-courses)"
	DefaultTimeout   = 20 * time.Second
	DefaultRetries   = 2

	defaultCellSelector = "td"
)

// FieldGroup is the text of one cell, split into trimmed fragments in document order.
type FieldGroup []string

// Joined returns the fragments joined by a single space.
func (g FieldGroup) Joined() string {
	return strings.Join(g, " ")
}

// First returns the first fragment, or "".
func (g FieldGroup) First() string {
	if len(g) == 0 {
		return ""
	}
	return g[0]
}

// Rest returns the fragments after the first joined by a space.
func (g FieldGroup) Rest() string {
	if len(g) < 2 {
		return ""
	}
	return strings.Join(g[1:], " ")
}

// Row is one listing row: a sequence of field groups.
type Row []FieldGroup

// Target describes where a source's rows live.
type Target struct {
	URL          string
	RowSelector  string
	CellSelector string
	// WithLinks appends a trailing field group holding the row's first absolute link.
	WithLinks bool
}

func (t Target) cacheKey() string {
	return t.URL + "|" + t.RowSelector + "|" + t.CellSelector + fmt.Sprintf("|%t", t.WithLinks)
}

// Fetcher returns the rows a target page lists.
type Fetcher interface {
	Fetch(ctx context.Context, t Target) ([]Row, error)
}

// StatusError is returned when the page responds with a non-200 status.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d from %s", e.StatusCode, e.URL)
}

// Options configures an HTTPFetcher.
type Options struct {
	Timeout   time.Duration
	Retries   int
	UserAgent string
	Cache     *Cache
}

// HTTPFetcher fetches target pages over HTTP and parses them with goquery.
type HTTPFetcher struct {
	client *resty.Client
	cache  *Cache
}

// New creates an HTTPFetcher. Zero options fall back to the package defaults.
func New(opts Options) *HTTPFetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Retries < 0 {
		opts.Retries = 0
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}

	client := resty.New().
		SetTimeout(opts.Timeout).
		SetHeader("User-Agent", opts.UserAgent).
		SetHeader("Accept", "text/html,application/xhtml+xml").
		SetRetryCount(opts.Retries).
		SetRetryWaitTime(300 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			return r.StatusCode() == http.StatusTooManyRequests || r.StatusCode() >= 500
		})

	return &HTTPFetcher{
		client: client,
		cache:  opts.Cache,
	}
}

// Fetch downloads the target page and returns its rows. A cached result is
// returned when the fetcher has a cache and the entry has not expired.
func (f *HTTPFetcher) Fetch(ctx context.Context, t Target) ([]Row, error) {
	if t.URL == "" {
		return nil, fmt.Errorf("target has no URL")
	}

	if f.cache != nil {
		if rows, ok := f.cache.Get(t.cacheKey()); ok {
			return rows, nil
		}
	}

	resp, err := f.client.R().
		SetContext(ctx).
		Get(t.URL)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, &StatusError{URL: t.URL, StatusCode: resp.StatusCode()}
	}

	body, err := charset.NewReader(bytes.NewReader(resp.Body()), resp.Header().Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("decoding page: %w", err)
	}

	rows, err := ParseRows(body, t)
	if err != nil {
		return nil, err
	}

	if f.cache != nil {
		f.cache.Add(t.cacheKey(), rows)
	}
	return rows, nil
}

// ParseRows extracts rows from an HTML document. Rows without any cell
// matching the cell selector (header rows using <th>, spacer rows) are skipped.
func ParseRows(r io.Reader, t Target) ([]Row, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	cellSelector := t.CellSelector
	if cellSelector == "" {
		cellSelector = defaultCellSelector
	}

	base, _ := url.Parse(t.URL)

	rows := make([]Row, 0)
	doc.Find(t.RowSelector).Each(func(i int, sel *goquery.Selection) {
		cells := sel.Find(cellSelector)
		if cells.Length() == 0 {
			return
		}

		row := make(Row, 0, cells.Length()+1)
		cells.Each(func(j int, cell *goquery.Selection) {
			row = append(row, Fragments(cell))
		})

		if t.WithLinks {
			if link := firstLink(sel, base); link != "" {
				row = append(row, FieldGroup{link})
			}
		}

		rows = append(rows, row)
	})

	return rows, nil
}

// Fragments splits a selection's text into lines the way a browser would break
// them: at <br> and at block elements. Each line is whitespace-collapsed;
// empty lines are dropped. Inline elements do not break lines, so text in
// adjacent <span>s is glued together exactly as the page renders it.
func Fragments(sel *goquery.Selection) FieldGroup {
	var b strings.Builder
	for _, n := range sel.Nodes {
		writeText(&b, n)
	}

	out := make(FieldGroup, 0)
	for _, line := range strings.Split(b.String(), "\n") {
		if line = textnorm.CollapseSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

var blockElements = map[string]bool{
	"p": true, "div": true, "li": true, "ul": true, "ol": true, "tr": true,
	"table": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true,
	"h6": true, "section": true, "article": true, "header": true, "footer": true,
	"dt": true, "dd": true,
}

func writeText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		// newlines in the markup are formatting, not line breaks
		b.WriteString(strings.ReplaceAll(n.Data, "\n", " "))
		return
	case html.ElementNode:
		if n.Data == "br" {
			b.WriteByte('\n')
			return
		}
		if n.Data == "script" || n.Data == "style" {
			return
		}
	}

	block := n.Type == html.ElementNode && blockElements[n.Data]
	if block {
		b.WriteByte('\n')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(b, c)
	}
	if block {
		b.WriteByte('\n')
	}
}

// firstLink returns the first http(s) link in the row, resolved against base.
func firstLink(sel *goquery.Selection, base *url.URL) string {
	var link string
	sel.Find("a[href]").EachWithBreak(func(i int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "mailto:") {
			return true
		}
		u, err := url.Parse(href)
		if err != nil {
			return true
		}
		if base != nil {
			u = base.ResolveReference(u)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return true
		}
		link = u.String()
		return false
	})
	return link
}
