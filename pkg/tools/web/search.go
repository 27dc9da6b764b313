// Package web implements the web_search tool executor. Search goes
// through DuckDuckGo's HTML endpoint — no API key, no JavaScript — and the
// result page is parsed directly, so the executor needs nothing heavier
// than an HTTP client and an HTML tokenizer.
package web

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/enso-labs/gilfoyle-sub000/pkg/agent/dispatch"
)

const (
	searchEndpoint = "https://html.duckduckgo.com/html/"
	requestTimeout = 10 * time.Second
	maxResults     = 5

	// userAgent identifies the client; the HTML endpoint rejects blank agents.
	userAgent = "Mozilla/5.0 (compatible; gilfoyle/1.0)"
)

// Searcher performs web searches with a bounded HTTP client.
type Searcher struct {
	httpClient *http.Client
	endpoint   string
}

// NewSearcher creates a Searcher with the default endpoint and timeout.
func NewSearcher() *Searcher {
	return &Searcher{
		httpClient: &http.Client{Timeout: requestTimeout},
		endpoint:   searchEndpoint,
	}
}

// NewSearcherWithEndpoint creates a Searcher against a custom endpoint.
// Used by tests to point at a local fixture server.
func NewSearcherWithEndpoint(endpoint string, client *http.Client) *Searcher {
	if client == nil {
		client = &http.Client{Timeout: requestTimeout}
	}
	return &Searcher{httpClient: client, endpoint: endpoint}
}

// NewWebSearchSpec builds the web_search tool around a Searcher.
func NewWebSearchSpec(searcher *Searcher) dispatch.Spec {
	return dispatch.Spec{
		Description: "Search the web and return the top results",
		Args: map[string]string{
			"query": "the search terms",
		},
		Required: []string{"query"},
		Run: func(ctx context.Context, args map[string]interface{}) (string, error) {
			query, _ := args["query"].(string)
			return searcher.Search(ctx, query)
		},
	}
}

// result is one parsed search hit.
type result struct {
	title   string
	href    string
	snippet string
}

// Search runs the query and formats the top hits as a numbered list.
func (s *Searcher) Search(ctx context.Context, query string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		s.endpoint+"?q="+url.QueryEscape(query), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create search request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("search returned status %d", resp.StatusCode)
	}

	results, err := parseResults(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to parse search results: %w", err)
	}
	if len(results) == 0 {
		return fmt.Sprintf("No results for %q", query), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Top results for %q:\n", query)
	for i, r := range results {
		fmt.Fprintf(&b, "%d. %s\n   %s\n", i+1, r.title, r.href)
		if r.snippet != "" {
			fmt.Fprintf(&b, "   %s\n", r.snippet)
		}
	}
	return b.String(), nil
}

// parseResults walks the result page for result__a links and result__snippet
// blocks, the stable class names of the HTML endpoint.
func parseResults(body io.Reader) ([]result, error) {
	doc, err := html.Parse(body)
	if err != nil {
		return nil, err
	}

	var results []result
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if len(results) >= maxResults {
			return
		}
		if n.Type == html.ElementNode {
			switch {
			case n.Data == "a" && hasClass(n, "result__a"):
				results = append(results, result{
					title: strings.TrimSpace(textContent(n)),
					href:  attr(n, "href"),
				})
			case hasClass(n, "result__snippet"):
				if len(results) > 0 && results[len(results)-1].snippet == "" {
					results[len(results)-1].snippet = strings.TrimSpace(textContent(n))
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return results, nil
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
