package tools

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
)

const searchUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

// WebTools backs the web_search and fetch_webpage tools. Search uses the
// DuckDuckGo HTML endpoint, which needs no API key.
type WebTools struct {
	client        *http.Client
	resultLimit   int
	pageCharLimit int
}

func NewWebTools(resultLimit, pageCharLimit int) *WebTools {
	if resultLimit <= 0 {
		resultLimit = 5
	}
	if pageCharLimit <= 0 {
		pageCharLimit = 5000
	}
	return &WebTools{
		client:        &http.Client{Timeout: 20 * time.Second},
		resultLimit:   resultLimit,
		pageCharLimit: pageCharLimit,
	}
}

// SearchResult is one entry returned by web_search.
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

func (w *WebTools) SearchSpec() Spec {
	return Spec{
		Name:        "web_search",
		Description: "Search the web for current information. Returns titles, URLs and snippets.",
		Params: map[string]Param{
			"query": {Type: "string", Description: "The search query", Required: true},
		},
		Handler: w.search,
	}
}

func (w *WebTools) FetchSpec() Spec {
	return Spec{
		Name:        "fetch_webpage",
		Description: "Fetch a web page and return its readable text content.",
		Params: map[string]Param{
			"url": {Type: "string", Description: "The URL to fetch", Required: true},
		},
		Handler: w.fetch,
	}
}

func (w *WebTools) search(ctx context.Context, args map[string]any) (any, error) {
	query, _ := args["query"].(string)
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("query is empty")
	}

	searchURL := "https://html.duckduckgo.com/html/?q=" + url.QueryEscape(query)
	root, err := w.get(ctx, searchURL)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}

	results := parseSearchResults(root, w.resultLimit)
	if len(results) == 0 {
		return "No results found.", nil
	}
	return results, nil
}

func (w *WebTools) fetch(ctx context.Context, args map[string]any) (any, error) {
	pageURL, _ := args["url"].(string)
	parsed, err := url.Parse(pageURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, fmt.Errorf("invalid URL: %q", pageURL)
	}

	root, err := w.get(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("fetch failed: %w", err)
	}

	text := ExtractText(root)
	if len(text) > w.pageCharLimit {
		text = text[:w.pageCharLimit] + "\n[content truncated]"
	}
	return text, nil
}

func (w *WebTools) get(ctx context.Context, rawURL string) (*html.Node, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", searchUserAgent)

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	// Cap the body read; pages beyond this contribute nothing useful
	return html.Parse(io.LimitReader(resp.Body, 2<<20))
}

// parseSearchResults walks the DuckDuckGo HTML results page. Result links
// carry class "result__a" and snippets class "result__snippet".
func parseSearchResults(root *html.Node, limit int) []SearchResult {
	var results []SearchResult
	var current *SearchResult

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if len(results) >= limit && current == nil {
			return
		}
		if n.Type == html.ElementNode {
			switch {
			case n.Data == "a" && hasClass(n, "result__a"):
				if current != nil {
					results = append(results, *current)
				}
				current = &SearchResult{
					Title: strings.TrimSpace(nodeText(n)),
					URL:   cleanResultURL(attrValue(n, "href")),
				}
			case hasClass(n, "result__snippet"):
				if current != nil && current.Snippet == "" {
					current.Snippet = strings.TrimSpace(nodeText(n))
					results = append(results, *current)
					current = nil
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	if current != nil && len(results) < limit {
		results = append(results, *current)
	}
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

// cleanResultURL unwraps DuckDuckGo's redirect links (//duckduckgo.com/l/?uddg=<target>).
func cleanResultURL(href string) string {
	if href == "" {
		return href
	}
	parsed, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := parsed.Query().Get("uddg"); target != "" {
		return target
	}
	if parsed.Scheme == "" {
		parsed.Scheme = "https"
		return parsed.String()
	}
	return href
}

// ExtractText returns the visible text of a parsed page. Script, style and
// nav-adjacent elements are skipped and whitespace is collapsed.
func ExtractText(root *html.Node) string {
	var b strings.Builder

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "head", "nav", "footer":
				return
			}
		}
		if n.Type == html.TextNode {
			trimmed := strings.TrimSpace(n.Data)
			if trimmed != "" {
				b.WriteString(trimmed)
				b.WriteString(" ")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	return strings.TrimSpace(b.String())
}

func hasClass(n *html.Node, class string) bool {
	for _, cls := range strings.Fields(attrValue(n, "class")) {
		if cls == class {
			return true
		}
	}
	return false
}

func attrValue(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(n *html.Node)
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
