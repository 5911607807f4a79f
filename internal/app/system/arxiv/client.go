// internal/app/system/arxiv/client.go

// Package arxiv is a thin client for the arXiv Atom query API. It forwards a
// keyword query upstream and reshapes the XML feed into plain structs; no
// caching, retries, or rate limiting.
package arxiv

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the public arXiv query endpoint.
const DefaultBaseURL = "http://export.arxiv.org/api/query"

// maxFeedBytes caps the upstream response we are willing to parse.
const maxFeedBytes = 4 << 20

// Paper is one normalized search result.
type Paper struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Summary   string   `json:"summary"`
	Authors   []string `json:"authors"`
	Published string   `json:"published"`
	Link      string   `json:"link"`
}

// Client queries the arXiv API.
type Client struct {
	baseURL string
	http    *http.Client
}

// New builds a Client. An empty baseURL selects the public endpoint.
func New(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// Atom feed shapes; only the fields we reshape are declared.
type feed struct {
	Entries []entry `xml:"entry"`
}

type entry struct {
	ID        string   `xml:"id"`
	Title     string   `xml:"title"`
	Summary   string   `xml:"summary"`
	Published string   `xml:"published"`
	Authors   []author `xml:"author"`
	Links     []link   `xml:"link"`
}

type author struct {
	Name string `xml:"name"`
}

type link struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

// Search runs a keyword query and returns up to max normalized results.
func (c *Client) Search(ctx context.Context, query string, max int) ([]Paper, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("empty query")
	}
	if max <= 0 || max > 100 {
		max = 20
	}

	q := url.Values{}
	q.Set("search_query", "all:"+query)
	q.Set("start", "0")
	q.Set("max_results", fmt.Sprintf("%d", max))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("arxiv request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arxiv responded %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return nil, fmt.Errorf("arxiv read: %w", err)
	}

	var f feed
	if err := xml.Unmarshal(body, &f); err != nil {
		return nil, fmt.Errorf("arxiv parse: %w", err)
	}

	papers := make([]Paper, 0, len(f.Entries))
	for _, e := range f.Entries {
		papers = append(papers, normalize(e))
	}
	return papers, nil
}

func normalize(e entry) Paper {
	p := Paper{
		ID:        strings.TrimSpace(e.ID),
		Title:     collapse(e.Title),
		Summary:   collapse(e.Summary),
		Published: strings.TrimSpace(e.Published),
	}
	for _, a := range e.Authors {
		if name := strings.TrimSpace(a.Name); name != "" {
			p.Authors = append(p.Authors, name)
		}
	}
	// Prefer the alternate (abstract page) link; fall back to the entry id,
	// which arXiv also serves as a URL.
	for _, l := range e.Links {
		if l.Rel == "alternate" || l.Type == "text/html" {
			p.Link = l.Href
			break
		}
	}
	if p.Link == "" {
		p.Link = p.ID
	}
	return p
}

// collapse trims and folds the newline-wrapped text arXiv returns.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Sample returns up to n papers drawn randomly without replacement.
func Sample(papers []Paper, n int) []Paper {
	if n <= 0 || len(papers) == 0 {
		return []Paper{}
	}
	if n >= len(papers) {
		out := make([]Paper, len(papers))
		copy(out, papers)
		rand.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
		return out
	}
	idx := rand.Perm(len(papers))[:n]
	out := make([]Paper, 0, n)
	for _, i := range idx {
		out = append(out, papers[i])
	}
	return out
}
