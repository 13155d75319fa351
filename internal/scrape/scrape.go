// Package scrape infers a display name and plan from the service's
// account page. The page markup is not ours and changes without
// notice, so everything here is best effort: a nil result is normal
// and callers never block a save on it.
package scrape

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// Result is the advisory metadata a scrape may produce. Any field may
// be empty. Limit carries a snippet of the page's usage-limit banner
// when one is showing.
type Result struct {
	Name  string
	Plan  string
	Limit string
}

// Scraper is the metadata oracle. Scrape returns (nil, nil) when the
// page yielded nothing usable.
type Scraper interface {
	Scrape(ctx context.Context) (*Result, error)
}

var planKeywords = map[string]bool{
	"free": true,
	"plus": true,
	"pro":  true,
	"team": true,
}

// Phrases the service shows when the account is being throttled.
var limitPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)limit reached`),
	regexp.MustCompile(`(?i)try again (?:in\s+)?(\d+)\s*(hours?|minutes?|mins?)`),
	regexp.MustCompile(`(?i)quota exceeded`),
	regexp.MustCompile(`(?i)too many requests`),
	regexp.MustCompile(`(?i)slow down`),
}

// limitSnippetLen bounds how much of a matched banner is reported.
const limitSnippetLen = 50

// Sidebar labels that look like names but aren't.
var navLabels = map[string]bool{
	"New chat":     true,
	"Search chats": true,
	"Images":       true,
	"Apps":         true,
	"Projects":     true,
}

// HTTPScraper fetches the service page and scrapes it.
type HTTPScraper struct {
	URL    string
	Client *http.Client
}

// Scrape fetches the page and runs the heuristics over it.
func (s *HTTPScraper) Scrape(ctx context.Context) (*Result, error) {
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("scrape: unexpected status %d", resp.StatusCode)
	}
	return FromReader(resp.Body)
}

// candidate is a text node carrying the page's truncation class,
// with its parent's class for the fallback pass.
type candidate struct {
	text        string
	parentClass string
}

// FromReader runs the name/plan heuristics and the usage-limit scan
// over an HTML document. The account widget renders name and plan in
// elements with the "truncate" class, plan below name, so the walk
// goes from the end of the document: first the plan keyword, then the
// nearest short text above it.
func FromReader(r io.Reader) (*Result, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	limit := detectLimit(doc)

	cands := collectCandidates(doc)
	if len(cands) < 2 {
		if limit == "" {
			return nil, nil
		}
		return &Result{Limit: limit}, nil
	}

	var name, plan string
	for i := len(cands) - 1; i >= 0; i-- {
		text := cands[i].text
		if planKeywords[strings.ToLower(text)] {
			plan = text
		} else if text != "" && len(text) < 50 && plan == "" {
			continue
		} else if plan != "" && text != "" && len(text) < 50 {
			name = text
			break
		}
	}

	// Fallback: lean on the parent element's classes when the
	// positional pass found no name.
	if name == "" {
		for i := len(cands) - 1; i >= 0; i-- {
			text := cands[i].text
			parent := cands[i].parentClass
			switch {
			case strings.Contains(parent, "text-token-text-tertiary"):
				plan = text
			case strings.Contains(parent, "grow") && strings.Contains(parent, "items-center"):
				if text != "" && len(text) < 50 && !navLabels[text] {
					name = text
				}
			}
		}
	}

	if name == "" && plan == "" && limit == "" {
		return nil, nil
	}
	return &Result{Name: name, Plan: plan, Limit: limit}, nil
}

// detectLimit scans the page's text nodes from the end for a throttle
// banner and returns a bounded snippet of the first match. Banners
// appear near the conversation, late in the document, hence the
// reverse walk.
func detectLimit(doc *html.Node) string {
	var texts []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); len(t) > 5 {
				texts = append(texts, t)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	for i := len(texts) - 1; i >= 0; i-- {
		for _, re := range limitPatterns {
			if re.MatchString(texts[i]) {
				return snippet(texts[i], limitSnippetLen)
			}
		}
	}
	return ""
}

func snippet(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "…"
}

func collectCandidates(doc *html.Node) []candidate {
	var cands []candidate
	var walk func(n *html.Node, parentClass string)
	walk = func(n *html.Node, parentClass string) {
		if n.Type == html.ElementNode && hasClass(n, "truncate") {
			cands = append(cands, candidate{
				text:        textContent(n),
				parentClass: parentClass,
			})
		}
		class := parentClass
		if n.Type == html.ElementNode {
			class = attr(n, "class")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, class)
		}
	}
	walk(doc, "")
	return cands
}

func hasClass(n *html.Node, name string) bool {
	for _, f := range strings.Fields(attr(n, "class")) {
		if f == name {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(b.String())
}
