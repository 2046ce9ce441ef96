package fetcher

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// boilerplateSelector lists the elements dropped before text is collected.
const boilerplateSelector = "script, style, header, footer, nav, aside"

// ExtractText parses an HTML document and returns its visible text.
//
// Boilerplate elements are removed, every remaining text node becomes its own
// line, each line is trimmed and blank lines are dropped.
func ExtractText(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", err
	}
	doc.Find(boilerplateSelector).Remove()

	var nodes []string
	for _, n := range doc.Nodes {
		collectText(n, &nodes)
	}
	return cleanLines(strings.Join(nodes, "\n")), nil
}

func collectText(n *html.Node, out *[]string) {
	if n.Type == html.TextNode {
		*out = append(*out, n.Data)
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, out)
	}
}

func cleanLines(text string) string {
	text = strings.NewReplacer("\r\n", "\n", "\r", "\n").Replace(text)

	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
