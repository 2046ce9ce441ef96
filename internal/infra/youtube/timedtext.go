package youtube

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"digestbot/internal/domain/entity"
)

type timedTextDoc struct {
	Texts []struct {
		Start string `xml:"start,attr"`
		Dur   string `xml:"dur,attr"`
		Body  string `xml:",chardata"`
	} `xml:"text"`
}

// ParseTimedText decodes a <transcript><text start="" dur="">...</text></transcript>
// caption document. Entities escaped twice by YouTube are decoded and inline
// formatting tags are dropped.
func ParseTimedText(data []byte) (entity.Transcript, error) {
	var doc timedTextDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode timedtext: %w", err)
	}

	transcript := make(entity.Transcript, 0, len(doc.Texts))
	for _, t := range doc.Texts {
		text, err := plainText(t.Body)
		if err != nil {
			return nil, err
		}
		transcript = append(transcript, entity.TranscriptFragment{
			Text:     text,
			Start:    parseSeconds(t.Start),
			Duration: parseSeconds(t.Dur),
		})
	}
	return transcript, nil
}

// plainText parses s as an HTML fragment and returns its text, which both
// unescapes entities and drops tags such as <font> or <i>.
func plainText(s string) (string, error) {
	if !strings.ContainsAny(s, "<&") {
		return strings.TrimSpace(s), nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return "", fmt.Errorf("parse caption text: %w", err)
	}
	return strings.TrimSpace(doc.Text()), nil
}

func parseSeconds(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
