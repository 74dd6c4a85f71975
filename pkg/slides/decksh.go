package slides

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"sort"
	"strings"

	"github.com/ajstarks/deck"
	"github.com/ajstarks/decksh"
)

// ImportDecksh builds a variant from decksh markup. Imports must already be expanded.
//
// Each deck slide becomes one slide: the largest text is the headline, lists become
// bullet points, and the remaining text (top to bottom) becomes the body.
func ImportDecksh(name string, source []byte) (*Variant, error) {
	var deckXML bytes.Buffer
	if err := decksh.Process(&deckXML, bytes.NewReader(source)); err != nil {
		return nil, fmt.Errorf("decksh processing failed: %w", err)
	}
	var d deck.Deck
	if err := xml.Unmarshal(deckXML.Bytes(), &d); err != nil {
		return nil, fmt.Errorf("failed to parse deck XML: %w", err)
	}

	list := make([]Slide, 0, len(d.Slide))
	for i, ds := range d.Slide {
		list = append(list, importSlide(i, ds))
	}
	return NewVariant(name, d.Title, list)
}

func importSlide(i int, ds deck.Slide) Slide {
	texts := make([]deck.Text, 0, len(ds.Text))
	for _, t := range ds.Text {
		if strings.TrimSpace(t.Tdata) != "" {
			texts = append(texts, t)
		}
	}
	// deck y grows upward
	sort.SliceStable(texts, func(a, b int) bool { return texts[a].Yp > texts[b].Yp })

	s := Slide{Descriptor: Descriptor{ID: fmt.Sprintf("slide-%02d", i+1), Number: i + 1}}
	head := -1
	for j, t := range texts {
		if head < 0 || t.Sp > texts[head].Sp {
			head = j
		}
	}
	var body []string
	for j, t := range texts {
		if j == head {
			s.Headline = strings.TrimSpace(t.Tdata)
			continue
		}
		body = append(body, strings.TrimSpace(t.Tdata))
	}
	if s.Headline == "" {
		s.Headline = fmt.Sprintf("Slide %d", i+1)
	}

	for _, l := range ds.List {
		for _, li := range l.Li {
			if p := strings.TrimSpace(li.ListText); p != "" {
				s.Content.Points = append(s.Content.Points, p)
			}
		}
	}

	switch {
	case len(s.Content.Points) > 0:
		s.Content.Kind = KindBullets
		s.Content.Body = strings.Join(body, " ")
	case len(body) > 0:
		s.Content.Kind = KindStatement
		s.Content.Body = strings.Join(body, " ")
	default:
		s.Content.Kind = KindTitle
	}
	return s
}
