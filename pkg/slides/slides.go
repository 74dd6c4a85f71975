// Package slides is the slide registry: immutable, ordered deck variants and the
// position index derived from them.
//
// A Descriptor's Number is authored alongside the content and is not checked against
// the slide's position in its variant. Renderers number slides by position (IndexMap);
// Number is kept as a citation key and may legitimately diverge.
package slides

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownVariant is returned when a variant name is not registered
var ErrUnknownVariant = errors.New("unknown deck variant")

// Kind tags the content shape of a slide
type Kind string

const (
	KindTitle     Kind = "title"
	KindStatement Kind = "statement"
	KindStats     Kind = "stats"
	KindBullets   Kind = "bullets"
	KindCards     Kind = "cards"
	KindClosing   Kind = "closing"
)

// Kinds lists every slide kind, in declaration order
func Kinds() []Kind {
	return []Kind{KindTitle, KindStatement, KindStats, KindBullets, KindCards, KindClosing}
}

// Valid reports whether k is a known kind
func (k Kind) Valid() bool {
	for _, known := range Kinds() {
		if k == known {
			return true
		}
	}
	return false
}

// Descriptor identifies a slide within a variant
type Descriptor struct {
	ID       string
	Number   int
	Headline string
}

// Stat is a numeric callout
type Stat struct {
	Value string
	Label string
}

// Card is a titled panel
type Card struct {
	Title string
	Body  string
}

// Content is the opaque copy for a slide; which fields are used depends on Kind
type Content struct {
	Kind         Kind
	Kicker       string
	Subtitle     string
	Body         string
	Points       []string
	Stats        []Stat
	Cards        []Card
	CallToAction string
	Contact      string
}

// Slide is a descriptor plus its content
type Slide struct {
	Descriptor
	Content Content
}

// Texts returns every piece of copy on the slide in reading order: kicker, headline,
// then the body content
func (s Slide) Texts() []string {
	c := s.Content
	out := []string{}
	add := func(v string) {
		if v != "" {
			out = append(out, v)
		}
	}
	add(c.Kicker)
	add(s.Headline)
	add(c.Subtitle)
	add(c.Body)
	for _, p := range c.Points {
		add(p)
	}
	for _, st := range c.Stats {
		add(st.Value)
		add(st.Label)
	}
	for _, cd := range c.Cards {
		add(cd.Title)
		add(cd.Body)
	}
	add(c.CallToAction)
	add(c.Contact)
	return out
}

func (s Slide) clone() Slide {
	c := s
	c.Content.Points = append([]string(nil), s.Content.Points...)
	c.Content.Stats = append([]Stat(nil), s.Content.Stats...)
	c.Content.Cards = append([]Card(nil), s.Content.Cards...)
	return c
}

func (s Slide) validate() error {
	if s.ID == "" {
		return errors.New("empty slide id")
	}
	if s.Number <= 0 {
		return fmt.Errorf("slide %s: number must be positive, got %d", s.ID, s.Number)
	}
	c := s.Content
	if !c.Kind.Valid() {
		return fmt.Errorf("slide %s: unknown kind %q", s.ID, c.Kind)
	}
	switch c.Kind {
	case KindStats:
		if len(c.Stats) == 0 {
			return fmt.Errorf("slide %s: stats slide needs at least one stat", s.ID)
		}
	case KindBullets:
		if len(c.Points) == 0 {
			return fmt.Errorf("slide %s: bullets slide needs at least one point", s.ID)
		}
	case KindCards:
		if len(c.Cards) == 0 {
			return fmt.Errorf("slide %s: cards slide needs at least one card", s.ID)
		}
	}
	return nil
}

// Variant is one complete, ordered presentation. It is immutable once built.
type Variant struct {
	name   string
	title  string
	slides []Slide
	index  IndexMap
}

// NewVariant validates and freezes an ordered slide list
func NewVariant(name, title string, list []Slide) (*Variant, error) {
	if name == "" {
		return nil, errors.New("variant name is required")
	}
	seen := make(map[string]bool, len(list))
	frozen := make([]Slide, len(list))
	for i, s := range list {
		if err := s.validate(); err != nil {
			return nil, fmt.Errorf("variant %s: %w", name, err)
		}
		if seen[s.ID] {
			return nil, fmt.Errorf("variant %s: duplicate slide id %q", name, s.ID)
		}
		seen[s.ID] = true
		frozen[i] = s.clone()
	}
	v := &Variant{name: name, title: title, slides: frozen}
	v.index = newIndexMap(frozen)
	return v, nil
}

// Name returns the variant's registry key
func (v *Variant) Name() string { return v.name }

// Title returns the deck title
func (v *Variant) Title() string { return v.title }

// Len returns the number of slides
func (v *Variant) Len() int { return len(v.slides) }

// Slide returns the slide at the 0-based index i
func (v *Variant) Slide(i int) (Slide, bool) {
	if i < 0 || i >= len(v.slides) {
		return Slide{}, false
	}
	return v.slides[i].clone(), true
}

// Slides returns a copy of the ordered slides
func (v *Variant) Slides() []Slide {
	out := make([]Slide, len(v.slides))
	for i, s := range v.slides {
		out[i] = s.clone()
	}
	return out
}

// Descriptors returns the ordered descriptors
func (v *Variant) Descriptors() []Descriptor {
	out := make([]Descriptor, len(v.slides))
	for i, s := range v.slides {
		out[i] = s.Descriptor
	}
	return out
}

// IDs returns the slide ids in order
func (v *Variant) IDs() []string {
	out := make([]string, len(v.slides))
	for i, s := range v.slides {
		out[i] = s.ID
	}
	return out
}

// IndexMap returns the variant's id → position map
func (v *Variant) IndexMap() IndexMap { return v.index }

// IndexMap maps slide ids to 1-based positions. The zero value is an empty map.
type IndexMap struct {
	pos map[string]int
}

func newIndexMap(list []Slide) IndexMap {
	m := IndexMap{pos: make(map[string]int, len(list))}
	for i, s := range list {
		m.pos[s.ID] = i + 1
	}
	return m
}

// Position returns the 1-based position of id
func (m IndexMap) Position(id string) (int, bool) {
	p, ok := m.pos[id]
	return p, ok
}

// Len returns the number of entries, which is also the highest position
func (m IndexMap) Len() int { return len(m.pos) }

// Positions returns every position in ascending order
func (m IndexMap) Positions() []int {
	out := make([]int, 0, len(m.pos))
	for _, p := range m.pos {
		out = append(out, p)
	}
	sort.Ints(out)
	return out
}

// BackgroundVariant selects one of four background families for a 1-based position.
// Positions below 1 are a caller error; they still map into {0,1,2,3}.
func BackgroundVariant(position int) int {
	return ((position-1)%4 + 4) % 4
}

// Registry holds named variants in registration order
type Registry struct {
	order    []string
	variants map[string]*Variant
}

// NewRegistry builds a registry; the first variant is the default
func NewRegistry(vs ...*Variant) (*Registry, error) {
	r := &Registry{variants: make(map[string]*Variant, len(vs))}
	for _, v := range vs {
		if _, dup := r.variants[v.Name()]; dup {
			return nil, fmt.Errorf("duplicate variant %q", v.Name())
		}
		r.variants[v.Name()] = v
		r.order = append(r.order, v.Name())
	}
	return r, nil
}

// Names returns the variant names in registration order
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Variant looks a variant up by name
func (r *Registry) Variant(name string) (*Variant, error) {
	v, ok := r.variants[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, name)
	}
	return v, nil
}

// Default returns the first registered variant
func (r *Registry) Default() *Variant {
	if len(r.order) == 0 {
		return nil
	}
	return r.variants[r.order[0]]
}
