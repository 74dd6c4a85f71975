package slides

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// ContentFile is the on-disk form of a set of variants
type ContentFile struct {
	Variants []VariantRecord `koanf:"variants" yaml:"variants"`
}

// VariantRecord is one variant in a content file
type VariantRecord struct {
	Name   string        `koanf:"name" yaml:"name"`
	Title  string        `koanf:"title" yaml:"title,omitempty"`
	Slides []SlideRecord `koanf:"slides" yaml:"slides"`
}

// SlideRecord is one slide in a content file
type SlideRecord struct {
	ID           string       `koanf:"id" yaml:"id"`
	Number       int          `koanf:"number" yaml:"number"`
	Headline     string       `koanf:"headline" yaml:"headline"`
	Kind         string       `koanf:"kind" yaml:"kind"`
	Kicker       string       `koanf:"kicker" yaml:"kicker,omitempty"`
	Subtitle     string       `koanf:"subtitle" yaml:"subtitle,omitempty"`
	Body         string       `koanf:"body" yaml:"body,omitempty"`
	Points       []string     `koanf:"points" yaml:"points,omitempty"`
	Stats        []StatRecord `koanf:"stats" yaml:"stats,omitempty"`
	Cards        []CardRecord `koanf:"cards" yaml:"cards,omitempty"`
	CallToAction string       `koanf:"call_to_action" yaml:"call_to_action,omitempty"`
	Contact      string       `koanf:"contact" yaml:"contact,omitempty"`
}

// StatRecord is a stat in a content file
type StatRecord struct {
	Value string `koanf:"value" yaml:"value"`
	Label string `koanf:"label" yaml:"label"`
}

// CardRecord is a card in a content file
type CardRecord struct {
	Title string `koanf:"title" yaml:"title"`
	Body  string `koanf:"body" yaml:"body"`
}

// bytesProvider feeds an in-memory document to koanf
type bytesProvider []byte

func (b bytesProvider) ReadBytes() ([]byte, error) { return b, nil }

func (b bytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New("bytes provider does not support Read")
}

// LoadFile reads variants from a YAML content file
func LoadFile(path string) (*Registry, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("reading content %s: %w", path, err)
	}
	return fromKoanf(k)
}

// Load reads variants from YAML
func Load(r io.Reader) (*Registry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading content: %w", err)
	}
	k := koanf.New(".")
	if err := k.Load(bytesProvider(data), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("parsing content: %w", err)
	}
	return fromKoanf(k)
}

func fromKoanf(k *koanf.Koanf) (*Registry, error) {
	var cf ContentFile
	if err := k.Unmarshal("", &cf); err != nil {
		return nil, fmt.Errorf("unmarshalling content: %w", err)
	}
	if len(cf.Variants) == 0 {
		return nil, errors.New("content defines no variants")
	}
	vs := make([]*Variant, 0, len(cf.Variants))
	for _, vr := range cf.Variants {
		v, err := vr.Variant()
		if err != nil {
			return nil, err
		}
		vs = append(vs, v)
	}
	return NewRegistry(vs...)
}

// Variant converts the record into a validated Variant
func (vr VariantRecord) Variant() (*Variant, error) {
	list := make([]Slide, len(vr.Slides))
	for i, sr := range vr.Slides {
		s := Slide{
			Descriptor: Descriptor{ID: sr.ID, Number: sr.Number, Headline: sr.Headline},
			Content: Content{
				Kind:         Kind(sr.Kind),
				Kicker:       sr.Kicker,
				Subtitle:     sr.Subtitle,
				Body:         sr.Body,
				Points:       sr.Points,
				CallToAction: sr.CallToAction,
				Contact:      sr.Contact,
			},
		}
		for _, st := range sr.Stats {
			s.Content.Stats = append(s.Content.Stats, Stat{Value: st.Value, Label: st.Label})
		}
		for _, cd := range sr.Cards {
			s.Content.Cards = append(s.Content.Cards, Card{Title: cd.Title, Body: cd.Body})
		}
		list[i] = s
	}
	return NewVariant(vr.Name, vr.Title, list)
}

// Record converts a variant back to its file form
func (v *Variant) Record() VariantRecord {
	vr := VariantRecord{Name: v.name, Title: v.title}
	for _, s := range v.slides {
		c := s.Content
		sr := SlideRecord{
			ID:           s.ID,
			Number:       s.Number,
			Headline:     s.Headline,
			Kind:         string(c.Kind),
			Kicker:       c.Kicker,
			Subtitle:     c.Subtitle,
			Body:         c.Body,
			Points:       append([]string(nil), c.Points...),
			CallToAction: c.CallToAction,
			Contact:      c.Contact,
		}
		for _, st := range c.Stats {
			sr.Stats = append(sr.Stats, StatRecord{Value: st.Value, Label: st.Label})
		}
		for _, cd := range c.Cards {
			sr.Cards = append(sr.Cards, CardRecord{Title: cd.Title, Body: cd.Body})
		}
		vr.Slides = append(vr.Slides, sr)
	}
	return vr
}

// Dump writes every variant in the registry as a YAML content file
func (r *Registry) Dump(w io.Writer) error {
	var cf ContentFile
	for _, name := range r.order {
		cf.Variants = append(cf.Variants, r.variants[name].Record())
	}
	enc := yamlv3.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cf); err != nil {
		return fmt.Errorf("encoding content: %w", err)
	}
	return enc.Close()
}

// Save writes the registry to path
func (r *Registry) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := r.Dump(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
