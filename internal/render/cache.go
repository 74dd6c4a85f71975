package render

import (
	"bytes"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/joeblew999/deckshow/pkg/slides"
)

// Cache memoizes rendered slides. Variants are immutable, so a rendered slide only
// depends on the variant name, the slide, the context and the options.
type Cache struct {
	c *gocache.Cache
}

// NewCache creates a render cache whose entries expire after ttl
func NewCache(ttl time.Duration) *Cache {
	return &Cache{c: gocache.New(ttl, 2*ttl)}
}

func cacheKey(variant string, ctx Context, s slides.Slide, opts Options) string {
	position, _ := ctx.Index.Position(s.ID)
	w, h := opts.canvas()
	return fmt.Sprintf("%s|%s|%d/%d|%s|%s|%t|%q|%.0fx%.0f",
		variant, s.ID, position, ctx.Total(), ctx.Mode, ctx.Theme, opts.Visible, opts.Brand, w, h)
}

// Slide returns the rendered SVG for s, rendering it on a miss
func (c *Cache) Slide(variant string, ctx Context, s slides.Slide, opts Options) ([]byte, error) {
	key := cacheKey(variant, ctx, s, opts)
	if b, ok := c.c.Get(key); ok {
		return b.([]byte), nil
	}
	var buf bytes.Buffer
	if err := Slide(&buf, ctx, s, opts); err != nil {
		return nil, err
	}
	out := buf.Bytes()
	c.c.SetDefault(key, out)
	return out, nil
}

// Len reports the number of cached slides
func (c *Cache) Len() int { return c.c.ItemCount() }

// Flush drops every cached slide
func (c *Cache) Flush() { c.c.Flush() }
