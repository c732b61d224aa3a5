package canvas

import (
	"fmt"
	"strings"
	"sync"

	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
)

// FontBook maps font families and styles to loaded font sources.
// Unknown families fall back to the default family with the requested
// style, and unknown styles fall back to normal.
//
// FontBook is safe for concurrent use.
type FontBook struct {
	mu       sync.Mutex
	fallback string
	sources  map[fontKey]*text.FontSource
	faces    map[faceKey]text.Face
}

type fontKey struct {
	family string
	style  string
}

type faceKey struct {
	src  *text.FontSource
	size float64
}

// NewFontBook creates an empty font book. fallback names the family used
// for unregistered families.
func NewFontBook(fallback string) *FontBook {
	return &FontBook{
		fallback: strings.ToLower(fallback),
		sources:  make(map[fontKey]*text.FontSource),
		faces:    make(map[faceKey]text.Face),
	}
}

var (
	defaultBookOnce sync.Once
	defaultBook     *FontBook
	defaultBookErr  error
)

// DefaultFontBook returns a shared book with the Go fonts registered as
// "go" in all four styles and used as the fallback family.
func DefaultFontBook() (*FontBook, error) {
	defaultBookOnce.Do(func() {
		b := NewFontBook("go")
		for style, data := range map[string][]byte{
			"normal":      goregular.TTF,
			"bold":        gobold.TTF,
			"italic":      goitalic.TTF,
			"bold italic": gobolditalic.TTF,
		} {
			if err := b.Register("go", style, data); err != nil {
				defaultBookErr = err
				return
			}
		}
		defaultBook = b
	})
	return defaultBook, defaultBookErr
}

// Clone returns a book with the same registered sources and fallback.
// Registering into the clone leaves b unchanged.
func (b *FontBook) Clone() *FontBook {
	b.mu.Lock()
	defer b.mu.Unlock()
	c := NewFontBook(b.fallback)
	for k, src := range b.sources {
		c.sources[k] = src
	}
	return c
}

// Register parses font data and stores it under family and style.
func (b *FontBook) Register(family, style string, data []byte) error {
	src, err := text.NewFontSource(data)
	if err != nil {
		return fmt.Errorf("canvas: font %s %s: %w", family, style, err)
	}
	b.mu.Lock()
	b.sources[fontKey{strings.ToLower(family), normalizeStyle(style)}] = src
	b.mu.Unlock()
	return nil
}

// RegisterFile loads a font file and stores it under family and style.
func (b *FontBook) RegisterFile(family, style, path string) error {
	src, err := text.NewFontSourceFromFile(path)
	if err != nil {
		return fmt.Errorf("canvas: font %s %s: %w", family, style, err)
	}
	b.mu.Lock()
	b.sources[fontKey{strings.ToLower(family), normalizeStyle(style)}] = src
	b.mu.Unlock()
	return nil
}

// Face returns a face for f, or nil if neither the family nor the fallback
// is registered.
func (b *FontBook) Face(f Font) text.Face {
	b.mu.Lock()
	defer b.mu.Unlock()

	src := b.lookup(f)
	if src == nil {
		return nil
	}
	key := faceKey{src, f.Size}
	face, ok := b.faces[key]
	if !ok {
		face = src.Face(f.Size)
		b.faces[key] = face
	}
	return face
}

func (b *FontBook) lookup(f Font) *text.FontSource {
	family := strings.ToLower(f.Family)
	style := normalizeStyle(f.Style)
	for _, k := range []fontKey{
		{family, style},
		{family, "normal"},
		{b.fallback, style},
		{b.fallback, "normal"},
	} {
		if src, ok := b.sources[k]; ok {
			return src
		}
	}
	return nil
}

func normalizeStyle(style string) string {
	switch s := strings.Join(strings.Fields(strings.ToLower(style)), " "); s {
	case "", "normal", "regular":
		return "normal"
	case "italic bold":
		return "bold italic"
	default:
		return s
	}
}
