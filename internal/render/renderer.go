// Package render defines the Renderer contract the core draws through and a
// concrete Bubble Tea-backed implementation. The core never assumes
// proportional widths: every write is placed by cell coordinate, and a
// write past the right edge is clamped here rather than by the backend.
package render

// TextAttribute is a bit-flag set of text attributes.
type TextAttribute uint8

const (
	AttrNormal TextAttribute = 0
	AttrBold   TextAttribute = 1 << iota
	AttrReverse
	AttrDim
	AttrUnderline
	AttrItalic
)

// ColorPair identifies an initialized foreground/background pair; 0 is the
// default pair.
type ColorPair int

const DefaultColorPair ColorPair = 0

// Renderer is the minimal character-grid surface the core requires.
type Renderer interface {
	Dimensions() (rows, cols int)
	Clear()
	DrawText(y, x int, text string, pair ColorPair, attrs TextAttribute)
	DrawHLine(y, x int, ch rune, count int, pair ColorPair)
	Refresh()
	InitColorPair(id ColorPair, fgRGB, bgRGB uint32)
}

// InteractiveRenderer extends Renderer with the optional capabilities the
// spec lists (cursor/IME caret, clipboard, mouse). A backend
// need not implement any of these; callers type-assert for the ones they
// need.
type InteractiveRenderer interface {
	Renderer
	SetCursorVisibility(visible bool)
	SetCaretPosition(y, x int)
	SupportsClipboard() bool
	GetClipboardText() (string, error)
	SupportsMouse() bool
	EnableMouseEvents(enabled bool)
}
