// Package input defines the tagged event shapes the core reacts to and
// adapts Bubble Tea's tea.Msg values into them — the one place the TUI
// backend's event shape is allowed to leak into the rest of the core.
package input

import tea "github.com/charmbracelet/bubbletea"

// KeyCode names a non-printable key; every printable character shares
// KeyRune, with the character itself in KeyEvent.Char.
type KeyCode int

const (
	KeyNone KeyCode = iota
	KeyEnter
	KeyEscape
	KeyTab
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyResize
	KeyRune // char carries the printable rune
)

// ModifierSet is a bit-flag of held modifiers.
type ModifierSet uint8

const (
	ModShift ModifierSet = 1 << iota
	ModControl
	ModAlt
	ModCommand
)

func (m ModifierSet) Has(flag ModifierSet) bool { return m&flag != 0 }

// KeyEvent is a single keypress.
type KeyEvent struct {
	KeyCode   KeyCode
	Modifiers ModifierSet
	Char      rune
}

// CharEvent carries composed text from IME or paste.
type CharEvent struct {
	Text string
}

// MouseEventType names the kind of mouse activity.
type MouseEventType int

const (
	MouseButtonDown MouseEventType = iota
	MouseButtonUp
	MouseMove
	MouseWheel
	MouseDoubleClick
)

// MouseButton identifies which button a button event refers to.
type MouseButton int

const (
	MouseButtonNone MouseButton = iota
	MouseButtonLeft
	MouseButtonRight
	MouseButtonMiddle
)

// MouseEvent carries a cell-granularity position plus sub-cell fraction.
type MouseEvent struct {
	EventType    MouseEventType
	Column, Row  int
	SubCellX     float32
	SubCellY     float32
	Button       MouseButton
	ScrollDeltaX float32
	ScrollDeltaY float32
	Modifiers    ModifierSet
}

// SystemEventKind names a system-level event.
type SystemEventKind int

const (
	SystemResize SystemEventKind = iota
	SystemClose
)

// SystemEvent carries a resize or close notification.
type SystemEvent struct {
	Kind SystemEventKind
	Cols int
	Rows int
}

// Event is the sum type dispatched through the layer stack.
type Event interface{ isEvent() }

func (KeyEvent) isEvent()    {}
func (CharEvent) isEvent()   {}
func (MouseEvent) isEvent()  {}
func (SystemEvent) isEvent() {}

// FromTeaMsg adapts a Bubble Tea message into this package's event model.
// A resize always produces a SystemEvent and is never recorded in any
// input history buffer.
func FromTeaMsg(msg tea.Msg) (Event, bool) {
	switch m := msg.(type) {
	case tea.KeyMsg:
		return keyEventFromTea(m), true
	case tea.MouseMsg:
		return mouseEventFromTea(m), true
	case tea.WindowSizeMsg:
		return SystemEvent{Kind: SystemResize, Cols: m.Width, Rows: m.Height}, true
	default:
		return nil, false
	}
}

func keyEventFromTea(m tea.KeyMsg) Event {
	mods := ModifierSet(0)
	switch m.Type {
	case tea.KeyEnter:
		return KeyEvent{KeyCode: KeyEnter, Modifiers: mods}
	case tea.KeyEsc:
		return KeyEvent{KeyCode: KeyEscape, Modifiers: mods}
	case tea.KeyTab:
		return KeyEvent{KeyCode: KeyTab, Modifiers: mods}
	case tea.KeyUp:
		return KeyEvent{KeyCode: KeyUp, Modifiers: mods}
	case tea.KeyDown:
		return KeyEvent{KeyCode: KeyDown, Modifiers: mods}
	case tea.KeyLeft:
		return KeyEvent{KeyCode: KeyLeft, Modifiers: mods}
	case tea.KeyRight:
		return KeyEvent{KeyCode: KeyRight, Modifiers: mods}
	case tea.KeyShiftUp:
		return KeyEvent{KeyCode: KeyUp, Modifiers: ModShift}
	case tea.KeyShiftDown:
		return KeyEvent{KeyCode: KeyDown, Modifiers: ModShift}
	case tea.KeyShiftLeft:
		return KeyEvent{KeyCode: KeyLeft, Modifiers: ModShift}
	case tea.KeyShiftRight:
		return KeyEvent{KeyCode: KeyRight, Modifiers: ModShift}
	case tea.KeyHome:
		return KeyEvent{KeyCode: KeyHome, Modifiers: mods}
	case tea.KeyEnd:
		return KeyEvent{KeyCode: KeyEnd, Modifiers: mods}
	case tea.KeyPgUp:
		return KeyEvent{KeyCode: KeyPageUp, Modifiers: mods}
	case tea.KeyPgDown:
		return KeyEvent{KeyCode: KeyPageDown, Modifiers: mods}
	case tea.KeyRunes:
		if len(m.Runes) > 0 {
			return KeyEvent{KeyCode: KeyRune, Char: m.Runes[0]}
		}
		return KeyEvent{KeyCode: KeyNone}
	default:
		return KeyEvent{KeyCode: KeyNone}
	}
}

func mouseEventFromTea(m tea.MouseMsg) Event {
	ev := MouseEvent{Column: m.X, Row: m.Y}
	switch m.Button {
	case tea.MouseButtonLeft:
		ev.Button = MouseButtonLeft
	case tea.MouseButtonRight:
		ev.Button = MouseButtonRight
	case tea.MouseButtonMiddle:
		ev.Button = MouseButtonMiddle
	}
	switch m.Action {
	case tea.MouseActionPress:
		ev.EventType = MouseButtonDown
	case tea.MouseActionRelease:
		ev.EventType = MouseButtonUp
	case tea.MouseActionMotion:
		ev.EventType = MouseMove
	}
	switch m.Button {
	case tea.MouseButtonWheelUp:
		ev.EventType = MouseWheel
		ev.ScrollDeltaY = -1
	case tea.MouseButtonWheelDown:
		ev.EventType = MouseWheel
		ev.ScrollDeltaY = 1
	}
	return ev
}
