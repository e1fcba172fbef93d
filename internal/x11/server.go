package x11

import (
	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
)

// Server is the subset of the X protocol backdrop speaks. The xgb-backed
// implementation is returned by Dial; tests substitute their own.
//
// Every method is a request on the wire. Nothing is cached.
type Server interface {
	InternAtom(name string, onlyIfExists bool) (xproto.Atom, error)
	AtomName(atom xproto.Atom) (string, error)

	GetProperty(win xproto.Window, prop xproto.Atom) (PropertyReply, error)
	ChangeProperty(win xproto.Window, prop, typ xproto.Atom, format byte, data []byte) error

	QueryTree(win xproto.Window) ([]xproto.Window, error)
	GetGeometry(win xproto.Window) (Geometry, error)

	NewID() (uint32, error)
	CreateWindow(req CreateWindowRequest) error
	MapWindow(win xproto.Window) error
	DestroyWindow(win xproto.Window) error
	CreateColormap(id xproto.Colormap, win xproto.Window, visual xproto.Visualid) error
	FreeColormap(id xproto.Colormap) error

	SendEvent(dest xproto.Window, mask uint32, event []byte) error
	SelectionOwner(selection xproto.Atom) (xproto.Window, error)

	// PollEvent never blocks. Both results are nil when the queue is empty.
	PollEvent() (xgb.Event, xgb.Error)

	// KeyName resolves a keycode to its keysym name, "" when unknown.
	KeyName(state uint16, code xproto.Keycode) string
	// Supported returns the window manager's _NET_SUPPORTED atom names.
	Supported() ([]string, error)
	// SetWMName sets _NET_WM_NAME (UTF8_STRING) on win.
	SetWMName(win xproto.Window, name string) error

	Screen(index int) (ScreenInfo, bool)
	DefaultScreen() int
	Flush() error
	Close()
}

// PropertyReply is the raw GetProperty reply.
type PropertyReply struct {
	Type   xproto.Atom
	Format byte
	Value  []byte
}

// Geometry is a window rectangle relative to its parent.
type Geometry struct {
	X      int16
	Y      int16
	Width  uint16
	Height uint16
}

// ScreenInfo describes one screen of the display.
type ScreenInfo struct {
	Root       xproto.Window
	RootVisual xproto.Visualid
	RootDepth  byte
	WhitePixel uint32
	BlackPixel uint32
	Width      uint16
	Height     uint16
}

// CreateWindowRequest carries the CreateWindow arguments. ValueMask and
// Values must follow the protocol's bit order.
type CreateWindowRequest struct {
	ID          xproto.Window
	Parent      xproto.Window
	Depth       byte
	Geometry    Geometry
	BorderWidth uint16
	Visual      xproto.Visualid
	ValueMask   uint32
	Values      []uint32
}
