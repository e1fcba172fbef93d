package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
)

// Screen is one physical display surface of a Connection.
type Screen struct {
	conn  *Connection
	index int
	info  ScreenInfo
}

// Index is the screen number.
func (s Screen) Index() int { return s.index }

// Root returns the screen's root window.
func (s Screen) Root() Window {
	return Window{screen: s, ID: s.info.Root}
}

// RootVisual is the visual used when a window is created without one.
func (s Screen) RootVisual() xproto.Visualid { return s.info.RootVisual }

func (s Screen) WhitePixel() uint32 { return s.info.WhitePixel }
func (s Screen) BlackPixel() uint32 { return s.info.BlackPixel }

// Window names a window on a screen. Several values may name the same
// window; none of them own it.
type Window struct {
	screen Screen
	ID     xproto.Window
}

// Screen returns the screen the window lives on.
func (w Window) Screen() Screen { return w.screen }

func (w Window) server() Server { return w.screen.conn.server }

// GetProperty reads and decodes prop. A server rejection is returned as a
// *ProtocolError; an absent property decodes to NoneValue.
func (w Window) GetProperty(prop xproto.Atom) (Property, error) {
	reply, err := w.server().GetProperty(w.ID, prop)
	if err != nil {
		return Property{}, err
	}
	value, err := w.screen.conn.decodeProperty(reply)
	if err != nil {
		return Property{}, err
	}
	return Property{Key: prop, Value: value}, nil
}

// SetProperty replaces a property, encoding the value by its kind.
// It panics for an UnknownAtomValue.
func (w Window) SetProperty(p Property) error {
	format, data := encodeProperty(p.Value)
	if err := w.server().ChangeProperty(w.ID, p.Key, p.Value.TypeAtom(), format, data); err != nil {
		return fmt.Errorf("failed to set property %d on window %d: %w", p.Key, w.ID, err)
	}
	return nil
}

// Children lists child windows in the order the server reports them
// (bottom-most first).
func (w Window) Children() ([]Window, error) {
	ids, err := w.server().QueryTree(w.ID)
	if err != nil {
		return nil, err
	}
	children := make([]Window, len(ids))
	for i, id := range ids {
		children[i] = Window{screen: w.screen, ID: id}
	}
	return children, nil
}

// Geometry returns the window rectangle.
func (w Window) Geometry() (Geometry, error) {
	return w.server().GetGeometry(w.ID)
}

// Map maps the window and waits for the server to process it.
func (w Window) Map() error {
	if err := w.server().MapWindow(w.ID); err != nil {
		return err
	}
	return w.server().Flush()
}

// Destroy destroys the window.
func (w Window) Destroy() error {
	return w.server().DestroyWindow(w.ID)
}

// discard destroys a window that failed to come up. Its own error is dropped
// in favour of the one that caused the discard.
func (w Window) discard() {
	_ = w.server().DestroyWindow(w.ID)
}

// SetName sets the window title (_NET_WM_NAME).
func (w Window) SetName(name string) error {
	return w.server().SetWMName(w.ID, name)
}

// ChildEventMask is selected on every window created by CreateChild.
const ChildEventMask = xproto.EventMaskKeyPress |
	xproto.EventMaskKeyRelease |
	xproto.EventMaskExposure |
	xproto.EventMaskStructureNotify

// ChildWindowOptions configures CreateChild. Nil pointers leave the
// attribute unset; a nil Visual means the screen's root visual.
type ChildWindowOptions struct {
	Geometry   Geometry
	Depth      byte
	Colormap   *Colormap
	Background *uint32
	Border     *uint32
	Visual     *xproto.Visualid
}

// CreateChild creates, maps and flushes a new child of w.
func (w Window) CreateChild(opts ChildWindowOptions) (Window, error) {
	id, err := w.server().NewID()
	if err != nil {
		return Window{}, fmt.Errorf("failed to allocate window id: %w", err)
	}

	visual := w.screen.RootVisual()
	if opts.Visual != nil {
		visual = *opts.Visual
	}

	// Values must be appended in ascending bit order of their CW mask.
	var mask uint32
	var values []uint32
	if opts.Background != nil {
		mask |= xproto.CwBackPixel
		values = append(values, *opts.Background)
	}
	if opts.Border != nil {
		mask |= xproto.CwBorderPixel
		values = append(values, *opts.Border)
	}
	mask |= xproto.CwEventMask
	values = append(values, ChildEventMask)
	if opts.Colormap != nil {
		mask |= xproto.CwColormap
		values = append(values, uint32(opts.Colormap.ID))
	}

	err = w.server().CreateWindow(CreateWindowRequest{
		ID:          xproto.Window(id),
		Parent:      w.ID,
		Depth:       opts.Depth,
		Geometry:    opts.Geometry,
		BorderWidth: 1,
		Visual:      visual,
		ValueMask:   mask,
		Values:      values,
	})
	if err != nil {
		return Window{}, err
	}
	child := Window{screen: w.screen, ID: xproto.Window(id)}
	if err := w.server().Flush(); err != nil {
		child.discard()
		return Window{}, err
	}
	if err := child.Map(); err != nil {
		child.discard()
		return Window{}, fmt.Errorf("failed to map window %d: %w", id, err)
	}
	return child, nil
}

// Colormap is a server colormap created for a specific visual.
type Colormap struct {
	ID     xproto.Colormap
	server Server
}

// CreateColormap allocates a colormap for visual on w's screen.
func (w Window) CreateColormap(visual xproto.Visualid) (*Colormap, error) {
	id, err := w.server().NewID()
	if err != nil {
		return nil, fmt.Errorf("failed to allocate colormap id: %w", err)
	}
	if err := w.server().CreateColormap(xproto.Colormap(id), w.ID, visual); err != nil {
		return nil, err
	}
	return &Colormap{ID: xproto.Colormap(id), server: w.server()}, nil
}

// Free releases the colormap.
func (c *Colormap) Free() error {
	return c.server.FreeColormap(c.ID)
}
