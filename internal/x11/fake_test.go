package x11

import (
	"testing"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
)

const fakeRoot xproto.Window = 0x100

type changeCall struct {
	win    xproto.Window
	prop   xproto.Atom
	typ    xproto.Atom
	format byte
	data   []byte
}

type sentEvent struct {
	dest  xproto.Window
	mask  uint32
	event []byte
}

type queuedEvent struct {
	ev  xgb.Event
	err xgb.Error
}

// fakeServer is an in-memory X server good enough for the codec, the
// desktop walk and window creation.
type fakeServer struct {
	atoms    map[string]xproto.Atom
	props    map[xproto.Window]map[xproto.Atom]PropertyReply
	propErrs map[xproto.Window]error
	tree     map[xproto.Window][]xproto.Window
	treeErrs map[xproto.Window]error
	geoms    map[xproto.Window]Geometry
	owners   map[xproto.Atom]xproto.Window
	keys     map[xproto.Keycode]string
	hints    []string

	createErr error
	mapErr    error
	nextID    uint32

	propReads []xproto.Window
	changes   []changeCall
	created   []CreateWindowRequest
	mapped    []xproto.Window
	destroyed []xproto.Window
	sent      []sentEvent
	colormaps []xproto.Colormap
	queue     []queuedEvent
	flushes   int
	closes    int
}

func newFakeServer() *fakeServer {
	return &fakeServer{
		atoms: map[string]xproto.Atom{
			"STRING":   xproto.AtomString,
			"INTEGER":  xproto.AtomInteger,
			"CARDINAL": xproto.AtomCardinal,
			"ATOM":     xproto.AtomAtom,
		},
		props:    map[xproto.Window]map[xproto.Atom]PropertyReply{},
		propErrs: map[xproto.Window]error{},
		tree:     map[xproto.Window][]xproto.Window{},
		treeErrs: map[xproto.Window]error{},
		geoms:    map[xproto.Window]Geometry{},
		owners:   map[xproto.Atom]xproto.Window{},
		keys:     map[xproto.Keycode]string{},
		nextID:   0x400000,
	}
}

// intern registers name with a fixed atom id.
func (f *fakeServer) intern(name string, atom xproto.Atom) xproto.Atom {
	f.atoms[name] = atom
	return atom
}

func (f *fakeServer) setProp(win xproto.Window, prop xproto.Atom, reply PropertyReply) {
	if f.props[win] == nil {
		f.props[win] = map[xproto.Atom]PropertyReply{}
	}
	f.props[win][prop] = reply
}

func (f *fakeServer) setAtomProp(win xproto.Window, prop, value xproto.Atom) {
	f.setProp(win, prop, PropertyReply{Type: xproto.AtomAtom, Format: 32, Value: put32(uint32(value))})
}

func (f *fakeServer) InternAtom(name string, onlyIfExists bool) (xproto.Atom, error) {
	if atom, ok := f.atoms[name]; ok {
		return atom, nil
	}
	if onlyIfExists {
		return xproto.AtomNone, nil
	}
	f.nextID++
	return f.intern(name, xproto.Atom(f.nextID)), nil
}

func (f *fakeServer) AtomName(atom xproto.Atom) (string, error) {
	for name, a := range f.atoms {
		if a == atom {
			return name, nil
		}
	}
	return "", &ProtocolError{Op: "GetAtomName", Code: ErrCodeAtom}
}

func (f *fakeServer) GetProperty(win xproto.Window, prop xproto.Atom) (PropertyReply, error) {
	f.propReads = append(f.propReads, win)
	if err := f.propErrs[win]; err != nil {
		return PropertyReply{}, err
	}
	if reply, ok := f.props[win][prop]; ok {
		return reply, nil
	}
	return PropertyReply{Type: xproto.AtomNone}, nil
}

func (f *fakeServer) ChangeProperty(win xproto.Window, prop, typ xproto.Atom, format byte, data []byte) error {
	f.changes = append(f.changes, changeCall{win: win, prop: prop, typ: typ, format: format, data: data})
	f.setProp(win, prop, PropertyReply{Type: typ, Format: format, Value: data})
	return nil
}

func (f *fakeServer) QueryTree(win xproto.Window) ([]xproto.Window, error) {
	if err := f.treeErrs[win]; err != nil {
		return nil, err
	}
	return f.tree[win], nil
}

func (f *fakeServer) GetGeometry(win xproto.Window) (Geometry, error) {
	g, ok := f.geoms[win]
	if !ok {
		return Geometry{}, &ProtocolError{Op: "GetGeometry", Code: ErrCodeDrawable}
	}
	return g, nil
}

func (f *fakeServer) NewID() (uint32, error) {
	f.nextID++
	return f.nextID, nil
}

func (f *fakeServer) CreateWindow(req CreateWindowRequest) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, req)
	f.tree[req.Parent] = append(f.tree[req.Parent], req.ID)
	f.geoms[req.ID] = req.Geometry
	return nil
}

func (f *fakeServer) MapWindow(win xproto.Window) error {
	if f.mapErr != nil {
		return f.mapErr
	}
	f.mapped = append(f.mapped, win)
	return nil
}

func (f *fakeServer) DestroyWindow(win xproto.Window) error {
	f.destroyed = append(f.destroyed, win)
	return nil
}

func (f *fakeServer) CreateColormap(id xproto.Colormap, win xproto.Window, visual xproto.Visualid) error {
	f.colormaps = append(f.colormaps, id)
	return nil
}

func (f *fakeServer) FreeColormap(id xproto.Colormap) error { return nil }

func (f *fakeServer) SendEvent(dest xproto.Window, mask uint32, event []byte) error {
	f.sent = append(f.sent, sentEvent{dest: dest, mask: mask, event: event})
	return nil
}

func (f *fakeServer) SelectionOwner(selection xproto.Atom) (xproto.Window, error) {
	return f.owners[selection], nil
}

func (f *fakeServer) PollEvent() (xgb.Event, xgb.Error) {
	if len(f.queue) == 0 {
		return nil, nil
	}
	next := f.queue[0]
	f.queue = f.queue[1:]
	return next.ev, next.err
}

func (f *fakeServer) KeyName(state uint16, code xproto.Keycode) string { return f.keys[code] }

func (f *fakeServer) Supported() ([]string, error) { return f.hints, nil }

func (f *fakeServer) SetWMName(win xproto.Window, name string) error { return nil }

func (f *fakeServer) Screen(index int) (ScreenInfo, bool) {
	if index != 0 {
		return ScreenInfo{}, false
	}
	return ScreenInfo{
		Root:       fakeRoot,
		RootVisual: 0x21,
		RootDepth:  24,
		WhitePixel: 0xffffff,
		Width:      1920,
		Height:     1080,
	}, true
}

func (f *fakeServer) DefaultScreen() int { return 0 }

func (f *fakeServer) Flush() error {
	f.flushes++
	return nil
}

func (f *fakeServer) Close() { f.closes++ }

func newFakeConnection(t *testing.T) (*Connection, *fakeServer) {
	t.Helper()
	srv := newFakeServer()
	return NewConnection(srv, 0, nil), srv
}

func rootOf(t *testing.T, c *Connection) Window {
	t.Helper()
	screen, err := c.Screen()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return screen.Root()
}
