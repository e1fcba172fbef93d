package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/keybind"
)

// xgbServer speaks to a real X server through xgb. xgbutil shares the same
// socket and is used only for keysym tables and EWMH helpers.
type xgbServer struct {
	conn  *xgb.Conn
	xutil *xgbutil.XUtil
}

var _ Server = (*xgbServer)(nil)

// dialServer opens a protocol connection to display ("" uses $DISPLAY).
func dialServer(display string) (*xgbServer, error) {
	conn, err := xgb.NewConnDisplay(display)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X server: %w", err)
	}

	xu, err := xgbutil.NewConnXgb(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize xgbutil: %w", err)
	}
	// Keysym tables are needed to name key events.
	keybind.Initialize(xu)

	return &xgbServer{conn: conn, xutil: xu}, nil
}

func (s *xgbServer) InternAtom(name string, onlyIfExists bool) (xproto.Atom, error) {
	reply, err := xproto.InternAtom(s.conn, onlyIfExists, uint16(len(name)), name).Reply()
	if err != nil {
		return 0, protocolError("InternAtom "+name, err)
	}
	return reply.Atom, nil
}

func (s *xgbServer) AtomName(atom xproto.Atom) (string, error) {
	reply, err := xproto.GetAtomName(s.conn, atom).Reply()
	if err != nil {
		return "", protocolError("GetAtomName", err)
	}
	return reply.Name, nil
}

func (s *xgbServer) GetProperty(win xproto.Window, prop xproto.Atom) (PropertyReply, error) {
	// 1024 32-bit units is enough for every property backdrop reads.
	reply, err := xproto.GetProperty(s.conn, false, win, prop, xproto.GetPropertyTypeAny, 0, 1024).Reply()
	if err != nil {
		return PropertyReply{}, protocolError("GetProperty", err)
	}
	return PropertyReply{Type: reply.Type, Format: reply.Format, Value: reply.Value}, nil
}

func (s *xgbServer) ChangeProperty(win xproto.Window, prop, typ xproto.Atom, format byte, data []byte) error {
	unit := uint32(format / 8)
	if unit == 0 {
		unit = 1
	}
	err := xproto.ChangePropertyChecked(s.conn, xproto.PropModeReplace, win, prop, typ, format,
		uint32(len(data))/unit, data).Check()
	return protocolError("ChangeProperty", err)
}

func (s *xgbServer) QueryTree(win xproto.Window) ([]xproto.Window, error) {
	reply, err := xproto.QueryTree(s.conn, win).Reply()
	if err != nil {
		return nil, protocolError("QueryTree", err)
	}
	return reply.Children, nil
}

func (s *xgbServer) GetGeometry(win xproto.Window) (Geometry, error) {
	reply, err := xproto.GetGeometry(s.conn, xproto.Drawable(win)).Reply()
	if err != nil {
		return Geometry{}, protocolError("GetGeometry", err)
	}
	return Geometry{X: reply.X, Y: reply.Y, Width: reply.Width, Height: reply.Height}, nil
}

func (s *xgbServer) NewID() (uint32, error) {
	return s.conn.NewId()
}

func (s *xgbServer) CreateWindow(req CreateWindowRequest) error {
	err := xproto.CreateWindowChecked(s.conn,
		req.Depth, req.ID, req.Parent,
		req.Geometry.X, req.Geometry.Y, req.Geometry.Width, req.Geometry.Height,
		req.BorderWidth, xproto.WindowClassInputOutput, req.Visual,
		req.ValueMask, req.Values,
	).Check()
	return protocolError("CreateWindow", err)
}

func (s *xgbServer) MapWindow(win xproto.Window) error {
	return protocolError("MapWindow", xproto.MapWindowChecked(s.conn, win).Check())
}

func (s *xgbServer) DestroyWindow(win xproto.Window) error {
	return protocolError("DestroyWindow", xproto.DestroyWindowChecked(s.conn, win).Check())
}

func (s *xgbServer) CreateColormap(id xproto.Colormap, win xproto.Window, visual xproto.Visualid) error {
	err := xproto.CreateColormapChecked(s.conn, xproto.ColormapAllocNone, id, win, visual).Check()
	return protocolError("CreateColormap", err)
}

func (s *xgbServer) FreeColormap(id xproto.Colormap) error {
	return protocolError("FreeColormap", xproto.FreeColormapChecked(s.conn, id).Check())
}

func (s *xgbServer) SendEvent(dest xproto.Window, mask uint32, event []byte) error {
	err := xproto.SendEventChecked(s.conn, false, dest, mask, string(event)).Check()
	return protocolError("SendEvent", err)
}

func (s *xgbServer) SelectionOwner(selection xproto.Atom) (xproto.Window, error) {
	reply, err := xproto.GetSelectionOwner(s.conn, selection).Reply()
	if err != nil {
		return 0, protocolError("GetSelectionOwner", err)
	}
	return reply.Owner, nil
}

func (s *xgbServer) PollEvent() (xgb.Event, xgb.Error) {
	return s.conn.PollForEvent()
}

func (s *xgbServer) KeyName(state uint16, code xproto.Keycode) string {
	return keybind.LookupString(s.xutil, state, code)
}

func (s *xgbServer) Supported() ([]string, error) {
	return ewmh.SupportedGet(s.xutil)
}

func (s *xgbServer) SetWMName(win xproto.Window, name string) error {
	return ewmh.WmNameSet(s.xutil, win, name)
}

func (s *xgbServer) Screen(index int) (ScreenInfo, bool) {
	setup := xproto.Setup(s.conn)
	if index < 0 || index >= len(setup.Roots) {
		return ScreenInfo{}, false
	}
	root := setup.Roots[index]
	return ScreenInfo{
		Root:       root.Root,
		RootVisual: root.RootVisual,
		RootDepth:  root.RootDepth,
		WhitePixel: root.WhitePixel,
		BlackPixel: root.BlackPixel,
		Width:      root.WidthInPixels,
		Height:     root.HeightInPixels,
	}, true
}

func (s *xgbServer) DefaultScreen() int {
	return s.conn.DefaultScreen
}

// Flush waits for the server to process every request sent so far. xgb has
// no client-side output buffer, so a round trip is the only meaningful flush.
func (s *xgbServer) Flush() error {
	_, err := xproto.GetInputFocus(s.conn).Reply()
	return protocolError("Flush", err)
}

func (s *xgbServer) Close() {
	s.conn.Close()
}
