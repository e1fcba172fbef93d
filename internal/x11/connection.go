package x11

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
)

// Atom names backdrop reads or writes.
const (
	AtomNetWMWindowType        = "_NET_WM_WINDOW_TYPE"
	AtomNetWMWindowTypeDesktop = "_NET_WM_WINDOW_TYPE_DESKTOP"
	AtomNetWMWindowTypeUtility = "_NET_WM_WINDOW_TYPE_UTILITY"
	AtomNetWMState             = "_NET_WM_STATE"
	AtomNetWMStateBelow        = "_NET_WM_STATE_BELOW"
	AtomNetWMStateFullscreen   = "_NET_WM_STATE_FULLSCREEN"
	AtomWMProtocols            = "WM_PROTOCOLS"
	AtomWMDeleteWindow         = "WM_DELETE_WINDOW"
	AtomUTF8String             = "UTF8_STRING"
)

// Connection manages the X11 connection and the screen backdrop draws on.
type Connection struct {
	server Server
	screen int
	log    *slog.Logger

	closeOnce sync.Once
}

// Dial connects to display ("" uses $DISPLAY) and selects its default screen.
func Dial(display string, logger *slog.Logger) (*Connection, error) {
	srv, err := dialServer(display)
	if err != nil {
		return nil, err
	}
	return NewConnection(srv, srv.DefaultScreen(), logger), nil
}

// NewConnection wraps an already established server connection.
func NewConnection(server Server, screen int, logger *slog.Logger) *Connection {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Connection{server: server, screen: screen, log: logger}
}

// ScreenNumber is the index of the screen in use.
func (c *Connection) ScreenNumber() int {
	return c.screen
}

// Screen returns the screen in use.
func (c *Connection) Screen() (Screen, error) {
	info, ok := c.server.Screen(c.screen)
	if !ok {
		return Screen{}, fmt.Errorf("screen %d does not exist", c.screen)
	}
	return Screen{conn: c, index: c.screen, info: info}, nil
}

// FindAtom resolves name to its atom. ok is false when the server has no
// such atom; backdrop never creates atoms.
func (c *Connection) FindAtom(name string) (atom xproto.Atom, ok bool, err error) {
	atom, err = c.server.InternAtom(name, true)
	if err != nil {
		return 0, false, err
	}
	if atom == xproto.AtomNone {
		return 0, false, nil
	}
	return atom, true, nil
}

// MustFindAtoms resolves every name or fails naming the first missing atom.
func (c *Connection) MustFindAtoms(names ...string) (map[string]xproto.Atom, error) {
	atoms := make(map[string]xproto.Atom, len(names))
	for _, name := range names {
		atom, ok, err := c.FindAtom(name)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", name, err)
		}
		if !ok {
			return nil, fmt.Errorf("atom %s is not known to the X server", name)
		}
		atoms[name] = atom
	}
	return atoms, nil
}

// AtomName resolves an atom back to its name.
func (c *Connection) AtomName(atom xproto.Atom) (string, error) {
	return c.server.AtomName(atom)
}

// Flush waits until the server has processed every request sent so far.
func (c *Connection) Flush() error {
	return c.server.Flush()
}

// Sync blocks until every request sent so far has been processed and any
// resulting errors have been queued. With xgb it is the same round trip as
// Flush.
func (c *Connection) Sync() error {
	return c.server.Flush()
}

// NewID allocates a resource ID for a window, colormap or other server object.
func (c *Connection) NewID() (uint32, error) {
	return c.server.NewID()
}

// SupportedHints returns the EWMH hints the window manager advertises.
func (c *Connection) SupportedHints() ([]string, error) {
	return c.server.Supported()
}

// Close cleanly disconnects from the X11 server. Only the first call has any effect.
func (c *Connection) Close() {
	c.closeOnce.Do(c.server.Close)
}
