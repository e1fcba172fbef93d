package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
)

// BackdropHints lists the EWMH hints ApplyBackdropRole relies on.
var BackdropHints = []string{
	AtomNetWMWindowType,
	AtomNetWMWindowTypeUtility,
	AtomNetWMState,
	AtomNetWMStateBelow,
	AtomNetWMStateFullscreen,
}

// ApplyBackdropRole turns win into a desktop layer:
//   - _NET_WM_WINDOW_TYPE_UTILITY keeps it off the taskbar,
//   - _NET_WM_STATE BELOW + FULLSCREEN (sent to the root) keeps it under every
//     other window and sized to the screen,
//   - WM_PROTOCOLS = WM_DELETE_WINDOW lets the window manager ask it to close.
//
// It returns the close protocol so the caller can recognise close requests.
func (c *Connection) ApplyBackdropRole(win Window) (DeleteProtocol, error) {
	atoms, err := c.MustFindAtoms(
		AtomNetWMWindowType,
		AtomNetWMWindowTypeUtility,
		AtomNetWMState,
		AtomNetWMStateBelow,
		AtomNetWMStateFullscreen,
		AtomWMProtocols,
		AtomWMDeleteWindow,
	)
	if err != nil {
		return DeleteProtocol{}, err
	}

	err = win.SetProperty(Property{
		Key:   atoms[AtomNetWMWindowType],
		Value: AtomValue(atoms[AtomNetWMWindowTypeUtility]),
	})
	if err != nil {
		return DeleteProtocol{}, err
	}

	root := win.Screen().Root()
	msg := StateRequest(win.ID, atoms[AtomNetWMState], StateAdd,
		atoms[AtomNetWMStateBelow], atoms[AtomNetWMStateFullscreen])
	if err := c.SendClientMessage(root, msg); err != nil {
		return DeleteProtocol{}, fmt.Errorf("failed to request below/fullscreen state: %w", err)
	}

	err = win.SetProperty(Property{
		Key:   atoms[AtomWMProtocols],
		Value: AtomValue(atoms[AtomWMDeleteWindow]),
	})
	if err != nil {
		return DeleteProtocol{}, err
	}
	return DeleteProtocol{
		Window:       win.ID,
		Protocols:    atoms[AtomWMProtocols],
		DeleteWindow: atoms[AtomWMDeleteWindow],
	}, nil
}

// MissingHints returns the entries of want the window manager does not
// advertise in _NET_SUPPORTED.
func (c *Connection) MissingHints(want []string) ([]string, error) {
	supported, err := c.SupportedHints()
	if err != nil {
		return nil, fmt.Errorf("failed to read _NET_SUPPORTED: %w", err)
	}
	have := make(map[string]struct{}, len(supported))
	for _, name := range supported {
		have[name] = struct{}{}
	}
	var missing []string
	for _, name := range want {
		if _, ok := have[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing, nil
}

// DeleteProtocol identifies WM_DELETE_WINDOW requests for one window.
type DeleteProtocol struct {
	Window       xproto.Window
	Protocols    xproto.Atom
	DeleteWindow xproto.Atom
}

// Matches reports whether ev asks the window to close.
func (p DeleteProtocol) Matches(ev Event) bool {
	msg, ok := ev.(ClientMessage)
	if !ok || msg.Window != p.Window || msg.Format != 32 || msg.Type != p.Protocols {
		return false
	}
	return msg.Data[0] == uint32(p.DeleteWindow)
}
