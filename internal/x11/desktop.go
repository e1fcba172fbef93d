package x11

import (
	"github.com/BurntSushi/xgb/xproto"
)

// FindDesktop walks the window tree under root depth-first, pre-order, and
// returns the first window whose _NET_WM_WINDOW_TYPE is
// _NET_WM_WINDOW_TYPE_DESKTOP. ok is false when there is no such window or
// when the server does not know either atom; neither case is an error.
//
// A failed property read on one window is logged and treated as an absent
// property, so the walk still descends into that window's children.
func (c *Connection) FindDesktop(root Window) (desktop Window, ok bool) {
	typeAtom, found, err := c.FindAtom(AtomNetWMWindowType)
	if err != nil || !found {
		c.log.Debug("window type atom unavailable", "atom", AtomNetWMWindowType, "error", err)
		return Window{}, false
	}
	desktopAtom, found, err := c.FindAtom(AtomNetWMWindowTypeDesktop)
	if err != nil || !found {
		c.log.Debug("desktop type atom unavailable", "atom", AtomNetWMWindowTypeDesktop, "error", err)
		return Window{}, false
	}
	return c.searchDesktop(root, typeAtom, desktopAtom)
}

func (c *Connection) searchDesktop(win Window, typeAtom, desktopAtom xproto.Atom) (Window, bool) {
	prop, err := win.GetProperty(typeAtom)
	if err != nil {
		c.log.Warn("failed to read window type", "window", win.ID, "error", err)
	} else if v, isAtom := prop.Value.(AtomValue); isAtom && xproto.Atom(v) == desktopAtom {
		return win, true
	}

	children, err := win.Children()
	if err != nil {
		c.log.Warn("failed to list children", "window", win.ID, "error", err)
		return Window{}, false
	}
	for _, child := range children {
		if found, ok := c.searchDesktop(child, typeAtom, desktopAtom); ok {
			return found, true
		}
	}
	return Window{}, false
}
