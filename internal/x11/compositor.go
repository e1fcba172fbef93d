package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
)

// CompositorStatus represents the detected compositor state.
type CompositorStatus int

const (
	// CompositorUnknown means the selection owner could not be queried.
	CompositorUnknown CompositorStatus = iota
	// CompositorActive means a compositing manager owns _NET_WM_CM_Sn.
	CompositorActive
	// CompositorInactive means nobody owns _NET_WM_CM_Sn; alpha will not blend.
	CompositorInactive
)

func (cs CompositorStatus) String() string {
	switch cs {
	case CompositorActive:
		return "active"
	case CompositorInactive:
		return "inactive"
	default:
		return "unknown"
	}
}

// DetectCompositor checks the EWMH compositing manager selection
// _NET_WM_CM_S<screen>. An atom the server has never seen means no
// compositor ever claimed it.
func (c *Connection) DetectCompositor() CompositorStatus {
	name := fmt.Sprintf("_NET_WM_CM_S%d", c.screen)
	atom, ok, err := c.FindAtom(name)
	if err != nil {
		return CompositorUnknown
	}
	if !ok {
		return CompositorInactive
	}

	owner, err := c.server.SelectionOwner(atom)
	if err != nil {
		return CompositorUnknown
	}
	if owner == xproto.WindowNone {
		return CompositorInactive
	}
	return CompositorActive
}
