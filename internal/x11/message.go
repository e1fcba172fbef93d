package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
)

// EWMH _NET_WM_STATE actions.
const (
	StateRemove uint32 = 0
	StateAdd    uint32 = 1
	StateToggle uint32 = 2
)

// ClientMessage is a 32-bit format client message.
type ClientMessage struct {
	Window xproto.Window
	Type   xproto.Atom
	Format byte
	Data   [5]uint32
}

// SendClientMessage sends msg to dest with the substructure masks window
// managers listen on. The request is checked locally; the window manager's
// reaction is not observable.
func (c *Connection) SendClientMessage(dest Window, msg ClientMessage) error {
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: msg.Window,
		Type:   msg.Type,
		Data:   xproto.ClientMessageDataUnionData32New(msg.Data[:]),
	}

	err := c.server.SendEvent(
		dest.ID,
		xproto.EventMaskSubstructureRedirect|xproto.EventMaskSubstructureNotify,
		ev.Bytes(),
	)
	if err != nil {
		return fmt.Errorf("failed to send client message to window %d: %w", dest.ID, err)
	}
	return c.server.Flush()
}

// StateRequest builds the standard "_NET_WM_STATE" request for win.
// second may be zero.
func StateRequest(win xproto.Window, stateAtom xproto.Atom, action uint32, first, second xproto.Atom) ClientMessage {
	return ClientMessage{
		Window: win,
		Type:   stateAtom,
		Format: 32,
		Data:   [5]uint32{action, uint32(first), uint32(second), 0, 0},
	}
}
