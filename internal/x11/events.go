package x11

import (
	"github.com/BurntSushi/xgb/xproto"
)

// Event is one of ExposeEvent, KeyEvent, ClientMessage, ConfigureEvent or
// DestroyEvent.
type Event interface {
	isEvent()
}

// ExposeEvent asks for (part of) a window to be redrawn.
type ExposeEvent struct {
	Window xproto.Window
}

// KeyEvent is a raw key press or release.
type KeyEvent struct {
	Window  xproto.Window
	Pressed bool
	Code    xproto.Keycode
	State   uint16
	// Name is the keysym name, empty when it cannot be resolved.
	Name string
}

// ConfigureEvent reports a window's new size or position.
type ConfigureEvent struct {
	Window   xproto.Window
	Geometry Geometry
}

// DestroyEvent reports that a window was destroyed.
type DestroyEvent struct {
	Window xproto.Window
}

func (ExposeEvent) isEvent() {}
func (KeyEvent) isEvent() {}
func (ClientMessage) isEvent() {}
func (ConfigureEvent) isEvent() {}
func (DestroyEvent) isEvent() {}

// PollEvent returns the next queued event without blocking. ok is false
// when the queue is empty. Events backdrop does not handle, and protocol
// errors delivered on the event queue, are logged and skipped.
func (c *Connection) PollEvent() (ev Event, ok bool) {
	for {
		raw, xerr := c.server.PollEvent()
		if raw == nil && xerr == nil {
			return nil, false
		}
		if xerr != nil {
			c.log.Warn("asynchronous X error", "error", xerr.Error(), "code", xgbErrorCode(xerr))
			continue
		}

		switch e := raw.(type) {
		case xproto.ExposeEvent:
			return ExposeEvent{Window: e.Window}, true
		case xproto.KeyPressEvent:
			return KeyEvent{
				Window:  e.Event,
				Pressed: true,
				Code:    e.Detail,
				State:   e.State,
				Name:    c.server.KeyName(e.State, e.Detail),
			}, true
		case xproto.KeyReleaseEvent:
			return KeyEvent{
				Window: e.Event,
				Code:   e.Detail,
				State:  e.State,
				Name:   c.server.KeyName(e.State, e.Detail),
			}, true
		case xproto.ClientMessageEvent:
			msg := ClientMessage{Window: e.Window, Type: e.Type, Format: e.Format}
			if e.Format == 32 {
				copy(msg.Data[:], e.Data.Data32)
			}
			return msg, true
		case xproto.ConfigureNotifyEvent:
			return ConfigureEvent{
				Window:   e.Window,
				Geometry: Geometry{X: e.X, Y: e.Y, Width: e.Width, Height: e.Height},
			}, true
		case xproto.DestroyNotifyEvent:
			return DestroyEvent{Window: e.Window}, true
		default:
			c.log.Debug("dropping unhandled X event", "event", raw.String())
		}
	}
}
