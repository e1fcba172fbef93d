package glx

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
)

var (
	ErrMissingExtension = errors.New("missing GLX extension")
	ErrContextCreate    = errors.New("create GL context")
	ErrIndirect         = errors.New("indirect rendering context")
	ErrMakeCurrent      = errors.New("make context current")
)

// Version is a requested GL context version.
type Version struct {
	Major int
	Minor int
}

func (v Version) String() string { return fmt.Sprintf("%d.%d", v.Major, v.Minor) }

// CreateError reports an X error raised while the context was created.
type CreateError struct {
	Event ErrorEvent
}

func (e *CreateError) Error() string {
	return fmt.Sprintf("X error %d (request %d.%d) during context creation", e.Event.Code, e.Event.Request, e.Event.Minor)
}

func (e *CreateError) Unwrap() error { return ErrContextCreate }

// Context is a direct GL context bound to one window.
type Context struct {
	driver   Driver
	handle   ContextHandle
	drawable xproto.Window
	log      *slog.Logger

	// checkGL reports the pending GL error, if any, after each frame body.
	checkGL func() error

	destroyOnce sync.Once
}

// HasExtension reports whether name appears in the screen's GLX extension
// string as a whole word.
func HasExtension(d Driver, screen int, name string) bool {
	for _, ext := range strings.Fields(d.Extensions(screen)) {
		if ext == name {
			return true
		}
	}
	return false
}

// CreateContext requests a direct context of the given version for drawable.
// Asynchronous X errors raised by the request are collected by an error sink
// that exists only for the duration of the call.
func CreateContext(d Driver, screen int, cfg FBConfig, drawable xproto.Window, version Version, logger *slog.Logger) (*Context, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if !HasExtension(d, screen, ExtCreateContext) {
		return nil, fmt.Errorf("%w: %s", ErrMissingExtension, ExtCreateContext)
	}

	attribs := []int32{
		ContextMajorVersionARB, int32(version.Major),
		ContextMinorVersionARB, int32(version.Minor),
		0,
	}

	var handle ContextHandle
	first := withErrorSink(d, func() {
		handle = d.CreateContextAttribs(cfg, attribs)
	})
	if first != nil {
		if handle != 0 {
			d.DestroyContext(handle)
		}
		return nil, &CreateError{Event: *first}
	}
	if handle == 0 {
		return nil, fmt.Errorf("%w: driver returned no context for GL %s", ErrContextCreate, version)
	}
	if !d.IsDirect(handle) {
		d.DestroyContext(handle)
		return nil, ErrIndirect
	}

	logger.Info("gl context created", "version", version.String(), "drawable", drawable)
	return &Context{driver: d, handle: handle, drawable: drawable, log: logger}, nil
}

// SetErrorCheck installs the GL error probe run after each frame body.
func (c *Context) SetErrorCheck(check func() error) {
	c.checkGL = check
}

// withErrorSink runs fn with asynchronous X errors routed to a private sink,
// syncs so errors raised by fn are delivered, and returns the first one. The
// sink is removed even when fn panics.
func withErrorSink(d Driver, fn func()) *ErrorEvent {
	var first *ErrorEvent
	restore := d.InstallErrorSink(func(ev ErrorEvent) {
		if first == nil {
			first = &ev
		}
	})
	defer restore()
	fn()
	d.Sync()
	return first
}

// Bind makes the context current without a swap. It is used for one-off
// resource setup and teardown; callers must pair it with Release. X errors
// raised by the bind, such as a drawable that no longer exists, are returned
// instead of reaching Xlib's default handler.
func (c *Context) Bind() error {
	var ok bool
	ev := withErrorSink(c.driver, func() {
		ok = c.driver.MakeCurrent(c.drawable, c.handle)
	})
	if ev != nil {
		if ok {
			c.driver.MakeCurrent(0, 0)
		}
		return fmt.Errorf("%w: X error %d (request %d.%d)", ErrMakeCurrent, ev.Code, ev.Request, ev.Minor)
	}
	if !ok {
		return ErrMakeCurrent
	}
	return nil
}

// Release detaches the context from the calling thread.
func (c *Context) Release() {
	c.driver.MakeCurrent(0, 0)
}

// Frame makes the context current, runs draw, checks for GL errors, then
// swaps buffers and releases the context. Swap and release run exactly once
// per successful acquire, including when draw fails or panics.
func (c *Context) Frame(draw func() error) (err error) {
	if !c.driver.MakeCurrent(c.drawable, c.handle) {
		return ErrMakeCurrent
	}
	defer func() {
		c.driver.SwapBuffers(c.drawable)
		c.driver.MakeCurrent(0, 0)
	}()

	if err := draw(); err != nil {
		return err
	}
	if c.checkGL != nil {
		return c.checkGL()
	}
	return nil
}

// Destroy releases the context. Later calls do nothing.
func (c *Context) Destroy() {
	c.destroyOnce.Do(func() {
		c.driver.DestroyContext(c.handle)
		c.log.Debug("gl context destroyed")
	})
}
