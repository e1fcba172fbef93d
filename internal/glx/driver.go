// Package glx binds OpenGL rendering to X11 windows through GLX.
//
// The GLX and Xlib entry points sit behind the Driver interface so config
// selection and the per-frame guard can run against a test double.
package glx

import "github.com/BurntSushi/xgb/xproto"

// GLX attribute names and values used when choosing a framebuffer config.
const (
	AttrXRenderable  = 0x8012
	AttrDrawableType = 0x8010
	AttrRenderType   = 0x8011
	AttrXVisualType  = 0x22
	AttrRedSize      = 8
	AttrGreenSize    = 9
	AttrBlueSize     = 10
	AttrAlphaSize    = 11
	AttrDepthSize    = 12
	AttrStencilSize  = 13
	AttrDoubleBuffer = 5

	WindowBit = 0x00000001
	RGBABit   = 0x00000001
	TrueColor = 0x8002

	ContextMajorVersionARB = 0x2091
	ContextMinorVersionARB = 0x2092
)

// ExtCreateContext is required to request a versioned context.
const ExtCreateContext = "GLX_ARB_create_context"

// FBConfig is an opaque driver framebuffer configuration handle.
type FBConfig uintptr

// ContextHandle is an opaque driver rendering context handle.
type ContextHandle uintptr

// Visual is the X visual derived from a framebuffer config. Handle is owned
// by the driver and must be released with Driver.FreeVisual.
type Visual struct {
	Handle uintptr
	ID     xproto.Visualid
	Depth  byte
}

// ErrorEvent is an asynchronous X error reported through Xlib.
type ErrorEvent struct {
	Code    byte
	Request byte
	Minor   byte
}

// Driver is the subset of Xlib, XRender and GLX that backdrop uses.
type Driver interface {
	// ChooseFBConfigs returns matching configs in driver order.
	ChooseFBConfigs(screen int, attribs []int32) ([]FBConfig, error)
	VisualFromFBConfig(cfg FBConfig) (Visual, bool)
	// AlphaMask is the render-pict-format alpha mask of the visual, 0 when
	// the visual has no alpha channel or no pict format.
	AlphaMask(v Visual) uint16
	FreeVisual(v Visual)

	Extensions(screen int) string
	// InstallErrorSink routes asynchronous X errors to sink until the
	// returned restore func runs.
	InstallErrorSink(sink func(ErrorEvent)) (restore func())
	CreateContextAttribs(cfg FBConfig, attribs []int32) ContextHandle
	IsDirect(ctx ContextHandle) bool
	MakeCurrent(drawable xproto.Window, ctx ContextHandle) bool
	SwapBuffers(drawable xproto.Window)
	DestroyContext(ctx ContextHandle)
	// ProcAddress resolves a GL entry point for the current context.
	ProcAddress(name string) uintptr

	Sync()
	Close()
}
