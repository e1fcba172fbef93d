//go:build linux

package glx

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/ebitengine/purego"
)

type xVisualInfo struct {
	Visual       uintptr
	VisualID     uint
	Screen       int32
	Depth        int32
	Class        int32
	RedMask      uint64
	GreenMask    uint64
	BlueMask     uint64
	ColormapSize int32
	BitsPerRGB   int32
}

type xRenderPictFormat struct {
	ID        uint64
	Type      int32
	Depth     int32
	Red       int16
	RedMask   int16
	Green     int16
	GreenMask int16
	Blue      int16
	BlueMask  int16
	Alpha     int16
	AlphaMask int16
	Colormap  uint64
}

type xErrorEvent struct {
	Type        int32
	_           int32
	Display     uintptr
	ResourceID  uintptr
	Serial      uint64
	ErrorCode   uint8
	RequestCode uint8
	MinorCode   uint8
}

var (
	loadOnce sync.Once
	loadErr  error

	xOpenDisplay             func(*byte) uintptr
	xCloseDisplay            func(uintptr) int32
	xSync                    func(uintptr, int32) int32
	xFree                    func(unsafe.Pointer) int32
	xSetErrorHandler         func(uintptr) uintptr
	xRenderFindVisualFormat  func(uintptr, uintptr) *xRenderPictFormat
	glxChooseFBConfig        func(uintptr, int32, *int32, *int32) *FBConfig
	glxGetVisualFromFBConfig func(uintptr, FBConfig) *xVisualInfo
	glxQueryExtensionsString func(uintptr, int32) string
	glxGetProcAddressARB     func(string) uintptr
	glxIsDirect              func(uintptr, ContextHandle) int32
	glxMakeCurrent           func(uintptr, uintptr, ContextHandle) int32
	glxSwapBuffers           func(uintptr, uintptr)
	glxDestroyContext        func(uintptr, ContextHandle)
	glxCreateContextAttribs  func(uintptr, FBConfig, ContextHandle, int32, *int32) ContextHandle

	// Xlib accepts one C handler per process; it forwards to the sink
	// installed by the current InstallErrorSink call, if any.
	errorHandler uintptr
	activeSink   atomic.Pointer[func(ErrorEvent)]
)

func loadLibs() error {
	loadOnce.Do(func() {
		x11lib, err := purego.Dlopen("libX11.so.6", purego.RTLD_LAZY|purego.RTLD_GLOBAL)
		if err != nil {
			loadErr = fmt.Errorf("load libX11: %w", err)
			return
		}
		xrenderlib, err := purego.Dlopen("libXrender.so.1", purego.RTLD_LAZY|purego.RTLD_GLOBAL)
		if err != nil {
			loadErr = fmt.Errorf("load libXrender: %w", err)
			return
		}
		gllib, err := purego.Dlopen("libGL.so.1", purego.RTLD_LAZY|purego.RTLD_GLOBAL)
		if err != nil {
			loadErr = fmt.Errorf("load libGL: %w", err)
			return
		}

		purego.RegisterLibFunc(&xOpenDisplay, x11lib, "XOpenDisplay")
		purego.RegisterLibFunc(&xCloseDisplay, x11lib, "XCloseDisplay")
		purego.RegisterLibFunc(&xSync, x11lib, "XSync")
		purego.RegisterLibFunc(&xFree, x11lib, "XFree")
		purego.RegisterLibFunc(&xSetErrorHandler, x11lib, "XSetErrorHandler")
		purego.RegisterLibFunc(&xRenderFindVisualFormat, xrenderlib, "XRenderFindVisualFormat")

		purego.RegisterLibFunc(&glxChooseFBConfig, gllib, "glXChooseFBConfig")
		purego.RegisterLibFunc(&glxGetVisualFromFBConfig, gllib, "glXGetVisualFromFBConfig")
		purego.RegisterLibFunc(&glxQueryExtensionsString, gllib, "glXQueryExtensionsString")
		purego.RegisterLibFunc(&glxGetProcAddressARB, gllib, "glXGetProcAddressARB")
		purego.RegisterLibFunc(&glxIsDirect, gllib, "glXIsDirect")
		purego.RegisterLibFunc(&glxMakeCurrent, gllib, "glXMakeCurrent")
		purego.RegisterLibFunc(&glxSwapBuffers, gllib, "glXSwapBuffers")
		purego.RegisterLibFunc(&glxDestroyContext, gllib, "glXDestroyContext")

		errorHandler = purego.NewCallback(func(_ uintptr, ev *xErrorEvent) uintptr {
			if sink := activeSink.Load(); sink != nil && ev != nil {
				(*sink)(ErrorEvent{Code: ev.ErrorCode, Request: ev.RequestCode, Minor: ev.MinorCode})
			}
			return 0
		})
	})
	return loadErr
}

// XlibDriver implements Driver on a dedicated Xlib display connection.
// Window IDs are server-global, so windows created over the xgb
// connection can be drawn to from here.
type XlibDriver struct {
	dpy       uintptr
	visuals   visualTable
	closeOnce sync.Once
}

// visualTable owns the XVisualInfo pointers behind Visual.Handle. Handles
// are only keys; the typed pointer never goes back through a uintptr.
type visualTable struct {
	mu    sync.Mutex
	infos map[uintptr]*xVisualInfo
}

func (t *visualTable) add(info *xVisualInfo) uintptr {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.infos == nil {
		t.infos = make(map[uintptr]*xVisualInfo)
	}
	h := uintptr(unsafe.Pointer(info))
	t.infos[h] = info
	return h
}

func (t *visualTable) get(h uintptr) *xVisualInfo {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.infos[h]
}

// take removes and returns the visual for h, nil if it was never handed out
// or was already freed.
func (t *visualTable) take(h uintptr) *xVisualInfo {
	t.mu.Lock()
	defer t.mu.Unlock()
	info := t.infos[h]
	delete(t.infos, h)
	return info
}

// Open loads libX11, libXrender and libGL and opens display (empty means
// $DISPLAY).
func Open(display string) (*XlibDriver, error) {
	if err := loadLibs(); err != nil {
		return nil, err
	}
	var name *byte
	if display != "" {
		b := append([]byte(display), 0)
		name = &b[0]
	}
	dpy := xOpenDisplay(name)
	if dpy == 0 {
		return nil, errors.New("XOpenDisplay failed")
	}
	d := &XlibDriver{dpy: dpy}

	// glXCreateContextAttribsARB is an extension entry point; resolve it
	// through GLX rather than the symbol table.
	if ptr := glxGetProcAddressARB("glXCreateContextAttribsARB"); ptr != 0 {
		purego.RegisterFunc(&glxCreateContextAttribs, ptr)
	}
	return d, nil
}

func (d *XlibDriver) ChooseFBConfigs(screen int, attribs []int32) ([]FBConfig, error) {
	var n int32
	list := glxChooseFBConfig(d.dpy, int32(screen), &attribs[0], &n)
	if list == nil || n <= 0 {
		return nil, nil
	}
	defer xFree(unsafe.Pointer(list))
	configs := make([]FBConfig, n)
	copy(configs, unsafe.Slice(list, n))
	return configs, nil
}

func (d *XlibDriver) VisualFromFBConfig(cfg FBConfig) (Visual, bool) {
	info := glxGetVisualFromFBConfig(d.dpy, cfg)
	if info == nil {
		return Visual{}, false
	}
	return Visual{
		Handle: d.visuals.add(info),
		ID:     xproto.Visualid(info.VisualID),
		Depth:  byte(info.Depth),
	}, true
}

func (d *XlibDriver) AlphaMask(v Visual) uint16 {
	info := d.visuals.get(v.Handle)
	if info == nil {
		return 0
	}
	format := xRenderFindVisualFormat(d.dpy, info.Visual)
	if format == nil {
		return 0
	}
	return uint16(format.AlphaMask)
}

func (d *XlibDriver) FreeVisual(v Visual) {
	if info := d.visuals.take(v.Handle); info != nil {
		xFree(unsafe.Pointer(info))
	}
}

func (d *XlibDriver) Extensions(screen int) string {
	return glxQueryExtensionsString(d.dpy, int32(screen))
}

func (d *XlibDriver) InstallErrorSink(sink func(ErrorEvent)) func() {
	activeSink.Store(&sink)
	prev := xSetErrorHandler(errorHandler)
	return func() {
		xSetErrorHandler(prev)
		activeSink.Store(nil)
	}
}

func (d *XlibDriver) CreateContextAttribs(cfg FBConfig, attribs []int32) ContextHandle {
	if glxCreateContextAttribs == nil {
		return 0
	}
	return glxCreateContextAttribs(d.dpy, cfg, 0, 1, &attribs[0])
}

func (d *XlibDriver) IsDirect(ctx ContextHandle) bool {
	return glxIsDirect(d.dpy, ctx) != 0
}

func (d *XlibDriver) MakeCurrent(drawable xproto.Window, ctx ContextHandle) bool {
	return glxMakeCurrent(d.dpy, uintptr(drawable), ctx) != 0
}

func (d *XlibDriver) SwapBuffers(drawable xproto.Window) {
	glxSwapBuffers(d.dpy, uintptr(drawable))
}

func (d *XlibDriver) DestroyContext(ctx ContextHandle) {
	glxDestroyContext(d.dpy, ctx)
}

func (d *XlibDriver) ProcAddress(name string) uintptr {
	return glxGetProcAddressARB(name)
}

func (d *XlibDriver) Sync() {
	xSync(d.dpy, 0)
}

// Close closes the Xlib display. Safe to call more than once.
func (d *XlibDriver) Close() {
	d.closeOnce.Do(func() {
		xCloseDisplay(d.dpy)
	})
}
