package glx

import "github.com/BurntSushi/xgb/xproto"

type fakeDriver struct {
	configs   []FBConfig
	chooseErr error
	masks     map[FBConfig]uint16
	noVisual  map[FBConfig]bool

	extensions string
	createErrs []ErrorEvent
	handle     ContextHandle
	indirect   bool
	panicOn    string

	lastAttribs   []int32
	freed         []Visual
	sinkInstalled bool
	installs      int
	restores      int
	syncs         int
	acquires      int
	releases      int
	swaps         int
	destroyed     []ContextHandle
	failCurrent   bool

	sink func(ErrorEvent)
}

func newFakeDriver(configs ...FBConfig) *fakeDriver {
	return &fakeDriver{
		configs:    configs,
		masks:      map[FBConfig]uint16{},
		noVisual:   map[FBConfig]bool{},
		extensions: "GLX_ARB_multisample " + ExtCreateContext + " GLX_EXT_visual_info",
		handle:     0xc0ffee,
	}
}

func (f *fakeDriver) ChooseFBConfigs(_ int, attribs []int32) ([]FBConfig, error) {
	f.lastAttribs = attribs
	return f.configs, f.chooseErr
}

func (f *fakeDriver) VisualFromFBConfig(cfg FBConfig) (Visual, bool) {
	if f.noVisual[cfg] {
		return Visual{}, false
	}
	return Visual{Handle: uintptr(cfg) + 0x1000, ID: xproto.Visualid(cfg), Depth: 32}, true
}

func (f *fakeDriver) AlphaMask(v Visual) uint16 { return f.masks[FBConfig(v.ID)] }

func (f *fakeDriver) FreeVisual(v Visual) { f.freed = append(f.freed, v) }

func (f *fakeDriver) Extensions(int) string { return f.extensions }

func (f *fakeDriver) InstallErrorSink(sink func(ErrorEvent)) func() {
	f.installs++
	f.sinkInstalled = true
	f.sink = sink
	return func() {
		f.restores++
		f.sinkInstalled = false
		f.sink = nil
	}
}

func (f *fakeDriver) CreateContextAttribs(_ FBConfig, attribs []int32) ContextHandle {
	if f.panicOn == "create" {
		panic("driver crashed")
	}
	f.lastAttribs = attribs
	return f.handle
}

// Sync delivers queued X errors the way XSync flushes them to the handler.
func (f *fakeDriver) Sync() {
	f.syncs++
	if f.sink == nil {
		return
	}
	for _, ev := range f.createErrs {
		f.sink(ev)
	}
}

func (f *fakeDriver) IsDirect(ContextHandle) bool { return !f.indirect }

func (f *fakeDriver) MakeCurrent(drawable xproto.Window, ctx ContextHandle) bool {
	if ctx == 0 {
		f.releases++
		return true
	}
	if f.failCurrent {
		return false
	}
	f.acquires++
	return true
}

func (f *fakeDriver) SwapBuffers(xproto.Window) { f.swaps++ }

func (f *fakeDriver) DestroyContext(ctx ContextHandle) { f.destroyed = append(f.destroyed, ctx) }

func (f *fakeDriver) ProcAddress(string) uintptr { return 0 }

func (f *fakeDriver) Close() {}
