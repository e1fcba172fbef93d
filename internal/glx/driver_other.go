//go:build !linux

package glx

import (
	"errors"

	"github.com/BurntSushi/xgb/xproto"
)

var errUnsupported = errors.New("glx: only supported on linux")

// XlibDriver is unavailable off linux; Open always fails.
type XlibDriver struct{}

func Open(string) (*XlibDriver, error) { return nil, errUnsupported }

func (*XlibDriver) ChooseFBConfigs(int, []int32) ([]FBConfig, error) { return nil, errUnsupported }
func (*XlibDriver) VisualFromFBConfig(FBConfig) (Visual, bool) { return Visual{}, false }
func (*XlibDriver) AlphaMask(Visual) uint16 { return 0 }
func (*XlibDriver) FreeVisual(Visual) {}
func (*XlibDriver) Extensions(int) string { return "" }
func (*XlibDriver) InstallErrorSink(func(ErrorEvent)) func() { return func() {} }
func (*XlibDriver) CreateContextAttribs(FBConfig, []int32) ContextHandle { return 0 }
func (*XlibDriver) IsDirect(ContextHandle) bool { return false }
func (*XlibDriver) MakeCurrent(xproto.Window, ContextHandle) bool { return false }
func (*XlibDriver) SwapBuffers(xproto.Window) {}
func (*XlibDriver) DestroyContext(ContextHandle) {}
func (*XlibDriver) ProcAddress(string) uintptr { return 0 }
func (*XlibDriver) Sync() {}
func (*XlibDriver) Close() {}
