package glx

import (
	"errors"
	"fmt"
)

// ErrNoAlphaConfig is returned when no matching framebuffer config has a
// visual with an alpha channel.
var ErrNoAlphaConfig = errors.New("no framebuffer config with an alpha channel")

// FBConfigAttribs is the zero-terminated attribute list used to choose
// a double-buffered 32-bit RGBA window config.
var FBConfigAttribs = []int32{
	AttrXRenderable, 1,
	AttrDrawableType, WindowBit,
	AttrRenderType, RGBABit,
	AttrXVisualType, TrueColor,
	AttrRedSize, 8,
	AttrGreenSize, 8,
	AttrBlueSize, 8,
	AttrAlphaSize, 8,
	AttrDepthSize, 16,
	AttrStencilSize, 8,
	AttrDoubleBuffer, 1,
	0,
}

// Choice is a framebuffer config and its visual. The caller owns Visual
// and frees it with Driver.FreeVisual.
type Choice struct {
	Config FBConfig
	Visual Visual
	Index  int
}

// ChooseAlphaConfig returns the first config, in driver order, whose visual
// carries a non-zero alpha mask. Visuals of rejected candidates are freed
// before moving on.
func ChooseAlphaConfig(d Driver, screen int) (Choice, error) {
	configs, err := d.ChooseFBConfigs(screen, FBConfigAttribs)
	if err != nil {
		return Choice{}, fmt.Errorf("choose fbconfig: %w", err)
	}
	for i, cfg := range configs {
		vis, ok := d.VisualFromFBConfig(cfg)
		if !ok {
			continue
		}
		if d.AlphaMask(vis) == 0 {
			d.FreeVisual(vis)
			continue
		}
		return Choice{Config: cfg, Visual: vis, Index: i}, nil
	}
	return Choice{}, ErrNoAlphaConfig
}

// ConfigInfo describes one candidate config for diagnostics.
type ConfigInfo struct {
	Index     int    `json:"index"`
	VisualID  uint32 `json:"visual_id"`
	Depth     int    `json:"depth"`
	AlphaMask uint16 `json:"alpha_mask"`
	Usable    bool   `json:"usable"`
}

// ListConfigs reports every config matching FBConfigAttribs along with
// whether ChooseAlphaConfig would accept it.
func ListConfigs(d Driver, screen int) ([]ConfigInfo, error) {
	configs, err := d.ChooseFBConfigs(screen, FBConfigAttribs)
	if err != nil {
		return nil, fmt.Errorf("choose fbconfig: %w", err)
	}
	infos := make([]ConfigInfo, 0, len(configs))
	for i, cfg := range configs {
		vis, ok := d.VisualFromFBConfig(cfg)
		if !ok {
			infos = append(infos, ConfigInfo{Index: i})
			continue
		}
		mask := d.AlphaMask(vis)
		infos = append(infos, ConfigInfo{
			Index:     i,
			VisualID:  uint32(vis.ID),
			Depth:     int(vis.Depth),
			AlphaMask: mask,
			Usable:    mask != 0,
		})
		d.FreeVisual(vis)
	}
	return infos, nil
}
