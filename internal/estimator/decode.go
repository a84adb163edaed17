package estimator

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"vramcounter/pkg/imgutil"
)

// MaxDimension bounds the pixel width and height accepted from a file.
// Larger declared sizes are treated as corrupt.
const MaxDimension = 1 << 16

var (
	errNotImage = errors.New("not a recognised image format")
	errTooLarge = errors.New("image dimensions exceed limit")
)

type probe struct {
	Width       int
	Height      int
	ChannelBits []int
}

// probeImage reads the dimensions and channel depths of an image file and,
// unless headersOnly is set, decodes the pixel data so truncated or corrupt
// files are rejected.
func probeImage(f io.ReadSeeker, headersOnly bool) (probe, error) {
	kind, err := imgutil.SniffReader(f)
	if err != nil {
		return probe{}, err
	}
	if kind == imgutil.KindUnknown {
		return probe{}, errNotImage
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return probe{}, err
	}

	var p probe
	if kind == imgutil.KindPNG {
		h, err := scanPNGHeader(f)
		if err != nil {
			return probe{}, err
		}
		bits, err := h.ChannelBits()
		if err != nil {
			return probe{}, err
		}
		p = probe{Width: h.Width, Height: h.Height, ChannelBits: bits}
	} else {
		cfg, _, err := image.DecodeConfig(f)
		if err != nil {
			return probe{}, err
		}
		p = probe{Width: cfg.Width, Height: cfg.Height, ChannelBits: modelChannelBits(cfg.ColorModel)}
	}
	if p.Width > MaxDimension || p.Height > MaxDimension {
		return probe{}, fmt.Errorf("%w: %dx%d", errTooLarge, p.Width, p.Height)
	}
	if headersOnly {
		return p, nil
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return probe{}, err
	}
	img, _, err := image.Decode(f)
	if err != nil {
		return probe{}, err
	}
	// GIF transparency is only known once the graphic control extension
	// has been applied to the decoded palette.
	if kind != imgutil.KindPNG {
		p.ChannelBits = modelChannelBits(img.ColorModel())
	}
	return p, nil
}

func probeFile(path string, headersOnly bool) (probe, error) {
	f, err := os.Open(path)
	if err != nil {
		return probe{}, err
	}
	defer f.Close()
	return probeImage(f, headersOnly)
}

// modelChannelBits maps a decoder's colour model to per-component sizes.
func modelChannelBits(m color.Model) []int {
	switch m {
	case color.GrayModel, color.AlphaModel:
		return []int{8}
	case color.Gray16Model, color.Alpha16Model:
		return []int{16}
	case color.YCbCrModel:
		return []int{8, 8, 8}
	case color.RGBA64Model, color.NRGBA64Model:
		return []int{16, 16, 16, 16}
	case color.RGBAModel, color.NRGBAModel, color.NYCbCrAModel, color.CMYKModel:
		return []int{8, 8, 8, 8}
	}
	if p, ok := m.(color.Palette); ok {
		for _, c := range p {
			if _, _, _, a := c.RGBA(); a != 0xffff {
				return []int{8, 8, 8, 8}
			}
		}
		return []int{8, 8, 8}
	}
	return []int{8, 8, 8, 8}
}
