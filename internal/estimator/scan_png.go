package estimator

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

var pngSignature = []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}

const (
	pngColorGray      = 0
	pngColorRGB       = 2
	pngColorPalette   = 3
	pngColorGrayAlpha = 4
	pngColorRGBA      = 6
)

type pngHeader struct {
	Width     int
	Height    int
	BitDepth  int
	ColorType int
	HasTRNS   bool
}

// ChannelBits returns the per-component sizes of the decoded colour model.
// Palette images expand to 8-bit RGB, or RGBA when a tRNS chunk is present.
func (h pngHeader) ChannelBits() ([]int, error) {
	d := h.BitDepth
	switch h.ColorType {
	case pngColorGray:
		return []int{d}, nil
	case pngColorRGB:
		return []int{d, d, d}, nil
	case pngColorPalette:
		if h.HasTRNS {
			return []int{8, 8, 8, 8}, nil
		}
		return []int{8, 8, 8}, nil
	case pngColorGrayAlpha:
		return []int{d, d}, nil
	case pngColorRGBA:
		return []int{d, d, d, d}, nil
	default:
		return nil, fmt.Errorf("unsupported PNG color type %d", h.ColorType)
	}
}

// scanPNGHeader reads IHDR and walks the chunks before the first IDAT
// looking for tRNS.
func scanPNGHeader(r io.Reader) (pngHeader, error) {
	var h pngHeader
	br := bufio.NewReader(r)

	sig := make([]byte, 8)
	if _, err := io.ReadFull(br, sig); err != nil {
		return h, err
	}
	if !bytes.Equal(sig, pngSignature) {
		return h, errors.New("invalid PNG signature")
	}

	first := true
	for {
		lenBuf := make([]byte, 4)
		if _, err := io.ReadFull(br, lenBuf); err != nil {
			if err == io.EOF && !first {
				return h, nil
			}
			return h, err
		}
		length := binary.BigEndian.Uint32(lenBuf)

		chunkType := make([]byte, 4)
		if _, err := io.ReadFull(br, chunkType); err != nil {
			return h, err
		}
		chunkName := string(chunkType)

		if first {
			if chunkName != "IHDR" || length != 13 {
				return h, errors.New("PNG does not start with IHDR")
			}
			data := make([]byte, length)
			if _, err := io.ReadFull(br, data); err != nil {
				return h, err
			}
			if _, err := io.CopyN(io.Discard, br, 4); err != nil {
				return h, err
			}
			h.Width = int(binary.BigEndian.Uint32(data[0:4]))
			h.Height = int(binary.BigEndian.Uint32(data[4:8]))
			h.BitDepth = int(data[8])
			h.ColorType = int(data[9])
			if h.Width <= 0 || h.Height <= 0 {
				return h, fmt.Errorf("invalid PNG dimensions %dx%d", h.Width, h.Height)
			}
			first = false
			continue
		}

		switch chunkName {
		case "tRNS":
			h.HasTRNS = true
		case "IDAT", "IEND":
			return h, nil
		}
		if _, err := io.CopyN(io.Discard, br, int64(length)+4); err != nil {
			return h, err
		}
	}
}
