package estimator

import (
	"math"
	"math/bits"
	"path"
)

const (
	// VanillaBackgroundWidth is the texture width of the game's own
	// background. Only wider backgrounds add VRAM.
	VanillaBackgroundWidth = 2048
	// VanillaBackgroundBytes is the always-resident vanilla background.
	VanillaBackgroundBytes int64 = 12582912
)

// RoundDimension returns the smallest power of two >= d, with 1 for d <= 1.
func RoundDimension(d int) int {
	if d <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(d-1))
}

// Multiplier is the mipmap overhead for a category.
func Multiplier(c Category) float64 {
	if c == CategoryBackground {
		return 1
	}
	return 4.0 / 3.0
}

// BytesUsed is the allocated texture size of rounded dimensions with the
// given per-channel bit depths. Backgrounds yield only their excess over the
// vanilla background, never less than zero. The result is the ceiling of the
// exact rational value; no floating point is involved. Sizes that do not fit
// in an int64 saturate at math.MaxInt64.
func BytesUsed(textureWidth, textureHeight int, c Category, channelBits []int) int64 {
	sum := 0
	for _, b := range channelBits {
		sum += b
	}
	if textureWidth <= 0 || textureHeight <= 0 || sum <= 0 {
		return 0
	}

	var factors []uint64
	var den uint64
	if c == CategoryBackground {
		factors, den = []uint64{uint64(textureWidth), uint64(textureHeight), uint64(sum)}, 8
	} else {
		factors, den = []uint64{uint64(textureWidth), uint64(textureHeight), uint64(sum), 4}, 8*3
	}
	num, ok := mulAll(factors)
	if !ok {
		return math.MaxInt64
	}
	if c == CategoryBackground {
		vanilla := uint64(8 * VanillaBackgroundBytes)
		if num <= vanilla {
			return 0
		}
		num -= vanilla
	}
	return int64((num + den - 1) / den)
}

// mulAll multiplies factors, reporting false when the product, plus room
// for the ceiling division, leaves the int64 range.
func mulAll(factors []uint64) (uint64, bool) {
	product := uint64(1)
	for _, f := range factors {
		hi, lo := bits.Mul64(product, f)
		if hi != 0 || lo > math.MaxInt64 {
			return 0, false
		}
		product = lo
	}
	return product, true
}

// addBytes adds byte counts, saturating at math.MaxInt64.
func addBytes(a, b int64) int64 {
	if b > 0 && a > math.MaxInt64-b {
		return math.MaxInt64
	}
	return a + b
}

// NewImageAsset derives the texture fields of an image. Texture height is
// rounded from the pixel width and texture width from the pixel height; the
// numbers it produces depend on that pairing.
func NewImageAsset(relPath string, width, height int, channelBits []int, c Category) ImageAsset {
	a := ImageAsset{
		RelPath:       relPath,
		Name:          path.Base(relPath),
		Width:         width,
		Height:        height,
		ChannelBits:   channelBits,
		Category:      c,
		TextureHeight: RoundDimension(width),
		TextureWidth:  RoundDimension(height),
		Multiplier:    Multiplier(c),
	}
	a.BytesUsed = BytesUsed(a.TextureWidth, a.TextureHeight, c, channelBits)
	return a
}
