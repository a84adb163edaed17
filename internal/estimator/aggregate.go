package estimator

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"vramcounter/internal/config"
	"vramcounter/internal/progress"
)

// Aggregate reduces one package's images to the set that occupies VRAM and
// sums it. Unused images are dropped, at most one background (the largest
// wider than vanilla) survives, and images named by excl are dropped.
func Aggregate(pkg Package, images []ImageAsset, excl Exclusions, cfg config.Effective, log *progress.Log) PackageResult {
	kept := make([]ImageAsset, 0, len(images))
	var unused []ImageAsset
	for _, img := range images {
		if img.Category == CategoryUnused {
			unused = append(unused, img)
			continue
		}
		kept = append(kept, img)
	}
	if cfg.ShowSkippedFiles && len(unused) > 0 {
		log.Println("Skipping unused files")
		for _, img := range unused {
			log.Printf("  %s", pkg.DisplayPath(img.RelPath))
		}
	}

	largest := -1
	for i, img := range kept {
		if img.Category != CategoryBackground || img.TextureWidth <= VanillaBackgroundWidth {
			continue
		}
		if largest < 0 || img.BytesUsed > kept[largest].BytesUsed {
			largest = i
		}
	}
	var dropped []ImageAsset
	remaining := make([]ImageAsset, 0, len(kept))
	for i, img := range kept {
		if img.Category == CategoryBackground && i != largest {
			dropped = append(dropped, img)
			continue
		}
		remaining = append(remaining, img)
	}
	kept = remaining
	if cfg.ShowSkippedFiles && len(dropped) > 0 {
		log.Println("Skipping backgrounds that are not larger than vanilla and/or not the mod's largest background.")
		for _, img := range dropped {
			log.Printf("   %s", pkg.DisplayPath(img.RelPath))
		}
	}

	counted := kept
	if excl.Found {
		set := excl.Set()
		counted = make([]ImageAsset, 0, len(kept))
		for _, img := range kept {
			if _, ok := set[normalizeRelPath(img.RelPath)]; ok {
				if cfg.ShowGfxLibDebugOutput {
					log.Printf("Not counting %s, its GraphicsLib map type is disabled", pkg.DisplayPath(img.RelPath))
				}
				continue
			}
			counted = append(counted, img)
		}
	}

	var total int64
	for _, img := range counted {
		total = addBytes(total, img.BytesUsed)
		if cfg.ShowCountedFiles {
			log.Println(describe(pkg, img))
		}
	}

	return PackageResult{
		Package:    pkg,
		Images:     images,
		Counted:    counted,
		Exclusions: excl,
		TotalBytes: total,
	}
}

func describe(pkg Package, img ImageAsset) string {
	sum := 0
	for _, b := range img.ChannelBits {
		sum += b
	}
	return fmt.Sprintf("%s - TexHeight: %d, TexWidth: %d, Channels: %v, Mult: %.2f\n"+
		"   --> %d * %d * (%d / 8) * %.2f = %s bytes added over vanilla",
		pkg.DisplayPath(img.RelPath), img.TextureHeight, img.TextureWidth, img.ChannelBits, img.Multiplier,
		img.TextureHeight, img.TextureWidth, sum, img.Multiplier, humanize.Comma(img.BytesUsed))
}
