package estimator

// TotalAcrossPackages sums counted images over results, counting each dedup
// key once. The first occurrence in iteration order wins.
func TotalAcrossPackages(results []PackageResult) int64 {
	seen := make(map[string]struct{})
	var total int64
	for _, res := range results {
		for _, img := range res.Counted {
			key := img.DedupKey()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			total = addBytes(total, img.BytesUsed)
		}
	}
	return total
}

// ComputeTotals returns the deduplicated totals for all results and for the
// enabled subset.
func ComputeTotals(results []PackageResult) Totals {
	enabled := make([]PackageResult, 0, len(results))
	for _, res := range results {
		if res.Package.Enabled {
			enabled = append(enabled, res)
		}
	}
	return Totals{
		All:     TotalAcrossPackages(results),
		Enabled: TotalAcrossPackages(enabled),
	}
}
