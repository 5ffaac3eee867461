package extract

import "jobscout/internal/model"

// splitBatches packs listings greedily into batches whose combined raw text
// stays under budget characters. Splitting defers listings to another call
// instead of truncating them away: a single listing larger than the whole
// budget still becomes its own one-listing batch and gets its own request.
func splitBatches(listings []model.RawListing, budget int) [][]model.RawListing {
	if len(listings) == 0 {
		return nil
	}
	if budget <= 0 {
		return [][]model.RawListing{listings}
	}

	var batches [][]model.RawListing
	var current []model.RawListing
	size := 0

	for _, l := range listings {
		n := len(l.RawText)
		if len(current) > 0 && size+n > budget {
			batches = append(batches, current)
			current = nil
			size = 0
		}
		current = append(current, l)
		size += n
	}
	if len(current) > 0 {
		batches = append(batches, current)
	}
	return batches
}
