package dedup

import (
	"jobscout/internal/ledger"
	"jobscout/internal/model"
)

// FilterNew keeps only jobs that are relevant and have never been dispatched:
// the fingerprint must be absent from the ledger, and within the run the
// first job wins on a fingerprint collision (the same posting scraped from
// two sources). The ledger itself is never mutated here — commitment happens
// only after confirmed delivery.
func FilterNew(jobs []model.StructuredJob, led *ledger.Ledger) []model.StructuredJob {
	seen := make(map[string]bool, len(jobs))
	var out []model.StructuredJob
	for _, j := range jobs {
		if !j.IsRelevant {
			continue
		}
		if seen[j.Fingerprint] {
			continue
		}
		if led.Has(j.Fingerprint) {
			continue
		}
		seen[j.Fingerprint] = true
		out = append(out, j)
	}
	return out
}
