// Package detector computes which freshly fetched items have not been seen
// in a previous poll of the same source.
package detector

import "github.com/sandeepkv93/paneld/internal/model"

// DetectNew filters current down to the items whose ID is absent from
// previous, preserving fetch order. It is a pure function: an empty previous
// set reports every item as new, and repeated calls with the same arguments
// return the same result.
func DetectNew(current []model.ExternalItem, previous model.IDSet) []model.ExternalItem {
	out := make([]model.ExternalItem, 0, len(current))
	for _, item := range current {
		if previous.Has(item.ID) {
			continue
		}
		out = append(out, item)
	}
	return out
}
