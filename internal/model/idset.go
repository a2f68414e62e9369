package model

import "sort"

// IDSet is the set of item IDs known for one source.
type IDSet map[string]struct{}

func NewIDSet(ids ...string) IDSet {
	out := make(IDSet, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}

func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Sorted returns the IDs in lexical order, for stable persistence.
func (s IDSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// CollectIDs builds the ID set of a fetch result.
func CollectIDs(items []ExternalItem) IDSet {
	out := make(IDSet, len(items))
	for _, item := range items {
		out[item.ID] = struct{}{}
	}
	return out
}
