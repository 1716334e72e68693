package engagement

import "encoding/json"

// EncodeCounts serializes a count map for durable session storage.
func EncodeCounts(counts map[InteractionType]int) ([]byte, error) {
	return json.Marshal(counts)
}

// DecodeCounts deserializes a persisted count map. Absent or corrupt input
// degrades to an empty map; reads never fail.
func DecodeCounts(data []byte) map[InteractionType]int {
	if len(data) == 0 {
		return map[InteractionType]int{}
	}
	var counts map[InteractionType]int
	if err := json.Unmarshal(data, &counts); err != nil || counts == nil {
		return map[InteractionType]int{}
	}
	for it, n := range counts {
		if n < 0 {
			counts[it] = 0
		}
	}
	return counts
}

// EncodeShown serializes the shown-section list for durable session storage.
func EncodeShown(shown []string) ([]byte, error) {
	if shown == nil {
		shown = []string{}
	}
	return json.Marshal(shown)
}

// DecodeShown deserializes a persisted shown-section list, degrading to empty
// on absent or corrupt input.
func DecodeShown(data []byte) []string {
	if len(data) == 0 {
		return nil
	}
	var shown []string
	if err := json.Unmarshal(data, &shown); err != nil {
		return nil
	}
	return shown
}
