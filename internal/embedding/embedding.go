package embedding

import (
	"math"
	"strconv"
	"strings"
)

// Record is a page URL with its decoded embedding vector.
type Record struct {
	URL    string
	Vector []float64
}

// Decode parses a comma-separated list of numbers into a vector.
// Tokens are trimmed of surrounding whitespace. Returns ok=false for empty
// input or when any token is not a finite 64-bit float.
func Decode(raw string) (vec []float64, ok bool) {
	if strings.TrimSpace(raw) == "" {
		return nil, false
	}
	parts := strings.Split(raw, ",")
	vec = make([]float64, len(parts))
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, false
		}
		vec[i] = f
	}
	return vec, true
}

// DecodeAll decodes every (url, raw) pair in order and drops the ones that
// fail to decode. The returned slice preserves input order.
func DecodeAll(urls, raws []string) []Record {
	records := make([]Record, 0, len(urls))
	for i, u := range urls {
		vec, ok := Decode(raws[i])
		if !ok {
			continue
		}
		records = append(records, Record{URL: u, Vector: vec})
	}
	return records
}
