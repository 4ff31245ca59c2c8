// Package landuse maps ALKIS building function codes (GFK) to the
// land-use labels consumed by CityScope.
package landuse

import "sort"

// Fallback labels returned when a code has no exact table entry.
const (
	Residential = "residential"
	Commercial  = "commercial"
	Industrial  = "industrial"
	PublicUse   = "public use"
	Unknown     = "unknown"
)

// Classify returns the land-use label for an ALKIS building function code.
// An exact table entry always wins; otherwise the code is placed by range.
// Every input yields a label, codes in the gaps between ranges yield Unknown.
func Classify(code int) string {
	if label, ok := alkisTranslations[code]; ok {
		return label
	}
	return classifyRange(code)
}

// classifyRange places a code without table entry into its coarse range.
func classifyRange(code int) string {
	switch {
	case code <= 1024:
		return Residential
	case code < 2100:
		return Commercial
	case code <= 2200:
		return Industrial
	case code >= 3000:
		return PublicUse
	default:
		return Unknown
	}
}

// Lookup returns the exact table label for code, without range fallback.
func Lookup(code int) (string, bool) {
	label, ok := alkisTranslations[code]
	return label, ok
}

// IsFallback reports whether label is the result of a classification gap.
// A gap is a valid outcome, not an error.
func IsFallback(label string) bool {
	return label == Unknown
}

// Codes returns every code with an exact table entry in ascending order.
func Codes() []int {
	codes := make([]int, 0, len(alkisTranslations))
	for code := range alkisTranslations {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	return codes
}

// Categories returns the sorted set of labels Classify can produce.
func Categories() []string {
	seen := map[string]struct{}{
		Residential: {},
		Commercial:  {},
		Industrial:  {},
		PublicUse:   {},
		Unknown:     {},
	}
	for _, label := range alkisTranslations {
		seen[label] = struct{}{}
	}

	labels := make([]string, 0, len(seen))
	for label := range seen {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}
