package matching

import "strings"

// GenerateSlugs builds the candidate marketplace slugs for a vehicle.
// Make and model are joined by "-", model and trim by "_". The most
// specific combination comes first.
func GenerateSlugs(makeName, model, trim string) []string {
	mk := slugToken(makeName)
	md := strings.ReplaceAll(slugToken(model), "-", "_")
	tr := slugToken(trim)

	var combinations []string
	switch {
	case mk != "" && md != "" && tr != "":
		combinations = []string{
			mk + "-" + md + "_" + tr,
			mk + "-" + md,
			mk + "-" + tr,
		}
	case mk != "" && md != "":
		combinations = []string{mk + "-" + md}
	case mk != "" && tr != "":
		combinations = []string{mk + "-" + tr}
	case mk != "":
		combinations = []string{mk}
	case md != "" && tr != "":
		combinations = []string{md + "_" + tr, md}
	case md != "":
		combinations = []string{md}
	case tr != "":
		combinations = []string{tr}
	}

	return dedupe(combinations)
}

// MakeSlug returns the marketplace form of a make name
func MakeSlug(makeName string) string {
	return slugToken(makeName)
}

func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
