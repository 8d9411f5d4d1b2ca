package service

import (
	"strings"

	"drfind/internal/models"
)

// ComposeQuery builds the search text: the free-text query, or "Doctors"
// when blank, followed by the specialty unless it is "All".
func ComposeQuery(query, specialty string) string {
	text := query
	if strings.TrimSpace(text) == "" {
		text = models.DefaultQueryText
	}
	if specialty == "" || specialty == models.SpecialtyAll {
		return text
	}
	return text + " " + specialty
}

// MatchesSpecialty reports whether the place mentions the specialty in its
// category, name or address line. Case-insensitive.
func MatchesSpecialty(place models.Place, specialty string) bool {
	if specialty == "" || specialty == models.SpecialtyAll {
		return true
	}
	spec := strings.ToLower(specialty)
	return strings.Contains(strings.ToLower(place.CategoryText()), spec) ||
		strings.Contains(strings.ToLower(place.Name), spec) ||
		strings.Contains(strings.ToLower(place.Subtitle), spec)
}

func isHospital(place models.Place) bool {
	name := strings.ToLower(place.Name)
	return strings.Contains(place.CategoryText(), "Hospital") ||
		strings.Contains(name, "hospital") ||
		strings.Contains(name, "medical center")
}

func isDoctor(place models.Place) bool {
	name := strings.ToLower(place.Name)
	return strings.Contains(place.CategoryText(), "Doctor") ||
		strings.Contains(name, "doctor") ||
		strings.Contains(name, "clinic")
}

// ProviderKindOf classifies a place for badges. Hospital wins over Doctor.
func ProviderKindOf(place models.Place) string {
	switch {
	case isHospital(place):
		return models.KindHospital
	case isDoctor(place):
		return models.KindDoctor
	default:
		return models.KindHealthcare
	}
}

// FilterByKind keeps places of the given kind. Unknown kinds and "All" keep
// everything.
func FilterByKind(places []models.Place, kind string) []models.Place {
	var keep func(models.Place) bool
	switch kind {
	case models.KindDoctor:
		keep = isDoctor
	case models.KindHospital:
		keep = isHospital
	default:
		return append([]models.Place(nil), places...)
	}

	out := make([]models.Place, 0, len(places))
	for _, p := range places {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}
