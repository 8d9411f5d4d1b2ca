package models

const (
	KeyBookings       = "drfind.bookings"
	KeyProfileName    = "drfind.profile.name"
	KeyProfileContact = "drfind.profile.contact"
	KeyRecentSearches = "drfind.recentSearches"
)

const (
	SpecialtyAll                 = "All"
	SpecialtyGeneralPractitioner = "General Practitioner"
	SpecialtyDentist             = "Dentist"
	SpecialtyPediatrician        = "Pediatrician"
	SpecialtyCardiologist        = "Cardiologist"
	SpecialtyHospital            = "Hospital"
)

// Specialties is the filter list shown above the map, in display order.
var Specialties = []string{
	SpecialtyAll,
	SpecialtyGeneralPractitioner,
	SpecialtyDentist,
	SpecialtyPediatrician,
	SpecialtyCardiologist,
	SpecialtyHospital,
}

const (
	KindAll        = "All"
	KindDoctor     = "Doctor"
	KindHospital   = "Hospital"
	KindHealthcare = "Healthcare"
)

const (
	// DefaultQueryText is searched for when the query is blank.
	DefaultQueryText = "Doctors"

	// UnknownPlaceName is used for results without a name.
	UnknownPlaceName = "Unknown"

	// SearchSpan is the lat/lon span of the region sent to the search gateway.
	SearchSpan = 0.1

	// DisplaySpan is the lat/lon span used when centering the map.
	DisplaySpan = 0.05

	// RecentSearchLimit caps the recent-search history.
	RecentSearchLimit = 10

	// TransportDriving is the only directions mode the app requests.
	TransportDriving = "driving"

	// AttendeeSelfName is the booking name used when the profile name is empty.
	AttendeeSelfName = "Me"
)
