package service

import (
	"testing"

	"drfind/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestComposeQuery(t *testing.T) {
	assert.Equal(t, "Doctors", ComposeQuery("", models.SpecialtyAll))
	assert.Equal(t, "Doctors", ComposeQuery("   ", ""))
	assert.Equal(t, "Doctors Dentist", ComposeQuery("", models.SpecialtyDentist))
	assert.Equal(t, "kids Pediatrician", ComposeQuery("kids", models.SpecialtyPediatrician))
	assert.Equal(t, "heart", ComposeQuery("heart", models.SpecialtyAll))
}

func TestMatchesSpecialty(t *testing.T) {
	dentist := models.Place{Name: "Smile Studio", Subtitle: "12 Main St", Category: strPtr("amenity:dentist")}
	cardio := models.Place{Name: "City Cardiologist Office", Subtitle: "Oak Ave"}
	pediatric := models.Place{Name: "Care Center", Subtitle: "Pediatrician wing, Elm St"}

	assert.True(t, MatchesSpecialty(dentist, models.SpecialtyAll))
	assert.True(t, MatchesSpecialty(dentist, models.SpecialtyDentist))
	assert.True(t, MatchesSpecialty(cardio, models.SpecialtyCardiologist))
	assert.True(t, MatchesSpecialty(pediatric, models.SpecialtyPediatrician))
	assert.False(t, MatchesSpecialty(cardio, models.SpecialtyDentist))
}

func TestProviderKindOf(t *testing.T) {
	tests := []struct {
		place models.Place
		want  string
	}{
		{models.Place{Name: "St. Mary Hospital"}, models.KindHospital},
		{models.Place{Name: "Riverside Medical Center"}, models.KindHospital},
		{models.Place{Name: "X", Category: strPtr("Hospital")}, models.KindHospital},
		{models.Place{Name: "Family Clinic"}, models.KindDoctor},
		{models.Place{Name: "Dr. Doctor"}, models.KindDoctor},
		{models.Place{Name: "Y", Category: strPtr("Doctor")}, models.KindDoctor},
		{models.Place{Name: "Clinic Hospital"}, models.KindHospital},
		{models.Place{Name: "Pharmacy"}, models.KindHealthcare},
		// category match is case-sensitive
		{models.Place{Name: "Z", Category: strPtr("amenity:hospital")}, models.KindHealthcare},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ProviderKindOf(tt.place), tt.place.Name)
	}
}

func TestFilterByKind(t *testing.T) {
	places := []models.Place{
		{Name: "General Hospital"},
		{Name: "Walk-in Clinic"},
		{Name: "Pharmacy"},
	}

	assert.Len(t, FilterByKind(places, models.KindAll), 3)
	assert.Len(t, FilterByKind(places, "unknown"), 3)

	doctors := FilterByKind(places, models.KindDoctor)
	if assert.Len(t, doctors, 1) {
		assert.Equal(t, "Walk-in Clinic", doctors[0].Name)
	}

	hospitals := FilterByKind(places, models.KindHospital)
	if assert.Len(t, hospitals, 1) {
		assert.Equal(t, "General Hospital", hospitals[0].Name)
	}
}
