package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/cityinfo-api/internal/domain"
)

func ptr(s string) *string { return &s }

// SeedCities returns the initial dataset. Each call returns fresh values so
// callers may mutate the result.
func SeedCities() []domain.City {
	return []domain.City{
		{
			Name:        "New York City",
			Description: ptr("The one with that big park."),
			PointsOfInterest: []domain.PointOfInterest{
				{Name: "Central Park", Description: ptr("The most visited urban park in the United States.")},
				{Name: "Empire State Building", Description: ptr("A 102-story skyscraper located in Midtown Manhattan.")},
			},
		},
		{
			Name:        "Antwerp",
			Description: ptr("The one with the cathedral that was never really finished."),
			PointsOfInterest: []domain.PointOfInterest{
				{Name: "Cathedral", Description: ptr("A Gothic style cathedral, conceived by architects Jan and Pieter Appelmans.")},
				{Name: "Antwerp Central Station", Description: ptr("The the finest example of railway architecture in Belgium.")},
			},
		},
		{
			Name:        "Paris",
			Description: ptr("The one with that big tower."),
			PointsOfInterest: []domain.PointOfInterest{
				{Name: "Eiffel Tower", Description: ptr("A wrought iron lattice tower on the Champ de Mars, named after engineer Gustave Eiffel.")},
				{Name: "The Louvre", Description: ptr("The world's largest museum.")},
			},
		},
		{Name: "London", Description: ptr("The capital of England and the United Kingdom.")},
		{Name: "Tokyo", Description: ptr("The capital of Japan.")},
		{Name: "Dubai", Description: ptr("A city in the United Arab Emirates.")},
	}
}

// Seed inserts SeedCities when the cities table is empty. It is a no-op on a
// populated database.
func Seed(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&domain.City{}).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return nil
		}
		cities := SeedCities()
		return tx.Create(&cities).Error
	})
}
