// Package domain defines the persistence models for cities and their points
// of interest. These types are mapped with GORM and form the core data layer
// of the city info application.
package domain

// City is a named place that owns a collection of points of interest.
// Cities are created by seed data and are read-only through the API.
//
// Fields:
//   - ID: server-assigned autoincrement primary key.
//   - Name: display name (max 50 chars); indexed for exact-name filtering.
//   - Description: optional free text (max 200 chars).
//   - PointsOfInterest: owned children, cascade-deleted with the city.
type City struct {
	ID          int     `json:"id"          gorm:"primaryKey;autoIncrement"`
	Name        string  `json:"name"        gorm:"type:varchar(50);not null;index:idx_city_name"`
	Description *string `json:"description" gorm:"type:varchar(200)"`

	// PointsOfInterest is only populated when explicitly preloaded.
	PointsOfInterest []PointOfInterest `json:"points_of_interest,omitempty" gorm:"foreignKey:CityID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for City.
func (City) TableName() string { return "cities" }

// PointOfInterest is a named place that belongs to exactly one city.
//
// Fields:
//   - ID: server-assigned autoincrement primary key.
//   - Name: display name (max 50 chars).
//   - Description: optional free text (max 200 chars).
//   - CityID: foreign key to the owning city (indexed).
type PointOfInterest struct {
	ID          int     `json:"id"          gorm:"primaryKey;autoIncrement"`
	Name        string  `json:"name"        gorm:"type:varchar(50);not null"`
	Description *string `json:"description" gorm:"type:varchar(200)"`
	CityID      int     `json:"city_id"     gorm:"not null;index:idx_poi_city"`
}

// TableName returns the database table name for PointOfInterest.
func (PointOfInterest) TableName() string { return "points_of_interest" }

// DescriptionOrEmpty dereferences d, returning "" for nil.
func DescriptionOrEmpty(d *string) string {
	if d == nil {
		return ""
	}
	return *d
}
