// Package dto defines the transport models of the API and the hand-written
// mapping functions between them and the domain entities.
//
// Read models:
//   - CityWithoutPointsOfInterest: the minimal city shape (no children field).
//   - City: the rich city shape with its points of interest.
//   - PointOfInterest: a single point of interest.
//
// Write models carry validation rules in binding tags and are checked both by
// Gin's binder and by validation.Validate after a patch has been applied.
package dto

import (
	"encoding/xml"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/tbourn/cityinfo-api/internal/domain"
)

// CityWithoutPointsOfInterest is the minimal city representation.
type CityWithoutPointsOfInterest struct {
	XMLName     xml.Name `json:"-" xml:"City"`
	ID          int      `json:"id"          xml:"id"          example:"1"`
	Name        string   `json:"name"        xml:"name"        example:"New York City"`
	Description *string  `json:"description" xml:"description" example:"The one with that big park."`
}

// City is the rich city representation including its points of interest.
type City struct {
	XMLName                  xml.Name          `json:"-" xml:"City"`
	ID                       int               `json:"id"                       xml:"id"                       example:"1"`
	Name                     string            `json:"name"                     xml:"name"                     example:"New York City"`
	Description              *string           `json:"description"              xml:"description"              example:"The one with that big park."`
	NumberOfPointsOfInterest int               `json:"numberOfPointsOfInterest" xml:"numberOfPointsOfInterest" example:"2"`
	PointsOfInterest         []PointOfInterest `json:"pointsOfInterest"         xml:"pointsOfInterest>PointOfInterest"`
}

// PointOfInterest is the read representation of a point of interest.
type PointOfInterest struct {
	XMLName     xml.Name `json:"-" xml:"PointOfInterest"`
	ID          int      `json:"id"          xml:"id"          example:"1"`
	Name        string   `json:"name"        xml:"name"        example:"Central Park"`
	Description *string  `json:"description" xml:"description" example:"The most visited urban park in the United States."`
}

// PointOfInterestForCreation is the POST payload.
type PointOfInterestForCreation struct {
	Name        string  `json:"name"        xml:"name"        binding:"required,notblank,max=50" example:"Bryant Park"`
	Description *string `json:"description" xml:"description" binding:"omitempty,max=200"        example:"A public park in Midtown Manhattan."`
}

// PointOfInterestForUpdate is the PUT payload and the document a PATCH is
// applied to.
type PointOfInterestForUpdate struct {
	Name        string  `json:"name"        xml:"name"        binding:"required,notblank,max=50" example:"Central Park"`
	Description *string `json:"description" xml:"description" binding:"omitempty,max=200"        example:"Updated description."`
}

// CityList and PointOfInterestList give XML collections a root element.
type CityList struct {
	XMLName xml.Name                      `xml:"Cities"`
	Items   []CityWithoutPointsOfInterest `xml:"City"`
}

type PointOfInterestList struct {
	XMLName xml.Name          `xml:"PointsOfInterest"`
	Items   []PointOfInterest `xml:"PointOfInterest"`
}

// ToCityWithoutPointsOfInterest maps a city to its minimal shape.
func ToCityWithoutPointsOfInterest(c domain.City) CityWithoutPointsOfInterest {
	return CityWithoutPointsOfInterest{ID: c.ID, Name: c.Name, Description: c.Description}
}

// ToCities maps a slice of cities to their minimal shape. The result is never
// nil so it encodes as an empty JSON array.
func ToCities(cs []domain.City) []CityWithoutPointsOfInterest {
	out := make([]CityWithoutPointsOfInterest, 0, len(cs))
	for _, c := range cs {
		out = append(out, ToCityWithoutPointsOfInterest(c))
	}
	return out
}

// ToCity maps a city with its loaded points of interest to the rich shape.
func ToCity(c domain.City) City {
	pois := ToPointsOfInterest(c.PointsOfInterest)
	return City{
		ID:                       c.ID,
		Name:                     c.Name,
		Description:              c.Description,
		NumberOfPointsOfInterest: len(pois),
		PointsOfInterest:         pois,
	}
}

// ToPointOfInterest maps a point of interest entity to its read model.
func ToPointOfInterest(p domain.PointOfInterest) PointOfInterest {
	return PointOfInterest{ID: p.ID, Name: p.Name, Description: p.Description}
}

// ToPointsOfInterest maps a slice; never returns nil.
func ToPointsOfInterest(ps []domain.PointOfInterest) []PointOfInterest {
	out := make([]PointOfInterest, 0, len(ps))
	for _, p := range ps {
		out = append(out, ToPointOfInterest(p))
	}
	return out
}

// NewPointOfInterest builds an unsaved entity from a creation payload.
func NewPointOfInterest(in PointOfInterestForCreation) domain.PointOfInterest {
	return domain.PointOfInterest{
		Name:        normalize(in.Name),
		Description: normalizePtr(in.Description),
	}
}

// ToPointOfInterestForUpdate projects an entity onto the update document, the
// starting point of a PATCH.
func ToPointOfInterestForUpdate(p domain.PointOfInterest) PointOfInterestForUpdate {
	return PointOfInterestForUpdate{Name: p.Name, Description: copyPtr(p.Description)}
}

// ApplyUpdate overwrites every mutable field of p with in.
func ApplyUpdate(in PointOfInterestForUpdate, p *domain.PointOfInterest) {
	p.Name = normalize(in.Name)
	p.Description = normalizePtr(in.Description)
}

func normalize(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

func normalizePtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := norm.NFC.String(*s)
	return &v
}

func copyPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
