package dto

import (
	"encoding/json"
	"encoding/xml"
	"errors"
	"strings"
	"testing"

	"github.com/tbourn/cityinfo-api/internal/domain"
	"github.com/tbourn/cityinfo-api/internal/validation"
)

func sp(s string) *string { return &s }

func TestToCityWithoutPointsOfInterest_HasNoChildrenField(t *testing.T) {
	c := domain.City{
		ID: 1, Name: "New York City", Description: sp("The one with that big park."),
		PointsOfInterest: []domain.PointOfInterest{{ID: 1, Name: "Central Park"}},
	}
	b, err := json.Marshal(ToCityWithoutPointsOfInterest(c))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	_ = json.Unmarshal(b, &m)
	if _, ok := m["pointsOfInterest"]; ok {
		t.Fatalf("minimal shape must not carry pointsOfInterest: %s", b)
	}
	if m["id"].(float64) != 1 || m["name"] != "New York City" {
		t.Fatalf("unexpected body: %s", b)
	}
}

func TestToCity_CountsPointsOfInterest(t *testing.T) {
	c := domain.City{ID: 3, Name: "Paris", PointsOfInterest: []domain.PointOfInterest{
		{ID: 5, Name: "Eiffel Tower"}, {ID: 6, Name: "The Louvre"},
	}}
	got := ToCity(c)
	if got.NumberOfPointsOfInterest != 2 || len(got.PointsOfInterest) != 2 || got.PointsOfInterest[1].Name != "The Louvre" {
		t.Fatalf("unexpected: %+v", got)
	}

	empty := ToCity(domain.City{ID: 4, Name: "London"})
	b, _ := json.Marshal(empty)
	if !strings.Contains(string(b), `"pointsOfInterest":[]`) || !strings.Contains(string(b), `"numberOfPointsOfInterest":0`) {
		t.Fatalf("rich shape must always carry an array: %s", b)
	}
}

func TestXMLShapes(t *testing.T) {
	b, err := xml.Marshal(CityList{Items: ToCities([]domain.City{{ID: 1, Name: "Antwerp"}})})
	if err != nil {
		t.Fatalf("xml: %v", err)
	}
	if !strings.HasPrefix(string(b), "<Cities><City><id>1</id><name>Antwerp</name>") {
		t.Fatalf("unexpected xml: %s", b)
	}
}

func TestNewPointOfInterest_NormalizesName(t *testing.T) {
	// "e" + combining acute accent composes to a single rune under NFC.
	in := PointOfInterestForCreation{Name: "  Cafe\u0301 ", Description: sp("x")}
	got := NewPointOfInterest(in)
	if got.Name != "Caf\u00e9" {
		t.Fatalf("name not normalized: %q", got.Name)
	}
	if got.ID != 0 || got.CityID != 0 {
		t.Fatalf("new entity must not carry ids: %+v", got)
	}
}

func TestApplyUpdate_OverwritesAllFields(t *testing.T) {
	p := domain.PointOfInterest{ID: 9, CityID: 2, Name: "Old", Description: sp("old")}
	ApplyUpdate(PointOfInterestForUpdate{Name: "New"}, &p)
	if p.Name != "New" || p.Description != nil || p.ID != 9 || p.CityID != 2 {
		t.Fatalf("unexpected: %+v", p)
	}
}

func TestToPointOfInterestForUpdate_CopiesDescription(t *testing.T) {
	p := domain.PointOfInterest{Name: "A", Description: sp("d")}
	u := ToPointOfInterestForUpdate(p)
	*u.Description = "changed"
	if *p.Description != "d" {
		t.Fatalf("update document must not alias the entity")
	}
}

func TestApplyPatch(t *testing.T) {
	current := PointOfInterestForUpdate{Name: "Central Park", Description: nil}

	cases := []struct {
		name      string
		doc       string
		wantName  string
		wantDesc  *string
		wantPatch bool
	}{
		{"replace name", `[{"op":"replace","path":"/name","value":"Updated"}]`, "Updated", nil, false},
		{"replace null description", `[{"op":"replace","path":"/description","value":"New"}]`, "Central Park", sp("New"), false},
		{"empty patch", `[]`, "Central Park", nil, false},
		{"test passes", `[{"op":"test","path":"/name","value":"Central Park"},{"op":"replace","path":"/name","value":"X"}]`, "X", nil, false},
		{"test fails", `[{"op":"test","path":"/name","value":"nope"}]`, "", nil, true},
		{"not an array", `{"op":"replace"}`, "", nil, true},
		{"unknown op", `[{"op":"jump","path":"/name"}]`, "", nil, true},
		{"unknown member", `[{"op":"add","path":"/rating","value":5}]`, "", nil, true},
		{"wrong type", `[{"op":"replace","path":"/name","value":5}]`, "", nil, true},
		{"malformed json", `[{`, "", nil, true},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got, err := ApplyPatch(current, []byte(tc.doc))
			if tc.wantPatch {
				var pe *PatchError
				if !errors.As(err, &pe) {
					t.Fatalf("expected *PatchError, got %v", err)
				}
				if got != current {
					t.Fatalf("failed patch must return the input unchanged")
				}
				return
			}
			if err != nil {
				t.Fatalf("ApplyPatch: %v", err)
			}
			if got.Name != tc.wantName {
				t.Fatalf("name = %q, want %q", got.Name, tc.wantName)
			}
			if (got.Description == nil) != (tc.wantDesc == nil) ||
				(got.Description != nil && *got.Description != *tc.wantDesc) {
				t.Fatalf("description = %v, want %v", got.Description, tc.wantDesc)
			}
		})
	}
	if current.Name != "Central Park" || current.Description != nil {
		t.Fatalf("ApplyPatch mutated its input: %+v", current)
	}
}

func TestApplyPatch_ResultStillNeedsValidation(t *testing.T) {
	current := PointOfInterestForUpdate{Name: "Central Park"}
	got, err := ApplyPatch(current, []byte(`[{"op":"remove","path":"/name"}]`))
	if err != nil {
		t.Fatalf("remove is a valid patch: %v", err)
	}
	errs := validation.Validate(got)
	if len(errs) != 1 || errs[0].Field != "name" {
		t.Fatalf("expected name validation error, got %v", errs)
	}
}
