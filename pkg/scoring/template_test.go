package scoring

import (
	"testing"

	"github.com/openregatta/regatta-service-manager-go/pkg/model"
)

var sampleYaml = []byte(`
name: club-standard
type: club
eligibility:
  distances:
    - { meters: 2000, boat: individual }
    - { meters: 250, legs: 8, boat: relay }
  excludedAgeGroups: [avenir]
  excludedKeywords: [adapté]
points:
  1_3_participants:
    - { place: 1, individual: 10, relay: 15 }
    - { place: 2, individual: 8, relay: 12 }
  13_plus_participants:
    - { place: 1, individual: 20, relay: 30 }
`)

func TestParseTemplate(t *testing.T) {
	tmpl, err := ParseTemplate(sampleYaml)
	if err != nil {
		t.Fatalf("ParseTemplate: %v", err)
	}
	if tmpl.Name != "club-standard" || tmpl.Type != "club" {
		t.Errorf("got name=%q type=%q", tmpl.Name, tmpl.Type)
	}
	rows := tmpl.Table[model.Bracket1To3]
	if len(rows) != 2 {
		t.Fatalf("bracket 1_3: got %d rows, want 2", len(rows))
	}
	if rows[1].Place != 2 || rows[1].Individual.String() != "8" ||
		rows[1].Relay.String() != "12" {
		t.Errorf("unexpected row: %+v", rows[1])
	}
	if len(tmpl.Eligibility.Distances) != 2 {
		t.Errorf("got %d distance rules, want 2", len(tmpl.Eligibility.Distances))
	}
}

func TestParseTemplateErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "missing name", data: "type: club"},
		{name: "unknown bracket", data: "name: x\npoints:\n  2_5_participants:\n    - { place: 1, individual: 1 }"},
		{name: "not yaml", data: "{{"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseTemplate([]byte(tt.data)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestMatchDistance(t *testing.T) {
	elig := Eligibility{Distances: []DistanceRule{
		{Meters: 2000, Boat: model.BoatIndividual},
		{Meters: 250, Legs: 8, Boat: model.BoatRelay},
	}}
	if rule := elig.MatchDistance(2000); rule == nil || rule.Boat != model.BoatIndividual {
		t.Errorf("2000m: got %+v", rule)
	}
	if rule := elig.MatchDistance(250); rule == nil || rule.Boat != model.BoatRelay || rule.Legs != 8 {
		t.Errorf("250m relay: got %+v", rule)
	}
	if rule := elig.MatchDistance(500); rule != nil {
		t.Errorf("500m: got %+v, want nil", rule)
	}
}

func TestCategoryExcluded(t *testing.T) {
	elig := Eligibility{
		ExcludedAgeGroups: []string{"avenir"},
		ExcludedKeywords:  []string{"adapté"},
	}
	tests := []struct {
		name string
		cat  model.Category
		want bool
	}{
		{
			name: "excluded age group, case-insensitive",
			cat:  model.Category{Code: "AH1x", AgeGroup: "Avenir"},
			want: true,
		},
		{
			name: "keyword in label",
			cat:  model.Category{Code: "SH1x", Label: "Senior Homme Adapté"},
			want: true,
		},
		{
			name: "plain senior category",
			cat:  model.Category{Code: "SH1x", Label: "Senior Homme", AgeGroup: "senior"},
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := elig.CategoryExcluded(&tt.cat); got != tt.want {
				t.Errorf("CategoryExcluded() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestModelRoundTrip(t *testing.T) {
	tmpl, err := ParseTemplate(sampleYaml)
	if err != nil {
		t.Fatalf("ParseTemplate: %v", err)
	}
	back := FromModel(tmpl.ToModel(), tmpl.Eligibility)
	if back.Name != tmpl.Name || back.Type != tmpl.Type {
		t.Errorf("got name=%q type=%q", back.Name, back.Type)
	}
	if len(back.Table) != len(tmpl.Table) {
		t.Errorf("got %d brackets, want %d", len(back.Table), len(tmpl.Table))
	}
}
