//nolint:whitespace // can't make both editor and linter happy
package scoring

import (
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/openregatta/regatta-service-manager-go/pkg/model"
)

type (
	// DistanceRule is one entry of the approved-distance list. Meters is the
	// race distance (per leg for relays), Legs is 0 for individual boats.
	DistanceRule struct {
		Meters int            `yaml:"meters"`
		Legs   int            `yaml:"legs,omitempty"`
		Boat   model.BoatType `yaml:"boat"`
	}

	// Eligibility gates which categories and races are scored at all.
	Eligibility struct {
		Distances         []DistanceRule `yaml:"distances"`
		ExcludedAgeGroups []string       `yaml:"excludedAgeGroups"`
		ExcludedKeywords  []string       `yaml:"excludedKeywords"`
	}

	// Template is a parsed scoring configuration: the typed point table plus
	// the eligibility rules that decide what it applies to.
	Template struct {
		Name        string
		Type        string
		Eligibility Eligibility
		Table       model.PointTable
	}

	yamlRow struct {
		Place      int     `yaml:"place"`
		Individual float64 `yaml:"individual"`
		Relay      float64 `yaml:"relay"`
	}

	yamlTemplate struct {
		Name        string               `yaml:"name"`
		Type        string               `yaml:"type"`
		Eligibility Eligibility          `yaml:"eligibility"`
		Points      map[string][]yamlRow `yaml:"points"`
	}
)

// MatchDistance returns the rule covering a race distance, nil when the
// distance is not approved for scoring.
func (e Eligibility) MatchDistance(meters int) *DistanceRule {
	for i := range e.Distances {
		if e.Distances[i].Meters == meters {
			return &e.Distances[i]
		}
	}
	return nil
}

// CategoryExcluded reports whether a category is kept out of scoring by its
// age group or by a keyword in code or label. Matching is case-insensitive.
func (e Eligibility) CategoryExcluded(cat *model.Category) bool {
	for _, ag := range e.ExcludedAgeGroups {
		if strings.EqualFold(ag, cat.AgeGroup) {
			return true
		}
	}
	haystack := strings.ToLower(cat.Code + " " + cat.Label)
	for _, kw := range e.ExcludedKeywords {
		if strings.Contains(haystack, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// ParseTemplate decodes a YAML scoring configuration.
func ParseTemplate(data []byte) (*Template, error) {
	var raw yamlTemplate
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse scoring template: %w", err)
	}
	if raw.Name == "" {
		return nil, fmt.Errorf("scoring template has no name")
	}
	table := make(model.PointTable, len(raw.Points))
	for bracket, rows := range raw.Points {
		if !validBracket(model.Bracket(bracket)) {
			return nil, fmt.Errorf("unknown bracket %q", bracket)
		}
		conv := make([]model.PointsRow, len(rows))
		for i, r := range rows {
			conv[i] = model.PointsRow{
				Place:      r.Place,
				Individual: decimal.NewFromFloat(r.Individual),
				Relay:      decimal.NewFromFloat(r.Relay),
			}
		}
		table[model.Bracket(bracket)] = conv
	}
	return &Template{
		Name:        raw.Name,
		Type:        raw.Type,
		Eligibility: raw.Eligibility,
		Table:       table,
	}, nil
}

// LoadTemplateFile reads and parses one template file.
func LoadTemplateFile(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseTemplate(data)
}

// FromModel wraps a stored template with eligibility rules; the database
// keeps only the point table.
func FromModel(st *model.ScoringTemplate, elig Eligibility) *Template {
	return &Template{
		Name:        st.Name,
		Type:        st.Type,
		Eligibility: elig,
		Table:       st.Table,
	}
}

// ToModel strips a template down to its storable part.
func (t *Template) ToModel() *model.ScoringTemplate {
	return &model.ScoringTemplate{
		Name:  t.Name,
		Type:  t.Type,
		Table: t.Table,
	}
}

func validBracket(b model.Bracket) bool {
	switch b {
	case model.Bracket1To3, model.Bracket4To6,
		model.Bracket7To12, model.Bracket13Plus:
		return true
	}
	return false
}

// DefaultEligibility mirrors the commonly used indoor distances. Deployments
// override this through the template file.
func DefaultEligibility() Eligibility {
	return Eligibility{
		Distances: []DistanceRule{
			{Meters: 2000, Boat: model.BoatIndividual},
			{Meters: 500, Boat: model.BoatIndividual},
			{Meters: 250, Legs: 8, Boat: model.BoatRelay},
		},
	}
}
