package scheduling

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/openregatta/regatta-service-manager-go/pkg/model"
)

// SeedingPolicy controls how a category's crews are ordered before they are
// dealt into heats.
type SeedingPolicy string

const (
	// SeedingRandom orders crews by a uniform shuffle.
	SeedingRandom SeedingPolicy = "random"
	// SeedingBySeedTime orders crews by their seed time (fastest first,
	// crews without a seed time last) and deals them serpentine style so
	// the heats are balanced.
	SeedingBySeedTime SeedingPolicy = "seed_time"
)

func ParseSeedingPolicy(arg string) (SeedingPolicy, error) {
	switch SeedingPolicy(arg) {
	case SeedingRandom, SeedingBySeedTime:
		return SeedingPolicy(arg), nil
	default:
		return "", fmt.Errorf("unknown seeding policy %q", arg)
	}
}

type (
	// PlannedEntry is one crew on one lane of a planned race.
	PlannedEntry struct {
		CrewID int
		Lane   int
	}

	// PlannedRace is one heat of the plan before persistence.
	PlannedRace struct {
		CategoryID   int
		CategoryCode string
		// 1-based heat sequence within the category
		Seq        int
		Name       string
		RaceNumber int
		StartTime  *time.Time
		Entries    []PlannedEntry
	}

	PlanRequest struct {
		LaneCount       int
		StartTime       *time.Time
		IntervalMinutes int
		Policy          SeedingPolicy
		// source for the uniform shuffle; defaults to a time seeded one
		Rand *rand.Rand
	}
)

// BuildPlan partitions every category's crews into heats. Categories are
// processed in the given order (callers pass them ordered by code), crews of
// a category are split into ceil(K/L) heats whose sizes differ by at most
// one. Race numbers and start times are not assigned here; see FinishPlan.
func BuildPlan(
	categories []*model.Category,
	crewsByCategory map[int][]*model.Crew,
	req PlanRequest,
) []*PlannedRace {
	rnd := req.Rand
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	policy := req.Policy
	if policy == "" {
		policy = SeedingRandom
	}

	ret := make([]*PlannedRace, 0)
	for _, cat := range categories {
		crews := crewsByCategory[cat.ID]
		if len(crews) == 0 {
			continue
		}
		raceCount := (len(crews) + req.LaneCount - 1) / req.LaneCount
		groups := dealCrews(crews, raceCount, policy, rnd)
		for i, group := range groups {
			planned := &PlannedRace{
				CategoryID:   cat.ID,
				CategoryCode: cat.Code,
				Seq:          i + 1,
				Name:         fmt.Sprintf("%s - Série %d", cat.Code, i+1),
				Entries:      make([]PlannedEntry, 0, len(group)),
			}
			for lane, c := range group {
				planned.Entries = append(planned.Entries,
					PlannedEntry{CrewID: c.ID, Lane: lane + 1})
			}
			ret = append(ret, planned)
		}
	}
	return ret
}

// FinishPlan assigns race numbers and start times in one deterministic pass
// over the fully computed plan. Numbering continues from firstNumber.
func FinishPlan(races []*PlannedRace, firstNumber int, req PlanRequest) {
	for i, r := range races {
		r.RaceNumber = firstNumber + i
		if req.StartTime != nil {
			start := req.StartTime.Add(
				time.Duration(i*req.IntervalMinutes) * time.Minute)
			r.StartTime = &start
		}
	}
}

// groupSizes computes the heat sizes: base size floor(K/R) with the first
// K mod R heats holding one crew more.
func groupSizes(crewCount, raceCount int) []int {
	base := crewCount / raceCount
	extra := crewCount % raceCount
	sizes := make([]int, raceCount)
	for i := range sizes {
		sizes[i] = base
		if i < extra {
			sizes[i]++
		}
	}
	return sizes
}

//nolint:gocognit // serpentine dealing is one coherent piece
func dealCrews(
	crews []*model.Crew,
	raceCount int,
	policy SeedingPolicy,
	rnd *rand.Rand,
) [][]*model.Crew {
	ordered := make([]*model.Crew, len(crews))
	copy(ordered, crews)
	sizes := groupSizes(len(crews), raceCount)
	groups := make([][]*model.Crew, raceCount)
	for i := range groups {
		groups[i] = make([]*model.Crew, 0, sizes[i])
	}

	switch policy {
	case SeedingBySeedTime:
		sort.SliceStable(ordered, func(i, j int) bool {
			a, b := ordered[i].SeedTimeMs, ordered[j].SeedTimeMs
			if a == nil {
				return false
			}
			if b == nil {
				return true
			}
			return *a < *b
		})
		// serpentine over the heats: 1,2,..,R,R,..,2,1,1,2,..
		// the last partial cycle spills into whatever heat still has room
		cycle := 2 * raceCount
		for k, c := range ordered {
			m := k % cycle
			idx := m
			if m >= raceCount {
				idx = cycle - 1 - m
			}
			for len(groups[idx]) >= sizes[idx] {
				idx = (idx + 1) % raceCount
			}
			groups[idx] = append(groups[idx], c)
		}
	default:
		// uniform Fisher-Yates shuffle, then chunk sequentially
		rnd.Shuffle(len(ordered), func(i, j int) {
			ordered[i], ordered[j] = ordered[j], ordered[i]
		})
		pos := 0
		for i, size := range sizes {
			groups[i] = append(groups[i], ordered[pos:pos+size]...)
			pos += size
		}
	}
	return groups
}
