package model

type CrewStatus string

const (
	CrewRegistered   CrewStatus = "registered"
	CrewDNS          CrewStatus = "dns"
	CrewDNF          CrewStatus = "dnf"
	CrewDisqualified CrewStatus = "disqualified"
	CrewChanged      CrewStatus = "changed"
	CrewWithdrawn    CrewStatus = "withdrawn"
	CrewScratch      CrewStatus = "scratch"
)

type (
	// Crew is a registered boat entry competing in one category at one event.
	Crew struct {
		ID         int
		EventID    int
		CategoryID int
		Status     CrewStatus
		ClubName   string
		ClubCode   string
		SeedTimeMs *int64
	}

	Category struct {
		ID          int
		EventID     int
		Code        string
		Label       string
		BoatSeats   int
		HasCoxswain bool
		Gender      string
		AgeGroup    string
	}
)
