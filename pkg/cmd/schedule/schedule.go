//nolint:whitespace // can't make both editor and linter happy
package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/openregatta/regatta-service-manager-go/log"
	"github.com/openregatta/regatta-service-manager-go/pkg/cmd/cmdutil"
	"github.com/openregatta/regatta-service-manager-go/pkg/scheduling"
)

var (
	phaseID         int
	laneCount       int
	distanceM       int
	startTime       string
	intervalMinutes int
	seedingPolicy   string
)

func NewScheduleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "allocates the heats of a race phase",
		RunE: func(cmd *cobra.Command, args []string) error {
			return allocate(cmd.Context())
		},
	}
	cmd.Flags().IntVar(&phaseID, "phase-id", 0, "phase to allocate")
	cmd.Flags().IntVar(&laneCount, "lanes", 6, "lanes per race")
	cmd.Flags().IntVar(&distanceM, "distance", 2000,
		"race distance in meters (per leg for relays)")
	cmd.Flags().StringVar(&startTime, "start-time", "",
		"start time of the first race (RFC3339)")
	cmd.Flags().IntVar(&intervalMinutes, "interval", 0,
		"minutes between race starts")
	cmd.Flags().StringVar(&seedingPolicy, "seeding", "random",
		"seeding policy (random, seed_time)")
	//nolint:errcheck // flag is defined above
	cmd.MarkFlagRequired("phase-id")
	return cmd
}

func allocate(ctx context.Context) error {
	policy, err := scheduling.ParseSeedingPolicy(seedingPolicy)
	if err != nil {
		return err
	}
	req := scheduling.AllocateRequest{
		PhaseID:         phaseID,
		LaneCount:       laneCount,
		DistanceM:       distanceM,
		IntervalMinutes: intervalMinutes,
		Policy:          policy,
	}
	if startTime != "" {
		ts, err := time.Parse(time.RFC3339, startTime)
		if err != nil {
			return fmt.Errorf("invalid start-time: %w", err)
		}
		req.StartTime = &ts
	}

	pool := cmdutil.ConnectDB()
	defer pool.Close()

	races, err := scheduling.NewAllocator(pool).AllocatePhase(ctx, req)
	if err != nil {
		return err
	}
	log.Info("phase allocated",
		log.Int("phaseId", phaseID), log.Int("races", len(races)))
	for _, r := range races {
		start := ""
		if r.StartTime != nil {
			start = r.StartTime.Format("15:04")
		}
		fmt.Printf("#%d %-40s lanes=%d %s\n", r.RaceNumber, r.Name, r.LaneCount, start)
	}
	return nil
}
