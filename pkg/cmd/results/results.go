//nolint:whitespace // can't make both editor and linter happy
package results

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/openregatta/regatta-service-manager-go/pkg/cmd/cmdutil"
	"github.com/openregatta/regatta-service-manager-go/pkg/results"
)

func NewResultsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "results",
		Short: "commands to display computed results",
	}
	cmd.AddCommand(newRaceCmd())
	cmd.AddCommand(newPhaseCmd())
	cmd.AddCommand(newEventCmd())
	return cmd
}

func newRaceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "race <raceId>",
		Short: "shows the result of one race",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return err
			}
			return showRace(cmd.Context(), id)
		},
	}
}

func newPhaseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "phase <phaseId>",
		Short: "shows all race results of a phase plus the scratch rankings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return err
			}
			return showPhase(cmd.Context(), id)
		},
	}
}

func newEventCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "event <eventId>",
		Short: "shows the per-category rankings across the whole event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return err
			}
			return showEvent(cmd.Context(), id)
		},
	}
}

func showRace(ctx context.Context, raceID int) error {
	pool := cmdutil.ConnectDB()
	defer pool.Close()
	res, err := results.NewAggregator(pool).RaceResults(ctx, raceID)
	if err != nil {
		return err
	}
	fmt.Printf("%s (#%d)\n", res.Race.Name, res.Race.RaceNumber)
	printEntries(res.Entries)
	return nil
}

func showPhase(ctx context.Context, phaseID int) error {
	pool := cmdutil.ConnectDB()
	defer pool.Close()
	res, err := results.NewAggregator(pool).PhaseResults(ctx, phaseID)
	if err != nil {
		return err
	}
	fmt.Printf("Phase: %s\n", res.Phase.Name)
	for _, rr := range res.Races {
		fmt.Printf("\n%s (#%d)\n", rr.Race.Name, rr.Race.RaceNumber)
		printEntries(rr.Entries)
	}
	for catID, entries := range res.ByCategory {
		fmt.Printf("\nScratch category %d\n", catID)
		printRanked(entries, func(e *results.Entry) *int { return e.RankScratch })
	}
	return nil
}

func showEvent(ctx context.Context, eventID int) error {
	pool := cmdutil.ConnectDB()
	defer pool.Close()
	res, err := results.NewAggregator(pool).EventResults(ctx, eventID)
	if err != nil {
		return err
	}
	for catID, entries := range res.ByCategory {
		fmt.Printf("\nCategory %d\n", catID)
		printEntries(entries)
	}
	return nil
}

func printEntries(entries []*results.Entry) {
	printRanked(entries, func(e *results.Entry) *int { return e.Position })
}

func printRanked(entries []*results.Entry, rank func(*results.Entry) *int) {
	for _, e := range entries {
		pos := "-"
		if r := rank(e); r != nil {
			pos = strconv.Itoa(*r)
		}
		dur := "-"
		if e.DurationMs != nil {
			dur = (time.Duration(*e.DurationMs) * time.Millisecond).String()
		}
		fmt.Printf("%3s lane=%d crew=%d %-25s %s\n",
			pos, e.Lane, e.CrewID, e.ClubName, dur)
	}
}
