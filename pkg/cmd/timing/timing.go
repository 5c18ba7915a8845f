//nolint:whitespace // can't make both editor and linter happy
package timing

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/openregatta/regatta-service-manager-go/log"
	"github.com/openregatta/regatta-service-manager-go/pkg/cmd/cmdutil"
	"github.com/openregatta/regatta-service-manager-go/pkg/ingest"
)

var (
	timingPointID int
	crewID        int
	timestamp     string
	enteredBy     string
)

func NewTimingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "timing",
		Short: "operator commands for the timing pipeline",
	}
	cmd.AddCommand(newCreateCmd())
	cmd.AddCommand(newAssignCmd())
	cmd.AddCommand(newHideCmd())
	cmd.AddCommand(newRotateTokenCmd())
	return cmd
}

func newCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "stores a manual timing impulse",
		RunE: func(cmd *cobra.Command, args []string) error {
			return createTiming(cmd.Context())
		},
	}
	cmd.Flags().IntVar(&timingPointID, "timing-point-id", 0,
		"timing point the impulse belongs to")
	cmd.Flags().StringVar(&timestamp, "timestamp", "",
		"impulse timestamp (RFC3339Nano, default: now)")
	cmd.Flags().StringVar(&enteredBy, "entered-by", "",
		"operator entering the impulse")
	//nolint:errcheck // flag is defined above
	cmd.MarkFlagRequired("timing-point-id")
	return cmd
}

func newAssignCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assign <timingId>",
		Short: "attributes a timing impulse to a crew",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return err
			}
			return assignTiming(cmd.Context(), id)
		},
	}
	cmd.Flags().IntVar(&crewID, "crew-id", 0, "crew to attribute the impulse to")
	//nolint:errcheck // flag is defined above
	cmd.MarkFlagRequired("crew-id")
	return cmd
}

func newHideCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hide <timingId>",
		Short: "removes a timing impulse from all computations without deleting it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return err
			}
			pool := cmdutil.ConnectDB()
			defer pool.Close()
			return ingest.NewService(pool).HideTiming(cmd.Context(), id)
		},
	}
}

func newRotateTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rotate-token",
		Short: "issues a fresh station token for a timing point",
		RunE: func(cmd *cobra.Command, args []string) error {
			return rotateToken(cmd.Context())
		},
	}
	cmd.Flags().IntVar(&timingPointID, "timing-point-id", 0,
		"timing point to rotate the token for")
	//nolint:errcheck // flag is defined above
	cmd.MarkFlagRequired("timing-point-id")
	return cmd
}

func createTiming(ctx context.Context) error {
	ts := time.Now()
	if timestamp != "" {
		var err error
		if ts, err = time.Parse(time.RFC3339Nano, timestamp); err != nil {
			return fmt.Errorf("invalid timestamp: %w", err)
		}
	}
	pool := cmdutil.ConnectDB()
	defer pool.Close()
	t, err := ingest.NewService(pool).CreateTiming(ctx, &ingest.CreateTimingRequest{
		TimingPointID: timingPointID,
		Timestamp:     ts,
		ManualEntry:   true,
		EnteredBy:     enteredBy,
	})
	if err != nil {
		return err
	}
	log.Info("timing stored", log.Int("timingId", t.ID))
	return nil
}

func assignTiming(ctx context.Context, timingID int) error {
	pool := cmdutil.ConnectDB()
	defer pool.Close()
	ta, err := ingest.NewService(pool).AssignTiming(ctx, timingID, crewID)
	if err != nil {
		return err
	}
	log.Info("timing assigned",
		log.Int("timingId", ta.TimingID), log.Int("crewId", ta.CrewID))
	return nil
}

func rotateToken(ctx context.Context) error {
	pool := cmdutil.ConnectDB()
	defer pool.Close()
	token, err := ingest.NewService(pool).RotateToken(ctx, timingPointID)
	if err != nil {
		return err
	}
	// shown exactly once, only the hash is stored
	fmt.Printf("new station token: %s\n", token)
	return nil
}
