//nolint:whitespace // can't make both editor and linter happy
package race

import (
	"strconv"

	natsio "github.com/nats-io/nats.go"
	"github.com/spf13/cobra"

	"github.com/openregatta/regatta-service-manager-go/log"
	"github.com/openregatta/regatta-service-manager-go/pkg/cmd/cmdutil"
	"github.com/openregatta/regatta-service-manager-go/pkg/config"
	"github.com/openregatta/regatta-service-manager-go/pkg/model"
	"github.com/openregatta/regatta-service-manager-go/pkg/pubsub/nats"
	"github.com/openregatta/regatta-service-manager-go/pkg/racecontrol"
)

func NewRaceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "race",
		Short: "race control commands",
	}
	cmd.AddCommand(newStatusCmd())
	return cmd
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <raceId> <status>",
		Short: "sets the race status and announces the change",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return err
			}
			return updateStatus(cmd, id, model.RaceStatus(args[1]))
		},
	}
}

func updateStatus(cmd *cobra.Command, raceID int, status model.RaceStatus) error {
	pool := cmdutil.ConnectDB()
	defer pool.Close()

	opts := []racecontrol.Option{}
	if config.NatsURL != "" {
		conn, err := natsio.Connect(config.NatsURL)
		if err != nil {
			return err
		}
		defer conn.Close()
		proxy := nats.NewNatsProxy(conn)
		defer proxy.Close()
		opts = append(opts, racecontrol.WithProxy(proxy))
	}
	if err := racecontrol.NewService(pool, opts...).
		UpdateStatus(cmd.Context(), raceID, status); err != nil {
		return err
	}
	log.Info("race status updated",
		log.Int("raceId", raceID), log.String("status", string(status)))
	return nil
}
