package cmdutil

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openregatta/regatta-service-manager-go/log"
	"github.com/openregatta/regatta-service-manager-go/pkg/config"
	"github.com/openregatta/regatta-service-manager-go/pkg/db/postgres"
	"github.com/openregatta/regatta-service-manager-go/pkg/utils"
)

// ConnectDB waits for the database and returns a ready pool. Used by the
// one-shot operator commands; the server has its own bootstrap.
func ConnectDB() *pgxpool.Pool {
	timeout, err := time.ParseDuration(config.WaitForServices)
	if err != nil {
		log.Warn("Invalid duration value. Setting default 60s", log.ErrorField(err))
		timeout = 60 * time.Second
	}
	postgresAddr := utils.ExtractFromDBURL(config.DB)
	if err = utils.WaitForTCP(postgresAddr, timeout); err != nil {
		log.Fatal("database not ready", log.ErrorField(err))
	}
	return postgres.InitWithURL(config.DB)
}
