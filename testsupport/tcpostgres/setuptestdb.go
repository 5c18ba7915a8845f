//nolint:errcheck // testsetup
package tcpostgres

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/openregatta/regatta-service-manager-go/pkg/db/migrate"
	database "github.com/openregatta/regatta-service-manager-go/pkg/db/postgres"
)

// SetupTestDb creates a pg connection pool for the regatta testdatabase
func SetupTestDb() *pgxpool.Pool {
	ctx := context.Background()
	port, err := nat.NewPort("tcp", "5432")
	if err != nil {
		log.Fatal(err)
	}
	container, err := SetupPostgres(ctx,
		WithPort(port.Port()),
		WithInitialDatabase("postgres", "password", "postgres"),
		WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
		WithName("regatta-service-manager-test"),
	)
	if err != nil {
		log.Fatal(err)
	}
	containerPort, _ := container.MappedPort(ctx, port)
	host, _ := container.Host(ctx)
	dbURL := fmt.Sprintf("postgresql://postgres:password@%s:%s/postgres",
		host, containerPort.Port())

	if err = migrate.MigrateDB(dbURL); err != nil {
		log.Fatal(err)
	}

	pool := database.InitWithURL(dbURL)
	return pool
}

// SetupExternalTestDb connects to the database referenced by TESTDB_URL.
// Used in CI where the database is provided as a service.
func SetupExternalTestDb() *pgxpool.Pool {
	dbURL := os.Getenv("TESTDB_URL")
	if err := migrate.MigrateDB(dbURL); err != nil {
		log.Fatal(err)
	}
	return database.InitWithURL(dbURL)
}

func ClearTimingTables(pool *pgxpool.Pool) {
	pool.Exec(context.Background(), "delete from timing_assignment")
	pool.Exec(context.Background(), "delete from timing")
}

func ClearRaceTables(pool *pgxpool.Pool) {
	pool.Exec(context.Background(), "delete from race_crew")
	pool.Exec(context.Background(), "delete from race")
	pool.Exec(context.Background(), "delete from race_phase")
}

func ClearScoringTables(pool *pgxpool.Pool) {
	pool.Exec(context.Background(), "delete from ranking_point")
	pool.Exec(context.Background(), "delete from club_ranking")
	pool.Exec(context.Background(), "delete from scoring_template")
}

func ClearCrewTables(pool *pgxpool.Pool) {
	pool.Exec(context.Background(), "delete from crew")
	pool.Exec(context.Background(), "delete from category")
}

func ClearEventTable(pool *pgxpool.Pool) {
	pool.Exec(context.Background(), "delete from timing_point")
	pool.Exec(context.Background(), "delete from event")
}

func ClearAllTables(pool *pgxpool.Pool) {
	ClearScoringTables(pool)
	ClearTimingTables(pool)
	ClearRaceTables(pool)
	ClearCrewTables(pool)
	ClearEventTable(pool)
}
