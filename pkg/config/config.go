package config

// this holds the resolved configuration values from CLI
var (
	DB                 string // connection string for the database
	NatsURL            string // URL of the NATS server (live fan-out, station ingest)
	WaitForServices    string // duration to wait for other services to be ready
	LogLevel           string // sets the log level (zap log level values)
	SQLLogLevel        string // sets the log level for sql subsystem
	LogFormat          string // text vs json
	MigrationSourceURL string // location of migration files
	EnableTelemetry    bool   // enable telemetry
	TelemetryEndpoint  string // endpoint for telemetry
	ProfilingPort      int    // port for profiling
	RelativeCapMs      int64  // max accepted delta (ms) when resolving relative times
	ScoringConfig      string // path to the scoring template configuration file
	MinStationVersion  string // minimum accepted timing station client version
)

// Config holds processed configuration values used by the application
type Config struct {
	PrintMessage bool // if true, the message payload will be printed on debug level
}
