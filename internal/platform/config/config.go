package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	pstrings "stocktrail/pkg/platform/strings"
)

// Config is the full process configuration, read once in main.
type Config struct {
	Server   Server
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Transfer TransferConfig
	Lockout  LockoutConfig
	LogLevel string
	// SeedDemo loads demo branches, staff and products into in-memory stores.
	SeedDemo bool
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	AdminToken      string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

// DatabaseConfig selects Postgres; an empty URL keeps everything in memory.
type DatabaseConfig struct {
	URL          string
	MaxOpenConns int
	MaxIdleConns int
}

// RedisConfig configures the shared name cache used by list enrichment.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	NameCacheTTL time.Duration
}

// KafkaConfig configures the transfer event feed. No brokers disables it.
type KafkaConfig struct {
	Brokers       []string
	TransferTopic string
}

// TransferConfig holds workflow tunables.
type TransferConfig struct {
	// OperationTimeout bounds each initiate/receive/cancel when the caller set no deadline.
	OperationTimeout time.Duration
	// AuditCancellations appends a transfer_cancelled location row on cancel.
	AuditCancellations bool
	HistoryPageSize    int
	QRSize             int
}

// LockoutConfig bounds PIN guessing per client.
type LockoutConfig struct {
	Attempts int
	Window   time.Duration
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	return Config{
		Server: Server{
			Addr:            getString("STOCKTRAIL_ADDR", ":8080"),
			AdminToken:      os.Getenv("ADMIN_API_TOKEN"),
			RequestTimeout:  getDuration("HTTP_REQUEST_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			URL:          os.Getenv("DATABASE_URL"),
			MaxOpenConns: getInt("DATABASE_MAX_OPEN_CONNS", 20),
			MaxIdleConns: getInt("DATABASE_MAX_IDLE_CONNS", 5),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     getInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
			NameCacheTTL: getDuration("NAME_CACHE_TTL", 5*time.Minute),
		},
		Kafka: KafkaConfig{
			Brokers:       getList("KAFKA_BROKERS"),
			TransferTopic: getString("KAFKA_TRANSFER_TOPIC", "stocktrail.transfers"),
		},
		Transfer: TransferConfig{
			OperationTimeout:   getDuration("TRANSFER_TIMEOUT", 5*time.Second),
			AuditCancellations: os.Getenv("TRANSFER_AUDIT_CANCELLATIONS") == "true",
			HistoryPageSize:    getInt("LOCATION_HISTORY_PAGE_SIZE", 500),
			QRSize:             getInt("QR_SIZE", 256),
		},
		Lockout: LockoutConfig{
			Attempts: getInt("PIN_LOCKOUT_ATTEMPTS", 5),
			Window:   getDuration("PIN_LOCKOUT_WINDOW", 15*time.Minute),
		},
		LogLevel: getString("LOG_LEVEL", "info"),
		SeedDemo: os.Getenv("STOCKTRAIL_SEED_DEMO") == "true",
	}
}

func getString(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func getList(key string) []string {
	return pstrings.SplitList(os.Getenv(key))
}
