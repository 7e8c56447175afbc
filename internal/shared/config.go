package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv        string
	LogLevel      string
	HTTPAddr      string
	MetricsAddr   string
	MySQLDSN      string
	RedisAddr     string
	RedisDB       int
	RedisPass     string
	InventoryURL  string
	InventoryKey  string
	InventoryRPS  int
	IngestWorkers int

	// recommendation fan-out
	RecommendWorkers int
	MaxCandidates    int
	RequireRooms     bool
	CacheTTL         time.Duration
	// recommendation pages are not evicted on ingest, so they get a short TTL
	RecsCacheTTL time.Duration
}

func Load() Config {
	// .env is optional; real environment variables win.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("could not read .env")
	}

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Str("value", v).Msg("not an integer, using default")
		}
		return def
	}
	c := Config{
		AppEnv:           env("APP_ENV", "prod"),
		LogLevel:         env("LOG_LEVEL", "info"),
		HTTPAddr:         env("HTTP_ADDR", ":8080"),
		MetricsAddr:      env("METRICS_ADDR", ":9100"),
		MySQLDSN:         env("MYSQL_DSN", "root:root@tcp(localhost:3306)/tripstay?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:        env("REDIS_ADDR", "localhost:6379"),
		RedisDB:          atoi("REDIS_DB", 0),
		RedisPass:        env("REDIS_PASSWORD", ""),
		InventoryURL:     env("INVENTORY_BASE_URL", "http://localhost:9000/v1"),
		InventoryKey:     env("INVENTORY_API_KEY", ""),
		InventoryRPS:     atoi("INVENTORY_RPS", 5),
		IngestWorkers:    atoi("INGEST_WORKERS", 8),
		RecommendWorkers: atoi("RECOMMEND_WORKERS", 8),
		MaxCandidates:    atoi("MAX_CANDIDATES", 200),
		RequireRooms:     envBool("REQUIRE_ROOMS", false),
		CacheTTL:         time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
		RecsCacheTTL:     time.Duration(atoi("RECS_CACHE_TTL_SECONDS", 120)) * time.Second,
	}
	if c.InventoryKey == "" {
		log.Warn().Msg("INVENTORY_API_KEY is empty")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envBool(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
