package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"

	"microlending/internal/usecase/collateral"
)

type Config struct {
	AppEnv   string
	AppPort  string
	LogLevel string

	DBDriver string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	PostgresDSN string
	SQLitePath  string

	RedisAddr string
	RedisDB   int

	IdempTTLSecs int

	ProtocolOwner  string
	HeightKey      string
	SequencerQueue int

	MinCollateralRatioBps uint64
	LiquidationRatioBps   uint64
	MaxInterestRateBps    uint64
	MinDurationBlocks     uint64
	MaxDurationBlocks     uint64
	MaxPriceAgeBlocks     uint64
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getenvInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func getenvUint(k string, d uint64) uint64 {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			return n
		}
	}
	return d
}

func Load() *Config {
	p := collateral.DefaultParams()
	return &Config{
		AppEnv:   getenv("APP_ENV", "dev"),
		AppPort:  getenv("APP_PORT", "8080"),
		LogLevel: getenv("LOG_LEVEL", ""),

		DBDriver:  getenv("DB_DRIVER", "mysql"),
		MySQLHost: getenv("MYSQL_HOST", "mysql"),
		MySQLPort: getenv("MYSQL_PORT", "3306"),
		MySQLDB:   getenv("MYSQL_DB", "microlending"),
		MySQLUser: getenv("MYSQL_USER", "microlending"),
		MySQLPass: getenv("MYSQL_PASS", "microlending"),

		PostgresDSN: getenv("POSTGRES_DSN", ""),
		SQLitePath:  getenv("SQLITE_PATH", "microlending.db"),

		RedisAddr:    getenv("REDIS_ADDR", "redis:6379"),
		RedisDB:      getenvInt("REDIS_DB", 0),
		IdempTTLSecs: getenvInt("IDEMPOTENCY_TTL_SECONDS", 300),

		ProtocolOwner:  getenv("PROTOCOL_OWNER", ""),
		HeightKey:      getenv("HEIGHT_KEY", "chain:height"),
		SequencerQueue: getenvInt("SEQUENCER_QUEUE", 64),

		MinCollateralRatioBps: getenvUint("MIN_COLLATERAL_RATIO_BPS", p.MinCollateralRatioBps),
		LiquidationRatioBps:   getenvUint("LIQUIDATION_RATIO_BPS", p.LiquidationRatioBps),
		MaxInterestRateBps:    getenvUint("MAX_INTEREST_RATE_BPS", p.MaxInterestRateBps),
		MinDurationBlocks:     getenvUint("MIN_DURATION_BLOCKS", p.MinDurationBlocks),
		MaxDurationBlocks:     getenvUint("MAX_DURATION_BLOCKS", p.MaxDurationBlocks),
		MaxPriceAgeBlocks:     getenvUint("MAX_PRICE_AGE_BLOCKS", p.MaxPriceAgeBlocks),
	}
}

func (c *Config) Validate() error {
	switch c.DBDriver {
	case "mysql":
		if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
			return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
		}
		// ensure port is valid
		if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
			return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
		}
	case "postgres":
		if c.PostgresDSN == "" {
			return errors.New("missing POSTGRES_DSN")
		}
	case "sqlite":
		if c.SQLitePath == "" {
			return errors.New("missing SQLITE_PATH")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (mysql|postgres|sqlite)", c.DBDriver)
	}
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if c.ProtocolOwner == "" {
		return errors.New("missing PROTOCOL_OWNER")
	}
	if c.HeightKey == "" {
		return errors.New("missing HEIGHT_KEY")
	}
	if c.SequencerQueue < 0 {
		return fmt.Errorf("invalid SEQUENCER_QUEUE %d", c.SequencerQueue)
	}
	if err := c.Params().Validate(); err != nil {
		return fmt.Errorf("protocol params: %w", err)
	}
	return nil
}

// Params are the protocol risk limits.
func (c *Config) Params() collateral.Params {
	return collateral.Params{
		MinCollateralRatioBps: c.MinCollateralRatioBps,
		LiquidationRatioBps:   c.LiquidationRatioBps,
		MaxInterestRateBps:    c.MaxInterestRateBps,
		MinDurationBlocks:     c.MinDurationBlocks,
		MaxDurationBlocks:     c.MaxDurationBlocks,
		MaxPriceAgeBlocks:     c.MaxPriceAgeBlocks,
	}
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// multiStatements=true is handy for migrations; parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}

// DSN is the connection string for the configured driver.
func (c *Config) DSN() string {
	switch c.DBDriver {
	case "postgres":
		return c.PostgresDSN
	case "sqlite":
		return c.SQLitePath
	}
	return c.MySQLDSN()
}
