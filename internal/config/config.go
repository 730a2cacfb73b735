package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
)

const defaultConnectionString = "Host=localhost;Port=5432;Database=transaction_service_db;Username=postgres;Password=postgres;Timeout=30;CommandTimeout=30"
const defaultPort = "3000"
const defaultChannelID = "CorePayApp"
const defaultChannelKey = "CorePayKey001"
const defaultHighValueThreshold = "100000"
const defaultMigrationsDir = "migrations"

type Config struct {
	DatabaseDSN        string
	MigrationsDir      string
	Port               string
	ChannelID          string
	ChannelKey         string
	HighValueThreshold decimal.Decimal
}

func Load() (Config, error) {
	conn := strings.TrimSpace(os.Getenv("DATABASE_DSN"))
	if conn == "" {
		conn = defaultConnectionString
	}

	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = defaultPort
	}

	channelID := strings.TrimSpace(os.Getenv("CHANNEL_ID"))
	if channelID == "" {
		channelID = defaultChannelID
	}

	channelKey := strings.TrimSpace(os.Getenv("CHANNEL_KEY"))
	if channelKey == "" {
		channelKey = defaultChannelKey
	}

	migrationsDir := strings.TrimSpace(os.Getenv("MIGRATIONS_DIR"))
	if migrationsDir == "" {
		migrationsDir = defaultMigrationsDir
	}

	rawThreshold := strings.TrimSpace(os.Getenv("HIGH_VALUE_THRESHOLD"))
	if rawThreshold == "" {
		rawThreshold = defaultHighValueThreshold
	}
	threshold, err := decimal.NewFromString(rawThreshold)
	if err != nil {
		return Config{}, fmt.Errorf("parse HIGH_VALUE_THRESHOLD %q: %w", rawThreshold, err)
	}

	return Config{
		DatabaseDSN:        NormalizeConnectionString(conn),
		MigrationsDir:      migrationsDir,
		Port:               port,
		ChannelID:          channelID,
		ChannelKey:         channelKey,
		HighValueThreshold: threshold,
	}, nil
}

// NormalizeConnectionString converts a semicolon key=value connection
// string into the keyword form lib/pq expects.
func NormalizeConnectionString(raw string) string {
	parts := strings.Split(raw, ";")
	out := make([]string, 0, len(parts))
	hasSSLMode := false

	for _, part := range parts {
		p := strings.TrimSpace(part)
		if p == "" {
			continue
		}

		kv := strings.SplitN(p, "=", 2)
		if len(kv) != 2 {
			continue
		}

		key := strings.ToLower(strings.TrimSpace(kv[0]))
		val := strings.TrimSpace(kv[1])

		switch key {
		case "host":
			out = append(out, "host="+val)
		case "port":
			out = append(out, "port="+val)
		case "database":
			out = append(out, "dbname="+val)
		case "username":
			out = append(out, "user="+val)
		case "password":
			out = append(out, "password="+val)
		case "timeout", "connect timeout":
			out = append(out, "connect_timeout="+val)
		case "commandtimeout", "command timeout":
			out = append(out, "statement_timeout="+val+"s")
		case "sslmode":
			hasSSLMode = true
			out = append(out, "sslmode="+val)
		default:
			out = append(out, key+"="+val)
		}
	}

	if len(out) == 0 {
		return raw
	}

	if !hasSSLMode {
		out = append(out, "sslmode=disable")
	}

	return strings.Join(out, " ")
}
