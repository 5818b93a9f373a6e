package cliparse

import (
	"errors"
	"flag"
	"os"
	"strconv"
)

// Store type constants
const (
	StoreFile     = "file"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

type Config struct {
	Port         int
	DataDir      string
	StoreType    string
	DatabaseURL  string
	AdminKey     string
	AdminContact string
}

// ParseFlags validates flags, falling back to environment variables.
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("ballot-box", flag.ContinueOnError)

	// Network and storage config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DataDir, "d", "", "Data directory (schema, registry, ballots)")
	fs.StringVar(&cfg.StoreType, "t", "", "Store type (file, sqlite or postgres)")
	fs.StringVar(&cfg.DatabaseURL, "db", "", "Database URL (sqlite/postgres stores)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.AdminKey, "admin-key", "", "Admin view key (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3000 // default
		}
	}

	if cfg.DataDir == "" {
		cfg.DataDir = os.Getenv("DATA_DIR")
		if cfg.DataDir == "" {
			cfg.DataDir = "data"
		}
	}

	if cfg.StoreType == "" {
		cfg.StoreType = os.Getenv("STORE_TYPE")
		if cfg.StoreType == "" {
			cfg.StoreType = StoreFile
		}
	}
	switch cfg.StoreType {
	case StoreFile, StoreSQLite, StorePostgres:
	default:
		return Config{}, errors.New("store type must be file, sqlite or postgres")
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.StoreType != StoreFile && cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -db or DATABASE_URL env)")
	}

	// Secrets - MUST be provided
	if cfg.AdminKey == "" {
		cfg.AdminKey = os.Getenv("ADMIN_KEY")
	}
	if cfg.AdminKey == "" {
		return Config{}, errors.New("ADMIN_KEY required")
	}

	// Optional notification target for ballot receipts
	cfg.AdminContact = os.Getenv("ADMIN_CONTACT")

	return cfg, nil
}
