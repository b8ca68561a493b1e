package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          int
	DatabaseURL   string
	DatabaseType  string
	UploadDir     string
	PublicBaseURL string
	Flavor        string
	FlavorsFile   string
	SessionTTL    time.Duration
}

// LoadEnv reads KEY=value pairs from an optional dotenv file into the
// process environment. A missing file is not an error; variables that are
// already set win over the file.
func LoadEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// ParseFlags validates flags and fills in defaults from the environment
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("vibealong-onboarding", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")

	// Uploads
	fs.StringVar(&cfg.UploadDir, "upload-dir", "", "Directory for uploaded profile pictures")
	fs.StringVar(&cfg.PublicBaseURL, "public-url", "", "Public base URL used in upload links")

	// Wizard
	fs.StringVar(&cfg.Flavor, "flavor", "", "Default signup flavor")
	fs.StringVar(&cfg.FlavorsFile, "flavors", "", "YAML file with signup flavor definitions")
	fs.DurationVar(&cfg.SessionTTL, "session-ttl", 0, "Idle lifetime of a signup session")

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
			cfg.Port = 3318 // default
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}

	if cfg.UploadDir == "" {
		cfg.UploadDir = envOr("UPLOAD_DIR", "./uploads")
	}
	if cfg.PublicBaseURL == "" {
		cfg.PublicBaseURL = envOr("PUBLIC_BASE_URL", "http://localhost:"+strconv.Itoa(cfg.Port))
	}
	if cfg.Flavor == "" {
		cfg.Flavor = envOr("SIGNUP_FLAVOR", "simple")
	}
	if cfg.FlavorsFile == "" {
		cfg.FlavorsFile = os.Getenv("FLAVORS_FILE")
	}

	if cfg.SessionTTL == 0 {
		if ttl := os.Getenv("SESSION_TTL"); ttl != "" {
			d, err := time.ParseDuration(ttl)
			if err != nil {
				return Config{}, errors.New("invalid SESSION_TTL env variable")
			}
			cfg.SessionTTL = d
		} else {
			cfg.SessionTTL = 30 * time.Minute
		}
	}
	if cfg.SessionTTL < 0 {
		return Config{}, errors.New("session TTL must be positive")
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
