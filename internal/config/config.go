package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

// Config holds application level configuration aggregated from env/config files.
type Config struct {
	Server struct {
		Addr            string
		ReadTimeout     time.Duration
		WriteTimeout    time.Duration
		ShutdownTimeout time.Duration
		// TrustedProxies may set X-Forwarded-For. Empty means none.
		TrustedProxies []string
	}
	Database struct {
		Path string
	}
	Auth struct {
		JWTSecret        string
		Algorithm        string
		AccessTTLMinutes int
		RefreshTTLDays   int
		LeewaySeconds    int
		BcryptCost       int
		HashConcurrency  int
		Revocation       bool
	}
	Redis struct {
		Addr     string
		Password string
		DB       int
	}
	Search struct {
		MaxRadiusMeters     float64
		NearbyRadiusMeters  float64
		StationRadiusMeters float64
	}
	RateLimit struct {
		RPS   float64
		Burst int
	}
	Storage struct {
		Bucket    string
		KeyPrefix string
		Region    string
		Endpoint  string
	}
	AWS struct {
		Profile string
	}
	Import struct {
		// Dir reads datasets from a local directory instead of the bucket.
		Dir         string
		Concurrency int
	}
	Log struct {
		Level string
	}
}

func (c Config) AccessTTL() time.Duration {
	return time.Duration(c.Auth.AccessTTLMinutes) * time.Minute
}

func (c Config) RefreshTTL() time.Duration {
	return time.Duration(c.Auth.RefreshTTLDays) * 24 * time.Hour
}

func (c Config) Leeway() time.Duration {
	return time.Duration(c.Auth.LeewaySeconds) * time.Second
}

// Load reads configuration from environment variables and optional config files.
func Load() (Config, error) {
	loadDotEnv(".env")
	return load(viper.New())
}

// LoadWithFlags is Load with command-line overrides. bindings maps config
// keys such as "storage.bucket" to flag names; a flag only wins when set.
func LoadWithFlags(flags *pflag.FlagSet, bindings map[string]string) (Config, error) {
	loadDotEnv(".env")
	v := viper.New()
	for key, name := range bindings {
		f := flags.Lookup(name)
		if f == nil {
			return Config{}, fmt.Errorf("unknown flag %q for %s", name, key)
		}
		if err := v.BindPFlag(key, f); err != nil {
			return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return load(v)
}

func load(v *viper.Viper) (Config, error) {
	v.SetEnvPrefix("BUDONG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	v.SetConfigName("config")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional file

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// AutomaticEnv only resolves keys viper already knows about, so every key
// gets a default even when it is empty.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", "0.0.0.0:8080")
	v.SetDefault("server.readtimeout", 15*time.Second)
	v.SetDefault("server.writetimeout", 30*time.Second)
	v.SetDefault("server.shutdowntimeout", 10*time.Second)
	v.SetDefault("server.trustedproxies", []string{})
	v.SetDefault("database.path", "data/budong.db")

	v.SetDefault("auth.jwtsecret", "")
	v.SetDefault("auth.algorithm", "HS256")
	v.SetDefault("auth.accessttlminutes", 30)
	v.SetDefault("auth.refreshttldays", 7)
	v.SetDefault("auth.leewayseconds", 0)
	v.SetDefault("auth.bcryptcost", bcrypt.DefaultCost)
	v.SetDefault("auth.hashconcurrency", 0)
	v.SetDefault("auth.revocation", false)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("search.maxradiusmeters", 5000.0)
	v.SetDefault("search.nearbyradiusmeters", 500.0)
	v.SetDefault("search.stationradiusmeters", 1000.0)

	v.SetDefault("ratelimit.rps", 5.0)
	v.SetDefault("ratelimit.burst", 10)

	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.keyprefix", "budong-datasets")
	v.SetDefault("storage.region", "ap-northeast-2")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("aws.profile", "")

	v.SetDefault("import.dir", "")
	v.SetDefault("import.concurrency", 3)

	v.SetDefault("log.level", "info")
}

// Validate reports every problem with the server settings at once.
func (c Config) Validate() error {
	var errs []error
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("auth.jwtsecret is required"))
	}
	switch c.Auth.Algorithm {
	case "HS256", "HS384", "HS512":
	default:
		errs = append(errs, fmt.Errorf("auth.algorithm %q is not an HMAC algorithm", c.Auth.Algorithm))
	}
	if c.Auth.AccessTTLMinutes <= 0 {
		errs = append(errs, errors.New("auth.accessttlminutes must be positive"))
	}
	if c.Auth.RefreshTTLDays <= 0 {
		errs = append(errs, errors.New("auth.refreshttldays must be positive"))
	}
	if c.Auth.LeewaySeconds < 0 {
		errs = append(errs, errors.New("auth.leewayseconds must not be negative"))
	}
	if c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("auth.bcryptcost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost))
	}
	if c.Auth.Revocation && c.Redis.Addr == "" {
		errs = append(errs, errors.New("redis.addr is required when auth.revocation is enabled"))
	}
	if c.Search.MaxRadiusMeters <= 0 || c.Search.NearbyRadiusMeters <= 0 || c.Search.StationRadiusMeters <= 0 {
		errs = append(errs, errors.New("search radii must be positive"))
	}
	if c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0 {
		errs = append(errs, errors.New("ratelimit.rps and ratelimit.burst must be positive"))
	}
	if c.Database.Path == "" {
		errs = append(errs, errors.New("database.path is required"))
	}
	return errors.Join(errs...)
}

func loadDotEnv(path string) {
	file, err := os.Open(path)
	if err != nil {
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		partsIndex := strings.Index(line, "=")
		if partsIndex <= 0 {
			continue
		}

		key := strings.TrimSpace(line[:partsIndex])
		value := strings.TrimSpace(line[partsIndex+1:])
		value = strings.Trim(value, `"'`)
		if key == "" {
			continue
		}

		if _, exists := os.LookupEnv(key); !exists {
			_ = os.Setenv(key, value)
		}
	}
}
