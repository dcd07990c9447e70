package core

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type (
	// Config carries all application settings. It is loaded once in main
	// and passed down explicitly; there is no package-level instance.
	Config struct {
		Debug        bool
		TestMode     bool
		AppName      string
		Env          string // DEV (local; default), TEST, QA, PROD
		Build        string
		SecretKey    string
		SessionTTL   time.Duration
		LoginDelay   time.Duration
		RollbarToken string

		Guard    GuardConfig
		Server   ServerConfig
		Storage  StorageConfig
		Redis    RedisConfig
		Database DatabaseConfig
	}

	GuardConfig struct {
		// Authority selects which persisted identity record the route
		// guard trusts: "session" or "remembered".
		Authority string
	}

	ServerConfig struct {
		Host string
		Port int
	}

	StorageConfig struct {
		// Path of the local bbolt file holding the persistent records.
		Path string
	}

	RedisConfig struct {
		// Addr switches the persistent record store to redis when set.
		Addr     string
		Password string
	}

	DatabaseConfig struct {
		Engine     string
		Name       string
		User       string
		Password   string
		Host       string
		Port       int
		DisableTLS bool
	}
)

func (c ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c DatabaseConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LoadConfig reads settings from the defaults, an optional config/.env.<env>
// file and ENV-prefixed environment variables, in increasing precedence.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	// defaults
	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("appName", "Freshman3rd")
	v.SetDefault("secretKey", "x1u&$h0q3s)d8mz!+vr5g@w7^p4ncy#t2eb9k6fja%l_o(i=")
	v.SetDefault("sessionTTL", 24*time.Hour)
	v.SetDefault("loginDelay", 500*time.Millisecond)
	v.SetDefault("guard.authority", "session")
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8000)
	v.SetDefault("storage.path", filepath.Join("data", "webstore.db"))
	v.SetDefault("database.engine", "postgres")
	v.SetDefault("database.name", "school_management")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.disableTLS", true)

	env := os.Getenv("ENV")
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
		v.SetDefault("loginDelay", time.Duration(0))
	}
	v.SetDefault("env", env)
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err = godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "loading %s", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "checking %s", dotEnvPath)
	}
	v.AutomaticEnv()

	conf := new(Config)
	if err := v.Unmarshal(conf); err != nil {
		return nil, errors.Wrap(err, "unmarshalling config")
	}
	return conf, nil
}
