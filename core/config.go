package core

import (
	"fmt"
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		AppName         string
		Env             string // DEV (default) | TEST | QA | PROD
		Debug           bool
		TestMode        bool
		Build           string
		WorkDir         string
		SecretKey       string
		FrontendBaseURL string

		DefaultFromEmail          mail.Address
		PasswordResetTimeoutDelta time.Duration

		Server   ServerConfig
		Database DatabaseConfig
		Upload   UploadConfig

		SendgridApiKey string
		RollbarToken   string
	}

	ServerConfig struct {
		Host                      string
		Port                      int
		ShutdownTimeout           time.Duration
		JWTExpirationDelta        time.Duration
		JWTRefreshExpirationDelta time.Duration
	}

	DatabaseConfig struct {
		Engine        string
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		Host          string
		Port          int
		DisableTLS    bool
	}

	UploadConfig struct {
		Dir     string
		MaxSize int64 // bytes
	}
)

func (c ServerConfig) Address() string   { return fmt.Sprintf("%s:%d", c.Host, c.Port) }
func (c DatabaseConfig) Address() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

// NewConfig loads the app configuration from defaults, an optional
// config/.env.<env> file and environment variables (in increasing priority).
func NewConfig() *Config {
	conf := viper.New()
	conf.SetTypeByDefaultValue(true)

	// defaults
	conf.SetDefault("debug", true)
	conf.SetDefault("appName", "UniQuest")
	conf.SetDefault("secretKey", "y0#ush^ll-n0t-p@ss*this-k3y-t0=prod")
	conf.SetDefault("frontendBaseURL", "http://localhost:5173")
	conf.SetDefault("defaultFromEmail", "noreply@localhost")
	conf.SetDefault("passwordResetTimeoutDelta", 3*24*time.Hour)
	conf.SetDefault("server.host", "")
	conf.SetDefault("server.port", 8000)
	conf.SetDefault("server.shutdownTimeout", 5*time.Second)
	conf.SetDefault("server.jwtExpirationDelta", 7*24*time.Hour)
	conf.SetDefault("server.jwtRefreshExpirationDelta", 4*time.Hour)
	conf.SetDefault("database.engine", "postgres")
	conf.SetDefault("database.name", "uniquest")
	conf.SetDefault("database.user", "uniquest")
	conf.SetDefault("database.password", "uniquest")
	conf.SetDefault("database.host", "localhost")
	conf.SetDefault("database.port", 5432)
	conf.SetDefault("database.disableTLS", true)
	conf.SetDefault("upload.dir", "uploads")
	conf.SetDefault("upload.maxSize", int64(20<<20))

	env := strings.ToUpper(os.Getenv("ENV"))
	if env == "" {
		env = "DEV"
	}
	conf.SetEnvPrefix(env)
	conf.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	wd := Getwd()

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err = godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	c := &Config{
		AppName:         conf.GetString("appName"),
		Env:             env,
		Debug:           conf.GetBool("debug"),
		TestMode:        env == "TEST",
		Build:           conf.GetString("build"),
		WorkDir:         wd,
		SecretKey:       conf.GetString("secretKey"),
		FrontendBaseURL: conf.GetString("frontendBaseURL"),
		DefaultFromEmail: mail.Address{
			Name:    conf.GetString("appName"),
			Address: conf.GetString("defaultFromEmail"),
		},
		PasswordResetTimeoutDelta: conf.GetDuration("passwordResetTimeoutDelta"),
		Server: ServerConfig{
			Host:                      conf.GetString("server.host"),
			Port:                      conf.GetInt("server.port"),
			ShutdownTimeout:           conf.GetDuration("server.shutdownTimeout"),
			JWTExpirationDelta:        conf.GetDuration("server.jwtExpirationDelta"),
			JWTRefreshExpirationDelta: conf.GetDuration("server.jwtRefreshExpirationDelta"),
		},
		Database: DatabaseConfig{
			Engine:        conf.GetString("database.engine"),
			Name:          conf.GetString("database.name"),
			User:          conf.GetString("database.user"),
			Password:      conf.GetString("database.password"),
			AdminUser:     conf.GetString("database.adminUser"),
			AdminPassword: conf.GetString("database.adminPassword"),
			Host:          conf.GetString("database.host"),
			Port:          conf.GetInt("database.port"),
			DisableTLS:    conf.GetBool("database.disableTLS"),
		},
		Upload: UploadConfig{
			Dir:     conf.GetString("upload.dir"),
			MaxSize: conf.GetInt64("upload.maxSize"),
		},
		SendgridApiKey: conf.GetString("sendgridApiKey"),
		RollbarToken:   conf.GetString("rollbarToken"),
	}
	if c.TestMode {
		c.Database.Name += "_test"
	}
	return c
}
