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
		Env          string // DEV (local; default), TEST, QA, PROD
		Build        string
		Debug        bool
		TestMode     bool
		AppName      string
		SecretKey    string
		RollbarToken string
		WorkDir      string

		DefaultFromEmail mail.Address
		SendgridApiKey   string

		School   SchoolConfig
		Grading  GradingConfig
		Server   ServerConfig
		Database DatabaseConfig
	}

	SchoolConfig struct {
		Name         string `json:"name"`
		Subtitle     string `json:"subtitle,omitempty"`
		Address      string `json:"address,omitempty"`
		ClosingDate  string `json:"closing_date,omitempty"`
		OpeningDate  string `json:"opening_date,omitempty"`
		ClassComment string `json:"class_comment,omitempty"`
	}

	GradingConfig struct {
		// TreatZeroAsAbsent makes a mark or mean of 0 count as "not examined".
		TreatZeroAsAbsent bool
	}

	ServerConfig struct {
		Host               string
		DebugHost          string
		ShutdownTimeout    time.Duration
		JWTExpirationDelta time.Duration
	}

	DatabaseConfig struct {
		Engine        string
		Host          string
		Port          int
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
	}
)

func (db DatabaseConfig) Address() string {
	return fmt.Sprintf("%s:%d", db.Host, db.Port)
}

// NewConfig loads the configuration from defaults, the optional config/.env.<env> file and the environment.
// Env vars are prefixed by the env name, eg. PROD_DATABASE_HOST.
func NewConfig() *Config {
	conf := viper.New()

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("debug", true)
	conf.SetDefault("build", "develop")
	conf.SetDefault("appName", "Report Cards")
	conf.SetDefault("secretKey", "poq5-wer)enb$+57=dz&uoxh2(h!x)#*c2(#yg4h^$cegm2emy")
	conf.SetDefault("rollbarToken", "")
	conf.SetDefault("defaultFromEmail", "Neptune Academy <no-reply@neptune.ac.ke>")
	conf.SetDefault("sendgridApiKey", "")
	conf.SetDefault("school.name", "NEPTUNE ACADEMY")
	conf.SetDefault("school.subtitle", "PRIMARY, JUNIOR AND SENIOR SCHOOLS")
	conf.SetDefault("school.address", "P.O BOX 11722 - 00100, UMOJA, NAIROBI")
	conf.SetDefault("school.closingDate", "")
	conf.SetDefault("school.openingDate", "")
	conf.SetDefault("school.classComment", "")
	conf.SetDefault("grading.treatZeroAsAbsent", true)
	conf.SetDefault("server.host", "0.0.0.0:8000")
	conf.SetDefault("server.debugHost", "0.0.0.0:4000")
	conf.SetDefault("server.shutdownTimeout", 5*time.Second)
	conf.SetDefault("server.jwtExpirationDelta", 7*24*time.Hour)
	conf.SetDefault("database.engine", "postgres")
	conf.SetDefault("database.host", "localhost")
	conf.SetDefault("database.port", 5432)
	conf.SetDefault("database.name", "reportcards")
	conf.SetDefault("database.user", "")
	conf.SetDefault("database.password", "")
	conf.SetDefault("database.adminUser", "postgres")
	conf.SetDefault("database.adminPassword", "")
	conf.SetDefault("database.disableTLS", true)

	env := strings.ToUpper(os.Getenv("ENV"))
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		conf.SetDefault("testMode", true)
	}
	conf.SetEnvPrefix(env)
	conf.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	wd := Getwd()

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	from, err := mail.ParseAddress(conf.GetString("defaultFromEmail"))
	if err != nil {
		log.Fatalf("config.defaultFromEmail: %v", err)
	}

	return &Config{
		Env:          env,
		Build:        conf.GetString("build"),
		Debug:        conf.GetBool("debug"),
		TestMode:     conf.GetBool("testMode"),
		AppName:      conf.GetString("appName"),
		SecretKey:    conf.GetString("secretKey"),
		RollbarToken: conf.GetString("rollbarToken"),
		WorkDir:      wd,

		DefaultFromEmail: *from,
		SendgridApiKey:   conf.GetString("sendgridApiKey"),
		School: SchoolConfig{
			Name:         conf.GetString("school.name"),
			Subtitle:     conf.GetString("school.subtitle"),
			Address:      conf.GetString("school.address"),
			ClosingDate:  conf.GetString("school.closingDate"),
			OpeningDate:  conf.GetString("school.openingDate"),
			ClassComment: conf.GetString("school.classComment"),
		},
		Grading: GradingConfig{
			TreatZeroAsAbsent: conf.GetBool("grading.treatZeroAsAbsent"),
		},
		Server: ServerConfig{
			Host:               conf.GetString("server.host"),
			DebugHost:          conf.GetString("server.debugHost"),
			ShutdownTimeout:    conf.GetDuration("server.shutdownTimeout"),
			JWTExpirationDelta: conf.GetDuration("server.jwtExpirationDelta"),
		},
		Database: DatabaseConfig{
			Engine:        conf.GetString("database.engine"),
			Host:          conf.GetString("database.host"),
			Port:          conf.GetInt("database.port"),
			Name:          conf.GetString("database.name"),
			User:          conf.GetString("database.user"),
			Password:      conf.GetString("database.password"),
			AdminUser:     conf.GetString("database.adminUser"),
			AdminPassword: conf.GetString("database.adminPassword"),
			DisableTLS:    conf.GetBool("database.disableTLS"),
		},
	}
}
