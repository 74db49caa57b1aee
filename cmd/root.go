package cmd

import (
	"errors"
	"io/fs"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/interviewai/case-coach/internal/engine"
	"github.com/interviewai/case-coach/internal/provider"
)

const (
	app       = "case-coach"
	envPrefix = "CASE_COACH"
)

type Config struct {
	provider.Settings `mapstructure:",squash"`

	Engine  engine.Config `mapstructure:"engine"`
	Session SessionConfig `mapstructure:"session"`
	Server  ServerConfig  `mapstructure:"server"`
}

type SessionConfig struct {
	// Store is either "file" or "postgres".
	Store           string `mapstructure:"store"`
	Dir             string `mapstructure:"dir"`
	DatabaseURL     string `mapstructure:"database-url"`
	DatabaseURLFile string `mapstructure:"database-url-file"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "case-coach runs adaptive case-study mock interviews backed by an LLM",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	if err := viper.BindEnv("session.database-url", envPrefix+"_DATABASE_URL"); err != nil {
		log.Fatalf("binding %s_DATABASE_URL environment variable: %v", envPrefix, err)
	}

	viper.SetDefault("provider", "gemini")
	viper.SetDefault("engine.ceiling", engine.DefaultCeiling)
	viper.SetDefault("engine.setup-timeout", engine.DefaultSetupTimeout)
	viper.SetDefault("engine.followup-timeout", engine.DefaultFollowUpTimeout)
	viper.SetDefault("session.store", "file")
	viper.SetDefault("session.dir", "sessions")
	viper.SetDefault("server.addr", ":8080")

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is case-coach.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging (default when stderr is not a terminal)")
	rootCmd.PersistentFlags().String("provider", "", "generation backend: gemini, anthropic, openai or bedrock")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("provider", rootCmd.PersistentFlags().Lookup("provider"))
}

func initConfig() {
	// A missing .env is normal; only a broken one is reported.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("loading .env: %v", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	err := viper.ReadInConfig()
	if err == nil {
		return
	}

	// Without an explicit file every setting can come from env and defaults.
	var notFound viper.ConfigFileNotFoundError
	if cfgFile == "" && errors.As(err, &notFound) {
		return
	}

	// We can't proceed if the config file parsed with error.
	log.Fatal(err)
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config == nil {
		config = &Config{}
	}
	config.Settings.MaxLogLength = config.Engine.MaxLogLength

	return config, nil
}
