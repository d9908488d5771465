package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const minimalTimeFormat = "15:04:05.000"

var (
	configFile string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "outfit-matcher",
	Short: "Suggest outfits from photos of your face and wardrobe",
	Long: `Outfit Matcher classifies a face photo by skin tone and garment photos by
dominant colour, then pairs tops with bottoms and attaches a matching palette
from Sanzo Wada's Dictionary of Colour Combinations.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Optional config file (yaml, json or toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides LOG_LEVEL")
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()

	if configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: unable to read config %s: %v\n", configFile, err)
		}
	}
}

func setupLogging() error {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = minimalTimeFormat
	log.Logger = log.Output(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
		w.TimeFormat = minimalTimeFormat
		w.Out = os.Stderr
	}))

	level := logLevel
	if level == "" {
		viper.SetDefault("log_level", "info")
		viper.AutomaticEnv()
		level = viper.GetString("log_level")
	}
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("unable to parse log level %q: %w", level, err)
	}
	zerolog.SetGlobalLevel(parsed)
	log.Debug().Str("file", viper.ConfigFileUsed()).Msg("config")
	return nil
}
