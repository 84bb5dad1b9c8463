package cmd

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kukaryambik/prunepath/pkg/config"
	"github.com/kukaryambik/prunepath/pkg/logging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	appName = "prunepath"
)

type CommandOptions struct {
	ConfigFile  string
	DotenvFile  string
	KeepWorkdir bool

	// Rules given on the command line for the dir command.
	Keep   []string
	Delete []string
}

var (
	logLevel     string
	logFormat    string
	logTimestamp bool

	opts CommandOptions
)

func init() {
	viper.SetEnvPrefix(appName) // Environment variables prefixed with PRUNEPATH_
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Automatically bind environment variables

	addFlags()

	// Bind flags to environment variables
	viper.BindPFlags(RootCmd.PersistentFlags())

	RootCmd.AddCommand(
		runCmd(),
		dirCmd(),
		validateCmd(),
	)
}

var RootCmd = &cobra.Command{
	Use:           appName,
	Short:         "Prune packaged deployment archives by keep and delete rules",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// The dotenv file may set PRUNEPATH_* variables, so it is loaded first.
		opts.DotenvFile = viper.GetString("dotenv")
		if opts.DotenvFile != "" {
			if err := godotenv.Load(opts.DotenvFile); err != nil {
				return fmt.Errorf("error loading %s: %w", opts.DotenvFile, err)
			}
		}

		// Set variables from flags or environment
		opts.ConfigFile = viper.GetString("config")
		opts.KeepWorkdir = viper.GetBool("keep-workdir")
		logLevel = viper.GetString("verbosity")
		logFormat = viper.GetString("log-format")
		logTimestamp = viper.GetBool("log-timestamp")

		// Set up logging
		if err := logging.Configure(logLevel, logFormat, logTimestamp); err != nil {
			return err
		}

		logrus.Debugf("Options: %+v", opts)
		return nil
	},
}

func addFlags() {
	RootCmd.PersistentFlags().StringVarP(
		&opts.ConfigFile, "config", "c", config.DefaultFile,
		"Path to the service file; or use PRUNEPATH_CONFIG")
	RootCmd.MarkPersistentFlagFilename("config", "yml", "yaml")

	RootCmd.PersistentFlags().StringVarP(
		&opts.DotenvFile, "dotenv", "d", "", "Path to a .env file loaded before anything else")
	RootCmd.MarkPersistentFlagFilename("dotenv", "env")

	RootCmd.PersistentFlags().BoolVar(
		&opts.KeepWorkdir, "keep-workdir", false,
		"Leave unpacked working directories after repacking; or use PRUNEPATH_KEEP_WORKDIR")

	// Logging flags
	RootCmd.PersistentFlags().StringVarP(
		&logLevel, "verbosity", "v", logging.DefaultLevel,
		"Log level (trace, debug, info, warn, error, fatal, panic)",
	)
	RootCmd.PersistentFlags().StringVar(
		&logFormat, "log-format", logging.FormatColor,
		"Log format (text, color, json)",
	)
	RootCmd.PersistentFlags().BoolVar(
		&logTimestamp, "log-timestamp", logging.DefaultLogTimestamp,
		"Timestamp in log output",
	)
}
