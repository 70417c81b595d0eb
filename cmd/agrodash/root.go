package main

import (
	"os"
	"strings"

	"github.com/mchmarny/agrodash/pkg/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	appName   = "agrodash"
	envPrefix = "AGRODASH"

	keyLogLevel   = "log-level"
	keyMenuConfig = "menu-config"
)

var (
	version = "v0.0.0"  // Set at build time via -ldflags "-X main.version=version"
	commit  = "none"    // Set at build time via -ldflags "-X main.commit=commit"
	date    = "unknown" // Set at build time via -ldflags "-X main.date=date"

	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "Navigation service for the agricultural monitoring dashboard",
	Long: `agrodash serves the role-specific sidebar menus of the monitoring
dashboard and applies navigation interactions against client-held state.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetDefaultLoggerWithLevel(appName, version, viper.GetString(keyLogLevel))
	},
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml)")
	rootCmd.PersistentFlags().String(keyLogLevel, "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String(keyMenuConfig, "", "menu configuration file (default is the built-in menu)")

	mustBind(rootCmd.PersistentFlags().Lookup(keyLogLevel))
	mustBind(rootCmd.PersistentFlags().Lookup(keyMenuConfig))
	_ = viper.BindEnv(keyLogLevel, envPrefix+"_LOG_LEVEL", logger.EnvVarLogLevel)

	rootCmd.AddCommand(serveCmd, menuCmd, versionCmd)
}

// initConfig loads configuration from the config file and environment.
func initConfig() {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if cfgFile == "" {
		return
	}

	viper.SetConfigFile(cfgFile)
	if err := viper.ReadInConfig(); err != nil {
		// logging is not configured yet
		_, _ = os.Stderr.WriteString("failed to read config file: " + err.Error() + "\n")
		os.Exit(1)
	}
}
