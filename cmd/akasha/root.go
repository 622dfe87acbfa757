package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"akasha/internal/config"
	"akasha/internal/geoip"
	"akasha/internal/logger"

	"github.com/spf13/cobra"
)

var cfgFile string
var verbose bool
var logFile string

var rootCmd = &cobra.Command{
	Use:   "akasha",
	Short: "Turn Clash/mihomo subscriptions into share links",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Init(verbose, logFile)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		geoip.Close()
		logger.Sync()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfigOrDefault falls back to defaults when no --config was given and
// the default file does not exist.
func loadConfigOrDefault() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil && cfgFile == "" && errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	return cfg, err
}

// applyParams copies --param overrides into params. Integer-looking values
// become ints, true/false become bools.
func applyParams(params map[string]interface{}, overrides map[string]string) map[string]interface{} {
	if params == nil {
		params = make(map[string]interface{})
	}
	for k, v := range overrides {
		if intVal, err := strconv.Atoi(v); err == nil {
			params[k] = intVal
		} else if boolVal, err := strconv.ParseBool(v); err == nil {
			params[k] = boolVal
		} else {
			params[k] = v
		}
	}
	return params
}

// initGeoIP opens the country database when one is configured. Failure only
// disables flags.
func initGeoIP(cfg *config.Config) {
	if cfg.GeoIP.CountryPath == "" {
		return
	}
	if err := geoip.Init(cfg.GeoIP.CountryPath); err != nil {
		logger.Log.Warnf("GeoIP disabled: %v", err)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./akasha.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to file instead of stderr (overwrites file)")
}
