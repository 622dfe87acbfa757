package main

import (
	"akasha/internal/logger"
	"akasha/internal/profile"

	"github.com/spf13/cobra"
)

var flagForce bool

var profileCmd = &cobra.Command{
	Use:   "profile [path]",
	Short: "Write the built-in mihomo profile",
	Long:  `Writes the default mihomo profile to the given path (or profile.path from config) unless a file already exists there.`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path := ""
		if len(args) == 1 {
			path = args[0]
		} else {
			cfg, err := loadConfigOrDefault()
			if err != nil {
				logger.Log.Fatalf("Error loading config: %v", err)
			}
			path = cfg.Profile.Path
		}

		written, err := profile.WriteIfMissing(path, flagForce)
		if err != nil {
			logger.Log.Fatalf("%v", err)
		}
		if written {
			logger.Log.Infof("✅ Default profile written to %s", path)
		} else {
			logger.Log.Infof("%s already exists, use --force to replace it", path)
		}
	},
}

func init() {
	profileCmd.Flags().BoolVar(&flagForce, "force", false, "Overwrite an existing file")
	rootCmd.AddCommand(profileCmd)
}
