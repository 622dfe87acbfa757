package main

import (
	"os"

	"akasha/internal/db"
	"akasha/internal/logger"
	"akasha/internal/metrics"
	"akasha/internal/proxy"
	"akasha/internal/publishers"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var publishParams map[string]string

var publishCmd = &cobra.Command{
	Use:   "publish [publisher_names...]",
	Short: "Publish stored subscriptions as share links",
	Long:  `Run all publishers or specific ones. Use --param to override publisher configuration.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfigOrDefault()
		if err != nil {
			logger.Log.Fatalf("Error loading config: %v", err)
		}

		cfg.FilterPublishers(args)
		if len(cfg.Publishers) == 0 {
			logger.Log.Warn("No publishers matched.")
			return
		}

		database, err := db.Connect(cfg.Database.Path)
		if err != nil {
			logger.Log.Fatalf("Error connecting to DB: %v", err)
		}
		defer db.Close(database)
		if err := db.Migrate(database); err != nil {
			logger.Log.Fatalf("Error migrating DB: %v", err)
		}

		initGeoIP(cfg)
		stats := metrics.New()

		for _, pubCfg := range cfg.Publishers {
			logger.Log.Infof("📨 Running Publisher: %s (%s)...", pubCfg.Name, pubCfg.Type)

			plugin, err := publishers.Get(pubCfg.Type)
			if err != nil {
				logger.Log.Warnf("Plugin not found: %v", err)
				continue
			}

			params := applyParams(pubCfg.Params, publishParams)
			params["_metrics"] = stats
			if cfg.Fetch.Proxy != "" {
				params["_proxy_url"] = cfg.Fetch.Proxy
			}
			if _, ok := params["_timeout"]; !ok {
				params["_timeout"] = cfg.Fetch.Timeout
			}
			if _, ok := params["_retries"]; !ok {
				params["_retries"] = cfg.Fetch.Retries
			}

			proxies, err := loadProxies(database, pubCfg.Subscriptions)
			if err != nil {
				logger.Log.Errorf("Publish failed: %v", err)
				continue
			}

			if err := plugin.Publish(proxies, params); err != nil {
				logger.Log.Errorf("Publish failed: %v", err)
			} else {
				logger.Log.Infof("✅ Published %d proxies.", len(proxies))
			}
		}

		if verbose {
			stats.PrintReport(os.Stderr)
		}
		if cfg.Metrics.Textfile != "" {
			if err := stats.WriteTextfile(cfg.Metrics.Textfile); err != nil {
				logger.Log.Errorf("%v", err)
			}
		}
	},
}

// loadProxies decodes the stored subscriptions, in name order. A document
// that fails to decode is skipped.
func loadProxies(database *gorm.DB, names []string) ([]proxy.Proxy, error) {
	subs, err := db.LoadSubscriptions(database, names)
	if err != nil {
		return nil, err
	}

	var proxies []proxy.Proxy
	for _, sub := range subs {
		doc, err := proxy.Decode(sub.Payload)
		if err != nil {
			logger.Log.Warnf("Skipping subscription %s: %v", sub.Name, err)
			continue
		}
		if len(doc.Unsupported) > 0 {
			logger.Log.Debugf("%s: %d proxies of unsupported types skipped", sub.Name, len(doc.Unsupported))
		}
		proxies = append(proxies, doc.Proxies...)
	}
	return proxies, nil
}

func init() {
	publishCmd.Flags().StringToStringVarP(&publishParams, "param", "p", nil, "Override publisher params (e.g. -p path=sub.txt)")
	rootCmd.AddCommand(publishCmd)
}
