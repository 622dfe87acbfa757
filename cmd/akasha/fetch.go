package main

import (
	"akasha/internal/collectors"
	"akasha/internal/db"
	"akasha/internal/logger"
	"akasha/internal/model"
	"akasha/internal/proxy"

	"github.com/spf13/cobra"
)

var fetchParams map[string]string

var fetchCmd = &cobra.Command{
	Use:   "fetch [subscription_names...]",
	Short: "Fetch subscriptions and store them",
	Long:  `Run the collector of every subscription in config, or only the named ones. Use --param to override collector parameters.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfigOrDefault()
		if err != nil {
			logger.Log.Fatalf("Error loading config: %v", err)
		}

		cfg.FilterSubscriptions(args)
		if len(cfg.Subscriptions) == 0 {
			logger.Log.Warn("No subscriptions matched the provided names.")
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

		for _, sCfg := range cfg.Subscriptions {
			logger.Log.Infof("🏃 Fetching subscription: %s (%s)...", sCfg.Name, sCfg.Type)

			collector, err := collectors.Get(sCfg.Type)
			if err != nil {
				logger.Log.Warnf("Skipping: %v", err)
				continue
			}

			params := make(map[string]interface{}, len(sCfg.Params)+4)
			if cfg.Fetch.Proxy != "" {
				params["_proxy_url"] = cfg.Fetch.Proxy
			}
			params["_timeout"] = cfg.Fetch.Timeout
			params["_user_agent"] = cfg.Fetch.UserAgent
			params["_retries"] = cfg.Fetch.Retries
			for k, v := range sCfg.Params {
				params[k] = v
			}
			params = applyParams(params, fetchParams)

			payload, err := collector.Collect(params)
			if err != nil {
				logger.Log.Errorf("Error fetching %s: %v", sCfg.Name, err)
				continue
			}

			doc, err := proxy.Decode(payload.Data)
			if err != nil {
				logger.Log.Warnf("Subscription %s is not a valid proxies list: %v", sCfg.Name, err)
			}

			sub := &model.Subscription{
				Name:    sCfg.Name,
				Source:  payload.Source,
				Payload: payload.Data,
			}
			if payload.Userinfo != nil {
				sub.Userinfo = *payload.Userinfo
			}
			if err := db.SaveSubscription(database, sub); err != nil {
				logger.Log.Errorf("%v", err)
				continue
			}

			if doc != nil {
				logger.Log.Infof("✅ %s stored: %d proxies, %d unsupported.", sCfg.Name, len(doc.Proxies), len(doc.Unsupported))
			} else {
				logger.Log.Infof("✅ %s stored.", sCfg.Name)
			}
		}
	},
}

func init() {
	fetchCmd.Flags().StringToStringVarP(&fetchParams, "param", "p", nil, "Override collector params (e.g. -p url=https://...)")
	rootCmd.AddCommand(fetchCmd)
}
