package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"akasha/internal/db"
	"akasha/internal/logger"
	"akasha/internal/model"
	"akasha/internal/proxy"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status [subscription_name]",
	Short: "Show stored subscriptions and their usage",
	Long:  `Displays a dashboard of the database: every stored subscription with its proxy count, traffic usage and expiry. With a name, prints that subscription's details.`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfigOrDefault()
		if err != nil {
			logger.Log.Fatalf("Error loading config: %v", err)
		}

		database, err := db.Connect(cfg.Database.Path)
		if err != nil {
			logger.Log.Fatalf("Error connecting to DB: %v", err)
		}
		defer db.Close(database)
		if err := db.Migrate(database); err != nil {
			logger.Log.Fatalf("Error migrating DB: %v", err)
		}

		if len(args) == 1 {
			sub, err := db.GetSubscription(database, args[0])
			if err != nil {
				logger.Log.Fatalf("%v", err)
			}
			printSubscription(os.Stdout, sub)
			return
		}

		subs, err := db.LoadSubscriptions(database, nil)
		if err != nil {
			logger.Log.Fatalf("%v", err)
		}

		printStatus(os.Stdout, cfg.Database.Path, getFileSize(cfg.Database.Path), subs, time.Now())
	},
}

func printStatus(out io.Writer, dbPath string, dbSize int64, subs []model.Subscription, now time.Time) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprintln(out, "\n📊 \033[1mAKASHA STATUS DASHBOARD\033[0m")
	fmt.Fprintln(out, "────────────────────────────────────────")

	fmt.Fprintln(w, "\033[1;36m[ SYSTEM ]\033[0m\t")
	fmt.Fprintf(w, "  Database Path:\t%s\n", dbPath)
	fmt.Fprintf(w, "  DB Size:\t%s\n", formatBytes(dbSize))
	fmt.Fprintf(w, "  Subscriptions:\t%d\n", len(subs))
	fmt.Fprintln(w, "\t")

	fmt.Fprintln(w, "\033[1;36m[ SUBSCRIPTIONS ]\033[0m\t")
	if len(subs) == 0 {
		fmt.Fprintln(w, "  (Nothing fetched yet)")
	} else {
		fmt.Fprintln(w, "  NAME\tPROXIES\tUSED\tTOTAL\tREMAINING\tEXPIRES\tFETCHED")
		for _, s := range subs {
			fmt.Fprintf(w, "  %s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				s.Name,
				proxyCount(s.Payload),
				formatBytes(s.Userinfo.Used()),
				formatTotal(s.Userinfo.Total),
				formatRemaining(s.Userinfo),
				formatExpiry(s.Userinfo, now),
				s.FetchedAt.Format("2006-01-02 15:04"),
			)
		}
	}

	w.Flush()
	fmt.Fprintln(out, "")
}

func printSubscription(out io.Writer, s *model.Subscription) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Name:\t%s\n", s.Name)
	fmt.Fprintf(w, "Source:\t%s\n", s.Source)
	fmt.Fprintf(w, "Fetched:\t%s\n", s.FetchedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "Proxies:\t%s\n", proxyCount(s.Payload))
	fmt.Fprintf(w, "Payload:\t%s\n", formatBytes(int64(len(s.Payload))))
	fmt.Fprintf(w, "%s:\t%s\n", model.UserinfoHeader, s.Userinfo)
	w.Flush()
}

func proxyCount(payload []byte) string {
	doc, err := proxy.Decode(payload)
	if err != nil {
		return "invalid"
	}
	if len(doc.Unsupported) > 0 {
		return fmt.Sprintf("%d (+%d)", len(doc.Proxies), len(doc.Unsupported))
	}
	return fmt.Sprintf("%d", len(doc.Proxies))
}

// formatTotal renders 0 as unlimited, matching providers that omit total.
func formatTotal(b int64) string {
	if b <= 0 {
		return "∞"
	}
	return formatBytes(b)
}

func formatRemaining(u model.SubscriptionUserinfo) string {
	if u.Total <= 0 {
		return "∞"
	}
	return formatBytes(u.Remaining())
}

func formatExpiry(u model.SubscriptionUserinfo, now time.Time) string {
	at, ok := u.ExpiresAt()
	if !ok {
		return "never"
	}
	if at.Before(now) {
		return "expired"
	}
	return fmt.Sprintf("%s (%dd)", at.Format("2006-01-02"), int(at.Sub(now).Hours()/24))
}

func getFileSize(path string) int64 {
	fi, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return fi.Size()
}

func formatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
