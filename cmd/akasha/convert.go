package main

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"strings"

	"akasha/internal/geoip"
	"akasha/internal/logger"
	"akasha/internal/metrics"
	"akasha/internal/proxy"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

// Inputs smaller than this render without a progress bar.
const progressThreshold = 500

var (
	flagReport bool
	flagBase64 bool
	flagFlag   bool

	flagMetricsFile string
)

var convertCmd = &cobra.Command{
	Use:   "convert [file]",
	Short: "Convert a Clash/mihomo proxies list into share links",
	Long:  `Reads a Clash/mihomo YAML document from the given file (or stdin) and prints one share link per supported proxy.`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		data, err := readInput(args)
		if err != nil {
			logger.Log.Fatalf("Error reading input: %v", err)
		}

		doc, err := proxy.Decode(data)
		if err != nil {
			logger.Log.Fatalf("Error decoding document: %v", err)
		}
		if len(doc.Unsupported) > 0 {
			logger.Log.Warnf("Skipped %d proxies of unsupported types: %s", len(doc.Unsupported), strings.Join(doc.Unsupported, ", "))
		}

		if flagFlag {
			cfg, err := loadConfigOrDefault()
			if err != nil {
				logger.Log.Fatalf("Error loading config: %v", err)
			}
			initGeoIP(cfg)
		}

		stats := metrics.New()
		stats.RecordUnsupported(doc.Unsupported)

		var bar *progressbar.ProgressBar
		if len(doc.Proxies) >= progressThreshold {
			bar = newProgressBar(len(doc.Proxies), "[cyan]Rendering...[reset]")
		}
		links := renderLinks(doc.Proxies, nil, stats, bar, flagFlag)
		if bar != nil {
			bar.Finish()
			fmt.Fprintln(os.Stderr)
		}

		out := strings.Join(links, "\n")
		if flagBase64 {
			out = base64.StdEncoding.EncodeToString([]byte(out))
		}
		if out != "" {
			fmt.Fprintln(cmd.OutOrStdout(), out)
		}

		if flagReport {
			stats.PrintReport(os.Stderr)
		}
		if flagMetricsFile != "" {
			if err := stats.WriteTextfile(flagMetricsFile); err != nil {
				logger.Log.Errorf("%v", err)
			}
		}
	},
}

func readInput(args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(args[0])
}

// renderLinks renders every proxy in order. Failures are logged, counted and
// skipped; bar may be nil.
func renderLinks(proxies []proxy.Proxy, rng proxy.Rand, stats *metrics.Collector, bar *progressbar.ProgressBar, flag bool) []string {
	links := make([]string, 0, len(proxies))
	for _, p := range proxies {
		if flag {
			if country, err := geoip.Country(p.Server()); err == nil && country != "" {
				p = p.WithName(geoip.Flag(country) + " " + p.Name())
			}
		}

		link, err := p.Render(rng)
		if err != nil {
			logger.Log.Debugf("⚠️ %v", err)
			stats.RecordFailure(err)
		} else {
			stats.RecordSuccess(p.Kind)
			links = append(links, link)
		}

		if bar != nil {
			bar.Add(1)
		}
	}
	return links
}

func newProgressBar(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowBytes(false),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(15),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}

func init() {
	convertCmd.Flags().BoolVar(&flagReport, "report", false, "Print a render report to stderr")
	convertCmd.Flags().BoolVar(&flagBase64, "base64", false, "Base64-encode the whole output")
	convertCmd.Flags().BoolVar(&flagFlag, "flag", false, "Prefix names with a country flag (needs geoip.country_path)")
	convertCmd.Flags().StringVar(&flagMetricsFile, "metrics-file", "", "Write render counters in node_exporter textfile format")
	rootCmd.AddCommand(convertCmd)
}
