// AgriPulse: commodity price dashboard for Indian agriculture.
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/seenimoa/agripulse/api"
	"github.com/seenimoa/agripulse/internal/config"
	"github.com/seenimoa/agripulse/internal/dashboard"
	"github.com/seenimoa/agripulse/internal/logging"
	"github.com/seenimoa/agripulse/pkg/utils"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global state, populated by the root command before any subcommand runs.
var (
	cfg        *config.Config
	configFile string
	logger     *zap.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "agripulse",
	Short: "AgriPulse — commodity price dashboard for Indian agriculture",
	Long: `AgriPulse synthesizes deterministic twelve-month price series, mandi
comparisons and sell/hold advice for Indian agricultural commodities.
The same commodity always produces the same numbers.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ = cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if level, _ := cmd.Flags().GetString("log-level"); level != "" {
			cfg.Logging.Level = level
		}
		if cmd.Flags().Changed("current-month") {
			month, _ := cmd.Flags().GetInt("current-month")
			if err := cfg.Catalog.CheckMonth(month); err != nil {
				return err
			}
			cfg.Forecast.CurrentMonth = month
		}

		logger, err = logging.New(cfg.Logging)
		if err != nil {
			return err
		}
		api.Version = version
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")
	rootCmd.PersistentFlags().Int("current-month", 0, "current month index override, 0 = Jan")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(pricesCmd)
	rootCmd.AddCommand(marketsCmd)
	rootCmd.AddCommand(adviseCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(serveCmd)
}

func newService() *dashboard.Service {
	return dashboard.New(cfg, dashboard.WithLogger(logger.Named("dashboard")))
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "AgriPulse %s\n", version)
		fmt.Fprintf(out, "  commit:  %s\n", commit)
		fmt.Fprintf(out, "  built:   %s\n", date)
	},
}

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		source := configFile
		if source == "" {
			source = "search path / built-in defaults"
		}

		fmt.Fprintln(out, "═══════════════════════════════════════")
		fmt.Fprintln(out, "  AgriPulse — Status")
		fmt.Fprintln(out, "═══════════════════════════════════════")
		fmt.Fprintf(out, "  Version:       %s (%s)\n", version, commit)
		fmt.Fprintf(out, "  Time (IST):    %s\n", utils.FormatDateTimeIST(utils.NowIST()))
		fmt.Fprintf(out, "  Config:        %s\n", source)
		fmt.Fprintln(out)
		fmt.Fprintln(out, "  Catalog:")
		fmt.Fprintf(out, "    Commodities:   %d\n", len(cfg.Catalog.Commodities))
		fmt.Fprintf(out, "    Markets:       %d\n", len(cfg.Catalog.Markets))
		fmt.Fprintf(out, "    States:        %d\n", len(cfg.Catalog.States))
		fmt.Fprintf(out, "    Current Month: %s (%d)\n", cfg.Catalog.Months[cfg.Forecast.CurrentMonth], cfg.Forecast.CurrentMonth)
		fmt.Fprintln(out)
		fmt.Fprintln(out, "  Services:")
		fmt.Fprintf(out, "    API Server:    %s\n", net.JoinHostPort(cfg.API.Host, strconv.Itoa(cfg.API.Port)))
		fmt.Fprintf(out, "    Stream Limit:  %.1f selections/s (burst %d)\n", cfg.Stream.SelectionsPerSec, cfg.Stream.Burst)
		fmt.Fprintf(out, "    Logging:       %s (%s)\n", cfg.Logging.Level, cfg.Logging.Format)
		fmt.Fprintln(out, "═══════════════════════════════════════")
		return nil
	},
}

// --- Catalog Command ---

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List commodities, markets and states",
	RunE: func(cmd *cobra.Command, args []string) error {
		if path, _ := cmd.Flags().GetString("export"); path != "" {
			if err := config.SaveToFile(cfg, path); err != nil {
				return err
			}
			logger.Info("configuration exported", zap.String("path", path))
			return nil
		}
		printCatalog(cmd.OutOrStdout(), cfg.Catalog)
		return nil
	},
}

func init() {
	catalogCmd.Flags().String("export", "", "write the effective configuration as YAML to this path")
}

// --- Prices Command ---

var pricesCmd = &cobra.Command{
	Use:   "prices [commodity]",
	Short: "Show the twelve-month actual and forecast price series",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := newService().Build(cmd.Context(), dashboard.Request{Commodity: args[0]})
		if err != nil {
			return err
		}
		printPrices(cmd.OutOrStdout(), snap)
		return nil
	},
}

// --- Markets Command ---

var marketsCmd = &cobra.Command{
	Use:   "markets [commodity]",
	Short: "Compare the commodity's price across markets",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		market, _ := cmd.Flags().GetString("market")
		snap, err := newService().Build(cmd.Context(), dashboard.Request{
			Commodity: args[0],
			Market:    market,
		})
		if err != nil {
			return err
		}
		printMarkets(cmd.OutOrStdout(), snap)
		return nil
	},
}

func init() {
	marketsCmd.Flags().String("market", "", "highlight this market and show its spread to the best price")
}

// --- Advise Command ---

var adviseCmd = &cobra.Command{
	Use:   "advise [commodity]",
	Short: "Classify the price trend and recommend when to sell",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := newService().Build(cmd.Context(), dashboard.Request{Commodity: args[0]})
		if err != nil {
			return err
		}
		printAdvice(cmd.OutOrStdout(), snap)
		return nil
	},
}

// --- Dashboard Command ---

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Summarize every commodity in the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		snaps, err := newService().BuildAll(cmd.Context(), nil)
		if err != nil {
			return err
		}
		printDashboard(cmd.OutOrStdout(), snaps)
		return nil
	},
}

// --- Serve Command (API Server) ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("port") {
			cfg.API.Port, _ = cmd.Flags().GetInt("port")
		}
		addr := net.JoinHostPort(cfg.API.Host, strconv.Itoa(cfg.API.Port))
		fmt.Fprintf(cmd.OutOrStdout(), "🌐 Starting AgriPulse API server on %s\n", addr)
		return api.NewServer(cfg, configFile, logger).ListenAndServe(addr)
	},
}

func init() {
	serveCmd.Flags().Int("port", 0, "listen port override")
}
