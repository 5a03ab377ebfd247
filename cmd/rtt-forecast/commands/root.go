package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"rtt-forecast/internal/config"
	"rtt-forecast/internal/logging"
	"rtt-forecast/internal/mcp"
	"rtt-forecast/internal/scenario"
	"rtt-forecast/internal/workspace"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose      bool
	scenarioPath string
	cfg          *config.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "rtt-forecast",
	Short: "RTT-Forecast projects theatre waiting lists against the 18-week standard",
	Long: `Projects a surgical waiting list 52 weeks ahead from the current backlog, weekly demand
and timetabled theatre capacity, and solves for the activity needed to hit an RTT target.

Without a subcommand it runs as an MCP server on stdio.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(verbose)

		var err error
		cfg, err = config.Load()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}

		log.Info().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Msg("RTT-Forecast starting")
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		mcp.Version = Version
		return mcp.NewServer(cfg, ws).Serve(ctx)
	},
}

// openWorkspace restores the saved workspace and applies --scenario on top.
func openWorkspace() (*workspace.Workspace, error) {
	ws := workspace.New(cfg.Defaults)
	if err := ws.Load(cfg.WorkspaceFile); err != nil {
		aside, moveErr := workspace.SetAside(cfg.WorkspaceFile, time.Now())
		if moveErr != nil {
			return nil, fmt.Errorf("unreadable workspace %s was not replaced: %w", cfg.WorkspaceFile, err)
		}
		log.Warn().Err(err).Str("path", cfg.WorkspaceFile).Str("moved_to", aside).Msg("Unreadable workspace set aside, starting fresh")
		ws = workspace.New(cfg.Defaults)
	}
	if scenarioPath == "" {
		return ws, nil
	}

	sc, err := scenario.Load(scenarioPath, cfg.Defaults)
	if err != nil {
		return nil, err
	}
	if _, err := sc.Apply(ws); err != nil {
		return nil, err
	}
	log.Info().Str("scenario", sc.Name).Msg("Scenario applied")
	return ws, nil
}

func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&scenarioPath, "scenario", "s", "", "scenario file (YAML, JSON or TOML) to load")
}
