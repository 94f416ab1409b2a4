package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/peterkuimelis/skirmish/internal/config"
	"github.com/peterkuimelis/skirmish/internal/game"
	skirmishlog "github.com/peterkuimelis/skirmish/internal/log"
	skirmishnet "github.com/peterkuimelis/skirmish/internal/net"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var version = "dev" // set via ldflags during build

// app carries what every subcommand needs once flags and config are resolved.
type app struct {
	v          *viper.Viper
	configPath string

	cfg  *config.Config
	cat  *game.Catalog
	diag *zap.Logger
}

func main() {
	a := &app{v: config.New()}
	root := a.rootCmd()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "skirmish",
		Short:         "Turn-based deck-building card battles",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.diag != nil {
				_ = a.diag.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "path to a YAML config file")
	flags.String("catalog", "", "path to a card/enemy catalog (default: built in)")
	flags.StringP("encounter", "e", "", "encounter id")
	flags.Int64("seed", 0, "shuffle seed (0 picks one)")
	flags.String("log-level", "", "diagnostic log level: debug, info, warn, error")

	_ = a.v.BindPFlag("catalog", flags.Lookup("catalog"))
	_ = a.v.BindPFlag("encounter", flags.Lookup("encounter"))
	_ = a.v.BindPFlag("seed", flags.Lookup("seed"))
	_ = a.v.BindPFlag("logging.level", flags.Lookup("log-level"))

	root.AddCommand(
		a.playCmd(),
		a.hostCmd(),
		a.joinCmd(),
		a.serveCmd(),
		a.cardsCmd(),
	)
	return root
}

// load resolves config, logger and catalog.
func (a *app) load() error {
	if err := config.ReadFile(a.v, a.configPath); err != nil {
		return err
	}
	cfg, err := config.Decode(a.v)
	if err != nil {
		return err
	}
	diag, err := skirmishlog.NewZap(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	cat, err := game.LoadCatalog(cfg.Catalog)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	a.cfg, a.diag, a.cat = cfg, diag, cat
	diag.Debug("configuration loaded",
		zap.String("config", a.configPath),
		zap.String("catalog", cfg.Catalog),
		zap.String("encounter", cfg.Encounter),
	)
	return nil
}

func (a *app) hostConfig() skirmishnet.HostConfig {
	return skirmishnet.HostConfig{
		Catalog:   a.cat,
		Encounter: a.cfg.Encounter,
		Seed:      a.cfg.Seed,
		Delays:    a.cfg.Delays.Game(),
		Diag:      a.diag,
	}
}
