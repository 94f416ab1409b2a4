package main

import (
	"fmt"
	"os"

	skirmishlog "github.com/peterkuimelis/skirmish/internal/log"
	skirmishnet "github.com/peterkuimelis/skirmish/internal/net"
	"github.com/spf13/cobra"
)

// transcript opens path for a TextLogger. The returned func closes it.
func transcript(path string) (skirmishlog.EventLogger, func(), error) {
	if path == "" {
		return nil, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open transcript: %w", err)
	}
	return skirmishlog.NewTextLogger(f), func() { f.Close() }, nil
}

func (a *app) playCmd() *cobra.Command {
	var transcriptPath string
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play an encounter in this terminal",
		Long: `Starts an encounter and a local REPL. Example session:
	> play 3
	> target e1
	> end`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, closeFn, err := transcript(transcriptPath)
			if err != nil {
				return err
			}
			defer closeFn()

			cfg := a.hostConfig()
			cfg.Logger = logger
			repl := &skirmishnet.Client{In: os.Stdin, Out: cmd.OutOrStdout()}
			return skirmishnet.Play(cmd.Context(), cfg, repl)
		},
	}
	cmd.Flags().StringVar(&transcriptPath, "transcript", "", "write the event log to this file")
	return cmd
}

func (a *app) hostCmd() *cobra.Command {
	var port, transcriptPath string
	cmd := &cobra.Command{
		Use:   "host",
		Short: "Host an encounter for a remote player over TCP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if port == "" {
				port = a.cfg.Net.Port
			}
			logger, closeFn, err := transcript(transcriptPath)
			if err != nil {
				return err
			}
			defer closeFn()

			srv := &skirmishnet.Server{Port: port, Host: a.hostConfig()}
			srv.Host.Logger = logger
			return srv.Run(cmd.Context())
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", "", "TCP port to listen on (default from net.port)")
	cmd.Flags().StringVar(&transcriptPath, "transcript", "", "write the event log to this file")
	return cmd
}

func (a *app) joinCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "join",
		Short: "Connect to a hosted encounter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = "localhost:" + a.cfg.Net.Port
			}
			return skirmishnet.Connect(cmd.Context(), addr, a.cfg.Encounter)
		},
	}
	cmd.Flags().StringVarP(&addr, "addr", "a", "", "server address (default localhost:<net.port>)")
	return cmd
}
