package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/peterkuimelis/skirmish/internal/config"
	"github.com/peterkuimelis/skirmish/internal/game"
	skirmishlog "github.com/peterkuimelis/skirmish/internal/log"
	skirmishmcp "github.com/peterkuimelis/skirmish/internal/mcp"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// stdout carries the MCP protocol; diagnostics go to stderr in JSON
	diag, err := skirmishlog.NewZap(cfg.Logging.Level, "json")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer diag.Sync()

	cat, err := game.LoadCatalog(cfg.Catalog)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	s := server.NewMCPServer("skirmish", "1.0.0")
	skirmishmcp.RegisterTools(s, skirmishmcp.NewTools(cat, diag))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
