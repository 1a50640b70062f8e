package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/breitburg/kurtosis/config"
	"github.com/breitburg/kurtosis/kurt"
	"github.com/breitburg/kurtosis/tools"
)

const version = "1.0.0"

var (
	configFile string
	useHTTP    bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the tool server",
	Long:  `Serve the KURT tools over MCP stdio, or over streamable HTTP with --http.`,
	Run: func(cmd *cobra.Command, args []string) {
		// stdout belongs to the stdio transport; diagnostics go to stderr.
		log.SetOutput(os.Stderr)

		cfg, err := config.Load(configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		client := kurt.NewClient(cfg.DirectoryURL, cfg.APIBaseURL, cfg.Timeout)
		toolset := tools.NewReservations(client, client, cfg.BookingBaseURL, cfg.CheckinBaseURL)
		srv := tools.WrapAsMCP(toolset, version)

		if useHTTP {
			runHTTP(cfg, toolset.Name(), srv)
			return
		}

		if err := srv.Run(context.Background(), &mcp.StdioTransport{}); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func runHTTP(cfg *config.Config, name string, srv *mcp.Server) {
	api := tools.NewAPIServer(cfg.Server.RateLimitPerSec, cfg.Server.RateLimitBurst)
	api.RegisterToolset(name, srv)

	if err := api.Start(cfg.Server.Listen); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	log.Printf("serving MCP at %s/mcp/%s", api.BaseURL(), name)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	if err := api.Stop(); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

func init() {
	serveCmd.Flags().StringVarP(&configFile, "config", "c", "", "Config file (defaults apply when omitted)")
	serveCmd.Flags().BoolVar(&useHTTP, "http", false, "Serve over streamable HTTP on server.listen instead of stdio")
}
