// Command standup-mcp serves the standup note tools over MCP stdio so an
// assistant can read, save and classify notes through a running server.
package main

import (
	"flag"
	"log"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"standup/internal/config"
	"standup/internal/mcptools"
	"standup/internal/notecache"
)

const version = "0.1.0"

func main() {
	configFlag := flag.String("config", "", "path to the standup config file")
	serverFlag := flag.String("server", "", "standup server URL (overrides client.server_url)")
	flag.Parse()

	cfg, _, _, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("standup-mcp: load config: %v", err)
	}
	serverURL := cfg.Client.ServerURL
	if *serverFlag != "" {
		serverURL = *serverFlag
	}

	timeout := time.Duration(cfg.Client.TimeoutSeconds) * time.Second
	client, err := notecache.NewClient(serverURL, cfg.Server.APIToken, timeout)
	if err != nil {
		log.Fatalf("standup-mcp: %v", err)
	}
	if client == nil {
		log.Fatal("standup-mcp: client.server_url is not configured")
	}

	mcpServer := server.NewMCPServer(
		"standup-mcp",
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)
	mcptools.Register(mcpServer, client)

	if err := server.ServeStdio(mcpServer); err != nil {
		log.Fatalf("standup-mcp: %v", err)
	}
}
