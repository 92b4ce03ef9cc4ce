package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"standup/internal/config"
	"standup/internal/notecache"
	"standup/internal/preflight"
)

// minDataFreeBytes matches the floor the server warns about at startup.
const minDataFreeBytes = 64 << 20

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var checkLLM bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show server, storage and provider status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			for _, line := range statusLines(cmd.Context(), ctx, cfg, checkLLM, colorize) {
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&checkLLM, "check-llm", false, "Send a test request to the LLM provider")
	return cmd
}

func statusLines(reqCtx context.Context, ctx *commandContext, cfg *config.Config, checkLLM, colorize bool) []string {
	lines := renderSectionHeader("Server", colorize)
	server := preflight.CheckServer(reqCtx, ctx.serverURL(), cfg.Server.APIToken)
	if server.Passed {
		lines = append(lines, resultLine(server, statusOK, colorize))
		if client, err := ctx.apiClient(); err == nil {
			lines = append(lines, remoteStatusLines(reqCtx, client, colorize)...)
		}
	} else {
		lines = append(lines, resultLine(server, statusWarn, colorize))
	}

	lines = append(lines, "")
	lines = append(lines, renderSectionHeader("Storage", colorize)...)
	lines = append(lines,
		resultLine(preflight.CheckDirectoryAccess("Data directory", cfg.Paths.DataDir), statusError, colorize),
		resultLine(preflight.CheckFreeSpace("Free space", cfg.Paths.DataDir, minDataFreeBytes), statusWarn, colorize),
		resultLine(preflight.CheckDirectoryAccess("Log directory", cfg.Paths.LogDir), statusError, colorize),
		renderStatusLine("Database", statusInfo, cfg.DatabasePath(), colorize),
	)

	lines = append(lines, "")
	lines = append(lines, renderSectionHeader("Providers", colorize)...)
	llmLine := preflight.LLMFromConfig(cfg)
	if checkLLM && llmLine.Passed {
		llmLine = preflight.CheckLLM(reqCtx, "LLM", cfg.GetLLM())
	}
	lines = append(lines,
		resultLine(llmLine, statusWarn, colorize),
		resultLine(preflight.TranscriptionFromConfig(cfg), statusWarn, colorize),
	)
	return lines
}

func remoteStatusLines(reqCtx context.Context, client *notecache.Client, colorize bool) []string {
	status, err := client.Status(reqCtx)
	if err != nil {
		return []string{renderStatusLine("Details", statusWarn, err.Error(), colorize)}
	}
	lines := []string{
		renderStatusLine("Notes", statusInfo, fmt.Sprintf("%d stored", status.NoteCount), colorize),
		renderStatusLine("LLM configured", statusInfo, yesNo(status.LLMConfigured), colorize),
		renderStatusLine("Transcription", statusInfo, yesNo(status.TranscriptionConfigured), colorize),
	}
	if started := strings.TrimSpace(status.StartedAt); started != "" {
		lines = append(lines, renderStatusLine("Started", statusInfo, started, colorize))
	}
	return lines
}
