package main

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"standup/internal/config"
	"standup/internal/notecache"
)

type commandContext struct {
	serverFlag *string
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(serverFlag, configFlag *string) *commandContext {
	return &commandContext{
		serverFlag: serverFlag,
		configFlag: configFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

// serverURL resolves the API address: --server, then client.server_url.
func (c *commandContext) serverURL() string {
	if c.serverFlag != nil {
		if flag := strings.TrimSpace(*c.serverFlag); flag != "" {
			return flag
		}
	}
	if cfg := c.configValue(); cfg != nil {
		return cfg.Client.ServerURL
	}
	return ""
}

func (c *commandContext) apiClient() (*notecache.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	timeout := time.Duration(cfg.Client.TimeoutSeconds) * time.Second
	client, err := notecache.NewClient(c.serverURL(), cfg.Server.APIToken, timeout)
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if client == nil {
		return nil, notecache.ErrAPIUnavailable
	}
	return client, nil
}

// withClient runs fn against the configured server and rewrites connection
// failures into a hint to start it.
func (c *commandContext) withClient(cmd *cobra.Command, fn func(context.Context, *notecache.Client) error) error {
	client, err := c.apiClient()
	if err != nil {
		return err
	}
	if err := fn(cmd.Context(), client); err != nil {
		if notecache.IsAPIUnavailable(err) {
			return fmt.Errorf("connect to server at %s: not reachable; start it with `standup serve`", client.BaseURL())
		}
		return err
	}
	return nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
