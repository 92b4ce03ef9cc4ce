package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateLLM(); err != nil {
		return err
	}
	if err := c.validateTranscription(); err != nil {
		return err
	}
	if err := c.validateClient(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateServer() error {
	if _, _, err := net.SplitHostPort(c.Server.Bind); err != nil {
		return fmt.Errorf("server.bind must be host:port: %w", err)
	}
	if c.Server.ReadTimeoutSeconds < 0 {
		return errors.New("server.read_timeout_seconds must be positive")
	}
	if c.Server.WriteTimeoutSeconds < 0 {
		return errors.New("server.write_timeout_seconds must be positive")
	}
	if c.Server.MaxUploadMiB < 0 {
		return errors.New("server.max_upload_mib must be positive")
	}
	return nil
}

func (c *Config) validateLLM() error {
	if err := validateHTTPURL("llm.base_url", c.LLM.BaseURL); err != nil {
		return err
	}
	if c.LLM.TimeoutSeconds < 0 {
		return errors.New("llm.timeout_seconds must be positive")
	}
	if c.LLM.ProxyAddr != "" {
		parsed, err := url.Parse(c.LLM.ProxyAddr)
		if err != nil {
			return fmt.Errorf("llm.proxy_addr: %w", err)
		}
		switch strings.ToLower(parsed.Scheme) {
		case "socks", "socks5", "socks5h", "http", "https":
		default:
			return fmt.Errorf("llm.proxy_addr: unsupported scheme %q (use socks5, http or https)", parsed.Scheme)
		}
		if parsed.Host == "" {
			return errors.New("llm.proxy_addr must include a host")
		}
	}
	return nil
}

func (c *Config) validateTranscription() error {
	if err := validateHTTPURL("transcription.base_url", c.Transcription.BaseURL); err != nil {
		return err
	}
	if c.Transcription.TimeoutSeconds < 0 {
		return errors.New("transcription.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateClient() error {
	if err := validateHTTPURL("client.server_url", c.Client.ServerURL); err != nil {
		return err
	}
	if c.Client.TimeoutSeconds < 0 {
		return errors.New("client.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (use console or json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

func validateHTTPURL(field, value string) error {
	parsed, err := url.Parse(strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%s must be an http or https URL", field)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%s must include a host", field)
	}
	return nil
}
