package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"standup/internal/config"
	"standup/internal/notecache"
	"standup/internal/services/llm"
)

// CheckLLM verifies that the LLM API is reachable and the key is valid.
// It uses a 30-second timeout and a single attempt (no retries).
func CheckLLM(ctx context.Context, name string, cfg config.LLMConfig) Result {
	if cfg.APIKey == "" {
		return Result{Name: name, Detail: "API key missing"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	client := llm.NewClient(llm.Config{
		APIKey:    cfg.APIKey,
		BaseURL:   cfg.BaseURL,
		Model:     cfg.Model,
		Referer:   cfg.Referer,
		Title:     cfg.Title,
		ProxyAddr: cfg.ProxyAddr,
	}, llm.WithRetryMaxAttempts(1))

	if err := client.HealthCheck(checkCtx); err != nil {
		return Result{Name: name, Detail: summarizeNetError("LLM API", err)}
	}
	return Result{Name: name, Passed: true, Detail: "API reachable"}
}

// CheckServer verifies that a standup server answers at serverURL.
func CheckServer(ctx context.Context, serverURL, token string) Result {
	const name = "Server"

	client, err := notecache.NewClient(serverURL, token, 5*time.Second)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("invalid url (%v)", err)}
	}
	if client == nil {
		return Result{Name: name, Detail: "missing url"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	status, err := client.Status(checkCtx)
	if err != nil {
		var apiErr *notecache.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == 401 {
			return Result{Name: name, Detail: "auth failed (invalid api token)"}
		}
		if notecache.IsAPIUnavailable(err) {
			return Result{Name: name, Detail: fmt.Sprintf("not running at %s", client.BaseURL())}
		}
		return Result{Name: name, Detail: summarizeNetError("server", err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("running (pid %d, %d notes)", status.PID, status.NoteCount)}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckFreeSpace verifies the filesystem holding path has at least minBytes
// available to unprivileged users.
func CheckFreeSpace(name, path string, minBytes uint64) Result {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: statfs: %v)", path, err)}
	}
	free := stat.Bavail * uint64(stat.Bsize)
	detail := fmt.Sprintf("%s free", formatBytes(free))
	if free < minBytes {
		return Result{Name: name, Detail: fmt.Sprintf("%s (need %s)", detail, formatBytes(minBytes))}
	}
	return Result{Name: name, Passed: true, Detail: detail}
}

func formatBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// summarizeNetError produces a human-readable summary for health check failures.
func summarizeNetError(target string, err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Sprintf("health check timed out (%s unresponsive)", target)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Sprintf("health check timed out (%s unreachable)", target)
	}
	return err.Error()
}
