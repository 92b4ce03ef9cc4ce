package logging

import (
	"log/slog"
	"os"
	"path"
	"strings"

	slogjournal "github.com/systemd/slog-journal"
)

func newJournalHandler(lvl *slog.LevelVar) (slog.Handler, error) {
	return slogjournal.NewHandler(&slogjournal.Options{
		Level: lvl,
		ReplaceGroup: func(key string) string {
			return journalKey(key)
		},
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			a.Key = journalKey(a.Key)
			return a
		},
	})
}

// journalKey maps an attribute key onto the journald field alphabet
// (upper-case letters, digits and underscores).
func journalKey(key string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			return r
		}
		return '_'
	}, strings.ToUpper(key))
}

func runningAsSystemdService() bool {
	content, err := os.ReadFile("/proc/self/cgroup")
	if err != nil {
		return false
	}
	for _, line := range strings.Split(strings.TrimSpace(string(content)), "\n") {
		parts := strings.SplitN(line, ":", 3)
		if len(parts) < 3 {
			continue
		}
		if strings.HasSuffix(path.Dir(parts[2]), ".service") || strings.HasSuffix(parts[2], ".service") {
			return true
		}
	}
	return false
}
