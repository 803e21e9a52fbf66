package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

const DefaultGlamourStyle = "dark"

// TagsFileName is the tag store file kept inside the Claude home directory.
const TagsFileName = "claude-yelp-tags.json"

type AppConfig struct {
	ClaudeDir   string
	ProjectsDir string
	TagsPath    string
	Debug       bool
}

// Load resolves all paths from an optional explicit Claude home.
func Load(explicitHome string, debug bool) (AppConfig, error) {
	home, err := DetectClaudeDir(explicitHome)
	if err != nil {
		return AppConfig{}, err
	}
	return AppConfig{
		ClaudeDir:   home,
		ProjectsDir: filepath.Join(home, "projects"),
		TagsPath:    filepath.Join(home, TagsFileName),
		Debug:       debug,
	}, nil
}

// DetectClaudeDir resolves the Claude home directory: explicit value, then
// the CLAUDE_HOME environment variable, then ~/.claude.
func DetectClaudeDir(explicit string) (string, error) {
	if explicit != "" {
		return filepath.Clean(explicit), nil
	}
	if fromEnv := os.Getenv("CLAUDE_HOME"); fromEnv != "" {
		return filepath.Clean(fromEnv), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".claude"), nil
}

// DebugLogPath is where the debug logger writes when enabled.
func DebugLogPath() string {
	return filepath.Join(os.TempDir(), "claude-yelp-debug.log")
}

// DebugEnabledByEnv reports whether CLAUDE_YELP_DEBUG asks for debug logging.
func DebugEnabledByEnv() bool {
	switch strings.ToLower(os.Getenv("CLAUDE_YELP_DEBUG")) {
	case "1", "true", "yes":
		return true
	}
	return false
}

// NewLogger returns a file-backed debug logger, or a discard logger when
// debugging is off. The TUI owns the terminal, so the log never goes to stderr.
func NewLogger(debug bool) (*log.Logger, error) {
	if !debug {
		return log.New(io.Discard), nil
	}
	f, err := os.OpenFile(DebugLogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open debug log: %w", err)
	}
	logger := log.New(f)
	logger.SetLevel(log.DebugLevel)
	logger.SetReportTimestamp(true)
	return logger, nil
}
