// Package launcher runs the claude CLI: resuming an existing session in its
// project directory and creating new sessions whose id is read back from the
// CLI's JSON output. It also guarantees temporary sessions are removed when
// the program exits.
package launcher

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

const claudeBinary = "claude"

// Launcher invokes the assistant CLI. One instance per process.
type Launcher struct {
	projectsDir string
	logger      *log.Logger

	mu      sync.Mutex
	tempIDs []string
}

func New(projectsDir string, logger *log.Logger) *Launcher {
	if logger == nil {
		logger = log.Default()
	}
	return &Launcher{projectsDir: projectsDir, logger: logger}
}

// Resume hands the foreground terminal to `claude --resume` for the given
// session, running in the session's project directory. It blocks until the
// assistant exits.
func (l *Launcher) Resume(projectDir, id string) error {
	bin, err := exec.LookPath(claudeBinary)
	if err != nil {
		return fmt.Errorf("%s not found in PATH: %w", claudeBinary, err)
	}

	cmd := exec.Command(bin, "--resume", id)
	cmd.Dir = ResolveProjectDir(projectDir)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	l.logger.Debug("resuming session", "id", id, "dir", cmd.Dir)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("resume session %s: %w", id, err)
	}
	return nil
}

// ResolveProjectDir finds a working directory the assistant can run in: the
// path itself if it is a directory, its parent if it is a file, and the home
// directory when the project no longer exists.
func ResolveProjectDir(path string) string {
	if info, err := os.Stat(path); err == nil {
		if info.IsDir() {
			return path
		}
		return filepath.Dir(path)
	}
	if parent := filepath.Dir(path); parent != path {
		if info, err := os.Stat(parent); err == nil && info.IsDir() {
			return parent
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

// createResponse is the JSON the CLI prints in --output-format json mode.
type createResponse struct {
	SessionID string `json:"session_id"`
}

// CreateSession runs a one-shot prompt so the CLI materializes a new session
// file, and returns the new session's id.
func (l *Launcher) CreateSession(tag string) (string, error) {
	bin, err := exec.LookPath(claudeBinary)
	if err != nil {
		return "", fmt.Errorf("%s not found in PATH: %w", claudeBinary, err)
	}

	prompt := fmt.Sprintf("Session: %s", tag)
	out, err := exec.Command(bin, "-p", prompt, "--output-format", "json").Output()
	if err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}

	id, err := ParseSessionID(out)
	if err != nil {
		return "", err
	}
	l.logger.Debug("created session", "id", id, "tag", tag)
	return id, nil
}

// ParseSessionID extracts session_id from the CLI's JSON output. The output
// can carry stray terminal control characters before the JSON object; they
// are stripped first.
func ParseSessionID(raw []byte) (string, error) {
	cleaned := stripControl(string(raw))
	start := strings.IndexByte(cleaned, '{')
	if start < 0 {
		return "", fmt.Errorf("no JSON object in CLI output")
	}

	var resp createResponse
	if err := json.Unmarshal([]byte(cleaned[start:]), &resp); err != nil {
		return "", fmt.Errorf("parse CLI output: %w", err)
	}
	if resp.SessionID == "" {
		return "", fmt.Errorf("CLI output has no session_id")
	}
	return resp.SessionID, nil
}

func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 && r != '\n' && r != '\t' {
			return -1
		}
		return r
	}, s)
}

// RegisterTempCleanup marks a session for deletion at process exit.
func (l *Launcher) RegisterTempCleanup(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.tempIDs = append(l.tempIDs, id)
}

// Cleanup deletes every registered temporary session's transcript file. Safe
// to call more than once; must run on normal exit and on interrupt.
func (l *Launcher) Cleanup() {
	l.mu.Lock()
	ids := l.tempIDs
	l.tempIDs = nil
	l.mu.Unlock()

	for _, id := range ids {
		l.removeSessionFiles(id)
	}
}

func (l *Launcher) removeSessionFiles(id string) {
	projectDirs, err := os.ReadDir(l.projectsDir)
	if err != nil {
		return
	}
	for _, dir := range projectDirs {
		if !dir.IsDir() {
			continue
		}
		path := filepath.Join(l.projectsDir, dir.Name(), id+".jsonl")
		if err := os.Remove(path); err == nil {
			l.logger.Debug("removed temporary session", "id", id, "path", path)
		}
	}
}
