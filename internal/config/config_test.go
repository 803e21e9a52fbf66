package config

import (
	"path/filepath"
	"testing"
)

func TestDetectClaudeDir_ExplicitWins(t *testing.T) {
	t.Setenv("CLAUDE_HOME", "/env/claude")
	dir, err := DetectClaudeDir("/explicit/claude")
	if err != nil {
		t.Fatal(err)
	}
	if dir != "/explicit/claude" {
		t.Fatalf("explicit home must win, got %q", dir)
	}
}

func TestDetectClaudeDir_EnvOverride(t *testing.T) {
	t.Setenv("CLAUDE_HOME", "/env/claude")
	dir, err := DetectClaudeDir("")
	if err != nil {
		t.Fatal(err)
	}
	if dir != "/env/claude" {
		t.Fatalf("expected CLAUDE_HOME, got %q", dir)
	}
}

func TestDetectClaudeDir_DefaultsToHome(t *testing.T) {
	t.Setenv("CLAUDE_HOME", "")
	t.Setenv("HOME", "/home/someone")
	dir, err := DetectClaudeDir("")
	if err != nil {
		t.Fatal(err)
	}
	if dir != "/home/someone/.claude" {
		t.Fatalf("expected ~/.claude, got %q", dir)
	}
}

func TestLoad_DerivedPaths(t *testing.T) {
	cfg, err := Load("/claude", true)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ProjectsDir != filepath.Join("/claude", "projects") {
		t.Fatalf("unexpected projects dir: %q", cfg.ProjectsDir)
	}
	if cfg.TagsPath != filepath.Join("/claude", TagsFileName) {
		t.Fatalf("unexpected tags path: %q", cfg.TagsPath)
	}
	if !cfg.Debug {
		t.Fatal("debug flag lost")
	}
}

func TestDebugEnabledByEnv(t *testing.T) {
	for env, want := range map[string]bool{"1": true, "true": true, "YES": true, "": false, "0": false} {
		t.Setenv("CLAUDE_YELP_DEBUG", env)
		if got := DebugEnabledByEnv(); got != want {
			t.Fatalf("CLAUDE_YELP_DEBUG=%q: expected %v, got %v", env, want, got)
		}
	}
}
