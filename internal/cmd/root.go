package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/worroc/claude-yelp/internal/config"
	"github.com/worroc/claude-yelp/internal/export"
	"github.com/worroc/claude-yelp/internal/launcher"
	"github.com/worroc/claude-yelp/internal/session"
	"github.com/worroc/claude-yelp/internal/ui"
)

var (
	flagHome  string
	flagTemp  bool
	flagDebug bool
)

// rootCmd opens the session browser. A numeric argument jumps straight to
// that list position; any other argument creates a new tagged session.
var rootCmd = &cobra.Command{
	Use:   "claude-yelp [index | tag]",
	Short: "Browse, tag, and resume Claude Code sessions",
	Long: `claude-yelp is a terminal browser for Claude Code session transcripts.

With no arguments it opens the interactive browser. A numeric argument
(e.g. "3" or "+3") opens the browser with that session selected. Any
other argument creates a new session tagged with that name.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(args)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Flags().StringVar(&flagHome, "home", "", "Claude home directory (default: $CLAUDE_HOME or ~/.claude)")
	rootCmd.Flags().BoolVarP(&flagTemp, "temp", "t", false, "with a tag argument, create a temporary session deleted on exit")
	rootCmd.Flags().BoolVar(&flagDebug, "debug", false, "write a debug log")
}

func run(args []string) error {
	cfg, err := config.Load(flagHome, flagDebug || config.DebugEnabledByEnv())
	if err != nil {
		return err
	}
	logger, err := config.NewLogger(cfg.Debug)
	if err != nil {
		return err
	}

	tags := session.LoadTags(cfg.TagsPath)
	launch := launcher.New(cfg.ProjectsDir, logger)
	idx := session.NewIndex(cfg.ProjectsDir, tags, launch, logger)

	// Temporary sessions must be removed even when the process is
	// interrupted.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigs
		launch.Cleanup()
		os.Exit(1)
	}()
	defer launch.Cleanup()

	if len(args) == 1 {
		if n, ok := parseIndexArg(args[0]); ok {
			return runBrowser(cfg, idx, launch, logger, n)
		}
		return createSession(idx, launch, args[0], flagTemp)
	}
	return runBrowser(cfg, idx, launch, logger, 0)
}

// parseIndexArg accepts "3" or "+3" as a 1-based list position.
func parseIndexArg(arg string) (int, bool) {
	arg = strings.TrimPrefix(arg, "+")
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

func runBrowser(cfg config.AppConfig, idx *session.Index, launch *launcher.Launcher, logger *log.Logger, startAt int) error {
	exp, err := export.New()
	if err != nil {
		return err
	}

	model := ui.NewModel(cfg, idx, exp, logger)
	if startAt > 1 {
		model = model.WithStartIndex(startAt - 1)
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return err
	}

	// Resuming happens after the TUI released the terminal.
	if m, ok := final.(ui.Model); ok {
		if req := m.Launch(); req != nil {
			return launch.Resume(req.ProjectDir, req.SessionID)
		}
	}
	return nil
}

func createSession(idx *session.Index, launch *launcher.Launcher, tag string, temporary bool) error {
	id, err := idx.Create(tag, temporary)
	if err != nil {
		return err
	}
	if temporary {
		fmt.Printf("Created temporary session %s\n", id)
	} else {
		fmt.Printf("Created session %s tagged %q\n", id, tag)
	}
	return launch.Resume("", id)
}
