package cmd

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/Ashfaaq98/evidence-console/internal/api"
	"github.com/Ashfaaq98/evidence-console/internal/bus"
	"github.com/Ashfaaq98/evidence-console/internal/ingest"
	"github.com/Ashfaaq98/evidence-console/internal/store"
	"github.com/Ashfaaq98/evidence-console/internal/ui"
	"github.com/Ashfaaq98/evidence-console/internal/workspace"
)

var (
	serveCaseID string
	noTUI       bool
	forceTUI    bool
	watchFolder bool
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Open the investigation workspace for a case",
	Long: `Open the terminal workspace for one case. The workspace includes:

1. Chat timeline with retrieval citations into the evidence
2. Evidence directory with per-type tabs (Tab switches views)
3. Upload staging (/upload <path> attaches files to the next message)
4. Modal source viewer with clip playback for video citations

The serve command runs until the workspace is closed (q or Ctrl+C).
With --watch, a drop-folder watcher uploads new camera exports in the
background and announces them on the activity stream.

Examples:
  # Open a case
  evidence-console serve --case demo-traffic-case

  # Open a case and watch the drop folder
  evidence-console serve --case case-123 --watch

  # Headless: only the drop-folder watcher
  evidence-console serve --case case-123 --watch --no-tui`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveCaseID, "case", "demo-traffic-case", "Case id to open")
	serveCmd.Flags().BoolVar(&noTUI, "no-tui", false, "Run in headless mode without TUI")
	serveCmd.Flags().BoolVar(&forceTUI, "force-tui", false, "Force TUI mode even in unsupported terminals")
	serveCmd.Flags().BoolVar(&watchFolder, "watch", false, "Watch the drop folder and upload new evidence")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	config := GetConfig()

	// Initialize logger - use file logging for TUI mode to keep terminal clean
	var logger *log.Logger
	willUseTUI := determineTUIMode()

	if willUseTUI {
		// Silent TUI mode: logs go to file, errors still visible on terminal
		logFile := setupFileLogger()
		if logFile != nil {
			logger = log.New(io.MultiWriter(logFile, &errorFilterWriter{os.Stderr}), "[serve] ", log.LstdFlags)
			defer logFile.Close()
		} else {
			logger = log.New(os.Stderr, "[serve] ", log.LstdFlags)
		}
	} else {
		logger = log.New(os.Stderr, "[serve] ", log.LstdFlags)
	}

	logger.Printf("Starting Evidence Console for case %s", serveCaseID)

	// Initialize local cache
	baseDir := getWorkingDir()
	resolvedDBPath := resolvePathRelativeToBase(baseDir, config.Database.Path)
	logger.Printf("Using cache at %s", resolvedDBPath)
	st, err := store.NewStore(resolvedDBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	defer st.Close()

	// Initialize activity bus (Redis or Null)
	var busLogger *log.Logger = logger
	if willUseTUI {
		// Silence bus logs while TUI is active to avoid bottom-of-screen noise
		busLogger = log.New(io.Discard, "", 0)
	}
	activityBus := bus.NewBus(config.Redis.URL, busLogger)
	defer activityBus.Close()

	// Backend API client
	client, err := api.NewClient(config.API.BaseURL, config.API.Token, logger)
	if err != nil {
		return fmt.Errorf("failed to create API client: %w", err)
	}

	ws := workspace.New(serveCaseID, client, st, logger)

	// Drop-folder watcher runs alongside either mode
	if watchFolder {
		watchPath := resolvePathRelativeToBase(baseDir, config.Watch.Dir)
		if err := os.MkdirAll(watchPath, 0755); err != nil {
			logger.Printf("Warning: Could not create watch directory %s: %v", watchPath, err)
		}
		watcherLogger := logger
		if willUseTUI {
			watcherLogger = log.New(io.Discard, "", 0)
		}
		fw := ingest.NewFolderWatcher(client, activityBus, ingest.FolderOptions{
			Dir:    watchPath,
			CaseID: serveCaseID,
			Watch:  true,
			Logger: watcherLogger,
		})
		go func() {
			if err := fw.Run(ctx); err != nil && ctx.Err() == nil {
				logger.Printf("Folder watch error: %v", err)
			}
		}()
		logger.Printf("Watching drop folder %s", watchPath)
	}

	if willUseTUI && !noTUI {
		uiLogger := setupUILogger(baseDir, logger)
		workspaceUI := ui.NewUI(ctx, ws, activityBus, uiLogger)
		if err := workspaceUI.Start(ctx); err != nil {
			return fmt.Errorf("TUI error: %w", err)
		}
		logger.Println("Workspace closed")
		return nil
	}

	if !noTUI {
		logger.Printf("TUI unavailable, falling back to headless (%s)", terminalInfo())
	}
	if !watchFolder {
		return fmt.Errorf("headless mode needs --watch, nothing else to do")
	}

	logger.Println("Running in headless mode...")
	<-ctx.Done()
	logger.Println("Received shutdown signal")
	return nil
}

// setupUILogger creates a file-backed logger for the TUI so log lines never
// corrupt the screen.
func setupUILogger(baseDir string, fallback *log.Logger) *log.Logger {
	logDir := filepath.Join(baseDir, "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		fallback.Printf("Warning: Could not create logs directory: %v", err)
		return log.New(io.Discard, "[UI] ", log.LstdFlags)
	}
	logPath := filepath.Join(logDir, "evidence-console-ui.log")
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fallback.Printf("Warning: Could not create UI log file at %s: %v", logPath, err)
		return log.New(io.Discard, "[UI] ", log.LstdFlags)
	}
	uiLogger := log.New(logFile, "[UI] ", log.LstdFlags)
	uiLogger.Printf("UI logger initialized (path=%s)", logPath)
	return uiLogger
}

// setupFileLogger creates a log file for TUI mode
func setupFileLogger() *os.File {
	baseDir := getWorkingDir()
	logDir := filepath.Join(baseDir, "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil
	}
	logPath := filepath.Join(logDir, "evidence-console.log")
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil
	}
	return logFile
}

// errorFilterWriter passes only error-looking lines through to the terminal
// while the TUI owns the screen.
type errorFilterWriter struct {
	w io.Writer
}

func (e *errorFilterWriter) Write(p []byte) (int, error) {
	lower := bytes.ToLower(p)
	if bytes.Contains(lower, []byte("error")) || bytes.Contains(lower, []byte("fatal")) {
		return e.w.Write(p)
	}
	return len(p), nil
}

// determineTUIMode determines if TUI will be used (extracted for logging setup)
func determineTUIMode() bool {
	if noTUI {
		return false
	}
	if forceTUI {
		return true
	}
	return canInitializeTUI()
}

// canInitializeTUI tests if tcell can actually be initialized
func canInitializeTUI() bool {
	screen, err := tcell.NewScreen()
	if err != nil {
		return false
	}
	if err := screen.Init(); err != nil {
		return false
	}
	screen.Fini()
	return true
}

// terminalInfo summarizes the terminal environment for the fallback log line.
func terminalInfo() string {
	var info []string

	term := os.Getenv("TERM")
	if term == "" {
		info = append(info, "TERM=<not set>")
	} else {
		info = append(info, fmt.Sprintf("TERM=%s", term))
	}

	if width, height := getTerminalSize(); width > 0 && height > 0 {
		info = append(info, fmt.Sprintf("Size=%dx%d", width, height))
	}

	if isTerminal() {
		info = append(info, "TTY=yes")
	} else {
		info = append(info, "TTY=no")
	}

	return strings.Join(info, ", ")
}

// isTerminal checks if stdout is attached to a terminal
func isTerminal() bool {
	if fileInfo, err := os.Stdout.Stat(); err == nil {
		return (fileInfo.Mode() & os.ModeCharDevice) != 0
	}
	return false
}

// getWorkingDir returns the current working directory.
// Falls back to executable directory if os.Getwd fails.
func getWorkingDir() string {
	if wd, err := os.Getwd(); err == nil && wd != "" {
		return wd
	}
	if exe, err := os.Executable(); err == nil {
		return filepath.Dir(exe)
	}
	return "."
}

// resolvePathRelativeToBase resolves a possibly relative path against a base directory.
// Absolute paths are returned unchanged.
func resolvePathRelativeToBase(base, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	p = strings.TrimPrefix(p, "./")
	return filepath.Join(base, p)
}
