package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"pylocator/internal/config"
	"pylocator/internal/discovery"
	"pylocator/internal/messaging"
	"pylocator/internal/model"
	"pylocator/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
	"github.com/tcnksm/go-latest"
	"golang.org/x/term"
)

// releasesURL is where release builds are published.
const releasesURL = "https://github.com/pylocator/pylocator/releases"

// checkUpdate compares currentVer with the newest release known to
// source and tells the user what to do about it.
func checkUpdate(w io.Writer, source latest.Source, currentVer string) error {
	res, err := latest.Check(source, currentVer)
	if err != nil {
		return fmt.Errorf("checking for a newer pylocator: %w", err)
	}
	if res.Current == "" {
		fmt.Fprintf(w, "pylocator update check is disabled (%s is set)\n", latest.EnvGoLatestDisable)
		return nil
	}

	switch {
	case res.Outdated:
		url := releasesURL
		if res.Meta != nil && res.Meta.URL != "" {
			url = res.Meta.URL
		}
		fmt.Fprintf(w, "✨ pylocator %s is available (this binary is %s)\n", res.Current, currentVer)
		fmt.Fprintf(w, "👉 Download it from %s\n", url)
	case res.New:
		fmt.Fprintf(w, "pylocator %s is newer than the latest release, %s\n", currentVer, res.Current)
	default:
		fmt.Fprintf(w, "✅ pylocator %s is the latest release\n", currentVer)
	}
	return nil
}

// fatal writes "error: err" to stderr and exits with code 1. stdout may
// carry frames, so nothing else is written there.
func fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}

func main() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: pylocator [options]\n")
		fmt.Fprintf(os.Stderr, "       pylocator --inspect [file]\n\n")
		fmt.Fprintf(os.Stderr, "pylocator finds Python interpreters and the tools that manage them.\n")
		fmt.Fprintf(os.Stderr, "Results are written to stdout as Content-Length framed JSON-RPC\n")
		fmt.Fprintf(os.Stderr, "notifications, ending with an exit notification.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment:\n")
		fmt.Fprintf(os.Stderr, "  %-20s config file used when --config is not given\n", config.EnvConfigPath)
		fmt.Fprintf(os.Stderr, "  %-20s overrides the configured log level\n", config.EnvLogLevel)
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  pylocator > envs.rpc              # Locate and save the stream\n")
		fmt.Fprintf(os.Stderr, "  pylocator | pylocator --inspect   # Browse results as they arrive\n")
		fmt.Fprintf(os.Stderr, "  pylocator --inspect envs.rpc      # Browse a saved stream\n")
	}

	configFlag := pflag.StringP("config", "c", "", "Read settings from a JSON, JSONC or YAML file")
	logLevelFlag := pflag.StringP("log-level", "l", "", "Minimum level of log notifications (debug, info, warn, error)")
	searchPathFlag := pflag.StringSliceP("search-path", "s", nil, "Extra directory to scan for interpreters (repeatable)")
	resolveFlag := pflag.Bool("resolve-versions", false, "Run interpreters with --version when no metadata records their version")
	inspectFlag := pflag.BoolP("inspect", "i", false, "Browse a framed stream from a file or stdin")
	versionFlag := pflag.BoolP("version", "V", false, "Print version information")
	updateFlag := pflag.BoolP("update", "u", false, "Check for latest version")
	helpFlag := pflag.BoolP("help", "h", false, "Show this help message")
	pflag.Parse()

	if *helpFlag {
		pflag.Usage()
		return
	}

	if *versionFlag {
		fmt.Printf("pylocator version %s\n", model.Version)
		return
	}

	if *updateFlag {
		source := &latest.GithubTag{Owner: "pylocator", Repository: "pylocator"}
		if err := checkUpdate(os.Stdout, source, model.Version); err != nil {
			fatal(err)
		}
		return
	}

	if *inspectFlag {
		if err := runInspectMode(pflag.Arg(0)); err != nil {
			fatal(err)
		}
		return
	}

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fatal(err)
	}
	if *logLevelFlag != "" {
		cfg.LogLevel = *logLevelFlag
	}
	cfg.SearchPaths = append(cfg.SearchPaths, *searchPathFlag...)
	if pflag.Lookup("resolve-versions").Changed {
		cfg.ResolveVersions = *resolveFlag
	}
	if err := cfg.Validate(); err != nil {
		fatal(err)
	}

	// Default: locate
	if err := runLocateMode(cfg); err != nil {
		fatal(err)
	}
}

func runLocateMode(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	framer := messaging.NewFramer(os.Stdout)
	logger := messaging.InstallLogger(framer, cfg.Level())
	if term.IsTerminal(int(os.Stdout.Fd())) {
		logger.Warn("stdout is a terminal; pipe into pylocator --inspect to browse results")
	}

	dispatcher := messaging.NewDispatcher(framer)
	reporter := messaging.NewSyncDispatcher(dispatcher)

	stages, err := buildLocators(cfg, logger)
	if err != nil {
		return err
	}
	runErr := discovery.RunStages(ctx, logger, reporter, stages...)
	if runErr != nil {
		logger.Error("discovery incomplete", "error", runErr)
	}

	managers, environments := dispatcher.Reported()
	logger.Info("discovery finished", "managers", managers, "environments", environments)

	if err := reporter.Exit(); err != nil {
		return errors.Join(runErr, err)
	}
	return runErr
}

// buildLocators returns the enabled locators in two stages: the
// manager-backed locators, then the PATH scan.
func buildLocators(cfg config.Config, logger *slog.Logger) ([][]discovery.Locator, error) {
	pathList := os.Getenv("PATH")

	var versions *discovery.VersionResolver
	if cfg.ResolveVersions {
		timeout, err := cfg.Timeout()
		if err != nil {
			return nil, err
		}
		versions = discovery.NewVersionResolver(timeout)
	}

	workon := discovery.NewWorkonLocator(cfg.WorkonHome, logger)

	var managed, scanned []discovery.Locator
	if cfg.LocatorEnabled("conda") {
		dirs := append(filepath.SplitList(pathList), cfg.SearchPaths...)
		managed = append(managed, discovery.NewCondaLocator(cfg.CondaExecutable, dirs, logger))
	}
	if cfg.LocatorEnabled("pyenv") {
		managed = append(managed, discovery.NewPyenvLocator(cfg.PyenvRoot, logger))
	}
	if cfg.LocatorEnabled("workon") {
		managed = append(managed, workon)
	}
	if cfg.LocatorEnabled("path") {
		scanned = append(scanned, discovery.NewPathLocator(pathList, cfg.SearchPaths, workon.Home(), versions, logger))
	}
	return [][]discovery.Locator{managed, scanned}, nil
}

func runInspectMode(path string) error {
	var input io.Reader = os.Stdin
	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("opening stream: %w", err)
		}
		defer file.Close()
		input = file
	} else if term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("--inspect reads a framed stream; give a file or pipe pylocator into it")
	}

	m := tui.InitialModel(messaging.NewFrameReader(input))
	p := tea.NewProgram(&m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running viewer: %w", err)
	}
	return nil
}
