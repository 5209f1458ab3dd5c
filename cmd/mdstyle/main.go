package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/muesli/termenv"
	"github.com/spf13/pflag"
	"golang.org/x/term"
	"pkt.systems/mdstyle"
	"pkt.systems/mdstyle/internal/config"
	"pkt.systems/version"
)

const (
	formatANSI = "ansi"
	formatJSON = "json"
	formatYAML = "yaml"
)

func init() {
	version.SetDefaultModule("pkt.systems/mdstyle")
}

type options struct {
	format     string
	themeName  string
	width      int
	outPath    string
	configPath string
	disable    bool
	watch      bool
	debounce   time.Duration
	boring     bool
	verbose    bool
}

// usageError marks errors that should exit with status 2.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func main() {
	var (
		opts           options
		listThemes     bool
		listCategories bool
		printConfig    bool
		showVersion    bool
	)

	flags := pflag.NewFlagSet("mdstyle", pflag.ExitOnError)
	flags.StringVar(&opts.format, "format", formatANSI, "Output format: ansi|json|yaml")
	flags.StringVarP(&opts.themeName, "theme", "t", "", "Theme name (overrides the config file)")
	flags.IntVarP(&opts.width, "width", "w", 0, "Truncate lines to width (0 uses terminal width if available)")
	flags.StringVarP(&opts.outPath, "output", "o", "", "Output file instead of stdout")
	flags.StringVarP(&opts.configPath, "config", "c", "", "Config file (default "+config.DefaultPath()+" or ./"+config.LocalFile+")")
	flags.BoolVar(&opts.disable, "disable", false, "Turn styling off and pass the document through")
	flags.BoolVar(&opts.watch, "watch", false, "Re-render when the input files or the config file change")
	flags.DurationVar(&opts.debounce, "debounce", mdstyle.DefaultDebounce, "Delay used to coalesce change bursts in --watch mode")
	flags.BoolVar(&listThemes, "list-themes", false, "List available themes")
	flags.BoolVar(&listCategories, "list-categories", false, "List style categories")
	flags.BoolVar(&printConfig, "print-config", false, "Print the effective styles as YAML")
	flags.BoolVarP(&opts.boring, "boring", "b", false, "Generate non-ANSI output")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Log diagnostics to stderr")
	flags.BoolVar(&showVersion, "version", false, "Print version and exit")

	flags.SetInterspersed(true)
	flags.Usage = func() {
		fmt.Fprintln(os.Stderr, version.Module(), version.Current())
		fmt.Fprintf(os.Stderr, "Usage: mdstyle [flags] [inputs...]\n")
		fmt.Fprintln(os.Stderr, "\nIf no input is provided, Markdown is read from stdin.")
		fmt.Fprintln(os.Stderr, "\nFlags:")
		flags.PrintDefaults()
	}

	if err := flags.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	switch {
	case showVersion:
		fmt.Fprintln(os.Stdout, version.Module(), version.Current())
		return
	case listThemes:
		printThemes(os.Stdout)
		return
	case listCategories:
		printCategories(os.Stdout)
		return
	}

	logger := newLogger(os.Stderr, opts.verbose)
	loader, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	logger.Debug("config loaded", "path", loader.Path())
	logIgnored(logger, loader.Config())

	if printConfig {
		theme, err := resolveTheme(opts.themeName, loader.Config().Theme)
		if err != nil {
			fmt.Fprintf(os.Stderr, "print config: %v\n", err)
			os.Exit(2)
		}
		if err := writeConfig(os.Stdout, loader, theme.Name()); err != nil {
			fmt.Fprintf(os.Stderr, "print config: %v\n", err)
			os.Exit(1)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, opts, flags.Args(), loader, logger); err != nil {
		fmt.Fprintf(os.Stderr, "mdstyle: %v\n", err)
		var uerr usageError
		if errors.As(err, &uerr) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, args []string, loader *config.Loader, logger *slog.Logger) error {
	switch opts.format {
	case formatANSI, formatJSON, formatYAML:
	default:
		return usageError{fmt.Errorf("unknown format %q (expected ansi|json|yaml)", opts.format)}
	}
	if opts.watch {
		if opts.format != formatANSI {
			return usageError{errors.New("--watch only supports --format ansi")}
		}
		if _, err := watchPaths(args); err != nil {
			return usageError{err}
		}
	}

	theme, err := resolveTheme(opts.themeName, loader.Config().Theme)
	if err != nil {
		return usageError{err}
	}

	writer, closeOut, err := resolveOutput(opts.outPath)
	if err != nil {
		return fmt.Errorf("open output: %w", err)
	}
	if closeOut != nil {
		defer func() { _ = closeOut.Close() }()
	}

	painter := mdstyle.NewPainter(writer,
		mdstyle.WithTheme(theme),
		mdstyle.WithProfile(resolveProfile(writer, opts.boring)),
		mdstyle.WithWidth(resolveWidth(opts.width, writer)),
	)
	styler := mdstyle.New(painter,
		mdstyle.WithConfigSource(loader),
		mdstyle.WithLogger(logger),
		mdstyle.WithEnabled(!opts.disable),
	)

	text, err := readDocument(args)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	painter.SetDocument(text, true)
	styler.Redraw()
	if err := writeDocument(writer, painter, opts.format); err != nil {
		return err
	}
	if !opts.watch {
		return nil
	}
	return watch(ctx, watchRequest{
		args:     args,
		opts:     opts,
		writer:   writer,
		painter:  painter,
		styler:   styler,
		loader:   loader,
		logger:   logger,
		explicit: opts.themeName,
	})
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func logIgnored(logger *slog.Logger, cfg config.Config) {
	for _, key := range cfg.Ignored {
		logger.Warn("ignoring config value of unexpected type", "key", key)
	}
}

// resolveTheme prefers the --theme flag over the config file.
func resolveTheme(flagName, configName string) (mdstyle.Theme, error) {
	name := flagName
	if strings.TrimSpace(name) == "" {
		name = configName
	}
	theme, ok := mdstyle.ThemeByName(name)
	if !ok {
		return nil, fmt.Errorf("unknown theme %q (available: %s)", name, strings.Join(mdstyle.AvailableThemes(), ", "))
	}
	return theme, nil
}

func resolveProfile(w io.Writer, boring bool) termenv.Profile {
	if boring {
		return termenv.Ascii
	}
	if isTerminal(w) {
		return termenv.NewOutput(w).EnvColorProfile()
	}
	return termenv.TrueColor
}

// resolveWidth returns width when set, the terminal width when writing to a
// terminal, and 0 (no truncation) otherwise.
func resolveWidth(width int, w io.Writer) int {
	if width > 0 {
		return width
	}
	if !isTerminal(w) {
		return 0
	}
	return terminalWidth(0)
}

func terminalWidth(fallback int) int {
	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			return w
		}
	}
	if value := os.Getenv("COLUMNS"); value != "" {
		if w, err := strconv.Atoi(value); err == nil && w > 0 {
			return w
		}
	}
	return fallback
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
