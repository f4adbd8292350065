// Package main is the entry point for the quill command, which runs
// document edits on files from the shell.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/dshills/quill/internal/app"
	"github.com/dshills/quill/internal/document"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// actions are the edits and queries applied to every file.
type actions struct {
	toggle    string
	word      int
	scope     int
	dryRun    bool
	showFails bool
}

func main() {
	os.Exit(run())
}

func run() int {
	opts, acts, files := parseFlags()

	application, err := app.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	status := 0
	for _, path := range files {
		if err := process(ctx, application, path, acts, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			status = 1
			if errors.Is(err, context.Canceled) {
				break
			}
		}
	}
	return status
}

// process opens path, applies acts and saves the result unless acts is
// a dry run, in which case the text is written to out instead.
func process(ctx context.Context, application *app.Application, path string, acts actions, out io.Writer) error {
	d, err := application.Open(path)
	if err != nil {
		return err
	}
	defer application.CloseDocument(path)

	if err := apply(d, acts, out); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	if acts.showFails {
		for _, f := range d.Failures() {
			fmt.Fprintf(out, "%s: listener failure: %v\n", path, f)
		}
	}

	if !d.Modified() {
		return nil
	}
	if acts.dryRun {
		_, err := io.WriteString(out, d.Text())
		return err
	}
	return application.Save(ctx, path)
}

// apply runs the queries and edits in acts against d.
func apply(d *document.Document, acts actions, out io.Writer) error {
	if acts.word >= 0 {
		r, err := d.WordRangeAtOffset(acts.word)
		if err != nil {
			return err
		}
		word, err := d.WordAtOffset(acts.word)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%q %d %d\n", word, r.Start, r.End)
	}

	if acts.scope >= 0 {
		scopes, err := d.ScopeAt(acts.scope)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, strings.Join(scopes, " "))
	}

	if acts.toggle != "" {
		first, last, err := parseLineRange(acts.toggle)
		if err != nil {
			return err
		}
		if last >= d.LineCount() {
			return fmt.Errorf("line %d is past the end (%d lines)", last+1, d.LineCount())
		}
		if err := d.ToggleCommentLines(first, last); err != nil {
			return err
		}
	}
	return nil
}

// parseLineRange parses "L" or "L:M", 1-based and inclusive, into
// 0-based line numbers.
func parseLineRange(s string) (int, int, error) {
	firstStr, lastStr, hasLast := strings.Cut(s, ":")
	first, err := strconv.Atoi(firstStr)
	if err != nil || first < 1 {
		return 0, 0, fmt.Errorf("invalid line %q", firstStr)
	}
	last := first
	if hasLast {
		last, err = strconv.Atoi(lastStr)
		if err != nil || last < 1 {
			return 0, 0, fmt.Errorf("invalid line %q", lastStr)
		}
	}
	if last < first {
		first, last = last, first
	}
	return first - 1, last - 1, nil
}

func parseFlags() (app.Options, actions, []string) {
	var opts app.Options
	acts := actions{word: -1, scope: -1}
	var pluginDirs string
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error); overrides the settings file")
	flag.StringVar(&pluginDirs, "plugins", "", "Comma-separated plugin directories, scanned before the configured ones")
	flag.BoolVar(&opts.NoPlugins, "no-plugins", false, "Do not load plugins")
	flag.StringVar(&acts.toggle, "toggle-comment", "", "Toggle line comments on line L or lines L:M (1-based)")
	flag.IntVar(&acts.word, "word", -1, "Print the word at a character offset")
	flag.IntVar(&acts.scope, "scope", -1, "Print the lexical scopes at a character offset")
	flag.BoolVar(&acts.dryRun, "dry-run", false, "Print the edited text instead of saving")
	flag.BoolVar(&acts.dryRun, "n", false, "Print the edited text instead of saving (shorthand)")
	flag.BoolVar(&acts.showFails, "failures", false, "Print plugin listener failures")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "quill - scriptable document editing engine\n\n")
		fmt.Fprintf(os.Stderr, "Usage: quill [options] files...\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  quill -toggle-comment 3:7 main.go    Comment out lines 3 to 7\n")
		fmt.Fprintf(os.Stderr, "  quill -word 120 lib/app.rb           Print the word at offset 120\n")
		fmt.Fprintf(os.Stderr, "  quill -plugins ./lua -n notes.txt    Run plugins and print the result\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("quill %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	switch opts.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.LogLevel)
		os.Exit(1)
	}

	if acts.toggle != "" {
		if _, _, err := parseLineRange(acts.toggle); err != nil {
			fmt.Fprintf(os.Stderr, "Error: -toggle-comment: %v\n", err)
			os.Exit(1)
		}
	}

	if pluginDirs != "" {
		for _, dir := range strings.Split(pluginDirs, ",") {
			if dir = strings.TrimSpace(dir); dir != "" {
				opts.PluginDirs = append(opts.PluginDirs, dir)
			}
		}
	}

	files := flag.Args()
	if len(files) == 0 {
		flag.Usage()
		os.Exit(2)
	}
	return opts, acts, files
}
