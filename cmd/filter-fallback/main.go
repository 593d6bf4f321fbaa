// Command filter-fallback adds fallbacks for the CSS filter property to
// stylesheets, HTML documents and css tagged templates in JavaScript.
//
// Usage:
//
//	filter-fallback [flags] [paths...]
//	filter-fallback lsp [-debug]
//	filter-fallback preview <filter-value>
//	filter-fallback version
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"bennypowers.dev/filterfallback/internal/config"
	"bennypowers.dev/filterfallback/internal/fallback"
	"bennypowers.dev/filterfallback/internal/log"
	"bennypowers.dev/filterfallback/internal/position"
	"bennypowers.dev/filterfallback/internal/preview"
	"bennypowers.dev/filterfallback/internal/sources"
	"bennypowers.dev/filterfallback/internal/version"
	"bennypowers.dev/filterfallback/lsp"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	if len(args) > 0 {
		switch args[0] {
		case "lsp":
			return serve(args[1:])
		case "preview":
			if len(args) != 2 {
				return errors.New("usage: filter-fallback preview <filter-value>")
			}
			return preview.Render(stdout, args[1])
		case "version":
			_, err := fmt.Fprintln(stdout, version.GetFullVersion())
			return err
		}
	}
	return rewrite(args, stdout)
}

func serve(args []string) error {
	flags := flag.NewFlagSet("filter-fallback lsp", flag.ContinueOnError)
	debug := flags.Bool("debug", false, "log protocol traffic to stderr")
	if err := flags.Parse(args); err != nil {
		return err
	}

	verbosity := 1
	if *debug {
		verbosity = 2
		log.SetLevel(log.LevelDebug)
	}
	commonlog.Configure(verbosity, nil)

	server := lsp.NewServer(*debug)
	defer server.Close()

	log.Info("Starting filter-fallback %s", version.GetVersion())
	if err := server.RunStdio(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// newFlagSet declares the rewrite flags. Their defaults only document the
// config defaults: applyFlags copies the flags that were set, so a config
// file wins over flags left alone.
func newFlagSet() *flag.FlagSet {
	def := config.Default()
	flags := flag.NewFlagSet("filter-fallback", flag.ContinueOnError)
	flags.Bool("legacy", def.Legacy, "add proprietary filters for old Internet Explorer")
	flags.Bool("svg", def.SVG, "add a filter referencing an inline SVG document")
	flags.Bool("webkit", def.Webkit, "add a -webkit-filter declaration")
	flags.String("strict", def.Strict.String(), "on unconvertible filters: true fails, warn logs, false ignores")
	flags.Bool("allow-duplicates", !def.SkipIfDuplicated, "process rules that declare filter more than once")
	flags.Bool("encode", def.EncodeDataURI, "percent-encode the SVG data URI")
	flags.Bool("write", false, "rewrite files in place instead of printing them")
	flags.String("config", "", "directory to load the config file from (default: working directory)")
	flags.String("log-level", def.LogLevel, "one of debug, info, warn, error")
	return flags
}

// applyFlags overlays the flags set on the command line on cfg
func applyFlags(cfg config.Config, flags *flag.FlagSet) (config.Config, error) {
	var errs []error
	boolean := func(f *flag.Flag, dst *bool, invert bool) {
		v, err := strconv.ParseBool(f.Value.String())
		if err != nil {
			errs = append(errs, fmt.Errorf("-%s: %w", f.Name, err))
			return
		}
		*dst = v != invert
	}

	flags.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "legacy":
			boolean(f, &cfg.Legacy, false)
		case "svg":
			boolean(f, &cfg.SVG, false)
		case "webkit":
			boolean(f, &cfg.Webkit, false)
		case "allow-duplicates":
			boolean(f, &cfg.SkipIfDuplicated, true)
		case "encode":
			boolean(f, &cfg.EncodeDataURI, false)
		case "strict":
			mode, err := fallback.ParseStrictMode(f.Value.String())
			if err != nil {
				errs = append(errs, fmt.Errorf("-strict: %w", err))
				return
			}
			cfg.Strict = mode
		case "log-level":
			cfg.LogLevel = f.Value.String()
		}
	})
	return cfg, errors.Join(errs...)
}

func rewrite(args []string, stdout io.Writer) error {
	flags := newFlagSet()
	if err := flags.Parse(args); err != nil {
		return err
	}

	root := flags.Lookup("config").Value.String()
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}
		root = wd
	}

	cfg, path, err := config.Load(root)
	if err != nil {
		return err
	}
	if cfg, err = applyFlags(cfg, flags); err != nil {
		return err
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	log.SetLevel(level)
	if path != "" {
		log.Debug("Loaded config from %s", path)
	}

	files, err := inputs(root, flags.Args(), cfg.Files)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		log.Warn("No files matched %v under %s", cfg.Files, root)
		return nil
	}

	write := flags.Lookup("write").Value.String() == "true"
	opts := cfg.Options()
	for _, file := range files {
		if err := rewriteFile(file, opts, write, stdout); err != nil {
			return err
		}
	}
	return nil
}

// inputs resolves the command line paths to files. Directories expand to
// the files under them matching patterns; no paths expand root.
func inputs(root string, paths, patterns []string) ([]string, error) {
	if err := sources.ValidatePatterns(patterns); err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return sources.Expand(root, patterns)
	}

	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", path, err)
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		expanded, err := sources.Expand(path, patterns)
		if err != nil {
			return nil, err
		}
		files = append(files, expanded...)
	}
	return files, nil
}

// rewriteFile processes one file, logging its warnings
func rewriteFile(path string, opts fallback.Options, write bool, stdout io.Writer) error {
	lang := sources.LanguageForPath(path)
	if lang == sources.Unsupported {
		log.Warn("Skipping %s: unsupported file type", path)
		return nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	content := string(data)

	result, err := sources.Rewrite(lang, content, opts)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	name := filepath.ToSlash(path)
	for _, w := range result.Warnings {
		if w.Offset < 0 {
			log.Warn("%s: %s", name, w.Error())
			continue
		}
		log.Warn("%s:%s: %s", name, position.FromOffset(content, w.Offset), w.Error())
	}

	switch {
	case !write:
		if _, err := io.WriteString(stdout, result.Output); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	case result.Changed:
		if err := os.WriteFile(path, []byte(result.Output), info.Mode().Perm()); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		log.Info("Rewrote %s", name)
	}
	return nil
}
