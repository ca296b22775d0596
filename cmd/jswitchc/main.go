package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/MakeNowJust/heredoc"
	"github.com/aymanbagabas/go-udiff"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/lhaig/jswitch/internal/codegen"
	"github.com/lhaig/jswitch/internal/compiler"
	"github.com/lhaig/jswitch/internal/config"
	"github.com/lhaig/jswitch/internal/diagnostic"
	"github.com/lhaig/jswitch/internal/formatter"
	"github.com/lhaig/jswitch/internal/lexer"
	"github.com/lhaig/jswitch/internal/parser"
)

var usage = heredoc.Doc(`
	jswitchc - switch resolution for a Java subset

	Usage:
	  jswitchc check  [options] <file|dir>...    Parse, resolve and flow-check sources
	  jswitchc tokens [options] <file>           Print the token stream
	  jswitchc dump   [options] <file|dir>...    Print dispatch tables and label placement
	  jswitchc fmt    [-d] [-w] <file>           Print canonical source
	  jswitchc lint   [options] <file|dir>...    Run style checks
	  jswitchc config [options]                  Print the effective settings

	Options:
	  --config <file>    Settings file (default: jswitch.toml or jswitch.json)
	  --source <N>       Source level, 8 to 21 (also accepts 1.8)
	  --format <name>    Dump format: text, json or yaml (config: toml or json)
	  -o <file>          Write the dump to a file instead of stdout
	  -d                 fmt: print a unified diff instead of the source
	  -w                 fmt: rewrite the file in place
	  --verbose          Log pipeline progress to stderr

	Environment:
	  JSWITCH_SOURCE_LEVEL, JSWITCH_COLOR, JSWITCH_DUMP_FORMAT,
	  JSWITCH_WARNINGS, JSWITCH_VERBOSE override the settings file.

	Examples:
	  jswitchc check src/                 Check every .java file under src
	  jswitchc dump --format yaml Day.java
	  jswitchc fmt -d Day.java            Show what fmt would change
`)

// cliOptions holds the flags shared by all commands
type cliOptions struct {
	configPath string
	source     string
	format     string
	output     string
	diff       bool
	write      bool
	verbose    bool
	paths      []string
}

// cli carries the output streams of one invocation.
type cli struct {
	stdout io.Writer
	stderr io.Writer
	log    *log.Logger
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one command and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	c := &cli{stdout: stdout, stderr: stderr, log: log.New(io.Discard, "jswitchc: ", 0)}
	if len(args) < 1 {
		fmt.Fprint(stderr, usage)
		return 1
	}

	command, rest := args[0], args[1:]

	switch command {
	case "check":
		return c.handleCheck(rest)
	case "tokens":
		return c.handleTokens(rest)
	case "dump":
		return c.handleDump(rest)
	case "fmt":
		return c.handleFmt(rest)
	case "lint":
		return c.handleLint(rest)
	case "config":
		return c.handleConfig(rest)
	case "help", "--help", "-h":
		fmt.Fprint(stdout, usage)
		return 0
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", command)
		fmt.Fprint(stderr, usage)
		return 1
	}
}

func parseArgs(args []string) (cliOptions, error) {
	var opts cliOptions
	for i := 0; i < len(args); i++ {
		arg := args[i]
		value := func() (string, error) {
			if i+1 >= len(args) {
				return "", fmt.Errorf("%s needs a value", arg)
			}
			i++
			return args[i], nil
		}

		var err error
		switch arg {
		case "--config":
			opts.configPath, err = value()
		case "--source":
			opts.source, err = value()
		case "--format":
			opts.format, err = value()
		case "-o":
			opts.output, err = value()
		case "-d":
			opts.diff = true
		case "-w":
			opts.write = true
		case "--verbose", "-v":
			opts.verbose = true
		default:
			if strings.HasPrefix(arg, "-") {
				return cliOptions{}, fmt.Errorf("unknown option: %s", arg)
			}
			opts.paths = append(opts.paths, arg)
		}
		if err != nil {
			return cliOptions{}, err
		}
	}
	return opts, nil
}

// parse reads the flags and reports a usage error on stderr.
func (c *cli) parse(args []string) (cliOptions, bool) {
	opts, err := parseArgs(args)
	if err != nil {
		fmt.Fprintf(c.stderr, "Error: %s\n", err)
		return cliOptions{}, false
	}
	return opts, true
}

// resolveSettings layers the flags over the settings file and environment.
func resolveSettings(opts cliOptions) (config.Settings, config.SettingsHandle, error) {
	settings, handle, err := config.Load(".", opts.configPath)
	if err != nil {
		return config.Settings{}, config.SettingsHandle{}, err
	}
	if opts.source != "" {
		level, err := config.ParseSourceLevel(opts.source)
		if err != nil {
			return config.Settings{}, config.SettingsHandle{}, fmt.Errorf("--source: %w", err)
		}
		settings.SourceLevel = level
	}
	if opts.format != "" {
		settings.DumpFormat = strings.ToLower(opts.format)
	}
	if opts.verbose {
		settings.Verbose = true
	}
	if err := settings.Validate(); err != nil {
		return config.Settings{}, config.SettingsHandle{}, err
	}
	return settings, handle, nil
}

// loadSettings resolves the settings and points the logger at stderr when
// verbose.
func (c *cli) loadSettings(opts cliOptions) (config.Settings, config.SettingsHandle, bool) {
	settings, handle, err := resolveSettings(opts)
	if err != nil {
		fmt.Fprintf(c.stderr, "Error: %s\n", err)
		return config.Settings{}, config.SettingsHandle{}, false
	}
	if settings.Verbose {
		c.log.SetOutput(c.stderr)
	}
	c.log.Printf("settings from %s: source level %d, color %s", handle.Path, settings.SourceLevel, settings.Color)
	return settings, handle, true
}

func (c *cli) styles(settings config.Settings) diagnostic.Styles {
	r := lipgloss.NewRenderer(c.stderr)
	switch settings.Color {
	case config.ColorNever:
		r.SetColorProfile(termenv.Ascii)
	case config.ColorAlways:
		r.SetColorProfile(termenv.ANSI256)
	}
	return diagnostic.DefaultStyles(r)
}

// report prints diags to stderr, dropping warnings when they are disabled.
func (c *cli) report(diags *diagnostic.Diagnostics, settings config.Settings) {
	if !settings.Warnings {
		diags = diags.ErrorsOnly()
	}
	if diags.Count() == 0 {
		return
	}
	fmt.Fprintln(c.stderr, diags.FormatStyled("", c.styles(settings)))
}

func compileOptions(settings config.Settings) []compiler.Option {
	return []compiler.Option{compiler.WithSourceLevel(settings.SourceLevel)}
}

func (c *cli) requirePaths(opts cliOptions) bool {
	if len(opts.paths) == 0 {
		fmt.Fprintln(c.stderr, "Error: no input file specified")
		return false
	}
	return true
}

func (c *cli) handleCheck(args []string) int {
	opts, ok := c.parse(args)
	if !ok || !c.requirePaths(opts) {
		return 1
	}
	settings, _, ok := c.loadSettings(opts)
	if !ok {
		return 1
	}

	c.log.Printf("checking %s", strings.Join(opts.paths, ", "))
	diag, err := compiler.CheckProject(opts.paths, compileOptions(settings)...)
	if err != nil {
		fmt.Fprintf(c.stderr, "Error: %s\n", err)
		return 1
	}
	c.report(diag, settings)
	if diag.HasErrors() {
		return 1
	}

	fmt.Fprintln(c.stdout, "No errors found.")
	return 0
}

func (c *cli) handleTokens(args []string) int {
	opts, ok := c.parse(args)
	if !ok {
		return 1
	}
	if len(opts.paths) != 1 {
		fmt.Fprintln(c.stderr, "Error: tokens takes exactly one file")
		return 1
	}
	settings, _, ok := c.loadSettings(opts)
	if !ok {
		return 1
	}

	source, err := os.ReadFile(opts.paths[0])
	if err != nil {
		fmt.Fprintf(c.stderr, "Error reading file: %s\n", err)
		return 1
	}

	for _, tok := range lexer.New(string(source)).Tokenize() {
		kind := lexer.Classify(tok, settings.SourceLevel)
		if kind == lexer.EOF {
			break
		}
		marker := ""
		if kind != tok.Type {
			marker = " (restricted)"
		}
		fmt.Fprintf(c.stdout, "%d:%d\t%s\t%s%s\n", tok.Line, tok.Column, kind, tok.Literal, marker)
	}
	return 0
}

func (c *cli) handleDump(args []string) int {
	opts, ok := c.parse(args)
	if !ok || !c.requirePaths(opts) {
		return 1
	}
	settings, _, ok := c.loadSettings(opts)
	if !ok {
		return 1
	}

	format, err := codegen.ParseFormat(settings.DumpFormat)
	if err != nil {
		fmt.Fprintf(c.stderr, "Error: %s\n", err)
		return 1
	}

	if opts.output != "" {
		outPath, res, err := compiler.EmitDump(opts.paths, opts.output, format, compileOptions(settings)...)
		if res != nil {
			c.report(res.Diagnostics, settings)
		}
		if err != nil {
			if res == nil || !res.Diagnostics.HasErrors() {
				fmt.Fprintf(c.stderr, "Error: %s\n", err)
			}
			return 1
		}
		fmt.Fprintf(c.stdout, "Wrote %s\n", outPath)
		return 0
	}

	res, err := compiler.DumpProject(c.stdout, opts.paths, format, compileOptions(settings)...)
	if err != nil {
		fmt.Fprintf(c.stderr, "Error: %s\n", err)
		return 1
	}
	c.report(res.Diagnostics, settings)
	if res.Diagnostics.HasErrors() {
		return 1
	}
	return 0
}

func (c *cli) handleFmt(args []string) int {
	opts, ok := c.parse(args)
	if !ok {
		return 1
	}
	if len(opts.paths) != 1 {
		fmt.Fprintln(c.stderr, "Error: fmt takes exactly one file")
		return 1
	}
	settings, _, ok := c.loadSettings(opts)
	if !ok {
		return 1
	}
	filePath := opts.paths[0]

	source, err := os.ReadFile(filePath)
	if err != nil {
		fmt.Fprintf(c.stderr, "Error reading file: %s\n", err)
		return 1
	}

	p := parser.New(string(source), parser.WithFile(filePath), parser.WithSourceLevel(settings.SourceLevel))
	unit := p.Parse()
	if p.Diagnostics().HasErrors() {
		c.report(p.Diagnostics(), settings)
		return 1
	}
	formatted := formatter.Format(unit)

	switch {
	case opts.diff:
		fmt.Fprint(c.stdout, udiff.Unified(filePath, filePath+" (formatted)", string(source), formatted))
	case opts.write:
		if formatted == string(source) {
			c.log.Printf("%s already formatted", filePath)
			return 0
		}
		if err := os.WriteFile(filePath, []byte(formatted), 0644); err != nil {
			fmt.Fprintf(c.stderr, "Error writing file: %s\n", err)
			return 1
		}
		c.log.Printf("rewrote %s", filePath)
	default:
		fmt.Fprint(c.stdout, formatted)
	}
	return 0
}

func (c *cli) handleLint(args []string) int {
	opts, ok := c.parse(args)
	if !ok || !c.requirePaths(opts) {
		return 1
	}
	settings, _, ok := c.loadSettings(opts)
	if !ok {
		return 1
	}

	diag, err := compiler.LintProject(opts.paths, compileOptions(settings)...)
	if err != nil {
		fmt.Fprintf(c.stderr, "Error: %s\n", err)
		return 1
	}
	if diag.HasErrors() {
		c.report(diag, settings)
		return 1
	}
	if diag.Count() == 0 {
		fmt.Fprintln(c.stdout, "No lint warnings.")
		return 0
	}
	// lint output is the warnings themselves, so the warnings setting does not apply
	fmt.Fprintln(c.stderr, diag.FormatStyled("", c.styles(settings)))
	fmt.Fprintf(c.stdout, "%d warning(s)\n", diag.WarningCount())
	return 0
}

func (c *cli) handleConfig(args []string) int {
	opts, ok := c.parse(args)
	if !ok {
		return 1
	}
	// --format picks the settings encoding here, not the dump format
	encoding := config.SettingsFormat(strings.ToLower(opts.format))
	opts.format = ""
	settings, handle, ok := c.loadSettings(opts)
	if !ok {
		return 1
	}

	if encoding == "" {
		encoding = handle.Format
	}
	if err := config.Encode(c.stdout, settings, encoding); err != nil {
		fmt.Fprintf(c.stderr, "Error: %s\n", err)
		return 1
	}
	return 0
}
