package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/JoshCheek/nushell/internal/decode"
	"github.com/JoshCheek/nushell/internal/exit"
	"github.com/JoshCheek/nushell/internal/formatter"
	"github.com/JoshCheek/nushell/internal/report"
)

// Stdin is the input name that reads standard input.
const Stdin = "-"

var (
	ErrNoArguments = errors.New("no arguments provided")
	ErrEmptyInput  = errors.New("input path cannot be empty")
	ErrEmptyPath   = errors.New("column path cannot be empty")
)

// Config represents the complete configuration for the get tool.
type Config struct {
	// Column paths as typed on the command line. Empty means discovery mode.
	Paths    []string
	JSONPath bool

	// Inputs are file paths, or Stdin. Empty means standard input.
	Inputs []string
	Format decode.Format

	Output        formatter.Format
	Summary       bool
	SummaryFormat report.Format
	AllowErrors   bool
	Debug         bool

	ConfigFile string
}

// Discovery reports whether no paths were given, so the run lists columns.
func (c *Config) Discovery() bool {
	return len(c.Paths) == 0
}

// InputNames returns the inputs to read, defaulting to standard input.
func (c *Config) InputNames() []string {
	if len(c.Inputs) == 0 {
		return []string{Stdin}
	}
	return c.Inputs
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	for _, path := range c.Paths {
		if strings.TrimSpace(path) == "" {
			return ErrEmptyPath
		}
	}

	for _, input := range c.Inputs {
		if input == "" {
			return ErrEmptyInput
		}
		if input == Stdin {
			continue
		}
		if _, err := os.Stat(input); err != nil {
			return fmt.Errorf("input file %s not found: %w", input, err)
		}
	}

	return nil
}

// inputsFlag implements flag.Value for parsing multiple -input flags.
type inputsFlag []string

// String returns a string representation of the inputs flag for flag.Value interface.
func (i *inputsFlag) String() string {
	return strings.Join(*i, ",")
}

// Set appends one input for flag.Value interface.
func (i *inputsFlag) Set(value string) error {
	if value == "" {
		return ErrEmptyInput
	}
	*i = append(*i, value)
	return nil
}

// fileDefaults is the shape of the YAML file passed with --config. Pointers
// distinguish an absent key from a false value.
type fileDefaults struct {
	Inputs        []string `yaml:"inputs"`
	Format        string   `yaml:"format"`
	Output        string   `yaml:"output"`
	Summary       *bool    `yaml:"summary"`
	SummaryFormat string   `yaml:"summary_format"`
	AllowErrors   *bool    `yaml:"allow_errors"`
	Debug         *bool    `yaml:"debug"`
	JSONPath      *bool    `yaml:"jsonpath"`
}

// Parse parses command-line arguments and returns a validated Config.
// If parsing fails or help is requested, returns nil config and exit result.
func Parse(args []string) (*Config, *exit.Result) {
	if len(args) == 0 {
		return nil, exit.Errorf("Error: %v\n\n%s", ErrNoArguments, Usage())
	}

	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)

	// Suppress the default usage output since we handle it ourselves
	fs.Usage = func() {}
	// Suppress error output since we handle it ourselves
	fs.SetOutput(io.Discard)

	var (
		inputs        inputsFlag
		format        = fs.String("format", string(decode.Auto), "Input format: auto, json, yaml or parquet")
		output        = fs.String("output", string(formatter.Text), "Output format: text, json or yaml")
		summary       = fs.Bool("summary", false, "Print a run summary on stderr")
		summaryFormat = fs.String("summary-format", string(report.FormatText), "Summary format: text or json")
		allowErrors   = fs.Bool("allow-errors", false, "Exit 0 even when error values were emitted")
		debug         = fs.Bool("debug", false, "Enable debug output showing parsed paths and decoded items")
		jsonPath      = fs.Bool("jsonpath", false, "Treat paths as JSONPath expressions")
		configFile    = fs.String("config", "", "Path to a YAML file with default options")
	)

	fs.Var(&inputs, "input", "Input file, or - for stdin (can be used multiple times)")

	// Paths and flags may be interleaved; everything after "--" is a path.
	var paths []string
	rest := args[1:]
	for {
		if err := fs.Parse(rest); err != nil {
			if err == flag.ErrHelp {
				return nil, exit.Success(Usage())
			}
			return nil, exit.Errorf("Error: failed to parse arguments: %v\n\n%s", err, Usage())
		}

		remaining := fs.Args()
		if len(remaining) == 0 {
			break
		}
		if consumed := len(rest) - len(remaining); consumed > 0 && rest[consumed-1] == "--" {
			paths = append(paths, remaining...)
			break
		}
		paths = append(paths, remaining[0])
		rest = remaining[1:]
	}

	// File defaults apply first; flags given on the command line win.
	if *configFile != "" {
		defaults, err := loadConfigFile(*configFile)
		if err != nil {
			return nil, exit.Errorf("Error: failed to load config file: %v\n\n%s", err, Usage())
		}

		explicit := make(map[string]bool)
		fs.Visit(func(f *flag.Flag) {
			explicit[f.Name] = true
		})

		if !explicit["input"] && len(defaults.Inputs) > 0 {
			inputs = defaults.Inputs
		}
		applyString(explicit["format"], format, defaults.Format)
		applyString(explicit["output"], output, defaults.Output)
		applyString(explicit["summary-format"], summaryFormat, defaults.SummaryFormat)
		applyBool(explicit["summary"], summary, defaults.Summary)
		applyBool(explicit["allow-errors"], allowErrors, defaults.AllowErrors)
		applyBool(explicit["debug"], debug, defaults.Debug)
		applyBool(explicit["jsonpath"], jsonPath, defaults.JSONPath)
	}

	inputFormat, err := decode.ParseFormat(*format)
	if err != nil {
		return nil, exit.Errorf("Error: %v\n\n%s", err, Usage())
	}
	outputFormat, err := formatter.ParseFormat(*output)
	if err != nil {
		return nil, exit.Errorf("Error: %v\n\n%s", err, Usage())
	}
	reportFormat, err := report.ParseFormat(*summaryFormat)
	if err != nil {
		return nil, exit.Errorf("Error: %v\n\n%s", err, Usage())
	}

	config := &Config{
		Paths:         paths,
		JSONPath:      *jsonPath,
		Inputs:        inputs,
		Format:        inputFormat,
		Output:        outputFormat,
		Summary:       *summary,
		SummaryFormat: reportFormat,
		AllowErrors:   *allowErrors,
		Debug:         *debug,
		ConfigFile:    *configFile,
	}

	if err := config.Validate(); err != nil {
		return nil, exit.Errorf("Error: %v\n\n%s", err, Usage())
	}

	return config, nil
}

func applyString(explicit bool, target *string, fromFile string) {
	if !explicit && fromFile != "" {
		*target = fromFile
	}
}

func applyBool(explicit bool, target *bool, fromFile *bool) {
	if !explicit && fromFile != nil {
		*target = *fromFile
	}
}

// loadConfigFile reads YAML defaults. Unknown keys are rejected so typos
// do not pass silently.
func loadConfigFile(filename string) (fileDefaults, error) {
	var defaults fileDefaults

	data, err := os.ReadFile(filename)
	if err != nil {
		return defaults, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	if err := yaml.UnmarshalWithOptions(data, &defaults, yaml.DisallowUnknownField()); err != nil {
		return defaults, fmt.Errorf("invalid config file %s: %w", filename, err)
	}

	return defaults, nil
}

// Usage returns a usage string for the CLI tool.
func Usage() string {
	return `get - Open given cells as text.

Usage: get [options] [path1] [path2] ...

With no paths, get lists the columns present in the input.

Options:
  --input FILE            Input file, or - for stdin (can be used multiple times, default: stdin)
  --format FORMAT         Input format: auto, json, yaml or parquet (default: auto)
  --output FORMAT         Output format: text, json or yaml (default: text)
  --jsonpath              Treat paths as JSONPath expressions ($.a.b[0])
  --summary               Print a run summary on stderr
  --summary-format FMT    Summary format: text or json (default: text)
  --allow-errors          Exit 0 even when error values were emitted
  --config FILE           YAML file with default options; command-line flags win
  --debug                 Enable debug output showing parsed paths and decoded items
  -h, --help              Show this help message

Examples:
  ls | get name                             # Extract the name of files as a list
  sys | get cpu                             # Extract the cpu list from the sys information
  get --input ls.json name size             # Extract several paths from a file
  get --input ls.json name.0                # Extract the first name
  get --input ls.json                       # List the columns present in the input
  get --jsonpath --input ls.json '$.name'   # Use JSONPath syntax`
}
