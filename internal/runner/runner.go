package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"

	"github.com/JoshCheek/nushell/internal/columnpath"
	"github.com/JoshCheek/nushell/internal/config"
	"github.com/JoshCheek/nushell/internal/decode"
	"github.com/JoshCheek/nushell/internal/decompress"
	"github.com/JoshCheek/nushell/internal/diagnostics"
	"github.com/JoshCheek/nushell/internal/exit"
	"github.com/JoshCheek/nushell/internal/formatter"
	"github.com/JoshCheek/nushell/internal/formatter/stdout"
	"github.com/JoshCheek/nushell/internal/get"
	"github.com/JoshCheek/nushell/internal/report"
	"github.com/JoshCheek/nushell/internal/source"
	"github.com/JoshCheek/nushell/internal/suggest"
	"github.com/JoshCheek/nushell/internal/value"
)

// Runner executes one get invocation.
type Runner struct {
	config    *config.Config
	files     *source.Files
	formatter formatter.Formatter
	stdin     io.Reader
	errOut    io.Writer
	paths     []columnpath.Path
}

// New creates a Runner reading stdin and writing to stdout and stderr.
// If the paths cannot be parsed, returns nil runner and exit result.
func New(cfg *config.Config) (*Runner, *exit.Result) {
	return NewWithIO(cfg, os.Stdin, os.Stdout, os.Stderr)
}

// NewWithIO creates a Runner with custom streams.
// This is useful for testing or embedding.
func NewWithIO(cfg *config.Config, stdin io.Reader, out io.Writer, errOut io.Writer) (*Runner, *exit.Result) {
	files := source.NewFiles()

	paths, err := parsePaths(files, cfg.Paths, cfg.JSONPath)
	if err != nil {
		return nil, exit.Errorf("Error: %v\n", err)
	}

	return &Runner{
		config:    cfg,
		files:     files,
		formatter: stdout.NewWithWriters(out, errOut, cfg.Output, files, cfg.Debug),
		stdin:     stdin,
		errOut:    errOut,
		paths:     paths,
	}, nil
}

// parsePaths registers each argument as its own source so diagnostics can
// point into it.
func parsePaths(files *source.Files, texts []string, jsonPath bool) ([]columnpath.Path, error) {
	paths := make([]columnpath.Path, 0, len(texts))
	for i, text := range texts {
		file := files.Add(fmt.Sprintf("arg %d", i+1), text)

		var (
			path columnpath.Path
			err  error
		)
		if jsonPath {
			path, err = columnpath.ParseJSONPath(file)
		} else {
			path, err = columnpath.Parse(file)
		}
		if err != nil {
			return nil, fmt.Errorf("invalid path %q: %w", text, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// Run streams every input through the driver and returns the exit code.
func (r *Runner) Run(ctx context.Context) int {
	var summary report.Summary

	r.debugPaths()

	driver := get.New(get.WithExplainer(suggest.Explain))
	for v, err := range driver.Run(ctx, r.items(ctx, &summary), r.paths) {
		if err != nil {
			fmt.Fprintf(r.errOut, "Error: %v\n", err)
			return exit.CodeFailure
		}

		summary.Observe(v)
		if err := r.formatter.Value(v); err != nil {
			fmt.Fprintf(r.errOut, "Error writing output: %v\n", err)
			return exit.CodeFailure
		}
	}

	if r.config.Summary {
		if err := summary.Write(r.errOut, r.config.SummaryFormat); err != nil {
			fmt.Fprintf(r.errOut, "Error writing summary: %v\n", err)
			return exit.CodeFailure
		}
	}

	return exitCode(summary, r.config.AllowErrors)
}

func exitCode(summary report.Summary, allowErrors bool) int {
	for _, input := range summary.Inputs {
		if input.Error != "" {
			return exit.CodeFailure
		}
	}
	if summary.Errors > 0 && !allowErrors {
		return exit.CodeErrorValues
	}
	return exit.CodeSuccess
}

// items concatenates the decoded inputs. A failing input is reported and
// skipped so the remaining inputs still run; cancellation ends the stream.
func (r *Runner) items(ctx context.Context, summary *report.Summary) iter.Seq2[value.Value, error] {
	return func(yield func(value.Value, error) bool) {
		for _, name := range r.config.InputNames() {
			result, ok := r.input(ctx, name, yield)
			summary.AddInput(result)
			if !ok {
				return
			}
		}
	}
}

func (r *Runner) input(ctx context.Context, name string, yield func(value.Value, error) bool) (report.InputResult, bool) {
	result := report.InputResult{Name: name}

	reader, display, err := r.open(name)
	if err != nil {
		result.Error = err.Error()
		r.reportInputError(display, err)
		return result, true
	}
	defer reader.Close()
	result.Name = display

	in := decode.Input{
		Name:   display,
		Reader: reader,
		Opened: func(codec decompress.Codec, format decode.Format) {
			result.Codec = string(codec)
			result.Format = string(format)
		},
	}

	for item, err := range decode.Stream(ctx, r.files, in, r.config.Format) {
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return result, yield(nil, ctxErr)
			}
			result.Error = err.Error()
			r.reportInputError(display, err)
			return result, true
		}

		result.Items++
		r.debugItem(display, result.Items, item)
		if !yield(item, nil) {
			return result, false
		}
	}

	return result, true
}

func (r *Runner) open(name string) (io.ReadCloser, string, error) {
	if name == config.Stdin {
		return io.NopCloser(r.stdin), "stdin", nil
	}
	file, err := os.Open(name)
	if err != nil {
		return nil, name, err
	}
	return file, name, nil
}

func (r *Runner) reportInputError(name string, err error) {
	var decodeErr *decode.Error
	diagnostic := diagnostics.New(diagnostics.CodeDecodeFailed, err.Error(), source.Unknown()).
		WithSecondary("while reading "+name, source.Unknown())
	if errors.As(err, &decodeErr) {
		diagnostic = decodeErr.Diagnostic()
	}

	if err := r.formatter.Diagnostic(diagnostic); err != nil {
		fmt.Fprintf(r.errOut, "Error: %v\n", err)
	}
}
