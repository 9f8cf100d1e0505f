// Command munch converts a document between JSON, YAML and the textual
// representation read by munch.Eval.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/KimNorgaard/go-munch"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type config struct {
	from    string
	to      string
	indent  int
	tagged  bool
	verbose bool
	input   string
}

func parseFlags(args []string, stderr io.Writer) (*config, error) {
	fs := flag.NewFlagSet("munch", flag.ContinueOnError)
	fs.SetOutput(stderr)
	cfg := &config{}
	fs.StringVar(&cfg.from, "from", "json", "Input format: json, yaml or repr")
	fs.StringVar(&cfg.to, "to", "repr", "Output format: json, yaml or repr")
	fs.IntVar(&cfg.indent, "indent", 0, "Indentation for json and repr output (0 for compact)")
	fs.BoolVar(&cfg.tagged, "tagged", false, "Read and write tagged YAML")
	fs.BoolVar(&cfg.verbose, "v", false, "Log debug events to stderr")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: munch [-from fmt] [-to fmt] [-indent n] [-tagged] [-v] [file]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 1 {
		fs.Usage()
		return nil, fmt.Errorf("expected at most one input file, got %d", fs.NArg())
	}
	cfg.input = fs.Arg(0)
	return cfg, nil
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cfg, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	if cfg.verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("create logger: %w", err)
		}
		defer func() { _ = logger.Sync() }()
		munch.SetLogger(logger)
		defer munch.SetLogger(nil)
	}

	data, err := readInput(cfg.input, stdin)
	if err != nil {
		return err
	}

	var yamlOpts []munch.YAMLOption
	if cfg.tagged {
		yamlOpts = append(yamlOpts, munch.Tagged())
	}

	v, err := decode(cfg.from, data, yamlOpts)
	if err != nil {
		return err
	}
	out, err := encode(cfg.to, v, cfg.indent, yamlOpts)
	if err != nil {
		return err
	}
	if _, err := stdout.Write(out); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path != "" && path != "-" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read file: %w", err)
		}
		return data, nil
	}
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return nil, fmt.Errorf("no input file given and stdin is a terminal")
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return data, nil
}

func decode(format string, data []byte, yamlOpts []munch.YAMLOption) (any, error) {
	switch format {
	case "json":
		return munch.FromJSON(data)
	case "yaml":
		return munch.FromYAML(data, yamlOpts...)
	case "repr":
		return munch.Eval(data)
	}
	return nil, fmt.Errorf("unknown input format %q", format)
}

func encode(format string, v any, indent int, yamlOpts []munch.YAMLOption) ([]byte, error) {
	switch format {
	case "json":
		if m, ok := v.(*munch.Munch); ok {
			out, err := m.ToJSON(munch.Indent(indent))
			if err != nil {
				return nil, err
			}
			return append(out, '\n'), nil
		}
		out, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		return append(out, '\n'), nil
	case "yaml":
		codec, err := munch.NewYAMLCodec(yamlOpts...)
		if err != nil {
			return nil, err
		}
		return codec.Marshal(v)
	case "repr":
		out, err := munch.Format(v, munch.Indent(indent))
		if err != nil {
			return nil, err
		}
		return append(out, '\n'), nil
	}
	return nil, fmt.Errorf("unknown output format %q", format)
}
