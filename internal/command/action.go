package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/stachehq/stache/internal/datafile"
	"github.com/stachehq/stache/pkg/stache"
)

func action(ctx context.Context, cmd *cli.Command) error {
	const errCtx = "rendering template"

	template, templateFromStdin, err := readTemplate(cmd.Args().First())
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	data, err := readData(cmd, templateFromStdin)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	opts, err := renderOptions(cmd)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	out, err := stache.Render(template, data, opts...)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return writeOutput(cmd.String("output"), out)
}

// readTemplate loads the template from the positional argument, or from
// stdin when the argument is absent or "-".
func readTemplate(path string) (string, bool, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", true, fmt.Errorf("reading template from stdin: %w", err)
		}
		return string(data), true, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", false, fmt.Errorf("reading template file: %w", err)
	}
	return string(data), false, nil
}

// readData loads the data context from --data. No flag means an empty
// context.
func readData(cmd *cli.Command, templateFromStdin bool) (any, error) {
	path := cmd.String("data")
	format, err := datafile.ParseFormat(cmd.String("data-format"))
	if err != nil {
		return nil, err
	}

	switch path {
	case "":
		return map[string]any{}, nil
	case "-":
		if templateFromStdin {
			return nil, errors.New("template and data cannot both come from stdin")
		}
		return datafile.Read(os.Stdin, format)
	default:
		return datafile.Load(path, format)
	}
}

func renderOptions(cmd *cli.Command) ([]stache.Option, error) {
	opts := []stache.Option{
		stache.WithDelimiters(cmd.String("left-delimiter"), cmd.String("right-delimiter")),
		stache.WithPartials(stache.DirPartials{
			Dir: cmd.String("partials-path"),
			Ext: cmd.String("partials-ext"),
		}),
	}

	if cmd.Bool("no-escape") {
		opts = append(opts, stache.WithHTMLEscaping(false))
	}
	if cmd.Bool("keep") {
		opts = append(opts, stache.WithKeepMissingTags())
	}

	if cmd.Bool("strict") && cmd.Bool("warn") {
		return nil, errors.New("the --strict and --warn flags are mutually exclusive")
	}
	if cmd.Bool("strict") {
		opts = append(opts, stache.WithMissingKeyPolicy(stache.MissingKeyFail))
	}
	if cmd.Bool("warn") {
		opts = append(opts, stache.WithMissingKeyPolicy(stache.MissingKeyWarn))
	}

	return opts, nil
}

func writeOutput(path, out string) error {
	if path == "" || path == "-" {
		_, err := io.WriteString(os.Stdout, out)
		return err
	}
	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}
	return nil
}
