// Package command builds the stache command-line interface.
package command

import "github.com/urfave/cli/v3"

// Version is stamped at build time via -ldflags.
var Version = "dev"

// New builds the root command. The CLI mirrors the classic mustache
// renderer invocation: a template file (or stdin), a JSON or YAML data
// file, and a directory of partials.
func New() *cli.Command {
	return &cli.Command{
		Name:      "stache",
		Usage:     "render mustache templates",
		Version:   Version,
		ArgsUsage: "[template-file]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "data",
				Aliases: []string{"d"},
				Usage:   "JSON or YAML data file ('-' for stdin)",
			},
			&cli.StringFlag{
				Name:  "data-format",
				Usage: "force the data format: json or yaml",
			},
			&cli.StringFlag{
				Name:    "partials-path",
				Aliases: []string{"p"},
				Value:   ".",
				Usage:   "directory to resolve {{>partial}} tags from",
			},
			&cli.StringFlag{
				Name:    "partials-ext",
				Aliases: []string{"e"},
				Value:   "mustache",
				Usage:   "file extension appended to partial names",
			},
			&cli.StringFlag{
				Name:    "left-delimiter",
				Aliases: []string{"l"},
				Value:   "{{",
				Usage:   "default left tag delimiter",
			},
			&cli.StringFlag{
				Name:    "right-delimiter",
				Aliases: []string{"r"},
				Value:   "}}",
				Usage:   "default right tag delimiter",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "write the rendered output to a file instead of stdout",
			},
			&cli.BoolFlag{
				Name:  "no-escape",
				Usage: "disable HTML escaping of {{variable}} tags",
			},
			&cli.BoolFlag{
				Name:    "warn",
				Aliases: []string{"w"},
				Usage:   "warn on stderr when a key is missing from the data",
			},
			&cli.BoolFlag{
				Name:  "strict",
				Usage: "fail when a key or partial is missing",
			},
			&cli.BoolFlag{
				Name:  "keep",
				Usage: "keep unresolved tags in the output instead of dropping them",
			},
		},
		Action: action,
	}
}
