package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/jsontar/jsontar/pkg/pack"
	"github.com/jsontar/jsontar/pkg/vars"
)

const appVersion = "0.1.0"

func main() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:  "version",
		Usage: "print version",
	}

	app := &cli.App{
		Name:      "jsontar",
		Usage:     "compile a JSON manifest into a deterministic tar file",
		ArgsUsage: "[FILE...]",
		Version:   appVersion,
		Before: func(c *cli.Context) error {
			configureLogging(c.Bool("verbose"))
			return nil
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "generate",
				Aliases: []string{"g"},
				Usage:   "generate a JSON manifest from tar file(s)",
			},
			&cli.BoolFlag{
				Name:  "no-auto-compress",
				Usage: "do not compress output based on file suffix",
			},
			&cli.BoolFlag{
				Name:    "auto-compress",
				Aliases: []string{"a"},
				Usage:   "compress output based on file suffix (default)",
			},
			&cli.BoolFlag{
				Name:    "gzip",
				Aliases: []string{"z"},
				Usage:   "compress output with gzip",
			},
			&cli.BoolFlag{
				Name:    "bzip2",
				Aliases: []string{"j"},
				Usage:   "compress output with bzip2",
			},
			&cli.BoolFlag{
				Name:    "xz",
				Aliases: []string{"J"},
				Usage:   "compress output with xz",
			},
			&cli.BoolFlag{
				Name:  "zstd",
				Usage: "compress output with zstd",
			},
			&cli.StringFlag{
				Name:    "template",
				Aliases: []string{"T"},
				Usage:   "read template definitions from `FILE`",
			},
			&cli.StringSliceFlag{
				Name:    "define",
				Aliases: []string{"d"},
				Usage:   "define template variable `KEY=VALUE`",
			},
			&cli.StringFlag{
				Name:    "directory",
				Aliases: []string{"C"},
				Usage:   "treat source paths as relative to `DIR`",
			},
			&cli.StringFlag{
				Name:  "dirs",
				Value: "first",
				Usage: "duplicate directory policy: first, last, or omit",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"f"},
				Usage:   "output `FILE` (default stdout)",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "verbose output",
			},
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func configureLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		}),
	))
}

func run(c *cli.Context) error {
	if c.Bool("generate") {
		return runGenerate(c)
	}

	table, err := buildTable(c)
	if err != nil {
		return err
	}

	policy, err := pack.ParsePolicy(c.String("dirs"))
	if err != nil {
		return err
	}

	return runCompile(c, pack.Options{
		Vars:    table,
		Policy:  policy,
		BaseDir: c.String("directory"),
	})
}

// buildTable loads -T definitions, then applies -d overrides on top.
func buildTable(c *cli.Context) (vars.Table, error) {
	table := vars.Table{}

	if path := c.String("template"); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		loaded, err := vars.Load(f, path)
		f.Close()
		if err != nil {
			return nil, err
		}
		table.Merge(loaded)
	}

	defined := vars.Table{}
	for _, def := range c.StringSlice("define") {
		if err := defined.Define(def); err != nil {
			return nil, err
		}
	}
	table.Merge(defined)

	slog.Debug("variable table built", "vars", len(table))
	return table, nil
}
