package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/fminject/internal"
	"github.com/starford/fminject/internal/apperr"
	pkgconfig "github.com/starford/fminject/pkg/config"
)

// options loads the config and resolves the target directory shared by every command.
func options(cmd *cli.Command) ([]internal.Option, error) {
	cfg := internal.NewDefaultConfig()
	if _, err := pkgconfig.LoadOptional(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	root := cmd.String("dir")
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("working directory: %w", err)
		}
		root = wd
	}

	return []internal.Option{
		internal.WithConfig(cfg),
		internal.WithRoot(root),
		internal.WithDryRun(cmd.Bool("dry-run")),
	}, nil
}

func run(ctx context.Context, cmd *cli.Command) error {
	opts, err := options(cmd)
	if err != nil {
		return err
	}
	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func watch(ctx context.Context, cmd *cli.Command) error {
	opts, err := options(cmd)
	if err != nil {
		return err
	}
	if err := internal.Watch(ctx, opts...); err != nil {
		return fmt.Errorf("watch error: %w", err)
	}
	return nil
}

func check(ctx context.Context, cmd *cli.Command) error {
	opts, err := options(cmd)
	if err != nil {
		return err
	}
	report, err := internal.Check(ctx, opts...)
	if errors.Is(err, apperr.ErrMissingFrontmatter) {
		return cli.Exit(fmt.Sprintf("%d of %d file(s) lack frontmatter",
			len(report.Missing), len(report.OK)+len(report.Missing)+len(report.Malformed)), 2)
	}
	return err
}

func history(ctx context.Context, cmd *cli.Command) error {
	opts, err := options(cmd)
	if err != nil {
		return err
	}
	return internal.History(ctx, int(cmd.Int("limit")), opts...)
}

func main() {
	cmd := &cli.Command{
		Name:   "fminject",
		Usage:  "Prepend a YAML frontmatter block to Markdown files that lack one",
		Action: run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file (optional)",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
			&cli.StringFlag{
				Name:        "dir",
				Aliases:     []string{"d"},
				Usage:       "Directory tree to process",
				DefaultText: "current working directory",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Report what would change without writing",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "watch",
				Usage:  "Process the tree, then keep processing Markdown files as they change",
				Action: watch,
			},
			{
				Name:   "check",
				Usage:  "List Markdown files without frontmatter or with malformed frontmatter",
				Action: check,
			},
			{
				Name:   "history",
				Usage:  "Show journaled runs (requires journal.path)",
				Action: history,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Number of runs to show",
						Value: 20,
					},
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Error())
			os.Exit(exitErr.ExitCode())
		}
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
