// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// resolveCommand resolves explicit video URLs or IDs
func resolveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "resolve",
		Aliases:   []string{"res"},
		Usage:     "Resolve video URLs or IDs into metadata and transcripts",
		ArgsUsage: "[url-or-id ...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "input",
				Aliases: []string{"i"},
				Usage:   "File with one reference per line (or a JSON array, or CSV)",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: json, csv, or text",
				Value:   "json",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write output to this path instead of stdout",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print JSON output",
				Value: true,
			},
			&cli.BoolFlag{
				Name:  "tui",
				Usage: "Run interactively with live progress",
			},
		},
		Action: r.Resolve,
	}
}

// channelCommand resolves every upload of a channel
func channelCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "channel",
		Aliases:   []string{"ch"},
		Usage:     "Resolve all videos of a channel",
		ArgsUsage: "<channel-url, @handle, or UC id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "transcripts",
				Usage: "Fetch transcripts for every video",
				Value: true,
			},
			&cli.IntFlag{
				Name:  "max",
				Usage: "Stop after this many videos (0 = no limit)",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: json, csv, or markdown",
				Value:   "json",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output path (file for json/csv, directory for markdown)",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print JSON output",
				Value: true,
			},
			&cli.BoolFlag{
				Name:  "tui",
				Usage: "Run interactively with live progress",
			},
		},
		Action: r.Channel,
	}
}

// serveCommand runs the HTTP API
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the resolution HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Bind address (overrides config)",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port (overrides config)",
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the health endpoint in a browser once listening",
			},
		},
		Action: r.Serve,
	}
}

// setupCommand writes and verifies the configuration file
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create the configuration file and verify credentials",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}
