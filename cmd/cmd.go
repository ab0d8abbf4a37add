// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// syncCommand handles sync run operations
func syncCommand(r *Runner) *cli.Command {
	saveFlag := &cli.StringFlag{
		Name:  "save",
		Usage: "Write a run report to the given path (.csv for CSV, anything else for JSON)",
	}

	return &cli.Command{
		Name:  "sync",
		Usage: "Sync today's CRM contacts into the directory",
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "Run a sync now, ignoring the configured frequency",
				Flags:  []cli.Flag{saveFlag},
				Action: r.SyncRun,
			},
			{
				Name:   "scheduled",
				Usage:  "Run a sync only if the configured frequency permits it today",
				Flags:  []cli.Flag{saveFlag},
				Action: r.SyncScheduled,
			},
		},
	}
}

// contactsCommand handles CRM debug listings
func contactsCommand(r *Runner) *cli.Command {
	jsonFlags := []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print output",
			Value: true,
		},
	}

	return &cli.Command{
		Name:  "contacts",
		Usage: "CRM contact operations",
		Commands: []*cli.Command{
			{
				Name:   "today",
				Usage:  "List contacts created today (the sync's input set)",
				Flags:  jsonFlags,
				Action: r.ContactsToday,
			},
			{
				Name:   "list",
				Usage:  "List CRM contacts without a time filter",
				Flags:  jsonFlags,
				Action: r.ContactsList,
			},
		},
	}
}

// directoryCommand handles phone directory debug listings
func directoryCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "directory",
		Usage: "Phone directory operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List shared directory entries",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.DirectoryList,
			},
		},
	}
}

// setupCommand handles setup operations for configuration and the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize configuration and run database migrations",
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

// historyCommand lists persisted sync runs
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Show past sync runs",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of runs to show",
				Value: 20,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.History,
	}
}

// tuiCommand returns the top-level TUI command for interactive syncing.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI for contact syncing",
		Action:  r.TUI,
	}
}
