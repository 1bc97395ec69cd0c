// Command junefeed is a terminal RSS reader.
//
// Running it with no arguments opens the TUI on the cached history and
// starts a background refresh. Feed management happens through the add,
// remove and list subcommands.
package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"junefeed/internal/config"
	"junefeed/internal/coord"
	"junefeed/internal/feed"
	"junefeed/internal/fetch"
	"junefeed/internal/logging"
	"junefeed/internal/nav"
	"junefeed/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v2"
)

const version = "0.1.0"

const fetchTimeout = 30 * time.Second

func main() {
	if err := app().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func app() *cli.App {
	configFlag := &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "config file location",
		EnvVars: []string{"JUNEFEED_CONFIG"},
	}

	return &cli.App{
		Name:    "junefeed",
		Usage:   "Read RSS feeds in the terminal",
		Version: version,
		Flags: []cli.Flag{
			configFlag,
			&cli.StringFlag{
				Name:    "history",
				Usage:   "history file location",
				EnvVars: []string{"JUNEFEED_HISTORY"},
			},
			&cli.BoolFlag{
				Name:  "show-read",
				Usage: "start with read entries visible",
			},
		},
		Commands: []*cli.Command{
			addCmd(configFlag),
			removeCmd(configFlag),
			listCmd(configFlag),
		},
		Action: runTUI,
	}
}

func runTUI(ctx *cli.Context) error {
	cfg, err := config.Load(ctx.String("config"))
	if err != nil {
		return err
	}
	if p := ctx.String("history"); p != "" {
		cfg.HistoryPath = p
	}

	if err := logging.Init(config.DefaultLogDir()); err != nil {
		fmt.Fprintf(os.Stderr, "warning: file logging disabled: %v\n", err)
	}
	defer logging.Close()

	collection, err := feed.Load(cfg.HistoryPath)
	if err != nil {
		if !errors.Is(err, feed.ErrNoHistory) {
			return err
		}
		collection = feed.NewCollection()
	}
	logging.Info("loaded history", "path", cfg.HistoryPath, "entries", collection.Len())

	sources := make([]fetch.Source, len(cfg.Feeds))
	for i, f := range cfg.Feeds {
		sources[i] = fetch.Source{Name: f.Name, URL: f.URL}
	}

	coordinator := coord.NewCoordinator(fetch.NewFetcher(fetchTimeout), sources)
	navigator := nav.New(collection, ctx.Bool("show-read"))

	p := tea.NewProgram(ui.New(navigator, coordinator, cfg.HistoryPath), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return err
	}

	// A refresh may still be running; its result is discarded.
	coordinator.Wait()

	m, ok := final.(ui.Model)
	if !ok {
		return nil
	}
	if err := m.Collection().Save(cfg.HistoryPath); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	logging.Info("saved history", "entries", m.Collection().Len())
	return nil
}

func addCmd(configFlag *cli.StringFlag) *cli.Command {
	return &cli.Command{
		Name:  "add",
		Usage: "Add a feed to the config",
		Flags: []cli.Flag{
			configFlag,
			&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Required: true, Usage: "feed name, shown in the entry list"},
			&cli.StringFlag{Name: "url", Aliases: []string{"u"}, Required: true, Usage: "feed URL"},
		},
		Action: func(ctx *cli.Context) error {
			cfg, err := config.Load(ctx.String("config"))
			if err != nil {
				return err
			}
			if err := cfg.AddFeed(ctx.String("name"), ctx.String("url")); err != nil {
				return err
			}
			fmt.Printf("added %s\n", ctx.String("name"))
			return nil
		},
	}
}

func removeCmd(configFlag *cli.StringFlag) *cli.Command {
	return &cli.Command{
		Name:  "remove",
		Usage: "Remove a feed from the config",
		Flags: []cli.Flag{
			configFlag,
			&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Required: true, Usage: "feed name to remove"},
		},
		Action: func(ctx *cli.Context) error {
			cfg, err := config.Load(ctx.String("config"))
			if err != nil {
				return err
			}
			if err := cfg.RemoveFeed(ctx.String("name")); err != nil {
				return err
			}
			fmt.Printf("removed %s\n", ctx.String("name"))
			return nil
		},
	}
}

func listCmd(configFlag *cli.StringFlag) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List configured feeds",
		Flags: []cli.Flag{configFlag},
		Action: func(ctx *cli.Context) error {
			cfg, err := config.Load(ctx.String("config"))
			if err != nil {
				return err
			}
			if len(cfg.Feeds) == 0 {
				fmt.Println("no feeds configured")
				return nil
			}
			for _, f := range cfg.Feeds {
				fmt.Printf("%-24s %s\n", f.Name, f.URL)
			}
			return nil
		},
	}
}
