package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/urfave/cli/v3"

	"github.com/nikbrunner/bmark/internal/bridge"
	"github.com/nikbrunner/bmark/internal/browser"
	"github.com/nikbrunner/bmark/internal/culler"
	"github.com/nikbrunner/bmark/internal/exporter"
	"github.com/nikbrunner/bmark/internal/importer"
	"github.com/nikbrunner/bmark/internal/logging"
	"github.com/nikbrunner/bmark/internal/model"
	"github.com/nikbrunner/bmark/internal/picker"
	"github.com/nikbrunner/bmark/internal/saveflow"
	"github.com/nikbrunner/bmark/internal/search"
	"github.com/nikbrunner/bmark/internal/server"
	"github.com/nikbrunner/bmark/internal/store"
)

var headerStyle = lipgloss.NewStyle().Bold(true)

// itemTable renders items as a borderless table.
func itemTable(items []model.BookmarkItem) string {
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return lipgloss.NewStyle()
		}).
		Headers("ID", "TITLE", "URL")
	for _, it := range items {
		title := it.Title
		if it.IsFolder {
			title += "/"
		}
		t.Row(it.ID.String(), title, it.URL)
	}
	return t.String()
}

func listCmd() *cli.Command {
	return &cli.Command{
		Name:      "list",
		Aliases:   []string{"ls"},
		Usage:     "List the children of a folder, or the top level folders",
		ArgsUsage: "[folder-id]",
		Action: func(ctx context.Context, c *cli.Command) error {
			e, err := openEnv(ctx, false)
			if err != nil {
				return err
			}
			defer e.done(ctx)

			var items []model.BookmarkItem
			if c.Args().Present() {
				id, err := model.ParseBookmarkID(c.Args().First())
				if err != nil {
					return err
				}
				if _, ok := e.b.GetBookmarkByID(id); !ok {
					return fmt.Errorf("%w: %s", store.ErrNotFound, id)
				}
				items = e.b.GetChildren(id)
			} else {
				for _, id := range e.b.GetTopLevelFolderIDs(false) {
					if it, ok := e.b.GetBookmarkByID(id); ok {
						items = append(items, it)
					}
				}
			}
			if len(items) == 0 {
				fmt.Println("Folder is empty")
				return nil
			}
			fmt.Println(itemTable(items))
			return nil
		},
	}
}

func treeCmd() *cli.Command {
	return &cli.Command{
		Name:      "tree",
		Usage:     "Print the bookmark tree",
		ArgsUsage: "[folder-id]",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "urls", Aliases: []string{"u"}, Usage: "show bookmark URLs"},
			&cli.BoolFlag{Name: "folders", Aliases: []string{"f"}, Usage: "show folders only"},
			&cli.IntFlag{Name: "depth", Aliases: []string{"d"}, Usage: "limit the depth, 0 is unlimited"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			e, err := openEnv(ctx, false)
			if err != nil {
				return err
			}
			defer e.done(ctx)

			var root model.BookmarkID
			if c.Args().Present() {
				if root, err = model.ParseBookmarkID(c.Args().First()); err != nil {
					return err
				}
			}
			return exporter.WriteTree(os.Stdout, e.b.Store(), root, exporter.TreeOptions{
				FoldersOnly: c.Bool("folders"),
				ShowURLs:    c.Bool("urls"),
				MaxDepth:    c.Int("depth"),
			})
		},
	}
}

func searchCmd() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Fuzzy search bookmark titles and URLs",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Value: 20, Usage: "maximum number of results"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			query := strings.Join(c.Args().Slice(), " ")
			if strings.TrimSpace(query) == "" {
				return errors.New("search needs a query")
			}
			e, err := openEnv(ctx, false)
			if err != nil {
				return err
			}
			defer e.done(ctx)

			items := e.b.SearchBookmarks(query, c.Int("limit"))
			if len(items) == 0 {
				fmt.Printf("No bookmarks found for '%s'\n", query)
				return nil
			}
			fmt.Println(itemTable(items))
			return nil
		},
	}
}

func openCmd() *cli.Command {
	return &cli.Command{
		Name:      "open",
		Aliases:   []string{"o"},
		Usage:     "Quick search, pick a result and open it in the browser",
		ArgsUsage: "<query>",
		Action: func(ctx context.Context, c *cli.Command) error {
			query := strings.Join(c.Args().Slice(), " ")
			e, err := openEnv(ctx, false)
			if err != nil {
				return err
			}
			defer e.done(ctx)

			results := search.Rank(query, e.b.GetAllBookmarks())
			if len(results) == 0 {
				fmt.Printf("No bookmarks found for '%s'\n", query)
				return nil
			}

			item, ok := picker.Resolve(results)
			if ok {
				fmt.Printf("Opening: %s\n", item.Title)
			} else {
				final, err := tea.NewProgram(picker.New(results, query), tea.WithContext(ctx)).Run()
				if err != nil {
					return fmt.Errorf("run picker: %w", err)
				}
				p := final.(picker.Picker)
				if p.Cancelled() {
					return nil
				}
				if item, ok = p.Selected(); !ok {
					return nil
				}
			}

			if err := e.b.UpdateLastOpened(item.ID, time.Now()); err != nil {
				log.Warn("update last opened", "err", err)
			}
			return browser.Open(item.URL)
		},
	}
}

func addCmd() *cli.Command {
	return &cli.Command{
		Name:      "add",
		Aliases:   []string{"save"},
		Usage:     "Bookmark a page, or show where it is already saved",
		ArgsUsage: "<url>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "page title, the URL when empty"},
			&cli.StringFlag{Name: "folder", Aliases: []string{"f"}, Usage: "target folder `id`"},
			&cli.BoolFlag{Name: "reading-list", Aliases: []string{"r"}, Usage: "add to the reading list instead"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			url := strings.TrimSpace(c.Args().First())
			if url == "" {
				return errors.New("add needs a URL")
			}
			title := c.String("title")
			if title == "" {
				title = url
			}

			e, err := openEnv(ctx, false)
			if err != nil {
				return err
			}
			defer e.done(ctx)

			if c.Bool("reading-list") {
				if _, err := e.b.AddToReadingList(title, url); err != nil {
					return err
				}
				fmt.Println("Added to the reading list")
				return nil
			}

			flow := saveflow.New(e.b, e.prefs)
			st, err := flow.Save(title, url)
			if err != nil {
				return err
			}
			if c.IsSet("folder") {
				folder, err := parseFolder(c.String("folder"), st.Folder)
				if err != nil {
					return err
				}
				if st, err = flow.OnFolderChosen(folder); err != nil {
					return err
				}
			}

			verb := "Saved to"
			if !st.WasNew {
				verb = "Already in"
			}
			fmt.Printf("%s %s (%s)\n", verb, st.FolderName, st.ID)
			return nil
		},
	}
}

func importCmd() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Import bookmarks from a Netscape bookmark HTML file",
		ArgsUsage: "<file.html>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "into", Usage: "target folder `id`, Other bookmarks by default"},
			&cli.BoolFlag{Name: "skip-duplicates", Value: true, Usage: "skip URLs that are already bookmarked"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			path := c.Args().First()
			if path == "" {
				return errors.New("import needs a file")
			}
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()

			nodes, err := importer.ParseHTML(f)
			if err != nil {
				return fmt.Errorf("parse %s: %w", path, err)
			}

			e, err := openEnv(ctx, false)
			if err != nil {
				return err
			}
			defer e.done(ctx)

			parent, err := parseFolder(c.String("into"), model.NewID(store.OtherID, model.TypeNormal))
			if err != nil {
				return err
			}
			st, err := importer.Import(e.b, parent, nodes, importer.Options{SkipDuplicates: c.Bool("skip-duplicates")})
			if err != nil {
				return err
			}

			fmt.Printf("Imported %d bookmarks, %d folders", st.Bookmarks, st.Folders)
			if st.Duplicates > 0 {
				fmt.Printf(" (%d duplicates skipped)", st.Duplicates)
			}
			fmt.Println()
			return nil
		},
	}
}

func exportCmd() *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "Export bookmarks to Netscape bookmark HTML",
		ArgsUsage: "[path|-]",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "force", Aliases: []string{"f"}, Usage: "overwrite an existing file"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			path := c.Args().First()
			if path == "" {
				var err error
				if path, err = exporter.DefaultExportPath(); err != nil {
					return err
				}
			}
			if path != "-" {
				if _, err := os.Stat(path); err == nil && !c.Bool("force") {
					return fmt.Errorf("file %s already exists, use -f to overwrite", path)
				}
			}

			e, err := openEnv(ctx, false)
			if err != nil {
				return err
			}
			defer e.done(ctx)

			var w io.Writer = os.Stdout
			if path != "-" {
				f, err := os.Create(path)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			if err := exporter.WriteHTML(w, e.b.Store()); err != nil {
				return err
			}
			if path != "-" {
				fmt.Printf("Exported bookmarks to %s\n", path)
			}
			return nil
		},
	}
}

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the JSON API for local integrations",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "listen", Aliases: []string{"l"}, Usage: "listen `address`, from config by default"},
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "do not log requests"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg := configFrom(ctx)
			e, err := openEnv(ctx, false, bridge.WithAutoSave(cfg.AutoSaveInterval()))
			if err != nil {
				return err
			}
			defer e.done(ctx)

			if cfg.Storage.Watch {
				go func() {
					err := e.b.Watch(ctx, watchDebounce, nil)
					if err != nil && !errors.Is(err, context.Canceled) {
						log.Warn("storage watcher stopped", "err", err)
					}
				}()
			}

			addr := cfg.Server.Listen
			if c.IsSet("listen") {
				addr = c.String("listen")
			}
			return server.New(e.b, c.Bool("quiet")).Run(ctx, addr)
		},
	}
}

func checkCmd() *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "Check bookmark URLs and report dead links",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "concurrency", Aliases: []string{"j"}, Value: 10, Usage: "parallel requests"},
			&cli.DurationFlag{Name: "timeout", Value: 10 * time.Second, Usage: "per request timeout"},
			&cli.FloatFlag{Name: "rate", Value: 20, Usage: "requests per second, 0 is unlimited"},
			&cli.StringSliceFlag{Name: "exclude", Usage: "domains whose 404s are treated as private"},
			&cli.BoolFlag{Name: "delete", Usage: "delete the dead bookmarks"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			e, err := openEnv(ctx, false)
			if err != nil {
				return err
			}
			defer e.done(ctx)

			items := culler.Bookmarks(e.b.GetAllBookmarks())
			if len(items) == 0 {
				return culler.ErrNoBookmarks
			}

			opts := culler.Options{
				Concurrency:    c.Int("concurrency"),
				Timeout:        c.Duration("timeout"),
				RatePerSecond:  c.Float("rate"),
				ExcludeDomains: c.StringSlice("exclude"),
			}
			if logging.IsTerminal() {
				opts.OnProgress = func(done, total int) {
					fmt.Fprintf(os.Stderr, "\rChecked %d/%d", done, total)
				}
			}
			results := culler.CheckURLs(ctx, items, opts)
			if opts.OnProgress != nil {
				fmt.Fprintln(os.Stderr)
			}

			var dead, unreachable int
			for _, r := range results {
				switch r.Status {
				case culler.Dead:
					dead++
					fmt.Printf("dead         %s  %s (%d)\n", r.Item.ID, r.Item.URL, r.StatusCode)
				case culler.Unreachable:
					unreachable++
					fmt.Printf("unreachable  %s  %s (%s)\n", r.Item.ID, r.Item.URL, r.Error)
				}
			}
			fmt.Printf("%d checked, %d dead, %d unreachable\n", len(results), dead, unreachable)

			if c.Bool("delete") && dead > 0 {
				if err := e.b.DeleteBookmarks(culler.DeadIDs(results)); err != nil {
					return err
				}
				fmt.Printf("Deleted %d dead bookmarks\n", dead)
			}
			return nil
		},
	}
}
