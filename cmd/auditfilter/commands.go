package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/thesavant42/auditfilter/internal/config"
	"github.com/thesavant42/auditfilter/internal/db"
	"github.com/thesavant42/auditfilter/internal/dom"
	"github.com/thesavant42/auditfilter/internal/filter"
	"github.com/thesavant42/auditfilter/internal/models"
	"github.com/thesavant42/auditfilter/internal/ui"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
)

func countCmd() *cobra.Command {
	var screenName string
	var list bool
	var criteria criteriaFlags

	cmd := &cobra.Command{
		Use:   "count <page>",
		Short: "Print the summary line for the page's criteria",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(os.Stderr)
			if err != nil {
				return err
			}
			page, err := a.loadPage(cmd.Context(), args[0], screenName, false)
			if err != nil {
				return err
			}

			engine := filter.New(page.Screen(), page.Records())
			engine.SetLogger(a.logger)
			engine.SetCriteria(criteria.resolve(cmd, page))
			engine.Recompute()

			out := cmd.OutOrStdout()
			if list {
				ui.PrintHeader(out, page.Screen(), args[0], engine.Len())
				ui.PrintRecordTable(out, engine.Records(), engine.Criteria().Text)
			}
			ui.PrintSummary(out, engine.Summary())
			return nil
		},
	}

	cmd.Flags().StringVarP(&screenName, "screen", "s", config.ScreenAuditChecks, "screen profile")
	cmd.Flags().BoolVarP(&list, "list", "l", false, "print every record, hidden ones dimmed")
	criteria.register(cmd)
	return cmd
}

func badgesCmd() *cobra.Command {
	var screenName string

	cmd := &cobra.Command{
		Use:   "badges <page>",
		Short: "Print the per-category badge labels",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(os.Stderr)
			if err != nil {
				return err
			}
			page, err := a.loadPage(cmd.Context(), args[0], screenName, false)
			if err != nil {
				return err
			}
			if len(page.Screen().Badges) == 0 {
				return fmt.Errorf("screen %s has no category badges", page.Screen().Name)
			}

			engine := filter.New(page.Screen(), page.Records())
			ui.PrintBadges(cmd.OutOrStdout(), page.Screen(), engine.NotTestedByCategory())
			return nil
		},
	}

	cmd.Flags().StringVarP(&screenName, "screen", "s", config.ScreenAuditChecks, "screen profile")
	return cmd
}

func applyCmd() *cobra.Command {
	var screenName string
	var output string
	var criteria criteriaFlags

	cmd := &cobra.Command{
		Use:   "apply <page>",
		Short: "Apply the criteria to the page and write the filtered HTML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(os.Stderr)
			if err != nil {
				return err
			}
			page, err := a.loadPage(cmd.Context(), args[0], screenName, false)
			if err != nil {
				return err
			}

			engine := filter.New(page.Screen(), page.Records())
			engine.SetLogger(a.logger)
			engine.AddPresenter(page)
			engine.SetCriteria(criteria.resolve(cmd, page))
			page.SetCriteria(engine.Criteria())
			engine.Recompute()

			return writePage(cmd.OutOrStdout(), page, output, a)
		},
	}

	cmd.Flags().StringVarP(&screenName, "screen", "s", config.ScreenAuditChecks, "screen profile")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	criteria.register(cmd)
	return cmd
}

// writePage renders page to path, or to w when path is empty
func writePage(w io.Writer, page *dom.Page, path string, a *app) error {
	if path == "" {
		return page.Render(w)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()
	if err := page.Render(f); err != nil {
		return err
	}
	a.logger.Info("page written", "path", path)
	return nil
}

func searchCmd() *cobra.Command {
	var screenName string

	cmd := &cobra.Command{
		Use:   "search <page> <query>",
		Short: "Search the case pages for text and list matching pages",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(os.Stderr)
			if err != nil {
				return err
			}
			page, err := a.loadPage(cmd.Context(), args[0], screenName, false)
			if err != nil {
				return err
			}

			engine := filter.New(page.Screen(), page.Records())
			engine.SetLogger(a.logger)
			engine.SetCriteria(models.Criteria{Text: args[1]})
			engine.Recompute()

			out := cmd.OutOrStdout()
			ui.PrintSummary(out, engine.Summary())
			for _, r := range engine.VisibleRecords() {
				target := r.Target
				if target == "" {
					target = "-"
				}
				label := r.Label
				if r.TargetPage != "" {
					label = r.TargetPage + " | " + label
				}
				fmt.Fprintf(out, "  %s  %s\n", target, label)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&screenName, "screen", "s", config.ScreenSearchInCase, "screen profile")
	return cmd
}

const maxConcurrentLoads = 4

func importCmd() *cobra.Command {
	var screenName string
	var name string

	cmd := &cobra.Command{
		Use:   "import <page>...",
		Short: "Store each page's records as a named snapshot",
		Long: "Store each page's records as a named snapshot. Pages are loaded concurrently.\n" +
			"With several pages the name is used as a prefix: <name>-1, <name>-2, ...",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(os.Stderr)
			if err != nil {
				return err
			}
			name, err = importName(name, screenName, term.IsTerminal(int(os.Stdin.Fd())), ui.PromptForSnapshotName)
			if err != nil {
				return err
			}
			names := make([]string, len(args))
			for i := range args {
				names[i] = name
				if len(args) > 1 {
					names[i] = fmt.Sprintf("%s-%d", name, i+1)
				}
				if err := ui.ValidateSnapshotName(names[i]); err != nil {
					return err
				}
			}

			pages := make([]*dom.Page, len(args))
			eg, ctx := errgroup.WithContext(cmd.Context())
			eg.SetLimit(maxConcurrentLoads)
			for i, source := range args {
				i, source := i, source
				eg.Go(func() error {
					page, err := a.loadPage(ctx, source, screenName, false)
					if err != nil {
						return fmt.Errorf("%s: %w", source, err)
					}
					pages[i] = page
					return nil
				})
			}
			if err := eg.Wait(); err != nil {
				return err
			}

			database, err := a.openDB()
			if err != nil {
				return err
			}
			defer database.Close()

			out := cmd.OutOrStdout()
			for i, page := range pages {
				if _, err := database.SaveSnapshot(names[i], page.Screen().Name, args[i], page.Records()); err != nil {
					return err
				}
				a.logger.Debug("snapshot saved", "name", names[i], "source", args[i], "db", a.cfg.DBPath)
				ui.PrintSuccess(out, fmt.Sprintf("Imported %d records as %s", len(page.Records()), names[i]))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&screenName, "screen", "s", config.ScreenAuditChecks, "screen profile")
	cmd.Flags().StringVarP(&name, "name", "n", "", "snapshot name, or prefix for several pages (prompted on a terminal, default <screen>-<timestamp>)")
	return cmd
}

var errImportCancelled = errors.New("import cancelled")

// importName resolves the snapshot name for an import. Without --name an
// interactive session is asked, starting from the generated default.
func importName(name, screenName string, interactive bool, prompt func(string) (string, bool, error)) (string, error) {
	if name != "" {
		return name, nil
	}
	generated := fmt.Sprintf("%s-%s", screenName, time.Now().Format("20060102-150405"))
	if !interactive {
		return generated, nil
	}
	picked, cancelled, err := prompt(generated)
	if err != nil {
		return "", err
	}
	if cancelled {
		return "", errImportCancelled
	}
	return picked, nil
}

func reportCmd() *cobra.Command {
	var screenName string
	var raw bool
	var criteria criteriaFlags

	cmd := &cobra.Command{
		Use:   "report <page>",
		Short: "Print the visible records as a markdown report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(os.Stderr)
			if err != nil {
				return err
			}
			page, err := a.loadPage(cmd.Context(), args[0], screenName, false)
			if err != nil {
				return err
			}

			engine := filter.New(page.Screen(), page.Records())
			engine.SetLogger(a.logger)
			engine.SetCriteria(criteria.resolve(cmd, page))
			engine.Recompute()

			md := ui.RecordsMarkdown(page.Screen(), engine.Criteria(), engine.Summary(), engine.VisibleRecords())
			if raw {
				_, err := io.WriteString(cmd.OutOrStdout(), md)
				return err
			}
			rendered, err := ui.RenderMarkdown(md, ui.DefaultWidth)
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().StringVarP(&screenName, "screen", "s", config.ScreenAuditChecks, "screen profile")
	cmd.Flags().BoolVar(&raw, "raw", false, "print markdown source instead of rendering it")
	criteria.register(cmd)
	return cmd
}

func snapshotsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshots",
		Short: "List stored snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(os.Stderr)
			if err != nil {
				return err
			}
			database, err := a.openDB()
			if err != nil {
				return err
			}
			defer database.Close()

			snapshots, err := database.ListSnapshots()
			if err != nil {
				return err
			}
			ui.PrintSnapshots(cmd.OutOrStdout(), snapshots)
			return nil
		},
	}

	cmd.AddCommand(snapshotDeleteCmd())
	cmd.AddCommand(snapshotBackupCmd())
	return cmd
}

func snapshotDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a stored snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(os.Stderr)
			if err != nil {
				return err
			}
			if !yes {
				ok, err := ui.ConfirmDelete(args[0])
				if err != nil || !ok {
					return err
				}
			}

			database, err := a.openDB()
			if err != nil {
				return err
			}
			defer database.Close()

			if err := database.DeleteSnapshot(args[0]); err != nil {
				return err
			}
			ui.PrintSuccess(cmd.OutOrStdout(), "Deleted "+args[0])
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")
	return cmd
}

func snapshotBackupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Copy the snapshot database to a dated backup file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(os.Stderr)
			if err != nil {
				return err
			}
			path, err := ui.ExportDatabaseBackup(a.cfg.DBPath)
			if err != nil {
				return err
			}
			ui.PrintSuccess(cmd.OutOrStdout(), "Backup written to "+path)
			return nil
		},
	}
}

func screensCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "screens",
		Short: "List the available screen profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(os.Stderr)
			if err != nil {
				return err
			}
			for _, o := range a.screenOptions() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-28s %s\n", o.Name, o.Title)
			}
			return nil
		},
	}
}

func browseCmd() *cobra.Command {
	var screenName string
	var snapshot string
	var output string
	var criteria criteriaFlags

	cmd := &cobra.Command{
		Use:   "browse [page]",
		Short: "Filter a page or snapshot interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(os.Stderr)
			if err != nil {
				return err
			}
			closeLog := a.logToFile()
			defer closeLog()

			source, err := browseSource(args, snapshot, ui.PromptForSource)
			if err != nil {
				return err
			}
			if source == "" {
				return browseSnapshot(cmd, a, snapshot, criteria)
			}

			if screenName == "" {
				screenName, err = ui.PromptForScreen(a.screenOptions())
				if err != nil {
					return err
				}
			}
			page, err := a.loadPage(cmd.Context(), source, screenName, true)
			if err != nil {
				return err
			}

			engine := filter.New(page.Screen(), page.Records())
			engine.AddPresenter(page)
			engine.SetCriteria(criteria.resolve(cmd, page))

			err = ui.RunFilterScreen(engine, ui.FilterOptions{
				Source: source,
				Logger: a.logger,
				OnStatusChange: func(index int, status models.Status) {
					page.SetRecordStatus(index, status)
				},
			})
			if err != nil {
				return err
			}

			if output == "" {
				return nil
			}
			page.SetCriteria(engine.Criteria())
			return writePage(cmd.OutOrStdout(), page, output, a)
		},
	}

	cmd.Flags().StringVarP(&screenName, "screen", "s", "", "screen profile (prompted when omitted)")
	cmd.Flags().StringVar(&snapshot, "snapshot", "", "snapshot to browse instead of a page")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the page with the final filter applied")
	criteria.register(cmd)
	return cmd
}

// browseSource returns the page to browse: the argument, or a path or URL asked
// for when neither a page nor a snapshot was given. "" means browse a snapshot.
func browseSource(args []string, snapshot string, prompt func() (string, error)) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if snapshot != "" {
		return "", nil
	}
	return prompt()
}

// browseSnapshot runs the filter screen over a stored snapshot.
// Without a name the snapshot is picked from a list.
func browseSnapshot(cmd *cobra.Command, a *app, name string, criteria criteriaFlags) error {
	database, err := a.openDB()
	if err != nil {
		return err
	}
	defer database.Close()

	if name == "" {
		snapshots, err := database.ListSnapshots()
		if err != nil {
			return err
		}
		picked, ok, err := ui.RunSnapshotSelector(snapshots)
		if err != nil || !ok {
			return err
		}
		name = picked.Name
	}

	info, records, err := database.LoadSnapshot(name)
	if errors.Is(err, db.ErrNoSnapshot) {
		return fmt.Errorf("%w (see 'auditfilter snapshots')", err)
	}
	if err != nil {
		return err
	}

	screen, err := a.cfg.Screen(info.Screen)
	if err != nil {
		return err
	}

	engine := filter.New(screen, records)
	engine.SetCriteria(criteria.resolve(cmd, nil))
	return ui.RunFilterScreen(engine, ui.FilterOptions{
		Source: fmt.Sprintf("snapshot %s (%s)", info.Name, info.Source),
		Logger: a.logger,
	})
}
