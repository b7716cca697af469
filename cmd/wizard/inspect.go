package main

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/codewizard/api/internal/database"
	"github.com/codewizard/api/internal/eventbus"
	"github.com/codewizard/api/internal/history"
	"github.com/codewizard/api/internal/registry"
	"github.com/spf13/cobra"
)

func newLanguagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List supported languages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := registry.Load()
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tEXT\tBOT")
			for _, id := range reg.IDs() {
				lang, _ := reg.Lookup(id)
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", lang.ID, lang.Name, lang.Extension, lang.BotName)
			}
			return w.Flush()
		},
	}
}

func newHistoryCmd(opts *cliOptions) *cobra.Command {
	var (
		limit    int
		language string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent local generations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := history.OpenSQLite(opts.historyPath)
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.Recent(cmd.Context(), history.Query{
				Limit:    limit,
				Language: registry.Normalize(language),
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "No generations recorded yet.")
				return nil
			}
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "WHEN\tLANGUAGE\tSTATUS\tSCORE\tPROMPT")
			for _, r := range records {
				fmt.Fprintf(w, "%s\t%s\t%s\t%.1f\t%s\n",
					r.CreatedAt.Local().Format(time.DateTime), r.Language, r.Status, r.BestScore, truncate(r.Prompt, 60))
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", history.DefaultLimit, "Maximum records")
	cmd.Flags().StringVarP(&language, "language", "l", "", "Only show this language")
	return cmd
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// check is one doctor probe; a nil run means the dependency is not configured
type check struct {
	name string
	run  func(ctx context.Context) error
}

func newDoctorCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check connectivity to the model and backing services",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			checks := []check{{name: "model", run: func(ctx context.Context) error {
				if newCompleter(ctx, opts) == nil {
					return errors.New("unreachable or disabled")
				}
				return nil
			}}}

			if cfg.DatabaseURL != "" {
				checks = append(checks, check{name: "database", run: func(ctx context.Context) error {
					db, err := database.NewPostgres(ctx, cfg.DatabaseURL)
					if err != nil {
						return err
					}
					defer db.Close()
					names, err := database.MigrationNames()
					if err != nil {
						return err
					}
					var version int
					if err := db.Pool().QueryRow(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version); err != nil {
						return fmt.Errorf("schema not migrated: %w", err)
					}
					if version == 0 {
						return fmt.Errorf("schema not migrated: %d migrations pending", len(names))
					}
					return nil
				}})
			} else {
				checks = append(checks, check{name: "database"})
			}

			if cfg.RedisURL != "" {
				checks = append(checks, check{name: "redis", run: func(ctx context.Context) error {
					rdb, err := database.NewRedis(ctx, cfg.RedisURL)
					if err != nil {
						return err
					}
					return rdb.Close()
				}})
			} else {
				checks = append(checks, check{name: "redis"})
			}

			if cfg.NATSURL != "" {
				checks = append(checks, check{name: "nats", run: func(ctx context.Context) error {
					bus, err := eventbus.Connect(cfg.NATSURL, opts.logger)
					if err != nil {
						return err
					}
					defer bus.Close()
					if !bus.Healthy() {
						return errors.New("disconnected")
					}
					return nil
				}})
			} else {
				checks = append(checks, check{name: "nats"})
			}

			checks = append(checks, check{name: "history", run: func(ctx context.Context) error {
				store, err := history.OpenSQLite(opts.historyPath)
				if err != nil {
					return err
				}
				return store.Close()
			}})

			out := cmd.OutOrStdout()
			failed := 0
			for _, c := range checks {
				if c.run == nil {
					fmt.Fprintf(out, "%-10s not configured\n", c.name)
					continue
				}
				ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
				err := c.run(ctx)
				cancel()
				if err != nil {
					failed++
					fmt.Fprintf(out, "%-10s FAIL  %v\n", c.name, err)
					continue
				}
				fmt.Fprintf(out, "%-10s ok\n", c.name)
			}

			if failed > 0 {
				return fmt.Errorf("%d check(s) failed", failed)
			}
			return nil
		},
	}
}
