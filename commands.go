package main

import (
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"text/tabwriter"

	"dinedash-server/config"
	"dinedash-server/logger"
	"dinedash-server/store"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx, cfg, logger.New(cfg.App.Env))
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		log := logger.New(cfg.App.Env)
		s, err := store.Open(cfg.Database.Driver, cfg.Database.DSN)
		if err != nil {
			return err
		}
		defer s.Close()
		if err := s.Migrate(); err != nil {
			return err
		}
		log.Info("migrations applied", "driver", cfg.Database.Driver)
		return nil
	},
}

// routeListCmd builds the engine without opening any backend.
var routeListCmd = &cobra.Command{
	Use:   "routes",
	Short: "List all registered routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		r := newEngine(&app{cfg: cfg, log: logger.New(cfg.App.Env)})

		infos := r.Routes()
		sort.Slice(infos, func(i, j int) bool {
			if infos[i].Path != infos[j].Path {
				return infos[i].Path < infos[j].Path
			}
			return infos[i].Method < infos[j].Method
		})

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "METHOD\tPATH")
		fmt.Fprintln(w, "------\t----")
		for _, ri := range infos {
			fmt.Fprintf(w, "%s\t%s\n", ri.Method, ri.Path)
		}
		return w.Flush()
	},
}
