package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fawad57/psyplex/config"
	"github.com/fawad57/psyplex/internal/history"
	srv "github.com/fawad57/psyplex/internal/server"
)

func main() {
	var root = &cobra.Command{Use: "psyplex"}

	var cfgPath string
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (default is .)")

	var serveAddr string
	var serve = &cobra.Command{
		Use:   "serve",
		Short: "Run HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if serveAddr == "" {
				serveAddr = os.Getenv("PSYPLEX_HTTP_ADDR")
			}
			cfg := config.LoadConfig(cfgPath)
			return srv.Run(cfg, serveAddr)
		},
	}
	serve.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")

	var fetch = &cobra.Command{
		Use:   "fetch",
		Short: "Run the browsing-history pipeline once and write history.csv/history.json",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig(cfgPath)
			dbPath := cfg.History.DBPath
			if dbPath == "" {
				p, err := history.ChromeHistoryPath()
				if err != nil {
					return err
				}
				dbPath = p
			}
			raws, err := history.Extract(context.Background(), dbPath)
			if err != nil {
				return err
			}
			visits, err := history.Clean(raws)
			if err != nil {
				return err
			}
			visits = history.EngineerFeatures(visits)
			if err := history.Export(visits, cfg.History.OutputDir); err != nil {
				return err
			}
			fmt.Printf("exported %d visits to %s\n", len(visits), cfg.History.OutputDir)
			return nil
		},
	}

	root.AddCommand(serve, fetch)
	_ = root.Execute()
}
