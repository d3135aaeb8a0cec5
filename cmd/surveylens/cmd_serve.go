package main

import (
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/surveylens/surveylens/internal/webserver"
)

func newServeCommand() *cobra.Command {
	var (
		flags     loadFlags
		port      int
		noBrowser bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analysis API and report dashboard",
		Long: `Start a local HTTP server exposing the loaded dataset through a JSON
API (/api/questions, /api/series, /api/analysis) and an HTML report view
(/report). The server binds to localhost only.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, cfg, err := loadEngine(flags)
			if err != nil {
				return err
			}
			if port == 0 {
				port = cfg.Server.Port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := webserver.New(webserver.Config{
				Port:      port,
				NoBrowser: noBrowser,
				Logger:    slog.Default(),
			}, eng)
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVarP(&flags.dataPath, "data", "d", "", "CSV dataset path (default from .surveylens.yaml)")
	cmd.Flags().StringVar(&flags.questionsPath, "questions", "", "Question config path (default from .surveylens.yaml)")
	cmd.Flags().BoolVar(&flags.rowLevel, "row-level", false, "Treat the dataset as a row-level (product-matrix) test")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from .surveylens.yaml)")
	cmd.Flags().BoolVar(&noBrowser, "no-browser", false, "Do not open a browser automatically")

	return cmd
}
