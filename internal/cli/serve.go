package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ppiankov/rumorscope/internal/logging"
	"github.com/ppiankov/rumorscope/internal/server"
)

var (
	serveAddr  string
	serveDebug bool
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the check API over HTTP",
	Long: `Serve exposes the check pipeline as a JSON API:

  POST /v1/check   {"text": "...", "lang": "en", "return_level": "detailed|simple"}
  GET  /healthz

Example:
  rumorscope serve --addr :5000
  curl -s localhost:5000/v1/check -d '{"text":"Miracle cure for cancer!!!"}'`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, :5000)")
	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "include internal error detail in 500 responses")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}
	if serveDebug {
		cfg.Server.Debug = true
	}

	p, err := buildPipeline(cfg, true)
	if err != nil {
		return err
	}
	defer func() {
		if err := p.Close(); err != nil {
			logging.Warn("closing store", "err", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.New(p, cfg.Server).ListenAndServe(ctx)
}
