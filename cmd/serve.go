package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/podbrief/podbrief-api/api"
	"github.com/podbrief/podbrief-api/api/types"
	"github.com/podbrief/podbrief-api/internal/services/workers"
)

var (
	serverHost string
	serverPort int
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Long: `Start the Podbrief API server with the configured settings.

The server accepts episode processing requests and runs them through
a background worker pool. Clients poll the jobs endpoint for progress.

Example:
  podbrief serve
  podbrief serve --port 9090
  podbrief serve --host 0.0.0.0 --port 8080`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serverHost, "host", "", "server host (overrides config)")
	serveCmd.Flags().IntVar(&serverPort, "port", 0, "server port (overrides config)")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if serverHost == "" {
		serverHost = cfg.Server.Host
	}
	if serverPort == 0 {
		serverPort = cfg.Server.Port
	}

	deps, err := buildDeps(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = deps.DB.Close() }()

	// Worker pool runs the pipeline for queued jobs
	pool := workers.NewWorkerPool(deps.Jobs, cfg.Processing.Workers, cfg.Processing.PollInterval)
	pool.RegisterProcessor(workers.NewEpisodeProcessor(deps.Orchestrator, deps.Resolver, deps.FeedSources, deps.Jobs))

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	if err := pool.Start(workerCtx); err != nil {
		return fmt.Errorf("starting worker pool: %w", err)
	}

	server := api.NewServer(fmt.Sprintf("%s:%d", serverHost, serverPort))
	server.SetDependencies(&types.Dependencies{
		DB:                 deps.DB,
		HistoryService:     deps.History,
		FeedSourceService:  deps.FeedSources,
		JobService:         deps.Jobs,
		TranscriberService: deps.Transcriber,
		SummarizerService:  deps.Summarizer,
		WorkerPool:         pool,
	})
	if err := server.Initialize(); err != nil {
		return fmt.Errorf("initializing server: %w", err)
	}

	fmt.Printf("Starting Podbrief API server on %s:%d\n", serverHost, serverPort)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			serverErr <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-stop:
		fmt.Println("\nShutting down server...")
	case err := <-serverErr:
		fmt.Fprintf(os.Stderr, "\n%v\n", err)
		fmt.Println("Shutting down server...")
	}

	stopWorkers()
	pool.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Server forced to shutdown: %v\n", err)
		return err
	}

	fmt.Println("Server gracefully stopped")
	return nil
}
