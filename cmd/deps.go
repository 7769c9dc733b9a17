package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/podbrief/podbrief-api/internal/database"
	"github.com/podbrief/podbrief-api/internal/models"
	"github.com/podbrief/podbrief-api/internal/services/feedsources"
	"github.com/podbrief/podbrief-api/internal/services/history"
	"github.com/podbrief/podbrief-api/internal/services/jobs"
	"github.com/podbrief/podbrief-api/internal/services/pipeline"
	"github.com/podbrief/podbrief-api/internal/services/summarizer"
	"github.com/podbrief/podbrief-api/internal/services/transcriber"
	"github.com/podbrief/podbrief-api/pkg/config"
	"github.com/podbrief/podbrief-api/pkg/download"
	"github.com/podbrief/podbrief-api/pkg/feedparse"
	"github.com/podbrief/podbrief-api/pkg/pagetitle"
)

// appDeps bundles the wired services shared by the serve and process
// commands
type appDeps struct {
	Config       *config.Config
	DB           *database.DB
	History      history.Service
	FeedSources  feedsources.Service
	Jobs         jobs.Service
	Transcriber  transcriber.Service
	Summarizer   summarizer.Service
	Resolver     *pipeline.Resolver
	Orchestrator *pipeline.Orchestrator
}

// buildDeps initializes the database and wires every service from
// configuration. Callers own closing deps.DB.
func buildDeps(cfg *config.Config) (*appDeps, error) {
	db, err := database.Initialize(cfg.Database.Path, cfg.Database.Verbose)
	if err != nil {
		return nil, fmt.Errorf("initializing database: %w", err)
	}

	if err := db.AutoMigrate(
		&models.HistoryRecord{},
		&models.FeedSource{},
		&models.Transcript{},
		&models.Summary{},
		&models.Job{},
	); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}

	historyService := history.NewService(history.NewRepository(db.DB))
	feedSourceService := feedsources.NewService(feedsources.NewRepository(db.DB))
	jobService := jobs.NewService(jobs.NewRepository(db.DB), cfg.Processing.RetryAttempts)

	parser := feedparse.NewParser(feedparse.Options{
		Timeout:   cfg.Feeds.Timeout,
		UserAgent: cfg.Feeds.UserAgent,
	})
	resolver := pipeline.NewResolver(parser)

	titles := pagetitle.NewExtractor(pagetitle.Options{
		Timeout:   cfg.Feeds.Timeout,
		UserAgent: cfg.Feeds.UserAgent,
	})

	downloader := download.NewDownloader(download.Options{
		MaxSize:       cfg.Download.MaxSize,
		Timeout:       cfg.Download.Timeout,
		RetryAttempts: cfg.Download.RetryAttempts,
		UserAgent:     cfg.Download.UserAgent,
		ValidateAudio: true,
	})

	modelManager := transcriber.NewModelManager(storageDir(cfg, cfg.Storage.ModelsDir), cfg.Whisper.HubBaseURL)
	engine := transcriber.NewWhisperEngine(transcriber.WhisperOptions{
		BinaryPath: cfg.Whisper.BinaryPath,
		Language:   cfg.Whisper.Language,
	})
	transcriberService := transcriber.NewService(
		transcriber.NewRepository(db.DB),
		engine,
		modelManager,
		transcriber.ServiceOptions{
			Model:          cfg.Whisper.Model,
			TranscriptsDir: storageDir(cfg, cfg.Storage.TranscriptsDir),
		},
	)

	generator, err := summarizer.NewClient(summarizer.ClientOptions{
		APIKey:      cfg.Summaries.APIKey,
		BaseURL:     cfg.Summaries.BaseURL,
		Model:       cfg.Summaries.Model,
		Temperature: cfg.Summaries.Temperature,
		ChunkSize:   cfg.Summaries.ChunkSize,
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	summarizerService := summarizer.NewService(
		summarizer.NewRepository(db.DB),
		generator,
		summarizer.ServiceOptions{
			SummariesDir: storageDir(cfg, cfg.Storage.SummariesDir),
			Model:        cfg.Summaries.Model,
		},
	)

	orchestrator := pipeline.NewOrchestrator(
		titles,
		downloader,
		transcriberService,
		summarizerService,
		historyService,
		pipeline.Options{
			DownloadsDir: storageDir(cfg, cfg.Storage.DownloadsDir),
			Templates:    cfg.Summaries.Templates,
			RequireAll:   cfg.Summaries.RequireAll,
			StageTimeout: cfg.Processing.StageTimeout,
		},
	)

	return &appDeps{
		Config:       cfg,
		DB:           db,
		History:      historyService,
		FeedSources:  feedSourceService,
		Jobs:         jobService,
		Transcriber:  transcriberService,
		Summarizer:   summarizerService,
		Resolver:     resolver,
		Orchestrator: orchestrator,
	}, nil
}

// storageDir resolves a storage subdirectory against the data dir
// unless it is already absolute
func storageDir(cfg *config.Config, dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(cfg.Storage.DataDir, dir)
}
