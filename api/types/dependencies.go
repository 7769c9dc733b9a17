package types

import (
	"github.com/podbrief/podbrief-api/internal/database"
	"github.com/podbrief/podbrief-api/internal/services/feedsources"
	"github.com/podbrief/podbrief-api/internal/services/history"
	"github.com/podbrief/podbrief-api/internal/services/jobs"
	"github.com/podbrief/podbrief-api/internal/services/summarizer"
	"github.com/podbrief/podbrief-api/internal/services/transcriber"
	"github.com/podbrief/podbrief-api/internal/services/workers"
)

// Dependencies holds all the dependencies needed by handlers
type Dependencies struct {
	DB                 *database.DB
	HistoryService     history.Service
	FeedSourceService  feedsources.Service
	JobService         jobs.Service
	TranscriberService transcriber.Service
	SummarizerService  summarizer.Service
	WorkerPool         *workers.WorkerPool
}
