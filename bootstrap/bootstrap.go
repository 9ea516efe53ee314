// Package bootstrap wires the long running pieces of contentmux together:
// database, comment job queue and worker, periodic puller and HTTP server.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/DataDog/datadog-go/statsd"
	"github.com/Luismorlan/contentmux/app_setting"
	"github.com/Luismorlan/contentmux/clients"
	"github.com/Luismorlan/contentmux/ingestion"
	"github.com/Luismorlan/contentmux/jobs"
	"github.com/Luismorlan/contentmux/server"
	"github.com/Luismorlan/contentmux/store"
	"github.com/Luismorlan/contentmux/utils"
	Logger "github.com/Luismorlan/contentmux/utils/log"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type App struct {
	Setting app_setting.AppSetting

	DB          *gorm.DB
	Store       *store.Store
	StatusStore utils.CommentJobStatusStore
	Statsd      statsd.ClientInterface

	EventBus *gochannel.GoChannel
	Queue    *jobs.Queue
	Router   *message.Router
	Cron     *jobs.CronRunner

	Contents *ingestion.ContentService
	Videos   *ingestion.VideoService
	Server   *server.Server
}

// New connects to every backing service. db may be nil, in which case the
// configured postgres database is opened and migrated.
func New(ctx context.Context, setting app_setting.AppSetting, db *gorm.DB) (*App, error) {
	app := &App{Setting: setting}

	if db == nil {
		var err error
		if db, err = utils.GetDBConnection(setting); err != nil {
			return nil, err
		}
		if err = utils.DatabaseSetupAndMigration(db); err != nil {
			return nil, err
		}
	}
	app.DB = db
	app.Store = store.New(db)

	if setting.RedisHost != "" {
		redisStore, err := utils.GetRedisStatusStore(ctx, fmt.Sprintf("%s:%s", setting.RedisHost, setting.RedisPort), setting.RedisPasswd)
		if err != nil {
			return nil, err
		}
		app.StatusStore = redisStore
	} else {
		Logger.Log.Warn("REDIS_HOST is not set, comment job status is kept in memory")
		app.StatusStore = utils.NewMemoryStatusStore()
	}
	app.Statsd = utils.NewDogStatsdClient(setting.StatsdAddr)

	watermillLogger := jobs.NewLogrusAdapter(Logger.Log)
	app.EventBus = jobs.NewEventBus(setting.CommentQueueBuffer, watermillLogger)
	app.Queue = jobs.NewQueue(app.EventBus, app.StatusStore)

	httpClient := clients.NewApiKeyHttpClient(setting.ExternalAPIKeyHeader, setting.ExternalAPIKey, setting.ExternalHTTPTimeout)
	app.Contents = ingestion.NewContentService(app.Store, app.Queue, app.Statsd)
	app.Videos = ingestion.NewVideoService(app.Store, app.Statsd)

	worker := &jobs.CommentWorker{
		Store:            app.Store,
		Comments:         clients.NewCommentClient(httpClient, setting.AICommentURL, setting.PostCommentURL),
		StatusStore:      app.StatusStore,
		CanonicalBaseURL: setting.ContentCanonicalURL,
		Statsd:           app.Statsd,
	}
	router, err := jobs.NewCommentRouter(worker, app.EventBus, jobs.CommentRouterConfig{
		JobsPerMinute: setting.CommentJobsPerMinute,
		MaxRetries:    setting.CommentJobMaxRetries,
	}, watermillLogger)
	if err != nil {
		return nil, err
	}
	app.Router = router

	app.Cron = jobs.NewCronRunner(ctx)
	if setting.PullContentEnabled {
		puller := &jobs.ContentPuller{
			Feed:     clients.NewFeedClient(httpClient, setting.ContentFeedURL),
			Ingester: app.Contents,
			Statsd:   app.Statsd,
		}
		if _, err := app.Cron.Add(setting.PullContentCron, puller.Run); err != nil {
			return nil, err
		}
	}

	app.Server = &server.Server{
		Store:     app.Store,
		Contents:  app.Contents,
		Videos:    app.Videos,
		Hashtags:  clients.NewScraperClient(httpClient, setting.ScrapingQueryURL),
		Paginator: server.NewPaginator(setting.DefaultPageSize, setting.MaxPageSize),
	}
	return app, nil
}

// HTTPHandler is the gin engine serving the API.
func (a *App) HTTPHandler(serviceName string) *gin.Engine {
	return server.NewRouter(a.Server, serviceName)
}

// Shutdown stops the puller first so that no new job is published, then the
// worker.
func (a *App) Shutdown() {
	a.Cron.Stop()
	if err := a.Router.Close(); err != nil {
		Logger.Log.WithError(err).Error("fail to close comment worker router")
	}
	if err := a.EventBus.Close(); err != nil {
		Logger.Log.WithError(err).Error("fail to close event bus")
	}
	if closer, ok := a.Statsd.(interface{ Close() error }); ok {
		closer.Close()
	}
}
