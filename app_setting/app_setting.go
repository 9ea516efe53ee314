package app_setting

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// AppSetting is the runtime configuration of the contentmux binaries. It is
// populated from process env, after dotenv files have been loaded into it.
type AppSetting struct {
	// Address the gin server listens on.
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`

	// Database, see utils.GetDBConnection.
	DBHost string `env:"DB_HOST" envDefault:"localhost"`
	DBPort string `env:"DB_PORT" envDefault:"5432"`
	DBName string `env:"DB_NAME" envDefault:"contentmux"`
	DBUser string `env:"DB_USER"`
	DBPass string `env:"DB_PASS"`

	// Redis backs the comment job status store. An empty host falls back to
	// an in-process store.
	RedisHost   string `env:"REDIS_HOST"`
	RedisPort   string `env:"REDIS_PORT" envDefault:"6379"`
	RedisPasswd string `env:"REDIS_PASSWD"`

	// All external collaborators share one API key header.
	ExternalAPIKey       string        `env:"EXTERNAL_API_KEY"`
	ExternalAPIKeyHeader string        `env:"EXTERNAL_API_KEY_HEADER" envDefault:"x-api-key"`
	ExternalHTTPTimeout  time.Duration `env:"EXTERNAL_HTTP_TIMEOUT" envDefault:"5s"`

	ContentFeedURL      string `env:"CONTENT_FEED_URL" envDefault:"https://hackapi.hellozelf.com/api/v1/contents/"`
	AICommentURL        string `env:"AI_COMMENT_URL" envDefault:"https://hackapi.hellozelf.com/api/v1/ai_comment/"`
	PostCommentURL      string `env:"POST_COMMENT_URL" envDefault:"https://hackapi.hellozelf.com/api/v1/comment/"`
	ScrapingQueryURL    string `env:"SCRAPING_QUERY_URL" envDefault:"https://hackapi.hellozelf.com/api/v1/hashtag/"`
	ContentCanonicalURL string `env:"CONTENT_CANONICAL_BASE_URL" envDefault:"https://hellozelf.com/contents"`

	// Periodic puller.
	PullContentEnabled bool   `env:"PULL_CONTENT_ENABLED" envDefault:"true"`
	PullContentCron    string `env:"PULL_CONTENT_CRON" envDefault:"@every 1m"`

	// Comment generation worker.
	CommentJobsPerMinute int64 `env:"COMMENT_JOBS_PER_MINUTE" envDefault:"1"`
	CommentJobMaxRetries int   `env:"COMMENT_JOB_MAX_RETRIES" envDefault:"0"`
	CommentQueueBuffer   int64 `env:"COMMENT_QUEUE_BUFFER" envDefault:"1024"`

	// Read API pagination.
	DefaultPageSize int `env:"DEFAULT_PAGE_SIZE" envDefault:"10"`
	MaxPageSize     int `env:"MAX_PAGE_SIZE" envDefault:"100"`

	// DogStatsD agent address, metrics are dropped when empty.
	StatsdAddr string `env:"STATSD_ADDR"`
}

// ParseAppSetting reads AppSetting from the environment.
func ParseAppSetting() (AppSetting, error) {
	return env.ParseAs[AppSetting]()
}
