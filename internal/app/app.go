package app

import (
	"github.com/gin-gonic/gin"

	"github.com/nourabuild/contacts-service/internal/config"
	"github.com/nourabuild/contacts-service/internal/limiter"
	"github.com/nourabuild/contacts-service/internal/metrics"
	"github.com/nourabuild/contacts-service/internal/sdk/sqldb"
	"github.com/nourabuild/contacts-service/internal/services/avatar"
	"github.com/nourabuild/contacts-service/internal/services/hash"
	"github.com/nourabuild/contacts-service/internal/services/mail"
	"github.com/nourabuild/contacts-service/internal/services/sentry"
	"github.com/nourabuild/contacts-service/internal/services/token"
)

type App struct {
	cfg     *config.Config
	db      sqldb.Service
	tokens  *token.TokenService
	hash    *hash.HashService
	mail    mail.Service
	avatars avatar.Service
	sentry  *sentry.SentryService
	limiter limiter.Limiter
	metrics *metrics.Metrics
}

func NewApp(
	cfg *config.Config,
	db sqldb.Service,
	tokens *token.TokenService,
	hash *hash.HashService,
	mail mail.Service,
	avatars avatar.Service,
	sentry *sentry.SentryService,
	limiter limiter.Limiter,
	metrics *metrics.Metrics,
) *App {
	return &App{
		cfg:     cfg,
		db:      db,
		tokens:  tokens,
		hash:    hash,
		mail:    mail,
		avatars: avatars,
		sentry:  sentry,
		limiter: limiter,
		metrics: metrics,
	}
}

func (a *App) toSentry(c *gin.Context, handler, errType string, level sentry.Level, err error) {
	a.sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("handler", handler)
		scope.SetExtra("error_type", errType)
		scope.SetLevel(level)
		if reqID := c.GetHeader("X-Request-ID"); reqID != "" {
			scope.SetTag("request_id", reqID)
		}
		a.sentry.CaptureException(err)
	})
}
