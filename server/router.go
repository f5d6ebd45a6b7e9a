// Package server exposes a tracker over a local JSON API.
package server

import (
	"os"
	"strings"
	"time"

	"github.com/etnz/tracker"
	"github.com/etnz/tracker/renderer"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/logger"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Controller serves the API of one store.
type Controller struct {
	Store  *tracker.Store
	Report renderer.Options
	Now    func() time.Time // report generation time, time.Now when nil
}

func (co Controller) now() time.Time {
	if co.Now == nil {
		return time.Now()
	}
	return co.Now()
}

// Router returns the engine with every route and middleware attached.
func Router(co Controller) *gin.Engine {
	r := gin.New()

	// client IPs are never used
	r.ForwardedByClientIP = false
	_ = r.SetTrustedProxies([]string{})
	r.HandleMethodNotAllowed = true

	r.Use(gin.Recovery())
	r.Use(requestid.New())
	r.Use(logger.SetLogger(
		logger.WithDefaultLevel(zerolog.InfoLevel),
		logger.WithClientErrorLevel(zerolog.InfoLevel),
		logger.WithServerErrorLevel(zerolog.ErrorLevel),
		logger.WithLogger(func(c *gin.Context, l zerolog.Logger) zerolog.Logger {
			return l.With().
				Str("request-id", requestid.Get(c)).
				Str("method", c.Request.Method).
				Str("path", c.Request.URL.Path).
				Logger()
		})))

	if allowOrigins, ok := os.LookupEnv("DTR_CORS_ALLOW_ORIGINS"); ok {
		log.Debug().Str("allowOrigins", allowOrigins).Msg("CORS")
		r.Use(cors.New(cors.Config{
			AllowOrigins: strings.Fields(allowOrigins),
			AllowMethods: []string{"OPTIONS", "GET", "POST", "PUT", "PATCH", "DELETE"},
			AllowHeaders: []string{"Origin", "Content-Length", "Content-Type"},
		}))
	}

	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, numHandlers int) {}

	r.GET("/healthz", GetHealth)

	v1 := r.Group("/v1")
	v1.GET("/tracker", co.GetTracker)
	v1.PUT("/budget", co.PutBudget)
	v1.GET("/report", co.GetReport)

	expenses := v1.Group("/expenses")
	expenses.POST("", co.CreateExpense)
	expenses.PATCH("/:id", co.UpdateExpense)
	expenses.DELETE("/:id", co.deleteOne(tracker.KindExpenses))
	expenses.POST("/bulk-delete", co.bulkDelete(tracker.KindExpenses))

	loans := v1.Group("/loans")
	loans.POST("", co.CreateLoan)
	loans.DELETE("/:id", co.deleteOne(tracker.KindLoans))
	loans.POST("/bulk-delete", co.bulkDelete(tracker.KindLoans))

	company := v1.Group("/company-records")
	company.POST("", co.CreateCompanyRecord)
	company.DELETE("/:id", co.deleteOne(tracker.KindCompanyRecords))
	company.POST("/bulk-delete", co.bulkDelete(tracker.KindCompanyRecords))

	return r
}
