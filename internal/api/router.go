package api

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/charlesng35/flaskr/internal/app"
	iauth "github.com/charlesng35/flaskr/internal/auth"
	"github.com/charlesng35/flaskr/internal/handlers"
	"github.com/charlesng35/flaskr/internal/middleware"
	"github.com/charlesng35/flaskr/internal/render"
	"github.com/charlesng35/flaskr/internal/services"
)

// Deps bundles everything the router needs. It is built once at startup.
type Deps struct {
	Config   *app.Config
	DB       *gorm.DB
	Guard    *iauth.Guard
	Sessions *iauth.SessionCodec
	Entries  *services.EntryService
	Audit    *services.AuditService
}

func (d Deps) validate() error {
	switch {
	case d.Config == nil:
		return errors.New("config must be provided")
	case d.DB == nil:
		return errors.New("database handle must be provided")
	case d.Guard == nil:
		return errors.New("auth guard must be provided")
	case d.Sessions == nil:
		return errors.New("session codec must be provided")
	case d.Entries == nil:
		return errors.New("entry service must be provided")
	}
	return nil
}

// NewRouter builds the Gin engine, wires middleware and registers the blog routes.
func NewRouter(deps Deps) (*gin.Engine, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	cfg := deps.Config

	tmpl, err := render.Templates(render.Options{SanitizeHTML: cfg.Server.SanitizeHTML})
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.SetHTMLTemplate(tmpl)

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeaders())

	// Health and metrics sit outside session and CSRF handling.
	r.GET("/health", handlers.Health(deps.DB))
	if cfg.Monitoring.Prometheus.Enabled {
		endpoint := cfg.Monitoring.Prometheus.Endpoint
		if endpoint == "" {
			endpoint = "/metrics"
		}
		r.GET(endpoint, gin.WrapH(promhttp.Handler()))
	}

	store := middleware.NewSessionStore(deps.Sessions, cfg.Auth.CookieName())

	site := r.Group("/")
	site.Use(store.Load())
	if cfg.Server.CSRF.Enabled {
		site.Use(middleware.CSRF())
	}

	authHandler, err := handlers.NewAuthHandler(deps.Guard, store, deps.Audit)
	if err != nil {
		return nil, err
	}
	entryHandler, err := handlers.NewEntryHandler(deps.Entries, store, deps.Audit)
	if err != nil {
		return nil, err
	}

	site.GET("/", entryHandler.Index)
	site.GET("/login", authHandler.LoginForm)
	site.POST("/login", authHandler.Login)
	site.GET("/logout", authHandler.Logout)

	site.POST("/add", middleware.RequireLogin(entryHandler.Denied(services.AuditActionEntryCreate)), entryHandler.Add)

	deleteChain := []gin.HandlerFunc{entryHandler.Delete}
	if cfg.Auth.RequireLoginForDelete {
		deleteChain = append([]gin.HandlerFunc{
			middleware.RequireLogin(entryHandler.Denied(services.AuditActionEntryDelete)),
		}, deleteChain...)
	}
	site.GET("/delete/:id", deleteChain...)

	site.GET("/search/", entryHandler.Search)
	site.POST("/search/", entryHandler.Search)

	r.NoRoute(middleware.NotFoundHandler)

	return r, nil
}
