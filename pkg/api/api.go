package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/campuswatch/campuswatch/pkg/config"
	"github.com/campuswatch/campuswatch/pkg/metrics"
	"github.com/campuswatch/campuswatch/pkg/system"
)

// APIController is one mountable piece of the REST surface.
type APIController interface {
	BasePath() string
	Register(rg *gin.RouterGroup) error
	Handlers() []gin.HandlerFunc
}

// HealthCheck reports the readiness of one subsystem.
type HealthCheck func() error

type Server struct {
	gin    *gin.Engine
	config config.Config
	auth   *AuthHandler
	checks map[string]HealthCheck
}

func NewServer(log *zap.Logger, cfg config.Config,
	debug bool, auth *AuthHandler,
) *Server {
	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(
		ginzap.Ginzap(log, time.RFC3339, true),
		ginzap.RecoveryWithZap(log, true),
		system.RequestLogger(log.Sugar()),
	)

	if len(cfg.Server.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
			log.Sugar().Fatalf("invalid trustedProxies configuration: %v", err)
		}
	}

	staticDir := cfg.Frontend.StaticDir
	if staticDir == "" {
		staticDir = "./frontend/dist/"
	}
	engine.NoRoute(ServeSPA("/", staticDir))

	if debug {
		engine.Use(
			cors.New(cors.Config{
				AllowOrigins: []string{"http://localhost:5173", "http://127.0.0.1:8080"},
				AllowMethods: []string{"GET", "PUT", "PATCH", "POST", "OPTIONS"},
				AllowHeaders: []string{"Origin", "Authorization", "Content-Type"},
				MaxAge:       12 * time.Hour,
			}),
		)
	}

	if auth == nil {
		auth = NewAuth(log.Sugar(), cfg)
	}

	s := &Server{
		gin:    engine,
		config: cfg,
		auth:   auth,
		checks: make(map[string]HealthCheck),
	}

	engine.GET("api/config", s.getConfig)
	engine.GET("healthz", s.getHealth)
	engine.GET("metrics", gin.WrapH(metrics.MetricsHandler()))

	return s
}

// Auth returns the token verification middleware for the protected
// controllers.
func (s *Server) Auth() gin.HandlerFunc {
	return s.auth.Middleware()
}

// Use attaches additional middleware, typically rate limiting. Must be
// called before RegisterAll so the API routes pick it up.
func (s *Server) Use(middleware ...gin.HandlerFunc) {
	s.gin.Use(middleware...)
}

// AddHealthCheck registers a named readiness check served on /healthz.
func (s *Server) AddHealthCheck(name string, check HealthCheck) {
	s.checks[name] = check
}

func (s *Server) RegisterAll(controllers []APIController) error {
	r := s.gin.Group("api")
	for _, c := range controllers {
		if err := c.Register(r.Group(c.BasePath(), c.Handlers()...)); err != nil {
			return err
		}
	}
	return nil
}

func (s *Server) Listen() {
	if s.config.Server.TLSCertFile != "" && s.config.Server.TLSKeyFile != "" {
		_ = s.gin.RunTLS(s.config.Server.ListenAddress, s.config.Server.TLSCertFile, s.config.Server.TLSKeyFile)
	}
	_ = s.gin.Run(s.config.Server.ListenAddress)
}

// Handler exposes the underlying engine, used by tests and by the
// graceful shutdown wiring in main.
func (s *Server) Handler() http.Handler {
	return s.gin
}

// FrontendConfig is handed to the SPA so it can run the OIDC login
// flow itself.
type FrontendConfig struct {
	OIDCAuthority string `json:"oidcAuthority"`
	OIDCClientID  string `json:"oidcClientID"`
	BrandingName  string `json:"brandingName"`
}

func (s *Server) getConfig(c *gin.Context) {
	c.JSON(http.StatusOK, FrontendConfig{
		OIDCAuthority: s.config.Frontend.OIDCAuthority,
		OIDCClientID:  s.config.Frontend.OIDCClientID,
		BrandingName:  s.config.Frontend.BrandingName,
	})
}

func (s *Server) getHealth(c *gin.Context) {
	status := http.StatusOK
	result := gin.H{}
	for name, check := range s.checks {
		if err := check(); err != nil {
			status = http.StatusServiceUnavailable
			result[name] = err.Error()
			continue
		}
		result[name] = "ok"
	}
	c.JSON(status, gin.H{"status": http.StatusText(status), "checks": result})
}
