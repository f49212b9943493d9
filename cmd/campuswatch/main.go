package main

import (
	"context"
	"errors"
	"flag"
	stdlog "log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/campuswatch/campuswatch/pkg/api"
	"github.com/campuswatch/campuswatch/pkg/audit"
	"github.com/campuswatch/campuswatch/pkg/college"
	"github.com/campuswatch/campuswatch/pkg/config"
	"github.com/campuswatch/campuswatch/pkg/identity"
	"github.com/campuswatch/campuswatch/pkg/mail"
	"github.com/campuswatch/campuswatch/pkg/ratelimit"
	"github.com/campuswatch/campuswatch/pkg/report"
	"github.com/campuswatch/campuswatch/pkg/store"
	"github.com/campuswatch/campuswatch/pkg/storage"
	"github.com/campuswatch/campuswatch/pkg/system"
	"github.com/campuswatch/campuswatch/pkg/tracking"
)

func main() {
	var debug bool
	flag.BoolVar(&debug, "debug", false, "enable debug level logging")
	flag.Parse()

	zl := setupLogger(debug)
	log := zl.Sugar()
	log.With("version", system.Version).Info("Starting campuswatch api")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading campuswatch config: %v", err)
	}
	cfg.Defaults()

	if debug {
		log.Infof("%#v", cfg)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := store.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Error opening database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	collegeRepo := store.NewCollegeRepository(db)
	complaintRepo := store.NewComplaintRepository(db)
	caseRepo := store.NewCaseRepository(db)

	blobs, err := storage.New(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatalf("Error setting up evidence storage: %v", err)
	}

	auditSvc := audit.NewService(cfg.Audit, zl)
	defer func() {
		_ = auditSvc.Close()
	}()

	mailSvc := mail.NewService(cfg, log)
	if err := mailSvc.Start(ctx); err != nil {
		log.Fatalf("Error starting mail service: %v", err)
	}

	directory := identity.NewDirectory(cfg.Keycloak, log)

	trackSvc := tracking.NewService(caseRepo, log)
	collegeSvc := college.NewService(collegeRepo, complaintRepo, caseRepo, log)
	reportSvc := report.NewService(complaintRepo, collegeRepo, caseRepo, blobs, log,
		func() string { return time.Now().UTC().Format("2006-01-02") })

	auth := api.NewAuth(log, cfg)
	server := api.NewServer(zl, cfg, debug, auth)
	server.AddHealthCheck("database", db.Ping)
	server.AddHealthCheck("audit", func() error {
		for _, h := range auditSvc.Health() {
			if !h.Healthy {
				return errors.New("audit sink " + h.Name + " unhealthy")
			}
		}
		return nil
	})

	publicLimiter := ratelimit.New(ratelimit.PublicConfig())
	defer publicLimiter.Stop()
	workflowLimiter := ratelimit.New(ratelimit.WorkflowConfig())
	defer workflowLimiter.Stop()
	server.Use(publicLimiter.PerIP())

	authed := []gin.HandlerFunc{auth.Middleware(), workflowLimiter.PerUser()}
	baseURL := cfg.Frontend.BaseURL

	err = server.RegisterAll([]api.APIController{
		report.NewController(log, reportSvc, authed, auditSvc, mailSvc, baseURL),
		tracking.NewController(log, trackSvc, authed, auditSvc, mailSvc, directory, collegeSvc, baseURL),
		tracking.AuthorityController{},
		college.NewController(log, collegeSvc),
	})
	if err != nil {
		log.Fatalf("Error registering campuswatch controllers: %v", err)
	}

	auditSvc.Emit(ctx, audit.Event{
		Type:   audit.EventSystemStartup,
		Target: audit.Target{Kind: "service", Name: "campuswatch"},
	})

	httpServer := &http.Server{
		Addr:              cfg.Server.ListenAddress,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		var serveErr error
		if cfg.Server.TLSCertFile != "" && cfg.Server.TLSKeyFile != "" {
			serveErr = httpServer.ListenAndServeTLS(cfg.Server.TLSCertFile, cfg.Server.TLSKeyFile)
		} else {
			serveErr = httpServer.ListenAndServe()
		}
		if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			log.Fatalf("Error serving campuswatch api: %v", serveErr)
		}
	}()
	log.Infow("campuswatch api listening", "address", cfg.Server.ListenAddress)

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Warnw("http server shutdown failed", "error", err)
	}
	auditSvc.Emit(shutdownCtx, audit.Event{
		Type:   audit.EventSystemShutdown,
		Target: audit.Target{Kind: "service", Name: "campuswatch"},
	})
	if err := mailSvc.Stop(shutdownCtx); err != nil {
		log.Warnw("mail service shutdown failed", "error", err)
	}
}

func setupLogger(debug bool) *zap.Logger {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.UTC().Format(time.RFC3339))
	}
	cfg.EncoderConfig.TimeKey = "ts"
	logger, err := cfg.Build()
	if err != nil {
		stdlog.Fatalf("failed to set up logger: %v", err)
	}
	return logger
}
