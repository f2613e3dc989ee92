package server

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fawad57/psyplex/config"
	"github.com/fawad57/psyplex/internal/chatbot"
	"github.com/fawad57/psyplex/internal/classifier"
	"github.com/fawad57/psyplex/internal/fetcher"
	"github.com/fawad57/psyplex/provider"
	"github.com/fawad57/psyplex/session"
)

func Run(cfg *config.Config, addr string) error {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	// Unified HTTP error handler with structured JSON and logging
	baseLogger := log.New(log.Writer(), "[HTTP] ", log.LstdFlags)
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		req := c.Request()
		baseLogger.Printf("%d %s %s from %s: %v", code, req.Method, req.URL.Path, c.RealIP(), err)
		if !c.Response().Committed {
			_ = c.JSON(code, map[string]interface{}{"error": msg})
		}
	}
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			req := c.Request()
			baseLogger.Printf("%s %s -> %d (%s)", req.Method, req.URL.Path, c.Response().Status, time.Since(start))
			return err
		}
	})
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	e.GET("/healthz", func(c echo.Context) error { return c.String(200, "ok") })
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Classification model is optional at startup: the endpoint reports
	// unavailability instead of the whole server refusing to boot.
	var model classifier.Classifier
	m, err := classifier.Load(cfg.Classifier.ModelPath)
	if err != nil {
		if !errors.Is(err, classifier.ErrModelNotFound) {
			return fmt.Errorf("load classifier model: %w", err)
		}
		baseLogger.Printf("classifier model missing at %s; /api/classify disabled", cfg.Classifier.ModelPath)
	} else {
		model = m
	}

	// LLM provider is optional too: chat degrades to its canned reply.
	var llm provider.Provider
	if p, err := provider.NewProvider(cfg.LLM); err != nil {
		if !errors.Is(err, provider.ErrUnavailable) {
			return fmt.Errorf("init llm provider: %w", err)
		}
		baseLogger.Printf("llm provider not configured; chat runs in fallback mode")
	} else {
		llm = p
	}

	sessions := session.NewStore(cfg.Session)
	userFetcher := fetcher.NewClient(cfg.Services.UserAPIBase, cfg.Services.DomainAPIBase, cfg.Services.Timeout)
	bot := chatbot.New(llm, sessions, userFetcher, cfg.Session.TTL)

	api := e.Group("/api")

	hh := &HistoryHandler{
		DBPath:    cfg.History.DBPath,
		OutputDir: cfg.History.OutputDir,
		Logger:    log.New(log.Writer(), "[HISTORY] ", log.LstdFlags),
	}
	hh.Register(api.Group("/history"))

	ch := &ClassifyHandler{
		Model:     model,
		OutputDir: cfg.History.OutputDir,
		Logger:    log.New(log.Writer(), "[CLASSIFY] ", log.LstdFlags),
	}
	ch.Register(api.Group("/classify"))

	ih := &InsightsHandler{
		OutputDir: cfg.History.OutputDir,
		Logger:    log.New(log.Writer(), "[INSIGHT] ", log.LstdFlags),
	}
	ih.Register(api)

	cth := &ChatHandler{Bot: bot}
	cth.Register(api.Group("/chat"))

	if addr == "" {
		addr = cfg.Server.Address
		if addr != "" && addr[0] != ':' {
			addr = ":" + addr
		}
		if addr == "" {
			addr = ":8080"
		}
	}
	log.Printf("listening on %s", addr)
	return e.Start(addr)
}
