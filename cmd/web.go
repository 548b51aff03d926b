/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package cmd

import (
	"context"
	"errors"
	"fmt"
	htmltemplate "html/template"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/flamego/csrf"
	"github.com/flamego/flamego"
	"github.com/flamego/session"
	"github.com/flamego/template"
	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	"github.com/humaidq/labsight/labs"
	"github.com/humaidq/labsight/report"
	"github.com/humaidq/labsight/routes"
	"github.com/humaidq/labsight/static"
	"github.com/humaidq/labsight/templates"
)

const (
	sessionCookieName = "labsight_session"
	shutdownTimeout   = 10 * time.Second
)

// CmdStart starts the web server.
var CmdStart = &cli.Command{
	Name:    "start",
	Aliases: []string{"run"},
	Usage:   "Start the web server",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "port",
			Value: "8080",
			Usage: "the web server port",
		},
		&cli.StringFlag{
			Name:    "upload-dir",
			Value:   "uploads",
			Sources: cli.EnvVars("UPLOAD_DIR"),
			Usage:   "directory for uploaded reports and derived results",
		},
		newTablesFlag(),
		&cli.Int64Flag{
			Name:  "max-upload-mb",
			Value: 10,
			Usage: "maximum upload size in megabytes",
		},
		&cli.StringFlag{
			Name:    "csrf-secret",
			Sources: cli.EnvVars("CSRF_SECRET"),
			Usage:   "secret for CSRF tokens (required in production)",
		},
		&cli.StringFlag{
			Name:    "env",
			Value:   "development",
			Sources: cli.EnvVars(runtimeEnvVar),
			Usage:   "runtime environment: development, dev, production or prod",
		},
	},
	Action: start,
}

type webConfig struct {
	tables       *labs.Tables
	store        *report.Store
	maxBytes     int64
	csrfSecret   string
	secureCookie bool
}

func start(ctx context.Context, cmd *cli.Command) error {
	production, err := isProductionEnv(cmd.String("env"))
	if err != nil {
		return err
	}

	csrfSecret, err := resolveCSRFSecret(cmd.String("csrf-secret"), production)
	if err != nil {
		return err
	}

	maxMB := cmd.Int64("max-upload-mb")
	if maxMB <= 0 {
		return errInvalidUploadLimit
	}

	tables, err := loadTables(cmd.String("tables"))
	if err != nil {
		return err
	}

	store, err := report.NewStore(cmd.String("upload-dir"))
	if err != nil {
		return err
	}

	f, err := newWebApp(webConfig{
		tables:       tables,
		store:        store,
		maxBytes:     maxMB << 20,
		csrfSecret:   csrfSecret,
		secureCookie: production,
	})
	if err != nil {
		return err
	}

	port := cmd.String("port")

	srv := &http.Server{
		Addr:              fmt.Sprintf("0.0.0.0:%s", port),
		Handler:           f,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		ErrorLog:          requestStdLogger,
	}

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-sigCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			appLogger.Error("Server shutdown failed", "error", err)
		}
	}()

	appLogger.Info("Starting web server",
		"port", port,
		"upload_dir", store.Dir(),
		"production", production,
		"ranges", len(tables.Ranges()),
	)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server exited: %w", err)
	}

	appLogger.Info("Web server stopped")

	return nil
}

// resolveCSRFSecret returns the configured secret. Development mode falls
// back to a random secret, so tokens do not survive restarts.
func resolveCSRFSecret(secret string, production bool) (string, error) {
	secret = strings.TrimSpace(secret)
	if secret != "" {
		return secret, nil
	}

	if production {
		return "", errCSRFSecretRequired
	}

	appLogger.Warn("CSRF_SECRET not set, using a random development secret")

	return uuid.NewString(), nil
}

func newWebApp(cfg webConfig) (*flamego.Flame, error) {
	fs, err := template.EmbedFS(templates.Templates, ".", []string{".html"})
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	f := flamego.New()
	f.Use(flamego.Recovery())
	f.Use(routes.RequestLogger)
	f.Use(session.Sessioner(session.Options{
		Cookie: session.CookieOptions{
			Name:     sessionCookieName,
			HTTPOnly: true,
			Secure:   cfg.secureCookie,
			SameSite: http.SameSiteLaxMode,
		},
	}))
	f.Use(csrf.Csrfer(csrf.Options{
		Secret: cfg.csrfSecret,
	}))
	f.Use(template.Templater(template.Options{
		FileSystem: fs,
		FuncMaps: []htmltemplate.FuncMap{
			templateFuncs(),
		},
	}))
	f.Use(flamego.Static(flamego.StaticOptions{
		FileSystem: http.FS(static.Static),
		Prefix:     "static",
	}))
	f.Use(routes.NoCacheHeaders())
	f.Use(routes.CSRFInjector())
	f.Use(routes.FlashInjector())
	f.Use(routes.SiteTitleInjector)

	f.Map(cfg.tables, cfg.store, routes.UploadOptions{MaxBytes: cfg.maxBytes})

	configureEmptyNotFoundHandler(f)

	f.Get("/healthz", routes.Healthz)
	f.Get("/", routes.Index)
	f.Post("/", routes.LimitBodySize(cfg.maxBytes+multipartOverhead), csrf.Validate, routes.UploadReport)
	f.Get("/reports/{name}", routes.ViewReport)
	f.Get("/reports/{name}/results.csv", routes.DownloadResults)

	return f, nil
}

// multipartOverhead leaves room for the multipart framing and CSRF field on
// top of the file itself.
const multipartOverhead = 64 << 10

func configureEmptyNotFoundHandler(f *flamego.Flame) {
	f.NotFound(func(c flamego.Context) {
		c.ResponseWriter().WriteHeader(http.StatusNotFound)
	})
}

func templateFuncs() htmltemplate.FuncMap {
	return htmltemplate.FuncMap{
		"statusClass": statusClass,
	}
}

// statusClass maps a status to the CSS class used by the results table.
func statusClass(status labs.Status) string {
	switch status {
	case labs.StatusLow:
		return "status-low"
	case labs.StatusNormal:
		return "status-normal"
	case labs.StatusElevated:
		return "status-elevated"
	case labs.StatusHigh:
		return "status-high"
	default:
		return "status-unknown"
	}
}
