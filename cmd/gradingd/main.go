package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/peterbourgon/ff/v3"

	api "github.com/mind-engage/gradecurve/internal/api/http"
	"github.com/mind-engage/gradecurve/internal/auth"
	"github.com/mind-engage/gradecurve/internal/config"
	"github.com/mind-engage/gradecurve/internal/db"
	"github.com/mind-engage/gradecurve/internal/grading"
	"github.com/mind-engage/gradecurve/internal/journal"
	"github.com/mind-engage/gradecurve/internal/storage"
)

func main() {
	fs := flag.NewFlagSet("gradingd", flag.ExitOnError)
	var (
		_         = fs.String("config", "", "config file (optional), json format")
		envFile   = fs.String("env", ".env", "dotenv file loaded before reading the environment")
		addr      = fs.String("addr", "", "listen address, overrides HTTP_ADDR")
		mode      = fs.String("mode", "", "offline|online, overrides MODE")
		logLevel  = fs.String("log-level", "", "debug|info|warn|error|off, overrides LOG_LEVEL")
		accessLog = fs.Bool("access-log", true, "log every request")
	)
	if err := ff.Parse(fs, os.Args[1:],
		ff.WithConfigFileFlag("config"),
		ff.WithConfigFileParser(ff.JSONParser),
		ff.WithEnvVarPrefix("GRADING"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "gradingd: %v\n", err)
		os.Exit(2)
	}

	if err := config.LoadDotEnv(*envFile); err != nil {
		fmt.Fprintf(os.Stderr, "gradingd: load %s: %v\n", *envFile, err)
		os.Exit(2)
	}
	cfg := config.FromEnv()
	if *addr != "" {
		cfg.HTTPAddr = *addr
	}
	if *mode != "" {
		cfg.Mode = config.Mode(*mode)
	}
	if *logLevel != "" {
		cfg.LogLevel = strings.ToLower(*logLevel)
	}

	lg := log.New("gradingd")
	lg.SetLevel(parseLevel(cfg.LogLevel))

	// --- Journal (optional) ---
	var jr journal.Journal = journal.Nop{}
	if cfg.JournalEnabled {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
		cancel()
		if err != nil {
			lg.Fatalf("db open failed: %v", err)
		}
		defer dbh.Close()
		jr = journal.NewRepo(dbh)
	}

	// --- Auth (optional) ---
	var authSvc *auth.AuthService
	if cfg.EnableAuth {
		authSvc = auth.NewAuthService(cfg.AuthSecret,
			auth.Account{Username: cfg.AdminUser, PassHash: cfg.AdminPassHash, Role: "admin"},
			auth.Account{Username: cfg.TeacherUser, PassHash: cfg.TeacherHash, Role: "teacher"},
		)
		if cfg.AdminPassHash == "" && cfg.TeacherHash == "" {
			lg.Warn("auth enabled but no ADMIN_PASS_HASH or TEACHER_PASS_HASH set; nobody can log in")
		}
	}

	h := api.NewRouter(api.Deps{
		Engine:         grading.NewEngine(grading.WithLogger(lg)),
		Store:          storage.NewMemoryStore(cfg.ResultTTL),
		Journal:        jr,
		Auth:           authSvc,
		Log:            lg,
		MaxUploadBytes: cfg.MaxUploadBytes,
		CORSOrigins:    cfg.CORSOrigins(),
		AccessLog:      *accessLog,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// signal handler for shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		lg.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			lg.Errorf("shutdown: %v", err)
		}
	}()

	lg.Infof("listening on %s (mode=%s, auth=%t, journal=%t)", cfg.HTTPAddr, cfg.Mode, cfg.EnableAuth, cfg.JournalEnabled)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		lg.Fatalf("serve: %v", err)
	}
}

func parseLevel(s string) log.Lvl {
	switch s {
	case "debug":
		return log.DEBUG
	case "warn":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	default:
		return log.INFO
	}
}
