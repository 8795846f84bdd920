package main

import (
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/quitbet/quitbet/internal/api"
	"github.com/quitbet/quitbet/internal/db"
	"github.com/quitbet/quitbet/internal/records"
	"github.com/quitbet/quitbet/internal/services"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	v := viper.New()
	v.SetEnvPrefix("QUITBET")
	v.AutomaticEnv()
	v.SetDefault("addr", ":8080")
	v.SetDefault("sqlite_path", "data/quitbet.db")
	v.SetDefault("migrations_dir", "")

	log, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	sqlitePath := v.GetString("sqlite_path")
	if err := os.MkdirAll(filepath.Dir(sqlitePath), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?cache=shared&_busy_timeout=5000", filepath.ToSlash(sqlitePath))
	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return fmt.Errorf("open sqlite: %w", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Warn("close sqlite", zap.Error(cerr))
		}
	}()

	if err := db.RunMigrations(conn, v.GetString("migrations_dir")); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	backend, err := db.NewSQLiteBackend(conn, log)
	if err != nil {
		return fmt.Errorf("init sqlite backend: %w", err)
	}
	store := records.NewStore(backend, log)

	handler := api.NewHandler(
		services.NewUsageService(store, log),
		services.NewGamificationService(store, log),
		services.NewCommunityService(store, log),
		services.NewSessionService(store, log),
		log,
	)

	addr := v.GetString("addr")
	log.Info("listening", zap.String("addr", addr), zap.String("sqlite_path", sqlitePath))
	return http.ListenAndServe(addr, handler.Routes())
}
