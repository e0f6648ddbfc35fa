package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"studycloud/internal/config"
	"studycloud/internal/metrics"
	"studycloud/internal/notify"
	"studycloud/internal/repository"
	"studycloud/internal/server"
	"studycloud/internal/service"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	db, err := repository.NewDB(cfg.Database.Path, logger)
	if err != nil {
		logger.Fatal("open database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	m := metrics.New()

	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	var channels []notify.Notifier
	if cfg.SMTP.Enabled() {
		mailer, err := notify.NewMailer(cfg.SMTP)
		if err != nil {
			logger.Fatal("smtp channel", zap.Error(err))
		}
		channels = append(channels, mailer)
	}
	if cfg.Telegram.Enabled() {
		telegram, err := notify.NewTelegram(cfg.Telegram.Token)
		if err != nil {
			logger.Fatal("telegram channel", zap.Error(err))
		}
		channels = append(channels, telegram)
	}
	notifier := notify.NewFanout(channels...)

	authSvc := service.NewAuthService(userRepo, cfg.Auth, nil)
	taskSvc := service.NewTaskService(db, taskRepo, userRepo, notificationRepo, nil, logger, m)
	userSvc := service.NewUserService(userRepo, taskRepo)
	statsSvc := service.NewStatsService(taskRepo, nil)
	notificationSvc := service.NewNotificationService(notificationRepo)
	reminderSvc := service.NewReminderService(
		taskRepo, userRepo, notificationRepo, notifier, nil, logger.Named("sweep"), m)

	scheduler := service.NewSchedulerService(time.Local, logger)
	if _, err := scheduler.ScheduleInterval(cfg.Sweep.Interval, func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := reminderSvc.Sweep(jobCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn("reminder sweep", zap.Error(err))
		}
	}); err != nil {
		logger.Fatal("schedule sweep", zap.Error(err))
	}
	scheduler.Start()
	defer scheduler.Stop()

	srv := server.New(cfg.Server, logger, m, authSvc, taskSvc, userSvc, statsSvc, notificationSvc)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
	logger.Info("shutdown complete")
}

func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zcfg zap.Config
	if cfg.Format == "console" {
		zcfg = zap.NewDevelopmentConfig()
	} else {
		zcfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", cfg.Level, err)
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)

	return zcfg.Build()
}
