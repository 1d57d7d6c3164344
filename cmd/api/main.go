package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/attendance-hr-go/internal/app"
	"github.com/cmlabs-hris/attendance-hr-go/internal/config"
	appHTTP "github.com/cmlabs-hris/attendance-hr-go/internal/handler/http"
	"github.com/cmlabs-hris/attendance-hr-go/internal/pkg/cron"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}
	logger := app.NewLogger(cfg.App)

	a, err := app.New(cfg)
	if err != nil {
		slog.Error("Failed to start", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	scheduler := cron.NewScheduler()
	pollInterval := cfg.Device.PollInterval
	if !cfg.Device.PollEnabled {
		pollInterval = 0
	}
	a.Jobs.RegisterJobs(scheduler, pollInterval)
	scheduler.Start()
	defer scheduler.Stop()

	origins := cfg.App.CORSOrigins
	if len(origins) == 0 {
		origins = []string{cfg.App.FrontendURL}
	}

	router := appHTTP.NewRouter(a.JWT, appHTTP.Handlers{
		Auth:         appHTTP.NewAuthHandler(a.JWT, a.Auth, a.Users, cfg.App.FrontendURL),
		User:         appHTTP.NewUserHandler(a.Users),
		Master:       appHTTP.NewMasterHandler(a.Master),
		Device:       appHTTP.NewDeviceHandler(a.Devices),
		Push:         appHTTP.NewPushHandler(a.Devices),
		Attendance:   appHTTP.NewAttendanceHandler(a.Attendance),
		Leave:        appHTTP.NewLeaveHandler(a.Leaves),
		Resignation:  appHTTP.NewResignationHandler(a.Resignations),
		Salary:       appHTTP.NewSalaryHandler(a.Salaries),
		Document:     appHTTP.NewDocumentHandler(a.Documents),
		Notification: appHTTP.NewNotificationHandler(a.Notifications),
		Report:       appHTTP.NewReportHandler(a.Reports),
	}, appHTTP.RouterOptions{
		Logger:         logger,
		AllowedOrigins: origins,
		DB:             a.DB,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("Server running", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
}
