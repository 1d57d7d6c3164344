// Package app assembles repositories, services and background jobs from
// configuration. The API server and the operator CLI share it.
package app

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/cmlabs-hris/attendance-hr-go/internal/config"
	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/device"
	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/document"
	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/master"
	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/punch"
	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/resignation"
	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/salary"
	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-hr-go/internal/pkg/cron"
	"github.com/cmlabs-hris/attendance-hr-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-hr-go/internal/pkg/email"
	"github.com/cmlabs-hris/attendance-hr-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-hr-go/internal/pkg/oauth"
	"github.com/cmlabs-hris/attendance-hr-go/internal/pkg/pdf"
	"github.com/cmlabs-hris/attendance-hr-go/internal/pkg/sse"
	"github.com/cmlabs-hris/attendance-hr-go/internal/pkg/storage"
	"github.com/cmlabs-hris/attendance-hr-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/attendance-hr-go/internal/service/attendance"
	serviceAuth "github.com/cmlabs-hris/attendance-hr-go/internal/service/auth"
	deviceService "github.com/cmlabs-hris/attendance-hr-go/internal/service/device"
	documentService "github.com/cmlabs-hris/attendance-hr-go/internal/service/document"
	"github.com/cmlabs-hris/attendance-hr-go/internal/service/file"
	leaveService "github.com/cmlabs-hris/attendance-hr-go/internal/service/leave"
	masterService "github.com/cmlabs-hris/attendance-hr-go/internal/service/master"
	notificationService "github.com/cmlabs-hris/attendance-hr-go/internal/service/notification"
	reportService "github.com/cmlabs-hris/attendance-hr-go/internal/service/report"
	resignationService "github.com/cmlabs-hris/attendance-hr-go/internal/service/resignation"
	salaryService "github.com/cmlabs-hris/attendance-hr-go/internal/service/salary"
	userService "github.com/cmlabs-hris/attendance-hr-go/internal/service/user"
	"github.com/go-chi/httplog/v3"
)

const (
	name    = "attendance-hr"
	version = "v1.0.0"
)

// NewLogger builds the JSON logger used for both application and access
// logs and installs it as the slog default.
func NewLogger(cfg config.AppConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(cfg.LogLevel))); err != nil {
		level = slog.LevelInfo
	}

	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", name),
		slog.String("version", version),
		slog.String("env", cfg.Env),
	)
	slog.SetDefault(logger)
	return logger
}

// App holds the wired services. Close releases the notification workers
// and the database pool.
type App struct {
	Config *config.Config
	DB     *database.DB
	JWT    jwt.Service

	Punches punch.PunchRepository
	Poller  *deviceService.Poller

	Auth          auth.AuthService
	Users         user.UserService
	Master        master.MasterService
	Devices       device.DeviceService
	Attendance    *attendanceService.AttendanceServiceImpl
	Leaves        leave.LeaveService
	Resignations  resignation.ResignationService
	Salaries      salary.SalaryService
	Documents     document.DocumentService
	Notifications notificationService.Service
	Reports       report.ReportService

	Jobs *cron.Jobs
}

func New(cfg *config.Config) (*App, error) {
	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	jwtService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration, cfg.App.Env == "production")
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("invalid JWT configuration: %w", err)
	}

	var fileStorage storage.FileStorage
	switch cfg.Storage.Type {
	case "local":
		fileStorage, err = storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to initialize local storage: %w", err)
		}
	default:
		db.Close()
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Storage.Type)
	}

	mailer, err := email.NewMailer(cfg.SMTP)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize mailer: %w", err)
	}

	tx := postgresql.NewTransactor(db)
	userRepo := postgresql.NewUserRepository(db)
	refreshTokenRepo := postgresql.NewRefreshTokenRepository(db)
	officeRepo := postgresql.NewOfficeRepository(db)
	holidayRepo := postgresql.NewHolidayRepository(db)
	deviceRepo := postgresql.NewDeviceRepository(db)
	punchRepo := postgresql.NewPunchRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	leaveRepo := postgresql.NewLeaveRepository(db)
	resignationRepo := postgresql.NewResignationRepository(db)
	salaryRepo := postgresql.NewSalaryRepository(db)
	templateRepo := postgresql.NewTemplateRepository(db)
	documentRepo := postgresql.NewDocumentRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)
	reportRepo := postgresql.NewReportRepository(db)

	var google oauth.GoogleProvider
	if cfg.OAuth2Google.Enabled() {
		google = oauth.NewGoogleProvider(cfg.OAuth2Google.ClientID, cfg.OAuth2Google.ClientSecret, cfg.OAuth2Google.RedirectURL, cfg.OAuth2Google.Scopes)
	}

	notifications := notificationService.NewNotificationService(notificationRepo, sse.NewHub(), jwtService, notificationService.Config{})

	attendanceSvc := attendanceService.NewAttendanceService(
		tx,
		attendanceRepo,
		punchRepo,
		userRepo,
		officeRepo,
		holidayRepo,
		leaveRepo,
		attendance.DefaultPolicy(cfg.Attendance),
	)
	poller := deviceService.NewPoller(deviceRepo, attendanceSvc, deviceService.ZKDialer(cfg.Device.Timeout), cfg.Device, cfg.Attendance.Timezone)

	documents := documentService.NewDocumentService(
		tx,
		templateRepo,
		documentRepo,
		userRepo,
		resignationRepo,
		file.NewFileService(fileStorage),
		pdf.NewRenderer(pdf.DefaultOptions()),
	)
	salaries := salaryService.NewSalaryService(
		tx,
		salaryRepo,
		userRepo,
		attendanceRepo,
		holidayRepo,
		documents,
		notifications,
		mailer,
		cfg.Attendance.Timezone,
	)

	a := &App{
		Config:  cfg,
		DB:      db,
		JWT:     jwtService,
		Punches: punchRepo,
		Poller:  poller,

		Auth:          serviceAuth.NewAuthService(tx, userRepo, jwtService, refreshTokenRepo, google),
		Users:         userService.NewUserService(tx, userRepo, refreshTokenRepo),
		Master:        masterService.NewMasterService(officeRepo, holidayRepo),
		Devices:       deviceService.NewDeviceService(deviceRepo, punchRepo, attendanceSvc, poller, cfg.Attendance.Timezone),
		Attendance:    attendanceSvc,
		Leaves:        leaveService.NewLeaveService(leaveRepo, userRepo, attendanceSvc, notifications, mailer),
		Resignations:  resignationService.NewResignationService(tx, resignationRepo, userRepo, notifications, mailer),
		Salaries:      salaries,
		Documents:     documents,
		Notifications: notifications,
		Reports:       reportService.NewReportService(reportRepo, userRepo, attendanceRepo, holidayRepo, salaryRepo, cfg.Attendance.Timezone),
	}
	a.Jobs = cron.NewJobs(poller, attendanceSvc, salaries, cfg.Jobs, cfg.Attendance.Timezone)
	return a, nil
}

func (a *App) Close() {
	a.Notifications.Close()
	a.DB.Close()
}
