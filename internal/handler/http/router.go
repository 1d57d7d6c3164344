package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-hr-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-hr-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Auth         AuthHandler
	User         UserHandler
	Master       MasterHandler
	Device       DeviceHandler
	Push         PushHandler
	Attendance   AttendanceHandler
	Leave        LeaveHandler
	Resignation  ResignationHandler
	Salary       SalaryHandler
	Document     DocumentHandler
	Notification NotificationHandler
	Report       ReportHandler
}

type RouterOptions struct {
	Logger         *slog.Logger
	AllowedOrigins []string
	DB             middleware.Pinger
}

func NewRouter(JWTService jwt.Service, h Handlers, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(opts.Logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))
	if opts.DB != nil {
		r.Use(middleware.DatabaseGuard(opts.DB))
	}

	// ZKTeco ADMS push. Devices know nothing about tokens.
	r.Route("/iclock", func(r chi.Router) {
		r.Get("/cdata", h.Push.Handshake)
		r.Post("/cdata", h.Push.AttLog)
		r.Get("/getrequest", h.Push.GetRequest)
		r.Post("/devicecmd", h.Push.DeviceCmd)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/device-push", h.Push.Push)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/refresh", h.Auth.RefreshToken)
			r.Post("/logout", h.Auth.Logout)
			r.Route("/oauth/callback", func(r chi.Router) {
				r.Get("/google", h.Auth.OAuthCallbackGoogle)
			})

			r.Route("/login", func(r chi.Router) {
				r.Post("/", h.Auth.Login)
				r.Route("/oauth", func(r chi.Router) {
					r.Get("/google", h.Auth.LoginWithGoogle)
				})
			})
		})

		// The stream authenticates with its own short-lived token.
		r.Get("/notifications/stream", h.Notification.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.Get("/auth/me", h.Auth.Me)
			r.Post("/auth/change-password", h.Auth.ChangePassword)

			r.Route("/users", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionUserView)).Get("/", h.User.List)
				r.With(middleware.RequirePermission(user.PermissionUserView)).Get("/{id}", h.User.Get)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionUserManage))
					r.Post("/", h.User.Create)
					r.Put("/{id}", h.User.Update)
					r.Delete("/{id}", h.User.Deactivate)
					r.Post("/biometric-ids/assign", h.User.AssignBiometricIDs)
				})
			})

			r.Route("/offices", func(r chi.Router) {
				r.Get("/", h.Master.ListOffices)
				r.Get("/{id}", h.Master.GetOffice)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionMasterManage))
					r.Post("/", h.Master.CreateOffice)
					r.Put("/{id}", h.Master.UpdateOffice)
					r.Delete("/{id}", h.Master.DeleteOffice)
				})
			})

			r.Route("/holidays", func(r chi.Router) {
				r.Get("/", h.Master.ListHolidays)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionMasterManage))
					r.Post("/", h.Master.CreateHoliday)
					r.Delete("/{id}", h.Master.DeleteHoliday)
				})
			})

			r.Route("/devices", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionDeviceManage))
				r.Get("/", h.Device.List)
				r.Post("/", h.Device.Create)
				r.Get("/{id}", h.Device.Get)
				r.Put("/{id}", h.Device.Update)
				r.Delete("/{id}", h.Device.Delete)
				r.Post("/{id}/sync", h.Device.Sync)
				r.Get("/{id}/punches", h.Device.ListPunches)
			})

			r.Route("/attendance", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionAttendanceViewAll)).Get("/", h.Attendance.List)
				r.Get("/my", h.Attendance.GetMyAttendance)
				r.Get("/{id}", h.Attendance.Get)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionAttendanceManage))
					r.Put("/{id}", h.Attendance.Update)
					r.Post("/recalculate", h.Attendance.Recalculate)
					r.Post("/punches", h.Attendance.ManualPunch)
				})
			})

			r.Route("/leaves", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionLeaveCreate)).Post("/", h.Leave.CreateRequest)
				r.Get("/my", h.Leave.GetMyRequests)
				r.With(middleware.RequirePermission(user.PermissionLeaveViewAll)).Get("/", h.Leave.ListRequests)
				r.Get("/{id}", h.Leave.GetRequest)
				r.Post("/{id}/cancel", h.Leave.CancelRequest)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionLeaveReview))
					r.Post("/{id}/approve", h.Leave.ApproveRequest)
					r.Post("/{id}/reject", h.Leave.RejectRequest)
				})
			})

			r.Route("/resignations", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionResignationCreate)).Post("/", h.Resignation.Submit)
				r.Get("/my", h.Resignation.ListMine)
				r.Get("/{id}", h.Resignation.Get)
				r.Post("/{id}/withdraw", h.Resignation.Withdraw)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionResignationReview))
					r.Get("/", h.Resignation.List)
					r.Post("/{id}/accept", h.Resignation.Accept)
					r.Post("/{id}/reject", h.Resignation.Reject)
				})
			})

			r.Route("/salaries", func(r chi.Router) {
				r.Get("/", h.Salary.List)
				r.Get("/{id}", h.Salary.Get)
				r.Get("/{id}/slip", h.Salary.Slip)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionSalaryManage))
					r.Post("/", h.Salary.Create)
					r.Put("/{id}", h.Salary.Update)
					r.Post("/calculate", h.Salary.Calculate)
					r.Post("/{id}/recalculate", h.Salary.Recalculate)
					r.Post("/{id}/pay", h.Salary.MarkPaid)
					r.Post("/{id}/hold", h.Salary.Hold)
					r.Post("/{id}/release", h.Salary.Release)
				})
			})

			r.Route("/documents", func(r chi.Router) {
				r.Get("/", h.Document.List)
				r.Get("/{id}", h.Document.Get)
				r.Get("/{id}/download", h.Document.Download)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionDocumentManage))
					r.Post("/generate", h.Document.Generate)
					r.Route("/templates", func(r chi.Router) {
						r.Get("/", h.Document.ListTemplates)
						r.Post("/", h.Document.CreateTemplate)
						r.Get("/{id}", h.Document.GetTemplate)
						r.Put("/{id}", h.Document.UpdateTemplate)
						r.Delete("/{id}", h.Document.DeleteTemplate)
					})
				})
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", h.Notification.List)
				r.Get("/unread-count", h.Notification.UnreadCount)
				r.Post("/read", h.Notification.MarkAsRead)
				r.Post("/read-all", h.Notification.MarkAllAsRead)
				r.Post("/stream-token", h.Notification.GetStreamToken)
				r.Delete("/{id}", h.Notification.Delete)
			})

			r.Route("/reports", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionReportsView))
				r.Get("/attendance/today", h.Report.Today)
				r.Get("/attendance/monthly.xlsx", h.Report.MonthlyAttendance)
				r.Get("/salaries/monthly.xlsx", h.Report.MonthlySalaries)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	})
	return r
}
