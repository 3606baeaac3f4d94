package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/paycore-labs/payroll-backend-go/internal/config"
	"github.com/paycore-labs/payroll-backend-go/internal/handler/http/middleware"
	"github.com/paycore-labs/payroll-backend-go/internal/pkg/jwt"
)

func NewRouter(cfg *config.Config, jwtService jwt.Service, payrollHandler PayrollHandler) *chi.Mux {
	r := chi.NewRouter()

	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       logLevel(cfg.App.LogLevel),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "payroll-backend"),
		slog.String("env", cfg.App.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.App.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/healthz"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/payroll", func(r chi.Router) {
				r.Route("/cycles", func(r chi.Router) {
					r.Post("/", payrollHandler.CreateCycle)
					r.Get("/", payrollHandler.ListCycles)

					r.Route("/{id}", func(r chi.Router) {
						r.Get("/", payrollHandler.GetCycle)
						r.Post("/process", payrollHandler.ProcessCycle)
						r.Patch("/status", payrollHandler.UpdateCycleStatus)
						r.Get("/payslips", payrollHandler.ListPayslips)
					})
				})

				r.Route("/payslips/{id}", func(r chi.Router) {
					r.Post("/pay", payrollHandler.PayPayslip)
					r.Get("/pdf", payrollHandler.DownloadPayslipPDF)
				})
			})
		})
	})

	return r
}

func logLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
