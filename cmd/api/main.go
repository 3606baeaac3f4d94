package main

import (
	"fmt"
	"net/http"

	"github.com/paycore-labs/payroll-backend-go/internal/config"
	appHTTP "github.com/paycore-labs/payroll-backend-go/internal/handler/http"
	"github.com/paycore-labs/payroll-backend-go/internal/pkg/cron"
	"github.com/paycore-labs/payroll-backend-go/internal/pkg/database"
	"github.com/paycore-labs/payroll-backend-go/internal/pkg/jwt"
	"github.com/paycore-labs/payroll-backend-go/internal/repository/postgresql"
	payrollService "github.com/paycore-labs/payroll-backend-go/internal/service/payroll"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	payrollRepo := postgresql.NewPayrollRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	var policy payrollService.ProrationPolicy
	switch cfg.Payroll.ProrationPolicy {
	case "working_days":
		policy = payrollService.WorkingDaysPolicy{}
	default:
		paidLeave := make(map[string]bool, len(cfg.Payroll.PaidLeaveTypes))
		for _, leaveType := range cfg.Payroll.PaidLeaveTypes {
			paidLeave[leaveType] = true
		}
		policy = payrollService.CalendarDaysPolicy{PaidLeaveTypes: paidLeave}
	}

	payrollSvc := payrollService.NewPayrollService(db, payrollRepo, employeeRepo, attendanceRepo, policy)
	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc)

	if cfg.Payroll.AutoDraftCycles {
		scheduler := cron.NewScheduler()
		cron.NewPayrollJobs(payrollSvc, db).RegisterJobs(scheduler)
		scheduler.Start()
		defer scheduler.Stop()
	}

	router := appHTTP.NewRouter(cfg, jwtService, payrollHandler)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
