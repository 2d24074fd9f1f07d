package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/config"
	appHTTP "github.com/cmlabs-hris/payroll-ph-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/repository/postgresql"
	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/repository/sqlite"
	payrollService "github.com/cmlabs-hris/payroll-ph-backend-go/internal/service/payroll"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})).With(
		slog.String("app", cfg.App.Name),
		slog.String("env", cfg.App.Env),
	))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tx, repos, closeDB, err := openBackend(ctx, cfg)
	if err != nil {
		log.Fatal("Error connecting to database: ", err)
	}
	defer closeDB()

	payrollSvc := payrollService.NewPayrollService(tx, repos, payrollService.Config{
		Location:     cfg.Location(),
		LookbackDays: cfg.Payroll.LookbackDays,
		CutoverDate:  cfg.Payroll.CutoverDate,
	})

	scheduler := cron.NewScheduler()
	cron.NewPayrollJobs(payrollSvc, cfg.Payroll.RetryInterval, cfg.Payroll.RetryBatchSize).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc)

	router := appHTTP.NewRouter(JWTService, payrollHandler, appHTTP.RouterOptions{
		AppName:        cfg.App.Name,
		Version:        cfg.App.Version,
		Env:            cfg.App.Env,
		LogLevel:       cfg.SlogLevel(),
		AllowedOrigins: cfg.App.AllowedOrigins,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server running", "addr", server.Addr, "driver", cfg.Database.Driver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}
}

// openBackend connects the configured driver and builds its repositories.
func openBackend(ctx context.Context, cfg *config.Config) (database.Transactor, payrollService.Repositories, func(), error) {
	switch cfg.Database.Driver {
	case config.DriverSQLite:
		sqlDB, err := database.NewSQLiteDB(cfg.Database.SQLitePath)
		if err != nil {
			return nil, payrollService.Repositories{}, nil, err
		}
		store, err := sqlite.New(sqlDB)
		if err != nil {
			sqlDB.Close()
			return nil, payrollService.Repositories{}, nil, err
		}

		repos := payrollService.Repositories{
			Payroll:    sqlite.NewPayrollRepository(store),
			SideEffect: sqlite.NewSideEffectRepository(store),
			Employee:   sqlite.NewEmployeeRepository(store),
			ClockEntry: sqlite.NewClockEntryRepository(store),
			Holiday:    sqlite.NewHolidayRepository(store),
			Overtime:   sqlite.NewOvertimeRepository(store),
			Schedule:   sqlite.NewScheduleRepository(store),
			Leave:      sqlite.NewLeaveRepository(store),
			Loan:       sqlite.NewLoanRepository(store),
		}
		return store, repos, func() { store.Close() }, nil

	default:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
			MaxConns: cfg.Database.MaxConns,
			MinConns: cfg.Database.MinConns,
		})
		if err != nil {
			return nil, payrollService.Repositories{}, nil, err
		}
		if cfg.Database.AutoMigrate {
			if err := postgresql.Migrate(ctx, db); err != nil {
				db.Close()
				return nil, payrollService.Repositories{}, nil, err
			}
		}

		repos := payrollService.Repositories{
			Payroll:    postgresql.NewPayrollRepository(db),
			SideEffect: postgresql.NewSideEffectRepository(db),
			Employee:   postgresql.NewEmployeeRepository(db),
			ClockEntry: postgresql.NewClockEntryRepository(db),
			Holiday:    postgresql.NewHolidayRepository(db),
			Overtime:   postgresql.NewOvertimeRepository(db),
			Schedule:   postgresql.NewScheduleRepository(db),
			Leave:      postgresql.NewLeaveRequestRepository(db),
			Loan:       postgresql.NewLoanRepository(db),
		}
		return postgresql.NewTransactor(db), repos, db.Close, nil
	}
}
