package app

import (
	"database/sql"
	"path/filepath"

	"go-payroll/internal/additionalsalary"
	"go-payroll/internal/component"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/period"
	"go-payroll/internal/salaryslip"
	"go-payroll/internal/statutory"
	"go-payroll/internal/structure"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	componentRepo := component.NewRepository(gormDB)
	structureRepo := structure.NewRepository(gormDB)
	statutoryRepo := statutory.NewRepository(gormDB)
	periodRepo := period.NewRepository(gormDB)
	additionalSalaryRepo := additionalsalary.NewRepository(gormDB)
	slipRepo := salaryslip.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- Services ---
	componentService := component.NewService(db, componentRepo)
	structureService := structure.NewService(db, structureRepo)
	statutoryService := statutory.NewService(db, statutoryRepo)
	// Slip repo merangkap sumber totals untuk agregasi summary periode.
	periodService := period.NewService(db, periodRepo, slipRepo)
	additionalSalaryService := additionalsalary.NewService(db, additionalSalaryRepo)
	slipService := salaryslip.NewServiceWithOutbox(
		db, slipRepo,
		periodService, structureService, statutoryService, additionalSalaryService,
		outboxRepo,
	)

	// --- Handlers ---
	componentHandler := component.NewHandler(componentService)
	structureHandler := structure.NewHandler(structureService)
	statutoryHandler := statutory.NewHandler(statutoryService)
	periodHandler := period.NewHandler(periodService)
	additionalSalaryHandler := additionalsalary.NewHandler(additionalSalaryService)
	slipHandler := salaryslip.NewHandlerWithRedis(slipService, rdb)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		component.RegisterRoutes(api, componentHandler)
		structure.RegisterRoutes(api, structureHandler)
		statutory.RegisterRoutes(api, statutoryHandler)
		period.RegisterRoutes(api, periodHandler)
		additionalsalary.RegisterRoutes(api, additionalSalaryHandler)
		salaryslip.RegisterRoutes(api, slipHandler, rdb)
	}

	router.Static("/files/payslips", filepath.Join("storage", "payslips"))

	return nil
}
