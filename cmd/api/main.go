package main

import (
	"fmt"
	"net/http"

	"github.com/timecardhq/timecard-backend-go/internal/config"
	appHTTP "github.com/timecardhq/timecard-backend-go/internal/handler/http"
	"github.com/timecardhq/timecard-backend-go/internal/pkg/clock"
	"github.com/timecardhq/timecard-backend-go/internal/pkg/database"
	"github.com/timecardhq/timecard-backend-go/internal/pkg/jwt"
	"github.com/timecardhq/timecard-backend-go/internal/repository/postgresql"
	attendanceService "github.com/timecardhq/timecard-backend-go/internal/service/attendance"
	serviceAuth "github.com/timecardhq/timecard-backend-go/internal/service/auth"
	correctionService "github.com/timecardhq/timecard-backend-go/internal/service/correction"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	userRepo := postgresql.NewUserRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	breakRepo := postgresql.NewBreakRepository(db)
	correctionRepo := postgresql.NewCorrectionRepository(db)
	txManager := postgresql.NewTxManager(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	clk := clock.System()

	authService := serviceAuth.NewAuthService(userRepo, jwtService)
	accessGate := serviceAuth.NewAccessGate(userRepo)
	attendanceSvc := attendanceService.NewAttendanceService(txManager, attendanceRepo, breakRepo, clk)
	correctionSvc := correctionService.NewCorrectionService(txManager, correctionRepo, attendanceRepo, breakRepo, clk)

	authHandler := appHTTP.NewAuthHandler(authService, jwtService)
	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc, accessGate)
	correctionHandler := appHTTP.NewCorrectionHandler(correctionSvc, accessGate)

	router := appHTTP.NewRouter(
		jwtService,
		authHandler,
		attendanceHandler,
		correctionHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
