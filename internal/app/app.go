package app

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/oathline/oathline/internal/config"
	"github.com/oathline/oathline/internal/db"
	"github.com/oathline/oathline/internal/repository"
	"github.com/oathline/oathline/internal/service"
)

type App struct {
	Cfg              *config.Config
	DB               *sqlx.DB
	AuthService      *service.AuthService
	IntegrityService *service.IntegrityService
	GoalService      *service.GoalService
	MilestoneService *service.MilestoneService
	CalendarService  *service.CalendarService
}

func New(cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	// Repositories
	userRepository := repository.NewUserRepository(database)
	goalRepository := repository.NewGoalRepository(database)
	milestoneRepository := repository.NewMilestoneRepository(database)
	integrityRepository := repository.NewIntegrityRepository(database)
	calendarRepository := repository.NewCalendarRepository(database)

	// Goal and milestone mutations for the same user share one lock set
	userLocks := service.NewUserLocks()

	// Services
	authService := service.NewAuthService(
		userRepository,
		cfg.JWTSecret,
		cfg.IsProduction(),
		cfg.JWTExpiry,
	)
	integrityService := service.NewIntegrityService(userRepository, integrityRepository)
	milestoneService := service.NewMilestoneService(milestoneRepository, goalRepository, integrityService, userLocks)
	goalService := service.NewGoalService(goalRepository, milestoneRepository, userRepository, integrityService, userLocks)
	calendarService := service.NewCalendarService(calendarRepository, cfg.StreakLookbackDays)

	return &App{
		Cfg:              cfg,
		DB:               database,
		AuthService:      authService,
		IntegrityService: integrityService,
		GoalService:      goalService,
		MilestoneService: milestoneService,
		CalendarService:  calendarService,
	}, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
