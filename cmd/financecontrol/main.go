package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/sebuszqo/FinanceControl/internal/api"
	"github.com/sebuszqo/FinanceControl/internal/auth"
	"github.com/sebuszqo/FinanceControl/internal/config"
	"github.com/sebuszqo/FinanceControl/internal/database"
	"github.com/sebuszqo/FinanceControl/internal/finance/application"
	"github.com/sebuszqo/FinanceControl/internal/finance/domain"
	"github.com/sebuszqo/FinanceControl/internal/finance/infrastructure"
	"github.com/sebuszqo/FinanceControl/internal/finance/interfaces"
	"github.com/sebuszqo/FinanceControl/internal/logger"
	"github.com/sebuszqo/FinanceControl/internal/user"
)

type repositories struct {
	users    user.Repository
	expenses domain.Repository
	incomes  domain.Repository
	db       *database.DBService
}

func openRepositories(ctx context.Context, cfg *config.Config) (*repositories, error) {
	if cfg.DBDriver == config.DriverMemory {
		log.Warn().Msg("using in-memory storage, data is lost on restart")
		return &repositories{
			users:    user.NewMemoryRepository(),
			expenses: infrastructure.NewMemoryTransactionRepository(),
			incomes:  infrastructure.NewMemoryTransactionRepository(),
		}, nil
	}

	if err := database.Migrate(cfg.DBDriver, cfg.DBConnectionString); err != nil {
		return nil, err
	}
	db, err := database.Open(ctx, cfg.DBDriver, cfg.DBConnectionString)
	if err != nil {
		return nil, err
	}
	return &repositories{
		users:    user.NewUserRepository(db),
		expenses: infrastructure.NewTransactionRepository(db, domain.KindExpense),
		incomes:  infrastructure.NewTransactionRepository(db, domain.KindIncome),
		db:       db,
	}, nil
}

func startSessionCleanup(schedule string, sessions *auth.SessionManager) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		if removed := sessions.PurgeExpired(); removed > 0 {
			log.Info().Int("removed", removed).Msg("expired sessions purged")
		}
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogPretty)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("missing or invalid configuration, update it to start the server")
	}

	repos, err := openRepositories(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("could not initialize database")
	}

	encoder := user.NewBcryptEncoder(cfg.BcryptCost)
	sessions := auth.NewSessionManager(cfg.SessionDuration)
	userService := user.NewUserService(repos.users, encoder, sessions)

	tokens := auth.NewRememberMeTokens(cfg.RememberMeKey, cfg.RememberMeExpiration)
	rememberMe := auth.NewTokenRememberMeServices(tokens, repos.users, cfg.CookieSecure)
	authService := auth.NewAuthService(repos.users, userService, encoder, sessions, rememberMe, cfg.CookieSecure)

	expenseService := application.NewTransactionService(domain.KindExpense, repos.expenses)
	incomeService := application.NewTransactionService(domain.KindIncome, repos.incomes)

	server := &api.Server{
		AuthHandler:    auth.NewHandler(authService, api.RespondJSON, api.RespondError),
		AuthMiddleware: auth.NewMiddleware(sessions, rememberMe, cfg.CookieSecure),
		UserHandler:    user.NewHandler(userService, api.RespondJSON, api.RespondError),
		ExpenseHandler: interfaces.NewTransactionHandler(expenseService, api.RespondJSON, api.RespondError),
		IncomeHandler:  interfaces.NewTransactionHandler(incomeService, api.RespondJSON, api.RespondError),
		AllowedOrigins: cfg.CORSAllowedOrigins,
	}
	if repos.db != nil {
		server.Database = repos.db
	}

	scheduler, err := startSessionCleanup(cfg.SessionCleanupSchedule, sessions)
	if err != nil {
		log.Fatal().Err(err).Msg("session cleanup scheduler didn't start, stopping the app")
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	<-scheduler.Stop().Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	if repos.db != nil {
		if err := repos.db.Close(); err != nil {
			log.Error().Err(err).Msg("could not close database")
		}
	}

	log.Info().Msg("server exiting")
}
