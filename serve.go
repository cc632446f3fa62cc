package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"bikereg/config"
	"bikereg/cron"
	"bikereg/database"
	bikeRepo "bikereg/database/repository/bike"
	registrationRepo "bikereg/database/repository/registration"
	"bikereg/handlers"
	"bikereg/middleware"
	"bikereg/routes"
	"bikereg/services/api"
	"bikereg/services/notification"
	"bikereg/services/registration"
	"bikereg/services/serial"
	"bikereg/services/wizard"
	"bikereg/utils"
	"bikereg/views"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the registration API and wizard pages",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
}

func serve(parent context.Context) error {
	cfg := config.AppConfig
	logger := utils.GetLogger()
	defer func() { _ = logger.Sync() }()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// repositories.
	bikes, regs, err := openRepositories(cfg)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = database.CloseDB(closeCtx)
	}()

	// sessions.
	sessions, err := openSessionStore(ctx, cfg, logger)
	if err != nil {
		return err
	}

	// services.
	verifier := serial.NewVerifier(bikes, logger)
	serviceOpts := []registration.Option{
		registration.WithFailurePolicy(registration.NewSimulatedFailures(cfg.FailureRate, cfg.FailureSeed, cfg.ForceFailSubstring)),
		registration.WithDelay(cfg.SubmitDelay()),
		registration.WithStore(regs),
	}
	if cfg.ConfirmationEmails {
		queueClient := asynq.NewClient(cron.QueueRedisOpt(cfg))
		defer queueClient.Close()
		serviceOpts = append(serviceOpts, registration.WithNotifier(notification.NewQueue(queueClient, logger)))

		worker := cron.InitConfirmationWorker(ctx, cfg, notification.LogSender{Logger: logger}, logger)
		defer worker.Shutdown()
	}
	registrationService := registration.NewService(logger, serviceOpts...)

	var (
		wizardVerifier  wizard.SerialVerifier        = wizard.LocalVerifier{Verifier: verifier}
		wizardSubmitter wizard.RegistrationSubmitter = wizard.LocalSubmitter{Service: registrationService}
	)
	if cfg.BackendURL != "" {
		client := api.NewClient(cfg.BackendURL, nil)
		wizardVerifier, wizardSubmitter = client, client
		logger.Info("wizard uses remote backend", zap.String("url", cfg.BackendURL))
	}

	manager := wizard.NewManager(sessions)
	controller := wizard.NewController(wizardVerifier, wizardSubmitter, logger,
		wizard.WithCheckpoint(manager.Checkpoint))

	utils.StartHealthMonitor(ctx, utils.GetSessionCacheClient(), database.MongoClient)

	serialHandler := handlers.NewSerialHandler(verifier)
	registrationHandler := handlers.NewRegistrationHandler(registrationService, regs)
	wizardHandler := handlers.NewWizardHandler(manager, controller, cfg.IndicatorNavigation)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		GetSerialNumberHandler:         serialHandler.GetSerialNumberHandler,
		ListSerialRegistrationsHandler: registrationHandler.ListSerialRegistrationsHandler,
		RegisterBikeHandler:            registrationHandler.RegisterBikeHandler,
		GetRegistrationHandler:         registrationHandler.GetRegistrationHandler,
		GetWizardStateHandler:          wizardHandler.GetWizardStateHandler,
		DeleteWizardHandler:            wizardHandler.DeleteWizardHandler,
		HealthHandler:                  handlers.HealthHandler,

		ShowWizardHandler:   wizardHandler.ShowWizardHandler,
		VerifySerialHandler: wizardHandler.VerifySerialHandler,
		DetailsHandler:      wizardHandler.DetailsHandler,
		PersonalHandler:     wizardHandler.PersonalHandler,
		JumpToStepHandler:   wizardHandler.JumpToStepHandler,
		ResetWizardHandler:  wizardHandler.ResetWizardHandler,
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin))
	router.SetHTMLTemplate(views.Templates())

	session := middleware.SessionMiddleware(
		utils.NewSessionTokens(cfg.SessionSecret, cfg.SessionTTL()),
		int(cfg.SessionTTL().Seconds()),
		config.IsProduction())
	routes.RegisterRoutes(router, handlerBundle, session)

	srv := &http.Server{
		Addr:    "0.0.0.0:" + cfg.AppPort,
		Handler: router,
	}

	errCh := make(chan error, 1)
	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed to start: %w", err)
	case <-ctx.Done():
	}
	logger.Info("server is shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.Info("server stopped gracefully")
	return nil
}

func openRepositories(cfg config.Config) (bikeRepo.BikeRepository, registrationRepo.RegistrationRepository, error) {
	if cfg.Storage != "mongo" {
		return bikeRepo.NewMemoryBikeRepo(bikeRepo.DefaultCatalog()...), registrationRepo.NewMemoryRegistrationRepo(), nil
	}
	if err := database.InitDB(cfg.DatabaseURL); err != nil {
		return nil, nil, err
	}
	db := database.MongoClient.Database(cfg.DatabaseName)
	bikes, err := bikeRepo.NewMongoBikeRepo(db)
	if err != nil {
		return nil, nil, err
	}
	regs, err := registrationRepo.NewMongoRegistrationRepo(db)
	if err != nil {
		return nil, nil, err
	}
	return bikes, regs, nil
}

func openSessionStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (wizard.SessionStore, error) {
	if cfg.SessionStore == "redis" {
		if err := utils.InitSessionCache(); err != nil {
			return nil, err
		}
		return wizard.NewRedisSessionStore(utils.GetSessionCacheClient(), cfg.SessionTTL()), nil
	}

	store := wizard.NewMemorySessionStore(cfg.SessionTTL())
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := store.Sweep(); n > 0 {
					logger.Debug("expired wizard sessions removed", zap.Int("count", n))
				}
			}
		}
	}()
	return store, nil
}
