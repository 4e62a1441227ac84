package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	abandonSessionHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/abandon_session"
	acceptReservationHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/accept_reservation"
	cancelReservationHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/cancel_reservation"
	checkInHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/check_in"
	checkOutHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/check_out"
	confirmSessionHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/confirm_session"
	createReviewHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/create_review"
	getAvailabilityHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_availability"
	getReservationHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_reservation"
	listReviewsHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/list_reviews"
	rejectReservationHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/reject_reservation"
	requestMatchHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/request_match"
	selectManagerHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/select_manager"
	sessionNavigationHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/session_navigation"
	updateAvailabilityHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/update_availability"
	updateRefundStatusHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/update_refund_status"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-ReservationService/internal/booking"
	"github.com/m04kA/SMC-ReservationService/internal/config"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/infra/migrator"
	availabilityRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/availability"
	reservationRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/reservation"
	reviewRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/review"
	fileServiceClient "github.com/m04kA/SMC-ReservationService/internal/integrations/fileservice"
	matchingServiceClient "github.com/m04kA/SMC-ReservationService/internal/integrations/matchingservice"
	paymentServiceClient "github.com/m04kA/SMC-ReservationService/internal/integrations/paymentservice"
	availabilityService "github.com/m04kA/SMC-ReservationService/internal/service/availability"
	executionService "github.com/m04kA/SMC-ReservationService/internal/service/execution"
	reservationsService "github.com/m04kA/SMC-ReservationService/internal/service/reservations"
	reviewsService "github.com/m04kA/SMC-ReservationService/internal/service/reviews"
	requestMatchUC "github.com/m04kA/SMC-ReservationService/internal/usecase/request_match"
	"github.com/m04kA/SMC-ReservationService/migrations"
	"github.com/m04kA/SMC-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
	"github.com/m04kA/SMC-ReservationService/pkg/metrics"
	"github.com/m04kA/SMC-ReservationService/pkg/txmanager"
)

// database источник запросов и транзакций (с метриками или без)
type database interface {
	dbmetrics.DBExecutor
	txmanager.TxBeginner
}

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-ReservationService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var (
		metricsCollector *metrics.Metrics
		recorder         metrics.Recorder = metrics.Nop{}
	)
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		recorder = metricsCollector
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Применяем миграции
	if cfg.Database.AutoMigrate {
		m, err := migrator.New(db, migrations.FS, log)
		if err != nil {
			log.Fatal("Failed to initialize migrator: %v", err)
		}
		if err := m.Run(context.Background()); err != nil {
			log.Fatal("Failed to apply migrations: %v", err)
		}
	}

	var store database
	if cfg.Metrics.Enabled {
		store = dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		store = dbmetrics.PlainDB{DB: db}
	}

	// Инициализируем интеграционных клиентов
	matchingClient := matchingServiceClient.NewClient(
		cfg.MatchingService.URL,
		cfg.MatchingService.TimeoutDuration(),
		log,
	)
	paymentClient := paymentServiceClient.NewClient(
		cfg.PaymentService.URL,
		cfg.PaymentService.TimeoutDuration(),
		log,
	)
	fileClient := fileServiceClient.NewClient(
		cfg.FileService.URL,
		cfg.FileService.TimeoutDuration(),
		log,
	)
	log.Info("Integration clients initialized (MatchingService=%s, PaymentService=%s, FileService=%s)",
		cfg.MatchingService.URL, cfg.PaymentService.URL, cfg.FileService.URL)

	// Инициализируем репозитории
	reservationRepository := reservationRepo.NewRepository(store)
	reviewRepository := reviewRepo.NewRepository(store)
	availabilityRepository := availabilityRepo.NewRepository(store)
	txMgr := txmanager.NewTransactionManager(store)

	// Инициализируем сервисы
	reservationSvc := reservationsService.NewService(
		reservationRepository,
		matchingClient,
		paymentClient,
		txMgr,
		recorder,
		log,
	)

	// Сессии подбора живут в памяти процесса, брошенные подбирает sweeper
	sessions := booking.NewRegistry(
		reservationSvc,
		reservationSvc,
		recorder,
		log,
		cfg.Booking.SessionTTL.Duration,
	)
	sweeper := booking.NewSweeper(
		sessions,
		reservationRepository,
		reservationSvc,
		recorder,
		log,
		cfg.Booking.SweepInterval.Duration,
		cfg.Booking.SweepBatch,
	)

	executionSvc := executionService.NewService(
		reservationRepository,
		fileClient,
		matchingClient,
		sessions,
		txMgr,
		recorder,
		log,
	)
	reviewSvc := reviewsService.NewService(reviewRepository, reservationRepository, log)
	availabilitySvc := availabilityService.NewService(availabilityRepository, txMgr, log)

	// Инициализируем use cases
	requestMatchUseCase := requestMatchUC.NewUseCase(
		reservationRepository,
		matchingClient,
		sessions,
		txMgr,
		recorder,
		cfg.Booking.SessionTTL.Duration,
		log,
	)

	// Инициализируем handlers
	requestMatch := requestMatchHandler.NewHandler(requestMatchUseCase, log)
	selectManager := selectManagerHandler.NewHandler(sessions, log)
	confirmSession := confirmSessionHandler.NewHandler(sessions, log)
	abandonSession := abandonSessionHandler.NewHandler(sessions, log)
	sessionNavigation := sessionNavigationHandler.NewHandler(
		sessions,
		cfg.Booking.FlowRoutes,
		cfg.Booking.UnloadTimeout.Duration,
		log,
	)
	getReservation := getReservationHandler.NewHandler(reservationSvc, log)
	cancelReservation := cancelReservationHandler.NewHandler(reservationSvc, log)
	updateRefundStatus := updateRefundStatusHandler.NewHandler(reservationSvc, log)
	acceptReservation := acceptReservationHandler.NewHandler(executionSvc, log)
	rejectReservation := rejectReservationHandler.NewHandler(executionSvc, log)
	checkIn := checkInHandler.NewHandler(executionSvc, log)
	checkOut := checkOutHandler.NewHandler(executionSvc, log)
	createReview := createReviewHandler.NewHandler(reviewSvc, log)
	listReviews := listReviewsHandler.NewHandler(reviewSvc, log)
	getAvailability := getAvailabilityHandler.NewHandler(availabilitySvc, log)
	updateAvailability := updateAvailabilityHandler.NewHandler(availabilitySvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		log.Info("HTTP metrics middleware enabled")

		// Metrics endpoint (публичный, без аутентификации)
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix, все маршруты требуют JWT
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.NewAuthenticator(cfg.Auth.JWTSecret, log).Middleware)

	customer := middleware.RequireRole(domain.RoleCustomer)
	manager := middleware.RequireRole(domain.RoleManager)
	admin := middleware.RequireRole(domain.RoleAdmin)
	party := middleware.RequireRole(domain.RoleCustomer, domain.RoleManager)

	// ============================================================
	// CUSTOMER: подбор и сессия бронирования
	// ============================================================

	api.Handle("/reservations/match", customer(http.HandlerFunc(requestMatch.Handle))).Methods(http.MethodPost)
	api.Handle("/booking-sessions/{reservationId}/select",
		customer(http.HandlerFunc(selectManager.Handle))).Methods(http.MethodPost)
	api.Handle("/booking-sessions/{reservationId}/confirm",
		customer(http.HandlerFunc(confirmSession.Handle))).Methods(http.MethodPost)
	api.Handle("/booking-sessions/{reservationId}/abandon",
		customer(http.HandlerFunc(abandonSession.Handle))).Methods(http.MethodPost)
	api.Handle("/booking-sessions/{reservationId}/navigation",
		customer(http.HandlerFunc(sessionNavigation.Handle))).Methods(http.MethodPost)
	api.Handle("/reservations/{reservationId}/cancel",
		customer(http.HandlerFunc(cancelReservation.Handle))).Methods(http.MethodPatch)

	// ============================================================
	// MANAGER: принятие и выполнение работ
	// ============================================================

	api.Handle("/reservations/{reservationId}/accept",
		manager(http.HandlerFunc(acceptReservation.Handle))).Methods(http.MethodPatch)
	api.Handle("/reservations/{reservationId}/reject",
		manager(http.HandlerFunc(rejectReservation.Handle))).Methods(http.MethodPatch)
	api.Handle("/reservations/{reservationId}/check-in",
		manager(http.HandlerFunc(checkIn.Handle))).Methods(http.MethodPost)
	api.Handle("/reservations/{reservationId}/check-out",
		manager(http.HandlerFunc(checkOut.Handle))).Methods(http.MethodPost)
	api.Handle("/managers/{managerId}/availability",
		manager(http.HandlerFunc(updateAvailability.Handle))).Methods(http.MethodPut)

	// ============================================================
	// ОБЩИЕ: чтение и отзывы (доступ проверяет сервис)
	// ============================================================

	api.HandleFunc("/reservations/{reservationId}", getReservation.Handle).Methods(http.MethodGet)
	api.HandleFunc("/reservations/{reservationId}/reviews", listReviews.Handle).Methods(http.MethodGet)
	api.Handle("/reservations/{reservationId}/reviews",
		party(http.HandlerFunc(createReview.Handle))).Methods(http.MethodPost)
	api.HandleFunc("/managers/{managerId}/availability", getAvailability.Handle).Methods(http.MethodGet)

	// ============================================================
	// ADMIN
	// ============================================================

	api.Handle("/reservations/{reservationId}/refund-status",
		admin(http.HandlerFunc(updateRefundStatus.Handle))).Methods(http.MethodPatch)

	// Фоновая очистка брошенных сессий
	sweeperCtx, stopSweeper := context.WithCancel(context.Background())
	sweeper.Start(sweeperCtx)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Открытые сессии не отменяются: после рестарта их бронирования подберет sweeper
	sweeper.Stop()
	stopSweeper()
	log.Info("Booking sweeper stopped, open sessions left=%d", sessions.Len())

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	log.Info("Server stopped gracefully")
}
