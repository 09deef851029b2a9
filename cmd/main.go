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

	cancelBookingHandler "github.com/appointa/booking-service/internal/api/handlers/cancel_booking"
	cancelCustomerBookingHandler "github.com/appointa/booking-service/internal/api/handlers/cancel_customer_booking"
	confirmModificationHandler "github.com/appointa/booking-service/internal/api/handlers/confirm_modification"
	createBlockedTimeHandler "github.com/appointa/booking-service/internal/api/handlers/create_blocked_time"
	createBookingHandler "github.com/appointa/booking-service/internal/api/handlers/create_booking"
	deleteBlockedTimeHandler "github.com/appointa/booking-service/internal/api/handlers/delete_blocked_time"
	getAvailabilityRulesHandler "github.com/appointa/booking-service/internal/api/handlers/get_availability_rules"
	getAvailableSlotsHandler "github.com/appointa/booking-service/internal/api/handlers/get_available_slots"
	getBlockedTimesHandler "github.com/appointa/booking-service/internal/api/handlers/get_blocked_times"
	getBusinessHoursHandler "github.com/appointa/booking-service/internal/api/handlers/get_business_hours"
	getBookingHandler "github.com/appointa/booking-service/internal/api/handlers/get_booking"
	getBusinessBookingsHandler "github.com/appointa/booking-service/internal/api/handlers/get_business_bookings"
	getCustomerBookingHandler "github.com/appointa/booking-service/internal/api/handlers/get_customer_booking"
	modifyCustomerBookingHandler "github.com/appointa/booking-service/internal/api/handlers/modify_customer_booking"
	requestModificationHandler "github.com/appointa/booking-service/internal/api/handlers/request_modification"
	updateAvailabilityRulesHandler "github.com/appointa/booking-service/internal/api/handlers/update_availability_rules"
	updateBookingStatusHandler "github.com/appointa/booking-service/internal/api/handlers/update_booking_status"
	"github.com/appointa/booking-service/internal/api/middleware"
	"github.com/appointa/booking-service/internal/config"
	bookingRepo "github.com/appointa/booking-service/internal/infra/storage/booking"
	scheduleRepo "github.com/appointa/booking-service/internal/infra/storage/schedule"
	servicesRepo "github.com/appointa/booking-service/internal/infra/storage/services"
	tenantServiceClient "github.com/appointa/booking-service/internal/integrations/tenantservice"
	"github.com/appointa/booking-service/internal/notifier"
	bookingsService "github.com/appointa/booking-service/internal/service/bookings"
	scheduleService "github.com/appointa/booking-service/internal/service/schedule"
	confirmModificationUC "github.com/appointa/booking-service/internal/usecase/confirm_modification"
	createBookingUC "github.com/appointa/booking-service/internal/usecase/create_booking"
	customerModifyUC "github.com/appointa/booking-service/internal/usecase/customer_modify"
	getAvailableSlotsUC "github.com/appointa/booking-service/internal/usecase/get_available_slots"
	"github.com/appointa/booking-service/pkg/dbmetrics"
	"github.com/appointa/booking-service/pkg/logger"
	"github.com/appointa/booking-service/pkg/metrics"
	"github.com/appointa/booking-service/pkg/simpletxmanager"
	"github.com/appointa/booking-service/pkg/txmanager"
)

// tokenCleanupInterval период фоновой очистки протухших токенов переноса
const tokenCleanupInterval = time.Hour

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

	log.Info("Starting booking-service...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
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

	// Клиент справочника бизнесов
	tenantClient := tenantServiceClient.NewClient(
		cfg.TenantService.URL,
		time.Duration(cfg.TenantService.Timeout)*time.Second,
		log,
	)
	log.Info("TenantService client initialized (url=%s, timeout=%ds)",
		cfg.TenantService.URL, cfg.TenantService.Timeout)

	// Очередь почтовых уведомлений
	mailEnqueuer := notifier.NewEnqueuer(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, log)
	defer mailEnqueuer.Close()
	log.Info("Mail queue client initialized (redis=%s)", cfg.Redis.Addr)

	// Инициализируем репозитории (с метриками или без)
	var (
		bookingRepository  *bookingRepo.Repository
		scheduleRepository *scheduleRepo.Repository
		servicesRepository *servicesRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases)
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		scheduleRepository = scheduleRepo.NewRepository(wrappedDB)
		servicesRepository = servicesRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		scheduleRepository = scheduleRepo.NewRepository(db)
		servicesRepository = servicesRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		tenantClient,
		mailEnqueuer,
		log,
	)
	scheduleSvc := scheduleService.NewService(
		scheduleRepository,
		tenantClient,
		log,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		scheduleRepository,
		servicesRepository,
		tenantClient,
		mailEnqueuer,
		txMgr,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		bookingRepository,
		scheduleRepository,
		servicesRepository,
		log,
	)
	confirmModificationUseCase := confirmModificationUC.NewUseCase(
		bookingRepository,
		scheduleRepository,
		txMgr,
		log,
	)
	customerModifyUseCase := customerModifyUC.NewUseCase(
		bookingRepository,
		scheduleRepository,
		txMgr,
		log,
	)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getBusinessHours := getBusinessHoursHandler.NewHandler(scheduleSvc, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	confirmModification := confirmModificationHandler.NewHandler(confirmModificationUseCase, log)
	getCustomerBooking := getCustomerBookingHandler.NewHandler(bookingSvc, log)
	modifyCustomerBooking := modifyCustomerBookingHandler.NewHandler(customerModifyUseCase, log)
	cancelCustomerBooking := cancelCustomerBookingHandler.NewHandler(bookingSvc, log)
	getBusinessBookings := getBusinessBookingsHandler.NewHandler(bookingSvc, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	requestModification := requestModificationHandler.NewHandler(bookingSvc, log)
	getAvailabilityRules := getAvailabilityRulesHandler.NewHandler(scheduleSvc, log)
	updateAvailabilityRules := updateAvailabilityRulesHandler.NewHandler(scheduleSvc, log)
	getBlockedTimes := getBlockedTimesHandler.NewHandler(scheduleSvc, log)
	createBlockedTime := createBlockedTimeHandler.NewHandler(scheduleSvc, log)
	deleteBlockedTime := deleteBlockedTimeHandler.NewHandler(scheduleSvc, log)

	// Фоновая очистка протухших токенов переноса: бронирования в
	// modification_pending с истекшим токеном возвращаются в confirmed
	cleanupCtx, stopCleanup := context.WithCancel(context.Background())
	go func() {
		ticker := time.NewTicker(tokenCleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-cleanupCtx.Done():
				return
			case <-ticker.C:
				reverted, err := bookingRepository.ClearExpiredModificationTokens(cleanupCtx, time.Now())
				if err != nil {
					log.Error("Expired token cleanup failed: %v", err)
					continue
				}
				if reverted > 0 {
					log.Info("Expired token cleanup: reverted %d bookings to confirmed", reverted)
				}
			}
		}
	}()

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (страница записи и ссылки из писем)
	// ============================================================

	// Доступные слоты на день
	api.HandleFunc("/businesses/{businessId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// Публичное расписание работы бизнеса
	api.HandleFunc("/businesses/{businessId}/availability-rules",
		getBusinessHours.Handle).Methods(http.MethodGet)

	// Создание бронирования клиентом
	api.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Подтверждение предложенного бизнесом переноса (токен из письма)
	api.HandleFunc("/confirm-modification/{token}",
		confirmModification.Handle).Methods(http.MethodPost)

	// Self-service клиента по постоянному токену
	api.HandleFunc("/my-booking/{token}", getCustomerBooking.Handle).Methods(http.MethodGet)
	api.HandleFunc("/my-booking/{token}", modifyCustomerBooking.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/my-booking/{token}/cancel", cancelCustomerBooking.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют X-Business-ID header)
	// ============================================================

	protected := api.PathPrefix("/manage").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	protected.HandleFunc("/bookings", getBusinessBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/request-modification", requestModification.Handle).Methods(http.MethodPost)

	// --- Расписание и блокировки ---
	protected.HandleFunc("/availability-rules", getAvailabilityRules.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/availability-rules", updateAvailabilityRules.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/blocked-times", getBlockedTimes.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/blocked-times", createBlockedTime.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/blocked-times/{blockId}", deleteBlockedTime.Handle).Methods(http.MethodDelete)

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

	stopCleanup()

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
