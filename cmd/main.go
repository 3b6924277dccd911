package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jonboulle/clockwork"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelReservationHandler "github.com/m04kA/SMC-SpaceBooking/internal/api/handlers/cancel_reservation"
	checkAvailabilityHandler "github.com/m04kA/SMC-SpaceBooking/internal/api/handlers/check_availability"
	closeReservationHandler "github.com/m04kA/SMC-SpaceBooking/internal/api/handlers/close_reservation"
	createReservationHandler "github.com/m04kA/SMC-SpaceBooking/internal/api/handlers/create_reservation"
	endEarlyHandler "github.com/m04kA/SMC-SpaceBooking/internal/api/handlers/end_reservation_early"
	extendReservationHandler "github.com/m04kA/SMC-SpaceBooking/internal/api/handlers/extend_reservation"
	getCustomerReservationsHandler "github.com/m04kA/SMC-SpaceBooking/internal/api/handlers/get_customer_reservations"
	getRefundQuoteHandler "github.com/m04kA/SMC-SpaceBooking/internal/api/handlers/get_refund_quote"
	getReservationHandler "github.com/m04kA/SMC-SpaceBooking/internal/api/handlers/get_reservation"
	openTimeHandler "github.com/m04kA/SMC-SpaceBooking/internal/api/handlers/open_time"
	spaceTypesHandler "github.com/m04kA/SMC-SpaceBooking/internal/api/handlers/space_types"
	transitionHandler "github.com/m04kA/SMC-SpaceBooking/internal/api/handlers/transition_reservation"
	updateReservationHandler "github.com/m04kA/SMC-SpaceBooking/internal/api/handlers/update_reservation"
	"github.com/m04kA/SMC-SpaceBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SpaceBooking/internal/config"
	"github.com/m04kA/SMC-SpaceBooking/internal/domain"
	"github.com/m04kA/SMC-SpaceBooking/internal/integrations/notifications"
	"github.com/m04kA/SMC-SpaceBooking/internal/jobs"
	"github.com/m04kA/SMC-SpaceBooking/internal/service/availability"
	"github.com/m04kA/SMC-SpaceBooking/internal/service/refundpolicy"
	reservationsService "github.com/m04kA/SMC-SpaceBooking/internal/service/reservations"
	spacesService "github.com/m04kA/SMC-SpaceBooking/internal/service/spaces"
	cancelReservationUC "github.com/m04kA/SMC-SpaceBooking/internal/usecase/cancel_reservation"
	checkAvailabilityUC "github.com/m04kA/SMC-SpaceBooking/internal/usecase/check_availability"
	closeReservationUC "github.com/m04kA/SMC-SpaceBooking/internal/usecase/close_reservation"
	createReservationUC "github.com/m04kA/SMC-SpaceBooking/internal/usecase/create_reservation"
	endEarlyUC "github.com/m04kA/SMC-SpaceBooking/internal/usecase/end_reservation_early"
	expireHoldsUC "github.com/m04kA/SMC-SpaceBooking/internal/usecase/expire_holds"
	extendReservationUC "github.com/m04kA/SMC-SpaceBooking/internal/usecase/extend_reservation"
	openTimeUC "github.com/m04kA/SMC-SpaceBooking/internal/usecase/open_time"
	reconcileOccupancyUC "github.com/m04kA/SMC-SpaceBooking/internal/usecase/reconcile_occupancy"
	transitionUC "github.com/m04kA/SMC-SpaceBooking/internal/usecase/transition_reservation"
	updateReservationUC "github.com/m04kA/SMC-SpaceBooking/internal/usecase/update_reservation"
	"github.com/m04kA/SMC-SpaceBooking/pkg/logger"
	"github.com/m04kA/SMC-SpaceBooking/pkg/metrics"
)

// metricsRecorder общий набор методов для *metrics.Metrics и metrics.Nop
type metricsRecorder interface {
	ReservationCreated(paymentMethod string)
	ReservationTransitioned(action string)
	BookingRejected(reason string)
	RefundRequested(amount float64)
	HoldExpired()
	OccupancyCorrected()
}

type eventPublisher interface {
	Publish(ctx context.Context, event notifications.Event) error
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

	log.Info("Starting SMC-SpaceBooking...")

	clock := clockwork.NewRealClock()

	// Метрики (если включены)
	var (
		metricsCollector *metrics.Metrics
		recorder         metricsRecorder = metrics.Nop{}
	)
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		recorder = metricsCollector
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Хранилище
	store, err := openStorage(cfg, metricsCollector, clock, log)
	if err != nil {
		log.Fatal("Failed to open storage: %v", err)
	}
	defer store.Close()

	// События о бронированиях
	var publisher eventPublisher = notifications.Nop{}
	if cfg.Notifications.Enabled {
		amqpPublisher := notifications.NewPublisher(cfg.Notifications.AMQPURL, cfg.Notifications.Queue, log)
		defer amqpPublisher.Close()
		publisher = amqpPublisher
		log.Info("Reservation events are published to queue %s", cfg.Notifications.Queue)
	}

	// Сервисы предметной области
	tracker := availability.NewTracker(store.Reservations)
	tiers := make([]refundpolicy.Tier, len(cfg.RefundPolicy.Tiers))
	for i, t := range cfg.RefundPolicy.Tiers {
		tiers[i] = refundpolicy.Tier{MinHoursBefore: t.MinHoursBefore, Percentage: t.Percentage}
	}
	policy := refundpolicy.NewPolicy(tiers)

	// Use cases
	checkAvailabilityUseCase := checkAvailabilityUC.NewUseCase(store.SpaceTypes, tracker, clock, log,
		checkAvailabilityUC.Options{DayStartHour: cfg.Booking.DayStartHour, DayEndHour: cfg.Booking.DayEndHour})

	createReservationUseCase := createReservationUC.NewUseCase(
		createReservationUC.Repositories{
			Reservations: store.Reservations,
			SpaceTypes:   store.SpaceTypes,
			Spaces:       store.Spaces,
			Customers:    store.Customers,
			Ledger:       store.Ledger,
		},
		tracker, store.TxManager, publisher, recorder, clock, log,
		createReservationUC.Options{
			MaxActiveCashBookings:        cfg.Booking.MaxActiveCashBookings,
			CancellationCheckMinBookings: cfg.Booking.CancellationCheckMinBookings,
			MaxCancellationRatePercent:   cfg.Booking.MaxCancellationRatePercent,
			HoldDuration:                 cfg.Booking.HoldDuration(),
		},
	)

	cancelReservationUseCase := cancelReservationUC.NewUseCase(
		cancelReservationUC.Repositories{
			Reservations: store.Reservations,
			Spaces:       store.Spaces,
			SpaceTypes:   store.SpaceTypes,
			Refunds:      store.Refunds,
			Ledger:       store.Ledger,
		},
		policy, store.TxManager, publisher, recorder, clock, log,
	)

	extendReservationUseCase := extendReservationUC.NewUseCase(
		store.Reservations, store.SpaceTypes, store.Spaces, tracker, store.TxManager, recorder, log)
	endEarlyUseCase := endEarlyUC.NewUseCase(
		store.Reservations, store.SpaceTypes, store.Spaces, store.TxManager, publisher, recorder, clock, log)
	closeReservationUseCase := closeReservationUC.NewUseCase(
		store.Reservations, store.Spaces, store.SpaceTypes, store.TxManager, publisher, recorder, clock, log)
	transitionUseCase := transitionUC.NewUseCase(store.Reservations, store.TxManager, recorder, log)
	updateReservationUseCase := updateReservationUC.NewUseCase(
		store.Reservations, store.SpaceTypes, store.Spaces, store.Ledger, tracker, store.TxManager, recorder, log)

	openTimeUseCase := openTimeUC.NewUseCase(
		openTimeUC.Repositories{
			Reservations: store.Reservations,
			Spaces:       store.Spaces,
			SpaceTypes:   store.SpaceTypes,
			Customers:    store.Customers,
		},
		tracker, store.TxManager, publisher, recorder, clock, log,
	)

	expireHoldsUseCase := expireHoldsUC.NewUseCase(
		store.Reservations, store.Ledger, store.TxManager, publisher, recorder, clock, log)
	reconcileUseCase := reconcileOccupancyUC.NewUseCase(
		store.Reservations, store.Spaces, store.SpaceTypes, store.TxManager, recorder, log)

	reservationService := reservationsService.NewService(
		store.Reservations, store.Spaces, store.SpaceTypes, store.Refunds, store.Ledger, policy, clock, log)
	spaceService := spacesService.NewService(store.SpaceTypes, store.Spaces, store.TxManager, log)

	// Фоновые задачи: истекшие холды и сверка занятости
	var scheduler *jobs.Scheduler
	if cfg.Jobs.Enabled {
		scheduler, err = jobs.NewScheduler(expireHoldsUseCase, reconcileUseCase, jobs.Options{
			HoldSweepInterval: cfg.Jobs.HoldSweepInterval(),
			ReconcileInterval: cfg.Jobs.ReconcileInterval(),
			Clock:             clock,
		}, log)
		if err != nil {
			log.Fatal("Failed to create job scheduler: %v", err)
		}
		scheduler.Start()
		log.Info("Background jobs started (hold sweep every %s, reconcile every %s)",
			cfg.Jobs.HoldSweepInterval(), cfg.Jobs.ReconcileInterval())
	}

	// Handlers
	checkAvailability := checkAvailabilityHandler.NewHandler(checkAvailabilityUseCase, log)
	createReservation := createReservationHandler.NewHandler(createReservationUseCase, log)
	getReservation := getReservationHandler.NewHandler(reservationService, log)
	getRefundQuote := getRefundQuoteHandler.NewHandler(reservationService, log)
	getCustomerReservations := getCustomerReservationsHandler.NewHandler(reservationService, log)
	extendReservation := extendReservationHandler.NewHandler(extendReservationUseCase, log)
	endEarly := endEarlyHandler.NewHandler(endEarlyUseCase, log)
	cancelReservation := cancelReservationHandler.NewHandler(cancelReservationUseCase, log)
	updateReservation := updateReservationHandler.NewHandler(updateReservationUseCase, log)
	confirmReservation := transitionHandler.NewHandler(transitionUseCase, domain.ActionConfirm, log)
	startReservation := transitionHandler.NewHandler(transitionUseCase, domain.ActionStart, log)
	closeReservation := closeReservationHandler.NewHandler(closeReservationUseCase, log)
	openTime := openTimeHandler.NewHandler(openTimeUseCase, log)
	spaceTypes := spaceTypesHandler.NewHandler(spaceService, log)

	// Router
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES
	// ============================================================

	api.HandleFunc("/availability", checkAvailability.Handle).Methods(http.MethodGet)
	api.HandleFunc("/space-types", spaceTypes.HandleList).Methods(http.MethodGet)

	// Гости бронируют без учетной записи
	guests := api.PathPrefix("").Subrouter()
	guests.Use(middleware.OptionalAuth)
	guests.HandleFunc("/reservations", createReservation.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (X-User-ID)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	protected.HandleFunc("/reservations/{reservationId}", getReservation.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/reservations/{reservationId}/refund-quote", getRefundQuote.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/reservations/{reservationId}/extend", extendReservation.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/reservations/{reservationId}/end-early", endEarly.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/reservations/{reservationId}/cancel", cancelReservation.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/customers/{customerId}/reservations", getCustomerReservations.Handle).Methods(http.MethodGet)

	// ============================================================
	// ADMIN ROUTES (X-User-Role: admin)
	// ============================================================

	admin := api.PathPrefix("").Subrouter()
	admin.Use(middleware.Auth, middleware.RequireAdmin)

	// --- Бронирования ---
	admin.HandleFunc("/reservations/{reservationId}", updateReservation.Handle).Methods(http.MethodPatch)
	admin.HandleFunc("/reservations/{reservationId}/confirm", confirmReservation.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/reservations/{reservationId}/start", startReservation.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/reservations/{reservationId}/close", closeReservation.Handle).Methods(http.MethodPost)

	// --- Open time ---
	admin.HandleFunc("/spaces/{spaceId}/open-time", openTime.HandleStart).Methods(http.MethodPost)
	admin.HandleFunc("/reservations/{reservationId}/open-time/end", openTime.HandleEnd).Methods(http.MethodPost)

	// --- Пул пространств ---
	admin.HandleFunc("/space-types", spaceTypes.HandleCreate).Methods(http.MethodPost)
	admin.HandleFunc("/space-types/{spaceTypeId}/pricing", spaceTypes.HandleUpdatePricing).Methods(http.MethodPatch)
	admin.HandleFunc("/space-types/{spaceTypeId}/spaces", spaceTypes.HandleAddSpace).Methods(http.MethodPost)
	admin.HandleFunc("/spaces/{spaceId}", spaceTypes.HandleRemoveSpace).Methods(http.MethodDelete)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		log.Info("Starting server on %s (storage=%s)", addr, cfg.Storage.Driver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	if scheduler != nil {
		if err := scheduler.Shutdown(); err != nil {
			log.Error("Failed to stop background jobs: %v", err)
		}
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
