// cmd/main.go is the application entry point.
// It wires together all layers and starts the HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Shivanand-hulikatti/care-connect/internal/auth"
	"github.com/Shivanand-hulikatti/care-connect/internal/config"
	"github.com/Shivanand-hulikatti/care-connect/internal/handler"
	"github.com/Shivanand-hulikatti/care-connect/internal/kafka"
	"github.com/Shivanand-hulikatti/care-connect/internal/lib/logger/sl"
	"github.com/Shivanand-hulikatti/care-connect/internal/metrics"
	"github.com/Shivanand-hulikatti/care-connect/internal/notify"
	"github.com/Shivanand-hulikatti/care-connect/internal/payment"
	"github.com/Shivanand-hulikatti/care-connect/internal/service"
)

func main() {
	cfg := config.MustLoad()
	log := setupLogger(cfg.Env)
	log.Info("starting care connect", slog.String("env", cfg.Env), slog.String("store", cfg.StoreDriver))

	ctx := context.Background()

	// ── 1. Open the document store ───────────────────────────────────────
	st, err := openStores(ctx, log, cfg)
	if err != nil {
		log.Error("failed to open store", sl.Err(err))
		os.Exit(1)
	}

	// ── 2. Notification senders ─────────────────────────────────────────
	m := metrics.New()
	mailer := notify.NewMailSender(cfg.Mail)
	senders := []notify.Sender{mailer}
	var producer *kafka.Producer
	if len(cfg.Kafka.Brokers) > 0 {
		producer = kafka.NewProducer(cfg.Kafka)
		senders = append(senders, notify.NewBrokerSender(producer))
		log.Info("publishing notices to kafka", slog.String("topic", cfg.Kafka.Topic))
	}
	dispatcher := notify.NewDispatcher(log, cfg.Mail.Timeout, m, senders...)

	// ── 3. Wire up layers ────────────────────────────────────────────────
	router := handler.NewRouter(handler.Deps{
		Log:             log,
		Tokens:          auth.NewManager(cfg.TokenSecret),
		Metrics:         m,
		Users:           service.NewUserService(log, st.users),
		Places:          service.NewPlaceService(log, st.places),
		Bookings:        service.NewBookingService(log, st.bookings, dispatcher, cfg.MeetingLink),
		Payments:        service.NewPaymentService(log, payment.NewStripeGateway(cfg.PaymentSecretKey)),
		StrictMutations: cfg.StrictMutations,
	})

	// ── 4. Start server with graceful shutdown ────────────────────────────
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", sl.Err(err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sign := <-quit
	log.Info("shutting down server", slog.String("signal", sign.String()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", sl.Err(err))
	}

	drainCtx, cancelDrain := context.WithTimeout(context.Background(), cfg.Mail.Timeout)
	defer cancelDrain()
	if err := dispatcher.Wait(drainCtx); err != nil {
		log.Warn("notices still in flight at shutdown", sl.Err(err))
	}
	if err := mailer.Wait(drainCtx); err != nil {
		log.Warn("smtp sessions still open at shutdown", sl.Err(err))
	}

	if producer != nil {
		if err := producer.Close(); err != nil {
			log.Error("failed to close kafka producer", sl.Err(err))
		}
	}
	if err := st.close(context.Background()); err != nil {
		log.Error("failed to close store", sl.Err(err))
	}
	log.Info("server stopped")
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case config.EnvDev:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case config.EnvProd:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		log = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	return log
}
