package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pathakanu/myNotes/internal/actions"
	"github.com/pathakanu/myNotes/internal/database"
	"github.com/pathakanu/myNotes/internal/notes"
	"github.com/pathakanu/myNotes/internal/notify"
	myopenai "github.com/pathakanu/myNotes/internal/openai"
	"github.com/pathakanu/myNotes/internal/provider"
	"github.com/pathakanu/myNotes/internal/reminders"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP endpoints and the reminder scheduler",
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := openBase()
		if err != nil {
			return err
		}
		defer b.close()
		return serve(cmd.Context(), b)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(ctx context.Context, b *base) error {
	cfg, logger := b.cfg, b.logger

	if err := b.syncAccessFlag(ctx); err != nil {
		logger.Warn().Err(err).Msg("sync provider access flag")
	}

	noteRepo := database.NewNoteRepository(b.db)
	reminderRepo := database.NewReminderRepository(b.db)
	aiClient := myopenai.New(cfg.OpenAIAPIKey)

	sinks := notify.Multi{notify.NewLogNotifier(logger)}
	if cfg.TwilioEnabled() {
		sinks = append(sinks, notify.NewWhatsApp(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioWhatsAppNumber, cfg.NotifyWhatsAppTo, logger))
		logger.Info().Str("to", cfg.NotifyWhatsAppTo).Msg("whatsapp notifications enabled")
	}

	worker := reminders.NewWorker(reminderRepo, noteRepo, b.registry.Notifications, aiClient, sinks, logger)
	scheduler := reminders.NewScheduler(cfg.LocalTimezone, worker.Run, logger)
	reminderSvc := reminders.NewService(reminderRepo, noteRepo, scheduler, b.registry.ReminderDefaults, logger)
	notesSvc := notes.NewService(noteRepo, logger, notes.WithReminderHook(reminderSvc), notes.WithSort(b.registry.Sort))

	scheduler.Start()
	queued, err := reminderSvc.Rearm(ctx)
	if err != nil {
		scheduler.Stop()
		return err
	}
	logger.Info().Int("queued", queued).Msg("reminders armed")
	if err := scheduler.Every(reminders.RearmInterval, func() {
		if _, err := reminderSvc.Rearm(context.Background()); err != nil {
			logger.Error().Err(err).Msg("periodic rearm")
		}
	}); err != nil {
		scheduler.Stop()
		return err
	}

	receiver := actions.NewReceiver(notesSvc, reminderSvc, b.registry.Notifications, logger)
	gate := provider.New(noteRepo, b.flags, cfg.ProviderCallTimeout, logger)

	mux := http.NewServeMux()
	mux.Handle("/provider/call", gate.Handler())
	mux.Handle("/notifications/action", receiver.Handler(cfg.ActionsToken))
	mux.Handle("/twilio/webhook", receiver.TwilioHandler(actions.TwilioOptions{
		AuthToken:     cfg.TwilioAuthToken,
		WebhookURL:    cfg.TwilioWebhookURL,
		AllowedSender: cfg.NotifyWhatsAppTo,
		Classifier:    aiClient,
	}))

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	waitForShutdown(server, scheduler, logger)
	return nil
}

func waitForShutdown(server *http.Server, scheduler *reminders.Scheduler, logger zerolog.Logger) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logger.Info().Msg("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("server shutdown error")
	}
	scheduler.Stop()
}
