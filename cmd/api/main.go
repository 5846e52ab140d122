package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bobarin/voicescript/internal/api"
	"github.com/bobarin/voicescript/internal/config"
	"github.com/bobarin/voicescript/internal/payment"
	"github.com/bobarin/voicescript/internal/services"
	"github.com/bobarin/voicescript/internal/storage"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	log.Info("Starting Voicescript API...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Failed to load config")
	}

	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	} else {
		log.WithField("log_level", cfg.LogLevel).Warn("Unknown LOG_LEVEL, keeping info")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize storage
	stor, err := storage.New(cfg.OutputDir, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize output storage")
	}
	log.WithField("dir", stor.Dir()).Info("Initialized audio output directory")

	openaiSvc := services.NewOpenAIService(cfg.OpenAIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, cfg.OpenAITTSModel, log)

	// Script provider: OpenAI by default, Gemini when selected
	var scripts services.ScriptGenerator = openaiSvc
	if cfg.ScriptProvider == config.ProviderGemini {
		geminiSvc, err := services.NewGeminiService(ctx, cfg.GeminiKey, cfg.GeminiModel, "", log)
		if err != nil {
			log.WithError(err).Fatal("Failed to initialize Gemini")
		}
		scripts = geminiSvc
	}
	log.WithField("provider", cfg.ScriptProvider).Info("Script provider configured")

	// Voice provider: OpenAI by default, ElevenLabs or Cartesia when selected
	var tts services.TTSService = openaiSvc
	defaultVoice := cfg.DefaultVoice
	switch cfg.VoiceProvider {
	case config.ProviderElevenLabs:
		tts = services.NewElevenLabsService(cfg.ElevenLabsKey, "", log)
		defaultVoice = services.ElevenLabsDefaultVoice(cfg.ElevenLabsVoiceID)
	case config.ProviderCartesia:
		tts = services.NewCartesiaService(cfg.CartesiaKey, "", log)
		defaultVoice = services.CartesiaDefaultVoice(cfg.CartesiaVoiceID)
	}
	log.WithFields(logrus.Fields{
		"provider": cfg.VoiceProvider,
		"voice":    defaultVoice,
	}).Info("Voice provider configured")

	generator := services.NewGenerator(scripts, tts, services.NewVoiceTable(defaultVoice), stor, log)

	payments := payment.NewStub(payment.Credentials{
		MerchantID: cfg.PaymentMerchantID,
		SecretKey:  cfg.PaymentSecretKey,
		Endpoint:   cfg.PaymentEndpoint,
	}, cfg.DemoMode)

	if cfg.DemoMode {
		log.Info("Demo mode enabled, payment gate is open")
	}
	log.WithFields(logrus.Fields{
		"payments_enabled": cfg.PaymentsEnabled(),
		"status":           payments.Status(),
	}).Info("Payment gateway configured")

	handler := api.NewHandler(generator, payments, cfg.DemoMode, log)
	router := api.NewRouter(handler, api.RouterConfig{
		CorsAllowedOrigins: cfg.CorsAllowedOrigins,
		PublicDir:          cfg.PublicDir,
		OutputDir:          cfg.OutputDir,
	}, log)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.WithField("port", cfg.Port).Info("API server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.WithError(err).Fatal("Server error")
	}

	log.Info("Server exited")
}
