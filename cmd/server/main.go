package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"loom-backend/internal/ai"
	"loom-backend/internal/config"
	"loom-backend/internal/handlers"
	"loom-backend/internal/router"
	"loom-backend/internal/services"
)

func main() {
	log.Println("🚀 Starting Loom Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	requestTimeout := time.Duration(cfg.AIRequestTimeoutSec) * time.Second

	// ──── Step 2: Initialize AI Providers ────
	gemini, err := ai.NewGeminiProvider(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel, requestTimeout)
	if err != nil {
		log.Fatalf("✗ Gemini client initialization failed: %v", err)
	}
	defer gemini.Close()
	log.Printf("✓ Gemini client initialized (%s)", cfg.GeminiModel)

	providers := []ai.Provider{gemini}
	if cfg.AIMLAPIKey != "" {
		aiml := ai.NewAIMLProvider(cfg.AIMLAPIKey, cfg.AIMLAPIURL, cfg.AIMLModel, requestTimeout)
		providers = append(providers, aiml)
		log.Printf("✓ AIML fallback configured (%s)", cfg.AIMLModel)
	} else {
		log.Println("⚠ AIML_API_KEY not set, running without a fallback provider")
	}
	responder := ai.NewResponder(providers...)

	// ──── Step 3: Initialize Services ────
	youtubeService := services.NewYouTubeService()
	fileExtractService := services.NewFileExtractService()
	ingestService := services.NewIngestService(youtubeService, fileExtractService, responder, gemini)

	// ──── Step 4: Initialize Handlers ────
	aiHandler := handlers.NewAIHandler(responder)
	ingestHandler := handlers.NewIngestHandler(ingestService)

	// ──── Step 5: Start HTTP Server ────
	r := router.New(aiHandler, ingestHandler, cfg.FrontendURL, cfg.RateLimitPerMin)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: requestTimeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ Loom Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/v1", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
