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

	"github.com/animechat/anime-chatbot-backend/internal/api"
	"github.com/animechat/anime-chatbot-backend/internal/config"
	"github.com/animechat/anime-chatbot-backend/internal/core"
	"github.com/animechat/anime-chatbot-backend/internal/store"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Setup logging
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if cfg.LogLevel == "DEBUG" {
		log.Println("Service starting in DEBUG mode")
	}

	// Initialize the history store. A dead database is logged but not fatal:
	// the server keeps running and history operations report the store as
	// unavailable instead of crashing the process.
	dbStore, err := store.NewSQLiteStore(cfg.DatabaseURL)
	if err != nil {
		log.Printf("History store initialization failed, continuing without it: %v", err)
	} else {
		log.Println("Connected to history database")
	}
	defer dbStore.Close()

	// Initialize the chat model
	var chatModel core.ChatModel
	switch cfg.LLMProvider {
	case "openai":
		chatModel = core.NewOpenAIService(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.LLMModel)
	default:
		chatModel, err = core.NewGeminiService(context.Background(), cfg.GeminiAPIKey, cfg.LLMModel)
		if err != nil {
			log.Fatalf("Failed to initialize Gemini client: %v", err)
		}
	}
	defer chatModel.Close()

	// Initialize services
	chatService := core.NewChatService(dbStore, chatModel)
	ttsService := core.NewTTSService(core.NewHTTPSpeechModel(core.TTSConfig{
		APIKey:  cfg.TTSAPIKey,
		BaseURL: cfg.TTSAPIURL,
	}))

	// Initialize API Handler and Router
	apiHandler := api.NewAPIHandler(chatService, ttsService)
	router := api.NewRouter(apiHandler)

	// Start HTTP server
	serverAddr := fmt.Sprintf(":%s", cfg.HTTPPort)

	srv := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,  // Adjusted for potentially slower LLM handshakes
		WriteTimeout: 120 * time.Second, // LLM and TTS calls can take time
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown handling
	go func() {
		log.Printf("Starting server on %s. Press Ctrl+C to quit.", serverAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", serverAddr, err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Give active connections time to finish.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	// chatModel.Close() and dbStore.Close() will be called by their defers.
	log.Println("Server exiting gracefully")
}
