package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chat-ziro/internal/auth"
	"chat-ziro/internal/config"
	"chat-ziro/internal/database"
	"chat-ziro/internal/handlers"
	"chat-ziro/internal/mail"
	"chat-ziro/internal/notify"
	"chat-ziro/internal/realtime"
	"chat-ziro/internal/services"
	"chat-ziro/internal/storage"
	"chat-ziro/pkg/logger"
)

const uploadsPublicPath = "/uploads"

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.NewPostgresDB(cfg.Database.URL)
	if err != nil {
		logger.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.InitSchema(context.Background()); err != nil {
		logger.Fatal("Failed to initialize schema: %v", err)
	}

	// External collaborators
	notifier := notify.NewTelegramNotifier(cfg.Telegram.BotToken)
	store, err := storage.NewDiskStore(cfg.Storage.UploadDir, uploadsPublicPath)
	if err != nil {
		logger.Fatal("Failed to initialize upload storage: %v", err)
	}
	var mailer mail.Mailer
	if cfg.Mail.ResendAPIKey != "" {
		mailer = mail.NewResendMailer(cfg.Mail.ResendAPIKey, cfg.Mail.From)
	} else {
		logger.Info("RESEND_API_KEY not set, password reset mail disabled")
	}

	// Broadcast engine and services
	manager := realtime.NewManager()
	authService := auth.NewService(db, cfg, mailer)
	sessionService := services.NewSessionService(db)
	userService := services.NewUserService(db)
	roomService := services.NewRoomService(db, manager)
	messageService := services.NewMessageService(db, manager, notifier, cfg.BaseURL)

	// Handlers
	authHandlers := handlers.NewAuthHandlers(authService)
	accountHandlers := handlers.NewAccountHandlers(authService, store, cfg.Storage.MaxUploadBytes)
	sessionHandlers := handlers.NewSessionHandlers(sessionService, userService, roomService)
	userHandlers := handlers.NewUserHandlers(userService, store, cfg.Storage.MaxUploadBytes)
	roomHandlers := handlers.NewRoomHandlers(roomService, messageService)
	messageHandlers := handlers.NewMessageHandlers(messageService)
	wsHandlers := handlers.NewWebSocketHandlers(manager, messageService)

	// Setup routes
	mux := http.NewServeMux()

	mux.HandleFunc("/api/auth/register", authHandlers.Register)
	mux.HandleFunc("/api/auth/login", authHandlers.Login)
	mux.HandleFunc("/api/auth/forgot-password", authHandlers.ForgotPassword)
	mux.HandleFunc("/api/auth/reset-password", authHandlers.ResetPassword)

	mux.Handle("/api/accounts/", accountHandlers)
	mux.HandleFunc("/api/sessions", sessionHandlers.Create)
	mux.Handle("/api/sessions/", sessionHandlers)
	mux.Handle("/api/users/", userHandlers)
	mux.Handle("/api/rooms/", roomHandlers)
	mux.Handle("/api/messages/", messageHandlers)

	mux.HandleFunc("/ws", wsHandlers.HandleWebSocket)

	mux.Handle(uploadsPublicPath+"/", http.StripPrefix(uploadsPublicPath+"/",
		http.FileServer(http.Dir(cfg.Storage.UploadDir))))

	// Create server
	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      corsMiddleware(mux),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	logger.Info("🚀 Server started on http://localhost%s", cfg.Server.Port)
	logger.Info("📡 WebSocket endpoint: ws://localhost%s/ws", cfg.Server.Port)

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Shutdown error: %v", err)
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
