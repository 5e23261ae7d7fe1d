package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"crewbase-backend/internal/database"
	"crewbase-backend/internal/handlers"
	"crewbase-backend/internal/mailer"
	customMiddleware "crewbase-backend/internal/middleware"
	"crewbase-backend/internal/onboarding"
	"crewbase-backend/internal/repository"
	"crewbase-backend/internal/slack"
	"crewbase-backend/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env (ignore error in production — env vars set directly)
	_ = godotenv.Load()

	// Required env vars
	mongoURI := getEnv("MONGODB_URI", "")
	dbName := getEnv("DB_NAME", "crewbase")
	jwtSecret := getEnv("JWT_SECRET", "")
	port := getEnv("PORT", "8080")
	appURL := getEnv("APP_URL", "http://localhost:3000")
	assetBaseURL := getEnv("ASSET_BASE_URL", "")

	if mongoURI == "" {
		log.Fatal("❌ MONGODB_URI is required")
	}
	if jwtSecret == "" {
		log.Fatal("❌ JWT_SECRET is required")
	}

	// Connect to MongoDB
	if err := database.Connect(mongoURI, dbName); err != nil {
		log.Fatalf("❌ Failed to connect to MongoDB: %v", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepo()
	tokenRepo := repository.NewLoginTokenRepo()
	orgRepo := repository.NewOrganizationRepo()
	membershipRepo := repository.NewMembershipRepo()
	profileRepo := repository.NewProfileRepo()
	invitationRepo := repository.NewInvitationRepo()
	progressRepo := repository.NewProgressRepo()

	// Ensure indexes
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	type indexed interface {
		EnsureIndexes(ctx context.Context) error
	}
	for name, repo := range map[string]indexed{
		"users":               userRepo,
		"login_tokens":        tokenRepo,
		"organizations":       orgRepo,
		"memberships":         membershipRepo,
		"profiles":            profileRepo,
		"invitations":         invitationRepo,
		"onboarding_progress": progressRepo,
	} {
		if err := repo.EnsureIndexes(ctx); err != nil {
			log.Printf("⚠️  Warning: failed to create %s indexes: %v", name, err)
		}
	}

	// Email: Resend when configured, log-only otherwise
	var m mailer.Mailer
	if apiKey := os.Getenv("RESEND_API_KEY"); apiKey != "" {
		m = mailer.NewResendMailer(apiKey, getEnv("FROM_EMAIL", "hello@crewbase.app"))
	} else {
		log.Println("⚠️  RESEND_API_KEY not set, emails will be logged instead")
		m = mailer.NewMockMailer()
	}

	// Object storage (mock) and Slack notifier (mock)
	uploader := storage.NewMockStorage(assetBaseURL)
	notifier := slack.NewMockSlack()

	// Onboarding orchestrator
	orch := onboarding.New(onboarding.Deps{
		Users:         userRepo,
		Organizations: orgRepo,
		Memberships:   membershipRepo,
		Profiles:      profileRepo,
		Invitations:   invitationRepo,
		Progress:      progressRepo,
		Uploader:      uploader,
		Mailer:        m,
		AppURL:        appURL,
	})

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(tokenRepo, userRepo, m, jwtSecret, appURL)
	onboardingHandler := handlers.NewOnboardingHandler(orch, notifier)
	userHandler := handlers.NewUserHandler(userRepo, progressRepo)

	// Setup chi router
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","service":"crewbase-backend"}`))
	})

	// Public routes (no auth required)
	r.Post("/auth/request", authHandler.RequestLogin)
	r.Get("/auth/verify", authHandler.VerifyToken)
	r.Get("/auth/redirect", authHandler.RedirectToApp)

	// Protected routes (JWT required)
	r.Group(func(r chi.Router) {
		r.Use(customMiddleware.JWTAuth(jwtSecret))

		r.Get("/user/status", userHandler.GetStatus)
		r.Get("/onboarding", onboardingHandler.GetState)
		r.Post("/onboarding/organization", onboardingHandler.SubmitOrganization)
		r.Post("/onboarding/profile", onboardingHandler.SubmitProfile)
		r.Post("/onboarding/invites", onboardingHandler.SubmitInvites)
	})

	// Start server
	log.Printf("🚀 Crewbase backend starting on port %s", port)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatalf("❌ Server failed: %v", err)
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
