package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	clerk "github.com/clerk/clerk-sdk-go/v2"
	gorilllaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"deenTrackAPI/handlers"
	"deenTrackAPI/internal/notification"
	"deenTrackAPI/middleware"
	"deenTrackAPI/services"
	"deenTrackAPI/utils"

	_ "net/http/pprof"
)

var (
	dbPool              *pgxpool.Pool
	userService         *services.UserService
	prayerService       *services.PrayerService
	timingsService      *services.TimingsService
	adhkarService       *services.AdhkarService
	quranService        *services.QuranService
	hadithService       *services.HadithService
	achievementService  *services.AchievementService
	notificationService *services.NotificationService
	assistantService    *services.AssistantService
	fcmService          *notification.FCMService
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	clerkSecretKey := os.Getenv("CLERK_SECRET_KEY")
	if clerkSecretKey == "" {
		log.Fatal("CLERK_SECRET_KEY environment variable is not set")
	}
	clerk.SetKey(clerkSecretKey)
	log.Println("Clerk initialized successfully")

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		log.Fatal("Failed to parse database URL:", err)
	}

	poolConfig.MaxConns = 25
	poolConfig.MinConns = 5
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	dbPool, err = pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		log.Fatal("Failed to create connection pool:", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	log.Println("Successfully connected to database")

	fcmService, err = notification.NewFCMService("./serviceAccountKey.json")
	if err != nil {
		log.Printf("Warning: Could not initialize FCM: %v", err)
		notificationService = services.NewNotificationService(dbPool, nil)
	} else {
		notificationService = services.NewNotificationService(dbPool, fcmService)
		log.Println("FCM Push Provider initialized successfully")
	}

	userService = services.NewUserService(dbPool)
	prayerService = services.NewPrayerService(dbPool)
	timingsService = services.NewTimingsService()
	adhkarService = services.NewAdhkarService(dbPool)
	quranService = services.NewQuranService(dbPool)
	hadithService = services.NewHadithService(dbPool)
	achievementService = services.NewAchievementService(dbPool, notificationService)
	assistantService = services.NewAssistantService()

	middleware.InitPrometheus()
}

func main() {
	defer func() {
		log.Println("Closing database connection pool...")
		dbPool.Close()
	}()

	userHandler := handlers.NewUserHandler(userService)
	prayerHandler := handlers.NewPrayerHandler(prayerService, timingsService)
	adhkarHandler := handlers.NewAdhkarHandler(adhkarService)
	quranHandler := handlers.NewQuranHandler(quranService)
	hadithHandler := handlers.NewHadithHandler(hadithService)
	achievementHandler := handlers.NewAchievementHandler(achievementService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	webhookHandler := handlers.NewWebhookHandler(userService)
	assistantHandler := handlers.NewAssistantHandler(assistantService)

	r := mux.NewRouter()

	standardRouter := r.PathPrefix("/").Subrouter()

	go middleware.CleanupVisitors()
	go runReminderLoop()

	standardRouter.Use(middleware.RateLimitMiddleware)
	standardRouter.Use(middleware.MonitorMiddleware)

	standardRouter.Handle("/metrics", middleware.BasicAuthMiddleware(promhttp.Handler()))
	standardRouter.PathPrefix("/debug/pprof/").Handler(middleware.PprofSecurityMiddleware(http.DefaultServeMux))

	standardRouter.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := dbPool.Ping(ctx); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status": "unhealthy", "error": "database connection failed"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy", "service": "deenTrack-api"}`))
	}).Methods("GET")

	standardRouter.HandleFunc("/webhooks/clerk", webhookHandler.HandleClerkWebhook).Methods("POST")

	// -------------------------------------------------------------------------
	// API V1 SUBROUTER
	// -------------------------------------------------------------------------
	api := standardRouter.PathPrefix("/api/v1").Subrouter()

	// Public routes: no account needed to see prayer times or daily content.
	api.HandleFunc("/prayers/timings", prayerHandler.GetTimings).Methods("GET")
	api.HandleFunc("/adhkar", adhkarHandler.ListAdhkar).Methods("GET")
	api.HandleFunc("/adhkar/daily", adhkarHandler.GetDailyDhikr).Methods("GET")
	api.HandleFunc("/hadith/daily", hadithHandler.GetDailyHadith).Methods("GET")
	api.HandleFunc("/hadith", hadithHandler.ListHadiths).Methods("GET")

	// Optional-auth routes: anonymous callers get empty results, signed-in
	// callers get their own data.
	optional := api.PathPrefix("").Subrouter()
	optional.Use(middleware.OptionalAuthMiddleware)

	optional.HandleFunc("/prayers/logs", prayerHandler.GetLogs).Methods("GET")
	optional.HandleFunc("/prayers/streaks", prayerHandler.GetStreaks).Methods("GET")
	optional.HandleFunc("/adhkar/progress", adhkarHandler.GetProgress).Methods("GET")

	// -------------------------------------------------------------------------
	// PROTECTED ROUTES (REQUIRE AUTH HEADER)
	// -------------------------------------------------------------------------
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.ClerkAuthMiddleware)

	protected.HandleFunc("/user", userHandler.GetProfile).Methods("GET")
	protected.HandleFunc("/user/update-profile", userHandler.UpdateProfile).Methods("PUT")
	protected.HandleFunc("/user/delete-account", userHandler.DeleteAccount).Methods("DELETE")
	protected.HandleFunc("/user/stats", prayerHandler.GetStats).Methods("GET")
	protected.HandleFunc("/user/stats/days", prayerHandler.GetDaysStat).Methods("GET")
	protected.HandleFunc("/user/calendar", prayerHandler.GetCalendar).Methods("GET")
	protected.HandleFunc("/user/achievements", achievementHandler.GetAchievements).Methods("GET")
	protected.HandleFunc("/user/achievements/check", achievementHandler.CheckAchievements).Methods("POST")

	protected.HandleFunc("/prayers/logs", prayerHandler.UpsertLog).Methods("POST")
	protected.HandleFunc("/prayers/logs", prayerHandler.DeleteLog).Methods("DELETE")
	protected.HandleFunc("/prayers/sunnah", prayerHandler.UpsertSunnahLog).Methods("POST")
	protected.HandleFunc("/prayers/sunnah", prayerHandler.GetSunnahLogs).Methods("GET")

	protected.HandleFunc("/adhkar/progress", adhkarHandler.IncrementProgress).Methods("POST")

	protected.HandleFunc("/quran/logs", quranHandler.UpsertReadingLog).Methods("POST")
	protected.HandleFunc("/quran/logs", quranHandler.GetReadingLogs).Methods("GET")
	protected.HandleFunc("/quran/bookmarks", quranHandler.UpsertBookmark).Methods("POST")
	protected.HandleFunc("/quran/bookmarks", quranHandler.GetBookmarks).Methods("GET")
	protected.HandleFunc("/quran/bookmarks/{id}", quranHandler.DeleteBookmark).Methods("DELETE")

	protected.HandleFunc("/hadith/{id}/favorite", hadithHandler.ToggleFavorite).Methods("POST")
	protected.HandleFunc("/hadith/favorites", hadithHandler.GetFavorites).Methods("GET")

	protected.HandleFunc("/reflections", userHandler.UpsertReflection).Methods("POST")
	protected.HandleFunc("/reflections", userHandler.GetReflections).Methods("GET")

	protected.HandleFunc("/notifications", notificationHandler.GetNotifications).Methods("GET")
	protected.HandleFunc("/notifications/unread-count", notificationHandler.GetUnreadCount).Methods("GET")
	protected.HandleFunc("/notifications/{id}/read", notificationHandler.MarkAsRead).Methods("PUT")
	protected.HandleFunc("/notifications/read-all", notificationHandler.MarkAllAsRead).Methods("PUT")
	protected.HandleFunc("/notifications/register-device", notificationHandler.RegisterDevice).Methods("POST")

	protected.HandleFunc("/assistant/ask", assistantHandler.Ask).Methods("POST")

	// CORS configuration
	corsHandler := gorilllaHandlers.CORS(
		gorilllaHandlers.AllowedOrigins([]string{"*"}),
		gorilllaHandlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		gorilllaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-Pprof-Secret"}),
		gorilllaHandlers.ExposedHeaders([]string{"Content-Length"}),
		gorilllaHandlers.AllowCredentials(),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3333"
	}
	port = ":" + port

	server := http.Server{
		Addr:         port,
		Handler:      corsHandler(r),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 40 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Error starting server:", err)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)

	sig := <-sigChan
	log.Println("Got signal:", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server shutdown complete")
}

// runReminderLoop checks every 30 minutes whether anyone's streak is about to
// break and nudges them. The hour gate inside the trigger keeps this quiet
// during the day.
func runReminderLoop() {
	ticker := time.NewTicker(30 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		utils.SendStreakRiskReminders(dbPool, notificationService, time.Now())
	}
}
