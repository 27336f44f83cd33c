package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Hitpatel02/HPFP-sub000/internal/chat"
	"github.com/Hitpatel02/HPFP-sub000/internal/config"
	"github.com/Hitpatel02/HPFP-sub000/internal/database"
	"github.com/Hitpatel02/HPFP-sub000/internal/handlers"
	"github.com/Hitpatel02/HPFP-sub000/internal/logger"
	"github.com/Hitpatel02/HPFP-sub000/internal/reminder"
	"github.com/Hitpatel02/HPFP-sub000/internal/services"
	"github.com/Hitpatel02/HPFP-sub000/internal/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	zlog := logger.New(cfg.LogLevel, cfg.LogFormat)
	defer zlog.Sync()
	handlers.SetLogger(zlog)

	if err := database.InitDB(zlog); err != nil {
		zlog.Fatal("failed to initialize database", zap.Error(err))
	}
	db := database.GetDB()

	settingsStore := store.NewSettingsStore(db)
	ledgerStore := store.NewLedgerStore(db)
	eventStore := store.NewEventStore(db)

	emailService := services.NewEmailService(cfg.SendGridAPIKey, cfg.FromEmail, cfg.FromName)
	chatClient := chat.NewClient(cfg.ChatGatewayURL, cfg.ChatGatewayToken, zlog)
	chatClient.Connect()

	engine := reminder.NewEngine(settingsStore, ledgerStore, eventStore, zlog)
	engine.SetDelayRange(cfg.SendDelayMin, cfg.SendDelayMax)
	engine.Register(reminder.NewEmailDispatcher(emailService))
	engine.Register(reminder.NewChatDispatcher(chatClient, cfg.ChatReadyTimeout))
	engine.SetReportChannel(chatClient, cfg.ChatReportTarget, ledgerStore)

	sched := reminder.NewScheduler(engine, settingsStore, ledgerStore, zlog)
	if err := sched.Start(); err != nil {
		zlog.Fatal("failed to start scheduler", zap.Error(err))
	}

	api := handlers.NewAPI(sched, chatClient)

	router := gin.Default()
	router.SetTrustedProxies([]string{"127.0.0.1"})
	router.Use(cors.Default())

	router.GET("/", handlers.HomeHandler)
	router.GET("/health", handlers.HealthHandler)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.POST("/clients", handlers.CreateClient)
	router.GET("/clients", handlers.GetClients)
	router.GET("/clients/:client_id", handlers.GetClient)
	router.PUT("/clients/:client_id", handlers.UpdateClient)
	router.DELETE("/clients/:client_id", handlers.DeleteClient)

	router.GET("/records", handlers.GetRecords)
	router.PATCH("/records/:record_id/received", handlers.UpdateReceived)
	router.POST("/records/rollover", handlers.RolloverRecords)
	router.POST("/records/dedupe", handlers.DedupeRecords)

	router.GET("/settings", api.GetSettings)
	router.PUT("/settings", api.UpdateSettings)
	router.POST("/settings/reset-reminders", api.ResetReminders)

	router.POST("/reminders/run", api.RunNow)
	router.GET("/reminders/status", api.GetStatus)
	router.POST("/reminders/reload", api.Reload)
	router.GET("/reminders/events", api.GetEvents)
	router.POST("/chat/stop", api.StopChat)
	router.POST("/chat/connect", api.ConnectChat)

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: router}
	go func() {
		zlog.Info("server starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down")
	sched.Shutdown()
	chatClient.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zlog.Error("server shutdown failed", zap.Error(err))
	}
}
