package main

import (
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/leadline/prospect-sync/internal/infra/database"
	"github.com/leadline/prospect-sync/internal/infra/http/handlers"
	"github.com/leadline/prospect-sync/internal/infra/http/middleware"
	"github.com/leadline/prospect-sync/internal/infra/integration/instantly"
	"github.com/leadline/prospect-sync/internal/infra/mail"
	"github.com/leadline/prospect-sync/internal/infra/queue"
	"github.com/leadline/prospect-sync/internal/usecase"
)

func main() {
	godotenv.Load()

	db, err := database.NewDBConnection(os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	rabbitMQ, err := queue.NewRabbitMQ(
		os.Getenv("RABBITMQ_USER"), os.Getenv("RABBITMQ_PASS"),
		os.Getenv("RABBITMQ_HOST"), os.Getenv("RABBITMQ_PORT"),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer rabbitMQ.Conn.Close()
	defer rabbitMQ.Ch.Close()

	// 1. Repositories
	campaignRepo := database.NewCampaignRepository(db)
	prospectRepo := database.NewProspectRepository(db)
	membershipRepo := database.NewMembershipRepository(db)

	// 2. Platform client and queue producer
	platform := instantly.NewClient(os.Getenv("INSTANTLY_API_KEY"), os.Getenv("INSTANTLY_URL"))
	producer := queue.NewProducer(rabbitMQ.Conn, rabbitMQ.Ch)

	// 3. UseCases
	syncUC := usecase.NewSyncCampaignsUseCase(campaignRepo, membershipRepo, platform)
	addUC := usecase.NewAddProspectsUseCase(campaignRepo, prospectRepo, membershipRepo, platform, producer)
	removeUC := usecase.NewRemoveProspectsUseCase(campaignRepo, membershipRepo, platform, producer)

	// 4. Worker (consumes sync requests queued by add/remove and schedulers)
	worker := queue.NewWorker(rabbitMQ.Ch, &syncRunner{Sync: syncUC}, reportSender())
	go worker.Start(queue.QueueName)

	// 5. Handlers
	syncHandler := handlers.NewSyncHandler(syncUC)
	prospectHandler := handlers.NewProspectHandler(addUC, removeUC)
	healthHandler := handlers.NewHealthHandler(db, rabbitMQ.Conn)

	// 6. Router
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:5173", "*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
	}))

	r.Post("/campaigns/sync", syncHandler.Handle)
	r.Post("/campaigns/{campaignID}/prospects", prospectHandler.HandleAdd)
	r.Delete("/campaigns/{campaignID}/prospects", prospectHandler.HandleRemove)
	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("🔥 prospect-sync listening on :%s", port)
	http.ListenAndServe(":"+port, r)
}

// reportSender is nil (disabled) unless SMTP is configured.
func reportSender() queue.ReportSenderInterface {
	host := os.Getenv("MAIL_HOST")
	to := os.Getenv("MAIL_REPORT_TO")
	if host == "" || to == "" {
		return nil
	}

	port, err := strconv.Atoi(os.Getenv("MAIL_PORT"))
	if err != nil {
		port = 587
	}
	return mail.NewReportSender(
		host, port,
		os.Getenv("MAIL_USER"), os.Getenv("MAIL_PASS"),
		os.Getenv("MAIL_FROM"), to,
	)
}
