package main

import (
	"net/http"
	"os"

	"github.com/CrestwoodRealty/api-brokerage/internal/agent"
	"github.com/CrestwoodRealty/api-brokerage/internal/auth"
	"github.com/CrestwoodRealty/api-brokerage/internal/note"
	"github.com/CrestwoodRealty/api-brokerage/internal/notification"
	"github.com/CrestwoodRealty/api-brokerage/internal/revenueshare"
	"github.com/CrestwoodRealty/api-brokerage/internal/transaction"
	"github.com/CrestwoodRealty/api-brokerage/internal/utils/db"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	if err := godotenv.Load(); err != nil {
		log.Info("no .env file, using environment")
	}

	database, err := db.GetDB()
	if err != nil {
		log.WithError(err).Fatal("could not connect to database")
	}

	if err := database.AutoMigrate(
		&agent.Agent{},
		&transaction.Transaction{},
		&revenueshare.RevenueShare{},
		&note.Note{},
		&notification.Webhook{},
	); err != nil {
		log.WithError(err).Fatal("auto migrate failed")
	}

	// Shared collaborators
	shareRepo := revenueshare.NewRepository(database)
	agentRepo := agent.NewRepository()
	engine := revenueshare.NewEngine(shareRepo, agentRepo, log)
	notifier := notification.NewNotifier(database, log)

	// Handlers
	agentHandler := agent.NewHandler(database, shareRepo, log)
	transactionHandler := transaction.NewHandler(database, engine, shareRepo, notifier, log)
	shareHandler := revenueshare.NewHandler(shareRepo)
	noteHandler := note.NewHandler(database)
	webhookHandler := notification.NewHandler(database)

	// Router
	r := mux.NewRouter()
	r.HandleFunc("/login", agentHandler.Login).Methods("POST")

	api := r.NewRoute().Subrouter()
	api.Use(auth.Middleware)

	// Agent routes
	api.HandleFunc("/agents", agentHandler.List).Methods("GET")
	api.HandleFunc("/agents/{id}", agentHandler.Get).Methods("GET")
	api.HandleFunc("/agents/{id}", agentHandler.Update).Methods("PUT")
	api.HandleFunc("/agents/{id}/downline", agentHandler.Downline).Methods("GET")
	api.HandleFunc("/agents/{id}/summary", agentHandler.Summary).Methods("GET")
	api.HandleFunc("/agents/{id}/transactions", transactionHandler.ListByAgent).Methods("GET")
	api.HandleFunc("/agents/{id}/revenue-shares", shareHandler.ListByRecipient).Methods("GET")

	// Transaction routes
	api.HandleFunc("/transactions", transactionHandler.Create).Methods("POST")
	api.HandleFunc("/transactions", transactionHandler.List).Methods("GET")
	api.HandleFunc("/transactions/{id}", transactionHandler.Get).Methods("GET")
	api.HandleFunc("/transactions/{id}", transactionHandler.Update).Methods("PUT")
	api.HandleFunc("/transactions/{id}", transactionHandler.Delete).Methods("DELETE")
	api.HandleFunc("/transactions/{id}/revenue-shares", shareHandler.ListByTransaction).Methods("GET")

	// Note routes
	api.HandleFunc("/transactions/{id}/notes", noteHandler.Create).Methods("POST")
	api.HandleFunc("/transactions/{id}/notes", noteHandler.ListByTransaction).Methods("GET")
	api.HandleFunc("/notes/{id}", noteHandler.Update).Methods("PUT")
	api.HandleFunc("/notes/{id}", noteHandler.Delete).Methods("DELETE")

	// Admin-only routes
	admin := r.NewRoute().Subrouter()
	admin.Use(auth.Middleware, auth.RequireAdmin)
	admin.HandleFunc("/agents", agentHandler.Create).Methods("POST")
	admin.HandleFunc("/agents/{id}", agentHandler.Delete).Methods("DELETE")
	admin.HandleFunc("/webhooks", webhookHandler.Create).Methods("POST")
	admin.HandleFunc("/webhooks", webhookHandler.List).Methods("GET")
	admin.HandleFunc("/webhooks/{id}", webhookHandler.Update).Methods("PUT")
	admin.HandleFunc("/webhooks/{id}", webhookHandler.Delete).Methods("DELETE")

	handler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}).Handler(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.WithField("port", port).Info("server listening")
	log.Fatal(http.ListenAndServe(":"+port, handler))
}
