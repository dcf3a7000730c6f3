package main

import (
	"log"
	"net/http"

	"github.com/joho/godotenv"

	"pharmapos/m/internal/api"
	"pharmapos/m/internal/config"
	"pharmapos/m/internal/database"
	"pharmapos/m/internal/migrations"
	"pharmapos/m/internal/notify"
	"pharmapos/m/internal/sale"
	"pharmapos/m/internal/seed"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	db := database.Connect(cfg.DatabaseDSN)
	defer db.Close()

	migrations.Run(db)
	seed.LoadBatches(db, "assets/batches.csv")

	engine := sale.NewService(db)
	dispatcher := notify.NewDispatcher(db, notify.LogSender)
	handler := api.New(db, cfg.Secret, engine, dispatcher)

	log.Printf("PharmaPOS server starting on :%s", cfg.HTTPPort)
	if err := http.ListenAndServe(":"+cfg.HTTPPort, handler.Router()); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
