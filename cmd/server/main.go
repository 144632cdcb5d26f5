package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/skeinhq/skein/internal/server"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using defaults")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := server.NewServer()
	defer srv.Log.Sync()

	r := srv.SetupRouter()

	srv.Log.Info("starting server", "port", port)
	if err := r.Run(":" + port); err != nil {
		srv.Log.Fatal("server exited", "error", err)
	}
}
