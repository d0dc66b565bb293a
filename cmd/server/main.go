package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/mundobien2025/pulbot-impulsame-backend/internal/server"
	"github.com/mundobien2025/pulbot-impulsame-backend/internal/server/config"
)

func main() {

	// Optional in production; local development keeps settings in .env.
	_ = godotenv.Load()

	ctx := context.Background()
	cfg := config.LoadConfig()

	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)

}
