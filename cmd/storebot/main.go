package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/elphone/storebot/bot"
	corecmd "github.com/elphone/storebot/core/cmd"
)

func main() {
	// Optional .env for local runs; real deployments use the environment.
	_ = godotenv.Load()

	err := corecmd.Run(corecmd.Options{
		DefaultConfigPath: "config.yaml",
		LoadConfig: func(path string) (corecmd.ConfigCarrier, error) {
			return bot.LoadConfig(path)
		},
		Bootstrap: func(cfg corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
			return bot.NewApp(cfg.(*bot.Config))
		},
	})
	if err != nil {
		log.Fatalf("storebot: %v", err)
	}
}
