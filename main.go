package main

import (
	"log"
	"os"
)

func main() {
	cfg := LoadConfig()

	db, err := InitDB(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to init database: %v", err)
	}
	defer db.Close()

	store := NewLocalStore(cfg.StoreRoot)

	StartRetentionSweep(cfg)

	if cfg.SlackConfigured() {
		log.Println("Starting HR Document Bot (Slack mode)...")
		if err := RunSlackBot(cfg, func(ch OperatorChannel) *Session {
			return NewSession(cfg, db, store, ch)
		}); err != nil {
			log.Fatalf("Slack bot error: %v", err)
		}
		return
	}

	channel := NewConsoleChannel(os.Stdin, os.Stdout)
	session := NewSession(cfg, db, store, channel)
	RunInteractive(session, channel)
}
