package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"studysync/backend/internal/config"
	"studysync/backend/internal/db"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: migrate [up|down|status|version|redo|reset|up-to VERSION|down-to VERSION]\n")
	}
	flag.Parse()

	command := "up"
	args := flag.Args()
	if len(args) > 0 {
		command, args = args[0], args[1:]
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	database, err := db.Open(cfg.DBDriver, cfg.DSN())
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer database.Close()

	if err := db.Migrate(context.Background(), database.DB, cfg.DBDriver, command, args...); err != nil {
		log.Fatalf("migrate %s: %v", command, err)
	}

	log.Printf("migrate %s finished", command)
}
