// Command token mints a bearer token for a user id.
package main

import (
	"flag"
	"fmt"
	"log"

	"studysync/backend/internal/config"
	"studysync/backend/internal/service"
)

func main() {
	userID := flag.Int64("user", 0, "user id to issue the token for (defaults to DEFAULT_USER_ID)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if *userID <= 0 {
		*userID = cfg.DefaultUserID
	}

	token, apiErr := service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL()).Issue(*userID)
	if apiErr != nil {
		log.Fatalf("issue token: %v", apiErr)
	}
	fmt.Println(token)
}
