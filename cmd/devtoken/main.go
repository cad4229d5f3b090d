// Command devtoken mints an access token for a learner using the configured
// JWT secret. It is meant for local development against the review API.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/Ymit24/language-reader-app-sub000/internal/config"
	"github.com/Ymit24/language-reader-app-sub000/internal/service/auth"
	"github.com/google/uuid"
)

func main() {
	learner := flag.String("learner", "", "Learner UUID (random when empty)")
	flag.Parse()

	learnerID := uuid.New()
	if *learner != "" {
		parsed, err := uuid.Parse(*learner)
		if err != nil {
			log.Fatalf("invalid learner id: %v", err)
		}
		learnerID = parsed
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		log.Fatalf("failed to initialize JWT service: %v", err)
	}

	token, err := jwtService.GenerateToken(context.Background(), learnerID)
	if err != nil {
		log.Fatalf("failed to generate token: %v", err)
	}

	fmt.Printf("learner: %s\ntoken:   %s\n", learnerID, token)
}
