package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/khoahotran/cloudinary-studio/internal/config"
	"github.com/khoahotran/cloudinary-studio/pkg/auth"
)

// Mints a bearer token for local testing against the API.
//
//	go run ./scripts -user user_123
func main() {
	userID := flag.String("user", "", "subject of the token")
	flag.Parse()

	if *userID == "" {
		log.Fatal("missing -user")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("cannot load config: %v", err)
	}
	if cfg.Auth.JWTSecret == "" {
		log.Fatal("JWT_SECRET is not set")
	}

	jwtSvc := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenLifespan)
	token, err := jwtSvc.GenerateToken(*userID)
	if err != nil {
		log.Fatalf("cannot sign token: %v", err)
	}

	fmt.Println(token)
}
