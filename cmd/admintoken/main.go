// Command admintoken prints a signed admin bearer token for question writes.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gokatarajesh/trivia-api/internal/auth/jwt"
	"github.com/gokatarajesh/trivia-api/internal/config"
)

func main() {
	subject := flag.String("subject", "admin", "Subject recorded in the token")
	ttl := flag.Duration("ttl", 0, "Token lifetime (defaults to ADMIN_TOKEN_TTL or 12h)")
	flag.Parse()

	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()

	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load("configs/.env")
	}

	cfg, err := config.LoadAdminToken()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	sec := cfg.Security
	if !sec.AdminGuardEnabled() {
		log.Fatal().Msg("ADMIN_JWT_SECRET environment variable is required")
	}
	if *ttl > 0 {
		sec.AdminTokenTTL = *ttl
	}

	manager := jwt.NewManager(jwt.TokenConfig{Secret: []byte(sec.AdminJWTSecret), TTL: sec.AdminTokenTTL, Issuer: cfg.Name})
	token, err := manager.Generate(*subject, jwt.RoleAdmin)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to sign token")
	}
	fmt.Println(token)
}
