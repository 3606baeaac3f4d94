package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/paycore-labs/payroll-backend-go/internal/pkg/jwt"
)

// Mints an access token for local API testing. Tokens are normally
// issued by the identity service; this tool only needs the shared
// signing secret, not the rest of the configuration.
func main() {
	userID := flag.String("user", "dev-user", "user_id claim")
	companyID := flag.String("company", "", "company_id claim (required)")
	expiration := flag.String("expiration", "", "token lifetime, defaults to JWT_ACCESS_EXPIRATION_TIME")
	flag.Parse()

	if *companyID == "" {
		fmt.Fprintln(os.Stderr, "-company is required")
		os.Exit(1)
	}

	_ = godotenv.Load()
	secret := os.Getenv("JWT_SECRET_KEY")
	if secret == "" {
		fmt.Fprintln(os.Stderr, "JWT_SECRET_KEY is required")
		os.Exit(1)
	}
	lifetime := *expiration
	if lifetime == "" {
		lifetime = os.Getenv("JWT_ACCESS_EXPIRATION_TIME")
		if lifetime == "" {
			lifetime = "1h"
		}
	}

	jwtService := jwt.NewJWTService(secret, lifetime)
	token, expiresAt, err := jwtService.GenerateAccessToken(*userID, *companyID)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error generating token:", err)
		os.Exit(1)
	}

	fmt.Println(token)
	fmt.Fprintf(os.Stderr, "expires %s\n", time.Unix(expiresAt, 0).Format(time.RFC3339))
}
