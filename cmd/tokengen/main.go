// Package main provides a CLI tool for generating test tokens for the tenant
// admin API. These tokens use the dev signing key and will NOT work against a
// production deployment.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"tenantadmin/internal/auth"
)

// Dev signing key - matches config.go when JWT_SIGNING_KEY is not set
const devSigningKey = "dev-secret-key-change-in-production"

type tokenOutput struct {
	Token     string            `json:"token"`
	Role      string            `json:"role"`
	Subject   string            `json:"subject"`
	ExpiresIn string            `json:"expires_in"`
	Usage     map[string]string `json:"usage"`
}

func main() {
	role := flag.String("role", "admin", "Actor role: admin, operator, or viewer")
	subject := flag.String("subject", "", "Actor id recorded in status history. Generated if empty.")
	ttl := flag.Duration("ttl", time.Hour, "Token time-to-live")
	key := flag.String("key", devSigningKey, "HS256 signing key (must match JWT_SIGNING_KEY)")
	jsonOutput := flag.Bool("json", false, "Output as JSON")
	flag.Parse()

	switch *role {
	case "admin", "operator", "viewer":
	default:
		fmt.Fprintf(os.Stderr, "Unknown role: %s (want admin, operator, or viewer)\n", *role)
		os.Exit(1)
	}

	sub := *subject
	if sub == "" {
		sub = uuid.New().String()
	}

	token, err := auth.Sign(*key, sub, *role, *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating token: %v\n", err)
		os.Exit(1)
	}

	if *jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(tokenOutput{
			Token:     token,
			Role:      *role,
			Subject:   sub,
			ExpiresIn: ttl.String(),
			Usage: map[string]string{
				"header": "Authorization: Bearer <token>",
			},
		})
		return
	}

	fmt.Println("Tenant Admin API Token")
	fmt.Println("======================")
	fmt.Printf("Role:       %s\n", *role)
	fmt.Printf("Subject:    %s\n", sub)
	fmt.Printf("Expires In: %s\n", *ttl)
	fmt.Println()
	fmt.Println("Token:")
	fmt.Println(token)
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  curl -H \"Authorization: Bearer <token>\" http://localhost:8080/api/tenants")
}
