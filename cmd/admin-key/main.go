package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run cmd/admin-key/main.go <admin-key>")
		fmt.Println("Example: go run cmd/admin-key/main.go \"long-random-admin-key\"")
		os.Exit(1)
	}

	adminKey := os.Args[1]

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	if len(adminKey) < 12 {
		logger.Warn("Admin key is short, prefer at least 12 characters", zap.Int("length", len(adminKey)))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminKey), bcrypt.DefaultCost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to hash admin key: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("ADMIN_KEY_HASH=%s\n\n", hash)
	fmt.Printf("Use the key in the Authorization header of admin requests:\n")
	fmt.Printf("Authorization: Bearer %s\n", adminKey)
}
