package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/andrasnagy-data/greenplate/internal/shared/cookie"
)

func main() {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	secret := hex.EncodeToString(buf)

	// Fails the same way the server would on a bad secret.
	if _, err := cookie.DeriveKey(secret); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nAdd to your .env file:\n")
	fmt.Printf("SESSION_SECRET=%s\n", secret)
}
