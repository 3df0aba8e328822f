// cmd/hashpassword/main.go prints the bcrypt hash stored for a password, for
// inserting or resetting accounts by hand.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/your-org/storefront-api/internal/config"
	"github.com/your-org/storefront-api/internal/pkg/auth"
)

func main() {
	cost := flag.Int("cost", 12, "bcrypt cost, must match BCRYPT_COST")
	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), "Usage: hashpassword [-cost N] <password>")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		log.Fatal("exactly one password is required")
	}
	password := flag.Arg(0)

	passwords := auth.NewPasswordManager(&config.Config{
		Security: config.SecurityConfig{BcryptCost: *cost},
	})

	if err := passwords.ValidatePassword(password); err != nil {
		log.Fatalf("Invalid password: %v", err)
	}

	hash, err := passwords.HashPassword(password)
	if err != nil {
		log.Fatalf("Error generating hash: %v", err)
	}
	if err := passwords.VerifyPassword(password, hash); err != nil {
		log.Fatalf("Hash verification failed: %v", err)
	}

	fmt.Println(hash)
}
