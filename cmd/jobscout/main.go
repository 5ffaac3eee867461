package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// Tokens and API keys come from the environment; a local .env is a
	// convenience, not a requirement.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
