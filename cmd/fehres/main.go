// Package main is the entry point for the Fehres CLI.
package main

import (
	"github.com/joho/godotenv"

	"github.com/mohamedfathi540/RAG-001/internal/cmd"
)

func main() {
	// Optional .env in the working directory; real settings live in the
	// persisted session file.
	_ = godotenv.Load()
	cmd.Execute()
}
