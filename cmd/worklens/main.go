package main

import (
	"github.com/joho/godotenv"

	"github.com/worklens/worklens/internal/cli"

	_ "github.com/lib/pq"
)

func main() {
	_ = godotenv.Load() // silently ignore if .env doesn't exist
	cli.Execute()
}
