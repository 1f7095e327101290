package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/aronyefrainmh-sudo/conciliador-facturas/internal/cli"
	"github.com/aronyefrainmh-sudo/conciliador-facturas/internal/infrastructure/config"
)

func main() {
	// Load .env if present; real env vars win
	_ = godotenv.Load()

	flags := cli.ParseServeFlags()
	cfg := config.LoadOrEnv()

	if err := cli.RunServe(cfg, flags); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
