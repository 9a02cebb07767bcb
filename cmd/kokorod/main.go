package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"kokorod/internal/bootstrap"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml (default: KOKO_CONFIG, ./config.yaml, ./data/config.yaml)")
	flag.Parse()

	if err := bootstrap.Run(context.Background(), *configPath); err != nil {
		fmt.Fprintf(os.Stderr, "kokorod: %v\n", err)
		os.Exit(1)
	}
}
