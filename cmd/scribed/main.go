package main

import (
	"context"
	"flag"
	"log"

	"scribe/internal/config"
	"scribe/internal/daemonrun"
)

func main() {
	configFlag := flag.String("config", "", "configuration file path")
	levelFlag := flag.String("log-level", "", "override logging level")
	flag.Parse()

	cfg, _, _, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	if err := daemonrun.Run(context.Background(), cfg, daemonrun.Options{LogLevel: *levelFlag}); err != nil {
		log.Fatalf("scribed: %v", err)
	}
}
