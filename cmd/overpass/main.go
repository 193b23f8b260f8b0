package main

import (
	"log"
	"os"

	"go.uber.org/zap"

	overpass "github.com/app-sre/overpass/pkg"
	"github.com/app-sre/overpass/pkg/cmd"
)

func main() {
	level := zap.NewAtomicLevelAt(zap.WarnLevel)

	config := zap.NewDevelopmentConfig()
	config.Level = level
	config.DisableCaller = true
	config.DisableStacktrace = true

	l, err := config.Build()
	if err != nil {
		log.Fatalf("Unable to initialize Zap logger: %s", err)
	}
	defer func() { _ = l.Sync() }()

	logger := l.Sugar()
	if err := cmd.Run(overpass.NewConfig(logger, level), os.Args[1:]); err != nil {
		logger.Fatalf("Unable to run query: %s", err)
	}
}
