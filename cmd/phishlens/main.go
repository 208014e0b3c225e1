package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/aleister1102/phishlens/internal/config"
	"github.com/aleister1102/phishlens/internal/logger"
)

func main() {
	flags, err := ParseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Fatalf("[FATAL] %v", err)
	}

	bootLogger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if err := config.LoadDotEnv(bootLogger, flags.EnvFile); err != nil {
		log.Fatalf("[FATAL] Main: Could not load env file '%s': %v", flags.EnvFile, err)
	}

	gCfg, err := config.LoadGlobalConfig(flags.GlobalConfigFile, bootLogger)
	if err != nil {
		log.Fatalf("[FATAL] Main: Could not load global config using path '%s': %v", flags.GlobalConfigFile, err)
	}
	config.ApplyEnvOverrides(gCfg)

	zLogger, err := logger.New(gCfg.LogConfig)
	if err != nil {
		log.Fatalf("[FATAL] Main: Could not initialize logger: %v", err)
	}

	if err := config.ValidateConfig(gCfg); err != nil {
		zLogger.Fatal().Err(err).Msg("Configuration validation failed")
	}
	zLogger.Debug().Str("mode", flags.Mode).Msg("Configuration loaded")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := newApplication(gCfg, flags, zLogger)
	if err := app.run(ctx); err != nil {
		stop()
		if errors.Is(err, context.Canceled) {
			zLogger.Warn().Msg("Interrupted")
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "[FATAL] %v\n", err)
		os.Exit(1)
	}
}
