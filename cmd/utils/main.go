package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/bakery/cmd/utils/internal/commands"
)

const (
	appName    = "bakery-utils"
	appVersion = "0.1.0"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	config, err := apt.LoadConfig("UTILS", os.Args[2:])
	if err != nil {
		log.Fatalf("Cannot load config: %v", err)
	}

	logLevel, _ := config.GetString("log.level")
	if logLevel == "" {
		logLevel = "info"
	}
	logger := apt.NewLogger(logLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	command := os.Args[1]

	switch command {
	case "publish-demo":
		if err := commands.PublishDemo(ctx, config, logger); err != nil {
			log.Fatalf("Demo publishing failed: %v", err)
		}
		logger.Info("Demo lifecycle published")

	case "replay":
		if err := commands.Replay(ctx, config, logger); err != nil {
			log.Fatalf("Replay failed: %v", err)
		}

	case "version":
		fmt.Printf("%s version %s\n", appName, appVersion)

	case "help", "-h", "--help":
		printUsage()

	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf(`%s - Bakery order desk utility commands

Usage:
  %s <command> [options]

Commands:
  publish-demo  Publish a scripted order lifecycle (create, approve, assign, complete, deliver) over NATS
  replay        Print the retained event backlog from JetStream
  version       Print version information
  help          Show this help message

Environment Variables:
  UTILS_NATS_URL          NATS connection URL (default: nats://localhost:4222)
  UTILS_NATS_PREFIX       Subject prefix (default: bakery.events)
  UTILS_NATS_STREAM_NAME  JetStream stream (default: ORDERDESK)
  UTILS_DEMO_DELAY        Pause between demo events (default: 2s)
  UTILS_REPLAY_LIMIT      Maximum backlog messages to print (default: 100)
  UTILS_LOG_LEVEL         Log level: debug, info, warn, error (default: info)

Examples:
  %s publish-demo
  UTILS_DEMO_DELAY=500ms %s publish-demo
  %s replay

`, appName, appName, appName, appName, appName)
}
