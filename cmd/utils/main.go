package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/appetiteclub/medmeal/cmd/utils/internal/commands"
	"github.com/aquamarinepk/aqm"
)

const (
	appName    = "medmeal-utils"
	appVersion = "0.1.0"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	positional, flags := splitArgs(os.Args[2:])

	config, err := aqm.LoadConfig("UTILS", flags)
	if err != nil {
		log.Fatalf("Cannot load config: %v", err)
	}

	logLevel, _ := config.GetString("log.level")
	if logLevel == "" {
		logLevel = "info"
	}
	logger := aqm.NewLogger(logLevel)

	ctx := context.Background()

	switch command {
	case "orders":
		if err := commands.Orders(ctx, config, os.Stdout, firstArg(positional)); err != nil {
			log.Fatalf("List orders failed: %v", err)
		}

	case "advance":
		if err := commands.Advance(ctx, config, logger, firstArg(positional)); err != nil {
			log.Fatalf("Advance order failed: %v", err)
		}

	case "production":
		if err := commands.Production(ctx, config, os.Stdout, firstArg(positional)); err != nil {
			log.Fatalf("Production summary failed: %v", err)
		}

	case "transitions":
		if err := commands.Transitions(os.Stdout); err != nil {
			log.Fatalf("Print transitions failed: %v", err)
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

// splitArgs separates positional arguments from config flags.
func splitArgs(args []string) (positional, flags []string) {
	for _, a := range args {
		if strings.HasPrefix(a, "-") {
			flags = append(flags, a)
			continue
		}
		positional = append(positional, a)
	}
	return positional, flags
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func printUsage() {
	fmt.Printf(`%s - Medmeal utility commands

Usage:
  %s <command> [args] [options]

Commands:
  orders [STATUS]      List orders, optionally filtered by status
  advance ORDER_ID     Move an order to its next status
  production [STATUS]  Print the kitchen prep list
  transitions          Print the order lifecycle table
  version              Show version information
  help                 Show this help message

Configuration:
  UTILS_API_URL        Service base URL (default: http://localhost:8080)
  UTILS_LOG_LEVEL      Log level (default: info)
`, appName, appName)
}
