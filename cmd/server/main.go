// ShootClub Server - Main Entry Point
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"shootclub/internal/network"
	"shootclub/internal/server"
	"shootclub/pkg/logger"
)

var (
	version  = "1.0.0"
	port     = flag.Int("port", network.DefaultPort, "Server port")
	host     = flag.String("host", "", "Server host (default all interfaces)")
	logLevel = flag.String("log-level", "INFO", "Log level (DEBUG, INFO, WARN, ERROR)")
	logFile  = flag.String("log-file", "", "Log file path (optional)")
	ver      = flag.Bool("version", false, "Show version information")
)

func main() {
	flag.Parse()

	if *ver {
		fmt.Printf("ShootClub Server v%s\n", version)
		return
	}

	if err := initLogging(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logging: %v\n", err)
		os.Exit(1)
	}
	defer logger.Server.Sync()

	logger.Server.Info("Starting ShootClub Server v%s", version)

	address := fmt.Sprintf("%s:%d", *host, *port)
	gameServer := server.NewServer(address)

	setupGracefulShutdown(gameServer)

	if err := gameServer.Start(); err != nil {
		logger.Server.Fatal("Server failed to start: %v", err)
	}
}

// initLogging sets up the logging system from the CLI flags.
func initLogging() error {
	logger.SetLevel(*logLevel)
	if *logFile != "" {
		if err := logger.Server.SetFile(*logFile); err != nil {
			return fmt.Errorf("failed to set log file: %w", err)
		}
		logger.Server.Info("Logging to file: %s", *logFile)
	}
	return nil
}

// setupGracefulShutdown stops the server on interrupt signals.
func setupGracefulShutdown(gameServer *server.Server) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		logger.Server.Info("Received shutdown signal, stopping server...")
		gameServer.Stop()
		logger.Server.Sync()
		os.Exit(0)
	}()
}
