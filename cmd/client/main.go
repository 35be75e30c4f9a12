// ShootClub Client - Main Entry Point
package main

import (
	"flag"
	"fmt"
	"os"

	"shootclub/internal/client"
	"shootclub/pkg/logger"
)

var (
	server   = flag.String("server", "localhost", "Server address (host or host:port)")
	logLevel = flag.String("log-level", "WARN", "Log level (DEBUG, INFO, WARN, ERROR)")
	logFile  = flag.String("log-file", "", "Log file path (optional)")
)

func main() {
	flag.Parse()

	logger.SetLevel(*logLevel)
	if *logFile != "" {
		if err := logger.Client.SetFile(*logFile); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to set log file: %v\n", err)
			os.Exit(1)
		}
	}
	defer logger.Client.Sync()

	c := client.NewClient(client.Address(*server))
	if err := c.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Client error: %v\n", err)
		os.Exit(1)
	}
}
