package main

import (
	"context"
	"fmt"
	"lanchat/client"
	"os"
	"os/signal"
	"syscall"

	"github.com/mama165/sdk-go/logs"
)

var version = "dev"

const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Client terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run connects to the relay named on the command line: `client [name] [server-ip]`.
func run() (int, error) {
	config, err := client.LoadConfig(os.Args[1:])
	if err != nil {
		return exitConfig, err
	}
	log := logs.GetLoggerFromString(config.LogLevel)
	log.Info("LAN chat client", "version", version)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	console := client.NewConsole(os.Stdout, config.Colours)
	if err = client.New(log, console, client.OptionsFromConfig(config)).Run(ctx, os.Stdin); err != nil {
		return exitRuntime, err
	}
	return exitOK, nil
}
