// Package main runs the interactive to-do client.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"

	"github.com/atinyakov/GophTodo/internal/client/app"
	"github.com/atinyakov/GophTodo/internal/client/shell"
	"github.com/atinyakov/GophTodo/internal/client/storage"
	"github.com/atinyakov/GophTodo/internal/config"
	"github.com/atinyakov/GophTodo/internal/logger"
)

var (
	version   string
	buildDate string
)

// main parses flags, restores the session and runs the shell.
func main() {
	options, err := config.ParseClient(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	if options.ShowVersion {
		fmt.Printf("GophTodo Client\nVersion: %s\nBuild Date: %s\n", version, buildDate)
		return
	}

	lg := logger.New()
	if err := lg.Init(options.LogLevel); err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lg.Log.Sync() }()

	store, closeStore, err := storage.Open(options.Store, options.StorePath)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = closeStore() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := app.New(options.BaseURL, store, &http.Client{Timeout: options.Timeout}, lg.Log)
	sh := shell.New(a.Auth, a.Cache, a.Session, os.Stdout, lg.Log)
	if err := sh.Run(ctx, os.Stdin); err != nil {
		log.Fatal(err)
	}
}
