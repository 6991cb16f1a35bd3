package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/eng-practice/quizbot/internal/app"
)

func main() {
	configPath := flag.String("config", "config.yml", "path to configuration file")
	flag.Parse()

	log.SetPrefix("[quizbot] ")
	log.SetFlags(log.LstdFlags)

	quizApp, err := app.NewApp(*configPath)
	if err != nil {
		log.Fatalf("failed to initialize app: %v", err)
	}

	// Останавливаемся по Ctrl+C или SIGTERM
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-signals
		log.Printf("received %s, shutting down", sig)
		quizApp.Stop()
	}()

	log.Println("app starting")
	if err := quizApp.ListenAndServe(); err != nil {
		log.Fatalf("bot stopped with error: %v", err)
	}
}
