package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"docchat-client/internal/config"
	"docchat-client/internal/pkg/logger"
	"docchat-client/pkg/events"
	pktNats "docchat-client/pkg/nats"

	"github.com/fatih/color"
)

// watch tails the state events a running client forwards to NATS.
func main() {
	durable := flag.String("durable", "docchat-watch", "durable consumer name")
	flag.Parse()

	cfg := config.Load()
	if cfg.Events.NatsURL == "" {
		log.Fatal("NATS_URL is not set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sub, err := pktNats.NewSubscriber(cfg.Events.NatsURL, logger.NewIsolatedLogger("logs/watch.log"))
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}
	defer sub.Close()

	err = sub.Subscribe(ctx, pktNats.Subject(events.StateChanged), *durable, func(ctx context.Context, e events.Event) error {
		color.Cyan("%s  %-22s v%v", e.Timestamp().Format("15:04:05.000"), events.Action(e), e.Payload()["version"])
		return nil
	})
	if err != nil {
		log.Fatalf("Failed to subscribe: %v", err)
	}

	color.Green("Watching %s on %s", pktNats.Subject(events.StateChanged), cfg.Events.NatsURL)
	<-ctx.Done()
}
