package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/snoolib/snoo"
	pkgerrs "github.com/snoolib/snoo/pkg/errors"
	"github.com/snoolib/snoo/pkg/types"
)

// livewatch follows a Reddit live thread from the terminal. Pass the thread
// ID (the part after /live/ in its URL) as the only argument.
func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <live-thread-id>\n", os.Args[0])
		os.Exit(2)
	}
	threadID := os.Args[1]

	godotenv.Load()
	clientID := os.Getenv("REDDIT_CLIENT_ID")
	clientSecret := os.Getenv("REDDIT_CLIENT_SECRET")

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	// Live threads are public, so missing credentials fall back to the
	// anonymous JSON endpoints.
	config := &snoo.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		UserAgent:    "livewatch/1.0",
		Logger:       logger,
	}
	if clientID == "" {
		logger.Info("no credentials found, using anonymous access")
	}

	client, err := snoo.NewClient(config)
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := client.Connect(ctx); err != nil {
		log.Fatalf("Failed to connect to Reddit: %v", err)
	}

	thread, err := client.GetLiveThread(ctx, threadID)
	if err != nil {
		log.Fatalf("Failed to fetch live thread: %v", err)
	}
	fmt.Printf("== %s ==\n", thread.Title)
	if thread.Description != "" {
		fmt.Printf("%s\n", thread.Description)
	}
	fmt.Printf("state: %s, viewers: %d\n\n", thread.State, thread.ViewerCount)

	// Show the most recent updates before switching to the stream.
	recent, err := client.GetLiveUpdates(ctx, threadID, &types.ListingOptions{Limit: 5})
	if err != nil {
		log.Fatalf("Failed to fetch updates: %v", err)
	}
	for i := len(recent.Updates) - 1; i >= 0; i-- {
		printUpdate(recent.Updates[i])
	}

	if thread.State != types.LiveStateLive {
		fmt.Println("\nthread is closed, nothing to stream")
		return
	}

	stream, err := client.StreamLiveThread(ctx, threadID)
	if err != nil {
		var stateErr *pkgerrs.StateError
		if errors.As(err, &stateErr) {
			fmt.Println("\nthread stopped being live, nothing to stream")
			return
		}
		log.Fatalf("Failed to open stream: %v", err)
	}
	defer stream.Close()

	fmt.Println("--- streaming, ctrl-c to stop ---")
	for event := range stream.Events() {
		switch event.Type {
		case types.LiveEventUpdate:
			printUpdate(event.Update)
		case types.LiveEventStrike:
			fmt.Println("* an update was stricken")
		case types.LiveEventDelete:
			fmt.Println("* an update was deleted")
		case types.LiveEventComplete:
			fmt.Println("--- thread completed ---")
		}
	}
}

func printUpdate(u *types.LiveUpdateData) {
	if u == nil {
		return
	}
	body := u.Body
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	fmt.Printf("[%s] %s\n", u.Author, body)
}
