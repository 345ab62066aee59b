// Command offline-sync queues complaints while the API is unreachable and
// delivers them once it is back.
//
//	offline-sync enqueue -file payload.json -token T
//	offline-sync flush
//	offline-sync list
//	offline-sync watch [-interval 10s]
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/yukikurage/civicconnect-api/internal/offline"
)

func main() {
	log.SetFlags(log.LstdFlags)
	loadEnv()

	if len(os.Args) < 2 {
		usage()
	}

	global := flag.NewFlagSet(os.Args[1], flag.ExitOnError)
	dbPath := global.String("db", envOr("OFFLINE_DB", "offline-queue.db"), "path of the local queue database")
	apiURL := global.String("api", envOr("API_URL", "http://localhost:8080"), "base URL of the CivicConnect API")
	file := global.String("file", "", "JSON complaint payload (enqueue)")
	tok := global.String("token", envOr("API_TOKEN", ""), "bearer token used to submit the complaint (enqueue)")
	interval := global.Duration("interval", 10*time.Second, "health poll interval (watch)")
	global.Parse(os.Args[2:])

	store, err := offline.OpenStore(*dbPath)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer store.Close()

	queue := offline.NewQueue(store, *apiURL, nil)

	switch os.Args[1] {
	case "enqueue":
		if *file == "" {
			log.Fatal("enqueue requires -file")
		}
		payload, err := os.ReadFile(*file)
		if err != nil {
			log.Fatalf("Failed to read payload: %v", err)
		}
		p, err := queue.Enqueue(payload, *tok)
		if err != nil {
			log.Fatalf("Failed to enqueue: %v", err)
		}
		fmt.Printf("queued %s (idempotency key %s)\n", p.ID, p.IdempotencyKey)

	case "flush":
		result, err := queue.Flush(context.Background())
		if err != nil {
			log.Fatalf("Flush failed: %v", err)
		}
		fmt.Printf("synced %d, failed %d\n", result.Synced, result.Failed)

	case "list":
		pending, err := queue.List()
		if err != nil {
			log.Fatalf("%v", err)
		}
		for _, p := range pending {
			fmt.Printf("%s  %s  attempts=%d  %s\n", p.ID, p.CreatedAt.Format(time.RFC3339), p.Attempts, p.LastError)
		}
		fmt.Printf("%d pending\n", len(pending))

	case "watch":
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		watcher := offline.NewConnectivityWatcher(*apiURL, nil, *interval)
		log.Printf("Watching %s every %s", *apiURL, *interval)
		queue.Run(ctx, watcher.Watch(ctx))

	default:
		usage()
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: offline-sync <enqueue|flush|list|watch> [-db path] [-api url] [-file payload.json -token T] [-interval 10s]")
	os.Exit(2)
}

// loadEnv reads .env when present and warns otherwise.
func loadEnv(filenames ...string) {
	if err := godotenv.Load(filenames...); err != nil {
		log.Println("Warning: no .env file loaded, using environment only")
	}
}
