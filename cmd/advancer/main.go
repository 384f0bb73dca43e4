package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/savage-character-engine/internal/clients/catalog"
	"github.com/KirkDiggler/savage-character-engine/internal/config"
	dnderr "github.com/KirkDiggler/savage-character-engine/internal/errors"
	"github.com/KirkDiggler/savage-character-engine/internal/repositories/advances"
	"github.com/KirkDiggler/savage-character-engine/internal/repositories/character_draft"
	characterService "github.com/KirkDiggler/savage-character-engine/internal/services/character"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()
	svc, cleanup, err := buildService(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	defer cleanup()

	root := newRootCmd(svc)
	root.SetArgs(os.Args[1:])
	if err := root.ExecuteContext(ctx); err != nil {
		printError(err)
		cleanup()
		os.Exit(exitCode(err))
	}
}

// buildService wires the catalog and stores named by cfg into a character
// service. cleanup closes whatever was opened.
func buildService(ctx context.Context, cfg *config.Config) (characterService.Service, func(), error) {
	var closers []func() error
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				log.Printf("Failed to close: %v", err)
			}
		}
		closers = nil
	}

	rb, err := catalog.NewLoader(&catalog.Config{Lenient: cfg.Catalog.LenientDecode}).LoadFile(cfg.Catalog.Path)
	if err != nil {
		return nil, cleanup, err
	}

	serviceConfig := &characterService.ServiceConfig{Catalog: rb}

	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return nil, cleanup, err
		}
		client := redis.NewClient(opts)
		closers = append(closers, client.Close)

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			cleanup()
			return nil, cleanup, err
		}
		log.Println("Using Redis for drafts")
		serviceConfig.DraftRepository = character_draft.NewRedisRepository(&character_draft.RedisRepoConfig{
			Client:   client,
			DraftTTL: cfg.Redis.DraftTTL,
		})
	} else {
		log.Println("No REDIS_URL found, drafts live only for this run")
		serviceConfig.DraftRepository = character_draft.NewInMemoryRepository()
	}

	if cfg.SQLite.Path != "" {
		history, err := advances.NewSQLiteRepository(ctx, &advances.SQLiteConfig{Path: cfg.SQLite.Path})
		if err != nil {
			cleanup()
			return nil, cleanup, err
		}
		closers = append(closers, history.Close)
		serviceConfig.HistoryRepository = history
		log.Printf("Recording advances in %s", cfg.SQLite.Path)
	}

	return characterService.NewService(serviceConfig), cleanup, nil
}

// exitCode maps an error to the process exit status. Rule violations and
// anything unclassified exit 1.
func exitCode(err error) int {
	switch {
	case dnderr.IsInvalidArgument(err):
		return 2
	case dnderr.IsNotFound(err), dnderr.IsAlreadyExists(err):
		return 3
	case dnderr.IsInternal(err):
		return 70
	}
	return 1
}

func printError(err error) {
	if dnderr.IsUserFacing(err) {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	fmt.Fprintf(os.Stderr, "Error (%s): %v\n", dnderr.GetCode(err), err)
	if meta := dnderr.GetMeta(err); len(meta) > 0 {
		fmt.Fprintf(os.Stderr, "  details: %v\n", meta)
	}
}
