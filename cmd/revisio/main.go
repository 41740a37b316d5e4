package main

import (
	"context"
	"log"
	"os"

	"github.com/spf13/pflag"

	"github.com/afreitas/revisio/internal/config"
	"github.com/afreitas/revisio/internal/scope"
	"github.com/afreitas/revisio/internal/storage"
	"github.com/afreitas/revisio/internal/sync"
	"github.com/afreitas/revisio/internal/web"
)

func main() {
	// 1. Define and parse command-line flags
	flags := pflag.NewFlagSet("revisio", pflag.ExitOnError)
	configPath := flags.String("config", "revisio.yaml", "Path to the configuration file")
	flags.String("listen", "", "Address to listen on")
	flags.String("db", "", "Path to the SQLite database file")
	flags.String("scope.mode", "", "Scope resolution mode: shared or header")
	flags.String("sync.repos", "", "Directory for cloned topic source repositories")
	syncOnly := flags.Bool("sync-once", false, "Sync topic sources once and exit")
	if err := flags.Parse(os.Args[1:]); err != nil {
		log.Fatalf("Failed to parse flags: %v", err)
	}

	// 2. Load configuration (defaults, file, env, then flags)
	cfg, err := config.Load(*configPath, flags)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// 3. Open the database
	db, err := storage.Open(cfg.DB)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()
	log.Printf("Database opened successfully: %s", cfg.DB)

	runSync := func(ctx context.Context) error {
		return sync.RunAll(ctx, db, cfg.Sync.Repos)
	}
	if *syncOnly {
		if err := runSync(context.Background()); err != nil {
			log.Fatalf("Failed to sync topic sources: %v", err)
		}
		return
	}

	// 4. Pick the scope resolver and serve
	var resolver scope.Resolver
	switch cfg.Scope.Mode {
	case "header":
		resolver = scope.Header{Name: cfg.Scope.Header}
	default:
		resolver = scope.Static{Name: cfg.Scope.Name}
	}

	server := web.NewServer(db, db, resolver, runSync)
	if err := web.Serve(cfg.Listen, server); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
