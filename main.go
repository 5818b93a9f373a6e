package main

import (
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/ballot-box/cliparse"
	"github.com/danielhkuo/ballot-box/handlers"
	"github.com/danielhkuo/ballot-box/logging"
	"github.com/danielhkuo/ballot-box/router"
	"github.com/danielhkuo/ballot-box/schema"
	"github.com/danielhkuo/ballot-box/store"
)

const schemaFileName = "candidates.json"

func main() {
	// .env is optional; real deployments set the environment directly
	godotenv.Load()
	logging.Setup()

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	// Load and validate the election schema; malformed input refuses
	// to start rather than serving an empty election.
	sch, err := schema.Load(filepath.Join(cfg.DataDir, schemaFileName))
	if err != nil {
		slog.Error("schema load failed", "error", err)
		os.Exit(1)
	}

	// Open the registry/ballot store
	st, err := openStore(cfg)
	if err != nil {
		slog.Error("store open failed", "error", err)
		os.Exit(1)
	}
	defer st.Close()
	slog.Info("store ready", "type", cfg.StoreType, "positions", len(sch.Positions), "candidates", len(sch.Candidates))

	// Create router
	state := handlers.NewCloseState()
	mux := router.NewRouter(st, sch, cfg, state)

	// Create server
	server := http.Server{
		Handler: mux,
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		server.Close()
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}

// openStore builds the configured backend. SQL backends are seeded
// from the registry file when it exists; the file backend reads it
// live on every operation.
func openStore(cfg cliparse.Config) (store.Store, error) {
	if cfg.StoreType == cliparse.StoreFile {
		return store.NewFileStore(cfg.DataDir)
	}

	driver := "sqlite"
	if cfg.StoreType == cliparse.StorePostgres {
		driver = "postgres"
	}

	st, err := store.NewSQLStore(driver, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	registryPath := filepath.Join(cfg.DataDir, "voters.json")
	if _, statErr := os.Stat(registryPath); statErr == nil {
		voters, err := store.LoadRegistry(registryPath)
		if err != nil {
			st.Close()
			return nil, err
		}
		if err := st.SeedVoters(voters); err != nil {
			st.Close()
			return nil, err
		}
		slog.Info("registry seeded", "voters", len(voters))
	}

	return st, nil
}
