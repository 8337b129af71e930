package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jetctf/jetctf-web/practice"
	"github.com/jetctf/jetctf-web/server"
)

func main() {
	port := flag.String("port", "8080", "Server port")
	dataPath := flag.String("practice", "", "Practice data YAML file")
	routeDB := flag.String("routes", "routes.db", "Route trail database")
	seed := flag.Int64("seed", 0, "Random seed (0 = time-based)")
	flag.Parse()

	log.Printf("Starting JetCTF bot server on port %s", *port)

	data, err := practice.Load(*dataPath)
	if err != nil {
		log.Fatalf("loading practice data: %v", err)
	}
	if err := data.Validate(); err != nil {
		log.Fatalf("validating practice data: %v", err)
	}

	store, err := practice.OpenRouteStore(*routeDB)
	if err != nil {
		log.Fatalf("opening route store: %v", err)
	}
	defer store.Close()

	trails, err := store.Trails(context.Background())
	if err != nil {
		log.Fatalf("loading route trails: %v", err)
	}
	lib := practice.NewLibrary(trails)
	log.Printf("loaded %d bots, %d drills, %d route trails",
		len(data.Bots), len(data.Drills), len(trails))

	opts := server.DefaultOptions()
	opts.Seed = *seed
	gameServer := server.NewServer(opts, data, lib)
	go gameServer.Run()

	// Spectator feed
	http.HandleFunc("/ws", gameServer.HandleWebSocket)

	// Bot roster and drill control
	http.HandleFunc("/api/bots", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			name := r.URL.Query().Get("name")
			spec, ok := data.Bot(name)
			if !ok {
				http.Error(w, "unknown bot", http.StatusNotFound)
				return
			}
			cfg, err := spec.Config()
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			if err := gameServer.AddBot(cfg); err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			w.WriteHeader(http.StatusCreated)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(data.Bots)
	})

	http.HandleFunc("/api/drills", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(data.Drills)
	})

	http.HandleFunc("/api/drills/start", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "POST required", http.StatusMethodNotAllowed)
			return
		}
		if err := gameServer.StartDrill(r.URL.Query().Get("name")); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	http.HandleFunc("/api/drills/stop", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "POST required", http.StatusMethodNotAllowed)
			return
		}
		gameServer.StopDrill()
		w.WriteHeader(http.StatusOK)
	})

	// Compressed archive of everything: bots, drills, route trails.
	http.HandleFunc("/api/export", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/zstd")
		w.Header().Set("Content-Disposition", "attachment; filename=practice.jetctf.zst")
		if err := practice.Export(w, data, trails); err != nil {
			log.Printf("archive export failed: %v", err)
		}
	})

	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	srv := &http.Server{
		Addr:         ":" + *port,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Printf("Server running at http://localhost:%s", *port)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	log.Printf("Shutting down server (signal: %v)...", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	gameServer.Shutdown()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
	os.Exit(0)
}
