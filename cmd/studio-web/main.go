package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/fpang/product-studio/internal/auth"
	"github.com/fpang/product-studio/internal/chat"
	"github.com/fpang/product-studio/internal/history"
	"github.com/fpang/product-studio/internal/localkv"
	"github.com/fpang/product-studio/internal/logging"
	"github.com/fpang/product-studio/internal/mediastore"
	"github.com/fpang/product-studio/internal/studio"
)

// CLI flags
var (
	portFlag    int
	dataDirFlag string
)

var rootCmd = &cobra.Command{
	Use:   "studio-web",
	Short: "Local web server for product marketing image and video generation",
	Long: `Product Studio Web starts a local server exposing the generation API:
analyze a product photo, place it into styled scenes, render fresh
marketing images, and animate short product videos. Generation history
persists on disk between runs.

Examples:
  studio-web
  studio-web --port 9090
  studio-web --data-dir ~/studio-data`,
	Run: runMain,
}

func init() {
	rootCmd.Flags().IntVar(&portFlag, "port", 8080, "Port to listen on")
	rootCmd.Flags().StringVar(&dataDirFlag, "data-dir", "", "Directory for history and media databases (default ~/.product-studio/data)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// server owns the long-lived pieces the handlers share.
type server struct {
	gen      *studio.Generator
	history  *history.Store
	media    mediastore.Store
	registry *history.RefRegistry

	// resolveMu serializes Resolve passes; each pass releases the
	// references the previous one issued.
	resolveMu sync.Mutex
	resolver  *history.Resolver
}

func runMain(cmd *cobra.Command, args []string) {
	logging.Init()
	startTime := time.Now()

	apiKey, err := auth.GetAPIKey()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get API key")
	}

	ctx := context.Background()
	client, err := chat.NewGeminiClient(ctx, apiKey)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Gemini client")
	}
	if err := auth.ValidateAPIKey(ctx, client.Genai()); err != nil {
		log.Fatal().Err(err).Msg("Invalid API key")
	}
	log.Info().Msg("API key validated")

	dataDir := dataDirFlag
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to resolve home directory")
		}
		dataDir = filepath.Join(home, ".product-studio", "data")
	}

	kv, err := localkv.Open(filepath.Join(dataDir, "kv"), localkv.DefaultQuota)
	if err != nil {
		log.Fatal().Err(err).Str("dir", dataDir).Msg("Failed to open history store")
	}
	media, err := mediastore.Open(filepath.Join(dataDir, "media.db"))
	if err != nil {
		log.Fatal().Err(err).Str("dir", dataDir).Msg("Failed to open media store")
	}
	defer media.Close()

	hist := history.NewStore(kv, media)
	swept := hist.SweepOrphans(ctx)

	registry := history.NewRefRegistry()
	s := &server{
		gen:      studio.New(client, hist, media),
		history:  hist,
		media:    media,
		registry: registry,
		resolver: history.NewResolver(media, registry),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/history", s.handleHistory)
	mux.HandleFunc("/api/history/", s.handleHistoryEntry)
	mux.HandleFunc("/api/media", s.handleMedia)
	mux.HandleFunc("/api/options", s.handleOptions)
	mux.HandleFunc("/api/analyze", s.handleAnalyze)
	mux.HandleFunc("/api/generate", s.handleGenerate)
	mux.HandleFunc("/api/video/start", s.handleVideoStart)
	mux.HandleFunc("/api/video/", s.handleVideoRoutes)

	handler := withLogging(withCORS(mux))

	addr := fmt.Sprintf(":%d", portFlag)
	srv := &http.Server{
		Addr:        addr,
		Handler:     handler,
		ReadTimeout: 30 * time.Second,
		// Image generation is synchronous and can run a couple of minutes.
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info().Msg("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
		s.resolver.Close()
	}()

	logging.NewStartupLogger("studio-web").
		DataPath("history", filepath.Join(dataDir, "kv")).
		DataPath("media", filepath.Join(dataDir, "media.db")).
		Model("analyze", chat.AnalyzeModelName()).
		Model("edit", chat.ModelImageEdit).
		Model("generate", chat.ModelImagePro).
		Model("video", chat.ModelVideoFast).
		Config("port", fmt.Sprintf("%d", portFlag)).
		Config("orphansSwept", fmt.Sprintf("%d", swept)).
		InitDuration(time.Since(startTime)).
		Log()
	fmt.Printf("\n  Product Studio API: http://localhost:%d\n\n", portFlag)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Server failed")
	}
}

// --- Middleware ---

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		if strings.HasPrefix(r.URL.Path, "/api/") {
			log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Dur("duration", time.Since(start)).
				Msg("API request")
		}
	})
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Only allow localhost origins; this server is single-user local.
		origin := r.Header.Get("Origin")
		if origin != "" && (strings.HasPrefix(origin, "http://localhost:") || strings.HasPrefix(origin, "http://127.0.0.1:")) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
