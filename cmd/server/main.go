// Package main provides the complaint RAG API server entry point.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/creditrust/complaints-rag/internal/api"
	"github.com/creditrust/complaints-rag/internal/embedding"
	mcpserver "github.com/creditrust/complaints-rag/internal/mcp"
	"github.com/creditrust/complaints-rag/internal/rag"
	"github.com/creditrust/complaints-rag/internal/storage"
)

func main() {
	// Load .env file if present (local development), ignore if missing (production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	qdrantHost := getEnv("QDRANT_HOST", "localhost")
	qdrantPort := getEnvInt("QDRANT_PORT", 6334)
	port := getEnv("PORT", "8000")

	// Long-lived handles: constructed once, shared by every request handler.
	store, err := storage.NewStore(qdrantHost, qdrantPort)
	if err != nil {
		log.Fatalf("failed to connect to Qdrant: %v", err)
	}
	defer store.Close()

	if err := store.EnsureCollection(ctx); err != nil {
		log.Fatalf("failed to ensure collection: %v", err)
	}

	openaiClient, err := embedding.NewClient()
	if err != nil {
		log.Fatalf("failed to create OpenAI client: %v", err)
	}
	embedder := embedding.NewEmbedder(openaiClient, 0)

	retriever := rag.NewRetriever(embedder, store)
	generator := rag.NewGenerator(openaiClient.API())
	pipeline := rag.NewPipeline(retriever, generator, slog.Default())

	server := api.NewServer(pipeline, store, slog.Default())

	mux := http.NewServeMux()

	// MCP endpoint for agent clients, next to the plain JSON API.
	mcpSrv := mcpserver.NewServer(pipeline)
	mux.Handle("/mcp", mcpSrv.HTTPHandler())

	handler := server.Routes(mux)

	addr := "0.0.0.0:" + port
	log.Printf("Starting complaint RAG API on %s (ask at /ask, health at /health, MCP at /mcp)", addr)

	httpServer := &http.Server{Addr: addr, Handler: handler}
	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background())
	}()

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("HTTP server error: %v", err)
	}
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		var i int
		if _, err := fmt.Sscanf(v, "%d", &i); err == nil {
			return i
		}
	}
	return defaultValue
}
