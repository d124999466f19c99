// Package main provides the offline index build CLI for complaint data.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/creditrust/complaints-rag/internal/embedding"
	"github.com/creditrust/complaints-rag/internal/ingest"
	"github.com/creditrust/complaints-rag/internal/storage"
)

var csvPath string

var rootCmd = &cobra.Command{
	Use:   "complaints-indexer",
	Short: "Complaint vector index build tool",
	Long:  "CLI tool for building the consumer complaint vector index in Qdrant",
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Rebuild the complaint index from a CFPB CSV export",
	Long: `Recreates the complaints collection and rebuilds it from the raw CSV.

This command:
1. Connects to Qdrant and verifies health
2. Drops and recreates the complaints collection
3. Filters the CSV to in-scope products with narratives
4. Cleans, splits, and embeds each narrative
5. Stores chunks with metadata in Qdrant

Environment variables:
  QDRANT_HOST    Qdrant hostname (default: localhost)
  QDRANT_PORT    Qdrant gRPC port (default: 6334)
  OPENAI_API_KEY OpenAI API key for embeddings (required)`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVar(&csvPath, "csv", "data/complaints.csv", "path to the raw CFPB complaints CSV")
	rootCmd.AddCommand(buildCmd)
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runBuild(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	start := time.Now()

	fmt.Println("Starting index build...")
	fmt.Println()

	qdrantHost := getEnv("QDRANT_HOST", "localhost")
	qdrantPort := getEnvInt("QDRANT_PORT", 6334)

	fmt.Printf("Connecting to Qdrant at %s:%d...\n", qdrantHost, qdrantPort)
	store, err := storage.NewStore(qdrantHost, qdrantPort)
	if err != nil {
		return fmt.Errorf("failed to connect to Qdrant: %w", err)
	}
	defer store.Close()

	if err := store.Health(ctx); err != nil {
		return fmt.Errorf("qdrant health check failed: %w", err)
	}
	fmt.Println("Qdrant healthy")

	openaiClient, err := embedding.NewClient()
	if err != nil {
		return fmt.Errorf("failed to create OpenAI client: %w", err)
	}
	embedder := embedding.NewEmbedder(openaiClient, 0)

	file, err := os.Open(csvPath)
	if err != nil {
		return fmt.Errorf("failed to open complaints CSV: %w", err)
	}
	defer file.Close()

	fmt.Println()
	fmt.Println("Recreating collection...")
	if err := store.RecreateCollection(ctx); err != nil {
		return fmt.Errorf("failed to recreate collection: %w", err)
	}
	fmt.Println("Collection recreated")

	fmt.Println()
	fmt.Printf("Indexing complaints from %s...\n", csvPath)
	pipeline := ingest.NewPipeline(ingest.NewSplitter(), embedder, store, slog.Default())

	result, err := pipeline.BuildIndex(ctx, file)
	if err != nil {
		return fmt.Errorf("index build failed: %w", err)
	}

	fmt.Println()
	fmt.Println("Build complete!")
	fmt.Printf("  Complaints: %d/%d\n", result.IndexedRecords, result.TotalRecords)
	fmt.Printf("  Chunks: %d\n", result.TotalChunks)
	fmt.Printf("  Duration: %s\n", result.Duration.Round(time.Second))

	if len(result.Failed) > 0 {
		fmt.Println()
		fmt.Println("Failed complaints:")
		for _, failed := range result.Failed {
			fmt.Printf("  - %s: %s\n", failed.ComplaintID, failed.Reason)
		}
	}

	fmt.Println()
	fmt.Printf("Total time: %s\n", time.Since(start).Round(time.Second))

	return nil
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
