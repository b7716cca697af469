// Command smoke exercises a running API end to end: it waits for the server,
// requests a generation and, when DATABASE_URL is set, checks that the
// generation was recorded.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/codewizard/api/internal/config"
	"github.com/codewizard/api/internal/database"
	"github.com/google/uuid"
)

type generateResponse struct {
	Status   string `json:"status"`
	Code     string `json:"code"`
	Metadata struct {
		ID uuid.UUID `json:"id"`
	} `json:"metadata"`
}

func main() {
	baseURL := flag.String("url", "http://localhost:8000", "API base URL")
	language := flag.String("language", "python", "Language to request")
	samples := flag.Int("samples", 1, "Samples per request")
	flag.Parse()

	cfg := config.Load()
	ctx := context.Background()
	client := &http.Client{Timeout: cfg.ModelTimeout + 30*time.Second}

	// Retry loop for server startup
	var err error
	for i := 0; i < 10; i++ {
		var resp *http.Response
		resp, err = client.Get(*baseURL + "/health")
		if err == nil {
			resp.Body.Close()
			break
		}
		log.Printf("Waiting for server... %v", err)
		time.Sleep(1 * time.Second)
	}
	if err != nil {
		log.Fatalf("Server not reachable after retries: %v", err)
	}

	prompt := fmt.Sprintf("Write a function that reverses a string (smoke %d)", time.Now().UnixNano())
	jsonBody, _ := json.Marshal(map[string]interface{}{
		"prompt":   prompt,
		"language": *language,
		"samples":  *samples,
	})

	log.Println("Calling generation endpoint...")
	resp, err := client.Post(*baseURL+"/api/generate", "application/json", bytes.NewReader(jsonBody))
	if err != nil {
		log.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		buf := new(bytes.Buffer)
		buf.ReadFrom(resp.Body)
		log.Fatalf("Expected 200 OK, got %d. Body: %s", resp.StatusCode, buf.String())
	}

	var gen generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gen); err != nil {
		log.Fatalf("Failed to decode response: %v", err)
	}
	if gen.Code == "" {
		log.Fatal("Empty code in response!")
	}
	log.Printf("Generation %s finished with status %q", gen.Metadata.ID, gen.Status)

	if cfg.DatabaseURL == "" {
		log.Println("SUCCESS: Verified generation endpoint (DATABASE_URL unset, history not checked)")
		return
	}

	db, err := database.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer db.Close()

	// History is written off the request path
	log.Println("Verifying generation in DB...")
	var count int
	for i := 0; i < 10; i++ {
		err = db.Pool().QueryRow(ctx, "SELECT COUNT(*) FROM generations WHERE id = $1", gen.Metadata.ID).Scan(&count)
		if err == nil && count > 0 {
			break
		}
		time.Sleep(500 * time.Millisecond)
	}
	if err != nil {
		log.Fatalf("Failed to query generations: %v", err)
	}
	if count == 0 {
		log.Fatal("No generation record found!")
	}

	log.Println("SUCCESS: Verified generation endpoint and history persistence")
}
