package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/GoogleCloudPlatform/functions-framework-go/funcframework"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"crosswarped.com/anagram"
	"crosswarped.com/anagram/internal/wordsource"
)

const maxWordCountLimit = 10

type SolveRequest struct {
	Anagram      string   `json:"anagram"`
	Checksum     string   `json:"checksum"`
	Digest       string   `json:"digest"`
	MaxWordCount int      `json:"maxWordCount"`
	Words        []string `json:"words"`
	WordTable    string   `json:"wordTable"`
	FoldAccents  bool     `json:"foldAccents"`
}

type SolveResponse struct {
	Success  bool   `json:"success"`
	Found    bool   `json:"found"`
	Phrase   string `json:"phrase,omitempty"`
	Nodes    int64  `json:"nodes"`
	Verified int64  `json:"verified"`
	Error    string `json:"error,omitempty"`
}

var logger = zap.NewNop()

// loadTableWords is swapped out in tests.
var loadTableWords = func(ctx context.Context, table string, opts wordsource.Options) ([]string, error) {
	project := os.Getenv("GOOGLE_CLOUD_PROJECT")
	if project == "" {
		project = "xword-x"
	}
	return wordsource.LoadBigQuery(ctx, wordsource.BigQueryParams{
		Project: project,
		Table:   table,
	}, opts)
}

func execute(ctx context.Context, req SolveRequest) (anagram.Result, error) {
	if req.MaxWordCount < 0 {
		return anagram.Result{}, fmt.Errorf("maxWordCount must be at least 1")
	}
	if req.MaxWordCount > maxWordCountLimit {
		return anagram.Result{}, fmt.Errorf("maxWordCount must be at most %d", maxWordCountLimit)
	}

	opts := wordsource.Options{FoldAccents: req.FoldAccents}
	words := make([]string, 0, len(req.Words))
	for _, w := range req.Words {
		if w = wordsource.Normalize(w, opts); w != "" {
			words = append(words, w)
		}
	}

	if req.WordTable != "" {
		tableWords, err := loadTableWords(ctx, req.WordTable, opts)
		if err != nil {
			return anagram.Result{}, fmt.Errorf("loadTableWords: %w", err)
		}
		logger.Info("loaded words", zap.String("table", req.WordTable), zap.Int("words", len(tableWords)))
		words = append(words, tableWords...)
	}

	if req.Words == nil && req.WordTable == "" {
		return anagram.Result{}, fmt.Errorf("words or wordTable is required")
	}

	solver, err := anagram.CreateSolver(req.Anagram, req.Checksum, words, anagram.SolverParams{
		MaxWordCount: req.MaxWordCount,
		Digest:       anagram.Digest(req.Digest),
		Logger:       logger,
	})
	if err != nil {
		return anagram.Result{}, err
	}

	deadline, ok := ctx.Deadline()
	timeout := 1 * time.Minute
	if ok {
		timeout = time.Until(deadline) - 5*time.Second
		logger.Info("setting timeout", zap.Duration("timeout", timeout))
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return solver.Solve(ctx)
}

func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Content-Type", "application/json")
}

func solveAnagram(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)

	// Handle OPTIONS request for CORS preflight
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		fmt.Fprintf(w, `{"success": false, "error": "Method %s not allowed"}`, r.Method)
		return
	}

	var req SolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("error parsing JSON body", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(SolveResponse{
			Success: false,
			Error:   fmt.Sprintf("Invalid JSON: %v", err),
		})
		return
	}

	res, err := execute(r.Context(), req)

	response := SolveResponse{
		Success:  err == nil,
		Found:    res.Found,
		Phrase:   res.Phrase,
		Nodes:    res.Nodes,
		Verified: res.Verified,
	}
	if err != nil {
		response.Error = err.Error()
		if !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
			w.WriteHeader(http.StatusBadRequest)
		}
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.Error("error marshaling response", zap.Error(err))
	}
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v\n", err)
	}

	var err error
	if logger, err = zap.NewProduction(); err != nil {
		log.Fatalf("zap.NewProduction: %v\n", err)
	}
	defer logger.Sync()

	funcframework.RegisterHTTPFunction("/solve", solveAnagram)
	funcframework.RegisterHTTPFunction("/metrics", promhttp.Handler().ServeHTTP)

	port := "8080"
	if envPort := os.Getenv("PORT"); envPort != "" {
		port = envPort
	}
	hostname := ""
	if localOnly := os.Getenv("LOCAL_ONLY"); localOnly == "true" {
		hostname = "127.0.0.1"
	}
	if err := funcframework.StartHostPort(hostname, port); err != nil {
		log.Fatalf("funcframework.StartHostPort: %v\n", err)
	}
}
