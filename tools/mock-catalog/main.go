// Package main implements a mock catalog API server for local development.
// It serves an in-memory product set behind the same endpoints the real
// catalog exposes (search, create, update), so the sync engine can run end to
// end without touching a live store.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

type product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Model       string `json:"model,omitempty"`
	SKU         string `json:"sku,omitempty"`
	Price       string `json:"price,omitempty"`
	Description string `json:"description,omitempty"`
}

type searchResponse struct {
	Products []product `json:"products"`
	Total    int       `json:"total"`
}

// catalogState holds the mutable product set.
type catalogState struct {
	mu       sync.Mutex
	products []product
	nextID   int
}

func main() {
	port := flag.Int("port", 8090, "port to listen on")
	fixtureFile := flag.String("fixture", "", "optional JSON fixture with initial products")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	state := &catalogState{nextID: 1000}
	if *fixtureFile != "" {
		products, err := loadFixture(*fixtureFile)
		if err != nil {
			logger.Error("failed to load fixture", "path", *fixtureFile, "error", err)
			os.Exit(1)
		}
		state.products = products
		logger.Info("loaded fixture", "products", len(products))
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /products/search", searchHandler(logger, state))
	mux.HandleFunc("POST /products", createHandler(logger, state))
	mux.HandleFunc("PUT /products/{id}", updateHandler(logger, state))

	addr := fmt.Sprintf(":%d", *port)
	logger.Info("starting mock catalog server", "addr", addr)

	srv := &http.Server{
		Addr:         addr,
		Handler:      requestLogger(logger, mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func loadFixture(path string) ([]product, error) {
	data, err := os.ReadFile(path) //nolint:gosec // fixture path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading fixture: %w", err)
	}
	var products []product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("parsing fixture: %w", err)
	}
	return products, nil
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("request", "method", r.Method, "path", r.URL.Path, "query", r.URL.RawQuery)
		next.ServeHTTP(w, r)
	})
}

func searchHandler(logger *slog.Logger, state *catalogState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := strings.ToLower(r.URL.Query().Get("q"))

		state.mu.Lock()
		var matched []product
		for _, p := range state.products {
			haystack := strings.ToLower(p.Name + " " + p.Model + " " + p.Description)
			if q == "" || strings.Contains(haystack, q) {
				matched = append(matched, p)
			}
		}
		state.mu.Unlock()

		if matched == nil {
			matched = []product{}
		}

		w.Header().Set("Content-Type", "application/json")
		//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
		json.NewEncoder(w).Encode(searchResponse{Products: matched, Total: len(matched)})
		logger.Info("search", "query", q, "matched", len(matched))
	}
}

func createHandler(logger *slog.Logger, state *catalogState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var p product
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			http.Error(w, `{"error":"invalid body"}`, http.StatusBadRequest)
			return
		}

		state.mu.Lock()
		state.nextID++
		p.ID = strconv.Itoa(state.nextID)
		state.products = append(state.products, p)
		state.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
		json.NewEncoder(w).Encode(map[string]string{"id": p.ID})
		logger.Info("product created", "id", p.ID, "name", p.Name)
	}
}

func updateHandler(logger *slog.Logger, state *catalogState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")

		var p product
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			http.Error(w, `{"error":"invalid body"}`, http.StatusBadRequest)
			return
		}

		state.mu.Lock()
		defer state.mu.Unlock()
		for i := range state.products {
			if state.products[i].ID == id {
				p.ID = id
				state.products[i] = p
				w.Header().Set("Content-Type", "application/json")
				//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
				json.NewEncoder(w).Encode(map[string]string{"id": id})
				logger.Info("product updated", "id", id, "name", p.Name)
				return
			}
		}

		http.Error(w, `{"error":"product not found"}`, http.StatusNotFound)
	}
}
