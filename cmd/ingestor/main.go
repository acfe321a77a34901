package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ibarrondo/aeronav/internal/pkg/config"
	"github.com/ibarrondo/aeronav/internal/pkg/metrics"
)

// ---------------------------------------------------------------------------
// Manifest types
// ---------------------------------------------------------------------------

type Manifest struct {
	Source   string         `json:"source"`
	Datasets []DatasetEntry `json:"datasets"`
}

type DatasetEntry struct {
	Name string `json:"name"`
	Kind string `json:"kind"` // "airport" | "navaid" | "fix"
	URL  string `json:"url"`  // http(s) URL or local file path
}

// ---------------------------------------------------------------------------
// Main
// ---------------------------------------------------------------------------

func main() {
	cfg, err := config.Load("aeronav-ingestor")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	// Load manifest
	manifestPath := "manifest.json"
	if len(os.Args) > 1 {
		manifestPath = os.Args[1]
	}

	data, err := os.ReadFile(manifestPath)
	if err != nil {
		log.Fatalf("read manifest: %v", err)
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		log.Fatalf("parse manifest: %v", err)
	}

	log.Printf("AeroNav waypoint ingestor — %d datasets from %s", len(manifest.Datasets), manifest.Source)

	client := &http.Client{Timeout: 120 * time.Second}

	var wg sync.WaitGroup
	sem := make(chan struct{}, 4) // max 4 concurrent downloads

	for _, ds := range manifest.Datasets {
		wg.Add(1)
		go func(d DatasetEntry) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if err := ingestDataset(ctx, pool, client, d); err != nil {
				log.Printf("ERROR [%s]: %v", d.Name, err)
			}
		}(ds)
	}

	wg.Wait()
	log.Println("ingestion complete")
}

// ---------------------------------------------------------------------------
// Per-dataset ingestion
// ---------------------------------------------------------------------------

func ingestDataset(ctx context.Context, pool *pgxpool.Pool, client *http.Client, ds DatasetEntry) error {
	switch ds.Kind {
	case "airport", "navaid", "fix":
	default:
		return fmt.Errorf("unknown dataset kind %q", ds.Kind)
	}

	body, err := fetch(client, ds.URL)
	if err != nil {
		return err
	}
	defer body.Close()

	reader := csv.NewReader(body)
	reader.LazyQuotes = true
	header, err := reader.Read()
	if err != nil {
		return err
	}
	cols := indexColumns(header)

	const batchSize = 500
	batch := &pgx.Batch{}
	count := 0
	total := 0

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}

		ident := strings.ToUpper(getField(record, cols, "ident"))
		name := getField(record, cols, "name")
		country := getField(record, cols, "iso_country")
		lat, _ := strconv.ParseFloat(getField(record, cols, "latitude_deg"), 64)
		lon, _ := strconv.ParseFloat(getField(record, cols, "longitude_deg"), 64)

		if ident == "" || (lat == 0 && lon == 0) {
			continue
		}

		var elevation interface{}
		if raw := getField(record, cols, "elevation_ft"); raw != "" {
			if ft, err := strconv.Atoi(raw); err == nil {
				elevation = ft
			}
		}

		batch.Queue(`
			INSERT INTO waypoints (ident, name, kind, country, location, elevation_ft)
			VALUES ($1, $2, $3, $4, ST_SetSRID(ST_MakePoint($5, $6), 4326)::geography, $7)
			ON CONFLICT (ident) DO UPDATE
			SET name = EXCLUDED.name, kind = EXCLUDED.kind,
			    country = EXCLUDED.country, location = EXCLUDED.location,
			    elevation_ft = EXCLUDED.elevation_ft
		`, ident, name, ds.Kind, nilEmpty(country), lon, lat, elevation)

		count++
		total++

		if count >= batchSize {
			if err := flushBatch(ctx, pool, batch, count); err != nil {
				return err
			}
			metrics.WaypointsIngested.Add(float64(count))
			batch = &pgx.Batch{}
			count = 0
		}
	}

	if count > 0 {
		if err := flushBatch(ctx, pool, batch, count); err != nil {
			return err
		}
		metrics.WaypointsIngested.Add(float64(count))
	}

	log.Printf("[%s]   waypoints: %d", ds.Name, total)
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// fetch opens a dataset from an http(s) URL or a local file path.
func fetch(client *http.Client, url string) (io.ReadCloser, error) {
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		resp, err := client.Get(url)
		if err != nil {
			return nil, fmt.Errorf("download: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
		}
		return resp.Body, nil
	}
	f, err := os.Open(url)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	return f, nil
}

func indexColumns(header []string) map[string]int {
	m := make(map[string]int, len(header))
	for i, col := range header {
		// Strip BOM from first column
		col = strings.TrimPrefix(col, "\xef\xbb\xbf")
		m[strings.TrimSpace(col)] = i
	}
	return m
}

func getField(record []string, cols map[string]int, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

func nilEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func flushBatch(ctx context.Context, pool *pgxpool.Pool, batch *pgx.Batch, count int) error {
	br := pool.SendBatch(ctx, batch)
	defer br.Close()
	for i := 0; i < count; i++ {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("batch item %d: %w", i, err)
		}
	}
	return nil
}
