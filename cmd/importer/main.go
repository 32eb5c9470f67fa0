package main

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/samirrijal/trailhub/internal/pkg/config"
)

// ---------------------------------------------------------------------------
// Manifest types
// ---------------------------------------------------------------------------

type Manifest struct {
	Source   string         `json:"source"`
	Trackers []TrackerEntry `json:"trackers"`
}

type TrackerEntry struct {
	TrackerID  string `json:"tracker_id"`
	Name       string `json:"name"`
	Kind       string `json:"kind"`
	Owner      string `json:"owner,omitempty"`
	ArchiveURL string `json:"archive_url"`
}

// ---------------------------------------------------------------------------
// Main
// ---------------------------------------------------------------------------

func main() {
	cfg, err := config.Load("trailhub-importer")
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

	log.Printf("TrailHub archive importer — %d trackers from %s", len(manifest.Trackers), manifest.Source)

	// Filter trackers (optional CLI arg: tracker_id list)
	idFilter := map[string]bool{}
	if len(os.Args) > 2 {
		for _, s := range strings.Split(os.Args[2], ",") {
			idFilter[strings.TrimSpace(s)] = true
		}
	}

	client := &http.Client{Timeout: 120 * time.Second}

	var wg sync.WaitGroup
	sem := make(chan struct{}, 4) // max 4 concurrent downloads

	for _, tracker := range manifest.Trackers {
		if len(idFilter) > 0 && !idFilter[tracker.TrackerID] {
			continue
		}

		wg.Add(1)
		go func(t TrackerEntry) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if err := importTracker(ctx, pool, client, t); err != nil {
				log.Printf("ERROR [%s]: %v", t.TrackerID, err)
			}
		}(tracker)
	}

	wg.Wait()
	log.Println("import complete")
}

// ---------------------------------------------------------------------------
// Per-tracker import
// ---------------------------------------------------------------------------

func importTracker(ctx context.Context, pool *pgxpool.Pool, client *http.Client, entry TrackerEntry) error {
	body, err := fetchArchive(client, entry.ArchiveURL)
	if err != nil {
		return err
	}

	zr, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return fmt.Errorf("open zip: %w", err)
	}

	if err := upsertTracker(ctx, pool, entry); err != nil {
		return fmt.Errorf("upsert tracker: %w", err)
	}
	log.Printf("[%s] tracker upserted", entry.TrackerID)

	// Each CSV file in the archive is one recorded trail.
	imported := 0
	for _, f := range zr.File {
		if !strings.EqualFold(filepath.Ext(f.Name), ".csv") {
			continue
		}
		if err := importTrail(ctx, pool, entry.TrackerID, f); err != nil {
			log.Printf("[%s] trail %s: %v", entry.TrackerID, f.Name, err)
			continue
		}
		imported++
	}

	log.Printf("[%s] done, %d trails", entry.TrackerID, imported)
	return nil
}

func fetchArchive(client *http.Client, url string) ([]byte, error) {
	// Local paths are allowed so test fixtures can be re-imported offline.
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		data, err := os.ReadFile(url)
		if err != nil {
			return nil, fmt.Errorf("read archive: %w", err)
		}
		return data, nil
	}

	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

// ---------------------------------------------------------------------------
// Tracker upsert
// ---------------------------------------------------------------------------

func upsertTracker(ctx context.Context, pool *pgxpool.Pool, t TrackerEntry) error {
	kind := t.Kind
	if kind == "" {
		kind = "gps"
	}
	_, err := pool.Exec(ctx, `
		INSERT INTO trackers (tracker_id, name, kind, owner, active, metadata)
		VALUES ($1, $2, $3, $4, false, '{}')
		ON CONFLICT (tracker_id) DO UPDATE
		SET name = EXCLUDED.name, kind = EXCLUDED.kind, owner = EXCLUDED.owner
	`, t.TrackerID, t.Name, kind, nilEmpty(t.Owner))
	return err
}

// ---------------------------------------------------------------------------
// Trails
// ---------------------------------------------------------------------------

func importTrail(ctx context.Context, pool *pgxpool.Pool, trackerID string, zf *zip.File) error {
	f, err := zf.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.LazyQuotes = true
	header, err := reader.Read()
	if err != nil {
		return err
	}
	cols := indexColumns(header)

	name := strings.TrimSuffix(filepath.Base(zf.Name), filepath.Ext(zf.Name))
	trailID := trackerID + "-" + name

	type rawFix struct {
		Time      time.Time
		Lat       float64
		Lon       float64
		Elevation float64
		Speed     float64
		Heading   float64
		Accuracy  float64
	}

	var fixes []rawFix
	var firstTime, lastTime time.Time

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}

		ts, err := time.Parse(time.RFC3339, strings.TrimSpace(record[cols["time"]]))
		if err != nil {
			continue
		}
		lat, _ := strconv.ParseFloat(strings.TrimSpace(record[cols["lat"]]), 64)
		lon, _ := strconv.ParseFloat(strings.TrimSpace(record[cols["lon"]]), 64)
		elevation, _ := strconv.ParseFloat(getField(record, cols, "elevation"), 64)
		speed, _ := strconv.ParseFloat(getField(record, cols, "speed"), 64)
		heading, _ := strconv.ParseFloat(getField(record, cols, "heading"), 64)
		accuracy, _ := strconv.ParseFloat(getField(record, cols, "accuracy"), 64)

		if lat == 0 && lon == 0 {
			continue
		}
		if firstTime.IsZero() || ts.Before(firstTime) {
			firstTime = ts
		}
		if ts.After(lastTime) {
			lastTime = ts
		}

		fixes = append(fixes, rawFix{ts, lat, lon, elevation, speed, heading, accuracy})
	}

	if len(fixes) == 0 {
		return fmt.Errorf("no usable fixes in %s", zf.Name)
	}

	// The trail row must exist before its fixes reference it.
	_, err = pool.Exec(ctx, `
		INSERT INTO trails (trail_id, tracker_id, name, started_at, ended_at, metadata)
		VALUES ($1, $2, $3, $4, $5, '{}')
		ON CONFLICT (trail_id) DO UPDATE
		SET started_at = EXCLUDED.started_at, ended_at = EXCLUDED.ended_at
	`, trailID, trackerID, name, firstTime, lastTime)
	if err != nil {
		return fmt.Errorf("create trail: %w", err)
	}

	const batchSize = 1000
	batch := &pgx.Batch{}
	count := 0

	for _, fx := range fixes {
		batch.Queue(`
			INSERT INTO fixes (time, tracker_id, trail_id, location, elevation, speed, heading, accuracy, metadata)
			VALUES ($1, $2, $3, ST_SetSRID(ST_MakePoint($4, $5), 4326)::geography, $6, $7, $8, $9, '{}')
		`, fx.Time, trackerID, trailID, fx.Lon, fx.Lat, fx.Elevation, fx.Speed, fx.Heading, fx.Accuracy)

		count++
		if count >= batchSize {
			if err := flushBatch(ctx, pool, batch, count); err != nil {
				log.Printf("[%s]   fixes batch error (continuing): %v", trackerID, err)
			}
			batch = &pgx.Batch{}
			count = 0
		}
	}

	if count > 0 {
		if err := flushBatch(ctx, pool, batch, count); err != nil {
			log.Printf("[%s]   fixes final batch error: %v", trackerID, err)
		}
	}

	log.Printf("[%s]   trail %s: %d fixes", trackerID, trailID, len(fixes))
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

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
