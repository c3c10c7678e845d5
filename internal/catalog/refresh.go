package catalog

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	"finvasia-agent/internal/logger"
)

// Refresher rebuilds the instrument snapshot from the exchange dump files:
// download each zip, extract the delimited text inside, parse it into
// records, group by exchange, write the snapshot atomically and reload the
// catalog. A failure at any step leaves both the snapshot file and the
// served catalog untouched.
type Refresher struct {
	httpClient   *http.Client
	dumpURLs     []string
	snapshotPath string
	catalog      *Catalog
}

// NewRefresher creates a refresher writing to snapshotPath and reloading
// the given catalog after each successful rebuild.
func NewRefresher(dumpURLs []string, snapshotPath string, cat *Catalog) *Refresher {
	return &Refresher{
		httpClient:   &http.Client{Timeout: 120 * time.Second},
		dumpURLs:     dumpURLs,
		snapshotPath: snapshotPath,
		catalog:      cat,
	}
}

// Refresh downloads and rebuilds the full snapshot.
func (r *Refresher) Refresh(ctx context.Context) error {
	byExchange := map[string][]Record{}
	total := 0

	for _, url := range r.dumpURLs {
		records, err := r.fetchDump(ctx, url)
		if err != nil {
			return fmt.Errorf("fetching instrument dump %s: %w", url, err)
		}
		for _, rec := range records {
			if rec.Exchange == "" {
				continue
			}
			byExchange[rec.Exchange] = append(byExchange[rec.Exchange], rec)
			total++
		}
	}

	if err := r.writeSnapshot(byExchange); err != nil {
		return err
	}

	r.catalog.Replace(byExchange)
	logger.Info(ctx, "Instrument snapshot refreshed", "records", total, "exchanges", len(byExchange))
	return nil
}

func (r *Refresher) fetchDump(ctx context.Context, url string) ([]Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	zr, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return nil, fmt.Errorf("opening dump archive: %w", err)
	}

	var records []Record
	for _, f := range zr.File {
		if !strings.HasSuffix(f.Name, ".txt") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		recs, err := ParseDump(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", f.Name, err)
		}
		records = append(records, recs...)
	}

	return records, nil
}

// ParseDump parses one header-row comma-delimited dump file.
func ParseDump(r io.Reader) ([]Record, error) {
	var records []Record
	if err := gocsv.Unmarshal(r, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// writeSnapshot writes the grouped snapshot through a temp file and renames
// it into place so concurrent readers of the file never see a partial write.
func (r *Refresher) writeSnapshot(byExchange map[string][]Record) error {
	b, err := json.MarshalIndent(byExchange, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding instrument snapshot: %w", err)
	}

	dir := filepath.Dir(r.snapshotPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating snapshot directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".instruments-*.json")
	if err != nil {
		return fmt.Errorf("creating snapshot temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing snapshot temp file: %w", err)
	}

	if err := os.Rename(tmpName, r.snapshotPath); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing snapshot: %w", err)
	}
	return nil
}
