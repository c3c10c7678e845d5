// Package journal keeps an append-only daily record of order actions.
// One JSONL file per IST trading day; old files are gzipped after the
// retention window.
package journal

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

var mu sync.Mutex

var ist = time.FixedZone("IST", 19800)

// Entry is one order action as sent to and answered by the broker.
type Entry struct {
	Time          string         `json:"time"`
	Action        string         `json:"action"`
	TradingSymbol string         `json:"tsym,omitempty"`
	OrderNo       string         `json:"norenordno,omitempty"`
	Stat          string         `json:"stat"`
	Emsg          string         `json:"emsg,omitempty"`
	Extra         map[string]any `json:"extra,omitempty"`
}

func dir() string {
	if v := os.Getenv("FINVASIA_JOURNAL_DIR"); v != "" {
		return v
	}
	return "logs"
}

func dailyFilepath(t time.Time) string {
	return filepath.Join(dir(), t.In(ist).Format("2006-01-02")+".jsonl")
}

// Append records one entry under the current IST day. The timestamp is
// stamped here, not by the caller.
func Append(e Entry) error {
	mu.Lock()
	defer mu.Unlock()

	now := time.Now().In(ist)
	e.Time = now.Format("2006-01-02 15:04:05")

	p := dailyFilepath(now)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	b, _ := json.Marshal(e)
	_, err = fmt.Fprintln(f, string(b))
	return err
}

// CompressOlder gzips journal files older than retentionDays and removes
// the originals. retentionDays <= 0 disables compression.
func CompressOlder(retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)

	return filepath.WalkDir(dir(), func(p string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(p) != ".jsonl" {
			return nil
		}
		info, err := os.Stat(p)
		if err != nil || !info.ModTime().Before(cutoff) {
			return nil
		}
		return compressFile(p)
	})
}

func compressFile(p string) error {
	gz := p + ".gz"
	if _, err := os.Stat(gz); err == nil {
		return os.Remove(p)
	}

	in, err := os.Open(p)
	if err != nil {
		return nil
	}
	defer in.Close()

	out, err := os.OpenFile(gz, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil
	}
	gw := gzip.NewWriter(out)
	if _, err := io.Copy(gw, in); err != nil {
		gw.Close()
		out.Close()
		os.Remove(gz)
		return nil
	}
	if err := gw.Close(); err != nil {
		out.Close()
		os.Remove(gz)
		return nil
	}
	if err := out.Close(); err != nil {
		return nil
	}
	return os.Remove(p)
}
