package catalog

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const nfoDump = `Exchange,Token,LotSize,Symbol,TradingSymbol,Expiry,Instrument,OptionType,StrikePrice,TickSize
NFO,36612,30,BANKNIFTY,BANKNIFTY29MAY25C48000,29-MAY-2025,OPTIDX,CE,48000.00,0.05
NFO,36613,30,BANKNIFTY,BANKNIFTY29MAY25P48000,29-MAY-2025,OPTIDX,PE,48000.00,0.05
`

const nseDump = `Exchange,Token,LotSize,Symbol,TradingSymbol,Instrument,TickSize
NSE,2885,1,RELIANCE,RELIANCE-EQ,EQ,0.05
`

func TestParseDump(t *testing.T) {
	records, err := ParseDump(strings.NewReader(nfoDump))
	if err != nil {
		t.Fatalf("ParseDump: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	r := records[0]
	if r.Exchange != "NFO" || r.Symbol != "BANKNIFTY" || r.OptionType != "CE" {
		t.Errorf("unexpected record: %+v", r)
	}
	if r.Expiry != "29-MAY-2025" || r.StrikePrice != "48000.00" {
		t.Errorf("dump columns must ride along verbatim: %+v", r)
	}
}

func TestParseDumpMissingOptionalColumns(t *testing.T) {
	records, err := ParseDump(strings.NewReader(nseDump))
	if err != nil {
		t.Fatalf("ParseDump: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].OptionType != "" || records[0].Expiry != "" {
		t.Errorf("missing columns must stay empty: %+v", records[0])
	}
}

func zipDump(t *testing.T, name, content string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create(name)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestRefreshRebuildsSnapshotAndCatalog(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/NFO"):
			w.Write(zipDump(t, "NFO_symbols.txt", nfoDump))
		default:
			w.Write(zipDump(t, "NSE_symbols.txt", nseDump))
		}
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "instruments.json")
	cat := New()
	ref := NewRefresher([]string{srv.URL + "/NFO_symbols.txt.zip", srv.URL + "/NSE_symbols.txt.zip"}, path, cat)

	if err := ref.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	if len(cat.Query("NFO")) != 2 || len(cat.Query("NSE")) != 1 {
		t.Errorf("catalog not rebuilt: NFO=%d NSE=%d", len(cat.Query("NFO")), len(cat.Query("NSE")))
	}

	// The snapshot file must be readable by a fresh catalog.
	cat2 := New()
	if err := cat2.Load(path); err != nil {
		t.Fatalf("reloading written snapshot: %v", err)
	}
	if cat2.Len() != 3 {
		t.Errorf("expected 3 records in written snapshot, got %d", cat2.Len())
	}
}

func TestRefreshFailureKeepsServedCatalog(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "instruments.json")
	if err := os.WriteFile(path, []byte(snapshotJSON), 0o644); err != nil {
		t.Fatal(err)
	}

	cat := New()
	if err := cat.Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}

	ref := NewRefresher([]string{srv.URL + "/NFO_symbols.txt.zip"}, path, cat)
	if err := ref.Refresh(context.Background()); err == nil {
		t.Fatal("expected refresh failure")
	}

	if len(cat.Query("NFO")) != 2 {
		t.Error("failed refresh must not disturb the served catalog")
	}

	b, err := os.ReadFile(path)
	if err != nil || !bytes.Equal(b, []byte(snapshotJSON)) {
		t.Error("failed refresh must not rewrite the snapshot file")
	}
}
