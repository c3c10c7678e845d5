package ops

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"finvasia-agent/internal/noren"
	"finvasia-agent/internal/types"
)

type fakeSession struct {
	token string
	err   error
}

func (f *fakeSession) Token(ctx context.Context) (string, error) {
	return f.token, f.err
}

type call struct {
	endpoint string
	payload  map[string]string
	token    string
}

type fakeCaller struct {
	calls []call
	resps []noren.Response
}

func (f *fakeCaller) Call(ctx context.Context, endpoint string, payload map[string]string, token string) noren.Response {
	f.calls = append(f.calls, call{endpoint: endpoint, payload: payload, token: token})
	if len(f.resps) == 0 {
		return noren.Response{Stat: noren.StatOK, Raw: json.RawMessage(`{"stat":"Ok"}`)}
	}
	resp := f.resps[0]
	if len(f.resps) > 1 {
		f.resps = f.resps[1:]
	}
	return resp
}

func newTestService(t *testing.T, client *fakeCaller) *Service {
	t.Setenv("FINVASIA_JOURNAL_DIR", t.TempDir())
	return NewService("FA0001", &fakeSession{token: "tok"}, client)
}

func TestPlaceOrderDefaults(t *testing.T) {
	client := &fakeCaller{}
	s := newTestService(t, client)

	s.PlaceOrder(context.Background(), types.PlaceOrderParams{
		Exch:     "NSE",
		Tsym:     "RELIANCE-EQ",
		Qty:      10,
		Trantype: "B",
	})

	if len(client.calls) != 1 {
		t.Fatalf("expected one broker call, got %d", len(client.calls))
	}
	c := client.calls[0]
	if c.endpoint != noren.EndpointPlaceOrder {
		t.Errorf("wrong endpoint %s", c.endpoint)
	}
	want := map[string]string{
		"uid": "FA0001", "actid": "FA0001",
		"qty": "10", "dscqty": "10",
		"prc": "0", "trgprc": "0",
		"prctyp": "MKT", "prd": "C", "ret": "DAY",
	}
	for k, v := range want {
		if c.payload[k] != v {
			t.Errorf("payload[%q] = %q, want %q", k, c.payload[k], v)
		}
	}
	if c.token != "tok" {
		t.Errorf("call must carry the session token, got %q", c.token)
	}
}

func TestPlaceOrderPriceImpliesLimit(t *testing.T) {
	client := &fakeCaller{}
	s := newTestService(t, client)

	s.PlaceOrder(context.Background(), types.PlaceOrderParams{
		Exch: "NSE", Tsym: "RELIANCE-EQ", Qty: 5, Trantype: "B", Prc: "2850.50",
	})

	c := client.calls[0]
	if c.payload["prctyp"] != "LMT" {
		t.Errorf("supplying a price must imply LMT, got %q", c.payload["prctyp"])
	}
	if c.payload["prc"] != "2850.50" {
		t.Errorf("price must pass through, got %q", c.payload["prc"])
	}
}

func TestModifyOrderOmitsAbsentOptionals(t *testing.T) {
	client := &fakeCaller{}
	s := newTestService(t, client)

	s.ModifyOrder(context.Background(), types.ModifyOrderParams{
		Norenordno: "24083100001",
		Exch:       "NSE",
		Tsym:       "RELIANCE-EQ",
		Qty:        "20",
	})

	c := client.calls[0]
	if c.payload["qty"] != "20" {
		t.Errorf("supplied qty must be sent, got %q", c.payload["qty"])
	}
	for _, absent := range []string{"prc", "trgprc", "bpprc", "blprc", "trailprc"} {
		if _, ok := c.payload[absent]; ok {
			t.Errorf("absent optional %q must not appear in payload", absent)
		}
	}
	if c.payload["prctyp"] != "MKT" || c.payload["ret"] != "DAY" {
		t.Errorf("defaults not applied: prctyp=%q ret=%q", c.payload["prctyp"], c.payload["ret"])
	}
}

func TestOrderMarginDerivativesProduct(t *testing.T) {
	client := &fakeCaller{}
	s := newTestService(t, client)

	s.OrderMargin(context.Background(), types.OrderMarginParams{
		Exch: "NFO", Tsym: "BANKNIFTY29MAY25C48000", Qty: "30", Prc: "120", Trantype: "B", Prctyp: "LMT",
	})
	if got := client.calls[0].payload["prd"]; got != "M" {
		t.Errorf("NFO margin checks must use product M, got %q", got)
	}

	s.OrderMargin(context.Background(), types.OrderMarginParams{
		Exch: "NSE", Tsym: "RELIANCE-EQ", Qty: "10", Prc: "2850", Trantype: "B", Prctyp: "LMT",
	})
	if got := client.calls[1].payload["prd"]; got != "C" {
		t.Errorf("equity margin checks default to product C, got %q", got)
	}
}

func TestAuthFailureDegradesToNotOk(t *testing.T) {
	client := &fakeCaller{}
	s := NewService("FA0001", &fakeSession{err: errors.New("authentication failed: bad OTP")}, client)

	resp := s.PlaceOrder(context.Background(), types.PlaceOrderParams{
		Exch: "NSE", Tsym: "RELIANCE-EQ", Qty: 1, Trantype: "B",
	})

	if resp.Stat != noren.StatNotOK || resp.Emsg == "" {
		t.Errorf("auth failure must degrade to Not_Ok with a message, got %+v", resp)
	}
	if len(client.calls) != 0 {
		t.Error("no unauthenticated request may reach the broker")
	}
}

func TestWatchlistTwoStep(t *testing.T) {
	client := &fakeCaller{resps: []noren.Response{
		{Stat: noren.StatOK, Raw: json.RawMessage(`{"stat":"Ok","values":["MW1","MW2"]}`)},
		{Stat: noren.StatOK, Raw: json.RawMessage(`{"stat":"Ok","values":[{"tsym":"RELIANCE-EQ"}]}`)},
	}}
	s := newTestService(t, client)

	resp := s.Watchlist(context.Background())

	if len(client.calls) != 2 {
		t.Fatalf("expected list then fetch, got %d calls", len(client.calls))
	}
	if client.calls[0].endpoint != noren.EndpointWatchlist {
		t.Errorf("first call must list watchlists, got %s", client.calls[0].endpoint)
	}
	if client.calls[1].endpoint != noren.EndpointMarketWatch {
		t.Errorf("second call must fetch the watchlist, got %s", client.calls[1].endpoint)
	}
	if client.calls[1].payload["wlname"] != "MW1" {
		t.Errorf("the first watchlist name must be fetched, got %q", client.calls[1].payload["wlname"])
	}
	if !resp.OK() {
		t.Errorf("expected Ok, got %+v", resp)
	}
}

func TestWatchlistEmptyAccount(t *testing.T) {
	client := &fakeCaller{resps: []noren.Response{
		{Stat: noren.StatOK, Raw: json.RawMessage(`{"stat":"Ok","values":[]}`)},
	}}
	s := newTestService(t, client)

	resp := s.Watchlist(context.Background())

	if len(client.calls) != 1 {
		t.Fatalf("no fetch call without a watchlist name, got %d calls", len(client.calls))
	}
	if resp.OK() {
		t.Error("an account with no watchlists must yield Not_Ok")
	}
}

func TestTradeBookDefaultsAccount(t *testing.T) {
	client := &fakeCaller{}
	s := newTestService(t, client)

	s.TradeBook(context.Background(), "")
	if got := client.calls[0].payload["actid"]; got != "FA0001" {
		t.Errorf("actid must default to uid, got %q", got)
	}

	s.TradeBook(context.Background(), "FA0002")
	if got := client.calls[1].payload["actid"]; got != "FA0002" {
		t.Errorf("supplied actid must win, got %q", got)
	}
}

func TestHoldingsProductDefault(t *testing.T) {
	client := &fakeCaller{}
	s := newTestService(t, client)

	s.Holdings(context.Background(), types.HoldingsParams{})
	if got := client.calls[0].payload["prd"]; got != "C" {
		t.Errorf("holdings product defaults to C, got %q", got)
	}
}

func TestBrokerRejectionPassesThrough(t *testing.T) {
	client := &fakeCaller{resps: []noren.Response{
		{Stat: noren.StatNotOK, Emsg: "Session Expired", Raw: json.RawMessage(`{"stat":"Not_Ok","emsg":"Session Expired"}`)},
	}}
	s := newTestService(t, client)

	resp := s.Balance(context.Background())
	if resp.Stat != noren.StatNotOK || resp.Emsg != "Session Expired" {
		t.Errorf("broker rejections must pass through untouched, got %+v", resp)
	}
}
