package broker

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

type call struct {
	Path   string
	Auth   string
	Body   map[string]any
	Status int
}

// fakeAPI отвечает по имени метода (последний сегмент пути).
type fakeAPI struct {
	mu       sync.Mutex
	calls    []call
	handlers map[string]func(n int) (int, string)
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	body := map[string]any{}
	_ = sonic.Unmarshal(raw, &body)

	method := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]

	f.mu.Lock()
	n := 0
	for _, c := range f.calls {
		if strings.HasSuffix(c.Path, "/"+method) {
			n++
		}
	}
	h, ok := f.handlers[method]
	status, resp := http.StatusNotFound, `{"code":5,"message":"not found"}`
	if ok {
		status, resp = h(n)
	}
	f.calls = append(f.calls, call{Path: r.URL.Path, Auth: r.Header.Get("Authorization"), Body: body, Status: status})
	f.mu.Unlock()

	w.WriteHeader(status)
	_, _ = w.Write([]byte(resp))
}

func (f *fakeAPI) callsTo(method string) []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []call
	for _, c := range f.calls {
		if strings.HasSuffix(c.Path, "/"+method) {
			out = append(out, c)
		}
	}
	return out
}

func ok(body string) func(int) (int, string) {
	return func(int) (int, string) { return http.StatusOK, body }
}

type ClientTestSuite struct {
	suite.Suite
	api    *fakeAPI
	server *httptest.Server
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

func (s *ClientTestSuite) SetupTest() {
	s.api = &fakeAPI{handlers: map[string]func(int) (int, string){}}
	s.server = httptest.NewServer(s.api)
}

func (s *ClientTestSuite) TearDownTest() {
	s.server.Close()
}

func (s *ClientTestSuite) client(sandbox bool) *Client {
	c := NewClient(Config{
		Token:        "t0ken",
		Sandbox:      sandbox,
		BaseURL:      s.server.URL,
		CallTimeout:  time.Second,
		MaxRetries:   2,
		RetryBackoff: time.Millisecond,
	}, zap.NewNop())
	c.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	return c
}

func (s *ClientTestSuite) TestIsMarketOpen() {
	tests := []struct {
		name     string
		body     string
		expected bool
	}{
		{name: "both flags", body: `{"marketOrderAvailableFlag":true,"apiTradeAvailableFlag":true}`, expected: true},
		{name: "api trading off", body: `{"marketOrderAvailableFlag":true,"apiTradeAvailableFlag":false}`, expected: false},
		{name: "market orders off", body: `{"marketOrderAvailableFlag":false,"apiTradeAvailableFlag":true}`, expected: false},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.api.handlers["GetTradingStatus"] = ok(tt.body)
			open, err := s.client(false).IsMarketOpen(context.Background(), "BBG000B9XRY4")
			s.Require().NoError(err)
			s.Equal(tt.expected, open)
		})
	}

	c := s.api.callsTo("GetTradingStatus")[0]
	s.Equal("/"+apiPrefix+"MarketDataService/GetTradingStatus", c.Path)
	s.Equal("Bearer t0ken", c.Auth)
	s.Equal("BBG000B9XRY4", c.Body["figi"])
}

func (s *ClientTestSuite) TestGetLastPrice() {
	s.api.handlers["GetLastPrices"] = ok(`{"lastPrices":[{"figi":"F1","price":{"units":"33","nano":330000000}}]}`)

	price, err := s.client(false).GetLastPrice(context.Background(), "F1")
	s.Require().NoError(err)
	s.InDelta(33.33, price, 1e-9)
}

func (s *ClientTestSuite) TestCandlesTrimmedToN() {
	s.api.handlers["GetCandles"] = ok(`{"candles":[
		{"open":{"units":"1","nano":0},"close":{"units":"2","nano":0}},
		{"open":{"units":"3","nano":0},"close":{"units":"4","nano":500000000}},
		{"open":{"units":"5","nano":0},"close":{"units":"6","nano":0}}
	]}`)
	c := s.client(false)

	closes, err := c.GetClosePrices(context.Background(), "F1", 2, Interval5Min)
	s.Require().NoError(err)
	s.Equal([]float64{4.5, 6}, closes)

	opens, err := c.GetOpenPrices(context.Background(), "F1", 2, Interval5Min)
	s.Require().NoError(err)
	s.Equal([]float64{3, 5}, opens)

	req := s.api.callsTo("GetCandles")[0].Body
	s.Equal("CANDLE_INTERVAL_5_MIN", req["interval"])
	s.Equal("2024-03-01T11:50:00Z", req["from"])
	s.Equal("2024-03-01T12:00:00Z", req["to"])
}

func (s *ClientTestSuite) TestUnsupportedInterval() {
	_, err := s.client(false).GetClosePrices(context.Background(), "F1", 2, CandleInterval("2m"))
	s.Error(err)
	s.Empty(s.api.callsTo("GetCandles"))
}

func (s *ClientTestSuite) TestHasOrderInProgress() {
	s.api.handlers["GetOrders"] = ok(`{"orders":[{"orderId":"1","figi":"OTHER"},{"orderId":"2","figi":"F1"}]}`)
	c := s.client(false)

	busy, err := c.HasOrderInProgress(context.Background(), "acc", "F1")
	s.Require().NoError(err)
	s.True(busy)

	busy, err = c.HasOrderInProgress(context.Background(), "acc", "F2")
	s.Require().NoError(err)
	s.False(busy)
}

func (s *ClientTestSuite) TestPostOrderSkipsZeroLots() {
	s.api.handlers["PostOrder"] = ok(`{}`)
	c := s.client(false)

	s.Require().NoError(c.PostBuyOrder(context.Background(), "acc", "F1", 0))
	s.Require().NoError(c.PostSellOrder(context.Background(), "acc", "F1", -1))
	s.Empty(s.api.callsTo("PostOrder"))
}

func (s *ClientTestSuite) TestPostOrderRetriesWithSameOrderID() {
	s.api.handlers["PostOrder"] = func(n int) (int, string) {
		if n == 0 {
			return http.StatusServiceUnavailable, `{"code":14,"message":"unavailable"}`
		}
		return http.StatusOK, `{"orderId":"x","executionReportStatus":"EXECUTION_REPORT_STATUS_NEW"}`
	}

	s.Require().NoError(s.client(false).PostBuyOrder(context.Background(), "acc", "F1", 3))

	calls := s.api.callsTo("PostOrder")
	s.Require().Len(calls, 2)
	s.Equal(calls[0].Body["orderId"], calls[1].Body["orderId"])
	s.NotEmpty(calls[0].Body["orderId"])
	s.Equal("3", calls[1].Body["quantity"])
	s.Equal("ORDER_DIRECTION_BUY", calls[1].Body["direction"])
	s.Equal("ORDER_TYPE_MARKET", calls[1].Body["orderType"])
	s.Equal("acc", calls[1].Body["accountId"])
}

func (s *ClientTestSuite) TestRetriesExhausted() {
	s.api.handlers["GetTradingStatus"] = func(int) (int, string) {
		return http.StatusBadGateway, `{"code":14,"message":"bad gateway"}`
	}

	_, err := s.client(false).IsMarketOpen(context.Background(), "F1")
	var ce *CollaboratorError
	s.Require().True(errors.As(err, &ce))
	s.Equal(http.StatusBadGateway, ce.Status)
	s.Equal(14, ce.Code)
	s.Len(s.api.callsTo("GetTradingStatus"), 3)
}

func (s *ClientTestSuite) TestClientErrorNotRetried() {
	s.api.handlers["GetTradingStatus"] = func(int) (int, string) {
		return http.StatusBadRequest, `{"code":3,"message":"invalid figi"}`
	}

	_, err := s.client(false).IsMarketOpen(context.Background(), "nope")
	var ce *CollaboratorError
	s.Require().True(errors.As(err, &ce))
	s.Equal("invalid figi", ce.Message)
	s.Len(s.api.callsTo("GetTradingStatus"), 1)
}

func (s *ClientTestSuite) TestCancelledContextStopsRetries() {
	s.api.handlers["GetTradingStatus"] = func(int) (int, string) {
		return http.StatusServiceUnavailable, `{}`
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.client(false).IsMarketOpen(ctx, "F1")
	s.Error(err)
	s.LessOrEqual(len(s.api.callsTo("GetTradingStatus")), 1)
}

func (s *ClientTestSuite) TestPortfolio() {
	s.api.handlers["GetPositions"] = ok(`{
		"money":[{"currency":"usd","units":"5","nano":0},{"currency":"rub","units":"1000","nano":250000000}],
		"securities":[{"figi":"F1","balance":"25"}]
	}`)
	c := s.client(false)

	cash, err := c.GetAvailableCash(context.Background(), "acc", "rub")
	s.Require().NoError(err)
	s.InDelta(1000.25, cash, 1e-9)

	cash, err = c.GetAvailableCash(context.Background(), "acc", "eur")
	s.Require().NoError(err)
	s.Zero(cash)

	held, err := c.GetHeldPositionRaw(context.Background(), "acc", "F1")
	s.Require().NoError(err)
	s.Equal(int64(25), held)

	held, err = c.GetHeldPositionRaw(context.Background(), "acc", "F2")
	s.Require().NoError(err)
	s.Zero(held)
}

func (s *ClientTestSuite) TestSandboxRouting() {
	s.api.handlers["GetSandboxPositions"] = ok(`{"securities":[{"figi":"F1","balance":"7"}]}`)
	s.api.handlers["GetSandboxOrders"] = ok(`{"orders":[]}`)
	s.api.handlers["PostSandboxOrder"] = ok(`{}`)
	c := s.client(true)

	held, err := c.GetHeldPositionRaw(context.Background(), "acc", "F1")
	s.Require().NoError(err)
	s.Equal(int64(7), held)

	_, err = c.HasOrderInProgress(context.Background(), "acc", "F1")
	s.Require().NoError(err)
	s.Require().NoError(c.PostSellOrder(context.Background(), "acc", "F1", 1))

	s.Equal("/"+apiPrefix+"SandboxService/GetSandboxPositions", s.api.callsTo("GetSandboxPositions")[0].Path)
	s.Len(s.api.callsTo("GetSandboxOrders"), 1)
	s.Equal("ORDER_DIRECTION_SELL", s.api.callsTo("PostSandboxOrder")[0].Body["direction"])
	s.Empty(s.api.callsTo("GetPositions"))
}

func (s *ClientTestSuite) TestLotSizeCached() {
	s.api.handlers["GetInstrumentBy"] = ok(`{"instrument":{"figi":"F1","lot":10}}`)
	c := s.client(false)

	for range 3 {
		lot, err := c.GetLotSize(context.Background(), "F1")
		s.Require().NoError(err)
		s.Equal(int64(10), lot)
	}
	s.Len(s.api.callsTo("GetInstrumentBy"), 1)
	s.Equal("INSTRUMENT_ID_TYPE_FIGI", s.api.callsTo("GetInstrumentBy")[0].Body["idType"])
}

func (s *ClientTestSuite) TestResolveAccount() {
	c := s.client(true)

	id, err := c.ResolveAccount(context.Background(), "configured")
	s.Require().NoError(err)
	s.Equal("configured", id)
	s.Empty(s.api.calls)

	s.api.handlers["GetSandboxAccounts"] = ok(`{"accounts":[]}`)
	s.api.handlers["OpenSandboxAccount"] = ok(`{"accountId":"new-acc"}`)
	id, err = c.ResolveAccount(context.Background(), "")
	s.Require().NoError(err)
	s.Equal("new-acc", id)

	s.api.handlers["GetSandboxAccounts"] = ok(`{"accounts":[{"id":"first"},{"id":"second"}]}`)
	id, err = c.ResolveAccount(context.Background(), "")
	s.Require().NoError(err)
	s.Equal("first", id)
}

func (s *ClientTestSuite) TestResolveAccountProdWithoutAccounts() {
	s.api.handlers["GetAccounts"] = ok(`{"accounts":[]}`)
	_, err := s.client(false).ResolveAccount(context.Background(), "")
	s.Error(err)
	s.Empty(s.api.callsTo("OpenSandboxAccount"))
}

func (s *ClientTestSuite) TestSandboxPayIn() {
	s.api.handlers["SandboxPayIn"] = ok(`{"balance":{"currency":"rub","units":"1500","nano":500000000}}`)
	c := s.client(true)

	balance, err := c.SandboxPayIn(context.Background(), "acc", decimal.RequireFromString("500.5"), "rub")
	s.Require().NoError(err)
	s.InDelta(1500.5, balance, 1e-9)

	amount := s.api.callsTo("SandboxPayIn")[0].Body["amount"].(map[string]any)
	s.Equal("500", amount["units"])
	s.EqualValues(500000000, amount["nano"])
	s.Equal("rub", amount["currency"])

	_, err = c.SandboxPayIn(context.Background(), "acc", decimal.NewFromInt(-1), "rub")
	s.Require().NoError(err)
	s.Len(s.api.callsTo("SandboxPayIn"), 1)
}

func (s *ClientTestSuite) TestSandboxOnlyCallsRejectedInProd() {
	_, err := s.client(false).SandboxPayIn(context.Background(), "acc", decimal.NewFromInt(1), "rub")
	s.Error(err)
	_, err = s.client(false).OpenSandboxAccount(context.Background())
	s.Error(err)
}

func TestParseCandleInterval(t *testing.T) {
	for in, want := range map[string]CandleInterval{
		"1m": Interval1Min, "5m": Interval5Min, "15m": Interval15Min, "60m": Interval1Hour, "1d": Interval1Day,
	} {
		got, err := ParseCandleInterval(in)
		if err != nil || got != want {
			t.Fatalf("ParseCandleInterval(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseCandleInterval("2m"); err == nil {
		t.Fatal("expected error for 2m")
	}
	if Interval1Hour.Duration() != time.Hour || Interval1Hour.API() != "CANDLE_INTERVAL_HOUR" {
		t.Fatal("1h mapping is broken")
	}
}

func TestQuotation(t *testing.T) {
	q := quotation{Units: -1, Nano: -500000000}
	if q.Float() != -1.5 {
		t.Fatalf("got %v", q.Float())
	}

	mv := newMoneyValue(decimal.RequireFromString("12.000000001"), "rub")
	if mv.Units != 12 || mv.Nano != 1 {
		t.Fatalf("got %+v", mv)
	}
}
