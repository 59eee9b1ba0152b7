package market

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hjmartin/autobidder/internal/model"
)

func TestSearchAuctions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auctions" {
			t.Errorf("path = %q, want /auctions", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("type") != "player" || q.Get("itemId") != "158023" {
			t.Errorf("unexpected query: %v", q)
		}
		if q.Get("start") != "0" || q.Get("num") != "50" {
			t.Errorf("unexpected paging: %v", q)
		}
		if r.Header.Get("X-Platform") != "xbox" {
			t.Errorf("X-Platform = %q, want xbox", r.Header.Get("X-Platform"))
		}
		if r.Header.Get("X-Request-Id") == "" {
			t.Error("missing X-Request-Id header")
		}

		json.NewEncoder(w).Encode(map[string]any{
			"auctionInfo": []map[string]any{
				{"tradeId": "t1", "itemId": "158023", "currentBid": 500, "startingBid": 400, "expires": 120},
				{"tradeId": "t2", "itemId": "158023", "currentBid": 0, "startingBid": 700, "expires": -1, "bidState": "highest"},
			},
		})
	}))
	defer server.Close()

	c := NewHTTPClient(server.URL, WithPlatform("xbox"), WithTimeout(5*time.Second))

	trades, err := c.SearchAuctions(context.Background(), "player", "158023", 0, 50)
	if err != nil {
		t.Fatalf("SearchAuctions failed: %v", err)
	}
	if len(trades) != 2 {
		t.Fatalf("len(trades) = %d, want 2", len(trades))
	}
	want := model.Trade{TradeID: "t1", ItemID: "158023", CurrentBid: 500, StartingBid: 400, Expires: 120}
	if trades[0] != want {
		t.Errorf("trades[0] = %+v, want %+v", trades[0], want)
	}
	if !trades[1].Winning {
		t.Error("trades[1].Winning = false, want true for bidState highest")
	}
}

func TestBid(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("method = %q, want PUT", r.Method)
		}
		if r.URL.Path != "/trades/t42/bid" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var body struct {
			Bid int `json:"bid"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body.Bid != 950 {
			t.Errorf("bid = %d, want 950", body.Bid)
		}
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c := NewHTTPClient(server.URL)
	if err := c.Bid(context.Background(), "t42", 950); err != nil {
		t.Fatalf("Bid failed: %v", err)
	}
}

func TestCredits(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]int{"credits": 12_345})
	}))
	defer server.Close()

	c := NewHTTPClient(server.URL)
	credits, err := c.Credits(context.Background())
	if err != nil {
		t.Fatalf("Credits failed: %v", err)
	}
	if credits != 12_345 {
		t.Errorf("credits = %d, want 12345", credits)
	}
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		status int
		want   model.ErrorKind
	}{
		{401, model.ErrSessionExpired},
		{403, model.ErrPermissionDenied},
		{461, model.ErrPermissionDenied},
		{429, model.ErrTransient},
		{500, model.ErrTransient},
	}

	for _, tt := range tests {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
			json.NewEncoder(w).Encode(map[string]string{"reason": "nope"})
		}))

		c := NewHTTPClient(server.URL)
		_, err := c.Watchlist(context.Background())
		server.Close()

		if err == nil {
			t.Fatalf("status %d: expected error, got nil", tt.status)
		}
		if got := Classify(err); got != tt.want {
			t.Errorf("status %d: Classify = %q, want %q", tt.status, got, tt.want)
		}
		if tt.want == model.ErrSessionExpired && !IsSessionExpired(err) {
			t.Errorf("status %d: IsSessionExpired = false", tt.status)
		}
		report := Report(err)
		if report.Kind != tt.want || report.Code != tt.status || report.Detail != "nope" {
			t.Errorf("status %d: Report = %+v", tt.status, report)
		}
	}
}

func TestTradeStatus_BatchQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("tradeIds"); got != "a,b,c" {
			t.Errorf("tradeIds = %q, want a,b,c", got)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"auctionInfo": []map[string]any{
				{"tradeId": "a", "itemId": "1", "currentBid": 100, "expires": 0, "bidState": "highest"},
			},
		})
	}))
	defer server.Close()

	c := NewHTTPClient(server.URL)
	trades, err := c.TradeStatus(context.Background(), []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("TradeStatus failed: %v", err)
	}
	if len(trades) != 1 || !trades[0].Winning || !trades[0].Ended() {
		t.Errorf("trades = %+v", trades)
	}
}
