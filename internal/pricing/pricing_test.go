package pricing

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/hjmartin/autobidder/internal/ladder"
	"github.com/hjmartin/autobidder/internal/model"
)

type fakeStore struct {
	saves int
	err   error
	last  []*model.Item
}

func (f *fakeStore) SaveItems(ctx context.Context, items []*model.Item) error {
	f.saves++
	f.last = items
	return f.err
}

func TestSetPrice(t *testing.T) {
	store := &fakeStore{}
	var got []model.Message
	p := New(ladder.Default(), store, func(m model.Message) { got = append(got, m) }, nil)

	item := &model.Item{ID: "1", Name: "Lewandowski"}
	items := []*model.Item{item}

	if err := p.SetPrice(context.Background(), items, item, 10_000); err != nil {
		t.Fatalf("SetPrice failed: %v", err)
	}

	if item.Sell != 10_000 {
		t.Errorf("Sell = %d, want 10000", item.Sell)
	}
	if item.Buy != 9_000 {
		t.Errorf("Buy = %d, want 9000", item.Buy)
	}
	if item.Bin != 12_500 {
		t.Errorf("Bin = %d, want 12500", item.Bin)
	}
	if store.saves != 1 {
		t.Errorf("saves = %d, want 1", store.saves)
	}

	if len(got) != 1 {
		t.Fatalf("messages = %d, want 1", len(got))
	}
	ll, ok := got[0].(model.LogLine)
	if !ok {
		t.Fatalf("message = %#v, want LogLine", got[0])
	}
	if !strings.Contains(ll.Text, "Lewandowski") || !strings.Contains(ll.Text, "9000/10000/12500") {
		t.Errorf("log line = %q", ll.Text)
	}
}

func TestSetPrice_StoreError(t *testing.T) {
	store := &fakeStore{err: errors.New("disk full")}
	p := New(ladder.Default(), store, nil, nil)

	item := &model.Item{ID: "1", Name: "x"}
	if err := p.SetPrice(context.Background(), []*model.Item{item}, item, 5_000); err == nil {
		t.Fatal("expected error, got nil")
	}
	// Prices are still derived; persistence is retried on the next update.
	if item.Buy != 4_500 {
		t.Errorf("Buy = %d, want 4500", item.Buy)
	}
}
