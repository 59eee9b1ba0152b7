package watch

import (
	"sort"

	"github.com/hjmartin/autobidder/internal/model"
)

// aggregate computes the immutable per-item snapshot over all tracked
// trades. Bid statistics cover trades with a live bid; minUnsoldList
// covers auctions that ended without one.
func aggregate(itemID string, tracked map[string]model.Trade) model.Snapshot {
	snap := model.Snapshot{
		ItemID: itemID,
		Total:  len(tracked),
	}

	bids := make([]int, 0, len(tracked))
	for _, tr := range tracked {
		if tr.Expires > 0 {
			snap.Active++
		}
		if tr.CurrentBid > 0 {
			bids = append(bids, tr.CurrentBid)
		}
		if tr.UnsoldExpired() {
			if snap.MinUnsoldList == 0 || tr.StartingBid < snap.MinUnsoldList {
				snap.MinUnsoldList = tr.StartingBid
			}
		}
	}

	snap.Bidding = len(bids)
	if len(bids) > 0 {
		sort.Ints(bids)
		snap.Lowest = bids[0]
		// Lower-middle element for even-sized sets.
		snap.Median = bids[(len(bids)-1)/2]
		sum := 0
		for _, b := range bids {
			sum += b
		}
		snap.Mean = sum / len(bids)
	}

	return snap
}
