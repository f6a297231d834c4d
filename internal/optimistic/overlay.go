package optimistic

import (
	"math/big"

	"github.com/Mohsinsiddi/bidcli/internal/auction"
)

// OverlayBid returns a new slice where the item bid.ItemID carries the bid's
// amount and bidder and is flagged optimistic. items is not modified.
func OverlayBid(items []auction.Item, b Bid) []auction.Item {
	out := make([]auction.Item, len(items))
	copy(out, items)
	for i := range out {
		if out[i].ID != b.ItemID {
			continue
		}
		out[i].HighestBid = new(big.Int).Set(b.Amount)
		out[i].HighestBidder = b.BidderAddress
		out[i].BidderName = b.BidderName
		out[i].Optimistic = true
	}
	return out
}

// Compose appends pending items to base and then overlays each bid in order.
func Compose(base, pending []auction.Item, bids []Bid) []auction.Item {
	out := make([]auction.Item, 0, len(base)+len(pending))
	out = append(out, base...)
	out = append(out, pending...)
	for _, b := range bids {
		out = OverlayBid(out, b)
	}
	return out
}
