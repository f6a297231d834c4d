package session

import (
	"math/big"
	"time"

	"github.com/Mohsinsiddi/bidcli/internal/auction"
)

func ether(s string) *big.Int {
	v, err := auction.ParseEther(s)
	if err != nil {
		panic(err)
	}
	return v
}

// DemoItems returns the built-in auction list served in demo mode.
func DemoItems() []auction.Item {
	now := uint64(time.Now().Unix())
	return []auction.Item{
		{
			ID:            1,
			Name:          "Cyber Dragon NFT",
			Description:   "Legendary digital dragon with plasma breath",
			StartingPrice: ether("0.5"),
			HighestBid:    ether("2.3"),
			HighestBidder: "0x742d35Cc6634C0532925a3b8D4C9db96590c6C87",
			BidderName:    "CryptoWarrior",
			Active:        true,
			CreatedAt:     now,
		},
		{
			ID:            2,
			Name:          "Neon City Artwork",
			Description:   "Futuristic cityscape with holographic elements",
			StartingPrice: ether("1.0"),
			HighestBid:    ether("1.8"),
			HighestBidder: "0x8ba1f109551bD432803012645Aac136c30C6C87",
			BidderName:    "BlockMaster",
			Active:        true,
			CreatedAt:     now,
		},
		{
			ID:            3,
			Name:          "Digital Sword of Power",
			Description:   "Legendary weapon from the metaverse",
			StartingPrice: ether("0.8"),
			HighestBid:    ether("3.2"),
			HighestBidder: "0x123d35Cc6634C0532925a3b8D4C9db96590c1234",
			BidderName:    "NFTHunter",
			Active:        false,
			CreatedAt:     now,
		},
	}
}
