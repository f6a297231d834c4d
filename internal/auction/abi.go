package auction

import (
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// itemTuple is the component list shared by every function returning an Item.
const itemTuple = `[
	{"name":"itemId","type":"uint256"},
	{"name":"itemName","type":"string"},
	{"name":"itemDescription","type":"string"},
	{"name":"startingPrice","type":"uint256"},
	{"name":"highestBid","type":"uint256"},
	{"name":"highestBidder","type":"address"},
	{"name":"bidderName","type":"string"},
	{"name":"active","type":"bool"},
	{"name":"endTime","type":"uint256"},
	{"name":"createdAt","type":"uint256"}
]`

// AuctionABI is the JSON ABI of the Auction contract.
var AuctionABI = `[
	{"type":"function","name":"addItem","stateMutability":"nonpayable","inputs":[
		{"name":"_itemName","type":"string"},
		{"name":"_itemDescription","type":"string"},
		{"name":"_startingPrice","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"addScheduledItem","stateMutability":"nonpayable","inputs":[
		{"name":"_itemName","type":"string"},
		{"name":"_itemDescription","type":"string"},
		{"name":"_startingPrice","type":"uint256"},
		{"name":"_duration","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"placeBid","stateMutability":"payable","inputs":[
		{"name":"_itemId","type":"uint256"},
		{"name":"_bidderName","type":"string"}],"outputs":[]},
	{"type":"function","name":"endAuction","stateMutability":"nonpayable","inputs":[
		{"name":"_itemId","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"checkAndEndAuction","stateMutability":"nonpayable","inputs":[
		{"name":"_itemId","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"withdraw","stateMutability":"nonpayable","inputs":[],"outputs":[]},
	{"type":"function","name":"getAllItems","stateMutability":"view","inputs":[],"outputs":[
		{"name":"","type":"tuple[]","components":` + itemTuple + `}]},
	{"type":"function","name":"getActiveItems","stateMutability":"view","inputs":[],"outputs":[
		{"name":"","type":"tuple[]","components":` + itemTuple + `}]},
	{"type":"function","name":"getItem","stateMutability":"view","inputs":[
		{"name":"_itemId","type":"uint256"}],"outputs":[
		{"name":"","type":"tuple","components":` + itemTuple + `}]},
	{"type":"function","name":"getPendingReturn","stateMutability":"view","inputs":[
		{"name":"_bidder","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"getContractBalance","stateMutability":"view","inputs":[],"outputs":[
		{"name":"","type":"uint256"}]},
	{"type":"function","name":"owner","stateMutability":"view","inputs":[],"outputs":[
		{"name":"","type":"address"}]},
	{"type":"function","name":"itemCount","stateMutability":"view","inputs":[],"outputs":[
		{"name":"","type":"uint256"}]},
	{"type":"function","name":"emergencyPause","stateMutability":"nonpayable","inputs":[],"outputs":[]},
	{"type":"event","name":"ItemAdded","anonymous":false,"inputs":[
		{"name":"itemId","type":"uint256","indexed":false},
		{"name":"itemName","type":"string","indexed":false},
		{"name":"startingPrice","type":"uint256","indexed":false},
		{"name":"endTime","type":"uint256","indexed":false}]},
	{"type":"event","name":"BidPlaced","anonymous":false,"inputs":[
		{"name":"itemId","type":"uint256","indexed":false},
		{"name":"bidder","type":"address","indexed":false},
		{"name":"bidderName","type":"string","indexed":false},
		{"name":"bidAmount","type":"uint256","indexed":false}]},
	{"type":"event","name":"AuctionEnded","anonymous":false,"inputs":[
		{"name":"itemId","type":"uint256","indexed":false},
		{"name":"winner","type":"address","indexed":false},
		{"name":"winningBid","type":"uint256","indexed":false}]},
	{"type":"event","name":"WithdrawalMade","anonymous":false,"inputs":[
		{"name":"bidder","type":"address","indexed":false},
		{"name":"amount","type":"uint256","indexed":false}]}
]`

var (
	parsedOnce sync.Once
	parsedABI  abi.ABI
	parseErr   error
)

// ParsedABI returns the Auction ABI, parsed once.
func ParsedABI() (abi.ABI, error) {
	parsedOnce.Do(func() {
		parsedABI, parseErr = abi.JSON(strings.NewReader(AuctionABI))
	})
	return parsedABI, parseErr
}
