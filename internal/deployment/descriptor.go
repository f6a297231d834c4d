// Package deployment finds out which Auction contract to talk to.
package deployment

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Errors.
var (
	ErrNoDeployment      = errors.New("no contract deployment found")
	ErrInvalidDescriptor = errors.New("invalid deployment descriptor")
)

// RecentThreshold is how old a deployment may be and still count as recent.
const RecentThreshold = 24 * time.Hour

// Descriptor is the deployment-info.json document written by the deploy script.
type Descriptor struct {
	ContractAddress string   `json:"contractAddress"`
	DeployerAddress string   `json:"deployerAddress"`
	Network         string   `json:"network"`
	ChainID         int64    `json:"chainId"`
	DeploymentTime  string   `json:"deploymentTime"` // RFC 3339, may be empty
	BlockNumber     uint64   `json:"blockNumber"`
	SampleItems     int      `json:"sampleItems"`
	ABI             []string `json:"abi"`
}

// Address returns the contract address as a common.Address.
func (d *Descriptor) Address() common.Address {
	return common.HexToAddress(d.ContractAddress)
}

// Validate rejects descriptors that do not point at a well-formed address on
// the required chain. Nothing is coerced.
func Validate(d *Descriptor, chainID int64) error {
	if d == nil {
		return fmt.Errorf("%w: empty", ErrInvalidDescriptor)
	}
	addr := d.ContractAddress
	if len(addr) != 42 || !strings.HasPrefix(addr, "0x") || !common.IsHexAddress(addr) {
		return fmt.Errorf("%w: malformed contract address %q", ErrInvalidDescriptor, addr)
	}
	if d.ChainID != chainID {
		return fmt.Errorf("%w: chain id %d, want %d", ErrInvalidDescriptor, d.ChainID, chainID)
	}
	return nil
}

// IsRecent reports whether deploymentTime is less than threshold ago. Empty
// or unparseable times are never recent. Informational only.
func IsRecent(deploymentTime string, threshold time.Duration) bool {
	return isRecentAt(deploymentTime, threshold, time.Now())
}

func isRecentAt(deploymentTime string, threshold time.Duration, now time.Time) bool {
	if deploymentTime == "" {
		return false
	}
	t, err := time.Parse(time.RFC3339Nano, deploymentTime)
	if err != nil {
		return false
	}
	return now.Sub(t) < threshold
}
