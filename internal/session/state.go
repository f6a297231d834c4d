package session

import (
	"encoding/json"
	"time"

	"github.com/Mohsinsiddi/bidcli/internal/deployment"
)

// Status is the wallet connection state.
type Status int

const (
	Disconnected Status = iota
	Connecting
	Connected
)

func (s Status) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	}
	return "disconnected"
}

func (s Status) MarshalJSON() ([]byte, error) { return json.Marshal(s.String()) }

// Mode says where reads and writes go once connected.
type Mode int

const (
	ModeNone Mode = iota
	ModeLive
	ModeDemo
)

func (m Mode) String() string {
	switch m {
	case ModeLive:
		return "live"
	case ModeDemo:
		return "demo"
	}
	return "none"
}

func (m Mode) MarshalJSON() ([]byte, error) { return json.Marshal(m.String()) }

// NetworkInfo describes the chain the wallet is on.
type NetworkInfo struct {
	Name        string `json:"name"`
	ChainID     int64  `json:"chainId"`
	IsLocalhost bool   `json:"isLocalhost"`
}

// State is a point-in-time snapshot of the session.
type State struct {
	Status          Status                 `json:"status"`
	Mode            Mode                   `json:"mode"`
	Account         string                 `json:"account,omitempty"`
	Error           string                 `json:"error,omitempty"`
	IsOwner         bool                   `json:"isOwner"`
	Demo            bool                   `json:"isDemoMode"`
	Network         *NetworkInfo           `json:"networkInfo,omitempty"`
	Deployment      *deployment.Descriptor `json:"deploymentInfo,omitempty"`
	ContractAddress string                 `json:"contractAddress,omitempty"`
	ContractReady   bool                   `json:"isContractReady"`
	LastSync        time.Time              `json:"lastSync,omitempty"`
	PendingItems    int                    `json:"pendingItems"`
	PendingBids     int                    `json:"pendingBids"`
}
