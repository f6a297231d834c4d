package session

import (
	"errors"
	"fmt"

	"github.com/Mohsinsiddi/bidcli/internal/wallet"
)

// Errors.
var (
	ErrNotConnected      = errors.New("contract not initialized")
	ErrConnectInProgress = errors.New("connection already in progress")
	ErrReloadRequired    = errors.New("network changed, session must be reloaded")
	ErrSessionReset      = errors.New("session was reset while connecting")
	ErrItemNotFound      = errors.New("item not found")
	ErrWrongNetwork      = errors.New("wrong network")
)

// ErrorKind classifies connection failures.
type ErrorKind int

const (
	KindOther ErrorKind = iota
	KindNoProvider
	KindRejected
	KindPending
	KindNoAccounts
	KindWrongNetwork
)

// ConnectError is returned by Connect when the wallet side fails.
type ConnectError struct {
	Kind    ErrorKind
	ChainID int64  // required chain, for KindWrongNetwork
	Network string // its display name
	Err     error
}

func (e *ConnectError) Error() string {
	switch e.Kind {
	case KindNoProvider:
		return "No wallet provider available. Start a local node and import a wallet to continue."
	case KindRejected:
		return "Connection rejected by user"
	case KindPending:
		return "Connection request already pending. Please check your wallet."
	case KindNoAccounts:
		return "No accounts found"
	case KindWrongNetwork:
		return fmt.Sprintf("Please switch to %s Network (Chain ID: %d)", e.Network, e.ChainID)
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "Failed to connect wallet"
}

func (e *ConnectError) Unwrap() error { return e.Err }

func classify(err error) ErrorKind {
	switch {
	case errors.Is(err, wallet.ErrNoProvider):
		return KindNoProvider
	case errors.Is(err, wallet.ErrUserRejected):
		return KindRejected
	case errors.Is(err, wallet.ErrRequestPending):
		return KindPending
	case errors.Is(err, wallet.ErrNoAccounts):
		return KindNoAccounts
	case errors.Is(err, ErrWrongNetwork):
		return KindWrongNetwork
	}
	return KindOther
}
