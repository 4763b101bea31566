package entity

import (
	"errors"
	"fmt"
)

// CodeUserRejected is the EIP-1193 code a wallet returns when the user declines a request.
const CodeUserRejected = 4001

var (
	// ErrProviderMissing is returned when no wallet provider was detected.
	ErrProviderMissing = errors.New("wallet provider not detected")
	// ErrWrongNetwork is returned when the wallet is on a chain other than the accepted one.
	ErrWrongNetwork = errors.New("wallet is connected to the wrong network")
	// ErrNoAccounts is returned when the wallet authorizes an empty account list.
	ErrNoAccounts = errors.New("wallet returned no accounts")
)

// ProviderError is a failed provider request carrying the JSON-RPC / EIP-1193 error code.
type ProviderError struct {
	Method  string
	Code    int
	Message string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider request %s failed with code %d: %s", e.Method, e.Code, e.Message)
}

// ErrorKind classifies connector failures for the banner shown to the user.
type ErrorKind int

const (
	KindGenericProviderFailure ErrorKind = iota
	KindProviderMissing
	KindUserRejected
	KindWrongNetwork
)

func (k ErrorKind) String() string {
	switch k {
	case KindProviderMissing:
		return "provider_missing"
	case KindUserRejected:
		return "user_rejected"
	case KindWrongNetwork:
		return "wrong_network"
	default:
		return "provider_failure"
	}
}

// ClassifyError maps an error from a connector flow to its ErrorKind.
func ClassifyError(err error) ErrorKind {
	if errors.Is(err, ErrProviderMissing) {
		return KindProviderMissing
	}
	if errors.Is(err, ErrWrongNetwork) {
		return KindWrongNetwork
	}
	var perr *ProviderError
	if errors.As(err, &perr) && perr.Code == CodeUserRejected {
		return KindUserRejected
	}
	return KindGenericProviderFailure
}
