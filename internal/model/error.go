package model

import (
	"errors"
	"fmt"
)

// ErrorResponse is the consistent JSON structure for all API error responses.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// ErrorKind is the closed set of failure kinds the wallet reports.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindEncryption
	KindDecryptionAuthentication
	KindMalformedRecord
	KindSignerNotReady
	KindMissingKeyPair
	KindMissingSigner
	KindVersionMismatch
	KindNoWalletAccount
	KindNoExternalProviderDetected
	KindNotImplemented
	KindNetwork
	KindInvalidSigningContext
)

var kindNames = map[ErrorKind]string{
	KindUnknown:                    "UNKNOWN",
	KindEncryption:                 "ENCRYPTION_FAILED",
	KindDecryptionAuthentication:   "WRONG_PASSWORD",
	KindMalformedRecord:            "MALFORMED_RECORD",
	KindSignerNotReady:             "SIGNER_NOT_READY",
	KindMissingKeyPair:             "MISSING_KEY_PAIR",
	KindMissingSigner:              "MISSING_SIGNER",
	KindVersionMismatch:            "VERSION_MISMATCH",
	KindNoWalletAccount:            "NO_WALLET_ACCOUNT",
	KindNoExternalProviderDetected: "NO_EXTERNAL_PROVIDER",
	KindNotImplemented:             "NOT_IMPLEMENTED",
	KindNetwork:                    "NETWORK_ERROR",
	KindInvalidSigningContext:      "INVALID_SIGNING_CONTEXT",
}

// String returns the code used in ErrorResponse.Code.
func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return kindNames[KindUnknown]
}

// Error is a wallet failure of a known kind.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates an Error of the given kind. err may be nil.
func NewError(kind ErrorKind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of the first Error in err's chain, or KindUnknown.
func KindOf(err error) ErrorKind {
	var we *Error
	if errors.As(err, &we) {
		return we.Kind
	}
	return KindUnknown
}

// IsKind checks if err carries the given kind
func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}
