package model

import "github.com/NethermindEth/juno/core/felt"

// CreateWalletRequest represents request for POST /wallet/create
type CreateWalletRequest struct {
	Password string `json:"password" binding:"required"`
}

// CreateWalletResponse represents response for POST /wallet/create
type CreateWalletResponse struct {
	UserID      string      `json:"userId"`
	WalletInfos WalletInfos `json:"wallet"`
}

// SessionRequest represents request for POST /wallet/session
type SessionRequest struct {
	UserID     string `json:"userId" binding:"required"`
	Address    string `json:"address"`
	OldAddress string `json:"oldAddress,omitempty"`
}

// EnableResponse represents response for POST /wallet/enable
type EnableResponse struct {
	Addresses []string `json:"addresses"`
}

// UnlockRequest represents request for POST /wallet/unlock
type UnlockRequest struct {
	Password string `json:"password" binding:"required"`
}

// PasswordChangeRequest represents request for POST /wallet/password
type PasswordChangeRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// NonceResponse represents response for GET /wallet/nonce
type NonceResponse struct {
	Address string     `json:"address"`
	Nonce   *felt.Felt `json:"nonce"`
}

// CallsRequest represents request for POST /wallet/estimate-fee and /wallet/sign
type CallsRequest struct {
	Calls []Call `json:"calls"`
	// Old selects the pre-migration account
	Old bool `json:"old,omitempty"`
}

// FeeResponse represents response for POST /wallet/estimate-fee
type FeeResponse struct {
	Fee           FeeEstimate `json:"fee"`
	OverallFeeETH string      `json:"overallFeeETH"`
	MaxFeeETH     string      `json:"maxFeeETH"`
}

// QRResponse represents response for GET /wallet/qr
type QRResponse struct {
	Address string `json:"address"`
	QR      string `json:"QR"`
}

// StatusResponse represents a generic success response
type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
