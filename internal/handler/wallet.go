package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/AlexZinkM/stark-wallet/internal/common"
	"github.com/AlexZinkM/stark-wallet/internal/model"
	"github.com/AlexZinkM/stark-wallet/internal/storage"

	"github.com/rs/zerolog/log"
)

// WalletService is what the HTTP layer needs from the wallet service
type WalletService interface {
	Register(ctx context.Context, password []byte) (*model.CreateWalletResponse, error)
	SetSession(ctx context.Context, req model.SessionRequest) error
	Enable(ctx context.Context) ([]string, error)
	Unlock(ctx context.Context, password []byte) error
	ChangeSessionPassword(ctx context.Context, oldPassword, newPassword []byte) error
	Nonce(ctx context.Context, old bool) (*model.NonceResponse, error)
	EstimateFee(ctx context.Context, req model.CallsRequest) (*model.FeeEstimate, error)
	Execute(ctx context.Context, req model.CallsRequest) (*model.ExecuteResult, error)
	AddressQR(ctx context.Context) (*model.QRResponse, error)
}

// WalletHandler serves the wallet endpoints
type WalletHandler struct {
	svc WalletService
}

// NewWalletHandler creates a new WalletHandler
func NewWalletHandler(svc WalletService) *WalletHandler {
	return &WalletHandler{svc: svc}
}

// Create handles POST /wallet/create
// @Summary      Create wallet
// @Description  Generates a Stark key, encrypts it under the password and the recovery key, and stores the record
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        request  body      model.CreateWalletRequest  true  "Password"
// @Success      200      {object}  model.CreateWalletResponse
// @Failure      400      {object}  model.ErrorResponse
// @Router       /wallet/create [post]
func (h *WalletHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req model.CreateWalletRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Password == "" {
		writeError(w, r, http.StatusBadRequest, errors.New("password is required"))
		return
	}

	password := []byte(req.Password)
	defer clear(password) // Always clear password from memory

	resp, err := h.svc.Register(r.Context(), password)
	if err != nil {
		writeKindError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Session handles POST /wallet/session
// @Summary      Sign in
// @Description  Binds the session to a user and optionally records the deployed account addresses
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        request  body      model.SessionRequest  true  "Session"
// @Success      200      {object}  model.StatusResponse
// @Failure      404      {object}  model.ErrorResponse
// @Router       /wallet/session [post]
func (h *WalletHandler) Session(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req model.SessionRequest
	if !decode(w, r, &req) {
		return
	}
	if req.UserID == "" {
		writeError(w, r, http.StatusBadRequest, errors.New("userId is required"))
		return
	}

	if err := h.svc.SetSession(r.Context(), req); err != nil {
		writeKindError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, model.StatusResponse{Success: true, Message: "Session started"})
}

// Enable handles POST /wallet/enable
// @Summary      Connect the injected provider
// @Description  Connects the wallet provider to the session account and returns its addresses
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.EnableResponse
// @Failure      404  {object}  model.ErrorResponse
// @Failure      412  {object}  model.ErrorResponse
// @Router       /wallet/enable [post]
func (h *WalletHandler) Enable(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	addresses, err := h.svc.Enable(r.Context())
	if err != nil {
		writeKindError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, model.EnableResponse{Addresses: addresses})
}

// Unlock handles POST /wallet/unlock
// @Summary      Unlock wallet
// @Description  Decrypts the key record with the password and attaches the signer to the account
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        request  body      model.UnlockRequest  true  "Password"
// @Success      200      {object}  model.StatusResponse
// @Failure      401      {object}  model.ErrorResponse
// @Failure      422      {object}  model.ErrorResponse
// @Router       /wallet/unlock [post]
func (h *WalletHandler) Unlock(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req model.UnlockRequest
	if !decode(w, r, &req) {
		return
	}

	password := []byte(req.Password)
	defer clear(password)

	if err := h.svc.Unlock(r.Context(), password); err != nil {
		writeKindError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, model.StatusResponse{Success: true, Message: "Wallet unlocked"})
}

// ChangePassword handles POST /wallet/password
// @Summary      Change password
// @Description  Re-encrypts the key record under a new password
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        request  body      model.PasswordChangeRequest  true  "Old and new password"
// @Success      200      {object}  model.StatusResponse
// @Failure      401      {object}  model.ErrorResponse
// @Router       /wallet/password [post]
func (h *WalletHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req model.PasswordChangeRequest
	if !decode(w, r, &req) {
		return
	}
	if req.NewPassword == "" {
		writeError(w, r, http.StatusBadRequest, errors.New("newPassword is required"))
		return
	}

	oldPassword, newPassword := []byte(req.OldPassword), []byte(req.NewPassword)
	defer clear(oldPassword)
	defer clear(newPassword)

	if err := h.svc.ChangeSessionPassword(r.Context(), oldPassword, newPassword); err != nil {
		writeKindError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, model.StatusResponse{Success: true, Message: "Password changed"})
}

// Nonce handles GET /wallet/nonce
// @Summary      Get account nonce
// @Tags         wallet
// @Produce      json
// @Param        old  query     bool  false  "Use the pre-migration account"
// @Success      200  {object}  model.NonceResponse
// @Failure      409  {object}  model.ErrorResponse
// @Failure      502  {object}  model.ErrorResponse
// @Router       /wallet/nonce [get]
func (h *WalletHandler) Nonce(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	resp, err := h.svc.Nonce(r.Context(), r.URL.Query().Get("old") == "true")
	if err != nil {
		writeKindError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// EstimateFee handles POST /wallet/estimate-fee
// @Summary      Estimate fee
// @Description  Estimates the fee of a multicall with the account's protocol version
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        request  body      model.CallsRequest  true  "Calls"
// @Success      200      {object}  model.FeeResponse
// @Failure      409      {object}  model.ErrorResponse
// @Failure      502      {object}  model.ErrorResponse
// @Router       /wallet/estimate-fee [post]
func (h *WalletHandler) EstimateFee(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req model.CallsRequest
	if !decodeCalls(w, r, &req) {
		return
	}

	fee, err := h.svc.EstimateFee(r.Context(), req)
	if err != nil {
		writeKindError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, model.FeeResponse{
		Fee:           *fee,
		OverallFeeETH: common.WeiToETH(fee.OverallFee),
		MaxFeeETH:     common.WeiToETH(fee.SuggestedMaxFee),
	})
}

// Sign handles POST /wallet/sign
// @Summary      Sign transaction
// @Description  Resolves nonce and fee, then signs the multicall with the suggested max fee
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        request  body      model.CallsRequest  true  "Calls"
// @Success      200      {object}  model.ExecuteResult
// @Failure      409      {object}  model.ErrorResponse
// @Failure      502      {object}  model.ErrorResponse
// @Router       /wallet/sign [post]
func (h *WalletHandler) Sign(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req model.CallsRequest
	if !decodeCalls(w, r, &req) {
		return
	}

	res, err := h.svc.Execute(r.Context(), req)
	if err != nil {
		writeKindError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// QR handles GET /wallet/qr
// @Summary      Deposit QR code
// @Description  Returns the account address as a base64 PNG QR code
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.QRResponse
// @Failure      404  {object}  model.ErrorResponse
// @Router       /wallet/qr [get]
func (h *WalletHandler) QR(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	resp, err := h.svc.AddressQR(r.Context())
	if err != nil {
		writeKindError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func allowMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		http.Error(w, "Method not allowed. Should be "+method, http.StatusMethodNotAllowed)
		return false
	}
	return true
}

func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return false
	}
	return true
}

func decodeCalls(w http.ResponseWriter, r *http.Request, req *model.CallsRequest) bool {
	if !decode(w, r, req) {
		return false
	}
	if len(req.Calls) == 0 {
		writeError(w, r, http.StatusBadRequest, errors.New("at least one call is required"))
		return false
	}
	for _, c := range req.Calls {
		if c.ContractAddress == nil || c.EntryPoint == "" {
			writeError(w, r, http.StatusBadRequest, errors.New("every call needs contractAddress and entrypoint"))
			return false
		}
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	kind := model.KindOf(err)
	log.Warn().
		Str("request_id", RequestID(r.Context())).
		Str("kind", kind.String()).
		Int("status", status).
		Err(err).
		Msg("request failed")
	resp := model.ErrorResponse{Error: err.Error()}
	if kind != model.KindUnknown {
		resp.Code = kind.String()
	}
	writeJSON(w, status, resp)
}

func writeKindError(w http.ResponseWriter, r *http.Request, err error) {
	writeError(w, r, StatusFor(err), err)
}

// StatusFor maps an error to its HTTP status
func StatusFor(err error) int {
	if errors.Is(err, storage.ErrNotFound) {
		return http.StatusNotFound
	}
	switch model.KindOf(err) {
	case model.KindDecryptionAuthentication:
		return http.StatusUnauthorized
	case model.KindMalformedRecord:
		return http.StatusUnprocessableEntity
	case model.KindSignerNotReady, model.KindMissingKeyPair, model.KindMissingSigner, model.KindVersionMismatch:
		return http.StatusConflict
	case model.KindInvalidSigningContext:
		return http.StatusBadRequest
	case model.KindNoWalletAccount:
		return http.StatusNotFound
	case model.KindNoExternalProviderDetected:
		return http.StatusPreconditionFailed
	case model.KindNotImplemented:
		return http.StatusNotImplemented
	case model.KindNetwork:
		return http.StatusBadGateway
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}
