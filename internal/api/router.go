package api

import (
	"net/http"

	_ "github.com/AlexZinkM/stark-wallet/docs"
	"github.com/AlexZinkM/stark-wallet/internal/handler"

	httpSwagger "github.com/swaggo/http-swagger"
)

// SetupRouter sets up router with handlers
func SetupRouter(svc handler.WalletService) http.Handler {
	walletHandler := handler.NewWalletHandler(svc)

	mux := http.NewServeMux()

	// Swagger UI
	mux.HandleFunc("/swagger/", httpSwagger.WrapHandler)

	// Wallet endpoints
	mux.HandleFunc("/wallet/create", walletHandler.Create)
	mux.HandleFunc("/wallet/session", walletHandler.Session)
	mux.HandleFunc("/wallet/enable", walletHandler.Enable)
	mux.HandleFunc("/wallet/unlock", walletHandler.Unlock)
	mux.HandleFunc("/wallet/password", walletHandler.ChangePassword)
	mux.HandleFunc("/wallet/nonce", walletHandler.Nonce)
	mux.HandleFunc("/wallet/estimate-fee", walletHandler.EstimateFee)
	mux.HandleFunc("/wallet/sign", walletHandler.Sign)
	mux.HandleFunc("/wallet/qr", walletHandler.QR)

	return handler.RequestLogger(mux)
}
