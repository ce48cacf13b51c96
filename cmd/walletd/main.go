// Custodial Starknet wallet server: key records, unlock, fee estimation and
// signing over HTTP, with the wallet provider installed on the host namespace.
// Usage: RECOVERY_PUBLIC_KEY=<hex> go run ./cmd/walletd
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AlexZinkM/stark-wallet/internal/account"
	"github.com/AlexZinkM/stark-wallet/internal/api"
	"github.com/AlexZinkM/stark-wallet/internal/client"
	"github.com/AlexZinkM/stark-wallet/internal/config"
	"github.com/AlexZinkM/stark-wallet/internal/injector"
	"github.com/AlexZinkM/stark-wallet/internal/storage"
	"github.com/AlexZinkM/stark-wallet/wallet"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Configure logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := config.Init(); err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	cfg := config.Get()

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatal().Err(err).Str("level", cfg.LogLevel).Msg("Invalid log level")
	}
	zerolog.SetGlobalLevel(level)

	store, err := storage.NewSQLiteStore(config.GetDBPath())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open store")
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	checkChain(ctx, config.GetStarknetRPCURL(), config.GetChainID())

	feeder := client.NewFeederGatewayClient(config.GetFeederGatewayURL())
	ns := injector.NewNamespace()
	provider := injector.NewWalletProvider(store, injector.ProviderConfig{
		Namespace:   ns,
		SiblingName: cfg.GlobalNames[1],
		BackendURL:  config.GetWalletBackendURL(),
		ChainID:     config.GetChainID(),
		NewProvider: func(endpoint string) account.Provider {
			return client.NewStarknetClient(endpoint)
		},
		Options: []account.Option{account.WithFeeGateway(feeder)},
	})

	page := injector.NewPage()
	injector.NewInjector(ns, cfg.GlobalNames, provider, cfg.InjectDelay).Run(ctx, page)

	svc := wallet.NewService(store, provider, config.GetRecoveryPublicKey(), cfg.DecryptTimeout)
	srv := &http.Server{
		Addr:              ":" + config.GetPort(),
		Handler:           api.SetupRouter(svc),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Strs("globals", cfg.GlobalNames).Msg("Wallet server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// the host is up: let late scripts see the provider again
	page.SetReadyState(injector.ReadyStateInteractive)
	page.SetReadyState(injector.ReadyStateComplete)

	<-ctx.Done()
	log.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
}

// checkChain warns when the node serves a different chain than configured
func checkChain(ctx context.Context, rpcURL, chainID string) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	got, err := client.NewStarknetClient(rpcURL).ChainID(ctx)
	if err != nil {
		log.Warn().Err(err).Str("rpc", rpcURL).Msg("Could not read chain id from node")
		return
	}
	if !got.Equal(account.ChainIDFromString(chainID)) {
		log.Warn().Str("configured", chainID).Str("node", got.String()).Msg("Node serves a different chain")
	}
}
