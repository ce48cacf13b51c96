// Re-encrypts a stored wallet key record under a new password with a fresh
// salt and iv. The recovery backup is left as is.
// Usage: go run ./cmd/rekey -db wallet.db -user <user id>
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/AlexZinkM/stark-wallet/internal/config"
	"github.com/AlexZinkM/stark-wallet/internal/storage"
	"github.com/AlexZinkM/stark-wallet/wallet"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	dbPath := flag.String("db", "wallet.db", "Path to the wallet database")
	userID := flag.String("user", "", "User id whose record is re-encrypted")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if *userID == "" {
		fmt.Fprintln(os.Stderr, "-user is required")
		os.Exit(2)
	}

	if err := run(*dbPath, *userID); err != nil {
		log.Fatal().Err(err).Str("user_id", *userID).Msg("Re-encryption failed")
	}
	log.Info().Str("user_id", *userID).Msg("Record re-encrypted")
}

func run(dbPath, userID string) error {
	store, err := storage.NewSQLiteStore(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	oldPassword, err := config.ReadPassword("Current password: ")
	if err != nil {
		return err
	}
	defer clear(oldPassword)

	newPassword, err := config.ReadPassword("New password: ")
	if err != nil {
		return err
	}
	defer clear(newPassword)

	confirm, err := config.ReadPassword("Repeat new password: ")
	if err != nil {
		return err
	}
	defer clear(confirm)

	if !bytes.Equal(newPassword, confirm) {
		return fmt.Errorf("passwords do not match")
	}

	// decryption only needs the store; no provider, no recovery key
	svc := wallet.NewService(store, nil, "", 0)
	return svc.ChangePassword(context.Background(), userID, oldPassword, newPassword)
}
