package storage

import (
	"context"

	"github.com/AlexZinkM/stark-wallet/internal/model"
)

// Store is the session and key record collaborator of the wallet service
type Store interface {
	CreateUser(ctx context.Context, u *model.User) error
	GetUser(ctx context.Context, id string) (*model.User, error)
	UpdateRecord(ctx context.Context, id string, rec model.WalletKeyRecord) error
	SetAddresses(ctx context.Context, id, address, oldAddress string) error
	SetCurrentUser(id string)
	CurrentUserID() string
	CurrentUser(ctx context.Context) (*model.CurrentUser, error)
}

var _ Store = (*SQLiteStore)(nil)
