package injector

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/AlexZinkM/stark-wallet/internal/account"
	"github.com/AlexZinkM/stark-wallet/internal/model"
	"github.com/AlexZinkM/stark-wallet/internal/storage"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAddress    = "0x04b2a5a2c8b9a3d6e1f4c7e8a9b0c1d2e3f405162738495a6b7c8d9e0f1a2b3c"
	testOldAddress = "0x0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcd"
	testBackend    = "https://backend.example/rpc"
)

var testNames = []string{"starknet", "starknet_marketplace"}

type fakeSession struct {
	user *model.CurrentUser
	err  error
}

func (s *fakeSession) CurrentUser(context.Context) (*model.CurrentUser, error) {
	return s.user, s.err
}

type stubProvider struct{ endpoint string }

func (stubProvider) Call(context.Context, model.FunctionCall, string) ([]*felt.Felt, error) {
	return nil, nil
}

func (stubProvider) Nonce(context.Context, *felt.Felt) (*felt.Felt, error) {
	return new(felt.Felt), nil
}

func (stubProvider) EstimateFee(context.Context, model.InvokeTxnV1) (*model.FeeEstimate, error) {
	return nil, errors.New("not used")
}

type factoryRecorder struct {
	mu        sync.Mutex
	endpoints []string
}

func (f *factoryRecorder) build(endpoint string) account.Provider {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.endpoints = append(f.endpoints, endpoint)
	return &stubProvider{endpoint: endpoint}
}

func newTestProvider(session Session, ns *Namespace) (*WalletProvider, *factoryRecorder) {
	rec := &factoryRecorder{}
	return NewWalletProvider(session, ProviderConfig{
		Namespace:   ns,
		SiblingName: testNames[1],
		BackendURL:  testBackend,
		ChainID:     "SN_MAIN",
		NewProvider: rec.build,
	}), rec
}

func TestNamespace_Descriptors(t *testing.T) {
	ns := NewNamespace()

	require.NoError(t, ns.Set("a", 1))
	d, ok := ns.Descriptor("a")
	require.True(t, ok)
	assert.Equal(t, Descriptor{Writable: true, Configurable: true}, d)

	require.NoError(t, ns.DefineProperty("locked", "x", Descriptor{}))
	assert.ErrorIs(t, ns.Delete("locked"), ErrNonConfigurable)
	assert.ErrorIs(t, ns.Set("locked", "y"), ErrReadOnly)
	assert.ErrorIs(t, ns.DefineProperty("locked", "y", Descriptor{}), ErrNonConfigurable)
	assert.NoError(t, ns.DefineProperty("locked", "x", Descriptor{}), "identical redefinition is allowed")

	require.NoError(t, ns.Delete("a"))
	_, ok = ns.Get("a")
	assert.False(t, ok)
	assert.NoError(t, ns.Delete("missing"))
	assert.Equal(t, []string{"locked"}, ns.Names())
}

func TestInject_Idempotent(t *testing.T) {
	provider := &WalletProvider{}
	other := &WalletProvider{}

	tests := []struct {
		name  string
		setup func(ns *Namespace)
		want  interface{}
	}{
		{
			name:  "unset",
			setup: func(*Namespace) {},
			want:  provider,
		},
		{
			name: "plain assignment by another script",
			setup: func(ns *Namespace) {
				require.NoError(t, ns.Set("starknet", other))
			},
			want: provider,
		},
		{
			name: "non-configurable but writable",
			setup: func(ns *Namespace) {
				require.NoError(t, ns.DefineProperty("starknet", other, Descriptor{Writable: true}))
			},
			want: provider,
		},
		{
			name: "locked by another script",
			setup: func(ns *Namespace) {
				require.NoError(t, ns.DefineProperty("starknet", other, Descriptor{}))
			},
			want: other,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ns := NewNamespace()
			tt.setup(ns)

			for i := 0; i < 5; i++ {
				assert.NotPanics(t, func() { Inject(ns, []string{"starknet"}, provider) })

				got, ok := ns.Get("starknet")
				require.True(t, ok)
				assert.Same(t, tt.want, got)
			}
			assert.Equal(t, []string{"starknet"}, ns.Names())
		})
	}
}

func TestInject_DefinesReadOnly(t *testing.T) {
	ns := NewNamespace()
	provider := &WalletProvider{}
	Inject(ns, testNames, provider)

	for _, name := range testNames {
		got, ok := ns.Get(name)
		require.True(t, ok)
		assert.Same(t, provider, got)

		d, _ := ns.Descriptor(name)
		assert.False(t, d.Writable)
		assert.ErrorIs(t, ns.Set(name, "hijack"), ErrReadOnly)
	}
}

func TestEnable_NoWalletAccount(t *testing.T) {
	ns := NewNamespace()
	Inject(ns, testNames, "sibling")

	for _, user := range []*model.CurrentUser{nil, {ID: "u1"}} {
		p, rec := newTestProvider(&fakeSession{user: user}, ns)

		addresses, err := p.Enable(context.Background())
		require.Error(t, err)
		assert.True(t, model.IsKind(err, model.KindNoWalletAccount))
		assert.Nil(t, addresses)
		assert.False(t, p.IsConnected())
		assert.False(t, p.ChainID())
		assert.Empty(t, p.Network())
		assert.Nil(t, p.Account())
		assert.Empty(t, rec.endpoints)
	}
}

func TestEnable_SessionError(t *testing.T) {
	ns := NewNamespace()
	boom := errors.New("db closed")
	p, _ := newTestProvider(&fakeSession{err: boom}, ns)

	_, err := p.Enable(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.False(t, p.IsConnected())
}

func TestEnable_SessionUserDeleted(t *testing.T) {
	ns := NewNamespace()
	Inject(ns, testNames, "sibling")
	p, _ := newTestProvider(&fakeSession{err: fmt.Errorf("failed to query user: %w", storage.ErrNotFound)}, ns)

	_, err := p.Enable(context.Background())
	require.Error(t, err)
	assert.True(t, model.IsKind(err, model.KindNoWalletAccount), "%v", err)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.False(t, p.IsConnected())
}

func TestEnable_NoSiblingGlobal(t *testing.T) {
	ns := NewNamespace()
	p, _ := newTestProvider(&fakeSession{user: &model.CurrentUser{ID: "u1", Address: testAddress}}, ns)

	_, err := p.Enable(context.Background())
	require.Error(t, err)
	assert.True(t, model.IsKind(err, model.KindNoExternalProviderDetected))
	assert.False(t, p.IsConnected())
}

func TestEnable_Success(t *testing.T) {
	ns := NewNamespace()
	p, rec := newTestProvider(&fakeSession{user: &model.CurrentUser{ID: "u1", Address: testAddress}}, ns)
	Inject(ns, testNames, p)

	addresses, err := p.Enable(context.Background())
	require.NoError(t, err)

	acc := p.Account()
	require.NotNil(t, acc)
	assert.Equal(t, []string{acc.Address()}, addresses)
	assert.Equal(t, model.TransactionV0, acc.Version())
	assert.Equal(t, acc.Address(), p.SelectedAddress())
	assert.True(t, p.ChainID())
	assert.Equal(t, "SN_MAIN", p.Network())
	assert.True(t, p.IsConnected())
	assert.Equal(t, []string{testBackend}, rec.endpoints)
	assert.Equal(t, testBackend, p.Provider().(*stubProvider).endpoint)
	assert.True(t, acc.NeedsSignerUpdate(), "enable never attaches credentials")
}

func TestEnable_MigratedAccount(t *testing.T) {
	ns := NewNamespace()
	user := &model.CurrentUser{ID: "u1", Address: testAddress, OldAddress: testOldAddress}
	p, _ := newTestProvider(&fakeSession{user: user}, ns)
	Inject(ns, testNames, p)

	addresses, err := p.Enable(context.Background())
	require.NoError(t, err)

	acc := p.Account()
	require.NotNil(t, acc.OldAccount())
	assert.Equal(t, model.TransactionV1, acc.Version())
	assert.Equal(t, []string{acc.Address(), acc.OldAccount().Address()}, addresses)
}

func TestEnable_BadAddress(t *testing.T) {
	ns := NewNamespace()
	p, _ := newTestProvider(&fakeSession{user: &model.CurrentUser{ID: "u1", Address: "not-hex"}}, ns)
	Inject(ns, testNames, p)

	_, err := p.Enable(context.Background())
	require.Error(t, err)
	assert.False(t, p.IsConnected())
}

func TestWalletProvider_StaticSurface(t *testing.T) {
	p, _ := newTestProvider(&fakeSession{}, NewNamespace())

	assert.Equal(t, ProviderID, p.ID())
	assert.Equal(t, ProviderName, p.Name())
	assert.Equal(t, ProviderVersion, p.Version())
	assert.NotEmpty(t, p.Icon())

	ok, err := p.IsPreauthorized(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = p.Request(context.Background(), RequestCall{Type: "wallet_watchAsset"})
	assert.True(t, model.IsKind(err, model.KindNotImplemented))

	assert.NotPanics(t, func() {
		p.On("accountsChanged", func(interface{}) {})
		p.Off("accountsChanged", nil)
	})
}

func TestPage_ReadyStateEvents(t *testing.T) {
	page := NewPage()
	var got []Event
	for _, ev := range lifecycleEvents {
		ev := ev
		page.AddEventListener(ev, func() { got = append(got, ev) })
	}

	assert.Equal(t, ReadyStateLoading, page.ReadyState())
	page.SetReadyState(ReadyStateInteractive)
	page.SetReadyState(ReadyStateInteractive)
	page.SetReadyState(ReadyStateComplete)

	assert.Equal(t, []Event{
		EventReadyStateChange, EventDOMContentLoaded,
		EventReadyStateChange, EventLoad,
	}, got)
	assert.Equal(t, ReadyStateComplete, page.ReadyState())
}

func TestInjector_Run(t *testing.T) {
	ns := NewNamespace()
	page := NewPage()
	provider := &WalletProvider{}
	in := NewInjector(ns, testNames, provider, 200*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	in.Run(ctx, page)
	assert.Equal(t, int64(1), in.Runs(), "first install is synchronous")

	page.SetReadyState(ReadyStateInteractive)
	assert.Equal(t, int64(3), in.Runs())
	for _, name := range testNames {
		got, _ := ns.Get(name)
		assert.Same(t, provider, got)
	}

	page.SetReadyState(ReadyStateComplete)
	require.Eventually(t, func() bool { return in.Runs() == 6 }, time.Second, 5*time.Millisecond,
		"two more from load, one from the delayed install")

	cancel()
	require.Eventually(t, func() bool {
		before := in.Runs()
		page.Dispatch(EventLoad)
		return in.Runs() == before
	}, time.Second, 5*time.Millisecond)
}
