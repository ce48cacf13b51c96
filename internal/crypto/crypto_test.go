package crypto

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/AlexZinkM/stark-wallet/internal/model"

	"github.com/NethermindEth/starknet.go/curve"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/curve25519"
)

func lowCost(t *testing.T) {
	t.Helper()
	t.Cleanup(SetScryptCost(1 << 10))
}

func newRecord(t *testing.T, password string, plaintext []byte) (iv, salt, ct string) {
	t.Helper()
	var err error
	salt, err = GenerateSalt()
	require.NoError(t, err)
	iv, err = GenerateIV()
	require.NoError(t, err)
	ct, err = EncryptWithPassword([]byte(password), iv, salt, plaintext)
	require.NoError(t, err)
	return iv, salt, ct
}

func TestGenerateSaltAndIV(t *testing.T) {
	salt, err := GenerateSalt()
	require.NoError(t, err)
	iv, err := GenerateIV()
	require.NoError(t, err)

	assert.Len(t, salt, saltLen*2)
	assert.Len(t, iv, ivLen*2)

	other, err := GenerateSalt()
	require.NoError(t, err)
	assert.NotEqual(t, salt, other)
}

func TestPasswordRoundTrip(t *testing.T) {
	lowCost(t)

	for _, tc := range []struct {
		name      string
		password  string
		plaintext string
	}{
		{"key", "pw123", "0x04a1c1b3e58a66e3b3f8c1d9e0f6a7b8c9d0e1f2a3b4c5d6e7f8091a2b3c4d5e"},
		{"unicode password", "пароль-🔑", "secret"},
		{"single byte", "p", "x"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			iv, salt, ct := newRecord(t, tc.password, []byte(tc.plaintext))
			assert.NotContains(t, ct, hex.EncodeToString([]byte(tc.plaintext)))

			got, err := DecryptWithPassword([]byte(tc.password), iv, salt, ct)
			require.NoError(t, err)
			assert.Equal(t, tc.plaintext, string(got))
		})
	}
}

func TestEncryptDecryptEmptyPlaintext(t *testing.T) {
	lowCost(t)
	iv, salt, ct := newRecord(t, "pw", []byte{})
	assert.Len(t, ct, gcmTagLen*2)

	got, err := DecryptWithPassword([]byte("pw"), iv, salt, ct)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = DecryptWithPassword([]byte("other"), iv, salt, ct)
	assert.True(t, model.IsKind(err, model.KindDecryptionAuthentication))

	// a record cut back to the bare tag of a longer plaintext fails authentication
	_, _, full := newRecord(t, "pw", []byte("key material"))
	_, err = DecryptWithPassword([]byte("pw"), iv, salt, full[:gcmTagLen*2])
	assert.True(t, model.IsKind(err, model.KindDecryptionAuthentication))
}

func TestDecryptWrongPassword(t *testing.T) {
	lowCost(t)
	iv, salt, ct := newRecord(t, "correct horse", []byte("key material"))

	for _, pw := range []string{"correct horsE", "", "correct horse "} {
		got, err := DecryptWithPassword([]byte(pw), iv, salt, ct)
		require.Error(t, err)
		assert.Nil(t, got)
		assert.True(t, model.IsKind(err, model.KindDecryptionAuthentication), "password %q: %v", pw, err)
	}
}

func TestDecryptTamperedCiphertext(t *testing.T) {
	lowCost(t)
	iv, salt, ct := newRecord(t, "pw", []byte("key material"))

	raw, err := hex.DecodeString(ct)
	require.NoError(t, err)
	raw[0] ^= 0x01

	_, err = DecryptWithPassword([]byte("pw"), iv, salt, hex.EncodeToString(raw))
	assert.True(t, model.IsKind(err, model.KindDecryptionAuthentication))
}

func TestDecryptMalformedRecord(t *testing.T) {
	lowCost(t)
	iv, salt, ct := newRecord(t, "pw", []byte("key material"))

	cases := map[string][3]string{
		"bad salt hex":       {iv, "zz" + salt[2:], ct},
		"short salt":         {iv, salt[:10], ct},
		"bad iv hex":         {"not-hex", salt, ct},
		"long iv":            {iv + "00", salt, ct},
		"odd ciphertext":     {iv, salt, ct[:len(ct)-1]},
		"shorter than tag":   {iv, salt, ct[:gcmTagLen*2-2]},
		"empty ciphertext":   {iv, salt, ""},
		"non hex ciphertext": {iv, salt, strings.Repeat("g", len(ct))},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecryptWithPassword([]byte("pw"), c[0], c[1], c[2])
			require.Error(t, err)
			assert.Equal(t, model.KindMalformedRecord, model.KindOf(err))
		})
	}
}

func TestEncryptRejectsBadParameters(t *testing.T) {
	lowCost(t)
	salt, _ := GenerateSalt()
	iv, _ := GenerateIV()

	_, err := EncryptWithPassword([]byte("pw"), "abc", salt, []byte("x"))
	assert.True(t, model.IsKind(err, model.KindEncryption))

	_, err = EncryptWithPassword([]byte("pw"), iv, "", []byte("x"))
	assert.True(t, model.IsKind(err, model.KindEncryption))

	// scrypt rejects N that is not a power of two
	restore := SetScryptCost(1000)
	defer restore()
	_, err = EncryptWithPassword([]byte("pw"), iv, salt, []byte("x"))
	assert.True(t, model.IsKind(err, model.KindEncryption))
}

func TestDecryptWithPasswordContext(t *testing.T) {
	lowCost(t)
	iv, salt, ct := newRecord(t, "pw", []byte("key"))

	got, err := DecryptWithPasswordContext(context.Background(), []byte("pw"), iv, salt, ct)
	require.NoError(t, err)
	assert.Equal(t, "key", string(got))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = DecryptWithPasswordContext(ctx, []byte("pw"), iv, salt, ct)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = DecryptWithPasswordContext(context.Background(), []byte("nope"), iv, salt, ct)
	assert.True(t, model.IsKind(err, model.KindDecryptionAuthentication))
}

func TestDecryptWithPasswordContextDeadline(t *testing.T) {
	// full cost derivation takes far longer than the deadline
	iv, salt, ct := "000000000000000000000000", strings.Repeat("11", saltLen), strings.Repeat("22", 48)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()

	_, err := DecryptWithPasswordContext(ctx, []byte("pw"), iv, salt, ct)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestEncryptWithPublicKey(t *testing.T) {
	recipientPrivate := make([]byte, x25519KeySize)
	_, err := rand.Read(recipientPrivate)
	require.NoError(t, err)
	recipientPublic, err := curve25519.X25519(recipientPrivate, curve25519.Basepoint)
	require.NoError(t, err)

	plaintext := []byte("0x0123")
	out, err := EncryptWithPublicKey(hex.EncodeToString(recipientPublic), plaintext)
	require.NoError(t, err)

	again, err := EncryptWithPublicKey(hex.EncodeToString(recipientPublic), plaintext)
	require.NoError(t, err)
	assert.NotEqual(t, out, again, "ephemeral key must differ per call")

	raw, err := hex.DecodeString(out)
	require.NoError(t, err)
	ephemeralPublic := raw[:x25519KeySize]
	nonce := raw[x25519KeySize : x25519KeySize+ivLen]

	shared, err := curve25519.X25519(recipientPrivate, ephemeralPublic)
	require.NoError(t, err)
	aead, err := backupAEAD(shared, ephemeralPublic)
	require.NoError(t, err)
	got, err := aead.Open(nil, nonce, raw[x25519KeySize+ivLen:], nil)
	require.NoError(t, err)
	assert.Equal(t, plaintext, got)
}

func TestEncryptWithPublicKeyInvalidKey(t *testing.T) {
	_, err := EncryptWithPublicKey("abcd", []byte("x"))
	assert.True(t, model.IsKind(err, model.KindEncryption))

	_, err = EncryptWithPublicKey(strings.Repeat("zz", 32), []byte("x"))
	assert.True(t, model.IsKind(err, model.KindEncryption))
}

func TestEncodeDecodeKey(t *testing.T) {
	k := big.NewInt(0xabc)
	s := EncodeKey(k)
	assert.Equal(t, "0x"+strings.Repeat("0", 61)+"abc", s)

	got, err := DecodeKey(s)
	require.NoError(t, err)
	assert.Equal(t, 0, k.Cmp(got))

	upper, err := DecodeKey("0XABC")
	require.NoError(t, err)
	assert.Equal(t, 0, k.Cmp(upper))

	priv, err := curve.Curve.GetRandomPrivateKey()
	require.NoError(t, err)
	back, err := DecodeKey(EncodeKey(priv))
	require.NoError(t, err)
	assert.Equal(t, EncodeKey(priv), EncodeKey(back))
}

func TestDecodeKeyRejects(t *testing.T) {
	for _, s := range []string{"", "0x", "0x0", "0xzz", "0x" + strings.Repeat("f", 65), EncodeKey(curve.Curve.N)} {
		_, err := DecodeKey(s)
		assert.True(t, model.IsKind(err, model.KindMalformedRecord), "input %q", s)
	}
}
