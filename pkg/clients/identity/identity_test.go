package identity

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/json"
	"encoding/pem"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/weaver/internal/domain/models"
)

func TestHMACVerifier(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("round trip", func(t *testing.T) {
		token, err := SignHMAC("secret", models.Identity{UID: "u1", Email: "a@mill.test", Admin: true}, time.Hour, now)
		require.NoError(t, err)

		id, err := NewHMACVerifier("secret").Verify(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, models.Identity{UID: "u1", Email: "a@mill.test", Admin: true}, id)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := SignHMAC("secret", models.Identity{UID: "u1"}, time.Hour, now)
		require.NoError(t, err)

		_, err = NewHMACVerifier("other").Verify(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		token, err := SignHMAC("secret", models.Identity{UID: "u1"}, time.Minute, now.Add(-time.Hour))
		require.NoError(t, err)

		_, err = NewHMACVerifier("secret").Verify(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing subject", func(t *testing.T) {
		token, err := SignHMAC("secret", models.Identity{Email: "a@mill.test"}, time.Hour, now)
		require.NoError(t, err)

		_, err = NewHMACVerifier("secret").Verify(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := NewHMACVerifier("secret").Verify(ctx, "not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("empty secret cannot sign", func(t *testing.T) {
		_, err := SignHMAC("", models.Identity{UID: "u1"}, time.Hour, now)
		assert.Error(t, err)
	})
}

type certServer struct {
	*httptest.Server
	key   *rsa.PrivateKey
	hits  atomic.Int32
	certs map[string]string
}

func newCertServer(t *testing.T) *certServer {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "securetoken.test"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	require.NoError(t, err)

	cs := &certServer{
		key:   key,
		certs: map[string]string{"k1": string(pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}))},
	}
	cs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		cs.hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "public, max-age=600, must-revalidate")
		_ = json.NewEncoder(w).Encode(cs.certs)
	}))
	t.Cleanup(cs.Close)
	return cs
}

func (cs *certServer) sign(t *testing.T, kid string, claims tokenClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = kid
	signed, err := token.SignedString(cs.key)
	require.NoError(t, err)
	return signed
}

func firebaseClaims(project string, expires time.Time) tokenClaims {
	return tokenClaims{
		Email: "owner@mill.test",
		Admin: true,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "firebase-uid",
			Issuer:    issuerPrefix + project,
			Audience:  jwt.ClaimStrings{project},
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
}

func TestFirebaseVerifier(t *testing.T) {
	ctx := context.Background()

	t.Run("valid token and cached certificates", func(t *testing.T) {
		cs := newCertServer(t)
		v := NewFirebaseVerifier("loom-mill", cs.URL)
		token := cs.sign(t, "k1", firebaseClaims("loom-mill", time.Now().Add(time.Hour)))

		id, err := v.Verify(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, "firebase-uid", id.UID)
		assert.Equal(t, "owner@mill.test", id.Email)
		assert.True(t, id.Admin)

		_, err = v.Verify(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, int32(1), cs.hits.Load())
	})

	t.Run("wrong audience", func(t *testing.T) {
		cs := newCertServer(t)
		v := NewFirebaseVerifier("loom-mill", cs.URL)
		token := cs.sign(t, "k1", firebaseClaims("other-project", time.Now().Add(time.Hour)))

		_, err := v.Verify(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		cs := newCertServer(t)
		v := NewFirebaseVerifier("loom-mill", cs.URL)
		token := cs.sign(t, "k1", firebaseClaims("loom-mill", time.Now().Add(-time.Minute)))

		_, err := v.Verify(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("unknown key id", func(t *testing.T) {
		cs := newCertServer(t)
		v := NewFirebaseVerifier("loom-mill", cs.URL)
		token := cs.sign(t, "rotated", firebaseClaims("loom-mill", time.Now().Add(time.Hour)))

		_, err := v.Verify(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("hmac token rejected", func(t *testing.T) {
		cs := newCertServer(t)
		v := NewFirebaseVerifier("loom-mill", cs.URL)
		token, err := SignHMAC("secret", models.Identity{UID: "u1"}, time.Hour, time.Now())
		require.NoError(t, err)

		_, err = v.Verify(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestMaxAge(t *testing.T) {
	assert.Equal(t, 19882*time.Second, maxAge("public, max-age=19882, must-revalidate, no-transform"))
	assert.Equal(t, defaultCertsMaxAge, maxAge(""))
	assert.Equal(t, defaultCertsMaxAge, maxAge("max-age=abc"))
}
