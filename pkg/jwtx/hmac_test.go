package jwtx_test

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/storefront/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const exampleIssuer = "storefront"

var (
	testSecret  = []byte("0123456789abcdef0123456789abcdef")
	otherSecret = []byte("fedcba9876543210fedcba9876543210")
)

func newPair(t *testing.T, alg string, opts jwtx.VerifyOptions) (*jwtx.HMACSigner, *jwtx.HMACVerifier) {
	t.Helper()
	signer, err := jwtx.NewSignerHMAC(alg, testSecret)
	require.NoError(t, err)
	verifier, err := jwtx.NewVerifierHMAC(alg, testSecret, opts)
	require.NoError(t, err)
	return signer, verifier
}

func TestSignAndVerifyRoundTrip(t *testing.T) {
	for _, alg := range []string{"HS256", "HS384", "HS512"} {
		t.Run(alg, func(t *testing.T) {
			signer, verifier := newPair(t, alg, jwtx.VerifyOptions{Issuer: exampleIssuer})
			require.Equal(t, alg, signer.Alg())

			for _, role := range []string{jwtx.RoleUser, jwtx.RoleAdmin} {
				claims := jwtx.NewSessionClaims("01HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZV", "user@example.com", role, exampleIssuer, time.Hour, time.Now())

				token, err := signer.Sign(claims)
				require.NoError(t, err)

				got, err := verifier.Verify(token)
				require.NoError(t, err)
				requireSameClaims(t, claims, got)
			}
		})
	}
}

func requireSameClaims(t *testing.T, want, got jwtx.Claims) {
	t.Helper()
	require.Equal(t, want.UserID, got.UserID)
	require.Equal(t, want.Email, got.Email)
	require.Equal(t, want.Role, got.Role)
	require.Equal(t, want.Subject, got.Subject)
	require.Equal(t, want.Issuer, got.Issuer)
	require.True(t, want.IssuedAt.Equal(got.IssuedAt.Time))
	require.True(t, want.ExpiresAt.Equal(got.ExpiresAt.Time))
}

func TestSigningIsDeterministic(t *testing.T) {
	signer, _ := newPair(t, "HS256", jwtx.VerifyOptions{})
	now := time.Now()

	a, err := signer.Sign(jwtx.NewSessionClaims("u1", "a@example.com", jwtx.RoleUser, exampleIssuer, time.Hour, now))
	require.NoError(t, err)
	b, err := signer.Sign(jwtx.NewSessionClaims("u1", "a@example.com", jwtx.RoleUser, exampleIssuer, time.Hour, now))
	require.NoError(t, err)
	require.Equal(t, a, b)

	c, err := signer.Sign(jwtx.NewSessionClaims("u1", "a@example.com", jwtx.RoleUser, exampleIssuer, time.Hour, now.Add(2*time.Second)))
	require.NoError(t, err)
	require.NotEqual(t, a, c)
}

func TestVerifyFailsForDifferentSecret(t *testing.T) {
	other, err := jwtx.NewSignerHMAC("HS256", otherSecret)
	require.NoError(t, err)
	_, verifier := newPair(t, "HS256", jwtx.VerifyOptions{})

	token, err := other.Sign(jwtx.NewSessionClaims("u1", "a@example.com", jwtx.RoleAdmin, "", time.Hour, time.Now()))
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrInvalidSig)
}

func TestVerifyFailsForExpiredToken(t *testing.T) {
	signer, verifier := newPair(t, "HS256", jwtx.VerifyOptions{})

	token, err := signer.Sign(jwtx.NewSessionClaims("u1", "a@example.com", jwtx.RoleUser, "", time.Hour, time.Now().Add(-2*time.Hour)))
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrExpired)
}

func TestVerifyUsesInjectedClock(t *testing.T) {
	issued := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := issued.Add(30 * time.Minute)

	signer, verifier := newPair(t, "HS256", jwtx.VerifyOptions{Now: func() time.Time { return clock }})
	token, err := signer.Sign(jwtx.NewSessionClaims("u1", "a@example.com", jwtx.RoleUser, "", time.Hour, issued))
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.NoError(t, err)

	clock = issued.Add(time.Hour)
	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrExpired)
}

func TestVerifyFailsForWrongIssuer(t *testing.T) {
	signer, verifier := newPair(t, "HS256", jwtx.VerifyOptions{Issuer: exampleIssuer})

	token, err := signer.Sign(jwtx.NewSessionClaims("u1", "a@example.com", jwtx.RoleUser, "someone-else", time.Hour, time.Now()))
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrIssuer)
}

func TestVerifyRejectsTampering(t *testing.T) {
	signer, verifier := newPair(t, "HS256", jwtx.VerifyOptions{})
	token, err := signer.Sign(jwtx.NewSessionClaims("u1", "a@example.com", jwtx.RoleUser, "", time.Hour, time.Now()))
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)
	forged := strings.Replace(string(payload), `"role":"USER"`, `"role":"ADMIN"`, 1)
	require.NotEqual(t, string(payload), forged)
	parts[1] = base64.RawURLEncoding.EncodeToString([]byte(forged))

	_, err = verifier.Verify(strings.Join(parts, "."))
	require.ErrorIs(t, err, jwtx.ErrInvalidSig)
}

func TestVerifyRejectsOtherAlgorithms(t *testing.T) {
	_, verifier := newPair(t, "HS256", jwtx.VerifyOptions{})
	claims := jwtx.NewSessionClaims("u1", "a@example.com", jwtx.RoleAdmin, "", time.Hour, time.Now())

	t.Run("alg none", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = verifier.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrInvalidSig)
	})

	t.Run("HS512 with same secret", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(testSecret)
		require.NoError(t, err)
		_, err = verifier.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrInvalidSig)
	})
}

func TestVerifyFailsClosedOnMissingFields(t *testing.T) {
	_, verifier := newPair(t, "HS256", jwtx.VerifyOptions{})

	// Signed with the right secret but carrying no role: must not become a USER.
	raw := jwt.MapClaims{
		"id":    "u1",
		"email": "a@example.com",
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, raw).SignedString(testSecret)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrMalformed)
}

func TestVerifyMalformedInput(t *testing.T) {
	_, verifier := newPair(t, "HS256", jwtx.VerifyOptions{})

	for _, token := range []string{"", "   ", "abc", "a.b", "a.b.c", "not.a.token.at.all"} {
		_, err := verifier.Verify(token)
		require.Error(t, err, "token %q", token)
		require.ErrorIs(t, err, jwtx.ErrMalformed, "token %q", token)
	}
}

func TestSignerRejectsIncompleteClaims(t *testing.T) {
	signer, _ := newPair(t, "HS256", jwtx.VerifyOptions{})

	_, err := signer.Sign(jwtx.Claims{UserID: "u1"})
	require.ErrorIs(t, err, jwtx.ErrMalformed)
}

func TestConstructorsValidateInput(t *testing.T) {
	_, err := jwtx.NewSignerHMAC("HS256", []byte("short"))
	require.ErrorIs(t, err, jwtx.ErrWeakSecret)

	_, err = jwtx.NewSignerHMAC("RS256", testSecret)
	require.ErrorIs(t, err, jwtx.ErrAlgMismatch)

	_, err = jwtx.NewVerifierHMAC("HS256", []byte("short"), jwtx.VerifyOptions{})
	require.ErrorIs(t, err, jwtx.ErrWeakSecret)

	signer, err := jwtx.NewSignerHMAC("", testSecret)
	require.NoError(t, err)
	require.Equal(t, "HS256", signer.Alg())
}
