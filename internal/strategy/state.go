package strategy

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dropDatabas3/authwire/internal/provider"
)

type stateClaims struct {
	Provider    string  `json:"prv"`
	RedirectURI *string `json:"redirect_uri,omitempty"`
	Nonce       string  `json:"nonce"`
	jwt.RegisteredClaims
}

// StateCodec signs the OAuth2 state parameter so the callback can trust the
// redirect target and nonce without a server-side session.
type StateCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewStateCodec builds a codec signing with HS256.
func NewStateCodec(secret string, ttl time.Duration) *StateCodec {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &StateCodec{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Encode returns the signed state and the nonce embedded in it.
func (c *StateCodec) Encode(id provider.ID, st State) (token, nonce string, err error) {
	now := c.now()
	nonce = uuid.NewString()
	claims := stateClaims{
		Provider:    string(id),
		RedirectURI: st.RedirectURI,
		Nonce:       nonce,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}
	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", "", fmt.Errorf("strategy: sign state: %w", err)
	}
	return token, nonce, nil
}

// Decode verifies token and returns the state and nonce. The provider must
// match the one the state was issued for.
func (c *StateCodec) Decode(id provider.ID, token string) (State, string, error) {
	var claims stateClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(c.now), jwt.WithExpirationRequired())
	if err != nil {
		return State{}, "", errors.Join(ErrInvalidState, err)
	}
	if claims.Provider != string(id) {
		return State{}, "", fmt.Errorf("%w: issued for %s", ErrInvalidState, claims.Provider)
	}
	return State{RedirectURI: claims.RedirectURI}, claims.Nonce, nil
}
