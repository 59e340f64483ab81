// Package jwt verifica los tokens del camino LOCAL (access + refresh).
// La emisión queda fuera de este servicio: acá sólo se valida HS256.
package jwt

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

const (
	AccessCookie  = "access_token"
	RefreshCookie = "refresh_token"
)

var (
	ErrTokenMissing = errors.New("token_missing")
	ErrTokenInvalid = errors.New("token_invalid")
	ErrTokenExpired = errors.New("token_expired")
)

// Claims son las claims verificadas de un token LOCAL.
type Claims struct {
	Subject   string
	ExpiresAt time.Time
	Raw       map[string]any
}

// Extractor obtiene el token crudo de un request ("" si no hay).
type Extractor func(r *http.Request) string

// FromBearer lee Authorization: Bearer <token>.
func FromBearer(r *http.Request) string {
	ah := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(ah) < len("bearer ") || !strings.EqualFold(ah[:len("bearer ")], "bearer ") {
		return ""
	}
	return strings.TrimSpace(ah[len("bearer "):])
}

// FromCookie lee el token de la cookie name.
func FromCookie(name string) Extractor {
	return func(r *http.Request) string {
		c, err := r.Cookie(name)
		if err != nil {
			return ""
		}
		return strings.TrimSpace(c.Value)
	}
}

// FirstOf devuelve el primer token no vacío.
func FirstOf(ex ...Extractor) Extractor {
	return func(r *http.Request) string {
		for _, e := range ex {
			if tok := e(r); tok != "" {
				return tok
			}
		}
		return ""
	}
}

// Verifier valida tokens HS256 firmados con un secreto compartido.
type Verifier struct {
	name    string
	secret  []byte
	extract Extractor
	leeway  time.Duration
	now     func() time.Time
}

// NewAccessVerifier acepta Bearer o la cookie access_token.
func NewAccessVerifier(secret string) *Verifier {
	return &Verifier{
		name:    "access",
		secret:  []byte(secret),
		extract: FirstOf(FromBearer, FromCookie(AccessCookie)),
		leeway:  30 * time.Second,
		now:     time.Now,
	}
}

// NewRefreshVerifier sólo acepta la cookie refresh_token.
func NewRefreshVerifier(secret string) *Verifier {
	return &Verifier{
		name:    "refresh",
		secret:  []byte(secret),
		extract: FromCookie(RefreshCookie),
		leeway:  30 * time.Second,
		now:     time.Now,
	}
}

func (v *Verifier) Name() string { return v.name }

// Verify valida firma, exp/nbf (con tolerancia) y exige sub.
func (v *Verifier) Verify(token string) (*Claims, error) {
	if token == "" {
		return nil, ErrTokenMissing
	}
	tok, err := jwtv5.Parse(token, func(*jwtv5.Token) (any, error) {
		return v.secret, nil
	},
		jwtv5.WithValidMethods([]string{jwtv5.SigningMethodHS256.Alg()}),
		jwtv5.WithLeeway(v.leeway),
		jwtv5.WithTimeFunc(v.now),
		jwtv5.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwtv5.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	mc, ok := tok.Claims.(jwtv5.MapClaims)
	if !ok {
		return nil, ErrTokenInvalid
	}
	sub, _ := mc.GetSubject()
	if sub == "" {
		return nil, fmt.Errorf("%w: missing sub", ErrTokenInvalid)
	}
	out := &Claims{Subject: sub, Raw: make(map[string]any, len(mc))}
	if exp, _ := mc.GetExpirationTime(); exp != nil {
		out.ExpiresAt = exp.Time
	}
	for k, val := range mc {
		out.Raw[k] = val
	}
	return out, nil
}

// VerifyRequest extrae el token del request y lo valida.
func (v *Verifier) VerifyRequest(r *http.Request) (*Claims, error) {
	return v.Verify(v.extract(r))
}
