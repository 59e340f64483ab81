package middlewares

import (
	"errors"
	"net/http"

	httperrors "github.com/dropDatabas3/authwire/internal/http/errors"
	jwtx "github.com/dropDatabas3/authwire/internal/jwt"
)

// RequireToken valida el token con v y guarda las claims en el contexto.
// Sin token o con token inválido responde 401.
func RequireToken(v *jwtx.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := v.VerifyRequest(r)
			if err != nil {
				w.Header().Set("WWW-Authenticate", `Bearer realm="api", error="invalid_token"`)
				httperrors.WriteError(w, TokenError(err))
				return
			}
			next.ServeHTTP(w, r.WithContext(jwtx.WithClaims(r.Context(), claims)))
		})
	}
}

// TokenError traduce los errores del verificador al AppError correspondiente.
func TokenError(err error) *httperrors.AppError {
	switch {
	case errors.Is(err, jwtx.ErrTokenMissing):
		return httperrors.ErrTokenMissing
	case errors.Is(err, jwtx.ErrTokenExpired):
		return httperrors.ErrTokenExpired
	default:
		return httperrors.ErrTokenInvalid.WithCause(err)
	}
}
