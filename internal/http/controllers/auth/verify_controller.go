package auth

import (
	"net/http"

	dto "github.com/dropDatabas3/authwire/internal/http/dto/auth"
	httperrors "github.com/dropDatabas3/authwire/internal/http/errors"
	"github.com/dropDatabas3/authwire/internal/http/middlewares"
	jwtx "github.com/dropDatabas3/authwire/internal/jwt"
)

// VerifyController valida los tokens del camino LOCAL.
type VerifyController struct {
	reg Registry
}

func NewVerifyController(reg Registry) *VerifyController {
	return &VerifyController{reg: reg}
}

// VerifyAccess maneja GET /v1/auth/verify.
func (c *VerifyController) VerifyAccess(w http.ResponseWriter, r *http.Request) {
	c.verify(w, r, c.reg.Access())
}

// VerifyRefresh maneja GET /v1/auth/verify-refresh.
func (c *VerifyController) VerifyRefresh(w http.ResponseWriter, r *http.Request) {
	c.verify(w, r, c.reg.Refresh())
}

func (c *VerifyController) verify(w http.ResponseWriter, r *http.Request, v *jwtx.Verifier) {
	claims, err := v.VerifyRequest(r)
	if err != nil {
		w.Header().Set("WWW-Authenticate", `Bearer realm="api", error="invalid_token"`)
		httperrors.WriteError(w, middlewares.TokenError(err))
		return
	}
	resp := dto.VerifyResponse{Valid: true, Subject: claims.Subject}
	if !claims.ExpiresAt.IsZero() {
		exp := claims.ExpiresAt
		resp.ExpiresAt = &exp
	}
	writeJSON(w, http.StatusOK, resp)
}
