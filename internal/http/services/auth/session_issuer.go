package auth

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	dto "github.com/dropDatabas3/authwire/internal/http/dto/auth"
	"github.com/dropDatabas3/authwire/internal/observability/logger"
	"github.com/dropDatabas3/authwire/internal/strategy"
)

// SessionIssuer recibe la identidad de un handshake completo y produce la
// respuesta final. La emisión de tokens vive fuera de este servicio; acá
// se enchufa la implementación que corresponda.
type SessionIssuer interface {
	Issue(w http.ResponseWriter, r *http.Request, ident *strategy.Identity, st strategy.State) error
}

// RedirectIssuer redirige al redirect_uri del state si su origen está en
// AllowedOrigins; si no, a DefaultURL. Sin destino, responde la identidad
// como JSON.
type RedirectIssuer struct {
	DefaultURL     string
	AllowedOrigins []string
}

// NewRedirectIssuer normaliza los orígenes permitidos.
func NewRedirectIssuer(defaultURL string, allowedOrigins []string) RedirectIssuer {
	origins := make([]string, 0, len(allowedOrigins))
	for _, o := range allowedOrigins {
		if n, ok := origin(o); ok {
			origins = append(origins, n)
		}
	}
	return RedirectIssuer{DefaultURL: defaultURL, AllowedOrigins: origins}
}

// origin devuelve scheme://host en minúsculas para URLs http(s) absolutas.
func origin(raw string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" || u.User != nil {
		return "", false
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return "", false
	}
	return scheme + "://" + strings.ToLower(u.Host), true
}

// Allowed reporta si target puede usarse como destino post-login.
func (i RedirectIssuer) Allowed(target string) bool {
	o, ok := origin(target)
	if !ok || strings.TrimSpace(target) != target {
		return false
	}
	for _, a := range i.AllowedOrigins {
		if strings.EqualFold(a, o) {
			return true
		}
	}
	return false
}

func (i RedirectIssuer) Issue(w http.ResponseWriter, r *http.Request, ident *strategy.Identity, st strategy.State) error {
	target := i.DefaultURL
	if st.RedirectURI != nil && *st.RedirectURI != "" {
		if i.Allowed(*st.RedirectURI) {
			target = *st.RedirectURI
		} else {
			logger.From(r.Context()).Warn("redirect_uri not allowed, using default",
				logger.Layer("service"),
				logger.Op("RedirectIssuer.Issue"),
				logger.Provider(ident.Provider.String()),
				logger.String("redirect_uri", *st.RedirectURI),
			)
		}
	}

	w.Header().Set("Cache-Control", "no-store")
	if target != "" {
		http.Redirect(w, r, target, http.StatusFound)
		return nil
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	return json.NewEncoder(w).Encode(dto.IdentityResponse{
		Provider:      ident.Provider.String(),
		Subject:       ident.Subject,
		Email:         ident.Email,
		EmailVerified: ident.EmailVerified,
		Name:          ident.Name,
		AvatarURL:     ident.AvatarURL,
	})
}
