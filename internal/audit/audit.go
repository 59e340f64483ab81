// Package audit registra eventos de seguridad (logins SSO, rechazos) en un
// logger dedicado. Más adelante puede enchufarse a un sink externo.
package audit

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/dropDatabas3/authwire/internal/observability/logger"
)

// Eventos conocidos.
const (
	EventSSOLogin    = "sso.login"
	EventSSOFailed   = "sso.failed"
	EventSSORejected = "sso.rejected"
)

// Log escribe un evento de auditoría con el logger del request.
func Log(ctx context.Context, event string, fields ...zap.Field) {
	logger.From(ctx).Named("audit").Info(event, append(fields, logger.String("event", event))...)
}

// MaskEmail deja la primera letra del usuario y del dominio.
//
//	jane.doe@example.com -> j…@e….com
func MaskEmail(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	i := strings.IndexByte(s, '@')
	if i <= 0 {
		if s == "" {
			return ""
		}
		if len(s) <= 3 {
			return "***"
		}
		return s[:1] + "…" + s[len(s)-1:]
	}
	user, dom := s[:i], s[i+1:]
	if len(user) > 1 {
		user = user[:1] + "…"
	}
	parts := strings.Split(dom, ".")
	if len(parts[0]) > 1 {
		parts[0] = parts[0][:1] + "…"
	}
	return user + "@" + strings.Join(parts, ".")
}
