// Package logger expone el zap.Logger del proceso y su versión por request.
//
// cmd/authwire llama Init una vez; WithLogging guarda en el contexto un logger
// con request_id, method y path, y el resto del código lo obtiene con From.
//
//	log := logger.From(ctx).With(logger.Layer("guard"), logger.Provider("OIDC"))
//	log.Warn("provider disabled")
package logger
