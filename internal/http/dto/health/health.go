// Package health contiene los DTOs de /readyz.
package health

// HealthResponse resume el estado de cada componente.
type HealthResponse struct {
	Status     string            `json:"status"` // ready | unavailable
	Components map[string]string `json:"components"`
}
