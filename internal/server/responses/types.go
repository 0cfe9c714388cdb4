// Package responses defines JSON response types used by hapsite HTTP handlers.
package responses

import "time"

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	// Version is the binary version, ContentVersion the protocol version served.
	Version        string   `json:"version"`
	ContentVersion string   `json:"content_version"`
	Uptime         float64  `json:"uptime"`
	Profiles       []string `json:"profiles"`
}
