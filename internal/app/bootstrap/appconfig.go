// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig handles
// framework-level settings (ports, TLS, logging, CORS); AppConfig is
// everything specific to this application.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Bearer-token auth
	AuthSigningKey string        // HS256 signing key (must be strong in production)
	AuthIssuer     string        // Issuer claim on issued tokens
	AuthTokenTTL   time.Duration // Token lifetime

	// Group policy
	GroupMaxMembers      int  // Group capacity (admin included)
	AllowResubmitAfterNo bool // Allow proposal resubmission to a supervisor who rejected

	// External paper search
	ArxivBaseURL string        // arXiv query endpoint (blank means the public API)
	ArxivTimeout time.Duration // Upstream request timeout
}
