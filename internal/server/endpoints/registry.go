package endpoints

import (
	"github.com/jackzampolin/bookmark/internal/api"
)

// Config holds dependencies needed by some endpoints.
type Config struct {
	// SwaggerHost is the host advertised in /swagger.json.
	SwaggerHost string
}

// All returns all endpoint instances.
func All(cfg Config) []api.Endpoint {
	return []api.Endpoint{
		&HealthEndpoint{},

		// Book endpoints
		&TOCEndpoint{},
		&InfoEndpoint{},

		// Progress endpoints
		&ProgressEndpoint{},

		// Swagger/OpenAPI endpoints
		&SwaggerEndpoint{Host: cfg.SwaggerHost},
		&SwaggerUIEndpoint{},
	}
}
