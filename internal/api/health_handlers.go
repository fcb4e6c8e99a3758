package api

import (
	"net/http"
	"time"

	"github.com/earmarkapp/earmark-server/internal/http/response"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping() error
}

// componentHealth describes the health of a single component.
type componentHealth struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
	Message string `json:"message,omitempty"`
}

// healthResponse contains health check data.
type healthResponse struct {
	Status     string                     `json:"status"`
	Components map[string]componentHealth `json:"components"`
}

// handleHealthCheck handles GET /health. Unauthorized on purpose so
// load balancers can probe it.
func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	overall := "healthy"
	components := make(map[string]componentHealth)

	start := time.Now()
	if err := s.store.Ping(); err != nil {
		overall = "unhealthy"
		components["store"] = componentHealth{
			Status:  "unhealthy",
			Message: err.Error(),
		}
	} else {
		components["store"] = componentHealth{
			Status:  "healthy",
			Latency: time.Since(start).String(),
		}
	}

	body := healthResponse{Status: overall, Components: components}
	if overall != "healthy" {
		response.JSON(w, http.StatusServiceUnavailable, body, s.logger)
		return
	}
	response.Success(w, body, s.logger)
}
