package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/andrasnagy-data/greenplate/internal/shared/apiclient"
	"github.com/andrasnagy-data/greenplate/internal/shared/session"
	"github.com/rs/zerolog/hlog"
)

const healthTimeout = 5 * time.Second

type (
	// HealthSrvc checks the upstream API and the session backend
	HealthSrvc struct {
		api      *apiclient.Client
		sessions session.Backend
	}

	// HealthResponse represents the response structure for health check endpoint
	HealthResponse struct {
		Status    string    `json:"status"`
		Timestamp time.Time `json:"timestamp"`
		API       bool      `json:"api"`
		Sessions  bool      `json:"sessions"`
	}
)

func NewHealthHandler(srvc *HealthSrvc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := hlog.FromRequest(r)

		response, errs := srvc.check(r.Context())

		w.Header().Set("Content-Type", "application/json")

		if response.API && response.Sessions {
			logger.Debug().Msg("Healthcheck ok")
			w.WriteHeader(http.StatusOK)
		} else {
			logger.Error().Errs("errors", errs).Bool("api", response.API).Bool("sessions", response.Sessions).Msg("Healthcheck failed")
			w.WriteHeader(http.StatusServiceUnavailable)
		}

		if err := json.NewEncoder(w).Encode(response); err != nil {
			logger.Error().Err(err).Msg("Failed to encode health check response")
		}
	}
}

func NewHealthSrvc(api *apiclient.Client, sessions session.Backend) *HealthSrvc {
	return &HealthSrvc{api: api, sessions: sessions}
}

func (s *HealthSrvc) check(ctx context.Context) (HealthResponse, []error) {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	var errs []error
	apiErr := s.api.Health(ctx)
	if apiErr != nil {
		errs = append(errs, apiErr)
	}
	sessErr := s.sessions.Ping(ctx)
	if sessErr != nil {
		errs = append(errs, sessErr)
	}

	response := HealthResponse{
		Status:    "serving",
		Timestamp: time.Now().UTC(),
		API:       apiErr == nil,
		Sessions:  sessErr == nil,
	}
	if len(errs) > 0 {
		response.Status = "not serving"
	}
	return response, errs
}
