package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	jobmatchErrors "jobmatch/internal/errors"
	"jobmatch/internal/observability"

	"go.opentelemetry.io/otel/attribute"
)

// createRecommendationsHandler wraps the recommendations handler with observability
func (s *Server) createRecommendationsHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("jobmatch.api")
		ctx, span := tracer.Start(ctx, "api.recommendations")
		defer span.End()

		if r.Method != http.MethodPost {
			writeErrorResponse(w, "Method not allowed", "use POST", http.StatusMethodNotAllowed)
			return
		}

		// Parse request
		var req RecommendRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		// Validation
		if strings.TrimSpace(req.UserID) == "" {
			err := jobmatchErrors.NewValidationError(jobmatchErrors.ErrCodeMissingUserID, "user id is required", nil)
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Missing user id", "userId field is required", http.StatusBadRequest)
			return
		}

		audience := "seeker"
		if req.IsEmployer {
			audience = "employer"
		}
		span.SetAttributes(
			attribute.String("request.user_id", req.UserID),
			attribute.String("request.audience", audience),
			attribute.Bool("request.refresh", req.Refresh),
			attribute.String("operation", "recommend"),
		)

		run := s.Pipeline.Recommend
		if req.Refresh {
			run = s.Pipeline.Refresh
		}

		result, err := run(ctx, req.UserID, req.IsEmployer)
		if err != nil {
			span.RecordError(err)
			var appErr *jobmatchErrors.AppError
			if errors.As(err, &appErr) && appErr.Code == jobmatchErrors.ErrCodeMissingUserID {
				span.SetAttributes(attribute.String("error.type", "validation"))
				writeErrorResponse(w, "Missing user id", appErr.Message, http.StatusBadRequest)
				return
			}
			span.SetAttributes(attribute.String("error.type", "pipeline"))
			writeErrorResponse(w, "Failed to produce recommendations", err.Error(), http.StatusInternalServerError)
			return
		}

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("response.candidates", len(result.Candidates)),
			attribute.Bool("response.fallback", result.SoftError != ""),
		)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			span.RecordError(err)
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// createRateLimitMiddleware adds observability to rate limiting
func (s *Server) createRateLimitMiddleware(om *observability.ObservabilityManager) func(http.HandlerFunc) http.HandlerFunc {
	originalMiddleware := s.rateLimitMiddleware()

	return func(next http.HandlerFunc) http.HandlerFunc {
		return originalMiddleware(func(w http.ResponseWriter, r *http.Request) {
			// Wrap the ResponseWriter to detect rate limit responses
			wrapper := &responseWrapper{ResponseWriter: w, statusCode: 200}

			next(wrapper, r)

			// If rate limited, record metric
			if wrapper.statusCode == http.StatusTooManyRequests {
				om.GetMetrics().RecordRateLimitHit(r.Context(), om,
					attribute.String("endpoint", r.URL.Path),
					attribute.String("method", r.Method))
			}
		})
	}
}

// responseWrapper wraps http.ResponseWriter to capture status code
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
