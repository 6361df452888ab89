package predictor

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agri-hub/irrigation-backend/internal/model"
)

// NewRouter exposes the service over HTTP. Every route answers with a
// well-formed JSON body; pipeline errors become {"error": ...}, never a
// fault.
func NewRouter(svc *Service) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "irrigation backend is running"})
	})

	r.Post("/predict", func(w http.ResponseWriter, req *http.Request) {
		var snap model.Snapshot
		if err := json.NewDecoder(req.Body).Decode(&snap); err != nil {
			writeJSON(w, http.StatusOK, map[string]string{"error": "invalid request body: " + err.Error()})
			return
		}
		res, err := svc.Predict(req.Context(), snap)
		if err != nil {
			writeJSON(w, http.StatusOK, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, res)
	})

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, svc.Health(req.Context()))
	})

	r.Post("/trigger-prediction", func(w http.ResponseWriter, req *http.Request) {
		type triggerResponse struct {
			Status    string `json:"status"`
			Message   string `json:"message,omitempty"`
			Result    any    `json:"result,omitempty"`
			InputData any    `json:"input_data,omitempty"`
		}
		res, snap, err := svc.Trigger(req.Context())
		switch {
		case errors.Is(err, ErrNoData):
			writeJSON(w, http.StatusOK, triggerResponse{Status: "error", Message: ErrNoData.Error()})
		case err != nil:
			writeJSON(w, http.StatusOK, triggerResponse{Status: "error", Message: err.Error(), InputData: snap})
		default:
			writeJSON(w, http.StatusOK, triggerResponse{Status: "success", Result: res, InputData: snap})
		}
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
