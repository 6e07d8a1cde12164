package api

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/alexivanou/trip-planner-api/internal/itinerary"
	"github.com/alexivanou/trip-planner-api/internal/model"
	"github.com/alexivanou/trip-planner-api/internal/service"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Handler handles HTTP requests
type Handler struct {
	service service.ServiceInterface
	logger  *zap.Logger
}

// NewHandler creates a new handler instance
func NewHandler(service service.ServiceInterface, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// SearchCities handles GET /api/v1/cities
func (h *Handler) SearchCities(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		http.Error(w, "query parameter 'q' is required", http.StatusBadRequest)
		return
	}

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		var err error
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit <= 0 {
			http.Error(w, "invalid limit parameter", http.StatusBadRequest)
			return
		}
	}

	response, err := h.service.SearchCities(r.Context(), query, limit)
	if err != nil {
		h.writeError(w, "search cities", err)
		return
	}
	h.writeJSON(w, http.StatusOK, response)
}

// FindNearestCity handles GET /api/v1/cities/nearest
func (h *Handler) FindNearestCity(w http.ResponseWriter, r *http.Request) {
	latStr := r.URL.Query().Get("lat")
	lonStr := r.URL.Query().Get("lon")

	if latStr == "" || lonStr == "" {
		http.Error(w, "parameters 'lat' and 'lon' are required", http.StatusBadRequest)
		return
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		http.Error(w, "invalid lat parameter", http.StatusBadRequest)
		return
	}

	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		http.Error(w, "invalid lon parameter", http.StatusBadRequest)
		return
	}

	response, err := h.service.FindNearestCity(r.Context(), lat, lon)
	if err != nil {
		h.writeError(w, "find nearest city", err)
		return
	}
	h.writeJSON(w, http.StatusOK, response)
}

// GetCity handles GET /api/v1/cities/{id}
func (h *Handler) GetCity(w http.ResponseWriter, r *http.Request) {
	city, err := h.service.GetCity(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, "get city", err)
		return
	}
	h.writeJSON(w, http.StatusOK, city)
}

// CreateTrip handles POST /api/v1/trips
func (h *Handler) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var req model.CreateTripRequest
	if !h.decode(w, r, &req) {
		return
	}

	trip, err := h.service.CreateTrip(r.Context(), req)
	if err != nil {
		h.writeError(w, "create trip", err)
		return
	}
	h.writeJSON(w, http.StatusCreated, trip)
}

// GetTrip handles GET /api/v1/trips/{id}
func (h *Handler) GetTrip(w http.ResponseWriter, r *http.Request) {
	trip, err := h.service.GetTrip(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, "get trip", err)
		return
	}
	h.writeJSON(w, http.StatusOK, trip)
}

// ValidateTrip handles GET /api/v1/trips/{id}/validate
func (h *Handler) ValidateTrip(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.ValidateTrip(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, "validate trip", err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

// OptimizeRoute handles POST /api/v1/route/optimize
func (h *Handler) OptimizeRoute(w http.ResponseWriter, r *http.Request) {
	var req model.CityIDsRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.service.OptimizeRoute(r.Context(), req.CityIDs)
	if err != nil {
		h.writeError(w, "optimize route", err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

// DistanceMatrix handles POST /api/v1/route/distance-matrix
func (h *Handler) DistanceMatrix(w http.ResponseWriter, r *http.Request) {
	var req model.CityIDsRequest
	if !h.decode(w, r, &req) {
		return
	}

	matrix, err := h.service.GetDistanceMatrix(r.Context(), req.CityIDs)
	if err != nil {
		h.writeError(w, "build distance matrix", err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"matrix": matrix})
}

// GenerateItinerary handles POST /api/v1/itinerary/generate
func (h *Handler) GenerateItinerary(w http.ResponseWriter, r *http.Request) {
	var req itinerary.Request
	if !h.decode(w, r, &req) {
		return
	}
	if req.TripID == "" || req.StartDate == "" || req.EndDate == "" {
		http.Error(w, "trip_id, start_date and end_date are required", http.StatusBadRequest)
		return
	}

	result, err := h.service.GenerateItinerary(r.Context(), req)
	if err != nil {
		h.writeError(w, "generate itinerary", err)
		return
	}
	h.writeJSON(w, http.StatusCreated, result)
}

// GetItinerary handles GET /api/v1/itinerary/{tripId}
func (h *Handler) GetItinerary(w http.ResponseWriter, r *http.Request) {
	tripID := mux.Vars(r)["tripId"]
	stops, err := h.service.GetItinerary(r.Context(), tripID)
	if err != nil {
		h.writeError(w, "get itinerary", err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"trip_id": tripID, "itinerary": stops})
}

// GetItinerarySummary handles GET /api/v1/itinerary/{tripId}/summary
func (h *Handler) GetItinerarySummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.GetItinerarySummary(r.Context(), mux.Vars(r)["tripId"])
	if err != nil {
		h.writeError(w, "summarise itinerary", err)
		return
	}
	h.writeJSON(w, http.StatusOK, summary)
}

// GetBudget handles GET /api/v1/budget/{tripId}?planned=
func (h *Handler) GetBudget(w http.ResponseWriter, r *http.Request) {
	planned, ok := plannedBudget(w, r)
	if !ok {
		return
	}

	analysis, err := h.service.CalculateBudgetDrift(r.Context(), mux.Vars(r)["tripId"], planned)
	if err != nil {
		h.writeError(w, "analyse budget", err)
		return
	}
	h.writeJSON(w, http.StatusOK, analysis)
}

// ValidateBudget handles GET /api/v1/budget/{tripId}/validate?planned=
func (h *Handler) ValidateBudget(w http.ResponseWriter, r *http.Request) {
	planned, ok := plannedBudget(w, r)
	if !ok {
		return
	}

	result, err := h.service.ValidateBudget(r.Context(), mux.Vars(r)["tripId"], planned)
	if err != nil {
		h.writeError(w, "validate budget", err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

// AddExpense handles POST /api/v1/budget/expense
func (h *Handler) AddExpense(w http.ResponseWriter, r *http.Request) {
	var req model.NewExpenseRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.TripID == "" || req.ExpenseDate == "" {
		http.Error(w, "trip_id and expense_date are required", http.StatusBadRequest)
		return
	}

	check := h.service.ValidateExpense(req)
	if !check.IsValid {
		h.writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":               "validation failed",
			"validation_errors":   check.Errors,
			"validation_warnings": check.Warnings,
		})
		return
	}

	expense, err := h.service.AddExpense(r.Context(), req)
	if err != nil {
		h.writeError(w, "add expense", err)
		return
	}
	h.writeJSON(w, http.StatusCreated, map[string]any{"expense": expense, "warnings": check.Warnings})
}

// GetExpenses handles GET /api/v1/budget/{tripId}/expenses
func (h *Handler) GetExpenses(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.GetExpenses(r.Context(), mux.Vars(r)["tripId"])
	if err != nil {
		h.writeError(w, "list expenses", err)
		return
	}
	h.writeJSON(w, http.StatusOK, list)
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func plannedBudget(w http.ResponseWriter, r *http.Request) (float64, bool) {
	raw := r.URL.Query().Get("planned")
	if raw == "" {
		http.Error(w, "query parameter 'planned' is required", http.StatusBadRequest)
		return 0, false
	}
	planned, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(planned) || math.IsInf(planned, 0) || planned <= 0 {
		http.Error(w, "planned must be a positive number", http.StatusBadRequest)
		return 0, false
	}
	return planned, true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

// writeError maps service errors to status codes. Only server-side failures are logged.
func (h *Handler) writeError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, model.ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, model.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		h.logger.Error("Request failed", zap.String("op", op), zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Error encoding response", zap.Error(err))
	}
}
