package api

import (
	"net/http"
	"time"

	"github.com/alexivanou/trip-planner-api/internal/service"
	"github.com/alexivanou/trip-planner-api/internal/stats"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// NewRouter creates a new HTTP router
func NewRouter(service service.ServiceInterface, statsCollector *stats.Collector, logger *zap.Logger) *mux.Router {
	handler := NewHandler(service, logger)
	statsHandler := NewStatsHandler(statsCollector, logger)

	router := mux.NewRouter()
	router.Use(requestLogger(logger))

	// Health check
	router.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	// API v1
	v1 := router.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/cities", handler.SearchCities).Methods("GET")
	v1.HandleFunc("/cities/nearest", handler.FindNearestCity).Methods("GET")
	v1.HandleFunc("/cities/{id}", handler.GetCity).Methods("GET")

	v1.HandleFunc("/trips", handler.CreateTrip).Methods("POST")
	v1.HandleFunc("/trips/{id}", handler.GetTrip).Methods("GET")
	v1.HandleFunc("/trips/{id}/validate", handler.ValidateTrip).Methods("GET")

	v1.HandleFunc("/route/optimize", handler.OptimizeRoute).Methods("POST")
	v1.HandleFunc("/route/distance-matrix", handler.DistanceMatrix).Methods("POST")

	v1.HandleFunc("/itinerary/generate", handler.GenerateItinerary).Methods("POST")
	v1.HandleFunc("/itinerary/{tripId}", handler.GetItinerary).Methods("GET")
	v1.HandleFunc("/itinerary/{tripId}/summary", handler.GetItinerarySummary).Methods("GET")

	v1.HandleFunc("/budget/expense", handler.AddExpense).Methods("POST")
	v1.HandleFunc("/budget/{tripId}", handler.GetBudget).Methods("GET")
	v1.HandleFunc("/budget/{tripId}/validate", handler.ValidateBudget).Methods("GET")
	v1.HandleFunc("/budget/{tripId}/expenses", handler.GetExpenses).Methods("GET")

	v1.HandleFunc("/stats", statsHandler.GetStats).Methods("GET")

	return router
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func requestLogger(logger *zap.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			logger.Debug("Request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", rec.status),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}
