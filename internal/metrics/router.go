package metrics

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/five82/storefront/internal/store"
)

// StateSource supplies the snapshot served on /state.
type StateSource interface {
	GetState() store.RootState
}

// Router serves /metrics from m's registry and the current state as JSON
// on /state and /state/{slice}.
func Router(m *Metrics, src StateSource) *mux.Router {
	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	router.HandleFunc("/state", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, src.GetState())
	}).Methods(http.MethodGet)
	router.HandleFunc("/state/{slice}", func(w http.ResponseWriter, r *http.Request) {
		s := src.GetState()
		switch mux.Vars(r)["slice"] {
		case store.SliceCart:
			writeJSON(w, s.Cart)
		case store.SliceProduct:
			writeJSON(w, s.Product)
		default:
			http.NotFound(w, r)
		}
	}).Methods(http.MethodGet)
	return router
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
