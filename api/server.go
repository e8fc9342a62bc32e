package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/positron-geo/positron/locate"
	"github.com/positron-geo/positron/metrics"
	"github.com/positron-geo/positron/queue"
	"github.com/positron-geo/positron/quota"
)

// Deps collects everything the router needs. The two searchers are
// shared across views of the same capability. A nil sink falls back to
// the no-op one.
type Deps struct {
	Guard            *quota.Guard
	PositionSearcher *locate.Searcher
	RegionSearcher   *locate.Searcher
	Queue            queue.Queue
	Sink             metrics.Sink
}

func NewRouter(deps Deps) *chi.Mux {
	sink := deps.Sink
	if sink == nil {
		sink = metrics.NopSink{}
	}

	router := chi.NewRouter()

	router.Use(middleware.StripSlashes)
	router.Use(middleware.Recoverer)
	router.Use(corsMiddleware)

	router.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusMethodNotAllowed)
	})

	renderNotFound := func(w http.ResponseWriter) {
		errNotFound.write(w)
	}

	geolocate := &Handler{
		mode:           quota.ModeLocate,
		path:           "v1.geolocate",
		guard:          deps.Guard,
		searcher:       deps.PositionSearcher,
		queue:          deps.Queue,
		sink:           sink,
		render:         renderGeolocate,
		renderNotFound: renderNotFound,
		sample:         defaultSample,
	}

	search := &Handler{
		mode:           quota.ModeLocate,
		path:           "v1.search",
		guard:          deps.Guard,
		searcher:       deps.PositionSearcher,
		queue:          deps.Queue,
		sink:           sink,
		render:         renderSearch,
		renderNotFound: renderSearchNotFound,
		sample:         defaultSample,
	}

	country := &Handler{
		mode:           quota.ModeRegion,
		path:           "v1.country",
		guard:          deps.Guard,
		searcher:       deps.RegionSearcher,
		sink:           sink,
		render:         renderCountry,
		renderNotFound: renderNotFound,
		sample:         defaultSample,
	}

	mount(router, "/v1/geolocate", withRequestStats(sink, "v1.geolocate", geolocate))
	mount(router, "/v1/search", withRequestStats(sink, "v1.search", search))
	mount(router, "/v1/country", withRequestStats(sink, "v1.country", country))

	return router
}

func mount(router chi.Router, pattern string, handler http.Handler) {
	router.Method(http.MethodPost, pattern, handler)
	router.Method(http.MethodGet, pattern, handler)
}

const corsMaxAge = "2592000"

// corsMiddleware answers preflight requests itself and stamps the open
// CORS policy on every response.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Max-Age", corsMaxAge)

		if req.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.WriteHeader(http.StatusOK)

			return
		}

		next.ServeHTTP(w, req)
	})
}

type statusWriter struct {
	http.ResponseWriter

	status int
}

func (sw *statusWriter) WriteHeader(status int) {
	sw.status = status
	sw.ResponseWriter.WriteHeader(status)
}

// withRequestStats emits the transport-level counter and timing for a
// view, independent of the outcome metrics the handler emits.
func withRequestStats(sink metrics.Sink, path string, next http.Handler) http.Handler {
	pathTag := "path:" + path

	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		started := time.Now()
		writer := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(writer, req)

		methodTag := "method:" + strings.ToLower(req.Method)

		sink.Incr("request", pathTag, methodTag,
			"status:"+strconv.Itoa(writer.status))
		sink.Timing("request.timing", time.Since(started), pathTag, methodTag)
	})
}
