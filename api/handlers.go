package api

import (
	"context"
	"math/rand"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/positron-geo/positron/locate"
	"github.com/positron-geo/positron/metrics"
	"github.com/positron-geo/positron/queue"
	"github.com/positron-geo/positron/quota"
)

// Handler serves one API view. The same resolution flow backs every
// view; they differ in capability mode, response rendering and the
// status used for "not found" (the legacy search view reports it inside
// a 200 body).
type Handler struct {
	mode     quota.Mode
	path     string
	guard    *quota.Guard
	searcher *locate.Searcher
	queue    queue.Queue
	sink     metrics.Sink

	render         func(w http.ResponseWriter, result locate.Result, fallback string)
	renderNotFound func(w http.ResponseWriter)

	// sample decides whether a resolved query gets enqueued, given the
	// key's sampling percentage. Injectable for tests.
	sample func(percent int) bool
}

func defaultSample(percent int) bool {
	if percent <= 0 {
		return false
	}

	return rand.Intn(100) < percent
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	ip := clientIP(req)
	client := ""
	if ip != nil {
		client = ip.String()
	}

	admission, err := h.guard.Admit(ctx, req.URL.Query().Get("key"), h.mode, client)
	h.sink.Incr(string(h.mode)+".request",
		"path:"+h.path, "key:"+admission.KeyTag)

	switch err {
	case nil:
	case quota.ErrLimitExceeded:
		errDailyLimit.write(w)
		return
	default:
		errInvalidKey.write(w)
		return
	}

	var body []byte
	if req.Method == http.MethodPost {
		var apiErr *apiError
		if body, apiErr = readBody(req); apiErr != nil {
			apiErr.write(w)
			return
		}
	}

	query, invalid := locate.ParseQuery(body, admission.Key, h.mode, ip)
	if invalid != nil {
		parseError(map[string]interface{}{"validation": invalid.Fields}).write(w)
		return
	}

	result, found := h.searcher.Search(ctx, query)
	if !found {
		h.renderNotFound(w)
		return
	}

	h.render(w, result, result.Source.FallbackTag())
	h.maybeEnqueue(ctx, query, result)
}

// maybeEnqueue hands a sample of successfully resolved observation sets
// to the data queue for later re-processing. Best effort: a full or
// broken queue never affects the response.
func (h *Handler) maybeEnqueue(ctx context.Context, query *locate.Query, result locate.Result) {
	if h.queue == nil || h.mode != quota.ModeLocate {
		return
	}

	if result.Type != locate.ResultPosition {
		return
	}

	if len(query.Blues) == 0 && len(query.Wifis) == 0 &&
		len(query.Cells) == 0 && len(query.Areas) == 0 {
		return
	}

	if !h.sample(query.Key.StoreSampleLocate) {
		return
	}

	report := queue.Report{
		Position: &queue.PositionSeen{
			Lat:      result.Lat,
			Lon:      result.Lon,
			Accuracy: result.Accuracy,
		},
	}

	for _, observation := range query.Blues {
		report.BlueMACs = append(report.BlueMACs, observation.MAC)
	}
	for _, observation := range query.Wifis {
		report.WifiMACs = append(report.WifiMACs, observation.MAC)
	}
	for _, observation := range query.Cells {
		report.Cells = append(report.Cells, queue.CellReport{
			Radio: observation.Radio.String(),
			MCC:   observation.MCC,
			MNC:   observation.MNC,
			LAC:   observation.LAC,
			CID:   observation.CID,
		})
	}

	if err := h.queue.Enqueue(ctx, report); err != nil {
		log.WithFields(log.Fields{
			"error": err.Error(),
		}).Warn("Cannot enqueue observation report.")
	}
}

type geolocateResponse struct {
	Location struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	} `json:"location"`
	Accuracy float64 `json:"accuracy"`
	Fallback string  `json:"fallback,omitempty"`
}

func renderGeolocate(w http.ResponseWriter, result locate.Result, fallback string) {
	resp := geolocateResponse{Accuracy: result.Accuracy, Fallback: fallback}
	resp.Location.Lat = result.Lat
	resp.Location.Lng = result.Lon

	writeJSON(w, http.StatusOK, &resp)
}

type searchResponse struct {
	Status   string  `json:"status"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Accuracy float64 `json:"accuracy"`
	Fallback string  `json:"fallback,omitempty"`
}

func renderSearch(w http.ResponseWriter, result locate.Result, fallback string) {
	writeJSON(w, http.StatusOK, &searchResponse{
		Status:   "ok",
		Lat:      result.Lat,
		Lon:      result.Lon,
		Accuracy: result.Accuracy,
		Fallback: fallback,
	})
}

func renderSearchNotFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "not_found"})
}

type countryResponse struct {
	CountryCode string `json:"country_code"`
	CountryName string `json:"country_name"`
}

func renderCountry(w http.ResponseWriter, result locate.Result, _ string) {
	writeJSON(w, http.StatusOK, &countryResponse{
		CountryCode: result.RegionCode,
		CountryName: result.RegionName,
	})
}
