package locate

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/juju/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// FallbackClient talks to the external resolution provider. The rate
// limiter protects the upstream contract; when the budget is exhausted
// the lookup degrades to "no candidate" instead of queueing.
type FallbackClient struct {
	url     string
	client  *http.Client
	limiter *rate.Limiter
}

func NewFallbackClient(url string, timeout, limitInterval time.Duration, limitBurst int) *FallbackClient {
	return &FallbackClient{
		url:     url,
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Every(limitInterval), limitBurst),
	}
}

// Upstream wire format. The cell schema matches our public one except for
// radio naming: upstream kept the legacy "umts" label for what we call
// wcdma, so that gets translated at this boundary.
type fallbackRequest struct {
	CellTowers       []cellWire `json:"cellTowers,omitempty"`
	WifiAccessPoints []wifiWire `json:"wifiAccessPoints,omitempty"`
	Fallbacks        struct {
		LACF bool `json:"lacf"`
	} `json:"fallbacks"`
}

type fallbackResponse struct {
	Location struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	} `json:"location"`
	Accuracy float64 `json:"accuracy"`
}

func upstreamRadio(radio string) string {
	if radio == "wcdma" {
		return "umts"
	}

	return radio
}

func (fc *FallbackClient) Locate(ctx context.Context, query *Query) (lat, lon, accuracy float64, err error) {
	if !fc.limiter.Allow() {
		return 0, 0, 0, errors.New("fallback rate limit exhausted")
	}

	payload := fallbackRequest{}
	payload.Fallbacks.LACF = query.Fallbacks.LACF

	for _, observation := range query.Cells {
		mcc := int64(observation.MCC)
		mnc := int64(observation.MNC)
		lac := int64(observation.LAC)
		cid := observation.CID

		payload.CellTowers = append(payload.CellTowers, cellWire{
			RadioType:         upstreamRadio(observation.Radio.String()),
			MobileCountryCode: &mcc,
			MobileNetworkCode: &mnc,
			LocationAreaCode:  &lac,
			CellID:            &cid,
		})
	}

	for _, observation := range query.Wifis {
		payload.WifiAccessPoints = append(payload.WifiAccessPoints,
			wifiWire{MacAddress: observation.MAC})
	}

	body, err := json.Marshal(&payload)
	if err != nil {
		return 0, 0, 0, errors.Annotate(err, "cannot encode fallback request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fc.url,
		bytes.NewReader(body))
	if err != nil {
		return 0, 0, 0, errors.Annotate(err, "cannot build fallback request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := fc.client.Do(req)
	if err != nil {
		return 0, 0, 0, errors.Annotate(err, "fallback request failed")
	}
	defer func() {
		io.Copy(io.Discard, resp.Body) // nolint: errcheck
		resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return 0, 0, 0, errors.Errorf("fallback responded with %s", resp.Status)
	}

	parsed := fallbackResponse{}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return 0, 0, 0, errors.Annotate(err, "cannot decode fallback response")
	}

	return parsed.Location.Lat, parsed.Location.Lng, parsed.Accuracy, nil
}

// fallbackSource delegates to the external provider when the key permits
// it and the internal tier came up short.
type fallbackSource struct {
	client *FallbackClient
}

func (fs *fallbackSource) Type() SourceType {
	return SourceFallback
}

func (fs *fallbackSource) ShouldSearch(query *Query, gathered ResultList) bool {
	if fs.client == nil || !query.Key.AllowFallback {
		return false
	}

	if len(query.Cells) == 0 && len(query.Wifis) == 0 {
		return false
	}

	return !gathered.Satisfies(query.ExpectedAccuracy())
}

func (fs *fallbackSource) Search(ctx context.Context, query *Query) ResultList {
	lat, lon, accuracy, err := fs.client.Locate(ctx, query)
	if err != nil {
		log.WithFields(log.Fields{
			"error": err.Error(),
		}).Warn("Fallback lookup produced nothing.")

		return nil
	}

	return ResultList{NewPosition(SourceFallback, lat, lon, accuracy)}
}
