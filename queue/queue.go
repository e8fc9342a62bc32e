// Package queue hands resolved observation samples over to the
// asynchronous ingestion pipeline. The consumer side is a separate
// process; this side only pushes and reports backlog size.
package queue

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/juju/errors"
	"github.com/redis/go-redis/v9"
)

// DefaultKey is the list the batch pipeline consumes from.
const DefaultKey = "update_incoming"

// Report is one submitted observation set together with the position it
// resolved to, queued for later re-processing.
type Report struct {
	BlueMACs []string      `json:"blue,omitempty"`
	WifiMACs []string      `json:"wifi,omitempty"`
	Cells    []CellReport  `json:"cell,omitempty"`
	Position *PositionSeen `json:"position,omitempty"`
}

type CellReport struct {
	Radio string `json:"radio"`
	MCC   uint16 `json:"mcc"`
	MNC   uint16 `json:"mnc"`
	LAC   uint16 `json:"lac"`
	CID   int64  `json:"cid,omitempty"`
}

type PositionSeen struct {
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Accuracy float64 `json:"accuracy"`
}

// Queue accepts observation reports and exposes the pending backlog size
// for backpressure visibility.
type Queue interface {
	Enqueue(ctx context.Context, report Report) error
	Size(ctx context.Context) (int64, error)
}

// RedisQueue is a Queue backed by a redis list.
type RedisQueue struct {
	client *redis.Client
	key    string
}

func NewRedisQueue(client *redis.Client, key string) *RedisQueue {
	if key == "" {
		key = DefaultKey
	}

	return &RedisQueue{client: client, key: key}
}

func (rq *RedisQueue) Enqueue(ctx context.Context, report Report) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return errors.Annotate(err, "cannot encode report")
	}

	return errors.Annotate(rq.client.LPush(ctx, rq.key, payload).Err(),
		"cannot push report")
}

func (rq *RedisQueue) Size(ctx context.Context) (int64, error) {
	size, err := rq.client.LLen(ctx, rq.key).Result()

	return size, errors.Annotate(err, "cannot read queue size")
}

// MemoryQueue keeps reports in memory for tests and local development.
type MemoryQueue struct {
	mutex   sync.Mutex
	reports []Report
}

func NewMemoryQueue() *MemoryQueue {
	return &MemoryQueue{}
}

func (mq *MemoryQueue) Enqueue(_ context.Context, report Report) error {
	mq.mutex.Lock()
	defer mq.mutex.Unlock()

	mq.reports = append(mq.reports, report)

	return nil
}

func (mq *MemoryQueue) Size(context.Context) (int64, error) {
	mq.mutex.Lock()
	defer mq.mutex.Unlock()

	return int64(len(mq.reports)), nil
}

func (mq *MemoryQueue) Reports() []Report {
	mq.mutex.Lock()
	defer mq.mutex.Unlock()

	reports := make([]Report, len(mq.reports))
	copy(reports, mq.reports)

	return reports
}
