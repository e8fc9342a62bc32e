package queue

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemoryQueue(t *testing.T) {
	mq := NewMemoryQueue()

	size, err := mq.Size(context.Background())
	assert.Nil(t, err)
	assert.Equal(t, int64(0), size)

	report := Report{
		WifiMACs: []string{"aabbccddeeff"},
		Position: &PositionSeen{Lat: 1.0, Lon: 2.0, Accuracy: 30},
	}
	assert.Nil(t, mq.Enqueue(context.Background(), report))

	size, err = mq.Size(context.Background())
	assert.Nil(t, err)
	assert.Equal(t, int64(1), size)

	reports := mq.Reports()
	assert.Len(t, reports, 1)
	assert.Equal(t, []string{"aabbccddeeff"}, reports[0].WifiMACs)
}

func TestReportEncoding(t *testing.T) {
	report := Report{
		Cells: []CellReport{
			{Radio: "gsm", MCC: 262, MNC: 1, LAC: 2, CID: 1234},
		},
		Position: &PositionSeen{Lat: 1.0, Lon: 2.0, Accuracy: 30},
	}

	payload, err := json.Marshal(report)
	assert.Nil(t, err)

	// Empty observation lists stay off the wire.
	assert.NotContains(t, string(payload), `"wifi"`)
	assert.NotContains(t, string(payload), `"blue"`)
	assert.Contains(t, string(payload), `"radio":"gsm"`)
}
