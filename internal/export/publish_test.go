package export

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	sheets map[string]int
	fail   string
}

func (p *recordingPublisher) Publish(_ context.Context, sheetName string, header []string, rows [][]string) error {
	if sheetName == p.fail {
		return errors.New("quota exceeded")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sheets[sheetName] = len(rows)
	return nil
}

func TestPublishAll(t *testing.T) {
	res := result(t)
	pub := &recordingPublisher{sheets: map[string]int{}, fail: "FY25 Ledger"}

	results := PublishAll(context.Background(), pub, "FY25 ", 3, All(res)...)
	require.Len(t, results, len(Names()))

	for i, name := range Names() {
		assert.Equal(t, name, results[i].Table)
	}
	assert.Equal(t, "FY25 Tally Sales Register", results[0].Sheet)
	assert.Equal(t, len(Tally(res).Rows), pub.sheets["FY25 Tally Sales Register"])

	assert.EqualError(t, results[3].Err, "quota exceeded")
	assert.NotContains(t, pub.sheets, "FY25 Ledger")
	for i, r := range results {
		if i != 3 {
			assert.NoError(t, r.Err, r.Table)
		}
	}
}

func TestPublishAll_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pub := &recordingPublisher{sheets: map[string]int{}}
	results := PublishAll(ctx, pub, "", 0, Ledger(result(t)))
	require.Len(t, results, 1)
	assert.ErrorIs(t, results[0].Err, context.Canceled)
	assert.Empty(t, pub.sheets)
}
