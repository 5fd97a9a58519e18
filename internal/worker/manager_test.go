package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// recordingWorker appends lifecycle events to a shared log
type recordingWorker struct {
	name     string
	startErr error
	log      *[]string
}

func (w *recordingWorker) Start(ctx context.Context) error {
	if w.startErr != nil {
		return w.startErr
	}
	*w.log = append(*w.log, "start:"+w.name)
	return nil
}

func (w *recordingWorker) Stop() {
	*w.log = append(*w.log, "stop:"+w.name)
}

func (w *recordingWorker) Name() string { return w.name }

func TestManager_StopsInReverseOrder(t *testing.T) {
	var log []string
	m := NewManager(zap.NewNop())
	m.Register(&recordingWorker{name: "a", log: &log})
	m.Register(&recordingWorker{name: "b", log: &log})
	m.Register(&recordingWorker{name: "c", log: &log})

	require.NoError(t, m.StartAll(context.Background()))
	m.StopAll()

	assert.Equal(t, []string{"start:a", "start:b", "start:c", "stop:c", "stop:b", "stop:a"}, log)
	assert.Equal(t, 3, m.Count())
}

func TestManager_FailedStartStopsEarlierWorkers(t *testing.T) {
	var log []string
	m := NewManager(zap.NewNop())
	m.Register(&recordingWorker{name: "a", log: &log})
	m.Register(&recordingWorker{name: "b", startErr: errors.New("bind: address in use"), log: &log})
	m.Register(&recordingWorker{name: "c", log: &log})

	err := m.StartAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "start worker b")

	// The worker that started before the failure is wound back down and
	// the loop never reaches the one after it.
	assert.Equal(t, []string{"start:a", "stop:a"}, log)
}
