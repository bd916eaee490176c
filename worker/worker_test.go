package worker

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domino14/guobiao/analyzer"
	"github.com/domino14/guobiao/config"
)

type fakeQueue struct {
	claimed      atomic.Bool
	submitFails  atomic.Int32
	submits      atomic.Int32
	heartbeats   atomic.Int32
	stopOnBeat   bool
	rejectSubmit bool
	got          chan JobResult
}

func (q *fakeQueue) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/jobs/claim", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Api-Key") != "secret" {
			http.Error(w, "bad key", http.StatusUnauthorized)
			return
		}
		if q.claimed.Swap(true) {
			w.Write([]byte(`{"noJobs":true}`))
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"jobId": "job-1",
			"requests": []analyzer.Request{
				{Action: analyzer.ActionFan, Hand: "123m456m789mCCCEE", Flag: "self-drawn", Prevalent: "S", Seat: "W"},
				{Action: analyzer.ActionWait, Hand: "123m456m789mCCCE"},
				{Action: "bogus", Hand: "11m"},
			},
		})
	})
	mux.HandleFunc("/api/v1/jobs/submit", func(w http.ResponseWriter, r *http.Request) {
		q.submits.Add(1)
		if q.submitFails.Add(-1) >= 0 {
			http.Error(w, "try later", http.StatusServiceUnavailable)
			return
		}
		if q.rejectSubmit {
			w.Write([]byte(`{"accepted":false,"error":"duplicate"}`))
			return
		}
		var res JobResult
		json.NewDecoder(r.Body).Decode(&res)
		q.got <- res
		w.Write([]byte(`{"accepted":true}`))
	})
	mux.HandleFunc("/api/v1/jobs/heartbeat", func(w http.ResponseWriter, r *http.Request) {
		q.heartbeats.Add(1)
		if q.stopOnBeat {
			w.Write([]byte(`{"continue":false}`))
			return
		}
		w.Write([]byte(`{"continue":true}`))
	})
	return mux
}

func newTestWorker(url string) *ScoringWorker {
	cfg := config.DefaultConfig()
	cfg.Set(config.ConfigWorkerURL, url)
	cfg.Set(config.ConfigWorkerAPIKey, "secret")
	cfg.Set(config.ConfigWorkerPollInterval, "10ms")
	cfg.Set(config.ConfigWorkerHeartbeatInterval, "1h")
	w := NewScoringWorker(WorkerConfigFrom(cfg))
	w.retryDelay = time.Millisecond
	return w
}

func TestRunSubmitsWithRetry(t *testing.T) {
	q := &fakeQueue{got: make(chan JobResult, 1)}
	q.submitFails.Store(2)
	srv := httptest.NewServer(q.handler())
	defer srv.Close()

	w := newTestWorker(srv.URL)
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- w.Run(ctx) }()

	var res JobResult
	select {
	case res = <-q.got:
	case <-time.After(5 * time.Second):
		t.Fatal("no result submitted")
	}
	cancel()
	assert.ErrorIs(t, <-errc, context.Canceled)

	assert.Equal(t, int32(3), q.submits.Load())
	assert.Equal(t, "job-1", res.JobID)
	require.Len(t, res.Results, 3)
	require.NotNil(t, res.Results[0].Response)
	assert.Equal(t, 29, res.Results[0].Response.Fan.Total)
	assert.True(t, res.Results[1].Response.Wait.Waiting)
	assert.Contains(t, res.Results[2].Error, "unknown action")
}

func TestRejectedResultIsNotRetried(t *testing.T) {
	q := &fakeQueue{got: make(chan JobResult, 1), rejectSubmit: true}
	srv := httptest.NewServer(q.handler())
	defer srv.Close()

	w := newTestWorker(srv.URL)
	job, err := w.client.ClaimJob(context.Background())
	require.NoError(t, err)
	require.NotNil(t, job)

	err = w.processJob(context.Background(), job)
	assert.True(t, errors.Is(err, ErrRejected))
	assert.Equal(t, int32(1), q.submits.Load())

	job, err = w.client.ClaimJob(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, job)
}

func TestHeartbeat(t *testing.T) {
	q := &fakeQueue{stopOnBeat: true}
	srv := httptest.NewServer(q.handler())
	defer srv.Close()

	c := NewQueueClient(srv.URL, "secret")
	err := c.SendHeartbeat(context.Background(), "job-1", &HeartbeatProgress{Done: 1, Total: 2})
	assert.ErrorIs(t, err, ErrStopRequested)

	gone := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusGone)
	}))
	defer gone.Close()
	err = NewQueueClient(gone.URL, "").SendHeartbeat(context.Background(), "job-1", nil)
	assert.ErrorIs(t, err, ErrJobReclaimed)
}
