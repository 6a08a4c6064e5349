package client

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tensorplex-labs/cci/internal/config"
	"github.com/tensorplex-labs/cci/internal/dataset"
	"github.com/tensorplex-labs/cci/internal/server"
)

func clientConfig(url string) *config.ClientEnvConfig {
	return &config.ClientEnvConfig{
		ServerURL:     url,
		ClientTimeout: 10 * time.Second,
		RetryMax:      2,
		RetryWait:     10 * time.Millisecond,
	}
}

func startServer(t *testing.T) string {
	t.Helper()
	s := server.NewServer(nil, config.CCIEnvConfig{Level: "low", Components: 1, Strategy: "raw"})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = s.App.Listener(ln) }()
	t.Cleanup(func() { _ = s.App.Shutdown() })

	return "http://" + ln.Addr().String()
}

func TestNewClient_NilConfig(t *testing.T) {
	_, err := NewClient(nil)
	assert.Error(t, err)
}

func TestCompute_RoundTrip(t *testing.T) {
	c, err := NewClient(clientConfig(startServer(t)))
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Health(context.Background()))

	result, err := c.Compute(context.Background(), server.ComputeRequest{
		Sources: dataset.SourceFile{
			Times: []float64{0},
			Records: [][][]float64{
				{{1}, {2}},
				{{3}, {1}},
				{{4}, {4}},
				{{2}, {6}},
			},
		},
		Trials:     []int{1, 2, 13, 14},
		Boundaries: []int{1, 13, 25},
	})
	require.NoError(t, err)
	require.Equal(t, []float64{0}, result.Times)
	assert.Len(t, result.Scores[0], 2)
}

func TestCompute_ServerError(t *testing.T) {
	c, err := NewClient(clientConfig(startServer(t)))
	require.NoError(t, err)
	defer c.Close()

	_, err = c.Compute(context.Background(), server.ComputeRequest{
		Sources: dataset.SourceFile{Times: []float64{0}, Records: [][][]float64{{{1}}}},
		Trials:  []int{1, 2},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
}

func TestCompute_RetriesServerFailures(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream down"))
	}))
	t.Cleanup(ts.Close)

	c, err := NewClient(clientConfig(ts.URL))
	require.NoError(t, err)
	defer c.Close()

	_, err = c.Compute(context.Background(), server.ComputeRequest{})
	require.Error(t, err)
	assert.Equal(t, int32(3), calls.Load())

	assert.Error(t, c.Health(context.Background()))
}

func TestCompute_StrictBaselineReachesServer(t *testing.T) {
	c, err := NewClient(clientConfig(startServer(t)))
	require.NoError(t, err)
	defer c.Close()

	strict := true
	_, err = c.Compute(context.Background(), server.ComputeRequest{
		Sources: dataset.SourceFile{
			Times:   []float64{0},
			Records: [][][]float64{{{1}}, {{1}}, {{1}}, {{1}}},
		},
		Trials:         []int{1, 1, 3, 3},
		Boundaries:     []int{1, 3, 5},
		StrictBaseline: &strict,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 422")
}

func TestCompute_DoesNotRetryInternalErrors(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"body":{"result":{"times":null,"categories":null,"scores":null},"cached":false},"error":"principal component decomposition failed"}`))
	}))
	t.Cleanup(ts.Close)

	c, err := NewClient(clientConfig(ts.URL))
	require.NoError(t, err)
	defer c.Close()

	_, err = c.Compute(context.Background(), server.ComputeRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
	assert.Equal(t, int32(1), calls.Load())
}

func TestRetryable(t *testing.T) {
	cases := map[int]bool{
		http.StatusOK:                  false,
		http.StatusBadRequest:          false,
		http.StatusUnprocessableEntity: false,
		http.StatusInternalServerError: false,
		http.StatusBadGateway:          true,
		http.StatusServiceUnavailable:  true,
		http.StatusGatewayTimeout:      true,
	}
	for code, want := range cases {
		resp := &resty.Response{RawResponse: &http.Response{StatusCode: code}}
		assert.Equal(t, want, retryable(resp, nil), "status %d", code)
	}
	assert.True(t, retryable(nil, errors.New("connection refused")))
}
