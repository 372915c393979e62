package dashboard

import (
	"encoding/json"
	"io"
	"math"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/instrsim/instrsim/model"
	"github.com/instrsim/instrsim/report"
	"github.com/instrsim/instrsim/spc"
)

func writeReport(t *testing.T, base string, testType model.TestType, n int) model.Summary {
	t.Helper()
	run := &model.TestRun{
		ID:       "dash-run",
		Type:     testType,
		Start:    time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC),
		Duration: time.Second,
		Channels: []string{"voltage"},
		Units:    []string{"V"},
		Limits:   map[string]model.SpecLimits{"voltage": model.Between(-2, 2)},
	}
	for i := 0; i < n; i++ {
		v := math.Sin(float64(i) / 5)
		run.Samples = append(run.Samples, model.Sample{
			Timestamp: run.Start.Add(time.Duration(i) * time.Millisecond),
			Values:    []float64{v},
			Pass:      true,
		})
	}
	sum := spc.Summarize(run, spc.DefaultSigma)
	w := report.NewWriter(zerolog.Nop(), base)
	_, err := w.Write(run, &sum)
	require.NoError(t, err)
	return sum
}

func TestListenPortFallback(t *testing.T) {
	// Occupy a port, then ask Listen to start there.
	occupied, err := net.Listen("tcp", "localhost:0")
	require.NoError(t, err)
	defer occupied.Close()
	startPort := occupied.Addr().(*net.TCPAddr).Port

	l, port, err := Listen("localhost", startPort, 10)
	require.NoError(t, err)
	defer l.Close()

	assert.Greater(t, port, startPort)
	assert.LessOrEqual(t, port, startPort+9)
}

func TestListenExhausted(t *testing.T) {
	occupied, err := net.Listen("tcp", "localhost:0")
	require.NoError(t, err)
	defer occupied.Close()
	startPort := occupied.Addr().(*net.TCPAddr).Port

	_, _, err = Listen("localhost", startPort, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), strconv.Itoa(startPort))
}

func TestIndexEmptyState(t *testing.T) {
	s := New(zerolog.Nop(), t.TempDir())
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "No test results found")
}

func TestAPIListTests(t *testing.T) {
	base := t.TempDir()
	writeReport(t, base, model.TestTypeParametric, 30)

	s := New(zerolog.Nop(), base)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/tests")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var summaries []model.Summary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&summaries))
	require.Len(t, summaries, 1)
	assert.Equal(t, model.TestTypeParametric, summaries[0].Type)
	assert.Equal(t, 30, summaries[0].SampleCount)
}

func TestAPITest(t *testing.T) {
	base := t.TempDir()
	sum := writeReport(t, base, model.TestTypeHiPot, 25)

	s := New(zerolog.Nop(), base)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/tests/hipot")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload struct {
		Summary   model.Summary    `json:"summary"`
		Artifacts []model.Artifact `json:"artifacts"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, sum.RunID, payload.Summary.RunID)
	assert.NotEmpty(t, payload.Artifacts)
}

func TestAPITestNotFound(t *testing.T) {
	s := New(zerolog.Nop(), t.TempDir())
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	for _, path := range []string{"/api/tests/bogus", "/api/tests/burnin"} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
	}
}

func TestAPITestData(t *testing.T) {
	base := t.TempDir()
	writeReport(t, base, model.TestTypeIsolation, 40)

	s := New(zerolog.Nop(), base)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/tests/isolation/data?rows=5")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload struct {
		Header []string   `json:"header"`
		Rows   [][]string `json:"rows"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, []string{"timestamp", "voltage", "pass"}, payload.Header)
	assert.Len(t, payload.Rows, 5)
}

func TestAPITestDataInvalidRows(t *testing.T) {
	base := t.TempDir()
	writeReport(t, base, model.TestTypeBurnIn, 10)

	s := New(zerolog.Nop(), base)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	for _, rows := range []string{"abc", "0", "-3"} {
		resp, err := http.Get(srv.URL + "/api/tests/burnin/data?rows=" + rows)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, rows)
	}
}

func TestServesArtifactFiles(t *testing.T) {
	base := t.TempDir()
	writeReport(t, base, model.TestTypeLaser, 20)

	s := New(zerolog.Nop(), base)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/reports/laser/laser_data.csv")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
