package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/JonMunkholm/userreport/internal/config"
	"github.com/JonMunkholm/userreport/internal/core"
	"github.com/JonMunkholm/userreport/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testUsers = []core.UserRecord{
	{Name: "Aino", Age: "34", Country: "Finland"},
	{Name: "Ben", Age: "28", Country: "USA"},
	{Name: "Carla", Age: "45", Country: "Brazil"},
	{Name: "Emma", Age: "40", Country: "USA"},
}

func testServerConfig() config.ServerConfig {
	return config.ServerConfig{
		Host:            "127.0.0.1",
		Port:            8080,
		ReadTimeout:     time.Second,
		WriteTimeout:    time.Second,
		ShutdownTimeout: time.Second,
		RequestTimeout:  5 * time.Second,
	}
}

func newTestServer(records []core.UserRecord) *Server {
	return NewServer(records, report.DefaultParams(), testServerConfig())
}

func get(t *testing.T, s *Server, target string, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func cliOutput(t *testing.T, op report.Operation, p report.Params) string {
	t.Helper()
	var sb strings.Builder
	require.NoError(t, report.Render(&sb, op, testUsers, p))
	return sb.String()
}

func TestHandleReport_MatchesCommandOutput(t *testing.T) {
	s := newTestServer(testUsers)

	for _, op := range report.Operations {
		t.Run(string(op), func(t *testing.T) {
			rec := get(t, s, "/reports/"+string(op))

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
			assert.Equal(t, cliOutput(t, op, report.DefaultParams()), rec.Body.String())
		})
	}
}

func TestHandleReport_QueryParams(t *testing.T) {
	s := newTestServer(testUsers)

	rec := get(t, s, "/reports/top?top=1")
	assert.Equal(t, "Carla (45)\n", rec.Body.String())

	rec = get(t, s, "/reports/filter?min_age=40")
	assert.Equal(t, "Filtered count: 2\n", rec.Body.String())

	// Invalid values fall back to the server defaults
	rec = get(t, s, "/reports/top?top=-1")
	assert.Equal(t, cliOutput(t, report.OpTop, report.DefaultParams()), rec.Body.String())
}

func TestHandleReport_Unknown(t *testing.T) {
	s := newTestServer(testUsers)

	rec := get(t, s, "/reports/median")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Unknown operation 'median'. Use summary|filter|group|avg|top|region.\n", rec.Body.String())
}

func TestHandleReport_UnknownJSON(t *testing.T) {
	s := newTestServer(testUsers)

	rec := get(t, s, "/reports/median", "Accept", "application/json")

	require.Equal(t, http.StatusNotFound, rec.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "OP001", body.Code)
	assert.Contains(t, body.Error, "Unknown operation 'median'")
}

func TestHandleReport_NoRecords(t *testing.T) {
	s := newTestServer(nil)

	rec := get(t, s, "/reports/summary")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "IN001")
}

func TestHandleSummaryPage(t *testing.T) {
	s := newTestServer(testUsers)

	rec := get(t, s, "/")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<dt>Total users</dt><dd>4</dd>")
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestHandleSummaryPage_NoRecords(t *testing.T) {
	rec := get(t, newTestServer([]core.UserRecord{}), "/")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandleHealth(t *testing.T) {
	rec := get(t, newTestServer(testUsers), "/healthz")

	require.Equal(t, http.StatusOK, rec.Code)
	var body HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, HealthResponse{Status: "ok", Records: 4}, body)
}

func TestHandleListReports(t *testing.T) {
	for _, target := range []string{"/reports", "/reports/"} {
		rec := get(t, newTestServer(testUsers), target)

		require.Equal(t, http.StatusOK, rec.Code, target)
		var body ReportsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, []string{"summary", "filter", "group", "avg", "top", "region"}, body.Operations)
		assert.Equal(t, core.DefaultMinAge, body.MinAge)
		assert.Equal(t, core.DefaultTopN, body.TopN)
	}
}

func TestConcurrentReports(t *testing.T) {
	records := append([]core.UserRecord(nil), testUsers...)
	s := newTestServer(records)
	want := cliOutput(t, report.OpSummary, report.DefaultParams())

	var wg sync.WaitGroup
	errs := make(chan error, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec := httptest.NewRecorder()
			s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/summary", nil))
			if rec.Body.String() != want {
				errs <- fmt.Errorf("unexpected body %q", rec.Body.String())
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
	assert.Equal(t, testUsers, records, "records must not be mutated")
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, statusFor(fmt.Errorf("x: %w", core.ErrUnknownOperation)))
	assert.Equal(t, http.StatusServiceUnavailable, statusFor(core.ErrNoRecords))
	assert.Equal(t, http.StatusServiceUnavailable, statusFor(core.ErrSourceUnavailable))
	assert.Equal(t, http.StatusInternalServerError, statusFor(errors.New("boom")))
}

func TestServeAndShutdown(t *testing.T) {
	s := newTestServer(testUsers)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- s.Serve(ln) }()

	var resp *http.Response
	require.Eventually(t, func() bool {
		resp, err = http.Get("http://" + ln.Addr().String() + "/reports/avg")
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, "Average age: 36.8\n", string(body))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(ctx))
	assert.ErrorIs(t, <-done, http.ErrServerClosed)
}

func TestShutdown_NotStarted(t *testing.T) {
	assert.NoError(t, newTestServer(testUsers).Shutdown(context.Background()))
}
