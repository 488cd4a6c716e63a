package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveGitHub(t *testing.T) {
	okBefore := testutil.ToFloat64(GitHubRequests.WithLabelValues("search_test", "ok"))
	errBefore := testutil.ToFloat64(GitHubRequests.WithLabelValues("search_test", "error"))

	ObserveGitHub("search_test", time.Now(), nil)
	ObserveGitHub("search_test", time.Now(), errors.New("502"))
	ObserveGitHub("search_test", time.Now(), errors.New("502"))

	assert.Equal(t, okBefore+1, testutil.ToFloat64(GitHubRequests.WithLabelValues("search_test", "ok")))
	assert.Equal(t, errBefore+2, testutil.ToFloat64(GitHubRequests.WithLabelValues("search_test", "error")))
}

func TestHandlerExposesCollectors(t *testing.T) {
	CacheHits.WithLabelValues("skills").Inc()

	srv := httptest.NewServer(Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "skillscout_cache_hits_total")
}
