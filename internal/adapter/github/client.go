package github

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github-skill-scout/internal/common"

	"github.com/google/go-github/v53/github"
	"golang.org/x/oauth2"
)

// NewClient builds a GitHub API client.
// token: personal access token; empty means anonymous access, limited to 60 requests per hour.
// baseURL: optional API endpoint override for GitHub Enterprise.
func NewClient(token, baseURL string, timeout time.Duration) (*github.Client, error) {
	httpClient := &http.Client{Timeout: timeout}
	if token != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(ctx, ts)
		httpClient.Timeout = timeout
	}

	client := github.NewClient(httpClient)
	if baseURL != "" {
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, common.WrapError(common.ErrCodeConfig, "invalid GitHub base URL", err)
		}
		client.BaseURL = u
	}
	return client, nil
}

// retryable reports whether a failed GitHub call is worth repeating.
// Primary rate limits reset within the hour, so they are not retried; secondary
// (abuse) limits and server errors are.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return false
	}
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return true
	}
	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		return respErr.Response.StatusCode >= http.StatusInternalServerError
	}
	// transport failures
	return true
}

// clientError reports a request GitHub rejected as invalid; such errors must not trip the breaker.
func clientError(err error) bool {
	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		code := respErr.Response.StatusCode
		return code >= 400 && code < 500 && code != http.StatusForbidden && code != http.StatusTooManyRequests
	}
	return false
}
