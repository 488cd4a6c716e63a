// Package feishu pushes recommendation digests to a Feishu (Lark) bot webhook.
package feishu

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github-skill-scout/internal/common"
	"github-skill-scout/internal/domain"
	"github-skill-scout/internal/logging"
	"github-skill-scout/internal/metrics"

	"github.com/goccy/go-json"
)

type Notifier struct {
	webhookURL string
	httpClient *http.Client
	maxRetries int
	retryDelay time.Duration
}

func NewNotifier(webhook string) *Notifier {
	if webhook == "" {
		logging.Warn().Msg("feishu webhook is empty, digests will not be sent")
	}
	return &Notifier{
		webhookURL: webhook,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		maxRetries: 3,
		retryDelay: 500 * time.Millisecond,
	}
}

// webhookResponse is the body Feishu answers with; a non-zero code is a rejection even with HTTP 200.
type webhookResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

// NotifyDigest sends one interactive card (schema 2.0) listing items in order.
// An empty digest is not sent.
func (n *Notifier) NotifyDigest(ctx context.Context, title string, items []domain.Recommendation) error {
	if n.webhookURL == "" {
		return common.NewError(common.ErrCodeNotification, "webhook URL is empty")
	}
	if len(items) == 0 {
		logging.Debug().Str("title", title).Msg("empty digest, nothing to send")
		return nil
	}

	body, err := json.Marshal(buildCard(title, items))
	if err != nil {
		return common.WrapError(common.ErrCodeNotification, "failed to encode card", err)
	}

	err = common.Do(ctx, func() error {
		return n.post(ctx, body)
	},
		common.WithMaxRetries(n.maxRetries),
		common.WithInitialDelay(n.retryDelay),
	)
	if err != nil {
		metrics.NotificationsSent.WithLabelValues("error").Inc()
		return common.WrapError(common.ErrCodeNotification, "failed to send digest", err)
	}
	metrics.NotificationsSent.WithLabelValues("ok").Inc()
	logging.Info().Str("title", title).Int("items", len(items)).Msg("digest sent")
	return nil
}

func (n *Notifier) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return common.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	switch {
	case resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("feishu returned status %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return common.Permanent(fmt.Errorf("feishu returned status %d", resp.StatusCode))
	}

	var res webhookResponse
	if len(raw) > 0 && json.Unmarshal(raw, &res) == nil && res.Code != 0 {
		return common.Permanent(fmt.Errorf("feishu rejected message: code %d: %s", res.Code, res.Msg))
	}
	return nil
}

func buildCard(title string, items []domain.Recommendation) map[string]any {
	elements := make([]map[string]any, 0, len(items)*2)
	for i, item := range items {
		if item.Repo == nil {
			continue
		}
		if len(elements) > 0 {
			elements = append(elements, map[string]any{"tag": "hr"})
		}
		elements = append(elements, map[string]any{
			"tag":       "markdown",
			"content":   itemMarkdown(i+1, item),
			"text_size": "normal",
		})
	}

	return map[string]any{
		"msg_type": "interactive",
		"card": map[string]any{
			"schema": "2.0",
			"config": map[string]any{
				"update_multi": true,
			},
			"header": map[string]any{
				"title": map[string]any{
					"tag":     "plain_text",
					"content": title,
				},
				"template": "blue",
			},
			"body": map[string]any{
				"direction": "vertical",
				"elements":  elements,
			},
		},
	}
}

func itemMarkdown(rank int, item domain.Recommendation) string {
	r := item.Repo
	var b strings.Builder
	fmt.Fprintf(&b, "**%d. [%s](%s)**  score %.2f\n", rank, r.Name, r.URL, item.Score.Final)
	fmt.Fprintf(&b, "⭐ %d  |  %s  |  good first issues: %d\n", r.Stars, orDash(r.Language), r.GoodFirstIssues)
	if r.Description != "" {
		fmt.Fprintf(&b, "%s\n", r.Description)
	}
	if item.Explanation != "" {
		fmt.Fprintf(&b, "_%s_\n", item.Explanation)
	}
	return b.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
