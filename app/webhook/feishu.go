// Package webhook publishes flash news cards to a Feishu group chat through
// a bot webhook, with optional HMAC signing.
package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// FeishuBot delivers card messages to a single webhook.
type FeishuBot struct {
	webhookURL string
	secret     string
	httpClient *http.Client

	now func() time.Time
}

// NewFeishuBot creates a bot. An empty secret disables request signing.
func NewFeishuBot(webhookURL, secret string) *FeishuBot {
	return &FeishuBot{
		webhookURL: webhookURL,
		secret:     secret,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		now:        time.Now,
	}
}

// Send posts a card message to the webhook. Feishu reports failures inside
// a 200 response, so the body is checked for a zero code.
func (b *FeishuBot) Send(ctx context.Context, message map[string]any) error {
	payload := make(map[string]any, len(message)+2)
	for k, v := range message {
		payload[k] = v
	}

	if b.secret != "" {
		timestamp := b.now().Unix()
		payload["timestamp"] = strconv.FormatInt(timestamp, 10)
		payload["sign"] = sign(b.secret, timestamp)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read webhook response: %w", err)
	}

	var result struct {
		Code       int    `json:"code"`
		StatusCode int    `json:"StatusCode"`
		Msg        string `json:"msg"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return fmt.Errorf("failed to parse webhook response: %w", err)
	}

	if result.Code != 0 && result.StatusCode != 0 {
		return fmt.Errorf("webhook rejected message (code %d): %s", result.Code, result.Msg)
	}

	return nil
}

// sign computes the Feishu webhook signature: HMAC-SHA256 with
// "<timestamp>\n<secret>" as the key over an empty message, base64 encoded.
func sign(secret string, timestamp int64) string {
	key := fmt.Sprintf("%d\n%s", timestamp, secret)
	mac := hmac.New(sha256.New, []byte(key))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
