package app

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"ytdl/internal/domain/consts"
	"ytdl/internal/domain/errconsts"
	"ytdl/internal/models"
	"ytdl/internal/net"
	logging "ytdl/internal/utils/logging"
)

// maxContentRunes keeps message text within common webhook limits.
const maxContentRunes = 1900

var (
	regClient = &http.Client{Timeout: consts.HTTPClientTimeout}
	lanClient = &http.Client{
		Timeout: consts.HTTPClientTimeout,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		},
	}
)

// WebhookNotifier posts multipart messages to a single webhook URL.
type WebhookNotifier struct {
	URL string
}

// NewWebhookNotifier returns a notifier for url, or nil if url is empty.
func NewWebhookNotifier(url string) *WebhookNotifier {
	if url == "" {
		return nil
	}
	return &WebhookNotifier{URL: url}
}

// Notify sends n as a "content" text part plus an optional "file" attachment.
//
// Delivery is best-effort: callers log the returned NotificationDeliveryError
// and carry on.
func (w *WebhookNotifier) Notify(ctx context.Context, n models.Notification) error {
	if w == nil || w.URL == "" {
		return nil
	}

	body, contentType, err := buildMultipart(n)
	if err != nil {
		return &errconsts.NotificationDeliveryError{URL: w.URL, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.URL, body)
	if err != nil {
		return &errconsts.NotificationDeliveryError{URL: w.URL, Err: err}
	}
	req.Header.Set("Content-Type", contentType)

	client := regClient
	if net.IsPrivateNetwork(req.URL.Host) {
		client = lanClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return &errconsts.NotificationDeliveryError{URL: w.URL, Err: err}
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logging.E("Failed to close HTTP response body: %v", err)
		}
	}()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 400 {
		return &errconsts.NotificationDeliveryError{
			URL: w.URL,
			Err: fmt.Errorf("webhook responded with status %d", resp.StatusCode),
		}
	}
	logging.D(1, "Notified %q", w.URL)
	return nil
}

func buildMultipart(n models.Notification) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if err := mw.WriteField("content", truncateRunes(n.Content, maxContentRunes)); err != nil {
		return nil, "", err
	}
	if len(n.Attachment) > 0 {
		name := n.AttachmentName
		if name == "" {
			name = "log.txt"
		}
		fw, err := mw.CreateFormFile("file", name)
		if err != nil {
			return nil, "", err
		}
		if _, err := fw.Write(n.Attachment); err != nil {
			return nil, "", err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &buf, mw.FormDataContentType(), nil
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
