package notify

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const resendAPI = "https://api.resend.com/emails"

type resendAttachment struct {
	Filename string `json:"filename"`
	// base64-encoded
	Content string `json:"content"`
}

type resendEmail struct {
	From        string             `json:"from"`
	To          []string           `json:"to"`
	Subject     string             `json:"subject"`
	HTML        string             `json:"html"`
	Attachments []resendAttachment `json:"attachments,omitempty"`
}

// ResendSender posts messages to the Resend e-mail API.
type ResendSender struct {
	apiKey   string
	from     string
	endpoint string
	client   *http.Client
	logger   *zap.Logger
}

// NewResendSender returns a sender authenticated with apiKey.
func NewResendSender(apiKey, from string, logger *zap.Logger) *ResendSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResendSender{
		apiKey:   apiKey,
		from:     from,
		endpoint: resendAPI,
		client:   &http.Client{Timeout: 15 * time.Second},
		logger:   logger,
	}
}

// Send delivers msg.  Any non-2xx answer is an error.
func (s *ResendSender) Send(ctx context.Context, msg Message) error {
	payload := resendEmail{
		From:    s.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		HTML:    msg.HTML,
	}
	for _, a := range msg.Attachments {
		payload.Attachments = append(payload.Attachments, resendAttachment{
			Filename: a.Filename,
			Content:  base64.StdEncoding.EncodeToString(a.Content),
		})
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return &NotificationError{Op: "encode", To: msg.To, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return &NotificationError{Op: "send", To: msg.To, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return &NotificationError{Op: "send", To: msg.To, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &NotificationError{Op: "send", To: msg.To, Err: fmt.Errorf("resend api: %s: %s", resp.Status, bytes.TrimSpace(detail))}
	}
	s.logger.Info("email sent", zap.String("to", msg.To), zap.String("subject", msg.Subject))
	return nil
}

// LogSender stands in for a real sender when no API key is configured.
type LogSender struct {
	logger *zap.Logger
}

// NewLogSender returns a sender that only logs.
func NewLogSender(logger *zap.Logger) *LogSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.logger.Warn("RESEND_API_KEY not set, email not delivered",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.Int("attachments", len(msg.Attachments)),
	)
	return nil
}
