// AngelaMos | 2026
// notifier.go

package contest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/joonyo2/yugwan/internal/config"
	"github.com/joonyo2/yugwan/internal/metrics"
)

const alimtalkChannel = "alimtalk"

// Alimtalk sends Kakao Alimtalk messages through the Aligo gateway.
type Alimtalk struct {
	cfg    config.NotifyConfig
	client *http.Client
}

func NewAlimtalk(cfg config.NotifyConfig, client *http.Client) *Alimtalk {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &Alimtalk{cfg: cfg, client: client}
}

type alimtalkResult struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Send posts one message. The gateway answers 200 with a non-zero code on
// rejection, so both the status and the body are checked.
func (a *Alimtalk) Send(ctx context.Context, phone, subject, message string) error {
	form := url.Values{
		"apikey":     {a.cfg.APIKey},
		"userid":     {a.cfg.UserID},
		"senderkey":  {a.cfg.SenderKey},
		"tpl_code":   {a.cfg.TemplateCode},
		"sender":     {a.cfg.Sender},
		"receiver_1": {phone},
		"subject_1":  {subject},
		"message_1":  {message},
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, a.cfg.AlimtalkURL, strings.NewReader(form.Encode()),
	)
	if err != nil {
		return fmt.Errorf("build alimtalk request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("alimtalk request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // read-only body

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("alimtalk returned %s", resp.Status)
	}

	var result alimtalkResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode alimtalk response: %w", err)
	}
	if result.Code != 0 {
		return fmt.Errorf("alimtalk rejected message: code %d: %s", result.Code, result.Message)
	}

	return nil
}

// NotifyAccepted tells the guardian that the application was accepted.
// Failures are logged and counted, never returned.
func (a *Alimtalk) NotifyAccepted(ctx context.Context, app *Application) {
	if !a.cfg.NotificationsEnabled() {
		slog.WarnContext(ctx, "alimtalk not configured, skipping notification",
			"application_id", app.ID,
		)
		metrics.NotificationsTotal.WithLabelValues(alimtalkChannel, metrics.OutcomeSkipped).Inc()
		return
	}

	message := fmt.Sprintf("[유관순사업회] %s 학생의 웅변대회 참가가 확정되었습니다.", app.Name)

	if err := a.Send(ctx, app.ContactParent, "웅변대회 참가확정", message); err != nil {
		slog.ErrorContext(ctx, "alimtalk send failed",
			"application_id", app.ID,
			"error", err,
		)
		metrics.NotificationsTotal.WithLabelValues(alimtalkChannel, metrics.OutcomeError).Inc()
		return
	}

	slog.InfoContext(ctx, "acceptance notification sent", "application_id", app.ID)
	metrics.NotificationsTotal.WithLabelValues(alimtalkChannel, metrics.OutcomeOK).Inc()
}
