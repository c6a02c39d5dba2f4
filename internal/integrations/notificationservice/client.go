package notificationservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
)

// Message тело запроса к сервису уведомлений
type Message struct {
	Audience  string            `json:"audience"`
	PatientID *int64            `json:"patient_id,omitempty"`
	Event     string            `json:"event"`
	Subject   string            `json:"subject"`
	Body      string            `json:"body"`
	Data      map[string]string `json:"data,omitempty"`
}

// Client клиент сервиса уведомлений (SMS/email доставляет он)
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient создает новый экземпляр клиента
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Send ставит уведомление в очередь доставки
func (c *Client) Send(ctx context.Context, n *domain.Notification) error {
	payload, err := json.Marshal(Message{
		Audience:  n.Audience,
		PatientID: n.PatientID,
		Event:     n.Event,
		Subject:   n.Subject,
		Body:      n.Body,
		Data:      n.Data,
	})
	if err != nil {
		return fmt.Errorf("%w: failed to marshal notification: %w", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/internal/notifications", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %w", ErrInternal, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %w", ErrInternal, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: status %d: %s", ErrRejected, resp.StatusCode, string(body))
	}

	return nil
}
