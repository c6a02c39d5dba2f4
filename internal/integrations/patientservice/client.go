package patientservice

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

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент справочника пациентов (PatientService)
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента PatientService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// ResolveByUser находит карточку пациента по ID пользователя
func (c *Client) ResolveByUser(ctx context.Context, userID int64) (*domain.Patient, error) {
	var p Patient
	url := fmt.Sprintf("%s/internal/users/%d/patient", c.baseURL, userID)
	if err := c.do(ctx, http.MethodGet, url, nil, &p, ErrPatientNotFound); err != nil {
		return nil, err
	}
	return p.toDomain(), nil
}

// GetPatient получает пациента по ID
func (c *Client) GetPatient(ctx context.Context, patientID int64) (*domain.Patient, error) {
	var p Patient
	url := fmt.Sprintf("%s/internal/patients/%d", c.baseURL, patientID)
	if err := c.do(ctx, http.MethodGet, url, nil, &p, ErrPatientNotFound); err != nil {
		return nil, err
	}
	return p.toDomain(), nil
}

// CreatePatient регистрирует нового пациента (запись персоналом без карточки)
func (c *Client) CreatePatient(ctx context.Context, fields domain.NewPatientFields) (*domain.Patient, error) {
	body := CreatePatientRequest{FullName: fields.FullName, Phone: fields.Phone, Email: fields.Email}

	var p Patient
	url := fmt.Sprintf("%s/internal/patients", c.baseURL)
	if err := c.do(ctx, http.MethodPost, url, body, &p, ErrPatientNotFound); err != nil {
		return nil, err
	}

	c.log.Info("PatientService: registered patient id=%d", p.ID)
	return p.toDomain(), nil
}

// GetStatus получает блокировки и предупреждения пациента
func (c *Client) GetStatus(ctx context.Context, patientID int64) (*domain.PatientStatus, error) {
	var s Status
	url := fmt.Sprintf("%s/internal/patients/%d/status", c.baseURL, patientID)
	if err := c.do(ctx, http.MethodGet, url, nil, &s, ErrPatientNotFound); err != nil {
		return nil, err
	}
	return s.toDomain(), nil
}

// GetHMO получает страховку по ID
func (c *Client) GetHMO(ctx context.Context, hmoID int64) (*domain.PatientHMO, error) {
	var h HMO
	url := fmt.Sprintf("%s/internal/hmos/%d", c.baseURL, hmoID)
	if err := c.do(ctx, http.MethodGet, url, nil, &h, ErrHMONotFound); err != nil {
		return nil, err
	}
	return h.toDomain(), nil
}

func (c *Client) do(ctx context.Context, method, url string, body interface{}, out interface{}, notFound error) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: failed to marshal request: %w", ErrInternal, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %w", ErrInternal, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %w", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		// Продолжаем обработку
	case http.StatusNotFound:
		return notFound
	default:
		raw, _ := io.ReadAll(resp.Body)
		var errResp ErrorResponse
		if json.Unmarshal(raw, &errResp) == nil && errResp.Message != "" {
			return fmt.Errorf("%w: status %d: %s", ErrInvalidResponse, resp.StatusCode, errResp.Message)
		}
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(raw))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %w", ErrInvalidResponse, err)
	}

	return nil
}
