package notificationservice

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
)

func TestClient_Send(t *testing.T) {
	var got Message
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/internal/notifications", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret", time.Second)
	err := c.Send(context.Background(), &domain.Notification{
		Audience: domain.AudienceStaff,
		Event:    "appointment.booked",
		Data:     map[string]string{"reference_code": "AB12CD34"},
	})

	require.NoError(t, err)
	assert.Equal(t, "appointment.booked", got.Event)
	assert.Equal(t, "AB12CD34", got.Data["reference_code"])
}

func TestClient_SendRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	err := NewClient(srv.URL, "", time.Second).Send(context.Background(), &domain.Notification{Event: "x"})
	assert.ErrorIs(t, err, ErrRejected)
}
