package get_available_slots

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/internal/testutil"
	getAvailableSlots "github.com/m04kA/SMC-ClinicBookingService/internal/usecase/get_available_slots"
)

func newHandler(c *testutil.Clinic) http.Handler {
	uc := getAvailableSlots.NewUseCase(c.Store.Catalog(), c.Resolver, c.Admission, c.Store.Patients(), c.Logger)
	return middleware.Auth(http.HandlerFunc(NewHandler(uc, c.Logger).Handle))
}

func get(h http.Handler, userID, query string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/available-slots?"+query, nil)
	req.Header.Set(middleware.HeaderUserID, userID)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandle_OK(t *testing.T) {
	c := testutil.NewClinic(2)
	c.AddAppointment(testutil.Seeded{PatientID: 2, Slot: "09:00-10:00"})
	h := newHandler(c)

	rec := get(h, "100", "date="+testutil.Tomorrow.Format(domain.DateFormat)+"&serviceId=2")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp AvailableSlotsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.IsOpen)
	assert.Equal(t, 30, resp.DurationMinutes)
	require.Len(t, resp.Slots, 18)
	assert.Equal(t, "08:00", resp.Slots[0].StartTime)
	assert.Equal(t, 2, resp.Slots[0].AvailableSpots)

	var nine AvailableSlot
	for _, s := range resp.Slots {
		if s.StartTime == "09:00" {
			nine = s
		}
	}
	assert.Equal(t, 1, nine.AvailableSpots)
	assert.Equal(t, 2, nine.TotalSpots)
}

func TestHandle_Errors(t *testing.T) {
	tomorrow := testutil.Tomorrow.Format(domain.DateFormat)

	tests := []struct {
		name       string
		userID     string
		query      string
		wantStatus int
	}{
		{name: "no user", userID: "", query: "date=" + tomorrow + "&serviceId=1", wantStatus: http.StatusUnauthorized},
		{name: "bad date", userID: "100", query: "date=tomorrow&serviceId=1", wantStatus: http.StatusBadRequest},
		{name: "missing service", userID: "100", query: "date=" + tomorrow, wantStatus: http.StatusBadRequest},
		{name: "unknown service", userID: "100", query: "date=" + tomorrow + "&serviceId=99", wantStatus: http.StatusNotFound},
		{name: "foreign patient filter", userID: "100", query: "date=" + tomorrow + "&serviceId=1&patientId=2", wantStatus: http.StatusForbidden},
	}

	h := newHandler(testutil.NewClinic(1))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(h, tt.userID, tt.query)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}
}
