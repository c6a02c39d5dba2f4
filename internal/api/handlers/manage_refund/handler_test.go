package manage_refund

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-ClinicBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	manageRefund "github.com/m04kA/SMC-ClinicBookingService/internal/usecase/manage_refund"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/logger"
)

type useCaseMock struct {
	mock.Mock
}

func (m *useCaseMock) Execute(ctx context.Context, req *manageRefund.Request) (*manageRefund.Response, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*manageRefund.Response)
	return resp, args.Error(1)
}

func newRouter(uc ManageRefundUseCase) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.Auth)
	r.HandleFunc("/refunds/{refundId}/{action}", NewHandler(uc, logger.Nop()).Handle).Methods(http.MethodPatch)
	return r
}

func patch(r http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPatch, path, strings.NewReader(body))
	req.Header.Set(middleware.HeaderUserID, "1")
	req.Header.Set(middleware.HeaderUserRole, "admin")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandle_PassesActionAndNote(t *testing.T) {
	uc := &useCaseMock{}
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(req *manageRefund.Request) bool {
		return req.RefundID == 5 &&
			req.Action == manageRefund.ActionReject &&
			req.Actor == domain.Actor{UserID: 1, Role: domain.RoleAdmin} &&
			req.Note != nil && *req.Note == "duplicate"
	})).Return(&manageRefund.Response{
		Refund: &domain.RefundRequest{ID: 5, Status: domain.RefundRejected, RequestedAt: time.Now()},
	}, nil).Once()

	rec := patch(newRouter(uc), "/refunds/5/reject", `{"note": "duplicate"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"rejected"`)
	uc.AssertExpectations(t)
}

func TestHandle_EmptyBodyAllowed(t *testing.T) {
	uc := &useCaseMock{}
	uc.On("Execute", mock.Anything, mock.Anything).Return(&manageRefund.Response{
		Refund: &domain.RefundRequest{ID: 5, Status: domain.RefundApproved},
	}, nil).Once()

	rec := patch(newRouter(uc), "/refunds/5/approve", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	uc.AssertExpectations(t)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		ucErr      error
		wantStatus int
	}{
		{name: "unknown action", path: "/refunds/5/refund", wantStatus: http.StatusBadRequest},
		{name: "bad id", path: "/refunds/x/approve", wantStatus: http.StatusBadRequest},
		{name: "conflict", path: "/refunds/5/process", ucErr: domain.NewStateConflictError("pending", "already processed"), wantStatus: http.StatusConflict},
		{name: "forbidden", path: "/refunds/5/confirm", ucErr: domain.NewAuthorizationError("role", "patient only"), wantStatus: http.StatusForbidden},
		{name: "not found", path: "/refunds/5/approve", ucErr: domain.NewNotFoundError("refund", "5"), wantStatus: http.StatusNotFound},
		{name: "internal", path: "/refunds/5/approve", ucErr: manageRefund.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &useCaseMock{}
			if tt.ucErr != nil {
				uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.ucErr).Once()
			}

			rec := patch(newRouter(uc), tt.path, "")

			assert.Equal(t, tt.wantStatus, rec.Code)
			uc.AssertExpectations(t)
		})
	}
}
