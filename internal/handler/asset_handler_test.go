package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/grana-app/backend/internal/apperror"
	"github.com/grana-app/backend/internal/model"
	"github.com/grana-app/backend/internal/service"
)

// MockAssetService implements AssetServiceInterface for testing
type MockAssetService struct {
	mock.Mock
}

func (m *MockAssetService) List(ctx context.Context, includeInactive bool) ([]model.Asset, error) {
	args := m.Called(ctx, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Asset), args.Error(1)
}

func (m *MockAssetService) Create(ctx context.Context, input service.AssetInput) (*model.Asset, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Asset), args.Error(1)
}

func (m *MockAssetService) Update(ctx context.Context, id string, input service.AssetInput) (*model.Asset, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Asset), args.Error(1)
}

func (m *MockAssetService) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func TestAssetHandler_List_IncludeInactive(t *testing.T) {
	t.Parallel()

	mockService := new(MockAssetService)
	handler := NewAssetHandler(mockService)

	mockService.On("List", mock.Anything, true).Return([]model.Asset{{ID: "a-1"}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/assets?includeInactive=true", nil)
	w := httptest.NewRecorder()

	handler.List(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestAssetHandler_Create(t *testing.T) {
	t.Parallel()

	mockService := new(MockAssetService)
	handler := NewAssetHandler(mockService)

	mockService.On("Create", mock.Anything, mock.AnythingOfType("service.AssetInput")).
		Return(&model.Asset{ID: "a-1", Name: "Corretora", Amount: dec("2500")}, nil)

	body, _ := json.Marshal(map[string]interface{}{
		"name":      "Corretora",
		"amount":    "2500",
		"type":      "investment",
		"assetType": "asset",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/assets", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.Create(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockService.AssertExpectations(t)
}

func TestAssetHandler_Delete(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		setupMock       func(*MockAssetService)
		wantStatus      int
		wantDeactivated *bool
	}{
		{
			name: "removed outright",
			setupMock: func(m *MockAssetService) {
				m.On("Delete", mock.Anything, "a-1").Return(false, nil)
			},
			wantStatus:      http.StatusOK,
			wantDeactivated: boolPtr(false),
		},
		{
			name: "deactivated because referenced",
			setupMock: func(m *MockAssetService) {
				m.On("Delete", mock.Anything, "a-1").Return(true, nil)
			},
			wantStatus:      http.StatusOK,
			wantDeactivated: boolPtr(true),
		},
		{
			name: "not found",
			setupMock: func(m *MockAssetService) {
				m.On("Delete", mock.Anything, "a-1").Return(false, apperror.NotFound("asset"))
			},
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mockService := new(MockAssetService)
			handler := NewAssetHandler(mockService)
			tt.setupMock(mockService)

			req := httptest.NewRequest(http.MethodDelete, "/api/assets/a-1", nil)
			req = withURLParam(req, "id", "a-1")
			w := httptest.NewRecorder()

			handler.Delete(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantDeactivated != nil {
				var body map[string]bool
				assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Equal(t, *tt.wantDeactivated, body["deactivated"])
			}
			mockService.AssertExpectations(t)
		})
	}
}

func boolPtr(b bool) *bool { return &b }
