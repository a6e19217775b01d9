package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/assert"
	"github.com/golang/mock/gomock"
	"go.uber.org/zap"

	"lifeline-store/internal/mocks"
	"lifeline-store/internal/stores"
	myErr "lifeline-store/internal/types/errors"
)

func TestStoreHandler_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockStoreRepo(ctrl)
	handler := NewStoreHandler(zap.NewNop().Sugar(), repo)

	near := 0.5
	tests := []struct {
		name           string
		url            string
		mockBehavior   func()
		expectedStatus int
		expectedFirst  string
	}{
		{
			name: "without coordinates",
			url:  "/api/stores",
			mockBehavior: func() {
				repo.EXPECT().List().Return([]stores.Location{{ID: "1"}, {ID: "2"}})
			},
			expectedStatus: http.StatusOK,
			expectedFirst:  "1",
		},
		{
			name: "sorted by distance",
			url:  "/api/stores?lat=40.76&lng=-73.98",
			mockBehavior: func() {
				repo.EXPECT().Nearest(40.76, -73.98).
					Return([]stores.Location{{ID: "2", Distance: &near}, {ID: "1"}}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedFirst:  "2",
		},
		{
			name:           "lng is missing",
			url:            "/api/stores?lat=40.76",
			mockBehavior:   func() {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "lat is not a number",
			url:            "/api/stores?lat=north&lng=-73.98",
			mockBehavior:   func() {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "out of range",
			url:  "/api/stores?lat=100&lng=0",
			mockBehavior: func() {
				repo.EXPECT().Nearest(100.0, 0.0).Return(nil, myErr.ErrBadCoordinates)
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.mockBehavior()

			w := httptest.NewRecorder()
			handler.List(w, httptest.NewRequest(http.MethodGet, tc.url, nil))

			assert.Equal(t, w.Code, tc.expectedStatus)
			if tc.expectedStatus == http.StatusOK {
				var out []stores.Location
				if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
					t.Fatalf("failed to decode stores: %v", err)
				}
				assert.Equal(t, out[0].ID, tc.expectedFirst)
			}
		})
	}
}

func TestStoreHandler_ListWithStaticRepo(t *testing.T) {
	handler := NewStoreHandler(zap.NewNop().Sugar(), stores.NewStaticStoreRepository(zap.NewNop().Sugar(), nil))

	w := httptest.NewRecorder()
	handler.List(w, httptest.NewRequest(http.MethodGet, "/api/stores?lat=40.7282&lng=-73.8317", nil))

	assert.Equal(t, w.Code, http.StatusOK)

	var out []stores.Location
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatalf("failed to decode stores: %v", err)
	}
	assert.Equal(t, len(out), 4)
	assert.Equal(t, out[0].ID, "4")
	assert.Equal(t, *out[0].Distance, 0.0)
}
