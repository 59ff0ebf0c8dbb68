package handlers

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/http/httptest"
	"testing"

	"itsm-desk/core/records"
	"itsm-desk/core/reports"
	"itsm-desk/core/utils"

	"github.com/stretchr/testify/assert"
)

func TestSelectedFields(t *testing.T) {
	cases := []struct {
		url  string
		want []string
	}{
		{"/api/assets/export", nil},
		{"/api/assets/export?fields=", []string{}},
		{"/api/assets/export?fields=name,%20type", []string{"name", "type"}},
		{"/api/assets/export?fields=name&fields=status", []string{"name", "status"}},
	}
	for _, tc := range cases {
		got := selectedFields(httptest.NewRequest(http.MethodGet, tc.url, nil))
		assert.Equal(t, tc.want, got, tc.url)
	}
}

func TestConfirmedFlag(t *testing.T) {
	assert.True(t, confirmed(httptest.NewRequest(http.MethodDelete, "/api/services/1?confirm=true", nil)))
	assert.True(t, confirmed(httptest.NewRequest(http.MethodDelete, "/api/services/1?confirm=1", nil)))
	assert.False(t, confirmed(httptest.NewRequest(http.MethodDelete, "/api/services/1", nil)))
	assert.False(t, confirmed(httptest.NewRequest(http.MethodDelete, "/api/services/1?confirm=no", nil)))
}

func TestRespondErrorMapping(t *testing.T) {
	logger := utils.NewNopLogger()
	cases := []struct {
		err    error
		status int
		body   string
	}{
		{fmt.Errorf("%w: title is required", records.ErrInvalid), http.StatusBadRequest, "audits.invalid"},
		{records.ErrNotFound, http.StatusNotFound, "not found"},
		{reports.ErrNoSelection, http.StatusBadRequest, "reports.invalid"},
		{errors.New("disk gone"), http.StatusInternalServerError, "server error"},
	}
	for _, tc := range cases {
		rr := httptest.NewRecorder()
		respondError(rr, logger, "audits", tc.err)
		assert.Equal(t, tc.status, rr.Code, tc.err.Error())
		assert.Contains(t, rr.Body.String(), tc.body)
	}
}

func TestPathParamsFallback(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/problems/7/stats", nil)
	assert.Equal(t, "7", urlParam(req, "id"))
	req = httptest.NewRequest(http.MethodPost, "/api/dashboard/alerts/2/dismiss", nil)
	assert.Equal(t, "2", urlParam(req, "id"))
}

func TestWriteDocumentQuotesFilename(t *testing.T) {
	rr := httptest.NewRecorder()
	writeDocument(rr, &reports.Document{Filename: `audit "final"; v2.pdf`, ContentType: "application/pdf", Data: []byte("%PDF")})

	disposition, params, err := mime.ParseMediaType(rr.Header().Get("Content-Disposition"))
	assert.NoError(t, err)
	assert.Equal(t, "attachment", disposition)
	assert.Equal(t, `audit "final"; v2.pdf`, params["filename"])
	assert.Equal(t, "%PDF", rr.Body.String())
}
