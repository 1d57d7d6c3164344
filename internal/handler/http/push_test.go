package http

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIClockHandshake(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(httptest.NewRequest(http.MethodGet, "/iclock/cdata?SN=SN1&options=all", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "GET OPTION FROM: SN1\n"))
	assert.Contains(t, rec.Body.String(), "ATTLOGStamp=None")

	require.Len(t, s.devices.pushes, 1)
	assert.Empty(t, s.devices.pushes[0].AttLog, "handshake carries no records")

	rec = s.do(httptest.NewRequest(http.MethodGet, "/iclock/cdata?SN=UNKNOWN", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestIClockAttLog(t *testing.T) {
	s := newTestServer(t)

	body := "1001\t2024-03-01 09:02:11\t0\t1\t0\n1002\t2024-03-01 09:05:40\t0\t1\t0\n"
	req := httptest.NewRequest(http.MethodPost, "/iclock/cdata?SN=SN1&table=ATTLOG&Stamp=9999", strings.NewReader(body))
	req.RemoteAddr = "10.0.0.7:40211"
	rec := s.do(req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK: 2", rec.Body.String())
	require.Len(t, s.devices.pushes, 1)
	assert.Equal(t, "SN1", s.devices.pushes[0].Serial)
	assert.Equal(t, "10.0.0.7", s.devices.pushes[0].RemoteIP)
	assert.Equal(t, body, s.devices.pushes[0].AttLog)

	rec = s.do(httptest.NewRequest(http.MethodPost, "/iclock/cdata?SN=SN1&table=OPERLOG", strings.NewReader("OPLOG 4\t0\t2024-03-01 09:00:00")))
	assert.Equal(t, "OK", rec.Body.String())
	assert.Len(t, s.devices.pushes, 1, "other tables are not ingested")

	rec = s.do(httptest.NewRequest(http.MethodPost, "/iclock/cdata?SN=UNKNOWN&table=ATTLOG", strings.NewReader(body)))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestIClockPolling(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(httptest.NewRequest(http.MethodGet, "/iclock/getrequest?SN=SN1", nil))
	assert.Equal(t, "OK", rec.Body.String())

	rec = s.do(httptest.NewRequest(http.MethodPost, "/iclock/devicecmd?SN=SN1", strings.NewReader("ID=1&Return=0")))
	assert.Equal(t, "OK", rec.Body.String())
}

func TestDevicePush(t *testing.T) {
	s := newTestServer(t)

	t.Run("json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/device-push", strings.NewReader(`{"sn":"SN1","user_id":"1001","timestamp":"2024-03-01 09:02:11"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := s.do(req)

		require.Equal(t, http.StatusOK, rec.Code)
		push := s.devices.pushes[len(s.devices.pushes)-1]
		assert.Equal(t, "SN1", push.Payload["sn"])
		assert.Equal(t, "1001", push.Payload["user_id"])
	})

	t.Run("form", func(t *testing.T) {
		form := url.Values{"SN": {"SN1"}, "PIN": {"1002"}, "DateTime": {"2024-03-01 09:05:40"}}
		req := httptest.NewRequest(http.MethodPost, "/api/v1/device-push", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := s.do(req)

		require.Equal(t, http.StatusOK, rec.Code)
		push := s.devices.pushes[len(s.devices.pushes)-1]
		assert.Equal(t, "1002", push.Payload["PIN"])
	})

	t.Run("unregistered", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/device-push?SN=UNKNOWN", strings.NewReader(`{}`))
		assert.Equal(t, http.StatusForbidden, s.do(req).Code)
	})

	t.Run("malformed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/device-push", strings.NewReader(`{"sn":`))
		assert.Equal(t, http.StatusBadRequest, s.do(req).Code)
	})
}
