package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/device"
	"github.com/cmlabs-hris/attendance-hr-go/internal/handler/http/response"
)

const maxPushBody = 4 << 20

// PushHandler serves biometric devices pushing their logs. None of these
// routes carry a user token; the device registry decides who may push.
type PushHandler interface {
	// ZKTeco ADMS ("iclock") protocol.
	Handshake(w http.ResponseWriter, r *http.Request)
	AttLog(w http.ResponseWriter, r *http.Request)
	GetRequest(w http.ResponseWriter, r *http.Request)
	DeviceCmd(w http.ResponseWriter, r *http.Request)

	// JSON or form push from ESSL middleware.
	Push(w http.ResponseWriter, r *http.Request)
}

type pushHandlerImpl struct {
	deviceService device.DeviceService
}

func NewPushHandler(deviceService device.DeviceService) PushHandler {
	return &pushHandlerImpl{deviceService: deviceService}
}

func serialOf(r *http.Request) string {
	q := r.URL.Query()
	if sn := q.Get("SN"); sn != "" {
		return sn
	}
	return q.Get("sn")
}

func plain(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func pushError(w http.ResponseWriter, err error) {
	var status int
	switch {
	case errors.Is(err, device.ErrDeviceNotRegistered), errors.Is(err, device.ErrDeviceInactive):
		status = http.StatusForbidden
	default:
		slog.Error("Device push failed", "error", err)
		status = http.StatusInternalServerError
	}
	plain(w, status, "ERROR: "+err.Error())
}

// Handshake implements PushHandler. The device asks for its options before
// uploading; ATTLOGStamp=None asks for every stored record, which dedup
// absorbs.
func (h *pushHandlerImpl) Handshake(w http.ResponseWriter, r *http.Request) {
	serial := serialOf(r)
	if _, err := h.deviceService.HandlePush(r.Context(), device.PushRequest{Serial: serial, RemoteIP: clientIP(r)}); err != nil {
		pushError(w, err)
		return
	}

	lines := []string{
		"GET OPTION FROM: " + serial,
		"ATTLOGStamp=None",
		"OPERLOGStamp=9999",
		"ATTPHOTOStamp=None",
		"ErrorDelay=30",
		"Delay=10",
		"TransTimes=00:00;14:05",
		"TransInterval=1",
		"TransFlag=TransData AttLog",
		"TimeZone=0",
		"Realtime=1",
		"Encrypt=None",
	}
	plain(w, http.StatusOK, strings.Join(lines, "\n")+"\n")
}

// AttLog implements PushHandler. Tables other than ATTLOG (OPERLOG, user
// info) are acknowledged and dropped.
func (h *pushHandlerImpl) AttLog(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPushBody))
	if err != nil {
		plain(w, http.StatusBadRequest, "ERROR: unreadable body")
		return
	}

	table := r.URL.Query().Get("table")
	if table != "" && !strings.EqualFold(table, "ATTLOG") {
		slog.Debug("Ignoring device table upload", "serial", serialOf(r), "table", table)
		plain(w, http.StatusOK, "OK")
		return
	}

	resp, err := h.deviceService.HandlePush(r.Context(), device.PushRequest{
		Serial:   serialOf(r),
		RemoteIP: clientIP(r),
		AttLog:   string(body),
	})
	if err != nil {
		pushError(w, err)
		return
	}
	plain(w, http.StatusOK, fmt.Sprintf("OK: %d", resp.Received+resp.Skipped))
}

// GetRequest implements PushHandler. No commands are ever queued.
func (h *pushHandlerImpl) GetRequest(w http.ResponseWriter, r *http.Request) {
	plain(w, http.StatusOK, "OK")
}

// DeviceCmd implements PushHandler.
func (h *pushHandlerImpl) DeviceCmd(w http.ResponseWriter, r *http.Request) {
	plain(w, http.StatusOK, "OK")
}

// Push implements PushHandler.
func (h *pushHandlerImpl) Push(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxPushBody)

	payload := map[string]any{}
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		if err := r.ParseMultipartForm(maxPushBody); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			response.BadRequest(w, "Invalid form body", nil)
			return
		}
		for key, values := range r.Form {
			if len(values) > 0 {
				payload[key] = values[0]
			}
		}
	default:
		dec := json.NewDecoder(r.Body)
		dec.UseNumber()
		if err := dec.Decode(&payload); err != nil {
			response.BadRequest(w, "Invalid JSON body", nil)
			return
		}
	}

	resp, err := h.deviceService.HandlePush(r.Context(), device.PushRequest{
		Serial:   serialOf(r),
		RemoteIP: clientIP(r),
		Payload:  payload,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}
