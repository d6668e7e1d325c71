package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/remiblancher/device-registry/internal/api/dto"
	apierrors "github.com/remiblancher/device-registry/internal/api/errors"
	"github.com/remiblancher/device-registry/internal/api/middleware"
	"github.com/remiblancher/device-registry/internal/api/service"
	"github.com/remiblancher/device-registry/internal/audit"
	"github.com/remiblancher/device-registry/pkg/device"
)

// DeviceHandler handles catalog and HSM slot requests.
type DeviceHandler struct {
	svc *service.DeviceService
}

// NewDeviceHandler creates a new DeviceHandler.
func NewDeviceHandler(svc *service.DeviceService) *DeviceHandler {
	return &DeviceHandler{svc: svc}
}

// forRequest attributes audit events to the request.
func (h *DeviceHandler) forRequest(r *http.Request) *service.DeviceService {
	return h.svc.WithActor(audit.Actor{
		Type: "service",
		ID:   middleware.GetRequestID(r.Context()),
		Host: r.RemoteAddr,
	})
}

// List handles GET /api/v1/devices
func (h *DeviceHandler) List(w http.ResponseWriter, r *http.Request) {
	devices := h.svc.List()
	resp := dto.DeviceListResponse{
		Devices: make([]dto.DeviceResponse, len(devices)),
		Total:   len(devices),
	}
	for i, d := range devices {
		resp.Devices[i] = dto.NewDeviceResponse(i, d)
	}
	respond(w, r, http.StatusOK, resp)
}

// Get handles GET /api/v1/devices/{index}
func (h *DeviceHandler) Get(w http.ResponseWriter, r *http.Request) {
	index, ok := pathInt(w, r, "index")
	if !ok {
		return
	}

	var osFilter *device.OS
	if q := r.URL.Query().Get("os"); q != "" {
		o, err := device.ParseOS(q)
		if err != nil {
			respondError(w, r, http.StatusBadRequest, apierrors.NewBadRequest(err.Error(), map[string]string{"os": q}))
			return
		}
		osFilter = &o
	}

	d, err := h.svc.Get(index, osFilter)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, dto.NewDeviceResponse(index, d))
}

// GetHSM handles GET /api/v1/hsms/{index}
func (h *DeviceHandler) GetHSM(w http.ResponseWriter, r *http.Request) {
	index, ok := pathInt(w, r, "index")
	if !ok {
		return
	}

	hsm, err := h.forRequest(r).GetHSM(index)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	d, _ := h.svc.Get(index, nil)
	respond(w, r, http.StatusOK, dto.NewHSMResponse(index, d, hsm))
}

// Slot handles GET /api/v1/hsms/{index}/slots/{slot}
func (h *DeviceHandler) Slot(w http.ResponseWriter, r *http.Request) {
	index, slot, ok := indexAndSlot(w, r)
	if !ok {
		return
	}

	state, err := h.svc.Slot(index, slot)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, dto.NewSlotResponse(state))
}

// GenerateKey handles POST /api/v1/hsms/{index}/slots/{slot}/key
func (h *DeviceHandler) GenerateKey(w http.ResponseWriter, r *http.Request) {
	index, slot, ok := indexAndSlot(w, r)
	if !ok {
		return
	}

	state, err := h.forRequest(r).GenerateKey(index, slot)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, dto.NewSlotResponse(state))
}

// Sign handles POST /api/v1/hsms/{index}/slots/{slot}/sign
func (h *DeviceHandler) Sign(w http.ResponseWriter, r *http.Request) {
	index, slot, ok := indexAndSlot(w, r)
	if !ok {
		return
	}

	hsm, sig, err := h.forRequest(r).Sign(index, slot)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, dto.NewSignResponse(index, slot, hsm, sig))
}

func indexAndSlot(w http.ResponseWriter, r *http.Request) (index, slot int, ok bool) {
	if index, ok = pathInt(w, r, "index"); !ok {
		return 0, 0, false
	}
	if slot, ok = pathInt(w, r, "slot"); !ok {
		return 0, 0, false
	}
	return index, slot, true
}

// pathInt parses a non-negative integer URL parameter.
func pathInt(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := chi.URLParam(r, name)
	v, err := strconv.ParseUint(raw, 10, 31)
	if err != nil {
		respondError(w, r, http.StatusBadRequest,
			apierrors.NewBadRequest(name+" must be a non-negative integer", map[string]string{name: raw}))
		return 0, false
	}
	return int(v), true
}
