package handler

import (
	"context"  // context with timeout for DB calls
	"errors"   // errors.Is for sentinel comparisons
	"net/http" // HTTP status codes
	"strconv"  // parsing path parameters
	"strings"  // trimming request fields
	"time"     // DB call timeouts

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/warehouse-qr-system/internal/allocation" // pure allocation rules
	"github.com/iliyamo/warehouse-qr-system/internal/model"      // row structs
	"github.com/iliyamo/warehouse-qr-system/internal/repository" // DB repositories
)

// SlotHandler serves slot management: listing, single and bulk
// creation, and deletion of empty slots.
type SlotHandler struct {
	SlotRepo *repository.SlotRepo
}

// NewSlotHandler constructs a SlotHandler and panics if the repository is nil.
func NewSlotHandler(slotRepo *repository.SlotRepo) *SlotHandler {
	if slotRepo == nil {
		panic("nil repository passed to NewSlotHandler")
	}
	return &SlotHandler{SlotRepo: slotRepo}
}

type slotResp struct {
	ID        uint64  `json:"id"`
	Area      string  `json:"area"`
	SlotID    string  `json:"slotId"`
	IsEmpty   bool    `json:"isEmpty"`
	ProductID *string `json:"productId"`
}

func toSlotResp(s model.Slot) slotResp {
	return slotResp{ID: s.ID, Area: s.Area, SlotID: s.SlotID, IsEmpty: s.IsEmpty, ProductID: s.ProductID}
}

func toSlotResps(slots []model.Slot) []slotResp {
	out := make([]slotResp, 0, len(slots))
	for _, s := range slots {
		out = append(out, toSlotResp(s))
	}
	return out
}

// GetSlots handles GET /api/slots.
func (h *SlotHandler) GetSlots(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	slots, err := h.SlotRepo.GetAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toSlotResps(slots))
}

// GetEmptySlots handles GET /api/slots/empty.
func (h *SlotHandler) GetEmptySlots(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	slots, err := h.SlotRepo.GetEmpty(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toSlotResps(slots))
}

// CreateSlot handles POST /api/slot: a single slot with an explicit,
// admin-chosen id.  Global slot id uniqueness is enforced by the
// store's unique key.
func (h *SlotHandler) CreateSlot(c echo.Context) error {
	var body struct {
		Area   string `json:"area"`
		SlotID string `json:"slotId"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	body.Area = strings.TrimSpace(body.Area)
	body.SlotID = strings.TrimSpace(body.SlotID)
	if body.Area == "" || body.SlotID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "area and slotId are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	slot := model.Slot{Area: body.Area, SlotID: body.SlotID, IsEmpty: true}
	if err := h.SlotRepo.Create(ctx, &slot); err != nil {
		if errors.Is(err, repository.ErrSlotExists) {
			return c.JSON(http.StatusConflict, echo.Map{"message": "Slot ID already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create slot failed"})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Slot created successfully",
		"slot":    toSlotResp(slot),
	})
}

// CreateSlotsBulk handles POST /api/slots/bulk.  Slot ids continue
// after the highest number ever issued for the area, so re-running a
// partially applied batch never duplicates identifiers.
func (h *SlotHandler) CreateSlotsBulk(c echo.Context) error {
	var body struct {
		Area  string `json:"area"`
		Count int    `json:"count"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	body.Area = strings.TrimSpace(body.Area)
	if body.Area == "" || body.Count < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid area or count"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	existing, err := h.SlotRepo.GetByArea(ctx, body.Area)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	ids := make([]string, 0, len(existing))
	for _, s := range existing {
		ids = append(ids, s.SlotID)
	}

	slots, err := allocation.NewSlots(body.Area, ids, body.Count)
	if err != nil {
		if errors.Is(err, allocation.ErrEmptyAreaCode) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "area name yields an empty slot code"})
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.SlotRepo.CreateBulk(ctx, slots); err != nil {
		if errors.Is(err, repository.ErrSlotExists) {
			return c.JSON(http.StatusConflict, echo.Map{"message": "Slot ID already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create slots failed"})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": strconv.Itoa(len(slots)) + " slots created successfully",
		"slots":   toSlotResps(slots),
	})
}

// DeleteSlot handles DELETE /api/slots/:id.  Occupied slots cannot be
// deleted; the product must be retrieved first.
func (h *SlotHandler) DeleteSlot(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid slot id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	slot, err := h.SlotRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrSlotNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Slot not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if err := allocation.CanDeleteSlot(slot); err != nil {
		return c.JSON(http.StatusConflict, echo.Map{"message": "Cannot delete occupied slot. Remove product first."})
	}

	if err := h.SlotRepo.DeleteByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrSlotNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Slot not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete slot failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Slot deleted successfully"})
}
