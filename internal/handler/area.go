package handler

import (
	"context"  // context with timeout for DB calls
	"errors"   // errors.Is for sentinel comparisons
	"fmt"      // message formatting
	"net/http" // HTTP status codes
	"strconv"  // parsing path parameters
	"strings"  // trimming request fields
	"time"     // DB call timeouts

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/warehouse-qr-system/internal/allocation" // pure allocation rules
	"github.com/iliyamo/warehouse-qr-system/internal/model"      // row structs
	"github.com/iliyamo/warehouse-qr-system/internal/repository" // DB repositories
)

// AreaHandler serves area management: listing, creation (optionally
// with an initial batch of slots), renaming and deletion.  The
// allocation package decides slot naming and deletion guards; this
// handler fetches the rows, calls it and persists the outcome.
type AreaHandler struct {
	AreaRepo *repository.AreaRepo
	SlotRepo *repository.SlotRepo
}

// NewAreaHandler constructs an AreaHandler and panics if a dependency is nil.
func NewAreaHandler(areaRepo *repository.AreaRepo, slotRepo *repository.SlotRepo) *AreaHandler {
	if areaRepo == nil || slotRepo == nil {
		panic("nil repository passed to NewAreaHandler")
	}
	return &AreaHandler{AreaRepo: areaRepo, SlotRepo: slotRepo}
}

type areaResp struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// GetAreas handles GET /api/areas.
func (h *AreaHandler) GetAreas(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	areas, err := h.AreaRepo.GetAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]areaResp, 0, len(areas))
	for _, a := range areas {
		out = append(out, areaResp{ID: a.ID, Name: a.Name})
	}
	return c.JSON(http.StatusOK, out)
}

// CreateArea handles POST /api/area.  When create_slots is set, a
// batch of slot_count slots is generated for the new area in the same
// request, named from the derived area code.
func (h *AreaHandler) CreateArea(c echo.Context) error {
	var body struct {
		Name        string `json:"name"`
		CreateSlots bool   `json:"createSlots"`
		SlotCount   int    `json:"slotCount"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	body.Name = strings.TrimSpace(body.Name)
	if body.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "area name is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	// Reject names that cannot produce a slot code before touching the
	// store, so an area is never created that bulk slot creation would
	// then choke on.
	if body.CreateSlots {
		if _, err := allocation.DeriveAreaCode(body.Name); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "area name yields an empty slot code"})
		}
	}

	area := model.Area{Name: body.Name}
	if err := h.AreaRepo.Create(ctx, &area); err != nil {
		if errors.Is(err, repository.ErrAreaExists) {
			return c.JSON(http.StatusConflict, echo.Map{"message": "Area already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create area failed"})
	}

	if body.CreateSlots && body.SlotCount > 0 {
		slots, err := allocation.NewSlots(body.Name, nil, body.SlotCount)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		if err := h.SlotRepo.CreateBulk(ctx, slots); err != nil {
			if errors.Is(err, repository.ErrSlotExists) {
				return c.JSON(http.StatusConflict, echo.Map{"message": "Slot ID already exists"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create slots failed"})
		}
		return c.JSON(http.StatusCreated, echo.Map{
			"message":      "Area and slots created successfully",
			"area":         areaResp{ID: area.ID, Name: area.Name},
			"slotsCreated": len(slots),
		})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Area created successfully",
		"area":    areaResp{ID: area.ID, Name: area.Name},
	})
}

// UpdateArea handles PUT /api/areas/:id.  Renaming an area rewrites
// the denormalized area name on its slots in the same transaction.
// Existing slot ids keep their old code; only new slots pick up a code
// derived from the new name.
func (h *AreaHandler) UpdateArea(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid area id"})
	}
	var body struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	body.Name = strings.TrimSpace(body.Name)
	if body.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Area name is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	area, err := h.AreaRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrAreaNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Area not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if area.Name == body.Name {
		return c.JSON(http.StatusOK, echo.Map{"message": "Area updated successfully", "area": areaResp{ID: area.ID, Name: area.Name}})
	}

	tx, err := h.AreaRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := h.AreaRepo.UpdateNameTx(ctx, tx, id, body.Name); err != nil {
		if errors.Is(err, repository.ErrAreaExists) {
			return c.JSON(http.StatusConflict, echo.Map{"message": "An area with this name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "rename failed"})
	}
	if err := h.SlotRepo.RenameAreaTx(ctx, tx, area.Name, body.Name); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "rename slots failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}
	committed = true

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Area updated successfully",
		"area":    areaResp{ID: area.ID, Name: body.Name},
	})
}

// DeleteArea handles DELETE /api/areas/:id.  Deletion is rejected
// while any slot of the area holds a product; otherwise the area's
// empty slots go first and the area row last, inside one transaction.
func (h *AreaHandler) DeleteArea(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid area id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	area, err := h.AreaRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrAreaNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Area not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	slots, err := h.SlotRepo.GetByArea(ctx, area.Name)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if err := allocation.CanDeleteArea(slots, area.Name); err != nil {
		occupied := 0
		for _, s := range slots {
			if !s.IsEmpty {
				occupied++
			}
		}
		return c.JSON(http.StatusConflict, echo.Map{
			"message": fmt.Sprintf("Cannot delete area %q. It has %d occupied slot(s). Remove products first.", area.Name, occupied),
		})
	}

	tx, err := h.AreaRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Slots first, then the area row, so an occupied-looking slot never
	// outlives its area.
	if err := h.SlotRepo.DeleteByAreaTx(ctx, tx, area.Name); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete slots failed"})
	}
	if err := h.AreaRepo.DeleteTx(ctx, tx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete area failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}
	committed = true

	return c.JSON(http.StatusOK, echo.Map{"message": "Area and its empty slots deleted successfully"})
}
