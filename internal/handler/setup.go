package handler

import (
	"context"  // context with timeout for DB calls
	"fmt"      // message formatting
	"net/http" // HTTP status codes
	"time"     // DB call timeouts

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/warehouse-qr-system/internal/allocation"
	"github.com/iliyamo/warehouse-qr-system/internal/config"
	"github.com/iliyamo/warehouse-qr-system/internal/model"
	"github.com/iliyamo/warehouse-qr-system/internal/repository"
)

// SetupHandler serves the one-shot bootstrap routes the original
// deployment used to seed a fresh warehouse: default operator
// accounts, the Section A-D slot grid, and a cleanup that drops
// legacy rows with unstripped "Section-" slot ids.  All three are
// destructive and ADMIN-only.
type SetupHandler struct {
	Cfg      config.Config
	UserRepo *repository.UserRepo
	AreaRepo *repository.AreaRepo
	SlotRepo *repository.SlotRepo
}

func NewSetupHandler(cfg config.Config, u *repository.UserRepo, a *repository.AreaRepo, s *repository.SlotRepo) *SetupHandler {
	if u == nil || a == nil || s == nil {
		panic("nil repository passed to NewSetupHandler")
	}
	return &SetupHandler{Cfg: cfg, UserRepo: u, AreaRepo: a, SlotRepo: s}
}

// SetupUsers handles POST /api/setup-users: clear the users table and
// recreate the two default accounts.  Unlike the original system the
// seeded passwords are bcrypt hashed like any other account.
func (h *SetupHandler) SetupUsers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if err := h.UserRepo.DeleteAll(ctx); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "clear users failed"})
	}

	seeds := []struct{ username, name, password, role string }{
		{"admin", "Admin User", "admin123", "ADMIN"},
		{"employee", "John Employee", "emp123", "EMPLOYEE"},
	}
	created := make([]echo.Map, 0, len(seeds))
	for _, s := range seeds {
		if _, err := h.UserRepo.Create(ctx, s.username, s.name, s.password, s.role, h.Cfg.BcryptCost); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
		}
		created = append(created, echo.Map{"username": s.username, "name": s.name, "role": s.role})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Users created", "users": created})
}

// SetupSlots handles POST /api/setup-slots: clear all slots and areas
// and rebuild the default grid of Sections A-D with six slots each.
func (h *SetupHandler) SetupSlots(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if err := h.SlotRepo.DeleteAll(ctx); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "clear slots failed"})
	}
	if err := h.AreaRepo.DeleteAll(ctx); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "clear areas failed"})
	}

	var (
		areas []model.Area
		slots []model.Slot
	)
	for _, section := range []string{"A", "B", "C", "D"} {
		areaName := "Section " + section
		areas = append(areas, model.Area{Name: areaName})
		batch, err := allocation.NewSlots(areaName, nil, 6)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "build slots failed"})
		}
		slots = append(slots, batch...)
	}

	if err := h.AreaRepo.CreateBulk(ctx, areas); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create areas failed"})
	}
	if err := h.SlotRepo.CreateBulk(ctx, slots); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create slots failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Slots and areas initialized",
		"areas":   len(areas),
		"slots":   len(slots),
	})
}

// CleanupSlots handles POST /api/cleanup-slots: remove slots whose ids
// still carry the raw "Section-" prefix from before code derivation.
func (h *SetupHandler) CleanupSlots(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	n, err := h.SlotRepo.DeleteByIDPrefix(ctx, "Section-")
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cleanup failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": fmt.Sprintf("Cleaned up %d incorrectly named slots", n),
	})
}
