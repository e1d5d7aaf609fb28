// Package allocation implements the slot allocation rules of the
// warehouse: deriving short area codes from area names, generating the
// next slot identifiers for an area, choosing a slot for an incoming
// product and guarding area/slot deletion.  Every function here is
// pure — callers fetch the relevant slot rows from the store, pass
// them in, and persist whatever comes back.  That keeps the rules
// testable without a database and leaves all atomicity concerns to the
// repository layer.
package allocation

import (
    "errors"
    "fmt"
    "regexp"
    "strconv"
    "strings"

    "github.com/iliyamo/warehouse-qr-system/internal/model"
)

// ErrEmptyAreaCode is returned when an area name reduces to nothing
// after prefix stripping (an area named exactly "Section").  Minting
// slot ids like "-1" from such a name is treated as a naming error.
var ErrEmptyAreaCode = errors.New("area name yields an empty code")

// ErrInvalidCount is returned when a bulk slot request asks for fewer
// than one slot.
var ErrInvalidCount = errors.New("slot count must be at least 1")

// ErrNoEmptySlot is returned by ChooseAutomatic when every slot is
// occupied.  Handlers translate it into "No empty slot available".
var ErrNoEmptySlot = errors.New("no empty slot available")

// ErrSlotNotFound is returned when a requested slot id does not exist
// in the provided slot set.
var ErrSlotNotFound = errors.New("slot not found")

// ErrSlotOccupied is returned when the requested slot already holds a
// product, either on custom allocation or on slot deletion.
var ErrSlotOccupied = errors.New("slot is already occupied")

// ErrAreaOccupied is returned when an area cannot be deleted because
// at least one of its slots still holds a product.
var ErrAreaOccupied = errors.New("area has occupied slots")

// areaPrefix matches a leading "Section", "Area" or "Zone" marker,
// optionally followed by whitespace or hyphens.
var areaPrefix = regexp.MustCompile(`(?i)^(section|area|zone)[\s-]*`)

// trailingDigits matches the numeric suffix of a slot id ("E-12" -> "12").
var trailingDigits = regexp.MustCompile(`\d+$`)

// DeriveAreaCode extracts the short code used as the slot identifier
// prefix from an area name.  "Section E" and "Zone-E" both derive "E";
// a name with no recognised prefix is used as-is.  When the trimmed
// remainder still contains whitespace, the last whitespace-delimited
// token wins ("North Wing B" -> "B").
func DeriveAreaCode(areaName string) (string, error) {
    code := areaPrefix.ReplaceAllString(strings.TrimSpace(areaName), "")
    code = strings.TrimSpace(code)
    if strings.ContainsAny(code, " \t") {
        fields := strings.Fields(code)
        code = fields[len(fields)-1]
    }
    if code == "" {
        return "", fmt.Errorf("%w: %q", ErrEmptyAreaCode, areaName)
    }
    return code, nil
}

// NextSlotNumbers returns the next count slot numbers for an area,
// given the slot ids that already exist there.  Each existing id
// contributes its trailing run of digits (ids without a numeric suffix
// contribute 0); the result is max+1 .. max+count in ascending order.
// Recomputing from the persisted maximum makes bulk creation safe to
// re-run after a partial failure: numbers never repeat.
func NextSlotNumbers(existingIDs []string, count int) ([]int, error) {
    if count < 1 {
        return nil, ErrInvalidCount
    }
    max := 0
    for _, id := range existingIDs {
        if m := trailingDigits.FindString(id); m != "" {
            if n, err := strconv.Atoi(m); err == nil && n > max {
                max = n
            }
        }
    }
    numbers := make([]int, count)
    for i := range numbers {
        numbers[i] = max + 1 + i
    }
    return numbers, nil
}

// NewSlots builds count fresh slot records for an area, composing
// DeriveAreaCode and NextSlotNumbers over the ids already persisted
// for that area.  Every returned slot is empty.  The generated ids are
// unique within the area; callers must still enforce global slot id
// uniqueness before persisting, since two areas may derive the same
// code ("Section E" and "Zone E").
func NewSlots(areaName string, existingIDs []string, count int) ([]model.Slot, error) {
    code, err := DeriveAreaCode(areaName)
    if err != nil {
        return nil, err
    }
    numbers, err := NextSlotNumbers(existingIDs, count)
    if err != nil {
        return nil, err
    }
    slots := make([]model.Slot, 0, count)
    for _, n := range numbers {
        slots = append(slots, model.Slot{
            Area:    areaName,
            SlotID:  fmt.Sprintf("%s-%d", code, n),
            IsEmpty: true,
        })
    }
    return slots, nil
}

// ChooseAutomatic picks the slot for an auto-store request: the first
// empty slot in the order the store returned them.  There is no area
// preference or load balancing; the original system relied on natural
// store order and this keeps that behavior.
func ChooseAutomatic(slots []model.Slot) (*model.Slot, error) {
    for i := range slots {
        if slots[i].IsEmpty {
            return &slots[i], nil
        }
    }
    return nil, ErrNoEmptySlot
}

// ChooseSlot picks an admin-chosen slot for a custom allocation.  It
// fails with ErrSlotNotFound when no slot carries the requested id and
// with ErrSlotOccupied when the slot already holds a product.
func ChooseSlot(slots []model.Slot, slotID string) (*model.Slot, error) {
    for i := range slots {
        if slots[i].SlotID == slotID {
            if !slots[i].IsEmpty {
                return nil, ErrSlotOccupied
            }
            return &slots[i], nil
        }
    }
    return nil, ErrSlotNotFound
}

// Occupy transitions a slot to the occupied state for the given
// product.  Callers persist the mutation together with the product
// insert in one transaction.
func Occupy(s *model.Slot, productID string) {
    s.IsEmpty = false
    s.ProductID = &productID
}

// Release transitions a slot back to empty.  Releasing a slot that is
// already empty is a no-op, which keeps retried retrieval requests
// harmless.
func Release(s *model.Slot) {
    s.IsEmpty = true
    s.ProductID = nil
}

// CanDeleteArea reports whether an area may be deleted: it is rejected
// while any slot of that area still holds a product.  Deletion order
// (slots first, then the area row) is the caller's responsibility.
func CanDeleteArea(slots []model.Slot, areaName string) error {
    occupied := 0
    for i := range slots {
        if slots[i].Area == areaName && !slots[i].IsEmpty {
            occupied++
        }
    }
    if occupied > 0 {
        return fmt.Errorf("%w: %d occupied slot(s) in %q", ErrAreaOccupied, occupied, areaName)
    }
    return nil
}

// CanDeleteSlot reports whether a single slot may be deleted.  Only
// empty slots can go; the product must be retrieved first.
func CanDeleteSlot(s *model.Slot) error {
    if !s.IsEmpty {
        return ErrSlotOccupied
    }
    return nil
}
