package model

import "time"

// Slot describes an addressable storage location inside an area.  A
// slot holds at most one product.  The SlotID is a human-readable
// identifier of the form <code>-<n> where <code> is derived from the
// owning area's name ("Section E" -> "E") and <n> is a positive
// integer unique within the area.
//
// Invariant: IsEmpty == (ProductID == nil) must hold after every
// mutation.  The slot row is the authoritative record of occupancy;
// the product's copy of the slot id exists only for display.
//
// Fields:
//  ID        – primary key identifier.
//  Area      – name of the owning area (denormalized).
//  SlotID    – unique slot identifier, e.g. "E-4".
//  IsEmpty   – true while no product occupies the slot.
//  ProductID – id of the occupying product (nil when empty).
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Slot struct {
    ID        uint64    // slots.id
    Area      string    // slots.area
    SlotID    string    // slots.slot_id
    IsEmpty   bool      // slots.is_empty
    ProductID *string   // slots.product_id (nullable)
    CreatedAt time.Time // slots.created_at
    UpdatedAt time.Time // slots.updated_at
}
