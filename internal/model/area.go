package model

import "time"

// Area represents a named grouping of storage slots, such as a
// warehouse section ("Section E").  Area names are globally unique.
// Slots reference their area by name rather than by foreign key; the
// name is denormalized onto every slot row so renaming an area must
// cascade to its slots.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – unique area name.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Area struct {
    ID        uint64    // areas.id
    Name      string    // areas.name
    CreatedAt time.Time // areas.created_at
    UpdatedAt time.Time // areas.updated_at
}
