// Package repository implements data access for areas, slots, products
// and users on top of database/sql.  This file defines sentinel errors
// shared across repositories so that handlers can map failure modes to
// HTTP responses: conflicts become 409, missing rows become 404.
package repository

import "errors"

// ErrAreaNotFound is returned when an area lookup yields no rows.
var ErrAreaNotFound = errors.New("area not found")

// ErrAreaExists is returned when creating or renaming an area would
// duplicate an existing area name.
var ErrAreaExists = errors.New("area already exists")

// ErrSlotNotFound is returned when a slot lookup yields no rows.
var ErrSlotNotFound = errors.New("slot not found")

// ErrSlotExists is returned when inserting a slot whose slot_id is
// already taken anywhere in the warehouse.  Slot ids are globally
// unique even across areas that derive the same code.
var ErrSlotExists = errors.New("slot id already exists")

// ErrProductNotFound is returned when a product lookup yields no rows.
var ErrProductNotFound = errors.New("product not found")

// ErrProductExists is returned when inserting a product whose
// product_id is already taken.
var ErrProductExists = errors.New("product id already exists")

// ErrSlotTaken is returned by TryOccupyTx when the conditional update
// matched no row because the slot was grabbed by a concurrent request
// between read and write.  Handlers translate this into 409.
var ErrSlotTaken = errors.New("slot is already occupied")
