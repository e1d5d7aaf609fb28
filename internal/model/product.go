package model

import "time"

// Product is a stored item occupying exactly one slot.  Products have
// no independent existence: they are created together with a slot
// assignment and deleted when the slot is freed on retrieval.  The
// ProductID is caller-supplied (the scanning frontend derives it from
// a timestamp) and globally unique.
//
// Most attributes (description, quantity, origin, destination, the
// base64 photo and QR payload) are opaque data carried through for the
// UI; only ProductID and SlotID participate in allocation logic.
type Product struct {
    ID          uint64    // products.id
    ProductID   string    // products.product_id (unique, caller supplied)
    Name        string    // products.name
    Description string    // products.description
    Quantity    int       // products.quantity (defaults to 1)
    Origin      string    // products.origin
    Destination string    // products.destination
    SlotID      string    // products.slot_id (denormalized copy for display)
    Photo       string    // products.photo (base64 encoded image)
    QRCode      string    // products.qr_code (payload encoded in the printed QR)
    AddedBy     string    // products.added_by (username of the operator)
    DateAdded   time.Time // products.date_added
}
