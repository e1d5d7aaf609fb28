// Package queue defines message payloads exchanged over the message broker.
package queue

// ProductStoredEvent is published when a product has been committed to
// a slot. It carries enough information for downstream consumers to
// log or feed inventory reports without querying the primary database.
type ProductStoredEvent struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	SlotID    string `json:"slot_id"`
	Area      string `json:"area"`
	AddedBy   string `json:"added_by"`
	StoredAt  string `json:"stored_at"`
}

// ProductRetrievedEvent is published when a product has been retrieved
// and its slot freed.
type ProductRetrievedEvent struct {
	ProductID   string `json:"product_id"`
	Name        string `json:"name"`
	FreedSlot   string `json:"freed_slot"`
	RetrievedBy string `json:"retrieved_by"`
	RetrievedAt string `json:"retrieved_at"`
}
