package handler

import (
	"context"  // context with timeout for DB calls
	"errors"   // errors.Is for sentinel comparisons
	"log"      // event publish failures are logged, not fatal
	"net/http" // HTTP status codes
	"strings"  // trimming request fields
	"time"     // DB call timeouts

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/warehouse-qr-system/internal/allocation" // pure allocation rules
	"github.com/iliyamo/warehouse-qr-system/internal/model"      // row structs
	"github.com/iliyamo/warehouse-qr-system/internal/queue"      // event payloads
	"github.com/iliyamo/warehouse-qr-system/internal/repository" // DB repositories
	publisher "github.com/iliyamo/warehouse-qr-system/internal/service"
)

// ProductHandler serves product storage and retrieval.  Storing a
// product and occupying its slot are one transaction, as are freeing
// the slot and deleting the product on retrieval; a crash can never
// leave a product without a slot or a slot pointing at a product that
// does not exist.
type ProductHandler struct {
	SlotRepo    *repository.SlotRepo
	ProductRepo *repository.ProductRepo
}

// NewProductHandler constructs a ProductHandler and panics if any dependency is nil.
func NewProductHandler(slotRepo *repository.SlotRepo, productRepo *repository.ProductRepo) *ProductHandler {
	if slotRepo == nil || productRepo == nil {
		panic("nil repository passed to NewProductHandler")
	}
	return &ProductHandler{SlotRepo: slotRepo, ProductRepo: productRepo}
}

type productReq struct {
	ProductID   string `json:"productId"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Photo       string `json:"photo"`
	QRCode      string `json:"qrCode"`
	AddedBy     string `json:"addedBy"`
	SlotID      string `json:"slotId"` // only used by allocate-custom
}

type productResp struct {
	ProductID   string    `json:"productId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Quantity    int       `json:"quantity"`
	Origin      string    `json:"origin"`
	Destination string    `json:"destination"`
	SlotID      string    `json:"slotId"`
	Photo       string    `json:"photo"`
	QRCode      string    `json:"qrCode"`
	AddedBy     string    `json:"addedBy"`
	DateAdded   time.Time `json:"dateAdded"`
}

func toProductResp(p model.Product) productResp {
	return productResp{
		ProductID:   p.ProductID,
		Name:        p.Name,
		Description: p.Description,
		Quantity:    p.Quantity,
		Origin:      p.Origin,
		Destination: p.Destination,
		SlotID:      p.SlotID,
		Photo:       p.Photo,
		QRCode:      p.QRCode,
		AddedBy:     p.AddedBy,
		DateAdded:   p.DateAdded,
	}
}

func (b productReq) toModel(slotID, addedBy string) model.Product {
	qty := b.Quantity
	if qty < 1 {
		qty = 1
	}
	return model.Product{
		ProductID:   b.ProductID,
		Name:        b.Name,
		Description: b.Description,
		Quantity:    qty,
		Origin:      b.Origin,
		Destination: b.Destination,
		SlotID:      slotID,
		Photo:       b.Photo,
		QRCode:      b.QRCode,
		AddedBy:     addedBy,
	}
}

func (b *productReq) validate() string {
	b.ProductID = strings.TrimSpace(b.ProductID)
	b.Name = strings.TrimSpace(b.Name)
	switch {
	case b.ProductID == "":
		return "productId is required"
	case b.Name == "":
		return "name is required"
	case strings.TrimSpace(b.Origin) == "":
		return "origin is required"
	case strings.TrimSpace(b.Destination) == "":
		return "destination is required"
	}
	return ""
}

// GetProducts handles GET /api/products, newest first.
func (h *ProductHandler) GetProducts(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	products, err := h.ProductRepo.GetAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]productResp, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResp(p))
	}
	return c.JSON(http.StatusOK, out)
}

// GetProduct handles GET /api/products/:id, looking up by productId.
func (h *ProductHandler) GetProduct(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.ProductRepo.GetByProductID(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Product not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toProductResp(*p))
}

// SearchProduct handles POST /api/products/search.  The scanner posts
// whatever the QR payload carried: a product id, a name fragment or a
// slot location.
func (h *ProductHandler) SearchProduct(c echo.Context) error {
	var body struct {
		ProductID string `json:"productId"`
		Name      string `json:"name"`
		Location  string `json:"location"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.ProductRepo.Search(ctx, strings.TrimSpace(body.ProductID),
		strings.TrimSpace(body.Name), strings.TrimSpace(body.Location))
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Product not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toProductResp(*p))
}

// AutoStore handles POST /api/auto-store: pick the first empty slot,
// occupy it and create the product, all in one transaction.
func (h *ProductHandler) AutoStore(c echo.Context) error {
	var body productReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := body.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	slots, err := h.SlotRepo.GetAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	chosen, err := allocation.ChooseAutomatic(slots)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "No empty slot available"})
	}

	return h.storeInSlot(c, ctx, body, chosen.SlotID, "Product stored successfully")
}

// AllocateCustom handles POST /api/allocate-custom: the admin names
// the target slot explicitly.
func (h *ProductHandler) AllocateCustom(c echo.Context) error {
	var body productReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := body.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	body.SlotID = strings.TrimSpace(body.SlotID)
	if body.SlotID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "slotId is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	slot, err := h.SlotRepo.GetBySlotID(ctx, body.SlotID)
	if err != nil {
		if errors.Is(err, repository.ErrSlotNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Slot not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !slot.IsEmpty {
		return c.JSON(http.StatusConflict, echo.Map{"message": "Slot is already occupied"})
	}

	return h.storeInSlot(c, ctx, body, slot.SlotID, "Product allocated successfully")
}

// storeInSlot claims slotID for the product and inserts the product
// row in one transaction.  TryOccupyTx is conditional on the slot
// still being empty, so a racing request loses with 409 instead of
// double-booking the slot.
func (h *ProductHandler) storeInSlot(c echo.Context, ctx context.Context, body productReq, slotID, okMsg string) error {
	tx, err := h.SlotRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := h.SlotRepo.TryOccupyTx(ctx, tx, slotID, body.ProductID); err != nil {
		switch {
		case errors.Is(err, repository.ErrSlotNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Slot not found"})
		case errors.Is(err, repository.ErrSlotTaken):
			return c.JSON(http.StatusConflict, echo.Map{"message": "Slot is already occupied"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "occupy slot failed"})
	}

	addedBy := strings.TrimSpace(body.AddedBy)
	if addedBy == "" {
		addedBy = currentUsername(c)
	}
	product := body.toModel(slotID, addedBy)
	if err := h.ProductRepo.CreateTx(ctx, tx, &product); err != nil {
		if errors.Is(err, repository.ErrProductExists) {
			return c.JSON(http.StatusConflict, echo.Map{"message": "Product ID already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create product failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}
	committed = true
	product.DateAdded = time.Now().UTC()

	// Best effort: a broker outage must not fail the stored product.
	if err := publisher.PublishProductStored(ctx, queue.ProductStoredEvent{
		ProductID: product.ProductID,
		Name:      product.Name,
		SlotID:    slotID,
		Area:      areaOfSlot(ctx, h.SlotRepo, slotID),
		AddedBy:   addedBy,
		StoredAt:  product.DateAdded.Format(time.RFC3339),
	}); err != nil {
		log.Printf("product-stored event publish failed: %v", err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message":      okMsg,
		"slotAssigned": slotID,
		"product":      toProductResp(product),
	})
}

// Retrieve handles POST /api/retrieve: free the product's slot and
// delete the product in one transaction.
func (h *ProductHandler) Retrieve(c echo.Context) error {
	var body struct {
		ProductID string `json:"productId"`
	}
	if err := c.Bind(&body); err != nil || strings.TrimSpace(body.ProductID) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "productId is required"})
	}
	return h.removeProduct(c, strings.TrimSpace(body.ProductID), "Product retrieved successfully", true)
}

// DeleteProduct handles DELETE /api/products/:id.  Same pairing as
// Retrieve, driven by the path parameter.
func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	return h.removeProduct(c, c.Param("id"), "Product deleted successfully", false)
}

func (h *ProductHandler) removeProduct(c echo.Context, productID, okMsg string, reportSlot bool) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	product, err := h.ProductRepo.GetByProductID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Product not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	tx, err := h.SlotRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := h.SlotRepo.ReleaseTx(ctx, tx, product.SlotID); err != nil &&
		!errors.Is(err, repository.ErrSlotNotFound) {
		// A missing slot row means it was deleted out from under the
		// product; the product removal still proceeds.
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "release slot failed"})
	}
	if err := h.ProductRepo.DeleteByProductIDTx(ctx, tx, productID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete product failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}
	committed = true

	if err := publisher.PublishProductRetrieved(ctx, queue.ProductRetrievedEvent{
		ProductID:   productID,
		Name:        product.Name,
		FreedSlot:   product.SlotID,
		RetrievedBy: currentUsername(c),
		RetrievedAt: time.Now().UTC().Format(time.RFC3339),
	}); err != nil {
		log.Printf("product-retrieved event publish failed: %v", err)
	}

	if reportSlot {
		return c.JSON(http.StatusOK, echo.Map{"message": okMsg, "freedSlot": product.SlotID})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": okMsg})
}

// areaOfSlot resolves the owning area for event payloads.  Lookup
// failures degrade to an empty area rather than failing the request.
func areaOfSlot(ctx context.Context, repo *repository.SlotRepo, slotID string) string {
	s, err := repo.GetBySlotID(ctx, slotID)
	if err != nil {
		return ""
	}
	return s.Area
}
