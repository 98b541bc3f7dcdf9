package mock

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/amjido-01/webTray-sub001/schema"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// Product is a sample protected resource
type Product struct {
	ID        string    `json:"id"`
	StoreID   string    `json:"storeId"`
	Name      string    `json:"name"`
	SKU       string    `json:"sku,omitempty"`
	Price     float64   `json:"price"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"createdAt"`
}

func (b *Backend) ownedStore(w http.ResponseWriter, r *http.Request) (string, bool) {
	b.resources.Add(1)
	storeID := mux.Vars(r)["storeID"]
	if schema.FindStore(accountFrom(r).stores, storeID) == nil {
		writeFailure(w, http.StatusForbidden, "store not administered by user")
		return "", false
	}
	return storeID, true
}

func (b *Backend) listInventoryHandler(w http.ResponseWriter, r *http.Request) {
	storeID, ok := b.ownedStore(w, r)
	if !ok {
		return
	}
	products, _ := b.inventory.Get(storeID)
	if products == nil {
		products = []*Product{}
	}
	writeJSON(w, http.StatusOK, schema.NewEnvelope(products, "inventory"))
}

func (b *Backend) createProductHandler(w http.ResponseWriter, r *http.Request) {
	storeID, ok := b.ownedStore(w, r)
	if !ok {
		return
	}
	product := &Product{}
	if err := json.NewDecoder(r.Body).Decode(product); err != nil || product.Name == "" {
		writeFailure(w, http.StatusBadRequest, "product name is required")
		return
	}
	product.ID = uuid.NewString()
	product.StoreID = storeID
	product.CreatedAt = b.now().UTC()
	products, _ := b.inventory.Get(storeID)
	b.inventory.Put(storeID, append(products, product))
	writeJSON(w, http.StatusCreated, schema.NewEnvelope(product, "product created"))
}
