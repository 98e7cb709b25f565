package strapi

import (
	"context"
	"encoding/json"

	"github.com/doaqui/doaqui/core"
)

const foodTypesResource = "food-types"

// FoodTypes lists the donatable food categories shown on the donation
// form.
type FoodTypes struct {
	client *Client
	cache  *core.ListCache
}

func NewFoodTypes(client *Client, cache *core.ListCache) *FoodTypes {
	return &FoodTypes{client: client, cache: cache}
}

func (f *FoodTypes) All(ctx context.Context) ([]core.FoodType, error) {
	if cached, err := f.cache.Get(foodTypesResource, "all"); err == nil {
		if items, ok := cached.([]core.FoodType); ok {
			return items, nil
		}
	}

	var payload []wireFoodType
	if err := f.client.Get(ctx, "/TipoAlimento/all", "fetching food types", &payload); err != nil {
		return nil, err
	}

	items := make([]core.FoodType, 0, len(payload))
	for _, wire := range payload {
		items = append(items, core.FoodType{
			ID:         wire.ID.String(),
			DocumentID: wire.DocumentID,
			Name:       wire.Nome,
			Unit:       wire.UnidadeMedida,
		})
	}

	f.cache.Set(foodTypesResource, "all", items)
	return items, nil
}

// wireFoodType keeps the backend's Portuguese field names at the wire
// boundary only.
type wireFoodType struct {
	ID            json.Number `json:"id"`
	DocumentID    string      `json:"documentId"`
	Nome          string      `json:"Nome"`
	UnidadeMedida string      `json:"UnidadeMedida"`
}
