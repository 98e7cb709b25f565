package strapi

import (
	"context"
	"encoding/json"

	"github.com/doaqui/doaqui/core"
)

const organizationsResource = "organizations"

// Organizations lists the receiving ONG accounts donors can direct a
// donation at.
type Organizations struct {
	client *Client
	cache  *core.ListCache
}

func NewOrganizations(client *Client, cache *core.ListCache) *Organizations {
	return &Organizations{client: client, cache: cache}
}

func (o *Organizations) All(ctx context.Context) ([]core.Organization, error) {
	if cached, err := o.cache.Get(organizationsResource, "all"); err == nil {
		if items, ok := cached.([]core.Organization); ok {
			return items, nil
		}
	}

	var payload []wireOrganization
	if err := o.client.Get(ctx, "/user/ong/all", "fetching organizations", &payload); err != nil {
		return nil, err
	}

	items := make([]core.Organization, 0, len(payload))
	for _, wire := range payload {
		items = append(items, core.Organization{
			ID:         wire.ID.String(),
			DocumentID: wire.DocumentID,
			Username:   wire.Username,
			Email:      wire.Email,
			Document:   wire.Document,
		})
	}

	o.cache.Set(organizationsResource, "all", items)
	return items, nil
}

type wireOrganization struct {
	ID         json.Number `json:"id"`
	DocumentID string      `json:"documentId"`
	Username   string      `json:"username"`
	Email      string      `json:"email"`
	Document   string      `json:"documento"`
}
