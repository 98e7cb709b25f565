package strapi

import (
	"context"
	"encoding/json"
	"time"

	"github.com/doaqui/doaqui/core"
)

const donationsResource = "donations"

// Donations maps the donation endpoints and keeps list results cached
// until a write invalidates them.
type Donations struct {
	client *Client
	cache  *core.ListCache
}

func NewDonations(client *Client, cache *core.ListCache) *Donations {
	return &Donations{client: client, cache: cache}
}

// List returns one page of donations. Pagination and sort order pass
// through ListValues; results are cached per encoded query.
func (d *Donations) List(ctx context.Context, q core.ListQuery) (*core.DonationList, error) {
	if len(q.Populate) == 0 {
		q.Populate = []string{"donor", "ong_recipient"}
	}
	values := ListValues(q)
	key := values.Encode()

	if cached, err := d.cache.Get(donationsResource, key); err == nil {
		if list, ok := cached.(*core.DonationList); ok {
			return list, nil
		}
	}

	var payload struct {
		Data []wireDonation `json:"data"`
		Meta struct {
			Pagination wirePagination `json:"pagination"`
		} `json:"meta"`
	}
	if err := d.client.Get(ctx, "/donations", "fetching donations", &payload, WithQuery(values)); err != nil {
		return nil, err
	}

	list := &core.DonationList{
		Items:    make([]core.Donation, 0, len(payload.Data)),
		PageInfo: pageInfoFrom(payload.Meta.Pagination),
	}
	for _, wire := range payload.Data {
		list.Items = append(list.Items, wire.toDonation())
	}

	d.cache.Set(donationsResource, key, list)
	return list, nil
}

// All returns the flat cross-user list the admin table renders.
func (d *Donations) All(ctx context.Context) ([]core.Donation, error) {
	if cached, err := d.cache.Get(donationsResource, "all"); err == nil {
		if items, ok := cached.([]core.Donation); ok {
			return items, nil
		}
	}

	var payload []wireDonation
	if err := d.client.Get(ctx, "/donation/all", "fetching donations", &payload); err != nil {
		return nil, err
	}

	items := make([]core.Donation, 0, len(payload))
	for _, wire := range payload {
		items = append(items, wire.toDonation())
	}

	d.cache.Set(donationsResource, "all", items)
	return items, nil
}

// Get fetches a single donation with its relations populated.
func (d *Donations) Get(ctx context.Context, id string) (*core.Donation, error) {
	values := ListValues(core.ListQuery{Populate: []string{"donor", "ong_recipient"}})

	var payload struct {
		Data *wireDonation `json:"data"`
	}
	if err := d.client.Get(ctx, "/donations/"+id, "fetching donation", &payload, WithQuery(values)); err != nil {
		return nil, err
	}
	if payload.Data == nil {
		return nil, &core.APIError{Status: 404, Op: "fetching donation", Message: "donation not found"}
	}

	donation := payload.Data.toDonation()
	return &donation, nil
}

// NewDonationItem is one line item of a donation being submitted.
type NewDonationItem struct {
	FoodTypeID string `json:"tipo_alimento"`
	Quantity   int    `json:"quantidade"`
}

// CreateDonationInput is a donor's submission: line items directed at a
// chosen recipient organization.
type CreateDonationInput struct {
	DonorDocumentID string            `json:"donor"`
	Items           []NewDonationItem `json:"item_doado"`
	RecipientID     string            `json:"ong_recipient"`
}

// Create submits a donation and invalidates the cached donation lists.
func (d *Donations) Create(ctx context.Context, input CreateDonationInput) (*core.Donation, error) {
	body := struct {
		Data CreateDonationInput `json:"data"`
	}{Data: input}

	var payload struct {
		Data wireDonation `json:"data"`
	}
	if err := d.client.Post(ctx, "/donations", "creating donation", body, &payload); err != nil {
		return nil, err
	}

	d.cache.Invalidate(donationsResource)
	donation := payload.Data.toDonation()
	return &donation, nil
}

// UpdateDonationInput are the mutable donation fields. Zero fields are
// left untouched.
type UpdateDonationInput struct {
	Items       []NewDonationItem
	RecipientID string
	Status      core.DonationStatus
}

// Update patches a donation and invalidates the cached donation lists.
func (d *Donations) Update(ctx context.Context, id string, input UpdateDonationInput) (*core.Donation, error) {
	data := map[string]any{}
	if input.Items != nil {
		data["item_doado"] = input.Items
	}
	if input.RecipientID != "" {
		data["ong_recipient"] = input.RecipientID
	}
	if input.Status != "" {
		if !input.Status.Valid() {
			return nil, &core.APIError{Status: 400, Op: "updating donation", Message: "unknown donation status"}
		}
		data["status_donation"] = input.Status
	}

	body := map[string]any{"data": data}

	var payload struct {
		Data wireDonation `json:"data"`
	}
	if err := d.client.Put(ctx, "/donations/"+id, "updating donation", body, &payload); err != nil {
		return nil, err
	}

	d.cache.Invalidate(donationsResource)
	donation := payload.Data.toDonation()
	return &donation, nil
}

// UpdateStatus transitions a donation's status and invalidates the
// cached donation lists so the next read reflects the change.
func (d *Donations) UpdateStatus(ctx context.Context, id string, status core.DonationStatus) (*core.Donation, error) {
	if !status.Valid() {
		return nil, &core.APIError{Status: 400, Op: "updating donation", Message: "unknown donation status"}
	}

	body := struct {
		Data struct {
			Status core.DonationStatus `json:"status_donation"`
		} `json:"data"`
	}{}
	body.Data.Status = status

	var payload struct {
		Data wireDonation `json:"data"`
	}
	if err := d.client.Put(ctx, "/donations/"+id, "updating donation", body, &payload); err != nil {
		return nil, err
	}

	d.cache.Invalidate(donationsResource)
	donation := payload.Data.toDonation()
	return &donation, nil
}

// Delete removes a donation and invalidates the cached donation lists.
func (d *Donations) Delete(ctx context.Context, id string) error {
	if err := d.client.Delete(ctx, "/donations/"+id, "deleting donation"); err != nil {
		return err
	}
	d.cache.Invalidate(donationsResource)
	return nil
}

// wireDonation is a donation as the backend serializes it.
type wireDonation struct {
	ID             json.Number         `json:"id"`
	DocumentID     string              `json:"documentId"`
	StatusDonation core.DonationStatus `json:"status_donation"`
	ItemDoado      []wireDonationItem  `json:"item_doado"`
	Donor          *wireParty          `json:"donor"`
	OngRecipient   *wireParty          `json:"ong_recipient"`
	CreatedAt      string              `json:"createdAt"`
	UpdatedAt      string              `json:"updatedAt"`
}

type wireDonationItem struct {
	ID           json.Number   `json:"id"`
	Quantidade   int           `json:"quantidade"`
	TipoAlimento *wireFoodType `json:"tipo_alimento"`
}

type wireParty struct {
	ID       json.Number `json:"id"`
	Username string      `json:"username"`
	Email    string      `json:"email"`
}

func (w wireDonation) toDonation() core.Donation {
	donation := core.Donation{
		ID:         w.ID.String(),
		DocumentID: w.DocumentID,
		Status:     w.StatusDonation,
		Items:      make([]core.DonationItem, 0, len(w.ItemDoado)),
		CreatedAt:  parseWireTime(w.CreatedAt),
		UpdatedAt:  parseWireTime(w.UpdatedAt),
	}
	for _, item := range w.ItemDoado {
		mapped := core.DonationItem{
			ID:       item.ID.String(),
			Quantity: item.Quantidade,
		}
		if item.TipoAlimento != nil {
			mapped.FoodType = item.TipoAlimento.Nome
			mapped.Unit = item.TipoAlimento.UnidadeMedida
		}
		donation.Items = append(donation.Items, mapped)
	}
	if w.Donor != nil {
		donation.Donor = w.Donor.toParty()
	}
	if w.OngRecipient != nil {
		donation.Recipient = w.OngRecipient.toParty()
	}
	return donation
}

func (w *wireParty) toParty() *core.Party {
	return &core.Party{
		ID:       w.ID.String(),
		Username: w.Username,
		Email:    w.Email,
	}
}

func parseWireTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	parsed, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return parsed
}
