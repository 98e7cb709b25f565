package core

import "time"

// User represents the authenticated principal's identity.
//
// This is the "identity" - who someone is. It is owned by the backend;
// the client only caches the fields it renders and routes on.
type User struct {
	ID         string `json:"id"`
	DocumentID string `json:"documentId,omitempty"`
	Email      string `json:"email"`
	Username   string `json:"username"`
	Document   string `json:"documento,omitempty"`
	Address    string `json:"address,omitempty"`
	Role       Role   `json:"role,omitempty"`
}

// UserUpdate is a partial identity update. Nil fields are left untouched.
type UserUpdate struct {
	Email    *string
	Username *string
	Document *string
	Address  *string
	Role     *Role
}

// Session is the in-memory authenticated principal.
//
// Invariant: IsAuthenticated implies User != nil and Credential != "".
type Session struct {
	User            *User
	Credential      string
	IsAuthenticated bool
}

// SessionRecord is the durable form of a session, the only shape a
// SessionRepository ever reads or writes.
type SessionRecord struct {
	User            *User  `json:"user"`
	Credential      string `json:"credential"`
	IsAuthenticated bool   `json:"isAuthenticated"`
}

// DonationStatus is the backend's status enum, carried verbatim on the wire.
type DonationStatus string

const (
	StatusPending   DonationStatus = "Pendente"
	StatusSent      DonationStatus = "Enviada"
	StatusDelivered DonationStatus = "Entregue"
)

// Valid reports whether s is one of the known donation statuses.
func (s DonationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusSent, StatusDelivered:
		return true
	}
	return false
}

// Party identifies a donor or recipient attached to a donation.
type Party struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// DonationItem is one food line item within a donation.
type DonationItem struct {
	ID       string `json:"id"`
	FoodType string `json:"foodType"`
	Unit     string `json:"unit"`
	Quantity int    `json:"quantity"`
}

// Donation is the view model for a single donation.
type Donation struct {
	ID         string         `json:"id"`
	DocumentID string         `json:"documentId,omitempty"`
	Status     DonationStatus `json:"status"`
	Items      []DonationItem `json:"items"`
	Donor      *Party         `json:"donor,omitempty"`
	Recipient  *Party         `json:"recipient,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

// Organization is a receiving ONG account as listed for donors.
type Organization struct {
	ID         string `json:"id"`
	DocumentID string `json:"documentId,omitempty"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Document   string `json:"documento,omitempty"`
}

// FoodType is a donatable food category with its unit of measure.
type FoodType struct {
	ID         string `json:"id"`
	DocumentID string `json:"documentId,omitempty"`
	Name       string `json:"name"`
	Unit       string `json:"unit"`
}

// SortKey is one ordering criterion. Callers pass keys in priority order
// and adapters must preserve that order on the wire.
type SortKey struct {
	Field string
	Desc  bool
}

// ListQuery is the UI-side list request. PageIndex is 0-indexed; the wire
// boundary is 1-indexed and adapters translate.
type ListQuery struct {
	PageIndex int
	PageSize  int
	Sort      []SortKey
	Filters   map[string]string
	Populate  []string
}

// PageInfo describes the page a list result belongs to, 0-indexed.
type PageInfo struct {
	PageIndex int `json:"pageIndex"`
	PageSize  int `json:"pageSize"`
	PageCount int `json:"pageCount"`
	Total     int `json:"total"`
}

// DonationList is a page of donations plus its pagination metadata.
type DonationList struct {
	Items    []Donation `json:"items"`
	PageInfo PageInfo   `json:"pageInfo"`
}
