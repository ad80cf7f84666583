// Package billing manages the commercial side of the platform: clients,
// their subscriptions, and the invoices raised against them. Billing
// records are never public.
package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/meridian-travel/meridian/internal/entity"
	"github.com/meridian-travel/meridian/internal/shared"
)

// Client is a paying organisation.
type Client struct {
	entity.Meta
	CompanyName string `json:"companyName"`
	Email       string `json:"email"`
	Phone       string `json:"phone,omitempty"`
	Country     string `json:"country"`
}

func (c *Client) Visibility() shared.Visibility {
	return shared.VisibilityPrivate
}

// Subscription plans and states.
const (
	PlanStarter    = "starter"
	PlanPro        = "pro"
	PlanEnterprise = "enterprise"

	SubActive   = "active"
	SubPastDue  = "past_due"
	SubCanceled = "canceled"
)

// Subscription ties a client to a plan.
type Subscription struct {
	entity.Meta
	ClientID     uuid.UUID `json:"clientId"`
	Plan         string    `json:"plan"`
	Status       string    `json:"status"`
	MonthlyPrice float64   `json:"monthlyPrice"`
	StartedAt    time.Time `json:"startedAt"`
	RenewsAt     time.Time `json:"renewsAt"`
}

func (s *Subscription) Visibility() shared.Visibility {
	return shared.VisibilityPrivate
}

// Invoice states.
const (
	InvoiceDraft  = "draft"
	InvoiceIssued = "issued"
	InvoicePaid   = "paid"
	InvoiceVoid   = "void"
)

// Invoice is one bill raised against a client.
type Invoice struct {
	entity.Meta
	ClientID       uuid.UUID  `json:"clientId"`
	SubscriptionID *uuid.UUID `json:"subscriptionId,omitempty"`
	Number         string     `json:"number"`
	Amount         float64    `json:"amount"`
	Currency       string     `json:"currency"`
	Status         string     `json:"status"`
	IssuedAt       time.Time  `json:"issuedAt"`
	DueAt          time.Time  `json:"dueAt"`
	PaidAt         *time.Time `json:"paidAt,omitempty"`
}

func (i *Invoice) Visibility() shared.Visibility {
	return shared.VisibilityPrivate
}

// Relational mappings consumed by the generic store.
var (
	ClientTable = entity.Table[*Client]{
		Name:          "billing_clients",
		Columns:       []string{"company_name", "email", "phone", "country"},
		SearchColumns: []string{"company_name", "email"},
		DefaultOrder:  "company_name",
		Scan: func(row pgx.CollectableRow) (*Client, error) {
			var c Client
			err := row.Scan(
				&c.ID, &c.CreatedAt, &c.CreatedBy, &c.UpdatedAt, &c.UpdatedBy, &c.DeletedAt, &c.DeletedBy,
				&c.CompanyName, &c.Email, &c.Phone, &c.Country,
			)
			return &c, err
		},
		Values: func(c *Client) []any {
			return []any{c.CompanyName, c.Email, c.Phone, c.Country}
		},
	}

	SubscriptionTable = entity.Table[*Subscription]{
		Name:         "billing_subscriptions",
		Columns:      []string{"client_id", "plan", "status", "monthly_price", "started_at", "renews_at"},
		DefaultOrder: "started_at DESC",
		Scan: func(row pgx.CollectableRow) (*Subscription, error) {
			var s Subscription
			err := row.Scan(
				&s.ID, &s.CreatedAt, &s.CreatedBy, &s.UpdatedAt, &s.UpdatedBy, &s.DeletedAt, &s.DeletedBy,
				&s.ClientID, &s.Plan, &s.Status, &s.MonthlyPrice, &s.StartedAt, &s.RenewsAt,
			)
			return &s, err
		},
		Values: func(s *Subscription) []any {
			return []any{s.ClientID, s.Plan, s.Status, s.MonthlyPrice, s.StartedAt, s.RenewsAt}
		},
	}

	InvoiceTable = entity.Table[*Invoice]{
		Name:          "billing_invoices",
		Columns:       []string{"client_id", "subscription_id", "number", "amount", "currency", "status", "issued_at", "due_at", "paid_at"},
		SearchColumns: []string{"number"},
		DefaultOrder:  "issued_at DESC",
		Scan: func(row pgx.CollectableRow) (*Invoice, error) {
			var i Invoice
			err := row.Scan(
				&i.ID, &i.CreatedAt, &i.CreatedBy, &i.UpdatedAt, &i.UpdatedBy, &i.DeletedAt, &i.DeletedBy,
				&i.ClientID, &i.SubscriptionID, &i.Number, &i.Amount, &i.Currency, &i.Status, &i.IssuedAt, &i.DueAt, &i.PaidAt,
			)
			return &i, err
		},
		Values: func(i *Invoice) []any {
			return []any{i.ClientID, i.SubscriptionID, i.Number, i.Amount, i.Currency, i.Status, i.IssuedAt, i.DueAt, i.PaidAt}
		},
	}
)
