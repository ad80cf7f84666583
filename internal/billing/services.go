package billing

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/meridian-travel/meridian/internal/access"
	"github.com/meridian-travel/meridian/internal/entity"
	"github.com/meridian-travel/meridian/internal/platform/httpx"
	"github.com/meridian-travel/meridian/internal/shared"
)

// Deps is shared by the three billing service constructors.
type Deps struct {
	Access    *access.Evaluator
	Validator *validator.Validate
	Logger    *slog.Logger
	Audit     entity.Recorder
}

// ---------------------------------------------------------------------------
// Clients

type ClientCreateInput struct {
	CompanyName string `json:"companyName" validate:"required,min=2,max=200"`
	Email       string `json:"email" validate:"required,email,max=254"`
	Phone       string `json:"phone" validate:"max=40"`
	Country     string `json:"country" validate:"required,min=2,max=80"`
}

type ClientUpdateInput struct {
	CompanyName *string `json:"companyName" validate:"omitempty,min=2,max=200"`
	Email       *string `json:"email" validate:"omitempty,email,max=254"`
	Phone       *string `json:"phone" validate:"omitempty,max=40"`
	Country     *string `json:"country" validate:"omitempty,min=2,max=80"`
}

type ClientSearchInput struct {
	shared.PageRequest
	Query   string `json:"query" validate:"max=200"`
	Country string `json:"country" validate:"max=80"`
}

type ClientService = entity.Service[*Client, ClientCreateInput, ClientUpdateInput, ClientSearchInput]

// ClientHandler serves the client REST surface.
type ClientHandler = entity.Handler[*Client, ClientCreateInput, ClientUpdateInput, ClientSearchInput]

func NewClientService(store entity.Store[*Client], deps Deps) *ClientService {
	return entity.NewService(entity.Config[*Client, ClientCreateInput, ClientUpdateInput, ClientSearchInput]{
		Entity:    shared.EntityClient,
		Store:     store,
		Access:    deps.Access,
		Validator: deps.Validator,
		Logger:    deps.Logger,
		Audit:     deps.Audit,
		New: func(in ClientCreateInput) *Client {
			return &Client{CompanyName: in.CompanyName, Email: in.Email, Phone: in.Phone, Country: in.Country}
		},
		Apply: func(c *Client, in ClientUpdateInput) {
			if in.CompanyName != nil {
				c.CompanyName = *in.CompanyName
			}
			if in.Email != nil {
				c.Email = *in.Email
			}
			if in.Phone != nil {
				c.Phone = *in.Phone
			}
			if in.Country != nil {
				c.Country = *in.Country
			}
		},
		Predicate: func(in ClientSearchInput) entity.Filter {
			filter := entity.Filter{Search: in.Query}
			if in.Country != "" {
				filter = filter.Where("country", entity.OpEq, in.Country)
			}
			return filter
		},
	})
}

func ParseClientSearch(r *http.Request) (ClientSearchInput, error) {
	return ClientSearchInput{
		PageRequest: httpx.ParsePage(r),
		Query:       r.URL.Query().Get("q"),
		Country:     r.URL.Query().Get("country"),
	}, nil
}

// ---------------------------------------------------------------------------
// Subscriptions

type SubscriptionCreateInput struct {
	ClientID     uuid.UUID `json:"clientId" validate:"required"`
	Plan         string    `json:"plan" validate:"required,oneof=starter pro enterprise"`
	MonthlyPrice float64   `json:"monthlyPrice" validate:"gte=0,lte=1000000"`
	StartedAt    time.Time `json:"startedAt" validate:"required"`
	RenewsAt     time.Time `json:"renewsAt" validate:"required,gtfield=StartedAt"`
}

type SubscriptionUpdateInput struct {
	Plan         *string    `json:"plan" validate:"omitempty,oneof=starter pro enterprise"`
	Status       *string    `json:"status" validate:"omitempty,oneof=active past_due canceled"`
	MonthlyPrice *float64   `json:"monthlyPrice" validate:"omitempty,gte=0,lte=1000000"`
	RenewsAt     *time.Time `json:"renewsAt"`
}

type SubscriptionSearchInput struct {
	shared.PageRequest
	ClientID uuid.UUID `json:"clientId"`
	Status   string    `json:"status" validate:"omitempty,oneof=active past_due canceled"`
	Plan     string    `json:"plan" validate:"omitempty,oneof=starter pro enterprise"`
}

type SubscriptionService = entity.Service[*Subscription, SubscriptionCreateInput, SubscriptionUpdateInput, SubscriptionSearchInput]

// SubscriptionHandler serves the subscription REST surface.
type SubscriptionHandler = entity.Handler[*Subscription, SubscriptionCreateInput, SubscriptionUpdateInput, SubscriptionSearchInput]

func NewSubscriptionService(store entity.Store[*Subscription], deps Deps) *SubscriptionService {
	return entity.NewService(entity.Config[*Subscription, SubscriptionCreateInput, SubscriptionUpdateInput, SubscriptionSearchInput]{
		Entity:    shared.EntitySubscription,
		Store:     store,
		Access:    deps.Access,
		Validator: deps.Validator,
		Logger:    deps.Logger,
		Audit:     deps.Audit,
		New: func(in SubscriptionCreateInput) *Subscription {
			return &Subscription{
				ClientID:     in.ClientID,
				Plan:         in.Plan,
				Status:       SubActive,
				MonthlyPrice: in.MonthlyPrice,
				StartedAt:    in.StartedAt.UTC(),
				RenewsAt:     in.RenewsAt.UTC(),
			}
		},
		Apply: func(s *Subscription, in SubscriptionUpdateInput) {
			if in.Plan != nil {
				s.Plan = *in.Plan
			}
			if in.Status != nil {
				s.Status = *in.Status
			}
			if in.MonthlyPrice != nil {
				s.MonthlyPrice = *in.MonthlyPrice
			}
			if in.RenewsAt != nil {
				s.RenewsAt = in.RenewsAt.UTC()
			}
		},
		Predicate: func(in SubscriptionSearchInput) entity.Filter {
			var filter entity.Filter
			if in.ClientID != uuid.Nil {
				filter = filter.Where("client_id", entity.OpEq, in.ClientID)
			}
			if in.Status != "" {
				filter = filter.Where("status", entity.OpEq, in.Status)
			}
			if in.Plan != "" {
				filter = filter.Where("plan", entity.OpEq, in.Plan)
			}
			return filter
		},
	})
}

func ParseSubscriptionSearch(r *http.Request) (SubscriptionSearchInput, error) {
	q := r.URL.Query()
	in := SubscriptionSearchInput{
		PageRequest: httpx.ParsePage(r),
		Status:      q.Get("status"),
		Plan:        q.Get("plan"),
	}
	if v := q.Get("clientId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return in, err
		}
		in.ClientID = id
	}
	return in, nil
}

// ---------------------------------------------------------------------------
// Invoices

type InvoiceCreateInput struct {
	ClientID       uuid.UUID  `json:"clientId" validate:"required"`
	SubscriptionID *uuid.UUID `json:"subscriptionId"`
	Number         string     `json:"number" validate:"required,min=3,max=40"`
	Amount         float64    `json:"amount" validate:"required,gt=0,lte=10000000"`
	Currency       string     `json:"currency" validate:"required,iso4217"`
	IssuedAt       time.Time  `json:"issuedAt" validate:"required"`
	DueAt          time.Time  `json:"dueAt" validate:"required,gtefield=IssuedAt"`
}

type InvoiceUpdateInput struct {
	Status *string    `json:"status" validate:"omitempty,oneof=draft issued paid void"`
	DueAt  *time.Time `json:"dueAt"`
	PaidAt *time.Time `json:"paidAt"`
}

type InvoiceSearchInput struct {
	shared.PageRequest
	Query    string    `json:"query" validate:"max=200"`
	ClientID uuid.UUID `json:"clientId"`
	Status   string    `json:"status" validate:"omitempty,oneof=draft issued paid void"`
}

type InvoiceService = entity.Service[*Invoice, InvoiceCreateInput, InvoiceUpdateInput, InvoiceSearchInput]

// InvoiceHandler serves the invoice REST surface.
type InvoiceHandler = entity.Handler[*Invoice, InvoiceCreateInput, InvoiceUpdateInput, InvoiceSearchInput]

func NewInvoiceService(store entity.Store[*Invoice], deps Deps) *InvoiceService {
	return entity.NewService(entity.Config[*Invoice, InvoiceCreateInput, InvoiceUpdateInput, InvoiceSearchInput]{
		Entity:    shared.EntityInvoice,
		Store:     store,
		Access:    deps.Access,
		Validator: deps.Validator,
		Logger:    deps.Logger,
		Audit:     deps.Audit,
		New: func(in InvoiceCreateInput) *Invoice {
			return &Invoice{
				ClientID:       in.ClientID,
				SubscriptionID: in.SubscriptionID,
				Number:         in.Number,
				Amount:         in.Amount,
				Currency:       in.Currency,
				Status:         InvoiceDraft,
				IssuedAt:       in.IssuedAt.UTC(),
				DueAt:          in.DueAt.UTC(),
			}
		},
		Apply: func(i *Invoice, in InvoiceUpdateInput) {
			if in.Status != nil {
				i.Status = *in.Status
			}
			if in.DueAt != nil {
				i.DueAt = in.DueAt.UTC()
			}
			if in.PaidAt != nil {
				paid := in.PaidAt.UTC()
				i.PaidAt = &paid
			}
		},
		Predicate: func(in InvoiceSearchInput) entity.Filter {
			filter := entity.Filter{Search: in.Query}
			if in.ClientID != uuid.Nil {
				filter = filter.Where("client_id", entity.OpEq, in.ClientID)
			}
			if in.Status != "" {
				filter = filter.Where("status", entity.OpEq, in.Status)
			}
			return filter
		},
	})
}

func ParseInvoiceSearch(r *http.Request) (InvoiceSearchInput, error) {
	q := r.URL.Query()
	in := InvoiceSearchInput{
		PageRequest: httpx.ParsePage(r),
		Query:       q.Get("q"),
		Status:      q.Get("status"),
	}
	if v := q.Get("clientId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return in, err
		}
		in.ClientID = id
	}
	return in, nil
}
