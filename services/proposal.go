package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"time"
)

// Status is the lifecycle state of a proposal.
type Status string

const (
	StatusDraft    Status = "draft"
	StatusSent     Status = "sent"
	StatusAccepted Status = "accepted"
	StatusExpired  Status = "expired"
)

// AllStatuses returns the lifecycle states in their natural order.
func AllStatuses() []Status {
	return []Status{StatusDraft, StatusSent, StatusAccepted, StatusExpired}
}

func (s Status) Valid() bool {
	return slices.Contains(AllStatuses(), s)
}

const dateLayout = "2006-01-02"

// Date is a calendar day serialized as YYYY-MM-DD. The zero value means "not set".
type Date struct {
	time.Time
}

// NewDate truncates t to its calendar day.
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses YYYY-MM-DD. An empty string yields the zero Date.
func ParseDate(s string) (Date, error) {
	if s == "" {
		return Date{}, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{t}, nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	// Accept full timestamps as sent by date pickers.
	if len(s) > len(dateLayout) {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			*d = NewDate(t)
			return nil
		}
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// CompanyDetails is the denormalized issuer snapshot printed on documents.
type CompanyDetails struct {
	Name               string `json:"name"`
	Address            string `json:"address"`
	Phone              string `json:"phone"`
	Email              string `json:"email"`
	BankAccount        string `json:"bankAccount"`
	RoutingCode        string `json:"routingCode"`
	TaxID              string `json:"taxId"`
	ClassificationCode string `json:"classificationCode"`
}

// DeliveryTerms feed the fixed notes block of the RFQ document.
type DeliveryTerms struct {
	PaymentTerms string `json:"paymentTerms"`
	DeliveryTime string `json:"deliveryTime"`
	Incoterms    string `json:"incoterms"`
}

type Signatory struct {
	Title string `json:"title"`
	Name  string `json:"name"`
}

// Proposal is the aggregate root. Subtotal, TotalDiscount, TaxAmount and
// GrandTotal are caches written by PrepareForSave and never read as input.
type Proposal struct {
	ID             string       `json:"id"`
	ProposalNumber string       `json:"proposalNumber"`
	TemplateType   TemplateType `json:"templateType"`

	ClientID       string         `json:"clientId"`
	ClientName     string         `json:"clientName"`
	ClientEmail    string         `json:"clientEmail"`
	Company        string         `json:"company"`
	CompanyDetails CompanyDetails `json:"companyDetails"`

	// Discount is range-checked but not applied by the calculator.
	Discount            float64       `json:"discount"`
	TaxRate             float64       `json:"taxRate"`
	DeliveryTerms       DeliveryTerms `json:"deliveryTerms"`
	AuthorizedSignatory Signatory     `json:"authorizedSignatory"`

	ProposalTitle  string `json:"proposalTitle"`
	Terms          string `json:"terms"`
	Notes          string `json:"notes"`
	DocumentNumber string `json:"documentNumber"`

	Status       Status `json:"status"`
	ProposalDate Date   `json:"proposalDate"`
	ValidUntil   Date   `json:"validUntil"`

	Subtotal      float64 `json:"subtotal"`
	TotalDiscount float64 `json:"totalDiscount"`
	TaxAmount     float64 `json:"taxAmount"`
	GrandTotal    float64 `json:"grandTotal"`

	Products []CommercialItem `json:"products"`
	RFQItems []TechnicalItem  `json:"rfqItems"`
}

// ActiveItemCount returns the size of the collection the template works on.
func (p *Proposal) ActiveItemCount() int {
	traits, ok := p.TemplateType.Traits()
	if !ok {
		return 0
	}
	if traits.ActiveCollection == CollectionRFQItems {
		return len(p.RFQItems)
	}
	return len(p.Products)
}

// Clone returns a deep copy so callers can derive a saved snapshot without
// touching the editor's in-memory model.
func (p *Proposal) Clone() *Proposal {
	c := *p
	if p.Products != nil {
		c.Products = make([]CommercialItem, len(p.Products))
		copy(c.Products, p.Products)
	}
	if p.RFQItems != nil {
		c.RFQItems = make([]TechnicalItem, len(p.RFQItems))
		for i, item := range p.RFQItems {
			c.RFQItems[i] = item.CloneWithID(item.ID)
		}
	}
	return &c
}
