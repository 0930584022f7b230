package models

import "time"

type Tier string

const (
	TierStandard   Tier = "standard"
	TierPremium    Tier = "premium"
	TierEnterprise Tier = "enterprise"
)

type Customer struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Tier             Tier       `json:"tier"`
	AccountAge       string     `json:"accountAge"`
	LastContact      *time.Time `json:"lastContact"`
	SentimentHistory string     `json:"sentimentHistory"`
	Language         string     `json:"language"`
	PreviousIssues   []string   `json:"previousIssues"`
}

// NewCustomer carries the caller-supplied fields of a customer. ID is only
// settable in code (demo seeding); API callers always get a generated id.
type NewCustomer struct {
	ID               string     `json:"-"`
	Name             string     `json:"name" binding:"required"`
	Tier             Tier       `json:"tier" binding:"omitempty,oneof=standard premium enterprise"`
	AccountAge       string     `json:"accountAge"`
	LastContact      *time.Time `json:"lastContact"`
	SentimentHistory string     `json:"sentimentHistory" binding:"omitempty,oneof=positive neutral negative frustrated"`
	Language         string     `json:"language"`
	PreviousIssues   []string   `json:"previousIssues"`
}

func (c Customer) Clone() Customer {
	c.PreviousIssues = append([]string{}, c.PreviousIssues...)
	if c.LastContact != nil {
		t := *c.LastContact
		c.LastContact = &t
	}
	return c
}
