package models

import "time"

// SiteSettings is a single upserted document driving the public site's
// static content and the bank-deposit instructions shown at checkout.
type SiteSettings struct {
	SiteName     string `json:"site_name" bson:"site_name"`
	HeroTitle    string `json:"hero_title,omitempty" bson:"hero_title,omitempty"`
	HeroText     string `json:"hero_text,omitempty" bson:"hero_text,omitempty"`
	ContactEmail string `json:"contact_email,omitempty" bson:"contact_email,omitempty"`
	ContactPhone string `json:"contact_phone,omitempty" bson:"contact_phone,omitempty"`
	Address      string `json:"address,omitempty" bson:"address,omitempty"`

	BankName          string `json:"bank_name,omitempty" bson:"bank_name,omitempty"`
	BankBranch        string `json:"bank_branch,omitempty" bson:"bank_branch,omitempty"`
	BankAccountName   string `json:"bank_account_name,omitempty" bson:"bank_account_name,omitempty"`
	BankAccountNumber string `json:"bank_account_number,omitempty" bson:"bank_account_number,omitempty"`

	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}
