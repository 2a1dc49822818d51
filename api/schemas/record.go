package schemas

import "strings"

// -- Order Record --

// Record is the order extracted upstream and injected into a delivery form.
// All fields are plain strings and absence is always the empty string, never
// a null, so downstream string operations need no nil checks. The engine
// treats records as immutable input.
type Record struct {
	Code        string `json:"code"`
	SenderName  string `json:"senderName"`
	PhoneNumber string `json:"phoneNumber"`
	Province    string `json:"province"`
	Price       string `json:"price"`
	CompanyName string `json:"companyName"`
	Notes       string `json:"notes,omitempty"`
}

// IsEmpty reports whether the record carries no data at all.
func (r Record) IsEmpty() bool {
	return r.Code == "" && r.SenderName == "" && r.PhoneNumber == "" &&
		r.Province == "" && r.Price == "" && r.CompanyName == "" && r.Notes == ""
}

// Address synthesizes the address string used when a form exposes a single
// free-form address field: the province, extended with the notes when
// present.
func (r Record) Address() string {
	if strings.TrimSpace(r.Notes) == "" {
		return r.Province
	}
	return r.Province + " - " + r.Notes
}
