// Package stock defines the stock record shared by the loader, the storage
// layer and the tag catalog.
package stock

import "strings"

// Stock is a single listed company as held by the host collection.
type Stock struct {
	Code               string   `json:"stock_code"`
	Name               string   `json:"stock_name"`
	CompanyName        string   `json:"company_name"`
	Exchange           string   `json:"exchange"`
	BusinessScope      string   `json:"business_scope"`
	CustomTags         string   `json:"custom_tags"`
	OfficialWebsite    string   `json:"official_website"`
	CompanyDescription string   `json:"company_description"`
	UnderwritingMethod string   `json:"underwriting_method"`
	CreatedAt          string   `json:"created_at"`
	UpdatedAt          string   `json:"updated_at"`
	SectorsConcepts    []string `json:"sectors_concepts"`
}

// HasTags reports whether the record carries a custom tag string at all.
// Whitespace-only strings still count, the parser decides what they mean.
func (s Stock) HasTags() bool {
	return s.CustomTags != ""
}

// Key identifies a stock across exchanges.
func (s Stock) Key() string {
	return strings.ToUpper(s.Code) + "|" + strings.ToUpper(s.Exchange)
}
