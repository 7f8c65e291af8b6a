package services

import (
	"fmt"
	"strings"

	"github.com/pocketbase/pocketbase/core"
)

// CompanyProfiles maps an issuing-company key to the details printed on its
// documents.
type CompanyProfiles map[string]CompanyDetails

// Resolve looks up a profile by key, case-insensitively.
func (c CompanyProfiles) Resolve(key string) (CompanyDetails, bool) {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return CompanyDetails{}, false
	}
	d, ok := c[key]
	return d, ok
}

// LoadCompanyProfiles reads every record of the companies collection.
func LoadCompanyProfiles(app core.App) (CompanyProfiles, error) {
	records, err := app.FindAllRecords("companies")
	if err != nil {
		return nil, fmt.Errorf("load company profiles: %w", err)
	}

	profiles := make(CompanyProfiles, len(records))
	for _, r := range records {
		profiles[strings.ToLower(r.GetString("key"))] = CompanyDetails{
			Name:               r.GetString("name"),
			Address:            r.GetString("address"),
			Phone:              r.GetString("phone"),
			Email:              r.GetString("email"),
			BankAccount:        r.GetString("bank_account"),
			RoutingCode:        r.GetString("routing_code"),
			TaxID:              r.GetString("tax_id"),
			ClassificationCode: r.GetString("classification_code"),
		}
	}
	return profiles, nil
}
