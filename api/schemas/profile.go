package schemas

import "fmt"

// -- Company Profiles --

// ProfileField names one semantic field of a company's form together with
// the CSS selectors known to address it on that company's page.
type ProfileField struct {
	Name        string   `json:"name"`
	Selectors   []string `json:"selectors"`
	Description string   `json:"description,omitempty"`
}

// CompanyProfile describes one delivery company's order form. A profile is
// driven either by the generic heuristic engine, optionally narrowed with
// per-field selector hints, or by a hand-authored custom script — never
// both.
type CompanyProfile struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Fields         []ProfileField `json:"fields,omitempty"`
	FormURL        string         `json:"formUrl"`
	WebsiteURL     string         `json:"websiteUrl,omitempty"`
	IsCustomScript bool           `json:"isCustomScript"`
	AutofillScript string         `json:"autofillScript,omitempty"`
}

// Validate enforces the one-of invariant: a custom-script profile must carry
// a script and no field list, a generic profile must not carry a script.
func (p CompanyProfile) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("profile is missing an id")
	}
	if p.FormURL == "" {
		return fmt.Errorf("profile %q is missing formUrl", p.ID)
	}
	if p.IsCustomScript {
		if p.AutofillScript == "" {
			return fmt.Errorf("profile %q declares a custom script but autofillScript is empty", p.ID)
		}
		if len(p.Fields) > 0 {
			return fmt.Errorf("profile %q mixes a custom script with a field list", p.ID)
		}
		return nil
	}
	if p.AutofillScript != "" {
		return fmt.Errorf("profile %q carries autofillScript without isCustomScript", p.ID)
	}
	return nil
}
