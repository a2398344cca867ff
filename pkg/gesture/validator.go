package gesture

import "strings"

// Validation is the outcome of matching model text. Intuitive marks
// the unbound variant, which carries no tier or power.
type Validation struct {
	Name       string
	Tier       string
	ColorToken string
	Power      int
	Intuitive  bool
}

// Validate matches text against the catalog, case-insensitively, by
// substring. The first entry in catalog declaration order wins,
// regardless of where its name appears in the text. When no catalog
// name matches but the text uses interpretive gesture language, an
// intuitive validation is returned. Otherwise nil.
func Validate(text string) *Validation {
	lower := strings.ToLower(text)
	for _, m := range Catalog {
		if strings.Contains(lower, m.Name) {
			return &Validation{
				Name:       m.Name,
				Tier:       m.Tier,
				ColorToken: m.ColorToken,
				Power:      m.Power,
			}
		}
	}
	for _, word := range intuitiveVocabulary {
		if strings.Contains(lower, word) {
			return &Validation{Name: "intuitive", Intuitive: true}
		}
	}
	return nil
}
