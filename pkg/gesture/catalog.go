// Package gesture matches finalized model speech against a static
// mudra catalog and tracks the currently displayed validation with a
// bounded lifetime.
package gesture

// Mudra is one catalog entry. Catalog order is significant: when a
// text mentions several mudras, the earliest declared entry wins.
type Mudra struct {
	Name       string
	Tier       string
	ColorToken string
	Power      int
}

// Catalog is the fixed set of recognized mudras, in declaration order.
var Catalog = []Mudra{
	{Name: "anjali", Tier: "foundation", ColorToken: "gold", Power: 12},
	{Name: "gyan", Tier: "foundation", ColorToken: "azure", Power: 10},
	{Name: "dhyana", Tier: "foundation", ColorToken: "violet", Power: 14},
	{Name: "prana", Tier: "vital", ColorToken: "ember", Power: 22},
	{Name: "apana", Tier: "vital", ColorToken: "moss", Power: 20},
	{Name: "abhaya", Tier: "vital", ColorToken: "silver", Power: 24},
	{Name: "varada", Tier: "adept", ColorToken: "rose", Power: 31},
	{Name: "garuda", Tier: "adept", ColorToken: "storm", Power: 35},
	{Name: "kalesvara", Tier: "master", ColorToken: "obsidian", Power: 44},
	{Name: "mahasirs", Tier: "master", ColorToken: "aurora", Power: 48},
}

// intuitiveVocabulary triggers the unbound fallback when no catalog
// name appears in the text.
var intuitiveVocabulary = []string{
	"shape", "form", "movement", "gesture", "energy", "power",
}
