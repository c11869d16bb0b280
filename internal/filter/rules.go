package filter

// RuleGroup is a named group of exclusion patterns. A title matching any
// pattern in any active group is dropped as off-topic. Patterns are
// lowercase substrings; matching is always case-insensitive.
type RuleGroup struct {
	Category string
	Patterns []string
}

// RuleSet is an ordered, versionable collection of exclusion rule groups.
// Base groups apply to every keyword; family groups apply only when the
// keyword belongs to the named product family.
type RuleSet struct {
	Base   []RuleGroup
	Family map[string][]RuleGroup
}

// DefaultRules returns the built-in rule set covering the marketplaces'
// usual off-topic categories.
func DefaultRules() RuleSet {
	return RuleSet{
		Base: []RuleGroup{
			{
				Category: "vehicles",
				Patterns: []string{
					"car for sale", "vauxhall", "volkswagen", "toyota", "ford focus",
					"motorbike", "scooter", "tractor", "trailer", "caravan", "camper",
					"alloy wheels", "tyres", "bumper", "gearbox",
				},
			},
			{
				Category: "real-estate",
				Patterns: []string{
					"house for sale", "apartment for", "to rent", "to let",
					"site for sale", "acre", "bedsit", "holiday home",
				},
			},
			{
				Category: "jobs-services",
				Patterns: []string{
					"wanted:", "looking for work", "repair service", "we fix",
					"unlock service", "cleaning service", "vacancy",
				},
			},
			{
				Category: "pets",
				Patterns: []string{
					"puppy", "puppies", "kitten", "kittens", "pup for sale",
					"cocker spaniel", "terrier", "labrador",
				},
			},
			{
				Category: "generic-accessories",
				Patterns: []string{
					"box only", "for parts", "spare parts", "replica", "sticker",
					"poster", "manual only",
				},
			},
		},
		Family: map[string][]RuleGroup{
			"phone": {
				{
					Category: "phone-accessories",
					Patterns: []string{
						"case", "cover", "screen protector", "tempered glass",
						"charger", "charging cable", "dock", "holder",
						"tablet", "ipad", "airpods", "earphones", "headphones",
					},
				},
			},
		},
	}
}
