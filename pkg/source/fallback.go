package source

import "github.com/unicornviz/unicornviz/pkg/record"

// fallbackCorpus returns the built-in rows served when no other source
// yields data. Kept tiny on purpose: it exists so the dashboard always
// has something to draw, not to be representative.
func fallbackCorpus() []record.Raw {
	return []record.Raw{
		{
			record.FieldName:        "OpenAI",
			record.FieldValuation:   157.0,
			record.FieldImpactScore: 95.0,
			record.FieldGrowthRate:  180.0,
			record.FieldSector:      "AI/ML",
			record.FieldFoundedYear: 2015,
			record.FieldCountry:     "USA",
			record.FieldStatus:      string(record.StatusHectocorn),
		},
		{
			record.FieldName:        "Anthropic",
			record.FieldValuation:   41.5,
			record.FieldImpactScore: 88.0,
			record.FieldGrowthRate:  220.0,
			record.FieldSector:      "AI/ML",
			record.FieldFoundedYear: 2021,
			record.FieldCountry:     "USA",
			record.FieldStatus:      string(record.StatusDecacorn),
		},
		{
			record.FieldName:        "Stripe",
			record.FieldValuation:   65.0,
			record.FieldImpactScore: 74.0,
			record.FieldGrowthRate:  150.0,
			record.FieldSector:      "Fintech",
			record.FieldFoundedYear: 2010,
			record.FieldCountry:     "USA",
			record.FieldStatus:      string(record.StatusDecacorn),
		},
		{
			record.FieldName:        "SpaceX",
			record.FieldValuation:   180.0,
			record.FieldImpactScore: 70.0,
			record.FieldGrowthRate:  130.0,
			record.FieldSector:      "Aerospace",
			record.FieldFoundedYear: 2002,
			record.FieldCountry:     "USA",
			record.FieldStatus:      string(record.StatusHectocorn),
		},
		{
			record.FieldName:        "Klarna",
			record.FieldValuation:   6.7,
			record.FieldImpactScore: 61.0,
			record.FieldGrowthRate:  95.0,
			record.FieldSector:      "Fintech",
			record.FieldFoundedYear: 2005,
			record.FieldCountry:     "Sweden",
			record.FieldStatus:      string(record.StatusUnicorn),
		},
	}
}
