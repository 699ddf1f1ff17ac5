package relocate

import (
	"time"

	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/relocate"
)

// FallbackDataset returns the bundled static dataset served when the
// provider is unreachable. The content mirrors the provider's demo data
// for the Peak District region so the dashboard stays functional offline.
func FallbackDataset() *relocate.Dataset {
	return &relocate.Dataset{
		Properties: []relocate.Property{
			{
				ID:          "prop_001",
				Title:       "2 Bedroom Cottage in Peak District",
				Price:       "£450,000",
				Location:    "Bakewell, Derbyshire",
				Description: "Charming stone cottage with stunning Peak District views",
				Bedrooms:    2,
				Bathrooms:   1,
				Features:    []string{"Garden", "Parking", "Period Features", "Rural Views"},
			},
			{
				ID:          "prop_002",
				Title:       "3 Bedroom House in Hope Valley",
				Price:       "£325,000",
				Location:    "Hope, Derbyshire",
				Description: "Modern family home in the heart of Peak District",
				Bedrooms:    3,
				Bathrooms:   2,
				Features:    []string{"Garage", "Garden", "Modern Kitchen", "Close to Transport"},
			},
			{
				ID:          "prop_003",
				Title:       "4 Bedroom Farmhouse",
				Price:       "£650,000",
				Location:    "Hathersage, Peak District",
				Description: "Converted farmhouse with extensive grounds and panoramic views",
				Bedrooms:    4,
				Bathrooms:   3,
				Features:    []string{"Large Garden", "Original Features", "Parking", "Outbuildings"},
			},
		},
		Costs: relocate.CostComparison{
			HousingCostDifference: "+15%",
			LivingCosts:           "-20%",
			TransportSavings:      "+40%",
			Healthcare:            "Free NHS",
			Education:             "Excellent rural schools",
		},
		MovingCosts: relocate.MovingCosts{
			InternationalShipping:  "£8,000 - £12,000",
			VisaCosts:              "£1,500 - £3,000",
			TemporaryAccommodation: "£1,200/month",
			LegalFees:              "£2,000 - £4,000",
		},
		MovingTips: []relocate.TipGroup{
			{
				Category: "Documentation",
				Tips: []string{
					"Apply for UK visa 6 months in advance",
					"Get official document translations",
					"Register with HMRC for tax purposes",
				},
			},
			{
				Category: "Logistics",
				Tips: []string{
					"Book international shipping 2 months ahead",
					"Research pet import requirements",
					"Plan for climate differences - Peak District is much cooler!",
				},
			},
			{
				Category: "Integration",
				Tips: []string{
					"Join local community groups",
					"Register with GP and dentist immediately",
					"Explore Peak District hiking trails",
				},
			},
		},
		Source:    "fallback",
		FetchedAt: time.Now().UTC(),
	}
}
