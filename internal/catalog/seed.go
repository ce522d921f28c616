package catalog

import (
	"context"
	"log"
	"time"

	"storefront/internal/country"
	"storefront/internal/models"
)

// SeedProducts returns the default catalogue: a representative slice of both
// country storefronts. Ratings and review counts are display seed values.
func SeedProducts() []models.Product {
	return []models.Product{
		{
			ID:          "ng-001",
			Name:        "Industrial Safety Helmet",
			Description: "ANSI-certified hard hat suitable for oil field and construction site use. UV-resistant shell with comfortable inner suspension system.",
			Price:       18500,
			Currency:    country.NGN,
			Country:     country.Nigeria,
			Category:    "Oil & Gas Supplies",
			InStock:     true,
			Featured:    true,
			Rating:      4.7,
			Reviews:     128,
			CreatedAt:   seedDate("2024-11-01"),
		},
		{
			ID:          "ng-002",
			Name:        "Steel-Toed Safety Boots",
			Description: "Heavy-duty protective footwear with puncture-resistant midsole and oil-resistant outsole. Meets ISO 20345 S3 standard.",
			Price:       42000,
			Currency:    country.NGN,
			Country:     country.Nigeria,
			Category:    "Oil & Gas Supplies",
			InStock:     true,
			Rating:      4.5,
			Reviews:     84,
			CreatedAt:   seedDate("2024-11-10"),
		},
		{
			ID:          "ng-003",
			Name:        "Portland Cement (50kg Bag)",
			Description: "High-grade Portland cement for structural concrete, block work, and plastering.",
			Price:       9800,
			Currency:    country.NGN,
			Country:     country.Nigeria,
			Category:    "Construction Materials",
			InStock:     true,
			Featured:    true,
			Rating:      4.8,
			Reviews:     210,
			CreatedAt:   seedDate("2024-10-20"),
		},
		{
			ID:          "ng-011",
			Name:        "Gas Leak Detector",
			Description: "Portable combustible gas sniffer with audible and visual alarm. Detects LPG, methane, propane, and natural gas.",
			Price:       28500,
			Currency:    country.NGN,
			Country:     country.Nigeria,
			Category:    "Oil & Gas Supplies",
			InStock:     true,
			Featured:    true,
			Rating:      4.6,
			Reviews:     77,
			CreatedAt:   seedDate("2024-11-14"),
		},
		{
			ID:          "ng-012",
			Name:        "Chemical Resistant Gloves (5-Pack)",
			Description: "Heavy-duty nitrile gloves rated for petroleum, acids, and solvents. Extended 12-inch cuff for forearm protection.",
			Price:       12500,
			Currency:    country.NGN,
			Country:     country.Nigeria,
			Category:    "Oil & Gas Supplies",
			InStock:     true,
			Rating:      4.4,
			Reviews:     65,
			CreatedAt:   seedDate("2024-11-05"),
		},
		{
			ID:          "ca-001",
			Name:        "Diamond Core Drill Bit (150mm)",
			Description: "Professional-grade diamond core bit for concrete, granite, and masonry. Laser-welded segments for long life.",
			Price:       189,
			Currency:    country.CAD,
			Country:     country.Canada,
			Category:    "Mining Equipment",
			InStock:     true,
			Featured:    true,
			Rating:      4.7,
			Reviews:     92,
			CreatedAt:   seedDate("2024-11-01"),
		},
		{
			ID:          "ca-002",
			Name:        "Hydraulic Rock Splitter",
			Description: "Silent demolition tool for splitting rock and reinforced concrete without vibration or flying debris.",
			Price:       3499,
			Currency:    country.CAD,
			Country:     country.Canada,
			Category:    "Mining Equipment",
			InStock:     true,
			Rating:      4.6,
			Reviews:     41,
			CreatedAt:   seedDate("2024-11-08"),
		},
		{
			ID:          "ca-013",
			Name:        "Underground Mining Light (LED)",
			Description: "Cap-mounted LED lamp with 10,000-lux output and 16-hour battery life. Intrinsically safe rating for underground use.",
			Price:       219,
			Currency:    country.CAD,
			Country:     country.Canada,
			Category:    "Mining Equipment",
			InStock:     true,
			Rating:      4.5,
			Reviews:     58,
			CreatedAt:   seedDate("2024-11-12"),
		},
	}
}

func seedDate(value string) time.Time {
	t, _ := time.Parse("2006-01-02", value)
	return t
}

// EnsureSeed loads the default catalogue into an empty products collection.
// A non-empty collection is left untouched.
func EnsureSeed(ctx context.Context, store *MongoStore) error {
	count, err := store.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, product := range SeedProducts() {
		if err := store.Insert(ctx, product); err != nil {
			return err
		}
	}
	log.Println("[CATALOG] [INFO] seeded default products")
	return nil
}
