package catalog

import "github.com/yeo0314/JEPK-creation/internal/domain"

// Default is the shop's product list.
func Default() *Catalog {
	return New(defaultProducts)
}

var defaultProducts = []domain.Product{
	{
		ID:          "1",
		Name:        "Bonnet Douceur",
		Description: "Bonnet en laine mérinos crocheté main, doublé polaire.",
		Price:       7500,
		Category:    "accessoires",
		Emoji:       "🧶",
		Images:      []string{"/images/bonnet-douceur.jpg"},
		Stock:       12,
		Featured:    true,
		Variants: []domain.Variant{
			{Color: "Rose poudré", ColorHex: "#F4C2C2", Stock: 5, Images: []string{"/images/bonnet-douceur-rose.jpg"}},
			{Color: "Bleu nuit", ColorHex: "#1F2A44", PriceAdjustment: 500, Stock: 7, Images: []string{"/images/bonnet-douceur-bleu.jpg"}},
		},
	},
	{
		ID:          "2",
		Name:        "Écharpe Cocon",
		Description: "Grande écharpe torsadée, idéale pour l'harmattan.",
		Price:       12000,
		Category:    "accessoires",
		Emoji:       "🧣",
		Images:      []string{"/images/echarpe-cocon.jpg"},
		Stock:       6,
		Variants: []domain.Variant{
			{Color: "Crème", ColorHex: "#FFFDD0", Stock: 3},
			{Color: "Terracotta", ColorHex: "#E2725B", PriceAdjustment: 1000, Stock: 3},
		},
	},
	{
		ID:          "3",
		Name:        "Lapin Amigurumi",
		Description: "Doudou lapin en coton bio, yeux brodés sans danger pour bébé.",
		Price:       9000,
		Category:    "amigurumi",
		Emoji:       "🐰",
		Images:      []string{"/images/lapin.jpg"},
		Stock:       4,
		Featured:    true,
	},
	{
		ID:          "4",
		Name:        "Sac Cabas Soleil",
		Description: "Sac cabas en raphia crocheté, anses en cuir.",
		Price:       18500,
		Category:    "sacs",
		Emoji:       "👜",
		Images:      []string{"/images/cabas-soleil.jpg"},
		Stock:       3,
		Featured:    true,
		Variants: []domain.Variant{
			{Color: "Naturel", ColorHex: "#D8C3A5", Stock: 2},
			{Color: "Jaune", ColorHex: "#F6C945", PriceAdjustment: 1500, Stock: 1},
		},
	},
	{
		ID:          "5",
		Name:        "Dessous de verre (x4)",
		Description: "Set de quatre dessous de verre en coton recyclé.",
		Price:       4000,
		Category:    "maison",
		Emoji:       "🏠",
		Images:      []string{"/images/dessous-de-verre.jpg"},
		Stock:       20,
	},
	{
		ID:          "6",
		Name:        "Couverture Bébé Nuage",
		Description: "Couverture granny squares pour berceau, lavable en machine.",
		Price:       25000,
		Category:    "maison",
		Emoji:       "☁️",
		Images:      []string{"/images/couverture-nuage.jpg"},
		Stock:       2,
		Featured:    true,
	},
	{
		ID:          "7",
		Name:        "Ourson Amigurumi",
		Description: "Petit ourson à câliner, rembourrage hypoallergénique.",
		Price:       8500,
		Category:    "amigurumi",
		Emoji:       "🧸",
		Images:      []string{"/images/ourson.jpg"},
		Stock:       5,
	},
}
