package catalog

// DefaultProducts returns a fresh copy of the built-in catalog.
func DefaultProducts() []Product {
	return []Product{
		{
			ID:          1,
			Name:        "تمر عجوة المدينة الفاخرة",
			Description: "عجوة المدينة الفاخرة السوداء المباركة، تتميز ببنيتها العصرية وطعمها المتوازن، غنية بالفوائد الصحية.",
			Price:       "185 ج.م / كجم",
			Image:       "/images/product-1.png",
			Category:    CategoryLuxury,
		},
		{
			ID:          2,
			Name:        "تمر سكري مفتل ملكي",
			Description: "سكري مفتل ملكي بلونه وقوامه الذهبي الهش المكرمل. حلاوة طبيعية تذوب في الفم.",
			Price:       "145 ج.م / كجم",
			Image:       "/images/product-2.png",
			Category:    CategoryLuxury,
		},
		{
			ID:          3,
			Name:        "تمر مجدول جامبو",
			Description: "ملك التمور بحجمه الكبير ومذاقه الغني. قوام لحمي ناعم ومذاق يشبه الكراميل، مثالي للضيافة الفاخرة.",
			Price:       "135 ج.م / كجم",
			Image:       "/images/product-3.png",
			Category:    CategoryLuxury,
		},
		{
			ID:          4,
			Name:        "تمر سكري محشو كاجو",
			Description: "تمر سكري فاخر محشو كاجو، غني بالفوائد والفيتامينات ومضادات الأكسدة، منشط طبيعي.",
			Price:       "565 ج.م / كجم",
			Image:       "/images/product-4.png",
			Category:    CategoryStuffed,
		},
		{
			ID:          5,
			Name:        "تمر سكري محشو لوز",
			Description: "تمر سكري فاخر محشو اللوز، غني بالفيتامينات ومضادات الأكسدة، ومولد للطاقة.",
			Price:       "565 ج.م / كجم",
			Image:       "/images/product-5.png",
			Category:    CategoryStuffed,
		},
		{
			ID:          6,
			Name:        "تمر سكري ملكي محشو بندق",
			Description: "تمر سكري ملكي محشو بندق ومغلف بالشوكولاتة البيضاء، غني بالفيتامينات ومضادات الأكسدة، ومولد للطاقة ومنشط طبيعي.",
			Price:       "665 ج.م / كجم",
			Image:       "/images/product-6.png",
			Category:    CategoryStuffed,
		},
	}
}

// DefaultSettings returns the built-in store settings.
func DefaultSettings() Settings {
	return Settings{
		DeliveryRates: DeliveryRates{
			Cairo:    60,
			Giza:     60,
			October:  65,
			Haram:    65,
			Rehab:    70,
			Madinaty: 70,
			Ismailia: 75,
			Alex:     90,
			Tanta:    90,
			Mansoura: 90,
			Others:   100,
		},
		DiscountPercentage: 25,
		IsDiscountActive:   false,
	}
}
