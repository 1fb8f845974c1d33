package catalog

// Default returns the built-in brand list.
func Default() *Catalog {
	return &Catalog{
		Brands:  defaultBrands(),
		Counts:  defaultCounts(),
		Entries: map[string][]string{},
	}
}

func defaultCounts() map[string]int {
	return map[string]int{
		// Kingdom Climbing
		"Avalanches":     24,
		"Butcher Blocks": 20,
		"Chickenheads":   24,
		"Chubby Jugs":    15,
		// Teknik Handholds
		"Alto":          10,
		"Aphids":        10,
		"Arithmetics":   5,
		"Arnold Muscle": 1,
		"2":             3,
	}
}

func defaultBrands() []Brand {
	return []Brand{
		NewBrand("Kingdom Climbing", "Kingdom Climbing Logo", "Avalanches", "Butcher Blocks", "Chickenheads", "Chubby Jugs"),
		NewBrand("Teknik Handholds", "Teknik Handholds Logo", "Alto", "Aphids", "Arithmetics", "Arnold Muscle"),
		NewBrand("360 Holds", "360 Holds Logo", "1", "2", "3"),
		NewBrand("Blocz Climbing", "Blocz Logo", "1", "2", "3"),
		NewBrand("Blue Pill", "Blue Pill Logo", "1", "2", "3"),
		NewBrand("Capital Climbing", "Capital Climbing Logo", "1", "2", "3"),
		NewBrand("Cheeta", "Cheeta Logo", "1", "2", "3"),
		NewBrand("Decoy Climbing Holds", "Decoy Climbing Holds Logo", "4", "5", "6"),
		NewBrand("Dimension", "Dimension Logo", "4", "5", "6"),
		NewBrand("Element Climbing", "Element Climbing Logo", "7", "8", "9"),
		NewBrand("Enix Climbing", "Enix Climbing Logo", "10", "11", "12"),
		NewBrand("Entre Prises Climbing", "Entre Prises Climbing Logo", "10", "11", "12"),
		NewBrand("Escape Climbing", "Escape Climbing Logo", "10", "11", "12"),
		NewBrand("Expression Holds", "Expression Holds Logo", "10", "11", "12"),
		NewBrand("Flathold", "Flathold Logo", "13", "14", "15"),
		NewBrand("Kilter Grips", "Kilter Grips Logo", "16", "17", "18"),
		NewBrand("Morpho", "Morpho Logo", "16", "17", "18"),
		NewBrand("Pusher", "Pusher Logo", "16", "17", "18"),
		NewBrand("Rock Candy Holds", "Rock Candy Holds Logo", "16", "17", "18"),
		NewBrand("Simpl.", "Simpl. Logo", "16", "17", "18"),
		NewBrand("So iLL", "So iLL Logo", "16", "17", "18"),
		NewBrand("Squadra", "Squadra Logo", "16", "17", "18"),
		NewBrand("Thrive Climbing", "Thrive Climbing Logo", "16", "17", "18"),
		NewBrand("Trango:eGrips", "Trango:eGrips Logo", "16", "17", "18"),
		NewBrand("Unit", "Unit Logo", "16", "17", "18"),
		NewBrand("Working Class Climbing", "Working Class Climbing Logo", "16", "17", "18"),
	}
}
