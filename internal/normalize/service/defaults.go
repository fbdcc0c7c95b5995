package service

import "product-normalizer/internal/normalize/model"

// DefaultCatalog — встроенный каталог, если хранилище пустое или повреждено.
func DefaultCatalog() []model.ProductRecord {
	return []model.ProductRecord{
		// Fruits
		{ProductID: "PROD_001", NormalizedName: "plantain", Category: "Fruits", UnitOfMeasure: "kg", AliasesPrimary: []string{"banane plantain", "plantain mûr"}, AliasesSecondary: []string{"plantain", "plantain banana", "cooking banana"}},
		{ProductID: "PROD_002", NormalizedName: "banana", Category: "Fruits", UnitOfMeasure: "kg", AliasesPrimary: []string{"banane", "banane douce"}, AliasesSecondary: []string{"banana", "sweet banana"}},
		{ProductID: "PROD_003", NormalizedName: "orange", Category: "Fruits", UnitOfMeasure: "kg", AliasesPrimary: []string{"orange", "oranges"}, AliasesSecondary: []string{"orange", "oranges"}},
		{ProductID: "PROD_004", NormalizedName: "apple", Category: "Fruits", UnitOfMeasure: "kg", AliasesPrimary: []string{"pomme", "pommes"}, AliasesSecondary: []string{"apple", "apples"}},
		{ProductID: "PROD_005", NormalizedName: "mango", Category: "Fruits", UnitOfMeasure: "kg", AliasesPrimary: []string{"mangue", "mangues"}, AliasesSecondary: []string{"mango", "mangoes"}},
		{ProductID: "PROD_006", NormalizedName: "pineapple", Category: "Fruits", UnitOfMeasure: "piece", AliasesPrimary: []string{"ananas"}, AliasesSecondary: []string{"pineapple"}},
		{ProductID: "PROD_007", NormalizedName: "papaya", Category: "Fruits", UnitOfMeasure: "kg", AliasesPrimary: []string{"papaye", "pawpaw"}, AliasesSecondary: []string{"papaya", "pawpaw"}},
		{ProductID: "PROD_008", NormalizedName: "avocado", Category: "Fruits", UnitOfMeasure: "piece", AliasesPrimary: []string{"avocat", "avocats"}, AliasesSecondary: []string{"avocado", "avocados"}},
		{ProductID: "PROD_009", NormalizedName: "lemon", Category: "Fruits", UnitOfMeasure: "kg", AliasesPrimary: []string{"citron", "citrons"}, AliasesSecondary: []string{"lemon", "lemons"}},
		{ProductID: "PROD_010", NormalizedName: "watermelon", Category: "Fruits", UnitOfMeasure: "piece", AliasesPrimary: []string{"pastèque", "melon d'eau"}, AliasesSecondary: []string{"watermelon"}},
		// Vegetables
		{ProductID: "PROD_020", NormalizedName: "tomato", Category: "Vegetables", UnitOfMeasure: "kg", AliasesPrimary: []string{"tomate", "tomates"}, AliasesSecondary: []string{"tomato", "tomatoes"}},
		{ProductID: "PROD_021", NormalizedName: "onion", Category: "Vegetables", UnitOfMeasure: "kg", AliasesPrimary: []string{"oignon", "oignons"}, AliasesSecondary: []string{"onion", "onions"}},
		{ProductID: "PROD_022", NormalizedName: "garlic", Category: "Vegetables", UnitOfMeasure: "kg", AliasesPrimary: []string{"ail"}, AliasesSecondary: []string{"garlic"}},
		{ProductID: "PROD_023", NormalizedName: "carrot", Category: "Vegetables", UnitOfMeasure: "kg", AliasesPrimary: []string{"carotte", "carottes"}, AliasesSecondary: []string{"carrot", "carrots"}},
		{ProductID: "PROD_024", NormalizedName: "potato", Category: "Vegetables", UnitOfMeasure: "kg", AliasesPrimary: []string{"pomme de terre", "patate"}, AliasesSecondary: []string{"potato", "potatoes"}},
		{ProductID: "PROD_025", NormalizedName: "cassava", Category: "Vegetables", UnitOfMeasure: "kg", AliasesPrimary: []string{"manioc", "kwanga"}, AliasesSecondary: []string{"cassava", "manioc"}},
		{ProductID: "PROD_026", NormalizedName: "cabbage", Category: "Vegetables", UnitOfMeasure: "piece", AliasesPrimary: []string{"chou", "choux"}, AliasesSecondary: []string{"cabbage"}},
		{ProductID: "PROD_027", NormalizedName: "spinach", Category: "Vegetables", UnitOfMeasure: "bunch", AliasesPrimary: []string{"épinard", "épinards"}, AliasesSecondary: []string{"spinach"}},
		{ProductID: "PROD_028", NormalizedName: "pepper", Category: "Vegetables", UnitOfMeasure: "kg", AliasesPrimary: []string{"poivre", "piment", "poivron"}, AliasesSecondary: []string{"pepper", "bell pepper", "chili"}},
		{ProductID: "PROD_029", NormalizedName: "eggplant", Category: "Vegetables", UnitOfMeasure: "kg", AliasesPrimary: []string{"aubergine", "aubergines"}, AliasesSecondary: []string{"eggplant", "aubergine"}},
		{ProductID: "PROD_030", NormalizedName: "okra", Category: "Vegetables", UnitOfMeasure: "kg", AliasesPrimary: []string{"gombo", "gombos"}, AliasesSecondary: []string{"okra", "lady finger"}},
		// Proteins
		{ProductID: "PROD_040", NormalizedName: "chicken", Category: "Proteins", UnitOfMeasure: "kg", AliasesPrimary: []string{"poulet", "poulets"}, AliasesSecondary: []string{"chicken"}},
		{ProductID: "PROD_041", NormalizedName: "beef", Category: "Proteins", UnitOfMeasure: "kg", AliasesPrimary: []string{"boeuf", "viande de boeuf"}, AliasesSecondary: []string{"beef"}},
		{ProductID: "PROD_042", NormalizedName: "goat", Category: "Proteins", UnitOfMeasure: "kg", AliasesPrimary: []string{"chèvre", "viande de chèvre"}, AliasesSecondary: []string{"goat", "goat meat"}},
		{ProductID: "PROD_043", NormalizedName: "fish", Category: "Proteins", UnitOfMeasure: "kg", AliasesPrimary: []string{"poisson", "poissons"}, AliasesSecondary: []string{"fish"}},
		{ProductID: "PROD_044", NormalizedName: "egg", Category: "Proteins", UnitOfMeasure: "piece", AliasesPrimary: []string{"oeuf", "oeufs"}, AliasesSecondary: []string{"egg", "eggs"}},
		{ProductID: "PROD_045", NormalizedName: "tilapia", Category: "Proteins", UnitOfMeasure: "kg", AliasesPrimary: []string{"tilapia"}, AliasesSecondary: []string{"tilapia"}},
		{ProductID: "PROD_046", NormalizedName: "sardine", Category: "Proteins", UnitOfMeasure: "can", AliasesPrimary: []string{"sardine", "sardines"}, AliasesSecondary: []string{"sardine", "sardines"}},
		// Dairy
		{ProductID: "PROD_050", NormalizedName: "milk", Category: "Dairy", UnitOfMeasure: "L", AliasesPrimary: []string{"lait"}, AliasesSecondary: []string{"milk"}},
		{ProductID: "PROD_051", NormalizedName: "butter", Category: "Dairy", UnitOfMeasure: "g", AliasesPrimary: []string{"beurre"}, AliasesSecondary: []string{"butter"}},
		{ProductID: "PROD_052", NormalizedName: "cheese", Category: "Dairy", UnitOfMeasure: "g", AliasesPrimary: []string{"fromage"}, AliasesSecondary: []string{"cheese"}},
		{ProductID: "PROD_053", NormalizedName: "yogurt", Category: "Dairy", UnitOfMeasure: "piece", AliasesPrimary: []string{"yaourt", "yogourt"}, AliasesSecondary: []string{"yogurt", "yoghurt"}},
		// Grains
		{ProductID: "PROD_060", NormalizedName: "rice", Category: "Grains", UnitOfMeasure: "kg", AliasesPrimary: []string{"riz"}, AliasesSecondary: []string{"rice"}},
		{ProductID: "PROD_061", NormalizedName: "flour", Category: "Grains", UnitOfMeasure: "kg", AliasesPrimary: []string{"farine"}, AliasesSecondary: []string{"flour"}},
		{ProductID: "PROD_062", NormalizedName: "bread", Category: "Grains", UnitOfMeasure: "piece", AliasesPrimary: []string{"pain"}, AliasesSecondary: []string{"bread"}},
		{ProductID: "PROD_063", NormalizedName: "pasta", Category: "Grains", UnitOfMeasure: "kg", AliasesPrimary: []string{"pâtes", "spaghetti", "macaroni"}, AliasesSecondary: []string{"pasta", "spaghetti", "macaroni"}},
		{ProductID: "PROD_064", NormalizedName: "corn", Category: "Grains", UnitOfMeasure: "kg", AliasesPrimary: []string{"maïs"}, AliasesSecondary: []string{"corn", "maize"}},
		{ProductID: "PROD_065", NormalizedName: "beans", Category: "Grains", UnitOfMeasure: "kg", AliasesPrimary: []string{"haricots", "haricot"}, AliasesSecondary: []string{"beans", "kidney beans"}},
		{ProductID: "PROD_066", NormalizedName: "peanuts", Category: "Grains", UnitOfMeasure: "kg", AliasesPrimary: []string{"arachides", "cacahuètes"}, AliasesSecondary: []string{"peanuts", "groundnuts"}},
		// Oils
		{ProductID: "PROD_070", NormalizedName: "palm_oil", Category: "Oils", UnitOfMeasure: "L", AliasesPrimary: []string{"huile de palme", "huile rouge"}, AliasesSecondary: []string{"palm oil", "red oil"}},
		{ProductID: "PROD_071", NormalizedName: "vegetable_oil", Category: "Oils", UnitOfMeasure: "L", AliasesPrimary: []string{"huile végétale", "huile"}, AliasesSecondary: []string{"vegetable oil", "cooking oil"}},
		// Condiments
		{ProductID: "PROD_072", NormalizedName: "salt", Category: "Condiments", UnitOfMeasure: "kg", AliasesPrimary: []string{"sel"}, AliasesSecondary: []string{"salt"}},
		{ProductID: "PROD_073", NormalizedName: "sugar", Category: "Condiments", UnitOfMeasure: "kg", AliasesPrimary: []string{"sucre"}, AliasesSecondary: []string{"sugar"}},
		{ProductID: "PROD_074", NormalizedName: "tomato_paste", Category: "Condiments", UnitOfMeasure: "can", AliasesPrimary: []string{"concentré de tomate", "pâte de tomate"}, AliasesSecondary: []string{"tomato paste", "tomato puree"}},
		{ProductID: "PROD_075", NormalizedName: "mayonnaise", Category: "Condiments", UnitOfMeasure: "piece", AliasesPrimary: []string{"mayonnaise", "mayo"}, AliasesSecondary: []string{"mayonnaise", "mayo"}},
		{ProductID: "PROD_076", NormalizedName: "maggi", Category: "Condiments", UnitOfMeasure: "piece", AliasesPrimary: []string{"maggi", "cube maggi"}, AliasesSecondary: []string{"maggi", "bouillon cube"}},
		// Beverages
		{ProductID: "PROD_080", NormalizedName: "water", Category: "Beverages", UnitOfMeasure: "L", AliasesPrimary: []string{"eau", "eau minérale"}, AliasesSecondary: []string{"water", "mineral water"}},
		{ProductID: "PROD_081", NormalizedName: "soda", Category: "Beverages", UnitOfMeasure: "L", AliasesPrimary: []string{"soda", "boisson gazeuse"}, AliasesSecondary: []string{"soda", "soft drink"}},
		{ProductID: "PROD_082", NormalizedName: "juice", Category: "Beverages", UnitOfMeasure: "L", AliasesPrimary: []string{"jus", "jus de fruit"}, AliasesSecondary: []string{"juice", "fruit juice"}},
		{ProductID: "PROD_083", NormalizedName: "beer", Category: "Beverages", UnitOfMeasure: "piece", AliasesPrimary: []string{"bière", "primus", "skol"}, AliasesSecondary: []string{"beer"}},
		{ProductID: "PROD_084", NormalizedName: "coffee", Category: "Beverages", UnitOfMeasure: "g", AliasesPrimary: []string{"café"}, AliasesSecondary: []string{"coffee"}},
		{ProductID: "PROD_085", NormalizedName: "tea", Category: "Beverages", UnitOfMeasure: "g", AliasesPrimary: []string{"thé"}, AliasesSecondary: []string{"tea"}},
		// Hygiene
		{ProductID: "PROD_090", NormalizedName: "soap", Category: "Hygiene", UnitOfMeasure: "piece", AliasesPrimary: []string{"savon"}, AliasesSecondary: []string{"soap"}},
		{ProductID: "PROD_091", NormalizedName: "detergent", Category: "Hygiene", UnitOfMeasure: "kg", AliasesPrimary: []string{"détergent", "omo", "ariel"}, AliasesSecondary: []string{"detergent", "washing powder"}},
		{ProductID: "PROD_092", NormalizedName: "toothpaste", Category: "Hygiene", UnitOfMeasure: "piece", AliasesPrimary: []string{"dentifrice"}, AliasesSecondary: []string{"toothpaste"}},
		{ProductID: "PROD_093", NormalizedName: "toilet_paper", Category: "Hygiene", UnitOfMeasure: "roll", AliasesPrimary: []string{"papier toilette", "papier hygiénique"}, AliasesSecondary: []string{"toilet paper", "toilet roll"}},
		// Baby
		{ProductID: "PROD_094", NormalizedName: "diapers", Category: "Baby", UnitOfMeasure: "pack", AliasesPrimary: []string{"couches", "pampers"}, AliasesSecondary: []string{"diapers", "nappies", "pampers"}},
	}
}
