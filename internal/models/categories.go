package models

// Item categories. CategoryOther is the fallback for anything the closed set
// does not cover, so lookups against the tables below never miss.
const (
	CategoryElectronics = "electronics"
	CategoryBooks       = "books"
	CategoryClothing    = "clothing"
	CategoryKeys        = "keys"
	CategoryIDCards     = "id-cards"
	CategoryAccessories = "accessories"
	CategoryBags        = "bags"
	CategoryOther       = "other"
)

// Categories lists every valid item category.
var Categories = []string{
	CategoryElectronics,
	CategoryBooks,
	CategoryClothing,
	CategoryKeys,
	CategoryIDCards,
	CategoryAccessories,
	CategoryBags,
	CategoryOther,
}

// Campus locations.
var Locations = []string{
	"library",
	"student-center",
	"gymnasium",
	"cafeteria",
	"science-building",
	"arts-building",
	"dormitory",
	"parking-lot",
	"sports-field",
	"other",
}

// SecurityQuestion is one ownership question shown to a claimant.
type SecurityQuestion struct {
	ID       string `json:"id"`
	Question string `json:"question"`
}

// categoryQuestions maps each category to its ordered question set.
var categoryQuestions = map[string][]SecurityQuestion{
	CategoryElectronics: {
		{ID: "color", Question: "What is the color of the device?"},
		{ID: "caseColor", Question: "What is the color/type of the case (if any)?"},
		{ID: "damage", Question: "Are there any visible damages or scratches?"},
		{ID: "uniqueFeature", Question: "Any unique identifying marks or stickers?"},
	},
	CategoryBooks: {
		{ID: "bookColor", Question: "What is the cover color of the book?"},
		{ID: "bookMarks", Question: "Any bookmarks or notes inside?"},
		{ID: "ownerName", Question: "Is your name written anywhere in the book?"},
	},
	CategoryClothing: {
		{ID: "clothingColor", Question: "What is the primary color?"},
		{ID: "clothingBrand", Question: "What is the brand?"},
		{ID: "clothingSize", Question: "What size is it?"},
	},
	CategoryKeys: {
		{ID: "keyCount", Question: "How many keys are on the keychain?"},
		{ID: "keychainDesc", Question: "Describe any keychains or attachments"},
		{ID: "keyType", Question: "What types of keys are included?"},
	},
	CategoryIDCards: {
		{ID: "cardType", Question: "What type of ID card is it?"},
		{ID: "cardholderName", Question: "What name is on the card?"},
		{ID: "cardExpiry", Question: "What is the expiration date or ID number prefix?"},
	},
	CategoryAccessories: {
		{ID: "accessoryColor", Question: "What is the primary color?"},
		{ID: "accessoryBrand", Question: "What is the brand (if known)?"},
		{ID: "accessoryFeature", Question: "Any unique features or damage?"},
	},
	CategoryBags: {
		{ID: "bagColor", Question: "What is the bag color?"},
		{ID: "bagBrand", Question: "What is the brand?"},
		{ID: "bagContents", Question: "What items were inside the bag?"},
	},
	CategoryOther: {
		{ID: "itemColor", Question: "What is the primary color?"},
		{ID: "itemFeature", Question: "Any unique identifying features?"},
	},
}

// QuestionsFor returns the security question set for a category, falling
// back to the generic "other" set for unknown categories.
func QuestionsFor(category string) []SecurityQuestion {
	if qs, ok := categoryQuestions[category]; ok {
		return qs
	}
	return categoryQuestions[CategoryOther]
}

// ValidCategory reports whether category is part of the closed set.
func ValidCategory(category string) bool {
	_, ok := categoryQuestions[category]
	return ok
}

// Answer alias keys per scoring signal. Each category names its answer keys
// differently; the scorer takes the first key a claimant actually answered.
var (
	ColorAnswerKeys   = []string{"color", "caseColor", "clothingColor", "bagColor", "accessoryColor", "itemColor", "bookColor"}
	BrandAnswerKeys   = []string{"clothingBrand", "bagBrand", "accessoryBrand"}
	FeatureAnswerKeys = []string{"damage", "uniqueFeature", "accessoryFeature", "itemFeature", "bookMarks"}
)
