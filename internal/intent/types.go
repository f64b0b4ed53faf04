package intent

// Category is the coarse-grained request type used to pick a knowledge assembler.
type Category string

const (
	CategoryScriptGeneration      Category = "script_generation"
	CategoryLearning              Category = "learning"
	CategoryEquipmentConsultation Category = "equipment_consultation"
	CategoryScientificArticles    Category = "scientific_articles"
	CategoryVideoLibrary          Category = "video_library"
	CategoryMarketingStrategy     Category = "marketing_strategy"
	CategoryGeneral               Category = "general"
)

// Categories lists every known category, general last.
var Categories = []Category{
	CategoryScriptGeneration,
	CategoryLearning,
	CategoryEquipmentConsultation,
	CategoryScientificArticles,
	CategoryVideoLibrary,
	CategoryMarketingStrategy,
	CategoryGeneral,
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Result is the outcome of classifying one piece of text.
type Result struct {
	Category   Category `json:"category"`
	Confidence float64  `json:"confidence"`
	Keywords   []string `json:"keywords"`
}

// Rule binds a category to the patterns that vote for it.
type Rule struct {
	Category Category `yaml:"category"`
	Priority int      `yaml:"priority"`
	Patterns []string `yaml:"patterns"`
}
