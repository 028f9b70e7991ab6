package enums

import "strings"

// Badge is the fixed vocabulary of tags a scored food item can carry.
type Badge string

const (
	BadgeOptimalCalories Badge = "optimal_calories"
	BadgeHighProtein     Badge = "high_protein"
	BadgeLowCarb         Badge = "low_carb"
	BadgeLowFat          Badge = "low_fat"
	BadgeVegan           Badge = "vegan"
	BadgeVegetarian      Badge = "vegetarian"
	BadgeKetoFriendly    Badge = "keto_friendly"
	BadgeGlutenFree      Badge = "gluten_free"
	BadgePaleo           Badge = "paleo"
)

// String implements fmt.Stringer.
func (b Badge) String() string {
	return string(b)
}

// dietTypeBadges maps catalog diet-type tags onto their badge.
var dietTypeBadges = map[string]Badge{
	"vegan":       BadgeVegan,
	"vegetarian":  BadgeVegetarian,
	"keto":        BadgeKetoFriendly,
	"gluten_free": BadgeGlutenFree,
	"paleo":       BadgePaleo,
}

// BadgeForDietType returns the badge derived from a catalog diet-type tag.
func BadgeForDietType(dietType string) (Badge, bool) {
	badge, ok := dietTypeBadges[strings.ToLower(strings.TrimSpace(dietType))]
	return badge, ok
}
