package entities

// Категории оборудования
const (
	CategoryLaptop      = "Laptop"
	CategoryDesktop     = "Desktop"
	CategoryMobilePhone = "Mobile Phone"
	CategoryDeskPhone   = "Desk Phone"
	CategoryTablet      = "Tablet"
	CategoryMonitor     = "Monitor"
	CategoryOther       = "Other"
)

var EquipmentCategories = []string{
	CategoryLaptop,
	CategoryDesktop,
	CategoryMobilePhone,
	CategoryDeskPhone,
	CategoryTablet,
	CategoryMonitor,
	CategoryOther,
}

var computerAccessoryTypes = []string{
	"Wired Keyboard", "Wireless Keyboard", "Wired Mouse", "Wireless Mouse",
	"Monitor", "Speaker", "Webcam", "USB Hub", "Adapter", "Other",
}

var phoneAccessoryTypes = []string{
	"Charger", "Cable", "Screen Protector", "Case", "Headphones", "Other",
}

var tabletAccessoryTypes = []string{
	"Charger", "Cable", "Screen Protector", "Case", "Keyboard Case", "Stylus", "Headphones", "Other",
}

// AccessoryTypes - допустимые типы аксессуаров по категории. Для Monitor и Other аксессуаров нет.
var AccessoryTypes = map[string][]string{
	CategoryLaptop:      computerAccessoryTypes,
	CategoryDesktop:     computerAccessoryTypes,
	CategoryMobilePhone: phoneAccessoryTypes,
	CategoryDeskPhone:   phoneAccessoryTypes,
	CategoryTablet:      tabletAccessoryTypes,
	CategoryMonitor:     {},
	CategoryOther:       {},
}

func IsValidCategory(category string) bool {
	for _, c := range EquipmentCategories {
		if c == category {
			return true
		}
	}
	return false
}

func IsAllowedAccessoryType(category, accessoryType string) bool {
	for _, t := range AccessoryTypes[category] {
		if t == accessoryType {
			return true
		}
	}
	return false
}
