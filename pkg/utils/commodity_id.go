package utils

import "strings"

// Common local names for catalog commodities.
var commodityAliases = map[string]string{
	"gehun":    "wheat",
	"gehu":     "wheat",
	"chawal":   "rice",
	"dhan":     "rice",
	"paddy":    "rice",
	"makka":    "maize",
	"makai":    "maize",
	"corn":     "maize",
	"kapas":    "cotton",
	"tamatar":  "tomato",
	"pyaz":     "onion",
	"pyaaz":    "onion",
	"kanda":    "onion",
	"aloo":     "potato",
	"alu":      "potato",
	"soya":     "soybean",
	"soyabean": "soybean",
}

// NormalizeCommodityID normalizes user input to a catalog commodity id.
// It lowercases, trims whitespace, and resolves common Hindi/Marathi names.
func NormalizeCommodityID(id string) string {
	id = strings.ToLower(strings.TrimSpace(id))
	if canonical, ok := commodityAliases[id]; ok {
		return canonical
	}
	return id
}
