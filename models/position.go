package models

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// PositionOther is the fallback tag for anything not in the catalog.
const PositionOther = "other"

// PositionCatalog is the single source of truth for position tags.
// Every consumer (handlers, achievements, icons) goes through this table
// instead of repeating literals.
var PositionCatalog = map[string]string{
	"missionary":  "Missionary",
	"cowgirl":     "Cowgirl",
	"doggy":       "Doggy",
	"spooning":    "Spooning",
	"standing":    "Standing",
	"lotus":       "Lotus",
	"reverse":     "Reverse Cowgirl",
	"sixty_nine":  "69",
	"sideways":    "Sideways",
	PositionOther: "Other",
}

var titleCaser = cases.Title(language.English)

// IsKnownPosition reports whether tag is part of the standard catalog
// (the "other" fallback does not count as a standard tag).
func IsKnownPosition(tag string) bool {
	if tag == PositionOther {
		return false
	}
	_, ok := PositionCatalog[tag]
	return ok
}

// PositionLabel resolves a tag to its display label. Unrecognized tags fall
// back to "Other"; custom labels are title-cased for display.
func PositionLabel(tag, custom string) string {
	if label, ok := PositionCatalog[tag]; ok && tag != PositionOther {
		return label
	}
	if custom != "" {
		return titleCaser.String(custom)
	}
	return PositionCatalog[PositionOther]
}

// PositionIcon is an admin-uploaded SVG icon for a position tag.
type PositionIcon struct {
	ID         string `gorm:"primaryKey;type:uuid" json:"id"`
	Position   string `gorm:"uniqueIndex;not null" json:"position"`
	IconURL    string `gorm:"type:text;not null" json:"icon_url"`
	UploadedBy string `json:"uploaded_by"`
	Timestamps
}
