package handler

import "strings"

// Category discriminates handler records.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryAutocomplete
	CategoryButton
	CategoryCommand
	CategoryMenuCommand
	CategoryModalSubmit
	CategorySelectMenu
	CategoryEvent
	CategoryMessageCommand
)

// Categories is the fixed, ordered list of recognized category folders.
var Categories = []Category{
	CategoryAutocomplete,
	CategoryButton,
	CategoryCommand,
	CategoryMenuCommand,
	CategoryModalSubmit,
	CategorySelectMenu,
	CategoryEvent,
	CategoryMessageCommand,
}

var categoryNames = map[Category]string{
	CategoryAutocomplete:   "Autocomplete",
	CategoryButton:         "Button",
	CategoryCommand:        "Command",
	CategoryMenuCommand:    "MenuCommand",
	CategoryModalSubmit:    "ModalSubmit",
	CategorySelectMenu:     "SelectMenu",
	CategoryEvent:          "Event",
	CategoryMessageCommand: "MessageCommand",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "Unknown"
}

// IsInteraction reports whether records of this category answer interactions.
func (c Category) IsInteraction() bool {
	switch c {
	case CategoryAutocomplete, CategoryButton, CategoryCommand,
		CategoryMenuCommand, CategoryModalSubmit, CategorySelectMenu:
		return true
	}
	return false
}

// ParseFolder maps a category folder name to its Category. Matching ignores
// case so Go-style lower-case directories ("menucommand") are accepted.
func ParseFolder(folder string) (Category, bool) {
	for _, c := range Categories {
		if strings.EqualFold(folder, categoryNames[c]) {
			return c, true
		}
	}
	return CategoryUnknown, false
}
