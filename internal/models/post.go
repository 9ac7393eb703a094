package models

import (
	"strings"
	"time"
)

type Category string

const (
	CategoryEntertainment Category = "Entertainment"
	CategoryFood          Category = "Food"
	CategoryGaming        Category = "Gaming"
	CategoryHealth        Category = "Health"
	CategoryLifestyle     Category = "Lifestyle"
	CategoryShopping      Category = "Shopping"
	CategorySport         Category = "Sport"
	CategoryTechnology    Category = "Technology"
	CategoryTravel        Category = "Travel"
	CategoryOther         Category = "Other"
)

// Categories lists every valid post category, in display order.
var Categories = []Category{
	CategoryEntertainment,
	CategoryFood,
	CategoryGaming,
	CategoryHealth,
	CategoryLifestyle,
	CategoryShopping,
	CategorySport,
	CategoryTechnology,
	CategoryTravel,
	CategoryOther,
}

func ValidCategory(s string) bool {
	for _, c := range Categories {
		if string(c) == s {
			return true
		}
	}
	return false
}

type Post struct {
	ID         string    `json:"id"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Title      string    `json:"title"`
	Category   Category  `json:"category"`
	Reference  string    `json:"reference,omitempty"`
	Content    string    `json:"content"`
	Private    bool      `json:"private"`
	DatePosted time.Time `json:"date_posted"`
}

// Paragraphs splits the content on line breaks for display.
func (p Post) Paragraphs() []string {
	lines := strings.Split(strings.ReplaceAll(p.Content, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			out = append(out, l)
		}
	}
	return out
}
