package model

import "time"

type Meal struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Category     string    `json:"category"`
	Cuisine      string    `json:"cuisine"`
	PrepTime     int       `json:"prep_time"`
	CookTime     int       `json:"cook_time"`
	Servings     int       `json:"servings"`
	Difficulty   string    `json:"difficulty"`
	Ingredients  []string  `json:"ingredients"`
	Instructions string    `json:"instructions"`
	Tags         []string  `json:"tags"`
	IsFavorite   bool      `json:"is_favorite"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TotalTime returns prep plus cook time in minutes.
func (m Meal) TotalTime() int {
	return m.PrepTime + m.CookTime
}
