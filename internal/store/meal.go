package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/stefandinca/FamilyCommandCenter-sub000/internal/model"
)

type MealStore struct {
	db *sql.DB
}

func NewMealStore(db *sql.DB) *MealStore {
	return &MealStore{db: db}
}

const mealCols = `id, name, category, cuisine, prep_time, cook_time, servings, difficulty, ingredients, instructions, tags, is_favorite, created_at, updated_at`

func scanMeal(scanner interface{ Scan(...any) error }) (*model.Meal, error) {
	var m model.Meal
	var ingredients, tags string
	var favorite int

	err := scanner.Scan(
		&m.ID, &m.Name, &m.Category, &m.Cuisine,
		&m.PrepTime, &m.CookTime, &m.Servings, &m.Difficulty,
		&ingredients, &m.Instructions, &tags, &favorite,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	m.IsFavorite = favorite != 0
	// Stored JSON is written by us; a decode failure means a hand-edited
	// database, so fall back to empty rather than failing the read.
	if err := json.Unmarshal([]byte(ingredients), &m.Ingredients); err != nil {
		m.Ingredients = nil
	}
	if err := json.Unmarshal([]byte(tags), &m.Tags); err != nil {
		m.Tags = nil
	}
	return &m, nil
}

func encodeList(items []string) string {
	if items == nil {
		items = []string{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// MealInput is the writable portion of a meal.
type MealInput struct {
	Name         string
	Category     string
	Cuisine      string
	PrepTime     int
	CookTime     int
	Servings     int
	Difficulty   string
	Ingredients  []string
	Instructions string
	Tags         []string
}

func (s *MealStore) Create(in MealInput) (*model.Meal, error) {
	result, err := s.db.Exec(
		`INSERT INTO meals (name, category, cuisine, prep_time, cook_time, servings, difficulty, ingredients, instructions, tags)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.Name, in.Category, in.Cuisine, in.PrepTime, in.CookTime, in.Servings,
		in.Difficulty, encodeList(in.Ingredients), in.Instructions, encodeList(in.Tags),
	)
	if err != nil {
		return nil, fmt.Errorf("insert meal: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *MealStore) GetByID(id int64) (*model.Meal, error) {
	row := s.db.QueryRow("SELECT "+mealCols+" FROM meals WHERE id = ?", id)
	m, err := scanMeal(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get meal: %w", err)
	}
	return m, nil
}

func (s *MealStore) List() ([]model.Meal, error) {
	rows, err := s.db.Query("SELECT " + mealCols + " FROM meals ORDER BY is_favorite DESC, name")
	if err != nil {
		return nil, fmt.Errorf("list meals: %w", err)
	}
	defer rows.Close()

	var meals []model.Meal
	for rows.Next() {
		m, err := scanMeal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan meal: %w", err)
		}
		meals = append(meals, *m)
	}
	return meals, rows.Err()
}

func (s *MealStore) Update(id int64, in MealInput) (*model.Meal, error) {
	_, err := s.db.Exec(
		`UPDATE meals
		 SET name = ?, category = ?, cuisine = ?, prep_time = ?, cook_time = ?, servings = ?,
		     difficulty = ?, ingredients = ?, instructions = ?, tags = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		in.Name, in.Category, in.Cuisine, in.PrepTime, in.CookTime, in.Servings,
		in.Difficulty, encodeList(in.Ingredients), in.Instructions, encodeList(in.Tags), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update meal: %w", err)
	}
	return s.GetByID(id)
}

func (s *MealStore) ToggleFavorite(id int64) (*model.Meal, error) {
	_, err := s.db.Exec("UPDATE meals SET is_favorite = 1 - is_favorite WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("toggle favorite: %w", err)
	}
	return s.GetByID(id)
}

// Delete removes a meal. Events referencing it keep their meal_id; readers
// treat the dangling reference as "Unknown".
func (s *MealStore) Delete(id int64) error {
	_, err := s.db.Exec("DELETE FROM meals WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete meal: %w", err)
	}
	return nil
}
