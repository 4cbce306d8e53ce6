// Package validate holds the shared form-validation rules. Validators are
// pure: they take a snapshot of the submitted fields and return a Result,
// never an error. Errors block the save; warnings do not.
package validate

import (
	"strings"
	"time"
)

// Result is the outcome of validating one entity.
type Result struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings,omitempty"`
}

func newResult(errors, warnings []string) Result {
	if errors == nil {
		errors = []string{}
	}
	return Result{Valid: len(errors) == 0, Errors: errors, Warnings: warnings}
}

const maxNameLength = 100

// longEventWarning triggers above 12 hours; a long event is suspicious but
// never rejected.
const longEventDuration = 12 * time.Hour

// EventInput carries the raw form fields for an event. Times arrive as
// strings because that is what forms submit; parse failures are validation
// errors, not panics.
type EventInput struct {
	Title      string
	StartTime  string
	EndTime    string
	AssignedTo []int64
}

// timeFormats accepted for event times: RFC3339 from API clients and the
// datetime-local format browsers submit.
var timeFormats = []string{time.RFC3339, "2006-01-02T15:04"}

func parseTime(s string) (time.Time, bool) {
	for _, layout := range timeFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Event validates an event form submission.
func Event(in EventInput) Result {
	var errs, warns []string

	if strings.TrimSpace(in.Title) == "" {
		errs = append(errs, "Title is required")
	}

	var start, end time.Time
	var startOK, endOK bool

	if strings.TrimSpace(in.StartTime) == "" {
		errs = append(errs, "Start time is required")
	} else if start, startOK = parseTime(in.StartTime); !startOK {
		errs = append(errs, "Start time is not a valid timestamp")
	}

	if strings.TrimSpace(in.EndTime) == "" {
		errs = append(errs, "End time is required")
	} else if end, endOK = parseTime(in.EndTime); !endOK {
		errs = append(errs, "End time is not a valid timestamp")
	}

	if startOK && endOK {
		if !end.After(start) {
			errs = append(errs, "End time must be after start time")
		} else if end.Sub(start) > longEventDuration {
			warns = append(warns, "Event is longer than 12 hours")
		}
	}

	if len(in.AssignedTo) == 0 {
		errs = append(errs, "At least one family member must be assigned")
	}

	return newResult(errs, warns)
}

// EventTimes parses the input's times after a successful Event validation.
func EventTimes(in EventInput) (start, end time.Time) {
	start, _ = parseTime(in.StartTime)
	end, _ = parseTime(in.EndTime)
	return start, end
}

// MealInput carries the raw form fields for a meal.
type MealInput struct {
	Name     string
	PrepTime int
	CookTime int
	Servings int
}

// Meal validates a meal form submission.
func Meal(in MealInput) Result {
	var errs []string

	name := strings.TrimSpace(in.Name)
	if name == "" {
		errs = append(errs, "Name is required")
	} else if len([]rune(name)) > maxNameLength {
		errs = append(errs, "Name must be 100 characters or fewer")
	}
	if in.PrepTime < 0 {
		errs = append(errs, "Prep time cannot be negative")
	}
	if in.CookTime < 0 {
		errs = append(errs, "Cook time cannot be negative")
	}
	if in.Servings < 1 {
		errs = append(errs, "Servings must be at least 1")
	}

	return newResult(errs, nil)
}

// Note validates a note form submission.
func Note(title string) Result {
	var errs []string

	title = strings.TrimSpace(title)
	if title == "" {
		errs = append(errs, "Title is required")
	} else if len([]rune(title)) > maxNameLength {
		errs = append(errs, "Title must be 100 characters or fewer")
	}

	return newResult(errs, nil)
}

// BillInput carries the raw form fields for a bill.
type BillInput struct {
	Name             string
	CategoryID       int64
	Amount           float64
	IsVariableAmount bool
	DueDay           int
}

// Bill validates a bill form submission.
func Bill(in BillInput) Result {
	var errs []string

	if strings.TrimSpace(in.Name) == "" {
		errs = append(errs, "Name is required")
	}
	if in.CategoryID <= 0 {
		errs = append(errs, "Category is required")
	}
	if !in.IsVariableAmount && in.Amount <= 0 {
		errs = append(errs, "Amount must be greater than zero")
	}
	if in.DueDay < 1 || in.DueDay > 31 {
		errs = append(errs, "Due day must be between 1 and 31")
	}

	return newResult(errs, nil)
}

// BudgetInput carries the raw form fields for a budget.
type BudgetInput struct {
	Name       string
	Period     string
	StartDate  string
	TotalLimit float64
}

var budgetPeriods = map[string]bool{"weekly": true, "monthly": true, "yearly": true}

// Budget validates a budget form submission.
func Budget(in BudgetInput) Result {
	var errs []string

	if strings.TrimSpace(in.Name) == "" {
		errs = append(errs, "Name is required")
	}
	if !budgetPeriods[in.Period] {
		errs = append(errs, "Period must be weekly, monthly or yearly")
	}
	if strings.TrimSpace(in.StartDate) == "" {
		errs = append(errs, "Start date is required")
	} else if _, err := time.Parse("2006-01-02", in.StartDate); err != nil {
		errs = append(errs, "Start date is not a valid date")
	}
	if in.TotalLimit < 0 {
		errs = append(errs, "Total limit cannot be negative")
	}

	return newResult(errs, nil)
}
