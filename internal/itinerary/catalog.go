package itinerary

import (
	"fmt"
	"strings"

	"github.com/alexivanou/trip-planner-api/internal/model"
)

const (
	dayStartHour = 9
	dayEndHour   = 20
	breakHours   = 1
)

// Template is a catalog entry used to synthesize activities.
// "{city}" in Title is replaced with the city name.
type Template struct {
	Title       string
	Description string
	Type        model.ActivityType
	Duration    int
	Cost        float64
}

// Catalog is the fixed activity pool, in the order templates are picked
var Catalog = []Template{
	{Title: "Morning Museum Visit in {city}", Description: "Main museum collection", Type: model.ActivitySightseeing, Duration: 3, Cost: 25},
	{Title: "Lunch at Local Restaurant", Description: "Regional cuisine", Type: model.ActivityDining, Duration: 2, Cost: 30},
	{Title: "Afternoon City Walk - {city}", Description: "Self-guided walk through the center", Type: model.ActivitySightseeing, Duration: 2, Cost: 0},
	{Title: "Shopping District Visit", Description: "Local shops and markets", Type: model.ActivityShopping, Duration: 2, Cost: 50},
	{Title: "Evening Entertainment", Description: "Show, concert or nightlife", Type: model.ActivityEntertainment, Duration: 2, Cost: 60},
	{Title: "Historical Site Tour in {city}", Description: "Guided tour of the old town", Type: model.ActivitySightseeing, Duration: 3, Cost: 20},
	{Title: "Coffee Break at Cafe", Description: "Rest stop", Type: model.ActivityDining, Duration: 1, Cost: 10},
	{Title: "Sunset Viewpoint", Description: "Best view in town at dusk", Type: model.ActivitySightseeing, Duration: 1, Cost: 0},
}

// Render builds an unsaved activity for the template starting at the given hour
func (t Template) Render(city model.City, startHour int) model.Activity {
	return model.Activity{
		Title:         strings.ReplaceAll(t.Title, "{city}", city.Name),
		ActivityType:  t.Type,
		StartTime:     clock(startHour),
		EndTime:       clock(startHour + t.Duration),
		Description:   t.Description,
		Location:      fmt.Sprintf("%s, %s", city.Name, city.Country),
		EstimatedCost: t.Cost,
	}
}

// Pace controls how many activities a day holds
type Pace string

const (
	PaceRelaxed  Pace = "relaxed"
	PaceModerate Pace = "moderate"
	PacePacked   Pace = "packed"
)

// ParsePace defaults an empty value to moderate
func ParsePace(s string) (Pace, error) {
	switch p := Pace(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PaceModerate, nil
	case PaceRelaxed, PaceModerate, PacePacked:
		return p, nil
	default:
		return "", model.InputErrorf("unknown pace %q", s)
	}
}

// ActivitiesPerDay returns the activity cap for the pace
func (p Pace) ActivitiesPerDay() int {
	switch p {
	case PaceRelaxed:
		return 2
	case PacePacked:
		return 5
	default:
		return 3
	}
}

// SynthesizeDay builds one day of activities from the catalog.
// Templates are picked cyclically from the pool filtered to allowed types
// (the full pool when the filter leaves nothing). The first activity is always
// admitted; after that the day stops at the first template that would exceed
// budgetPerDay or finish after 20:00.
func SynthesizeDay(city model.City, pace Pace, allowed []model.ActivityType, budgetPerDay float64) []model.Activity {
	pool := filterCatalog(allowed)
	activities := make([]model.Activity, 0, pace.ActivitiesPerDay())

	hour := dayStartHour
	spent := 0.0
	for i := 0; i < pace.ActivitiesPerDay() && hour < dayEndHour; i++ {
		tpl := pool[i%len(pool)]

		if i > 0 && spent+tpl.Cost > budgetPerDay {
			break
		}
		if hour+tpl.Duration > dayEndHour {
			break
		}

		activities = append(activities, tpl.Render(city, hour))
		spent += tpl.Cost
		hour += tpl.Duration + breakHours
	}
	return activities
}

// DailyCost sums the estimated cost of a day's activities
func DailyCost(activities []model.Activity) float64 {
	total := 0.0
	for _, a := range activities {
		total += a.EstimatedCost
	}
	return total
}

func filterCatalog(allowed []model.ActivityType) []Template {
	if len(allowed) == 0 {
		return Catalog
	}
	pool := make([]Template, 0, len(Catalog))
	for _, t := range Catalog {
		for _, a := range allowed {
			if t.Type == a {
				pool = append(pool, t)
				break
			}
		}
	}
	if len(pool) == 0 {
		return Catalog
	}
	return pool
}

func clock(hour int) string {
	return fmt.Sprintf("%02d:00", hour)
}
