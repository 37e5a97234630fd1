package scheduling

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/lumakara/studio-backend/pkg/db/models"
	"github.com/lumakara/studio-backend/pkg/enums"
)

func TestWeekOfStartsOnSunday(t *testing.T) {
	loc := time.UTC
	// 2026-03-04 is a Wednesday
	start, end := WeekOf(time.Date(2026, 3, 4, 15, 30, 0, 0, loc), loc)

	if start.Weekday() != time.Sunday {
		t.Fatalf("week starts on %s, want Sunday", start.Weekday())
	}
	if !start.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, loc)) {
		t.Fatalf("week start = %s", start)
	}
	if !end.Equal(start.AddDate(0, 0, 7)) {
		t.Fatalf("week end = %s", end)
	}
}

func TestWeekOfSundayMapsToItself(t *testing.T) {
	loc := time.UTC
	sunday := time.Date(2026, 3, 1, 9, 0, 0, 0, loc)
	start, _ := WeekOf(sunday, loc)
	if !start.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, loc)) {
		t.Fatalf("week start = %s", start)
	}
}

func TestBuildWeekViewGeometry(t *testing.T) {
	loc := time.UTC
	weekStart := time.Date(2026, 3, 1, 0, 0, 0, 0, loc)
	project := models.Project{ID: uuid.New(), Title: "Beach prewedding"}

	// Tuesday 10:30 to 12:00
	session := models.Session{
		ID:        uuid.New(),
		ProjectID: project.ID,
		StartAt:   time.Date(2026, 3, 3, 10, 30, 0, 0, loc),
		EndAt:     time.Date(2026, 3, 3, 12, 0, 0, 0, loc),
		Status:    enums.SessionStatusConfirmed,
	}

	view := BuildWeekView(weekStart, []models.Session{session}, nil, []models.Project{project}, nil, ViewOptions{
		DayStartHour: 8,
		DayEndHour:   21,
		Location:     loc,
	})

	blocks := view.Days[2].Blocks
	if len(blocks) != 1 {
		t.Fatalf("tuesday blocks = %d, want 1", len(blocks))
	}
	block := blocks[0]
	if block.ProjectTitle != "Beach prewedding" {
		t.Fatalf("title = %q", block.ProjectTitle)
	}
	// 10:30 with day start 8 → (10.5 − 8) × 60
	if block.Top != 150 {
		t.Fatalf("top = %v, want 150", block.Top)
	}
	// 1.5h × 60
	if block.Height != 90 {
		t.Fatalf("height = %v, want 90", block.Height)
	}
}

func TestBuildWeekViewEnforcesMinHeight(t *testing.T) {
	loc := time.UTC
	weekStart := time.Date(2026, 3, 1, 0, 0, 0, 0, loc)

	// ten minutes: 10 × 1 < minimum
	session := models.Session{
		ID:        uuid.New(),
		ProjectID: uuid.New(),
		StartAt:   time.Date(2026, 3, 2, 9, 0, 0, 0, loc),
		EndAt:     time.Date(2026, 3, 2, 9, 10, 0, 0, loc),
		Status:    enums.SessionStatusPlanned,
	}

	view := BuildWeekView(weekStart, []models.Session{session}, nil, nil, nil, ViewOptions{DayStartHour: 8, DayEndHour: 21, Location: loc})
	block := view.Days[1].Blocks[0]
	if block.Height != MinBlockHeight {
		t.Fatalf("height = %v, want minimum %v", block.Height, MinBlockHeight)
	}
}

func TestBuildWeekViewResolvesNames(t *testing.T) {
	loc := time.UTC
	weekStart := time.Date(2026, 3, 1, 0, 0, 0, 0, loc)
	project := models.Project{ID: uuid.New(), Title: "Graduation"}
	order := models.Order{ID: uuid.New(), OrderNumber: "LMK-20260301-0A0B0C"}
	photographer := models.Photographer{ID: uuid.New(), Name: "Bayu"}

	session := models.Session{
		ID:        uuid.New(),
		ProjectID: project.ID,
		OrderID:   &order.ID,
		StartAt:   time.Date(2026, 3, 5, 14, 0, 0, 0, loc),
		EndAt:     time.Date(2026, 3, 5, 16, 0, 0, 0, loc),
		Status:    enums.SessionStatusPlanned,
		Assignments: []models.SessionAssignment{
			{ID: uuid.New(), PhotographerID: photographer.ID},
		},
	}

	view := BuildWeekView(weekStart, []models.Session{session},
		[]models.Photographer{photographer}, []models.Project{project}, []models.Order{order},
		ViewOptions{DayStartHour: 8, DayEndHour: 21, Location: loc})

	block := view.Days[4].Blocks[0]
	if block.OrderNumber != order.OrderNumber {
		t.Fatalf("order number = %q", block.OrderNumber)
	}
	if len(block.Photographers) != 1 || block.Photographers[0] != "Bayu" {
		t.Fatalf("photographers = %v", block.Photographers)
	}
}
