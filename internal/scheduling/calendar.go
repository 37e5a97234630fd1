package scheduling

import (
	"time"

	"github.com/google/uuid"

	"github.com/lumakara/studio-backend/pkg/db/models"
	"github.com/lumakara/studio-backend/pkg/enums"
)

const (
	// HourHeight is the rendered height of one hour in the weekly grid.
	HourHeight = 60.0
	// MinBlockHeight keeps very short sessions clickable.
	MinBlockHeight = 28.0
)

// ViewOptions control how the weekly grid is laid out.
type ViewOptions struct {
	DayStartHour int
	DayEndHour   int
	Location     *time.Location
}

// SessionBlock is one positioned session in a day column.
type SessionBlock struct {
	SessionID     uuid.UUID           `json:"session_id"`
	ProjectTitle  string              `json:"project_title"`
	OrderNumber   string              `json:"order_number,omitempty"`
	Photographers []string            `json:"photographers"`
	Status        enums.SessionStatus `json:"status"`
	Location      string              `json:"location,omitempty"`
	StartAt       time.Time           `json:"start_at"`
	EndAt         time.Time           `json:"end_at"`
	Top           float64             `json:"top"`
	Height        float64             `json:"height"`
}

// DayColumn is one day of the weekly grid.
type DayColumn struct {
	Date   time.Time      `json:"date"`
	Blocks []SessionBlock `json:"blocks"`
}

// WeekView is the assembled Sunday-to-Saturday calendar.
type WeekView struct {
	WeekStart    time.Time    `json:"week_start"`
	WeekEnd      time.Time    `json:"week_end"`
	DayStartHour int          `json:"day_start_hour"`
	DayEndHour   int          `json:"day_end_hour"`
	Days         [7]DayColumn `json:"days"`
}

// WeekOf returns midnight of the Sunday starting the week containing ref, in
// the given location, plus the exclusive end one week later.
func WeekOf(ref time.Time, loc *time.Location) (time.Time, time.Time) {
	local := ref.In(loc)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	start := midnight.AddDate(0, 0, -int(midnight.Weekday()))
	return start, start.AddDate(0, 0, 7)
}

// BuildWeekView joins the week's sessions with their photographers, projects
// and orders through index maps and computes block geometry. Pure; callers
// fetch the rows.
func BuildWeekView(weekStart time.Time, sessions []models.Session, photographers []models.Photographer, projects []models.Project, orders []models.Order, opts ViewOptions) *WeekView {
	loc := opts.Location
	if loc == nil {
		loc = weekStart.Location()
	}

	photographersByID := make(map[uuid.UUID]models.Photographer, len(photographers))
	for _, p := range photographers {
		photographersByID[p.ID] = p
	}
	projectsByID := make(map[uuid.UUID]models.Project, len(projects))
	for _, p := range projects {
		projectsByID[p.ID] = p
	}
	ordersByID := make(map[uuid.UUID]models.Order, len(orders))
	for _, o := range orders {
		ordersByID[o.ID] = o
	}

	view := &WeekView{
		WeekStart:    weekStart,
		WeekEnd:      weekStart.AddDate(0, 0, 7),
		DayStartHour: opts.DayStartHour,
		DayEndHour:   opts.DayEndHour,
	}
	for i := range view.Days {
		view.Days[i] = DayColumn{Date: weekStart.AddDate(0, 0, i)}
	}

	for _, session := range sessions {
		startLocal := session.StartAt.In(loc)
		day := int(startLocal.Sub(weekStart).Hours() / 24)
		if day < 0 || day > 6 {
			continue
		}

		block := SessionBlock{
			SessionID: session.ID,
			Status:    session.Status,
			StartAt:   session.StartAt,
			EndAt:     session.EndAt,
		}
		if session.Location != nil {
			block.Location = *session.Location
		}
		if project, ok := projectsByID[session.ProjectID]; ok {
			block.ProjectTitle = project.Title
		}
		if session.OrderID != nil {
			if order, ok := ordersByID[*session.OrderID]; ok {
				block.OrderNumber = order.OrderNumber
			}
		}
		block.Photographers = make([]string, 0, len(session.Assignments))
		for _, assignment := range session.Assignments {
			if p, ok := photographersByID[assignment.PhotographerID]; ok {
				block.Photographers = append(block.Photographers, p.Name)
			}
		}

		startFrac := float64(startLocal.Hour()) + float64(startLocal.Minute())/60
		block.Top = (startFrac - float64(opts.DayStartHour)) * HourHeight
		if block.Top < 0 {
			block.Top = 0
		}
		durationHours := session.EndAt.Sub(session.StartAt).Hours()
		block.Height = durationHours * HourHeight
		if block.Height < MinBlockHeight {
			block.Height = MinBlockHeight
		}

		view.Days[day].Blocks = append(view.Days[day].Blocks, block)
	}

	return view
}
