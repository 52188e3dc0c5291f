package workspace

import (
	"calendartasking_go/models"
	"errors"
	"sync"
	"time"
)

// Phase is the workspace lifecycle state
type Phase int

const (
	// PhaseUnauthenticated means no identity is attached
	PhaseUnauthenticated Phase = iota
	// PhaseNoCalendar means login succeeded but the user owns no calendar
	PhaseNoCalendar
	// PhaseActive means a calendar is selected and data is loaded
	PhaseActive
)

var ErrNotActive = errors.New("no active calendar")

// Workspace drives the client-side session: authentication, the active
// calendar, the loaded month of data and the timeline gesture. It is not
// safe for concurrent use; callers serialize access the way a UI event loop
// does.
type Workspace struct {
	client *Client

	phase    Phase
	identity *Identity
	calendar *models.Calendar

	// visible month and selected day, both UTC
	monthStart  time.Time
	selectedDay time.Time

	events   []models.Event
	tasks    []models.TaskItem
	sessions []models.PrivateClassSession
	summary  *MonthlySummary

	notices []string

	Timeline Timeline
}

// NewWorkspace creates an unauthenticated workspace over the given client
func NewWorkspace(client *Client) *Workspace {
	now := time.Now().UTC()
	return &Workspace{
		client:      client,
		phase:       PhaseUnauthenticated,
		monthStart:  time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC),
		selectedDay: time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
	}
}

// Phase returns the current lifecycle state
func (w *Workspace) Phase() Phase { return w.phase }

// Identity returns the logged-in identity, nil when unauthenticated
func (w *Workspace) Identity() *Identity { return w.identity }

// ActiveCalendar returns the selected calendar, nil when none is active
func (w *Workspace) ActiveCalendar() *models.Calendar { return w.calendar }

// MonthStart returns the first day of the visible month
func (w *Workspace) MonthStart() time.Time { return w.monthStart }

// SelectedDay returns the day currently shown on the timeline
func (w *Workspace) SelectedDay() time.Time { return w.selectedDay }

// Events returns the loaded events of the visible month
func (w *Workspace) Events() []models.Event { return w.events }

// Tasks returns the loaded tasks of the active calendar
func (w *Workspace) Tasks() []models.TaskItem { return w.tasks }

// Sessions returns the loaded sessions of the active calendar
func (w *Workspace) Sessions() []models.PrivateClassSession { return w.sessions }

// Summary returns the monthly payment summary, nil when not loaded
func (w *Workspace) Summary() *MonthlySummary { return w.summary }

// Notices drains and returns the accumulated transient notices
func (w *Workspace) Notices() []string {
	notices := w.notices
	w.notices = nil
	return notices
}

func (w *Workspace) notice(message string) {
	w.notices = append(w.notices, message)
}

// Login authenticates and bootstraps the calendar selection. A failed login
// keeps the workspace unauthenticated and surfaces the server message.
func (w *Workspace) Login(email, password string) error {
	identity, err := w.client.Login(email, password)
	if err != nil {
		w.notice(err.Error())
		return err
	}

	w.identity = identity
	return w.bootstrapCalendar()
}

// Register creates an account, then logs in and bootstraps like Login
func (w *Workspace) Register(email, password, firstName, lastName, timeZoneID string) error {
	if _, err := w.client.Register(email, password, firstName, lastName, timeZoneID); err != nil {
		w.notice(err.Error())
		return err
	}
	return w.Login(email, password)
}

// bootstrapCalendar picks the default calendar, falls back to the first one,
// and creates a starter calendar when the user owns none.
func (w *Workspace) bootstrapCalendar() error {
	calendars, err := w.client.Calendars(w.identity.UserID)
	if err != nil {
		w.notice(err.Error())
		w.phase = PhaseNoCalendar
		return err
	}

	if len(calendars) == 0 {
		created, err := w.client.CreateCalendar(CalendarPayload{
			OwnerUserID: w.identity.UserID,
			Name:        "My Calendar",
			ColorHex:    "#4A90D9",
			IsDefault:   true,
		})
		if err != nil {
			w.notice(err.Error())
			w.phase = PhaseNoCalendar
			return err
		}
		return w.SetActiveCalendar(created)
	}

	selected := &calendars[0]
	for i := range calendars {
		if calendars[i].IsDefault {
			selected = &calendars[i]
			break
		}
	}
	return w.SetActiveCalendar(selected)
}

// SetActiveCalendar switches the workspace onto a calendar and reloads
func (w *Workspace) SetActiveCalendar(calendar *models.Calendar) error {
	w.Timeline.Cancel()
	w.calendar = calendar
	w.phase = PhaseActive
	return w.Refresh()
}

// Logout drops the identity and all loaded state
func (w *Workspace) Logout() {
	w.Timeline.Cancel()
	w.phase = PhaseUnauthenticated
	w.identity = nil
	w.calendar = nil
	w.events = nil
	w.tasks = nil
	w.sessions = nil
	w.summary = nil
}

// SelectDay moves the timeline to another day, canceling any gesture
func (w *Workspace) SelectDay(day time.Time) {
	w.Timeline.Cancel()
	w.selectedDay = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
}

// ShiftMonth moves the visible month by the given number of months and
// reloads. The selected day jumps to the first of the new month.
func (w *Workspace) ShiftMonth(months int) error {
	w.Timeline.Cancel()
	w.monthStart = w.monthStart.AddDate(0, months, 0)
	w.selectedDay = w.monthStart
	if w.phase != PhaseActive {
		return nil
	}
	return w.Refresh()
}

// Refresh reloads events, tasks, sessions and the monthly summary for the
// active calendar concurrently. A partial failure keeps the previous data
// for the failed collection and records a notice.
func (w *Workspace) Refresh() error {
	if w.phase != PhaseActive || w.calendar == nil {
		return ErrNotActive
	}

	calendarID := w.calendar.ID
	from := w.monthStart
	to := w.monthStart.AddDate(0, 1, 0)

	var wg sync.WaitGroup
	var mu sync.Mutex
	var failures []error

	fail := func(err error) {
		mu.Lock()
		failures = append(failures, err)
		mu.Unlock()
	}

	wg.Add(4)

	go func() {
		defer wg.Done()
		events, err := w.client.Events(calendarID, &from, &to)
		if err != nil {
			fail(err)
			return
		}
		mu.Lock()
		w.events = events
		mu.Unlock()
	}()

	go func() {
		defer wg.Done()
		tasks, err := w.client.Tasks(calendarID)
		if err != nil {
			fail(err)
			return
		}
		mu.Lock()
		w.tasks = tasks
		mu.Unlock()
	}()

	go func() {
		defer wg.Done()
		sessions, err := w.client.Sessions(calendarID)
		if err != nil {
			fail(err)
			return
		}
		mu.Lock()
		w.sessions = sessions
		mu.Unlock()
	}()

	go func() {
		defer wg.Done()
		summary, err := w.client.GetMonthlySummary(calendarID, w.monthStart.Year(), int(w.monthStart.Month()))
		if err != nil {
			fail(err)
			return
		}
		mu.Lock()
		w.summary = summary
		mu.Unlock()
	}()

	wg.Wait()

	for _, err := range failures {
		w.notice(err.Error())
	}
	if len(failures) > 0 {
		return failures[0]
	}
	return nil
}

// DayItems projects the selected day onto the timeline
func (w *Workspace) DayItems() []TimelineItem {
	return ProjectDay(w.selectedDay, w.events, w.tasks, w.sessions)
}

// ReleaseGesture ends the active gesture. When the item actually moved, the
// new position is persisted with a full update and the month is reloaded;
// a release without movement is reported as a click. The returned result is
// valid only when the boolean is true.
func (w *Workspace) ReleaseGesture() (GestureResult, bool) {
	result, active := w.Timeline.Release()
	if !active {
		return GestureResult{}, false
	}
	if !result.Moved {
		return result, true
	}

	if err := w.persistGesture(result); err != nil {
		w.notice(err.Error())
		return result, true
	}
	if err := w.Refresh(); err != nil {
		w.notice(err.Error())
	}
	return result, true
}

func (w *Workspace) persistGesture(result GestureResult) error {
	start := w.selectedDay.Add(time.Duration(result.StartMinutes) * time.Minute)
	end := start.Add(time.Duration(result.DurationMinutes) * time.Minute)

	switch result.Item.Kind {
	case KindEvent:
		event := w.findEvent(result.Item.ID)
		if event == nil {
			return errors.New("event no longer loaded")
		}
		_, err := w.client.UpdateEvent(event.ID, EventPayload{
			CalendarID:            event.CalendarID,
			CreatedByUserID:       event.CreatedByUserID,
			Title:                 event.Title,
			Description:           deref(event.Description),
			Location:              deref(event.Location),
			StartUtc:              start,
			EndUtc:                end,
			IsAllDay:              event.IsAllDay,
			RepeatType:            event.RepeatType,
			ReminderMinutesBefore: event.ReminderMinutesBefore,
			Status:                event.Status,
		})
		return err
	case KindSession:
		session := w.findSession(result.Item.ID)
		if session == nil {
			return errors.New("session no longer loaded")
		}
		_, err := w.client.UpdateSession(session.ID, SessionPayload{
			CalendarID:       session.CalendarID,
			CreatedByUserID:  session.CreatedByUserID,
			StudentName:      session.StudentName,
			StudentContact:   deref(session.StudentContact),
			SessionStartUtc:  start,
			SessionEndUtc:    end,
			TopicPlanned:     deref(session.TopicPlanned),
			TopicDone:        deref(session.TopicDone),
			HomeworkAssigned: deref(session.HomeworkAssigned),
			PriceAmount:      session.PriceAmount,
			CurrencyCode:     session.CurrencyCode,
			IsPaid:           session.IsPaid,
			PaidAtUtc:        session.PaidAtUtc,
			PaymentMethod:    deref(session.PaymentMethod),
			PaymentNote:      deref(session.PaymentNote),
			Status:           session.Status,
		})
		return err
	case KindTask:
		task := w.findTask(result.Item.ID)
		if task == nil {
			return errors.New("task no longer loaded")
		}
		// A task block ends at its due time
		_, err := w.client.UpdateTask(task.ID, TaskPayload{
			CalendarID:            task.CalendarID,
			CreatedByUserID:       task.CreatedByUserID,
			Title:                 task.Title,
			Description:           deref(task.Description),
			DueUtc:                &end,
			Priority:              task.Priority,
			Status:                task.Status,
			CompletedAtUtc:        task.CompletedAtUtc,
			ReminderMinutesBefore: task.ReminderMinutesBefore,
		})
		return err
	}
	return errors.New("unknown timeline item kind")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (w *Workspace) findEvent(id uint) *models.Event {
	for i := range w.events {
		if w.events[i].ID == id {
			return &w.events[i]
		}
	}
	return nil
}

func (w *Workspace) findTask(id uint) *models.TaskItem {
	for i := range w.tasks {
		if w.tasks[i].ID == id {
			return &w.tasks[i]
		}
	}
	return nil
}

func (w *Workspace) findSession(id uint) *models.PrivateClassSession {
	for i := range w.sessions {
		if w.sessions[i].ID == id {
			return &w.sessions[i]
		}
	}
	return nil
}
