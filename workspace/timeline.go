package workspace

import (
	"calendartasking_go/models"
	"errors"
	"sort"
	"time"
)

// SlotMinutes is the drag and resize granularity of the day timeline
const SlotMinutes = 15

// MinutesPerDay bounds every timeline item to a single day
const MinutesPerDay = 24 * 60

// ItemKind identifies which entity a timeline item projects
type ItemKind int

const (
	KindEvent ItemKind = iota
	KindTask
	KindSession
)

// TimelineItem is one block on the day timeline. Start and duration are in
// minutes from the day start, already clipped to the day.
type TimelineItem struct {
	Kind            ItemKind
	ID              uint
	Title           string
	StartMinutes    int
	DurationMinutes int
}

// GestureKind is the active interaction on the timeline
type GestureKind int

const (
	GestureNone GestureKind = iota
	GestureDrag
	GestureResize
)

// GestureResult reports the outcome of releasing a gesture. Moved is false
// when the pointer never left the starting slot, which callers treat as a
// plain click on the item.
type GestureResult struct {
	Item            TimelineItem
	StartMinutes    int
	DurationMinutes int
	Moved           bool
}

// Timeline tracks the single active gesture. Drag and resize are mutually
// exclusive: beginning one while another is active is an error.
type Timeline struct {
	kind            GestureKind
	item            TimelineItem
	startMinutes    int
	durationMinutes int
}

var ErrGestureActive = errors.New("another gesture is already active")

// GestureKind returns the currently active gesture kind
func (t *Timeline) GestureKind() GestureKind {
	return t.kind
}

// BeginDrag starts moving an item along the timeline
func (t *Timeline) BeginDrag(item TimelineItem) error {
	if t.kind != GestureNone {
		return ErrGestureActive
	}
	t.kind = GestureDrag
	t.item = item
	t.startMinutes = item.StartMinutes
	t.durationMinutes = item.DurationMinutes
	return nil
}

// BeginResize starts adjusting an item's duration from its end edge
func (t *Timeline) BeginResize(item TimelineItem) error {
	if t.kind != GestureNone {
		return ErrGestureActive
	}
	t.kind = GestureResize
	t.item = item
	t.startMinutes = item.StartMinutes
	t.durationMinutes = item.DurationMinutes
	return nil
}

// MoveBy applies the pointer's total offset from the gesture origin in
// minutes. The offset snaps to whole slots before it is applied, so calling
// with a running total keeps the preview stable.
func (t *Timeline) MoveBy(deltaMinutes int) {
	snapped := snapToSlot(deltaMinutes)

	switch t.kind {
	case GestureDrag:
		start := t.item.StartMinutes + snapped
		if start < 0 {
			start = 0
		}
		if start > MinutesPerDay-t.item.DurationMinutes {
			start = MinutesPerDay - t.item.DurationMinutes
		}
		t.startMinutes = start
	case GestureResize:
		duration := t.item.DurationMinutes + snapped
		if duration < SlotMinutes {
			duration = SlotMinutes
		}
		if duration > MinutesPerDay-t.item.StartMinutes {
			duration = MinutesPerDay - t.item.StartMinutes
		}
		t.durationMinutes = duration
	}
}

// Preview returns the item's in-progress position without ending the gesture
func (t *Timeline) Preview() (startMinutes, durationMinutes int) {
	return t.startMinutes, t.durationMinutes
}

// Release ends the gesture and reports where the item landed. The boolean is
// false when no gesture was active.
func (t *Timeline) Release() (GestureResult, bool) {
	if t.kind == GestureNone {
		return GestureResult{}, false
	}

	result := GestureResult{
		Item:            t.item,
		StartMinutes:    t.startMinutes,
		DurationMinutes: t.durationMinutes,
		Moved: t.startMinutes != t.item.StartMinutes ||
			t.durationMinutes != t.item.DurationMinutes,
	}
	t.reset()
	return result, true
}

// Cancel discards the gesture and any pending position change
func (t *Timeline) Cancel() {
	t.reset()
}

func (t *Timeline) reset() {
	t.kind = GestureNone
	t.item = TimelineItem{}
	t.startMinutes = 0
	t.durationMinutes = 0
}

// snapToSlot rounds a minute offset to the nearest slot boundary
func snapToSlot(minutes int) int {
	half := SlotMinutes / 2
	if minutes >= 0 {
		return (minutes + half) / SlotMinutes * SlotMinutes
	}
	return -((-minutes + half) / SlotMinutes * SlotMinutes)
}

// ProjectDay flattens events, tasks and sessions onto the timeline of one
// UTC day. Items overlapping the day are clipped to it; tasks appear as a
// synthetic block ending at their due time, sized by the reminder window or
// a single slot when no reminder is set. Items are sorted by start, then id.
func ProjectDay(dayStart time.Time, events []models.Event, tasks []models.TaskItem, sessions []models.PrivateClassSession) []TimelineItem {
	dayEnd := dayStart.Add(MinutesPerDay * time.Minute)
	items := make([]TimelineItem, 0, len(events)+len(tasks)+len(sessions))

	for _, event := range events {
		if item, ok := clipToDay(KindEvent, event.ID, event.Title, event.StartUtc, event.EndUtc, dayStart, dayEnd); ok {
			items = append(items, item)
		}
	}

	for _, session := range sessions {
		if item, ok := clipToDay(KindSession, session.ID, session.StudentName, session.SessionStartUtc, session.SessionEndUtc, dayStart, dayEnd); ok {
			items = append(items, item)
		}
	}

	for _, task := range tasks {
		if task.DueUtc == nil {
			continue
		}
		duration := SlotMinutes
		if task.ReminderMinutesBefore != nil && *task.ReminderMinutesBefore > SlotMinutes {
			duration = *task.ReminderMinutesBefore
		}
		start := task.DueUtc.Add(-time.Duration(duration) * time.Minute)
		if item, ok := clipToDay(KindTask, task.ID, task.Title, start, *task.DueUtc, dayStart, dayEnd); ok {
			items = append(items, item)
		}
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].StartMinutes != items[j].StartMinutes {
			return items[i].StartMinutes < items[j].StartMinutes
		}
		return items[i].ID < items[j].ID
	})
	return items
}

func clipToDay(kind ItemKind, id uint, title string, start, end, dayStart, dayEnd time.Time) (TimelineItem, bool) {
	if !end.After(dayStart) || !start.Before(dayEnd) {
		return TimelineItem{}, false
	}
	if start.Before(dayStart) {
		start = dayStart
	}
	if end.After(dayEnd) {
		end = dayEnd
	}

	startMinutes := int(start.Sub(dayStart) / time.Minute)
	durationMinutes := int(end.Sub(start) / time.Minute)
	if durationMinutes < 1 {
		return TimelineItem{}, false
	}

	return TimelineItem{
		Kind:            kind,
		ID:              id,
		Title:           title,
		StartMinutes:    startMinutes,
		DurationMinutes: durationMinutes,
	}, true
}
