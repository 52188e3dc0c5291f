package models

import (
	"database/sql/driver"
	"time"

	"github.com/shopspring/decimal"
)

// Base model with common fields
type BaseModel struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// JSON field type for GORM
type JSON []byte

func (j JSON) Value() (driver.Value, error) {
	if j.IsNull() {
		return nil, nil
	}
	return string(j), nil
}

func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	switch s := value.(type) {
	case []byte:
		*j = append((*j)[0:0], s...)
	case string:
		*j = append((*j)[0:0], s...)
	}
	return nil
}

func (j JSON) MarshalJSON() ([]byte, error) {
	if j == nil {
		return []byte("null"), nil
	}
	return j, nil
}

func (j *JSON) UnmarshalJSON(data []byte) error {
	if j == nil {
		return nil
	}
	*j = append((*j)[0:0], data...)
	return nil
}

func (j JSON) IsNull() bool {
	return len(j) == 0 || string(j) == "null"
}

// User model
type User struct {
	BaseModel
	Email        string `json:"email" gorm:"size:255;not null;uniqueIndex"`
	PasswordHash string `json:"-" gorm:"size:255;not null"`
	FirstName    string `json:"first_name" gorm:"size:100;not null"`
	LastName     string `json:"last_name" gorm:"size:100;not null"`
	TimeZoneID   string `json:"time_zone_id" gorm:"size:100;not null;default:'UTC'"`
	IsActive     bool   `json:"is_active" gorm:"default:true"`

	// Relationships
	Calendars []Calendar `json:"calendars,omitempty" gorm:"foreignKey:OwnerUserID"`
}

// Calendar model
type Calendar struct {
	BaseModel
	OwnerUserID uint    `json:"owner_user_id" gorm:"not null;index"`
	Name        string  `json:"name" gorm:"size:200;not null"`
	Description *string `json:"description" gorm:"size:1000"`
	ColorHex    string  `json:"color_hex" gorm:"size:7;not null"`
	IsDefault   bool    `json:"is_default" gorm:"default:false"`

	// Relationships
	Owner    User                  `json:"owner,omitempty" gorm:"foreignKey:OwnerUserID"`
	Events   []Event               `json:"events,omitempty" gorm:"foreignKey:CalendarID"`
	Tasks    []TaskItem            `json:"tasks,omitempty" gorm:"foreignKey:CalendarID"`
	Sessions []PrivateClassSession `json:"sessions,omitempty" gorm:"foreignKey:CalendarID"`
}

// Event model
type Event struct {
	BaseModel
	CalendarID            uint      `json:"calendar_id" gorm:"not null;index"`
	CreatedByUserID       uint      `json:"created_by_user_id" gorm:"not null"`
	Title                 string    `json:"title" gorm:"size:255;not null"`
	Description           *string   `json:"description" gorm:"size:2000"`
	Location              *string   `json:"location" gorm:"size:500"`
	StartUtc              time.Time `json:"start_utc" gorm:"not null;index"`
	EndUtc                time.Time `json:"end_utc" gorm:"not null"`
	IsAllDay              bool      `json:"is_all_day" gorm:"default:false"`
	RepeatType            string    `json:"repeat_type" gorm:"size:20;not null;default:'None'"` // None, Daily, Weekly, Monthly
	ReminderMinutesBefore *int      `json:"reminder_minutes_before"`
	Status                string    `json:"status" gorm:"size:20;not null;default:'Planned'"` // Planned, Cancelled

	// Relationships
	Calendar  Calendar `json:"calendar,omitempty" gorm:"foreignKey:CalendarID"`
	CreatedBy User     `json:"created_by,omitempty" gorm:"foreignKey:CreatedByUserID"`
}

// TaskItem model
type TaskItem struct {
	BaseModel
	CalendarID            uint       `json:"calendar_id" gorm:"not null;index"`
	CreatedByUserID       uint       `json:"created_by_user_id" gorm:"not null"`
	Title                 string     `json:"title" gorm:"size:255;not null"`
	Description           *string    `json:"description" gorm:"size:2000"`
	DueUtc                *time.Time `json:"due_utc" gorm:"index"`
	Priority              string     `json:"priority" gorm:"size:20;not null;default:'Medium'"` // Low, Medium, High
	Status                string     `json:"status" gorm:"size:20;not null;default:'Todo'"`     // Todo, InProgress, Done
	CompletedAtUtc        *time.Time `json:"completed_at_utc"`
	ReminderMinutesBefore *int       `json:"reminder_minutes_before"`

	// Relationships
	Calendar  Calendar `json:"calendar,omitempty" gorm:"foreignKey:CalendarID"`
	CreatedBy User     `json:"created_by,omitempty" gorm:"foreignKey:CreatedByUserID"`
}

// PrivateClassSession model
type PrivateClassSession struct {
	BaseModel
	CalendarID            uint            `json:"calendar_id" gorm:"not null;index"`
	CreatedByUserID       uint            `json:"created_by_user_id" gorm:"not null"`
	StudentName           string          `json:"student_name" gorm:"size:200;not null"`
	StudentContact        *string         `json:"student_contact" gorm:"size:500"`
	SessionStartUtc       time.Time       `json:"session_start_utc" gorm:"not null;index"`
	SessionEndUtc         time.Time       `json:"session_end_utc" gorm:"not null"`
	TopicPlanned          *string         `json:"topic_planned" gorm:"size:1000"`
	TopicDone             *string         `json:"topic_done" gorm:"size:1000"`
	HomeworkAssigned      *string         `json:"homework_assigned" gorm:"size:1000"`
	PriceAmount           decimal.Decimal `json:"price_amount" gorm:"type:decimal(10,2);not null"`
	CurrencyCode          string          `json:"currency_code" gorm:"size:3;not null"`
	IsPaid                bool            `json:"is_paid" gorm:"default:false"`
	PaidAtUtc             *time.Time      `json:"paid_at_utc"`
	PaymentMethod         *string         `json:"payment_method" gorm:"size:20"` // Cash, Card, Transfer
	PaymentNote           *string         `json:"payment_note" gorm:"size:1000"`
	Status                string          `json:"status" gorm:"size:20;not null;default:'Scheduled'"` // Scheduled, Completed, Cancelled, NoShow

	// Relationships
	Calendar  Calendar `json:"calendar,omitempty" gorm:"foreignKey:CalendarID"`
	CreatedBy User     `json:"created_by,omitempty" gorm:"foreignKey:CreatedByUserID"`
}

// Notification model for reminder delivery
type Notification struct {
	BaseModel
	UserID  uint       `json:"user_id" gorm:"not null;index"`
	Title   string     `json:"title" gorm:"size:255;not null"`
	Message string     `json:"message" gorm:"type:text;not null"`
	Type    string     `json:"type" gorm:"size:50;not null;default:'reminder'"` // reminder, info
	Read    bool       `json:"read" gorm:"default:false"`
	ReadAt  *time.Time `json:"read_at"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// Log model for activity tracking
type ActivityLog struct {
	BaseModel
	UserID     uint   `json:"user_id"`
	Action     string `json:"action" gorm:"size:100;not null"`
	Resource   string `json:"resource" gorm:"size:100;not null"`
	ResourceID uint   `json:"resource_id"`
	Details    JSON   `json:"details" gorm:"type:json"`
	IPAddress  string `json:"ip_address" gorm:"size:45"`
	UserAgent  string `json:"user_agent" gorm:"size:500"`
}
