package domain

import "time"

// Appointment statuses.
const (
	AppointmentPending   = "pending"
	AppointmentConfirmed = "confirmed"
	AppointmentCancelled = "cancelled"
	AppointmentCompleted = "completed"
)

// Appointment is a counseling booking request.
type Appointment struct {
	ID          string    `json:"id"          db:"id"`
	UserID      string    `json:"userId"      db:"user_id"`
	CounselorID string    `json:"counselorId" db:"counselor_id"`
	Date        string    `json:"date"        db:"date"`
	Time        string    `json:"time"        db:"time"`
	Reason      string    `json:"reason"      db:"reason"`
	Status      string    `json:"status"      db:"status"`
	CreatedAt   time.Time `json:"createdAt"   db:"created_at"`
}

// CounselingSession is a past or scheduled session in a student's history.
type CounselingSession struct {
	ID            string    `json:"id"            db:"id"`
	UserID        string    `json:"userId"        db:"user_id"`
	CounselorName string    `json:"counselorName" db:"counselor_name"`
	Date          time.Time `json:"date"          db:"date"`
	Status        string    `json:"status"        db:"status"`
}
