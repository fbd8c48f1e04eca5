package domain

import "time"

// Registration carries the fields a new patient signs up with. Username and
// phone are optional.
type Registration struct {
	Email     string
	Username  string
	Password  string
	FirstName string
	LastName  string
	Phone     string
}

// MedicalRecord is the health card of one patient. BMI is computed and
// stored by the database, never by this program.
type MedicalRecord struct {
	RecordID  int
	PatientID int
	FullName  string
	Info      string
	BirthDate time.Time
	Height    float64
	Weight    float64
	BMI       float64
}

// AppointmentInput is what staff supply when booking an appointment; the
// doctor is always the caller.
type AppointmentInput struct {
	Type        string
	PatientID   int
	Time        time.Time
	Room        int
	Description string
}

type Appointment struct {
	ID          int
	Type        string
	PatientID   int
	DoctorID    int
	PatientName string
	DoctorName  string
	Time        time.Time
	Room        int
	Description string
}

type Announcement struct {
	ID          int
	Title       string
	AuthorID    int
	AuthorEmail string
	Description string
}

type Bill struct {
	ID          int
	PatientID   int
	AuthorID    int
	Amount      float64
	Description string
}
