package terminal

import (
	"fmt"
	"io"

	"github.com/nhsjdiwlcnsv/DBLabs/internal/core/domain"
)

// Plain fixed-width boxes; the terminal is a text surface, nothing more.
// BMI, height and weight always print with 2 decimal places.

func renderRecord(w io.Writer, record *domain.MedicalRecord) {
	fmt.Fprintf(w, "        %s\n", record.Info)
	fmt.Fprintln(w, "        +-----------------------------------------+")
	fmt.Fprintf(w, "        | RECORD ID:          %-19s |\n", fmt.Sprintf("%04d", record.RecordID))
	fmt.Fprintf(w, "        | PATIENT ID:         %-19s |\n", fmt.Sprintf("%04d", record.PatientID))
	fmt.Fprintf(w, "        | FULL NAME:          %-19s |\n", record.FullName)
	fmt.Fprintf(w, "        | BIRTH DATE:         %-19s |\n", record.BirthDate.Format("2006-01-02"))
	fmt.Fprintf(w, "        | WEIGHT:             %-16.2f kg |\n", record.Weight)
	fmt.Fprintf(w, "        | HEIGHT:             %-16.2f cm |\n", record.Height)
	fmt.Fprintf(w, "        | BODY MASS INDEX:    %-19.2f |\n", record.BMI)
	fmt.Fprintln(w, "        +-----------------------------------------+")
}

func renderAppointment(w io.Writer, a domain.Appointment) {
	fmt.Fprintf(w, "        %s\n", a.Description)
	fmt.Fprintln(w, "        +------------------------------------------------------+")
	fmt.Fprintf(w, "        | APPOINTMENT ID:       %-30s |\n", fmt.Sprintf("%05d", a.ID))
	fmt.Fprintf(w, "        | TYPE:                 %-30s |\n", a.Type)
	fmt.Fprintf(w, "        | PATIENT:              %-30s |\n", a.PatientName)
	fmt.Fprintf(w, "        | DOCTOR:               %-30s |\n", a.DoctorName)
	fmt.Fprintf(w, "        | TIME:                 %-30s |\n", a.Time.Format("2006-01-02 15:04"))
	fmt.Fprintf(w, "        | ROOM:                 %-30d |\n", a.Room)
	fmt.Fprintln(w, "        +------------------------------------------------------+")
	fmt.Fprintln(w)
}

func renderAnnouncement(w io.Writer, a domain.Announcement) {
	fmt.Fprintln(w, "        +---------------------------------------------------+")
	fmt.Fprintf(w, "        | ID     | %-40s |\n", fmt.Sprintf("%05d", a.ID))
	fmt.Fprintf(w, "        | Title  | %-40s |\n", a.Title)
	fmt.Fprintf(w, "        | Author | %-40s |\n", a.AuthorEmail)
	fmt.Fprintln(w, "        +---------------------------------------------------+")
	fmt.Fprintf(w, "        %s\n\n", a.Description)
}

func renderBill(w io.Writer, b domain.Bill) {
	fmt.Fprintln(w, "        +---------------------------------------------------+")
	fmt.Fprintf(w, "        | BILL ID:    %-37s |\n", fmt.Sprintf("%05d", b.ID))
	fmt.Fprintf(w, "        | PATIENT ID: %-37s |\n", fmt.Sprintf("%04d", b.PatientID))
	fmt.Fprintf(w, "        | ISSUED BY:  %-37s |\n", fmt.Sprintf("%04d", b.AuthorID))
	fmt.Fprintf(w, "        | AMOUNT:     %-37.2f |\n", b.Amount)
	fmt.Fprintln(w, "        +---------------------------------------------------+")
	fmt.Fprintf(w, "        %s\n\n", b.Description)
}
