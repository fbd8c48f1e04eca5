package terminal

import (
	"context"
	"fmt"
	"io"

	"github.com/nhsjdiwlcnsv/DBLabs/internal/core/domain"
	"github.com/nhsjdiwlcnsv/DBLabs/internal/core/ports"
)

// HelpText lists every command code per tier. Printed on startup and on g1.
const HelpText = `
    GUEST
        Authenticate ............................. g0
        Help ..................................... g1
        Log out .................................. g2

    STAFF
        View medical record by patient's id ...... s0
        Create appointment ....................... s1
        View appointments ........................ s2 (p2)
        Delete appointment ....................... s3
        Update appointment ....................... s4
        Create announcement ...................... s5
        View announcements ....................... s6
        Delete announcement (Admin) .............. s7
        Update announcement (Admin) .............. s8
        Create bill .............................. s9
        View bills ............................... s10
        Delete bill (Admin) ...................... s11

    PATIENT
        View medical record ...................... p0
        Update medical record .................... p1
        View appointments ........................ p2 (s2)

`

// Services bundles the operation handlers the command table dispatches to.
type Services struct {
	Auth          ports.AuthService
	Records       ports.RecordService
	Appointments  ports.AppointmentService
	Announcements ports.AnnouncementService
	Bills         ports.BillService
}

// NewCommandRegistry declares every command code, its required tier set and
// its handler. This table is the single source of truth for gating; the
// handlers behind it guard again before touching any state.
func NewCommandRegistry(svc Services, p *Prompter, out io.Writer) *Registry {
	r := NewRegistry()

	r.Register(&Command{
		Name:  "authenticate",
		Codes: []string{"g0"},
		Run: func(ctx context.Context, sess *domain.Session) error {
			return runAuthenticate(ctx, sess, svc.Auth, p, out)
		},
	})

	r.Register(&Command{
		Name:  "help",
		Codes: []string{"g1"},
		Run: func(ctx context.Context, sess *domain.Session) error {
			fmt.Fprint(out, HelpText)
			return nil
		},
	})

	r.Register(&Command{
		Name:     "log out",
		Codes:    []string{"g2"},
		Required: domain.Authenticated,
		Run: func(ctx context.Context, sess *domain.Session) error {
			if err := svc.Auth.Logout(ctx, sess); err != nil {
				return err
			}
			fmt.Fprintln(out, "\tLogged out.")
			return nil
		},
	})

	r.Register(&Command{
		Name:     "view own medical record",
		Codes:    []string{"p0"},
		Required: domain.PatientOnly,
		Run: func(ctx context.Context, sess *domain.Session) error {
			record, err := svc.Records.View(ctx, sess, 0)
			if err != nil {
				return err
			}
			renderRecord(out, record)
			return nil
		},
	})

	r.Register(&Command{
		Name:     "update own medical record",
		Codes:    []string{"p1"},
		Required: domain.PatientOnly,
		Run: func(ctx context.Context, sess *domain.Session) error {
			height, err := p.ReadFloat("\tHeight (cm): ")
			if err != nil {
				return err
			}
			weight, err := p.ReadFloat("\tWeight (kg): ")
			if err != nil {
				return err
			}
			return svc.Records.UpdateOwn(ctx, sess, height, weight)
		},
	})

	r.Register(&Command{
		Name:     "view medical record",
		Codes:    []string{"s0"},
		Required: domain.StaffOnly,
		Run: func(ctx context.Context, sess *domain.Session) error {
			patientID, err := p.ReadInt("    Patient's ID: ")
			if err != nil {
				return err
			}
			record, err := svc.Records.View(ctx, sess, patientID)
			if err != nil {
				return err
			}
			renderRecord(out, record)
			return nil
		},
	})

	r.Register(&Command{
		Name:     "create appointment",
		Codes:    []string{"s1"},
		Required: domain.StaffOnly,
		Run: func(ctx context.Context, sess *domain.Session) error {
			appointmentType, err := p.ReadLine("\tType of the appointment (refer to help if needed): ")
			if err != nil {
				return err
			}
			description, err := p.ReadLine("\tDescription: ")
			if err != nil {
				return err
			}
			fields, err := p.ReadFields("\tPatient ID, Room: ", 2)
			if err != nil {
				return err
			}
			patientID, err := parseInt(fields[0])
			if err != nil {
				return err
			}
			room, err := parseInt(fields[1])
			if err != nil {
				return err
			}
			at, err := p.ReadTime("\tDate & time (dd-mm-yyyy HH:MM): ")
			if err != nil {
				return err
			}
			return svc.Appointments.Create(ctx, sess, domain.AppointmentInput{
				Type:        appointmentType,
				PatientID:   patientID,
				Time:        at,
				Room:        room,
				Description: description,
			})
		},
	})

	r.Register(&Command{
		Name:     "view appointments",
		Codes:    []string{"s2", "p2"},
		Required: domain.Authenticated,
		Run: func(ctx context.Context, sess *domain.Session) error {
			appointments, err := svc.Appointments.List(ctx, sess)
			if err != nil {
				return err
			}
			for _, appointment := range appointments {
				renderAppointment(out, appointment)
			}
			return nil
		},
	})

	r.Register(&Command{
		Name:     "delete appointment",
		Codes:    []string{"s3"},
		Required: domain.StaffOnly,
		Run: func(ctx context.Context, sess *domain.Session) error {
			id, err := p.ReadInt("    Appointment ID: ")
			if err != nil {
				return err
			}
			return svc.Appointments.Delete(ctx, sess, id)
		},
	})

	r.Register(&Command{
		Name:     "update appointment",
		Codes:    []string{"s4"},
		Required: domain.StaffOnly,
		Run: func(ctx context.Context, sess *domain.Session) error {
			id, err := p.ReadInt("\tAppointment ID: ")
			if err != nil {
				return err
			}
			description, err := p.ReadLine("\tDescription: ")
			if err != nil {
				return err
			}
			room, err := p.ReadInt("\tRoom: ")
			if err != nil {
				return err
			}
			at, err := p.ReadTime("\tDate & time (dd-mm-yyyy HH:MM): ")
			if err != nil {
				return err
			}
			return svc.Appointments.Update(ctx, sess, id, description, room, at)
		},
	})

	r.Register(&Command{
		Name:     "create announcement",
		Codes:    []string{"s5"},
		Required: domain.StaffOnly,
		Run: func(ctx context.Context, sess *domain.Session) error {
			title, err := p.ReadLine("\tTitle: ")
			if err != nil {
				return err
			}
			description, err := p.ReadLine("\tDescription: ")
			if err != nil {
				return err
			}
			return svc.Announcements.Create(ctx, sess, title, description)
		},
	})

	r.Register(&Command{
		Name:     "view announcements",
		Codes:    []string{"s6"},
		Required: domain.Authenticated,
		Run: func(ctx context.Context, sess *domain.Session) error {
			announcements, err := svc.Announcements.List(ctx, sess)
			if err != nil {
				return err
			}
			for _, announcement := range announcements {
				renderAnnouncement(out, announcement)
			}
			return nil
		},
	})

	r.Register(&Command{
		Name:     "delete announcement",
		Codes:    []string{"s7"},
		Required: domain.AdminOnly,
		Run: func(ctx context.Context, sess *domain.Session) error {
			id, err := p.ReadInt("    Announcement ID: ")
			if err != nil {
				return err
			}
			return svc.Announcements.Delete(ctx, sess, id)
		},
	})

	r.Register(&Command{
		Name:     "update announcement",
		Codes:    []string{"s8"},
		Required: domain.AdminOnly,
		Run: func(ctx context.Context, sess *domain.Session) error {
			id, err := p.ReadInt("\tAnnouncement ID: ")
			if err != nil {
				return err
			}
			title, err := p.ReadLine("\tTitle: ")
			if err != nil {
				return err
			}
			description, err := p.ReadLine("\tDescription: ")
			if err != nil {
				return err
			}
			return svc.Announcements.Update(ctx, sess, id, title, description)
		},
	})

	r.Register(&Command{
		Name:     "create bill",
		Codes:    []string{"s9"},
		Required: domain.StaffOnly,
		Run: func(ctx context.Context, sess *domain.Session) error {
			patientID, err := p.ReadInt("\tPatient ID: ")
			if err != nil {
				return err
			}
			amount, err := p.ReadFloat("\tAmount: ")
			if err != nil {
				return err
			}
			description, err := p.ReadLine("\tDescription: ")
			if err != nil {
				return err
			}
			return svc.Bills.Create(ctx, sess, patientID, amount, description)
		},
	})

	r.Register(&Command{
		Name:     "view bills",
		Codes:    []string{"s10"},
		Required: domain.Authenticated,
		Run: func(ctx context.Context, sess *domain.Session) error {
			bills, err := svc.Bills.List(ctx, sess)
			if err != nil {
				return err
			}
			for _, bill := range bills {
				renderBill(out, bill)
			}
			return nil
		},
	})

	r.Register(&Command{
		Name:     "delete bill",
		Codes:    []string{"s11"},
		Required: domain.AdminOnly,
		Run: func(ctx context.Context, sess *domain.Session) error {
			id, err := p.ReadInt("    Bill ID: ")
			if err != nil {
				return err
			}
			return svc.Bills.Delete(ctx, sess, id)
		},
	})

	return r
}

func runAuthenticate(ctx context.Context, sess *domain.Session, auth ports.AuthService, p *Prompter, out io.Writer) error {
	fields, err := p.ReadFields("\tEnter user's email and password separated by space: ", 2)
	if err != nil {
		return err
	}
	ok, err := auth.Authenticate(ctx, sess, fields[0], fields[1])
	if err != nil {
		return err
	}
	if ok {
		name, err := auth.FullName(ctx, sess)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\tWelcome back, %s!\n", name)
		return nil
	}

	answer, err := p.ReadLine("\tLooks like there's no such user. Would you like to sign up? [y/*] ")
	if err != nil {
		return err
	}
	if answer != "y" {
		return nil
	}

	fields, err = p.ReadFields("\tEmail, username, password, first_name, last_name, phone: ", 5)
	if err != nil {
		return err
	}
	registration := domain.Registration{
		Email:     fields[0],
		Username:  fields[1],
		Password:  fields[2],
		FirstName: fields[3],
		LastName:  fields[4],
	}
	if len(fields) > 5 {
		registration.Phone = fields[5]
	}

	created, err := auth.Register(ctx, sess, registration)
	if err != nil {
		return err
	}
	if !created {
		fmt.Fprintln(out, "\tSign up failed.")
		return nil
	}
	name, err := auth.FullName(ctx, sess)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\tWelcome, %s!\n", name)
	return nil
}

func parseInt(field string) (int, error) {
	var n int
	if _, err := fmt.Sscanf(field, "%d", &n); err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", domain.ErrValidation, field)
	}
	return n, nil
}
