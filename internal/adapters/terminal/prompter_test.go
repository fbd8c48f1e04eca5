package terminal

import (
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/nhsjdiwlcnsv/DBLabs/internal/core/domain"
)

func TestReadTime(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{
			name:  "valid",
			input: "01-03-2026 10:30\n",
			want:  time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC),
		},
		{name: "wrong_order", input: "2026-03-01 10:30\n", wantErr: true},
		{name: "garbage", input: "tomorrow\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPrompter(strings.NewReader(tt.input), io.Discard)
			got, err := p.ReadTime("when: ")
			if tt.wantErr {
				if !errors.Is(err, domain.ErrValidation) {
					t.Fatalf("ReadTime() error = %v, want ErrValidation", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ReadTime() error = %v", err)
			}
			if !got.Equal(tt.want) {
				t.Fatalf("ReadTime() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReadFields(t *testing.T) {
	p := NewPrompter(strings.NewReader("a@x.com  secret \nlonely\n"), io.Discard)

	fields, err := p.ReadFields("creds: ", 2)
	if err != nil {
		t.Fatalf("ReadFields() error = %v", err)
	}
	if len(fields) != 2 || fields[0] != "a@x.com" || fields[1] != "secret" {
		t.Fatalf("ReadFields() = %v", fields)
	}

	if _, err := p.ReadFields("creds: ", 2); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("short line error = %v, want ErrValidation", err)
	}
}

func TestReadNumbers(t *testing.T) {
	p := NewPrompter(strings.NewReader("42\nnope\n3.14\n"), io.Discard)

	n, err := p.ReadInt("n: ")
	if err != nil || n != 42 {
		t.Fatalf("ReadInt() = %d, %v", n, err)
	}
	if _, err := p.ReadInt("n: "); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("bad int error = %v, want ErrValidation", err)
	}
	f, err := p.ReadFloat("f: ")
	if err != nil || f != 3.14 {
		t.Fatalf("ReadFloat() = %v, %v", f, err)
	}
}
