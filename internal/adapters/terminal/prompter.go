package terminal

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/nhsjdiwlcnsv/DBLabs/internal/core/domain"
)

// timeLayout matches the "dd-mm-yyyy HH:MM" format the prompts describe.
const timeLayout = "02-01-2006 15:04"

// Prompter reads interactive input fields. Parsing failures surface as
// validation errors and abort only the current command.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

func (p *Prompter) ReadLine(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (p *Prompter) ReadInt(prompt string) (int, error) {
	line, err := p.ReadLine(prompt)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", domain.ErrValidation, strings.TrimSpace(line))
	}
	return n, nil
}

func (p *Prompter) ReadFloat(prompt string) (float64, error) {
	line, err := p.ReadLine(prompt)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(line), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", domain.ErrValidation, strings.TrimSpace(line))
	}
	return f, nil
}

func (p *Prompter) ReadTime(prompt string) (time.Time, error) {
	line, err := p.ReadLine(prompt)
	if err != nil {
		return time.Time{}, err
	}
	at, err := time.Parse(timeLayout, strings.TrimSpace(line))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: the timestamp must look like %s", domain.ErrValidation, timeLayout)
	}
	return at, nil
}

// ReadFields reads one line and splits it on whitespace, requiring at least
// min fields.
func (p *Prompter) ReadFields(prompt string, min int) ([]string, error) {
	line, err := p.ReadLine(prompt)
	if err != nil {
		return nil, err
	}
	fields := strings.Fields(line)
	if len(fields) < min {
		return nil, fmt.Errorf("%w: expected at least %d fields", domain.ErrValidation, min)
	}
	return fields, nil
}
