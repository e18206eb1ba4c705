package export

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/pfrederiksen/ugl-courses/internal/course"
)

// DefaultSubject is used when a request names no subject.
const DefaultSubject = "UGL-kurser"

// Columns are the summary table's headers, in order.
var Columns = []string{"Week", "Date", "Venue", "Location", "Price", "Source"}

// Request is a user's export of selected courses.
type Request struct {
	Recipient string          `json:"recipient" validate:"required,email"`
	Name      string          `json:"name" validate:"required"`
	Phone     string          `json:"phone,omitempty" validate:"omitempty,max=32"`
	Subject   string          `json:"subject,omitempty"`
	Selected  []course.Record `json:"selected" validate:"required,min=1"`
}

// Summary is a rendered export.
type Summary struct {
	RequestID   string          `json:"request_id"`
	Recipient   string          `json:"recipient"`
	Name        string          `json:"name"`
	Phone       string          `json:"phone,omitempty"`
	Subject     string          `json:"subject"`
	Columns     []string        `json:"columns"`
	Rows        [][]string      `json:"rows"`
	Records     []course.Record `json:"records"`
	TotalAmount int             `json:"total_amount"`
	Text        string          `json:"text"`
	HTML        string          `json:"html"`
}

var validate = validator.New()

// ValidationError lists the request fields that failed validation.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid export request: " + strings.Join(e.Fields, ", ")
}

// Build validates req and renders its summary. Every call gets a new request ID.
func Build(req Request) (*Summary, error) {
	req.Recipient = strings.TrimSpace(req.Recipient)
	req.Name = strings.TrimSpace(req.Name)
	req.Phone = strings.TrimSpace(req.Phone)

	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", strings.ToLower(fe.Field()), fe.Tag()))
			}
			return nil, &ValidationError{Fields: fields}
		}
		return nil, fmt.Errorf("validating export request: %w", err)
	}

	s := &Summary{
		RequestID: uuid.NewString(),
		Recipient: req.Recipient,
		Name:      req.Name,
		Phone:     req.Phone,
		Subject:   req.Subject,
		Columns:   append([]string(nil), Columns...),
		Rows:      make([][]string, 0, len(req.Selected)),
		Records:   make([]course.Record, 0, len(req.Selected)),
	}
	if s.Subject == "" {
		s.Subject = DefaultSubject
	}

	for _, rec := range req.Selected {
		s.Records = append(s.Records, rec.Clone())
		s.Rows = append(s.Rows, Row(rec))
		s.TotalAmount += rec.Price.Amount
	}

	s.Text = renderText(s)
	html, err := renderHTML(s)
	if err != nil {
		return nil, fmt.Errorf("rendering HTML summary: %w", err)
	}
	s.HTML = html

	return s, nil
}

// Row renders a record's cells in Columns order.
func Row(rec course.Record) []string {
	return []string{
		rec.WeekText(),
		rec.Dates.String(),
		rec.Venue,
		rec.Location,
		rec.Price.String(),
		rec.Source,
	}
}
