package feature

import "fmt"

// DecodeError is a coordinate literal that is not a usable number.
type DecodeError struct {
	Row      int
	Location string
	Field    string
	Lexical  string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("row %d (%s): ?%s: %v", e.Row, e.Location, e.Field, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Defect converts the error to a non-fatal defect.
func (e *DecodeError) Defect() Defect {
	return Defect{
		Row:      e.Row,
		Location: e.Location,
		Field:    e.Field,
		Value:    e.Lexical,
		Message:  e.Err.Error() + "; geometry dropped",
	}
}

// Defect is a problem with one feature that did not stop the run.
type Defect struct {
	Row      int    `json:"row"`
	Location string `json:"location"`
	Field    string `json:"field"`
	Value    string `json:"value"`
	Message  string `json:"message"`
}

func (d Defect) String() string {
	return fmt.Sprintf("row %d (%s): ?%s=%q: %s", d.Row, d.Location, d.Field, d.Value, d.Message)
}
