package diag

import (
	"fmt"

	"bindgen/internal/ir"
)

// Subject names the declaration a diagnostic is about.
type Subject struct {
	Item ir.ItemID
	Name string
}

func (s Subject) String() string {
	switch {
	case s.Name != "" && s.Item != ir.NoItemID:
		return fmt.Sprintf("%s#%d", s.Name, s.Item)
	case s.Name != "":
		return s.Name
	case s.Item != ir.NoItemID:
		return fmt.Sprintf("#%d", s.Item)
	}
	return "-"
}

type Note struct {
	Subject Subject
	Msg     string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Subject  Subject
	Notes    []Note
}

func New(sev Severity, code Code, subject Subject, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Subject:  subject,
		Message:  msg,
	}
}

func (d Diagnostic) WithNote(subject Subject, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Subject: subject, Msg: msg})
	return d
}
