package custom_error

import (
	"fmt"
	"strings"
)

// InvalidRequestError covers malformed processing input: empty source list,
// missing output type/specie in manual mode, non-positive count.
type InvalidRequestError struct {
	Message string
}

func (e *InvalidRequestError) Error() string {
	return e.Message
}

// SourceNotFoundError means at least one requested source id did not resolve
// to an existing, non-deleted material. The operation must not run partially.
type SourceNotFoundError struct {
	Requested int
	Found     int
}

func (e *SourceNotFoundError) Error() string {
	return fmt.Sprintf("doar %d din %d materiale sursă au fost găsite", e.Found, e.Requested)
}

type UnknownProcessingTypeError struct {
	ID string
}

func (e *UnknownProcessingTypeError) Error() string {
	return fmt.Sprintf("tip de procesare necunoscut: %s", e.ID)
}

// IncompatibleSourceTypesError names the offending materials and the set of
// types the chosen processing type accepts.
type IncompatibleSourceTypesError struct {
	ProcessingTypeID string
	Expected         []string
	Offending        []string // human ids of the rejected materials
}

func (e *IncompatibleSourceTypesError) Error() string {
	return fmt.Sprintf(
		"materialele %s nu pot fi procesate prin %s (tipuri acceptate: %s)",
		strings.Join(e.Offending, ", "), e.ProcessingTypeID, strings.Join(e.Expected, ", "),
	)
}

type NotFoundError struct {
	Resource string
	ID       int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s cu id %d nu există", e.Resource, e.ID)
}

// PersistenceError wraps a failed store write. Outputs created before the
// failure are not retracted; callers see the operation as failed anyway.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
