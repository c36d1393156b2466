package kdb

import (
	"errors"
	"fmt"
)

// steps of the export handshake, used to tell which request failed
const (
	StepGrantSession  = "grant_session"
	StepSearchCourses = "search_courses"
	StepExportCSV     = "export_csv"
)

var ErrAlreadyExists = errors.New("destination already exists, remove it to download again")

// TransportError is a request that never got a response.
type TransportError struct {
	Step string
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: request failed: %s", e.Step, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// PortalError is a response the portal answered with its error page,
// usually with a 200 status.
type PortalError struct {
	Step    string
	Status  int
	Message string
}

func (e *PortalError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: portal returned an error page (status %d)", e.Step, e.Status)
	}
	return fmt.Sprintf("%s: portal returned an error page (status %d): %s", e.Step, e.Status, e.Message)
}

// IOError is a filesystem failure while storing the export.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}
