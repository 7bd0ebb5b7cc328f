package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// RequestType selects the details variant of a request.
type RequestType string

const (
	RequestTypeLeave    RequestType = "LEAVE"
	RequestTypeOvertime RequestType = "OVERTIME"
)

// RequestStatus is the review state of a request.
// PENDING moves once to APPROVED or REJECTED and never back.
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "PENDING"
	RequestStatusApproved RequestStatus = "APPROVED"
	RequestStatusRejected RequestStatus = "REJECTED"
)

// Terminal reports whether no further transition is allowed.
func (s RequestStatus) Terminal() bool {
	return s == RequestStatusApproved || s == RequestStatusRejected
}

// Valid reports whether s is one of the known statuses.
func (s RequestStatus) Valid() bool {
	return s == RequestStatusPending || s.Terminal()
}

// Details is the type-specific payload of a request.
// Implemented by LeaveDetails and OvertimeDetails only.
type Details interface {
	RequestType() RequestType
	Validate() error
}

// LeaveDetails describes a requested range of days off, both ends inclusive.
type LeaveDetails struct {
	StartDate Date   `json:"startDate"`
	EndDate   Date   `json:"endDate"`
	District  string `json:"district"`
	Reason    string `json:"reason"`
}

func (LeaveDetails) RequestType() RequestType { return RequestTypeLeave }

func (d LeaveDetails) Validate() error {
	switch {
	case d.StartDate.IsZero():
		return errors.New("start date is required")
	case d.EndDate.IsZero():
		return errors.New("end date is required")
	case d.District == "":
		return errors.New("district is required")
	}
	return nil
}

// OvertimeDetails describes extra hours worked on one day.
type OvertimeDetails struct {
	Date     Date    `json:"otDate"`
	Hours    float64 `json:"otHours"`
	Bank     string  `json:"bank"`
	District string  `json:"district"`
	Reason   string  `json:"reason"`
}

func (OvertimeDetails) RequestType() RequestType { return RequestTypeOvertime }

func (d OvertimeDetails) Validate() error {
	switch {
	case d.Date.IsZero():
		return errors.New("overtime date is required")
	case d.Hours <= 0:
		return errors.New("overtime hours must be positive")
	case d.District == "":
		return errors.New("district is required")
	}
	return nil
}

// Request is a leave or overtime request filed by an employee.
// UserName and EmployeeID are copied from the owner for display.
type Request struct {
	ID         string
	UserID     string
	UserName   string
	EmployeeID string
	Type       RequestType
	Status     RequestStatus
	Details    Details
	CreatedAt  time.Time
}

// Leave returns the leave payload when the request is a LEAVE request.
func (r Request) Leave() (LeaveDetails, bool) {
	d, ok := r.Details.(LeaveDetails)
	return d, ok
}

// Overtime returns the overtime payload when the request is an OVERTIME request.
func (r Request) Overtime() (OvertimeDetails, bool) {
	d, ok := r.Details.(OvertimeDetails)
	return d, ok
}

// requestJSON is the persisted shape; details are decoded according to type.
type requestJSON struct {
	ID         string          `json:"id"`
	UserID     string          `json:"userId"`
	UserName   string          `json:"userName"`
	EmployeeID string          `json:"employeeId"`
	Type       RequestType     `json:"type"`
	Status     RequestStatus   `json:"status"`
	Details    json.RawMessage `json:"details"`
	CreatedAt  time.Time       `json:"createdAt"`
}

func (r Request) MarshalJSON() ([]byte, error) {
	typ := r.Type
	details := json.RawMessage("null")
	if r.Details != nil {
		typ = r.Details.RequestType()
		b, err := json.Marshal(r.Details)
		if err != nil {
			return nil, err
		}
		details = b
	}
	return json.Marshal(requestJSON{
		ID:         r.ID,
		UserID:     r.UserID,
		UserName:   r.UserName,
		EmployeeID: r.EmployeeID,
		Type:       typ,
		Status:     r.Status,
		Details:    details,
		CreatedAt:  r.CreatedAt,
	})
}

func (r *Request) UnmarshalJSON(b []byte) error {
	var raw requestJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*r = Request{
		ID:         raw.ID,
		UserID:     raw.UserID,
		UserName:   raw.UserName,
		EmployeeID: raw.EmployeeID,
		Type:       raw.Type,
		Status:     raw.Status,
		CreatedAt:  raw.CreatedAt,
	}
	details, err := DecodeDetails(raw.Type, raw.Details)
	if err != nil {
		return fmt.Errorf("request %s: %w", raw.ID, err)
	}
	r.Details = details
	return nil
}

// DecodeDetails decodes a details payload into the variant for typ.
// An empty or null payload yields nil details.
func DecodeDetails(typ RequestType, b []byte) (Details, error) {
	if len(b) == 0 || string(b) == "null" {
		return nil, nil
	}
	switch typ {
	case RequestTypeLeave:
		var d LeaveDetails
		if err := json.Unmarshal(b, &d); err != nil {
			return nil, err
		}
		return d, nil
	case RequestTypeOvertime:
		var d OvertimeDetails
		if err := json.Unmarshal(b, &d); err != nil {
			return nil, err
		}
		return d, nil
	default:
		return nil, fmt.Errorf("unknown request type %q", typ)
	}
}
