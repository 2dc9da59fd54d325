package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ID is an opaque backend identifier. The API returns numeric ids for most
// entities but some endpoints echo them back as strings, so both decode.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// FlexInt decodes from a JSON number, a numeric string, or null.
// Fractional values are truncated toward zero.
type FlexInt int

func (v *FlexInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*v = 0
		return nil
	}
	s := string(b)
	if b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*v = 0
			return nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("flexint %q: %w", s, err)
	}
	*v = FlexInt(int(f))
	return nil
}

// FlexBool decodes from a JSON bool, 0/1, a numeric or "true"/"false"
// string, or null.
type FlexBool bool

func (v *FlexBool) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	s := string(b)
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "null", "false", "0":
		*v = false
		return nil
	case "true", "1":
		*v = true
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("flexbool %q: %w", s, err)
	}
	*v = f != 0
	return nil
}

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusOnHold     Status = "on_hold"
)

// KnownStatuses lists the statuses the backend defines, in board order.
var KnownStatuses = []Status{StatusPending, StatusInProgress, StatusCompleted, StatusOnHold}

// Normalize lowercases and trims s. An empty status reads as pending.
func (s Status) Normalize() Status {
	v := Status(strings.ToLower(strings.TrimSpace(string(s))))
	if v == "" {
		return StatusPending
	}
	return v
}

func (s Status) Label() string {
	switch s.Normalize() {
	case StatusPending:
		return "Pending"
	case StatusInProgress:
		return "In Progress"
	case StatusCompleted:
		return "Completed"
	case StatusOnHold:
		return "On Hold"
	}
	return strings.ReplaceAll(string(s), "_", " ")
}

type NamedRef struct {
	ID   ID     `json:"id,omitempty"`
	Name string `json:"name"`
}

type Project struct {
	ID            ID        `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	Status        Status    `json:"status,omitempty"`
	Priority      string    `json:"priority,omitempty"`
	Progress      FlexInt   `json:"progress"`
	StartDate     *string   `json:"start_date,omitempty"`
	EndDate       *string   `json:"end_date,omitempty"`
	Vendor        *NamedRef `json:"vendor,omitempty"`
	VendorID      ID        `json:"vendor_id,omitempty"`
	ProjectType   *NamedRef `json:"project_type,omitempty"`
	ProjectTypeID ID        `json:"project_type_id,omitempty"`
	IsArchived    FlexBool  `json:"is_archived,omitempty"`
}

// ProjectInput is the body of create/update project requests. Blank fields
// are left out, as the web client does.
type ProjectInput struct {
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	ProjectTypeID string `json:"project_type_id,omitempty"`
	VendorID      string `json:"vendor_id,omitempty"`
	Priority      string `json:"priority,omitempty"`
	StartDate     string `json:"start_date,omitempty"`
	EndDate       string `json:"end_date,omitempty"`
	Status        Status `json:"status,omitempty"`
	Progress      int    `json:"progress"`
	IsArchived    bool   `json:"is_archived"`
}

type ProjectType struct {
	ID       ID       `json:"id"`
	Name     string   `json:"name"`
	IsActive FlexBool `json:"is_active"`
}

// TypeInput is the body for project type and planning type writes.
type TypeInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IsActive    bool   `json:"is_active"`
}

type PlanningType struct {
	ID          ID       `json:"id"`
	Name        string   `json:"name"`
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	IsActive    FlexBool `json:"is_active"`
}

// DisplayName prefers name over title.
func (t PlanningType) DisplayName() string {
	if s := strings.TrimSpace(t.Name); s != "" {
		return s
	}
	return strings.TrimSpace(t.Title)
}

type PlanningItem struct {
	ID              ID        `json:"id"`
	ProjectID       ID        `json:"project_id,omitempty"`
	PlanningTypeID  ID        `json:"planning_type_id,omitempty"`
	PlanningType    *NamedRef `json:"planning_type,omitempty"`
	Description     string    `json:"description,omitempty"`
	Title           string    `json:"title,omitempty"`
	Name            string    `json:"name,omitempty"`
	StartDate       *string   `json:"start_date"`
	EndDate         *string   `json:"end_date"`
	Progress        FlexInt   `json:"progress"`
	Status          Status    `json:"status,omitempty"`
	ExcludeWeekends bool      `json:"exclude_weekends"`
	ExcludeHolidays bool      `json:"exclude_holidays"`
}

// Label falls back through description, title and name.
func (p PlanningItem) Label() string {
	for _, s := range []string{p.Description, p.Title, p.Name} {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return "Untitled"
}

func (p PlanningItem) PlanningTypeName() string {
	if p.PlanningType == nil {
		return ""
	}
	return strings.TrimSpace(p.PlanningType.Name)
}

// PlanningInput is the body of add/update planning requests.
// The backend expects ids and progress as strings.
type PlanningInput struct {
	ProjectID       string `json:"project_id"`
	PlanningTypeID  string `json:"planning_type_id"`
	Description     string `json:"description"`
	StartDate       string `json:"start_date"`
	EndDate         string `json:"end_date"`
	ExcludeWeekends bool   `json:"exclude_weekends"`
	ExcludeHolidays bool   `json:"exclude_holidays"`
	Progress        string `json:"progress"`
	Status          Status `json:"status"`
}

type Module struct {
	ID            ID      `json:"id"`
	ProjectID     ID      `json:"project_id,omitempty"`
	Name          string  `json:"name"`
	Description   string  `json:"description,omitempty"`
	EstimatedDays FlexInt `json:"estimated_days"`
	Status        Status  `json:"status"`
	IsCompleted   bool    `json:"is_completed"`
	CompletedAt   *string `json:"completed_at"`
}

// ModuleInput is the body of add/update module requests. CompletedAt is
// serialized as null when unset.
type ModuleInput struct {
	ProjectID     string  `json:"project_id,omitempty"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	EstimatedDays int     `json:"estimated_days"`
	Status        Status  `json:"status"`
	IsCompleted   bool    `json:"is_completed"`
	CompletedAt   *string `json:"completed_at"`
}

type User struct {
	ID            ID       `json:"id"`
	Name          string   `json:"name"`
	FirstName     string   `json:"first_name,omitempty"`
	Email         string   `json:"email,omitempty"`
	Phone         string   `json:"phone,omitempty"`
	Gender        string   `json:"gender,omitempty"`
	UserType      string   `json:"user_type,omitempty"`
	EmployeeCode  string   `json:"employee_code,omitempty"`
	HRMID         string   `json:"hrm_id,omitempty"`
	DepartmentID  ID       `json:"department_id,omitempty"`
	DesignationID ID       `json:"designation_id,omitempty"`
	Wing          string   `json:"wing,omitempty"`
	Address       string   `json:"address,omitempty"`
	IsActive      FlexBool `json:"is_active"`
}

// UserInput is the body of add/update user requests. The backend wants
// is_active as 1 or 0; an empty password keeps the current one.
type UserInput struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone,omitempty"`
	Gender        string `json:"gender,omitempty"`
	EmployeeCode  string `json:"employee_code,omitempty"`
	HRMID         string `json:"hrm_id,omitempty"`
	DepartmentID  string `json:"department_id,omitempty"`
	DesignationID string `json:"designation_id,omitempty"`
	Wing          string `json:"wing,omitempty"`
	Address       string `json:"address,omitempty"`
	IsActive      int    `json:"is_active"`
	Password      string `json:"password,omitempty"`
}

func (u User) DisplayName() string {
	if s := strings.TrimSpace(u.Name); s != "" {
		return s
	}
	if s := strings.TrimSpace(u.FirstName); s != "" {
		return s
	}
	return strings.TrimSpace(u.Email)
}

// ManpowerEntry is one row of a project's team. Depending on the backend
// version the user is either nested or the row is the user itself.
type ManpowerEntry struct {
	ID     ID     `json:"id"`
	UserID ID     `json:"user_id,omitempty"`
	User   *User  `json:"user,omitempty"`
	Name   string `json:"name,omitempty"`
	Email  string `json:"email,omitempty"`
}

// Member flattens the entry into a user.
func (e ManpowerEntry) Member() User {
	if e.User != nil {
		u := *e.User
		if u.ID == "" {
			u.ID = e.UserID
		}
		return u
	}
	id := e.UserID
	if id == "" {
		id = e.ID
	}
	return User{ID: id, Name: e.Name, Email: e.Email}
}

type Vendor struct {
	ID           ID       `json:"id"`
	Name         string   `json:"name"`
	CompanyName  string   `json:"company_name,omitempty"`
	Email        string   `json:"email,omitempty"`
	Phone        string   `json:"phone,omitempty"`
	Website      string   `json:"website,omitempty"`
	TaxID        string   `json:"tax_id,omitempty"`
	AddressLine1 string   `json:"address_line_1,omitempty"`
	AddressLine2 string   `json:"address_line_2,omitempty"`
	City         string   `json:"city,omitempty"`
	State        string   `json:"state,omitempty"`
	Country      string   `json:"country,omitempty"`
	PostalCode   string   `json:"postal_code,omitempty"`
	IsActive     FlexBool `json:"is_active"`
}

// VendorInput is the body of add/update vendor requests.
type VendorInput struct {
	Name         string `json:"name"`
	CompanyName  string `json:"company_name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Website      string `json:"website"`
	TaxID        string `json:"tax_id"`
	AddressLine1 string `json:"address_line_1"`
	AddressLine2 string `json:"address_line_2"`
	City         string `json:"city"`
	State        string `json:"state"`
	Country      string `json:"country"`
	PostalCode   string `json:"postal_code"`
	IsActive     bool   `json:"is_active"`
}

type Holiday struct {
	ID    ID     `json:"id"`
	Title string `json:"title"`
	Date  string `json:"date"`
}

type Department struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

type Designation struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

// Session is what the client keeps after a successful login.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
