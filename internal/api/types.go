package api

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Role names seeded by the platform.
const (
	RoleAdmin        = "admin"
	RoleTenant       = "tenant"
	RoleManager      = "manager"
	RoleStaff        = "staff"
	RoleReceptionist = "receptionist"
)

// Page is the envelope of paginated list endpoints.
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// Decimal is a number the API serializes as a string, like "1200.00".
type Decimal float64

func (d *Decimal) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid decimal %s: %w", b, err)
	}
	*d = Decimal(f)
	return nil
}

func (d Decimal) MarshalJSON() ([]byte, error) {
	return json.Marshal(float64(d))
}

type Role struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
}

// Label is the display name, or the name when it has none.
func (r Role) Label() string {
	if r.DisplayName != "" {
		return r.DisplayName
	}
	return r.Name
}

// UserTenancy is the active tenancy embedded in a user.
type UserTenancy struct {
	PropertyUnitID   string `json:"property_unit_id"`
	PropertyUnitName string `json:"property_unit_name"`
	StartDate        string `json:"tenancy_start_date"`
	EndDate          string `json:"tenancy_end_date"`
}

type User struct {
	ID             string       `json:"id"`
	Email          string       `json:"email"`
	FirstName      string       `json:"first_name"`
	LastName       string       `json:"last_name"`
	Gender         string       `json:"gender"`
	FullName       string       `json:"full_name"`
	NationalID     string       `json:"national_id"`
	PassportNumber string       `json:"passport_number"`
	Roles          []Role       `json:"roles"`
	Tenancy        *UserTenancy `json:"tenancy"`
	IsActive       bool         `json:"is_active"`
	IsStaff        bool         `json:"is_staff"`
}

// Tenant is a tenant user flattened with its active tenancy.
type Tenant struct {
	ID             string `json:"id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Email          string `json:"email"`
	Gender         string `json:"gender"`
	NationalID     string `json:"national_id"`
	PassportNumber string `json:"passport_number"`
	UnitID         string `json:"property_unit_id"`
	UnitName       string `json:"property_unit_name"`
	StartDate      string `json:"tenancy_start_date"`
	EndDate        string `json:"tenancy_end_date"`
}

// Tenant flattens u.
func (u User) Tenant() Tenant {
	t := Tenant{
		ID:             u.ID,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Email:          u.Email,
		Gender:         u.Gender,
		NationalID:     u.NationalID,
		PassportNumber: u.PassportNumber,
	}
	if u.Tenancy != nil {
		t.UnitID = u.Tenancy.PropertyUnitID
		t.UnitName = u.Tenancy.PropertyUnitName
		t.StartDate = u.Tenancy.StartDate
		t.EndDate = u.Tenancy.EndDate
	}
	return t
}

// ProjectRef is the short form of a project.
type ProjectRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Profile is the signed in user.
type Profile struct {
	User            User        `json:"user"`
	PropertyProject *ProjectRef `json:"property_project"`
}

type LoginResult struct {
	Token  string   `json:"token"`
	UserID string   `json:"user_id"`
	Email  string   `json:"email"`
	Roles  []string `json:"roles"`
}

type PropertyProject struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Address     string `json:"address"`
	Description string `json:"description"`
}

type PropertyUnit struct {
	ID                  string         `json:"id"`
	PropertyProject     string         `json:"property_project"`
	PropertyProjectName string         `json:"property_project_name"`
	UnitName            string         `json:"unit_name"`
	UnitType            string         `json:"unit_type"`
	Purpose             string         `json:"purpose"`
	ContractType        string         `json:"contract_type"`
	Price               Decimal        `json:"price"`
	Available           bool           `json:"available"`
	IsListedForRent     bool           `json:"is_listed_for_rent"`
	IsListedForSale     bool           `json:"is_listed_for_sale"`
	Amenities           map[string]any `json:"amenities"`
	CreatedAt           time.Time      `json:"created_at"`
}

// Amenities of a unit as written by the unit form.
type Amenities struct {
	PrivatePool bool `json:"private_pool"`
	Wifi        bool `json:"wifi"`
	Gym         bool `json:"gym"`
}

// UnitInput is the body of unit create and update calls.
type UnitInput struct {
	PropertyProject string    `json:"property_project"`
	UnitName        string    `json:"unit_name"`
	UnitType        string    `json:"unit_type"`
	ContractType    string    `json:"contract_type"`
	Purpose         string    `json:"purpose"`
	Price           float64   `json:"price"`
	Available       bool      `json:"available"`
	IsListedForRent bool      `json:"is_listed_for_rent"`
	IsListedForSale bool      `json:"is_listed_for_sale"`
	Amenities       Amenities `json:"amenities"`
}

// RegisterInput is the body of the user registration call.
type RegisterInput struct {
	Email          string  `json:"email"`
	Password       string  `json:"password,omitempty"`
	FirstName      string  `json:"first_name"`
	LastName       string  `json:"last_name"`
	Gender         string  `json:"gender,omitempty"`
	NationalID     *string `json:"national_id"`
	PassportNumber *string `json:"passport_number"`
	Role           string  `json:"role,omitempty"`
}

type RegisterResult struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	User    User   `json:"user"`
}

// Tenancy links a tenant to a unit.
type Tenancy struct {
	ID             string  `json:"id,omitempty"`
	TenantID       string  `json:"tenant_id"`
	PropertyUnitID string  `json:"property_unit_id"`
	StartDate      string  `json:"tenancy_start_date"`
	EndDate        string  `json:"tenancy_end_date"`
	MonthlyRent    Decimal `json:"monthly_rent,omitempty"`
	Active         bool    `json:"active"`
}
