package model

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/proptic/proptic/internal/api"
	"github.com/proptic/proptic/internal/ui/form"
)

const (
	idTypePassport = "passport_number"
	idTypeNational = "national_id"
)

var (
	passportPattern = regexp.MustCompile(`^[A-Z0-9]{6,9}$`)
	nationalPattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9\- ]{4,16}[A-Z0-9]$`)
)

var loginSchema = form.Rules(map[string][]form.Rule{
	"email": {
		form.Required("Email is required"),
		form.Email("Invalid email address"),
	},
	"password": {
		form.MinLength(8, "Password must be at least 8 characters"),
	},
})

var unitSchema = form.Merge(
	form.Rules(map[string][]form.Rule{
		"property_project": {form.UUID("Invalid project ID")},
		"unit_name":        {form.Required("Unit name is required")},
		"unit_type":        {form.OneOf("Invalid unit type", "apartment", "villa", "office", "shop", "")},
		"contract_type":    {form.OneOf("Invalid contract type", "rent", "sale", "lease")},
		"purpose":          {form.OneOf("Invalid purpose", "residential", "commercial", "")},
		"price": {
			form.Required("Price is required"),
			form.Positive("Price must be greater than 0"),
		},
	}),
	func(v form.Values) form.Errors {
		if v["is_listed_for_rent"] == "true" && v["is_listed_for_sale"] == "true" {
			return form.Errors{"is_listed_for_sale": "A unit cannot be listed for rent and for sale"}
		}
		return nil
	},
)

var tenantSchema = form.Merge(
	form.Rules(map[string][]form.Rule{
		"first_name":    {form.Required("First name is required")},
		"last_name":     {form.Required("Last name is required")},
		"email":         {form.Required("Email is required"), form.Email("Invalid email address")},
		"gender":        {form.OneOf("Invalid gender", "male", "female", "other", "")},
		"id_type":       {form.OneOf("Choose an ID type", idTypePassport, idTypeNational)},
		"id_number":     {form.Required("ID number is required")},
		"property_unit": {form.Required("Rental unit is required")},
		"tenancy_start_date": {
			form.Required("Start date is required"),
			form.ValidDate("Start date must be " + form.DateLayoutHint),
		},
		"tenancy_end_date": {
			form.Required("End date is required"),
			form.ValidDate("End date must be " + form.DateLayoutHint),
		},
	}),
	validateTenantID,
	validateTenancyDates,
)

func normalizeID(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func validateTenantID(v form.Values) form.Errors {
	id := normalizeID(v["id_number"])
	if id == "" {
		return nil
	}
	switch v["id_type"] {
	case idTypePassport:
		if !passportPattern.MatchString(id) {
			return form.Errors{"id_number": "Passport must be 6-9 uppercase letters or digits"}
		}
	case idTypeNational:
		if len(id) < 6 || len(id) > 18 || !nationalPattern.MatchString(id) {
			return form.Errors{"id_number": "National ID must be 6-18 letters, digits, spaces or hyphens"}
		}
	}
	return nil
}

func validateTenancyDates(v form.Values) form.Errors {
	start, err := form.ParseDate(v["tenancy_start_date"])
	if err != nil {
		return nil
	}
	end, err := form.ParseDate(v["tenancy_end_date"])
	if err != nil {
		return nil
	}
	if !end.After(start) {
		return form.Errors{"tenancy_end_date": "End date must be after the start date"}
	}
	return nil
}

func unitInput(v form.Values) api.UnitInput {
	price, _ := strconv.ParseFloat(strings.TrimSpace(v["price"]), 64)
	return api.UnitInput{
		PropertyProject: v["property_project"],
		UnitName:        strings.TrimSpace(v["unit_name"]),
		UnitType:        v["unit_type"],
		ContractType:    v["contract_type"],
		Purpose:         v["purpose"],
		Price:           price,
		Available:       v["available"] == "true",
		IsListedForRent: v["is_listed_for_rent"] == "true",
		IsListedForSale: v["is_listed_for_sale"] == "true",
		Amenities: api.Amenities{
			PrivatePool: v["private_pool"] == "true",
			Wifi:        v["wifi"] == "true",
			Gym:         v["gym"] == "true",
		},
	}
}

// unitValues is the inverse of unitInput for editing an existing unit.
func unitValues(u api.PropertyUnit) form.Values {
	amenity := func(k string) string {
		b, _ := u.Amenities[k].(bool)
		return strconv.FormatBool(b)
	}
	return form.Values{
		"property_project":   u.PropertyProject,
		"unit_name":          u.UnitName,
		"unit_type":          u.UnitType,
		"contract_type":      u.ContractType,
		"purpose":            u.Purpose,
		"price":              strconv.FormatFloat(float64(u.Price), 'f', -1, 64),
		"available":          strconv.FormatBool(u.Available),
		"is_listed_for_rent": strconv.FormatBool(u.IsListedForRent),
		"is_listed_for_sale": strconv.FormatBool(u.IsListedForSale),
		"private_pool":       amenity("private_pool"),
		"wifi":               amenity("wifi"),
		"gym":                amenity("gym"),
	}
}

func registerInput(v form.Values) api.RegisterInput {
	id := normalizeID(v["id_number"])
	in := api.RegisterInput{
		Email:     strings.ToLower(strings.TrimSpace(v["email"])),
		FirstName: strings.TrimSpace(v["first_name"]),
		LastName:  strings.TrimSpace(v["last_name"]),
		Gender:    v["gender"],
		Role:      api.RoleTenant,
	}
	if v["id_type"] == idTypeNational {
		in.NationalID = &id
	} else {
		in.PassportNumber = &id
	}
	return in
}

// firstErrors keeps the first message of each field error of the API.
func firstErrors(fields map[string][]string) form.Errors {
	if len(fields) == 0 {
		return nil
	}
	errs := form.Errors{}
	for k, msgs := range fields {
		if len(msgs) > 0 {
			errs[k] = msgs[0]
		}
	}
	return errs
}
