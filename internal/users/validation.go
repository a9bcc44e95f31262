package users

import (
	"regexp"
	"strings"

	pkgerrors "github.com/carshop-ar/carshop-backend/pkg/errors"
)

var (
	phonePattern      = regexp.MustCompile(`^\d{7,15}$`)
	dniPattern        = regexp.MustCompile(`^\d{7,12}$`)
	postalCodePattern = regexp.MustCompile(`^\d{3,10}$`)
)

const (
	maxAddressLen = 200
	maxCityLen    = 100
)

// ProfileFields is the full set of editable profile values.
type ProfileFields struct {
	Phone        string
	DNI          string
	AddressLine1 string
	AddressLine2 string
	City         string
	Province     string
	PostalCode   string
	Country      string
}

// Normalize trims every field and fixes the country.
func (p ProfileFields) Normalize() ProfileFields {
	return ProfileFields{
		Phone:        strings.TrimSpace(p.Phone),
		DNI:          strings.TrimSpace(p.DNI),
		AddressLine1: strings.TrimSpace(p.AddressLine1),
		AddressLine2: strings.TrimSpace(p.AddressLine2),
		City:         strings.TrimSpace(p.City),
		Province:     strings.TrimSpace(p.Province),
		PostalCode:   strings.TrimSpace(p.PostalCode),
		Country:      strings.TrimSpace(p.Country),
	}
}

// ValidateProfile checks formats and the province/city whitelist. Field errors
// are collected into the details map keyed by json field name.
func ValidateProfile(p ProfileFields) error {
	details := map[string]string{}
	if !phonePattern.MatchString(p.Phone) {
		details["phone"] = "El teléfono debe tener entre 7 y 15 dígitos."
	}
	if !dniPattern.MatchString(p.DNI) {
		details["dni"] = "El DNI debe tener entre 7 y 12 dígitos."
	}
	if p.AddressLine1 == "" {
		details["address_line1"] = "La dirección es obligatoria."
	} else if len([]rune(p.AddressLine1)) > maxAddressLen {
		details["address_line1"] = "La dirección es demasiado larga."
	}
	if len([]rune(p.AddressLine2)) > maxAddressLen {
		details["address_line2"] = "La dirección es demasiado larga."
	}
	if !postalCodePattern.MatchString(p.PostalCode) {
		details["postal_code"] = "El código postal debe tener entre 3 y 10 dígitos."
	}
	if !IsValidProvince(p.Province) {
		details["province"] = "Provincia inválida."
	} else if len([]rune(p.City)) > maxCityLen || !IsValidCity(p.Province, p.City) {
		details["city"] = "Ciudad inválida para la provincia seleccionada."
	}
	if p.Country != "" && !strings.EqualFold(p.Country, CountryArgentina) {
		details["country"] = "El país debe ser Argentina."
	}

	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "datos de perfil inválidos").WithDetails(details)
	}
	return nil
}
