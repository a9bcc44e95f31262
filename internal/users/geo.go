package users

import "sort"

// CountryArgentina is the only country profiles may hold.
const CountryArgentina = "Argentina"

var citiesByProvince = map[string][]string{
	"Buenos Aires":        {"La Plata", "Mar del Plata", "Bahía Blanca", "Tandil", "Pergamino"},
	"CABA":                {"CABA"},
	"Catamarca":           {"San Fernando del Valle de Catamarca", "Belén", "Andalgalá"},
	"Chaco":               {"Resistencia", "Presidencia Roque Sáenz Peña", "Villa Ángela"},
	"Chubut":              {"Rawson", "Comodoro Rivadavia", "Trelew", "Puerto Madryn"},
	"Córdoba":             {"Córdoba", "Villa Carlos Paz", "Río Cuarto", "Villa María"},
	"Corrientes":          {"Corrientes", "Goya", "Mercedes"},
	"Entre Ríos":          {"Paraná", "Concordia", "Gualeguaychú"},
	"Formosa":             {"Formosa", "Clorinda", "Pirané"},
	"Jujuy":               {"San Salvador de Jujuy", "Palpalá", "Perico"},
	"La Pampa":            {"Santa Rosa", "General Pico", "Toay"},
	"La Rioja":            {"La Rioja", "Chilecito", "Aimogasta"},
	"Mendoza":             {"Mendoza", "San Rafael", "Godoy Cruz", "Luján de Cuyo"},
	"Misiones":            {"Posadas", "Oberá", "Eldorado"},
	"Neuquén":             {"Neuquén", "Cutral Có", "Zapala"},
	"Río Negro":           {"Viedma", "Bariloche", "General Roca"},
	"Salta":               {"Salta", "Orán", "Tartagal"},
	"San Juan":            {"San Juan", "Rawson", "Chimbas"},
	"San Luis":            {"San Luis", "Villa Mercedes", "Merlo"},
	"Santa Cruz":          {"Río Gallegos", "Caleta Olivia", "El Calafate"},
	"Santa Fe":            {"Santa Fe", "Rosario", "Rafaela", "Venado Tuerto"},
	"Santiago del Estero": {"Santiago del Estero", "La Banda", "Termas de Río Hondo"},
	"Tierra del Fuego":    {"Ushuaia", "Río Grande", "Tolhuin"},
	"Tucumán":             {"San Miguel de Tucumán", "Tafí Viejo", "Concepción"},
}

// IsValidProvince reports whether the province is on the whitelist. Matching is exact.
func IsValidProvince(province string) bool {
	_, ok := citiesByProvince[province]
	return ok
}

// IsValidCity reports whether the city belongs to the province.
func IsValidCity(province, city string) bool {
	for _, candidate := range citiesByProvince[province] {
		if candidate == city {
			return true
		}
	}
	return false
}

// Provinces returns the whitelist in alphabetical order.
func Provinces() []string {
	out := make([]string, 0, len(citiesByProvince))
	for province := range citiesByProvince {
		out = append(out, province)
	}
	sort.Strings(out)
	return out
}
