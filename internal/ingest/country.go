package ingest

import "github.com/biter777/countries"

// ConvertCountryNameToCode resolves a country name to its ISO 3166-1
// alpha-2 code. Two-letter inputs are assumed to already be codes. Returns
// "" when the name cannot be resolved.
func ConvertCountryNameToCode(country string) string {
	if len(country) == 2 {
		return country
	}
	code := countries.ByName(country)
	if code == countries.Unknown {
		return ""
	}
	return code.Alpha2()
}
