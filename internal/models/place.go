package models

// Place is a resolved location with its display name, country and coordinates.
// IP and Org carry network metadata and are only set when the place was
// inferred from the caller's address.
type Place struct {
	Name    string  `json:"name"`
	Country string  `json:"country"`
	Lat     float64 `json:"latitude"`
	Lon     float64 `json:"longitude"`
	IP      string  `json:"ip,omitempty"`
	Org     string  `json:"org,omitempty"`
}

// ValidCoordinates reports whether lat/lon are within geographic bounds.
func ValidCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// WithPlaceOf returns p with the place fields of other and p's network fields.
func (p Place) WithPlaceOf(other Place) Place {
	p.Name = other.Name
	p.Country = other.Country
	p.Lat = other.Lat
	p.Lon = other.Lon
	return p
}

// Label formats the place as "name, country".
func (p Place) Label() string {
	if p.Country == "" {
		return p.Name
	}
	return p.Name + ", " + p.Country
}
