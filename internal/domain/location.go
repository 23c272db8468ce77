package domain

// A single geotagged photo. Image is the public path of the stored file
// ("images/<filename>"). A location has no identity beyond its position
// in the document.
type Location struct {
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Image string  `json:"image"`
}

// Report whether both records describe the exact same (lat, lng, image) triple.
func (l Location) Same(other Location) bool {
	return l.Lat == other.Lat && l.Lng == other.Lng && l.Image == other.Image
}

func (l Location) Coordinates() Coordinates { return Coordinates{Lat: l.Lat, Lng: l.Lng} }
