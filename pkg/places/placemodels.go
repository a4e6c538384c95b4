// Package places holds the place catalog model and the pure operations on it:
// distance, proximity sorting and user list membership.
package places

import (
	"encoding/json"
	"fmt"
)

// Coordinate is a latitude/longitude pair in decimal degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%.5f,%.5f", c.Lat, c.Lon)
}

// Image is a reference to a place's picture. The backend may send either a
// bare string or an object with src and alt.
type Image struct {
	Src string `json:"src"`
	Alt string `json:"alt,omitempty"`
}

// UnmarshalJSON accepts both the string and the object form.
func (i *Image) UnmarshalJSON(data []byte) error {
	var src string
	if err := json.Unmarshal(data, &src); err == nil {
		*i = Image{Src: src}
		return nil
	}
	type plain Image
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("image must be a string or an object: %w", err)
	}
	*i = Image(p)
	return nil
}

// Place is a point of interest as served by the backend. Places are treated
// as immutable once fetched.
type Place struct {
	ID          string  `json:"id" validate:"required"`
	Name        string  `json:"name"`
	Image       Image   `json:"image"`
	Description string  `json:"description,omitempty"`
	Lat         float64 `json:"lat" validate:"latitude"`
	Lon         float64 `json:"lon" validate:"longitude"`
}

// UnmarshalJSON accepts "title" as an alias for "name".
func (p *Place) UnmarshalJSON(data []byte) error {
	type plain Place
	var wire struct {
		plain
		Title string `json:"title"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*p = Place(wire.plain)
	if p.Name == "" {
		p.Name = wire.Title
	}
	return nil
}

// Coordinate returns the place's position.
func (p Place) Coordinate() Coordinate {
	return Coordinate{Lat: p.Lat, Lon: p.Lon}
}
