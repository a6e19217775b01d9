package stores

import (
	"math"
)

// EarthRadiusMiles - радиус Земли для формулы гаверсинусов
const EarthRadiusMiles = 3959.0

// Location - магазин или пункт самовывоза
type Location struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Address string  `json:"address"`
	City    string  `json:"city"`
	State   string  `json:"state"`
	Zip     string  `json:"zip"`
	Phone   string  `json:"phone"`
	Hours   string  `json:"hours"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	// Distance в милях, заполняется только при поиске от точки
	Distance *float64 `json:"distance,omitempty"`
}

// StoreRepo - справочник магазинов
//
//go:generate mockgen -source=stores.go -destination=../mocks/mock_store_repo.go -package=mocks
type StoreRepo interface {
	// List - все магазины в порядке справочника
	List() []Location
	// Nearest - магазины по возрастанию расстояния от точки
	Nearest(lat, lng float64) ([]Location, error)
}

// Distance - расстояние по дуге большого круга в милях
func Distance(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLng := radians(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(lat1))*math.Cos(radians(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)

	return EarthRadiusMiles * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// ValidCoordinates проверяет широту и долготу
func ValidCoordinates(lat, lng float64) bool {
	return !math.IsNaN(lat) && !math.IsNaN(lng) &&
		lat >= -90 && lat <= 90 &&
		lng >= -180 && lng <= 180
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
