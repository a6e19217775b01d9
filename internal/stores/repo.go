package stores

import (
	"sort"

	"go.uber.org/zap"

	myErr "lifeline-store/internal/types/errors"
)

// StaticStoreRepository - справочник магазинов в памяти
type StaticStoreRepository struct {
	Logger *zap.SugaredLogger

	locations []Location
}

// NewStaticStoreRepository - nil заменяется встроенным списком
func NewStaticStoreRepository(logger *zap.SugaredLogger, locations []Location) *StaticStoreRepository {
	if locations == nil {
		locations = defaultLocations()
	}

	return &StaticStoreRepository{
		Logger:    logger,
		locations: locations,
	}
}

func (r *StaticStoreRepository) List() []Location {
	out := make([]Location, len(r.locations))
	copy(out, r.locations)

	return out
}

func (r *StaticStoreRepository) Nearest(lat, lng float64) ([]Location, error) {
	if !ValidCoordinates(lat, lng) {
		r.Logger.Infof("bad coordinates %f,%f", lat, lng)
		return nil, myErr.ErrBadCoordinates
	}

	out := r.List()
	for i := range out {
		d := Distance(lat, lng, out[i].Lat, out[i].Lng)
		out[i].Distance = &d
	}

	// при равном расстоянии сохраняется порядок справочника
	sort.SliceStable(out, func(i, j int) bool {
		return *out[i].Distance < *out[j].Distance
	})

	return out, nil
}

func defaultLocations() []Location {
	return []Location{
		{
			ID:      "1",
			Name:    "Downtown Store",
			Address: "123 Main Street",
			City:    "New York",
			State:   "NY",
			Zip:     "10001",
			Phone:   "(212) 555-0101",
			Hours:   "9 AM - 9 PM",
			Lat:     40.7484,
			Lng:     -73.9857,
		},
		{
			ID:      "2",
			Name:    "Midtown Pickup Point",
			Address: "456 5th Avenue",
			City:    "New York",
			State:   "NY",
			Zip:     "10018",
			Phone:   "(212) 555-0102",
			Hours:   "8 AM - 10 PM",
			Lat:     40.7549,
			Lng:     -73.9840,
		},
		{
			ID:      "3",
			Name:    "Brooklyn Store",
			Address: "789 Atlantic Ave",
			City:    "Brooklyn",
			State:   "NY",
			Zip:     "11217",
			Phone:   "(718) 555-0103",
			Hours:   "10 AM - 8 PM",
			Lat:     40.6840,
			Lng:     -73.9750,
		},
		{
			ID:      "4",
			Name:    "Queens Pickup Point",
			Address: "321 Queens Blvd",
			City:    "Queens",
			State:   "NY",
			Zip:     "11375",
			Phone:   "(718) 555-0104",
			Hours:   "9 AM - 9 PM",
			Lat:     40.7282,
			Lng:     -73.8317,
		},
	}
}
