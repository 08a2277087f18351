// README: Restaurant settings document (single restaurant deployment).
package restaurant

import "samaha/internal/types"

type Restaurant struct {
	ID           types.ID `firestore:"-"`
	Name         string   `firestore:"name"`
	Lat          float64  `firestore:"lat"`
	Lng          float64  `firestore:"lng"`
	Address      string   `firestore:"address"`
	Phone        string   `firestore:"phone"`
	Hours        string   `firestore:"hours"`
	AutoDispatch bool     `firestore:"autoDispatch"`
}

func (r *Restaurant) Location() types.Point {
	return types.Point{Lat: r.Lat, Lng: r.Lng}
}
