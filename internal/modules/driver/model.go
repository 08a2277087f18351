// README: Driver presence and last-known-position record.
package driver

import (
	"time"

	"samaha/internal/types"
)

type Driver struct {
	ID            types.ID  `firestore:"-"`
	IsOnline      bool      `firestore:"isOnline"`
	ActiveOrderID types.ID  `firestore:"activeOrderId,omitempty"`
	Lat           float64   `firestore:"lat"`
	Lng           float64   `firestore:"lng"`
	Heading       float64   `firestore:"heading"`
	Speed         float64   `firestore:"speed"`
	UpdatedAt     time.Time `firestore:"updatedAt"`
}

// Available reports whether the driver can take a new order. A driver holds
// at most one non-terminal order at a time.
func (d *Driver) Available() bool {
	return d.ActiveOrderID == ""
}

// HasFix reports whether the driver has ever reported a position.
func (d *Driver) HasFix() bool {
	return d.Lat != 0 || d.Lng != 0
}

func (d *Driver) Position() types.Point {
	return types.Point{Lat: d.Lat, Lng: d.Lng}
}
