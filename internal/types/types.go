// README: Common value objects shared across modules.
package types

import "fmt"

type ID string

type Point struct {
	Lat float64 `firestore:"lat" json:"lat"`
	Lng float64 `firestore:"lng" json:"lng"`
}

// Money is an amount in integer cents. Totals are derived once at order
// creation and never recomputed on later reads.
type Money struct {
	Amount   int64  `firestore:"amount" json:"amount"`
	Currency string `firestore:"currency" json:"currency"`
}

func (m Money) String() string {
	return fmt.Sprintf("$%d.%02d", m.Amount/100, m.Amount%100)
}
