// README: User directory records (roles and push tokens).
package user

import (
	"time"

	"samaha/internal/types"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleDriver   Role = "driver"
	RoleAdmin    Role = "admin"
)

type User struct {
	UID       types.ID  `firestore:"-"`
	Role      Role      `firestore:"role"`
	Name      string    `firestore:"name"`
	Phone     string    `firestore:"phone"`
	Email     string    `firestore:"email,omitempty"`
	PushToken string    `firestore:"pushToken,omitempty"`
	CreatedAt time.Time `firestore:"createdAt"`
}
