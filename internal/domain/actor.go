package domain

// Role of the caller as resolved by the identity provider
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// Actor an already authenticated caller. The zero value is an anonymous guest.
type Actor struct {
	UserID     *int64
	CustomerID *int64
	Role       Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// CanAccess admins see everything; others only reservations booked by their
// user account or billed to their customer record
func (a Actor) CanAccess(r *Reservation) bool {
	if a.IsAdmin() {
		return true
	}
	if a.UserID != nil && r.UserID != nil && *a.UserID == *r.UserID {
		return true
	}
	return a.CustomerID != nil && *a.CustomerID == r.CustomerID
}

// CanAccessCustomer reports whether the actor may read a customer's history
func (a Actor) CanAccessCustomer(customerID int64) bool {
	return a.IsAdmin() || (a.CustomerID != nil && *a.CustomerID == customerID)
}

// ProcessedBy user id recorded on ledger entries
func (a Actor) ProcessedBy() *int64 {
	return a.UserID
}
