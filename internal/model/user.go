package model

// UserProfile holds the editable profile fields stored as identity-provider
// metadata rather than in the record store.
type UserProfile struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	Occupation string `json:"occupation"`
	Location   string `json:"location"`
}
