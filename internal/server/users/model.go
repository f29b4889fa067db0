package users

// User is an operator allowed to edit the site.
type User struct {
	Username       string `json:"username"`
	HashedPassword string `json:"hashedPassword"`
}
