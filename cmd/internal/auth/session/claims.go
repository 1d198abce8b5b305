package session

// Claims is the payload carried by a session token.
type Claims struct {
	UserID string
	Email  string
}

func (c Claims) valid() bool {
	return c.UserID != "" && c.Email != ""
}
