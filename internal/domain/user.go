package domain

type UserID string

type User struct {
	ID    UserID
	Email string
	Name  string
}

// Session is the authenticated identity plus its bearer credential.
// A session is valid only when both parts are present; callers must not
// construct half-populated sessions.
type Session struct {
	User  User
	Token string
}

func (s Session) Valid() bool {
	return s.User.ID != "" && s.Token != ""
}
