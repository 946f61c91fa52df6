package model

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignupRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Password  string `json:"password"`
}

// SessionRequest replaces every field of a session, roster included.
type SessionRequest struct {
	Name        string  `json:"name"`
	Date        string  `json:"date"`
	TeacherID   int64   `json:"teacher_id"`
	Description string  `json:"description"`
	Users       []int64 `json:"users"`
}
