package dto

type UserResponse struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	Name        string `json:"name,omitempty"`
	Surname     string `json:"surname,omitempty"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
}

// UpdateUserRequest is a sparse patch: a nil field means "leave unchanged",
// a non-nil pointer to the zero value is an explicit update. This is what
// keeps "set surname to empty" distinguishable from "don't touch surname".
type UpdateUserRequest struct {
	Username    *string `json:"username"`
	Email       *string `json:"email"`
	Password    *string `json:"password"`
	Name        *string `json:"name"`
	Surname     *string `json:"surname"`
	DateOfBirth *string `json:"date_of_birth"`
}
