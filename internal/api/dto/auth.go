package dto

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CheckLoginResponse struct {
	LoggedIn bool `json:"logged_in"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
