package dto

type ResetPasswordRequest struct {
	Password string `json:"password"`
}
