package request_models

type RequestCodeRequest struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name"`
}

type VerifyCodeRequest struct {
	Email string `json:"email" binding:"required,email"`
	Otp   string `json:"otp" binding:"required"`
}
