package apiv1

// User is the public view of an account.
type User struct {
	Id          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	CreatedAt   int64  `json:"created_at"`
}

type RegisterRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

// RegisterResponse confirms that a verification code was sent.
type RegisterResponse struct {
	Email            string `json:"email"`
	ExpiresInSeconds int64  `json:"expires_in_seconds"`
}

type VerifySignupRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type VerifySignupResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type GetCurrentUserRequest struct{}

type GetCurrentUserResponse struct {
	User *User `json:"user"`
}
