package dto

// LoginRequest PIN de supervisor.
type LoginRequest struct {
	PIN string `json:"pin"`
}

// LoginResponse token de supervisor.
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"` // segundos
	Role      string `json:"role"`
}
