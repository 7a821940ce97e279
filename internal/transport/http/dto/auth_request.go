package dto

// bcrypt only accepts passwords up to 72 bytes.
const MaxPasswordBytes = 72

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,notblank,max=100"`
	Email    string `json:"email" validate:"required,notblank,max=254"`
	Password string `json:"password" validate:"required,maxbytes=72"`
}

func (r *RegisterRequest) Validate() error { return validateStruct(r) }

type LoginRequest struct {
	Email    string `json:"email" validate:"required,notblank"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Validate() error { return validateStruct(r) }
