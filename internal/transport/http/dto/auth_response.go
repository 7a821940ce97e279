package dto

import "github.com/baechuer/noteplus/internal/domain"

type RegisterResponse struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
}

type LoginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

type UserInfoResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func ToUserInfo(id domain.Identity) UserInfoResponse {
	return UserInfoResponse{Name: id.Name, Email: id.Email}
}
