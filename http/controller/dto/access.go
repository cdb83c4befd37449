package dto

type AddAccessRequestDTO struct {
	Email   string `json:"email" binding:"required,email"`
	IsAdmin bool   `json:"isAdmin"`
}

type RemoveAccessRequestDTO struct {
	Email string `json:"email" binding:"required,email"`
}
