package models

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Nickname string `json:"nickname"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token   string  `json:"token"`
	Account Account `json:"account"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

type CreateUserRequest struct {
	Nickname  string `json:"nickname"`
	AccountID string `json:"accountId"`
}

type CreateRoomRequest struct {
	Name string `json:"name"`
}

type UpdateRoomRequest struct {
	Name       *string `json:"name"`
	IsArchived *bool   `json:"isArchived"`
}

type UpdateUserRequest struct {
	Nickname       *string `json:"nickname"`
	TelegramChatID *string `json:"telegramChatId"`
}

type UpdateAccountRequest struct {
	Nickname       *string `json:"nickname"`
	TelegramChatID *string `json:"telegramChatId"`
}

type UpdateMessageRequest struct {
	Content string `json:"content"`
}
