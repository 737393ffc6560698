package domain

// EmailUser — адресат письма. Для пользователей без имени подставляются
// заглушки, чтобы шаблоны писем не получали пустое обращение.
type EmailUser struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// NewEmailUser строит адресата письма из пользователя users microservice.
func NewEmailUser(u User) EmailUser {
	firstName := "user"
	if u.FirstName != nil {
		firstName = *u.FirstName
	}
	lastName := ""
	if u.LastName != nil {
		lastName = *u.LastName
	}
	return EmailUser{
		Email:     u.Email,
		FirstName: firstName,
		LastName:  lastName,
	}
}

// EmailVerificationForUser — письмо со ссылкой подтверждения почты.
type EmailVerificationForUser struct {
	User            EmailUser `json:"user"`
	VerifyEmailPath string    `json:"verify_email_path"`
	Token           string    `json:"token"`
}

// PasswordResetForUser — письмо со ссылкой сброса пароля.
type PasswordResetForUser struct {
	User              EmailUser `json:"user"`
	ResetPasswordPath string    `json:"reset_password_path"`
	Token             string    `json:"token"`
}

// ApplyPasswordResetForUser — письмо об успешной смене пароля.
type ApplyPasswordResetForUser struct {
	User       EmailUser `json:"user"`
	ClusterURL string    `json:"cluster_url"`
}

// ApplyEmailVerificationForUser — письмо об успешном подтверждении почты.
type ApplyEmailVerificationForUser struct {
	User       EmailUser `json:"user"`
	ClusterURL string    `json:"cluster_url"`
}

// OrderCreateForUser — письмо покупателю о созданном заказе.
type OrderCreateForUser struct {
	User       EmailUser `json:"user"`
	OrderSlug  string    `json:"order_slug"`
	ClusterURL string    `json:"cluster_url"`
}

// OrderUpdateStateForUser — письмо покупателю о смене статуса заказа.
type OrderUpdateStateForUser struct {
	User       EmailUser `json:"user"`
	OrderSlug  string    `json:"order_slug"`
	OrderState string    `json:"order_state"`
	ClusterURL string    `json:"cluster_url"`
}

// OrderCreateForStore — письмо магазину о новом оплаченном заказе.
type OrderCreateForStore struct {
	StoreEmail string `json:"store_email"`
	StoreID    string `json:"store_id"`
	OrderSlug  string `json:"order_slug"`
	ClusterURL string `json:"cluster_url"`
}

// OrderUpdateStateForStore — письмо магазину о смене статуса заказа.
type OrderUpdateStateForStore struct {
	StoreEmail string `json:"store_email"`
	StoreID    string `json:"store_id"`
	OrderSlug  string `json:"order_slug"`
	OrderState string `json:"order_state"`
	ClusterURL string `json:"cluster_url"`
}
