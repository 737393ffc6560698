package domain

// NewIdentity — учётные данные создаваемого аккаунта.
// SagaID проставляется координатором, входящее значение игнорируется.
type NewIdentity struct {
	Email    string  `json:"email"`
	Password *string `json:"password"`
	Provider string  `json:"provider"`
	SagaID   string  `json:"saga_id"`
}

// NewUser — профиль создаваемого пользователя.
type NewUser struct {
	Email      string  `json:"email"`
	Phone      *string `json:"phone"`
	FirstName  *string `json:"first_name"`
	LastName   *string `json:"last_name"`
	MiddleName *string `json:"middle_name"`
	Gender     *string `json:"gender"`
	Birthdate  *string `json:"birthdate"`
	SagaID     string  `json:"saga_id"`
}

// SagaCreateProfile — входящий запрос саги создания аккаунта.
// Профиль опционален: аккаунт может создаваться только по identity
// (например через OAuth провайдера).
type SagaCreateProfile struct {
	User     *NewUser    `json:"user"`
	Identity NewIdentity `json:"identity"`
	Device   *string     `json:"device"`
	Project  *string     `json:"project"`
}

// WithSagaID возвращает копию профиля со свежим saga id,
// проставленным и в identity, и в профиль пользователя.
func (p SagaCreateProfile) WithSagaID(sagaID string) SagaCreateProfile {
	p.Identity.SagaID = sagaID
	if p.User != nil {
		user := *p.User
		user.SagaID = sagaID
		p.User = &user
	}
	return p
}

// User — пользователь, как его отдаёт users microservice.
type User struct {
	ID            int64   `json:"id"`
	Email         string  `json:"email"`
	EmailVerified bool    `json:"email_verified"`
	Phone         *string `json:"phone"`
	FirstName     *string `json:"first_name"`
	LastName      *string `json:"last_name"`
	SagaID        *string `json:"saga_id"`
}

// NewRole — назначение роли пользователю в billing или delivery.
// ID роли чеканится координатором и служит ключом компенсации.
type NewRole struct {
	ID     string `json:"id"`
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
	Data   *int64 `json:"data"`
}

// Имена ролей платформы.
const (
	RoleUser         = "user"
	RoleStoreManager = "store_manager"
)

// Role — назначенная роль, как её отдаёт downstream сервис.
type Role struct {
	ID     string `json:"id"`
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
}

// CreateUserMerchantPayload — создание мерчанта для пользователя.
type CreateUserMerchantPayload struct {
	ID int64 `json:"id"`
}

// CreateStoreMerchantPayload — создание мерчанта для магазина.
type CreateStoreMerchantPayload struct {
	ID int64 `json:"id"`
}

// Merchant — кошелёк мерчанта в billing microservice.
type Merchant struct {
	MerchantID string `json:"merchant_id"`
}

// ResetRequest — запрос сброса пароля или подтверждения почты.
type ResetRequest struct {
	Email   string  `json:"email"`
	Device  *string `json:"device"`
	Project *string `json:"project"`
	UUID    *string `json:"uuid"`
}

// PasswordResetApply — применение токена сброса пароля.
type PasswordResetApply struct {
	Token    string  `json:"token"`
	Password string  `json:"password"`
	Project  *string `json:"project"`
}

// EmailVerifyApply — применение токена подтверждения почты.
type EmailVerifyApply struct {
	Token   string  `json:"token"`
	Project *string `json:"project"`
}
