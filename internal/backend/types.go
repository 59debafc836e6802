package backend

// CheckoutRequest — тело запроса на начало оплаты подписки.
type CheckoutRequest struct {
	Amount int64 `json:"monto"`
}

// CheckoutResponse — ответ бэкенда: адрес шлюза и одноразовый токен транзакции.
type CheckoutResponse struct {
	URL   string `json:"url"`
	Token string `json:"token"`
}

// AccountStatus — статусы верификации аккаунта и подписки пользователя.
type AccountStatus struct {
	Verification string `json:"verificacion"`
	Subscription string `json:"suscripcion"`
}

// LoginRequest — учётные данные для входа.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenPair — токены, выданные бэкендом при входе или обновлении.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	UserUID      string `json:"user_uid,omitempty"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// VerificationRequest — анкета для верификации личности.
type VerificationRequest struct {
	Rut      string `json:"rut"`
	FullName string `json:"nombre"`
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
