package access

// AdminState — состояние панели администратора.
//
// Админский доступ не сводится к State: он держится на одном общем
// секрете, а не на верификации и подписке конкретного пользователя.
type AdminState string

const (
	AdminUnauthenticated AdminState = "admin_unauthenticated"
	AdminActive          AdminState = "admin_active"
)

// AdminGate решает доступ к панели администратора по единственному флагу:
// предъявлен ли действительный админский credential.
type AdminGate struct{}

// Decide возвращает AdminActive только при действительном credential.
func (AdminGate) Decide(hasValidCredential bool) AdminState {
	if hasValidCredential {
		return AdminActive
	}
	return AdminUnauthenticated
}
