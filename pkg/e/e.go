package e

import "fmt"

var (
	// Внутренние ошибки с транзакциями
	ErrTransactionNotFound = fmt.Errorf("transaction not found")

	// Запись не найдена в хранилище
	ErrNotFound = fmt.Errorf("not found")

	// Ошибки загрузки каталога из Adisyo
	ErrRateLimited    = fmt.Errorf("catalog provider rate limit exceeded")
	ErrCatalogFetch   = fmt.Errorf("failed to fetch catalog")
	ErrCatalogAuth    = fmt.Errorf("catalog provider rejected credentials")
	ErrCatalogStatus  = fmt.Errorf("catalog provider returned error status")
	ErrCatalogInvalid = fmt.Errorf("catalog payload is invalid")

	// Ошибки сессии импорта
	ErrSessionNotFound        = fmt.Errorf("import session not found")
	ErrImportInProgress       = fmt.Errorf("import already in progress")
	ErrImportCooldown         = fmt.Errorf("import is on cooldown")
	ErrInvalidStateTransition = fmt.Errorf("invalid import state transition")
	ErrNothingToRollback      = fmt.Errorf("nothing to roll back")
	ErrMenuNotResolved        = fmt.Errorf("import menu is not resolved")

	// 400 Bad Request
	ErrStatusBadRequest = fmt.Errorf("bad request")
	ErrInvalidUUID      = fmt.Errorf("invalid uuid")

	// Конфигурация
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect env variable")

	// 500
	ErrInternalServerError = fmt.Errorf("internal server error")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
