package domain

import "errors"

// Ошибки валидации (неполные/кривые данные от клиента)
var (
	ErrBadRequest = errors.New("неверные данные запроса")
	ErrEmptyName  = errors.New("имя не может быть пустым")
	ErrBadTarget  = errors.New("неверная цель действия")
	ErrBadAction  = errors.New("неизвестный тип ночного действия")
	ErrBadPolicy  = errors.New("неизвестная политика завершения")
)

// Отсутствие сущности (комната могла быть удалена конкурентно - это
// штатный исход, не сбой)
var (
	ErrRoomNotFound   = errors.New("комната не найдена")
	ErrPlayerNotFound = errors.New("игрок не найден в комнате")
)

// Нарушения состояния игры
var (
	ErrWrongPhase    = errors.New("действие недоступно в текущей фазе")
	ErrNotMember     = errors.New("вы не участник этой комнаты")
	ErrAlreadyMember = errors.New("вы уже в этой комнате")
	ErrRoomFull      = errors.New("комната заполнена")
	ErrNotHost       = errors.New("доступно только хосту комнаты")
	ErrWrongRole     = errors.New("ваша роль не может выполнить это действие")
	ErrActorDead     = errors.New("мертвые не действуют")
	ErrTargetDead    = errors.New("цель уже мертва")
	ErrSelfTarget    = errors.New("нельзя выбрать себя целью")
	ErrAlreadyActed  = errors.New("действие в этом раунде уже выполнено")
	ErrAlreadyVoted  = errors.New("вы уже проголосовали в этом раунде")
	ErrNoActiveTimer = errors.New("нет активной фазы для пропуска")
)

// Потерянное обновление при сохранении: движок повторяет операцию один
// раз, дальше ошибка уходит инициатору как временная
var ErrConflict = errors.New("конфликт конкурентного изменения комнаты")

// Коды ошибок для события error{code,message}
const (
	CodeValidation   = "validation"
	CodeNotFound     = "not_found"
	CodeIllegalState = "illegal_state"
	CodeConflict     = "conflict"
)

// ErrorCode сводит ошибку движка к коду для клиента
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrRoomNotFound), errors.Is(err, ErrPlayerNotFound):
		return CodeNotFound
	case errors.Is(err, ErrConflict):
		return CodeConflict
	case errors.Is(err, ErrBadRequest), errors.Is(err, ErrEmptyName),
		errors.Is(err, ErrBadTarget), errors.Is(err, ErrBadAction),
		errors.Is(err, ErrBadPolicy):
		return CodeValidation
	default:
		return CodeIllegalState
	}
}
