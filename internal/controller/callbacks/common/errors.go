package common

import (
	"errors"

	"github.com/Freeeeeet/tutor_match/internal/apperr"
)

var (
	ErrNoMessage     = errors.New("no message in callback")
	ErrInvalidFormat = errors.New("invalid callback format")
)

// ErrorMessage возвращает текст ошибки для пользователя бота.
// Каждому коду apperr соответствует своё сообщение с понятным следующим шагом.
func ErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrNoMessage):
		return "❌ Ошибка обработки сообщения"
	case errors.Is(err, ErrInvalidFormat):
		return "❌ Неверный формат данных"
	}

	switch apperr.CodeOf(err) {
	case apperr.CodeUnauthenticated:
		return "❌ Профиль не найден. Зарегистрируйтесь в приложении и привяжите Telegram."
	case apperr.CodeForbidden:
		return "⛔️ Это действие недоступно для вас."
	case apperr.CodeNotFound:
		return "❌ Запись не найдена. Возможно, она уже удалена."
	case apperr.CodeInvalidInput:
		var e *apperr.Error
		if errors.As(err, &e) && e.Message != "" {
			return "⚠️ Проверьте данные: " + e.Message
		}
		return "⚠️ Проверьте введённые данные."
	case apperr.CodeInvalidState:
		return "🔄 Статус записи уже изменился. Обновите список: /mybookings"
	case apperr.CodeConflict:
		return "🔄 Запись только что изменили. Попробуйте ещё раз."
	default:
		return "❌ Произошла ошибка. Попробуйте позже."
	}
}
