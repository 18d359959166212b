package diary

import (
	"errors"

	"github.com/pbaille/moodlog/internal/capture"
)

// Notice is a short user-facing message
type Notice struct {
	Title  string
	Detail string
	Failed bool
}

var (
	SavedNotice   = Notice{Title: "Сохранено!", Detail: "Запись добавлена в твой дневник"}
	DeletedNotice = Notice{Title: "Удалено", Detail: "Запись удалена из дневника"}
)

// Explain maps an operation error to the message shown to the user
func Explain(err error) Notice {
	switch {
	case errors.Is(err, ErrEmptyInput):
		return Notice{Title: "Пустой текст", Detail: "Напиши что-нибудь, чтобы я мог проанализировать твоё настроение", Failed: true}
	case errors.Is(err, ErrNotClassified):
		return Notice{Title: "Ошибка", Detail: "Сначала запишите текст и дождитесь анализа эмоции", Failed: true}
	case errors.Is(err, capture.ErrUnsupported):
		return Notice{Title: "Ошибка", Detail: "Голосовой ввод не поддерживается, используй текстовый ввод", Failed: true}
	case errors.Is(err, capture.ErrPermissionDenied):
		return Notice{Title: "Нет доступа к микрофону", Detail: "Разреши доступ к микрофону или используй текстовый ввод", Failed: true}
	case errors.Is(err, capture.ErrFailed):
		return Notice{Title: "Ошибка записи", Detail: "Не удалось распознать речь. Попробуй ещё раз.", Failed: true}
	default:
		return Notice{Title: "Ошибка", Detail: err.Error(), Failed: true}
	}
}

func (n Notice) String() string {
	return n.Title + " " + n.Detail
}
