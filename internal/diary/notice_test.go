package diary

import (
	"errors"
	"fmt"
	"testing"

	"github.com/pbaille/moodlog/internal/capture"
	"github.com/stretchr/testify/assert"
)

func TestExplain(t *testing.T) {
	tests := []struct {
		err   error
		title string
	}{
		{ErrEmptyInput, "Пустой текст"},
		{ErrNotClassified, "Ошибка"},
		{capture.ErrPermissionDenied, "Нет доступа к микрофону"},
		{fmt.Errorf("%w: timeout", capture.ErrFailed), "Ошибка записи"},
	}
	for _, tt := range tests {
		n := Explain(tt.err)
		assert.Equal(t, tt.title, n.Title, tt.err.Error())
		assert.True(t, n.Failed)
		assert.NotEmpty(t, n.Detail)
	}

	n := Explain(errors.New("persist entries: disk full"))
	assert.Equal(t, "persist entries: disk full", n.Detail)
	assert.False(t, SavedNotice.Failed)
}
