package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbtimate/mbtimate-backend/internal/models"
	"github.com/mbtimate/mbtimate-backend/pkg/llm"
)

type fakeCompleter struct {
	responses []string
	err       error
	calls     int
	prompts   []string
}

func (f *fakeCompleter) Complete(_ context.Context, messages []llm.Message) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, messages[len(messages)-1].Content)
	if f.err != nil {
		return "", f.err
	}
	resp := f.responses[0]
	if len(f.responses) > 1 {
		f.responses = f.responses[1:]
	}
	return resp, nil
}

func TestConvert_ReturnsAllTones(t *testing.T) {
	completer := &fakeCompleter{
		responses: []string{`{"content": "변환된 메시지", "explanation": "설명"}`},
	}
	service := NewConvertService(completer)

	results, err := service.Convert(context.Background(), "내일 3시까지 와", models.ESTJ, models.INFP)

	require.NoError(t, err)
	require.Len(t, results, len(Tones))
	for i, result := range results {
		assert.Equal(t, Tones[i], result.Tone)
		assert.Equal(t, "변환된 메시지", result.Content)
	}
	assert.Equal(t, len(Tones), completer.calls)
}

func TestConvert_EmptyMessageRejected(t *testing.T) {
	service := NewConvertService(&fakeCompleter{})

	_, err := service.Convert(context.Background(), "   ", models.ESTJ, models.INFP)

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestConvert_AllCallsFailing(t *testing.T) {
	completer := &fakeCompleter{err: errors.New("api down")}
	service := NewConvertService(completer)

	_, err := service.Convert(context.Background(), "안녕", models.INFP, models.ENFJ)

	assert.Error(t, err)
}

func TestConvert_StripsCodeFence(t *testing.T) {
	completer := &fakeCompleter{
		responses: []string{"```json\n{\"content\": \"다듬은 메시지\", \"explanation\": \"이유\"}\n```"},
	}
	service := NewConvertService(completer)

	results, err := service.Convert(context.Background(), "이거 해줘", models.INTP, models.ENFP)

	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "다듬은 메시지", results[0].Content)
}

func TestConvert_PromptMentionsReceiverProfile(t *testing.T) {
	completer := &fakeCompleter{
		responses: []string{`{"content": "ok", "explanation": "e"}`},
	}
	service := NewConvertService(completer)

	_, err := service.Convert(context.Background(), "회의 8시로 옮기자", models.ISTJ, models.ENFP)

	require.NoError(t, err)
	require.NotEmpty(t, completer.prompts)
	assert.Contains(t, completer.prompts[0], "ENFP")
	assert.Contains(t, completer.prompts[0], "회의 8시로 옮기자")
}
