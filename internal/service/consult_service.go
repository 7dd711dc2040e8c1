package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mbtimate/mbtimate-backend/internal/models"
	"github.com/mbtimate/mbtimate-backend/internal/repository"
	"github.com/mbtimate/mbtimate-backend/pkg/llm"
)

const counselorSystemPrompt = "당신은 MBTI 기반 연애/관계 상담 전문가입니다. " +
	"내담자의 성향을 고려해 공감 어린 말투로 상담하되, 구체적이고 실천 가능한 조언을 함께 제시합니다. " +
	"답변은 3~5문장으로 간결하게 유지합니다."

// ConsultService AI 상담 세션.
// 대화 이력을 DB에 쌓고, 매 턴 전체 이력을 LLM에 재전달한다
type ConsultService struct {
	consultRepo *repository.ConsultRepository
	userRepo    *repository.UserRepository
	llm         Completer
}

func NewConsultService(
	consultRepo *repository.ConsultRepository,
	userRepo *repository.UserRepository,
	completer Completer,
) *ConsultService {
	return &ConsultService{
		consultRepo: consultRepo,
		userRepo:    userRepo,
		llm:         completer,
	}
}

// StartSession 새 상담 세션 시작. 유저 MBTI에 맞춘 인사말로 문을 연다
func (s *ConsultService) StartSession(ctx context.Context, userID, topic string) (*models.ConsultSession, *models.ConsultMessage, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, ErrUserNotFound
	}

	session, err := s.consultRepo.CreateSession(uuid.NewString(), userID, topic)
	if err != nil {
		return nil, nil, err
	}

	mbti := "아직 모르는"
	if user.MBTI != nil {
		mbti = string(*user.MBTI)
	}
	greetingPrompt := fmt.Sprintf(
		"MBTI가 %s 유형인 내담자가 %q 주제로 상담을 시작했습니다. 따뜻한 첫 인사를 건네주세요.",
		mbti, topic,
	)

	greeting, err := s.llm.Complete(ctx, []llm.Message{
		{Role: "system", Content: counselorSystemPrompt},
		{Role: "user", Content: greetingPrompt},
	})
	if err != nil {
		return nil, nil, err
	}

	message := models.ConsultMessage{
		ID:        uuid.NewString(),
		SessionID: session.ID,
		Role:      models.ConsultRoleAssistant,
		Content:   greeting,
		CreatedAt: time.Now(),
	}
	if err := s.consultRepo.SaveMessage(message); err != nil {
		return nil, nil, err
	}

	return session, &message, nil
}

// SendMessage 상담 메시지 전송. 전체 대화 이력을 실어 응답을 받는다
func (s *ConsultService) SendMessage(ctx context.Context, sessionID, userID, content string) (*models.ConsultMessage, error) {
	session, err := s.session(sessionID, userID)
	if err != nil {
		return nil, err
	}

	history, err := s.consultRepo.FindMessagesBySessionID(session.ID)
	if err != nil {
		return nil, err
	}

	userMessage := models.ConsultMessage{
		ID:        uuid.NewString(),
		SessionID: session.ID,
		Role:      models.ConsultRoleUser,
		Content:   content,
		CreatedAt: time.Now(),
	}
	if err := s.consultRepo.SaveMessage(userMessage); err != nil {
		return nil, err
	}

	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: "system", Content: counselorSystemPrompt})
	for _, m := range history {
		messages = append(messages, llm.Message{Role: string(m.Role), Content: m.Content})
	}
	messages = append(messages, llm.Message{Role: "user", Content: content})

	reply, err := s.llm.Complete(ctx, messages)
	if err != nil {
		return nil, err
	}

	assistantMessage := models.ConsultMessage{
		ID:        uuid.NewString(),
		SessionID: session.ID,
		Role:      models.ConsultRoleAssistant,
		Content:   reply,
		CreatedAt: time.Now(),
	}
	if err := s.consultRepo.SaveMessage(assistantMessage); err != nil {
		return nil, err
	}

	return &assistantMessage, nil
}

// History 상담 대화 이력 조회
func (s *ConsultService) History(sessionID, userID string) ([]models.ConsultMessage, error) {
	session, err := s.session(sessionID, userID)
	if err != nil {
		return nil, err
	}
	return s.consultRepo.FindMessagesBySessionID(session.ID)
}

func (s *ConsultService) session(sessionID, userID string) (*models.ConsultSession, error) {
	session, err := s.consultRepo.FindSessionByID(sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil || session.UserID != userID {
		return nil, ErrConsultNotFound
	}
	return session, nil
}
