package service

import (
	"time"

	"github.com/google/uuid"

	"github.com/mbtimate/mbtimate-backend/internal/models"
	"github.com/mbtimate/mbtimate-backend/internal/repository"
	"github.com/mbtimate/mbtimate-backend/pkg/logger"
)

// 대화형 테스트 질문. 3문항씩 EI/SN/TF/JP 순서
var testQuestions = []string{
	"주말에 아무 약속이 없다면 보통 어떻게 보내세요?",
	"새로운 모임에 갔을 때 처음 만난 사람들과는 어떻게 지내는 편이에요?",
	"하루 일과가 끝나면 에너지를 어떻게 충전하세요?",
	"여행을 간다면 어떤 점이 제일 기대되나요?",
	"영화를 보고 나면 주로 어떤 이야기를 하게 되나요?",
	"갑자기 10년 뒤의 나를 떠올리면 어떤 생각이 드나요?",
	"친구가 고민을 털어놓으면 먼저 어떻게 반응하세요?",
	"의견이 부딪혔을 때 나는 주로 어떻게 하는 편인가요?",
	"누군가에게 부탁을 거절해야 할 때 어떤 마음이 드나요?",
	"약속 장소에 가기 전에 준비를 어떻게 하세요?",
	"해야 할 일이 쌓여 있을 때 어떤 순서로 처리하나요?",
	"갑자기 계획이 틀어지면 어떻게 대응하세요?",
}

// TotalQuestions 테스트 문항 수
const TotalQuestions = 12

// typeDescriptions 결과 유형 소개 문구
var typeDescriptions = map[models.MBTI]models.TypeDescription{
	models.INFP: {Title: "열정적인 중재자", Traits: []string{"#이상주의", "#공감"}, Desc: "겉은 잔잔해도 속은 누구보다 뜨거운 낭만가예요."},
	models.ENFP: {Title: "재기발랄한 활동가", Traits: []string{"#에너지", "#인싸"}, Desc: "세상을 즐거움으로 채우는 자유로운 영혼이에요!"},
	models.INFJ: {Title: "선의의 옹호자", Traits: []string{"#통찰", "#신념"}, Desc: "조용하지만 깊은 통찰로 사람을 읽는 타입이에요."},
	models.ENFJ: {Title: "정의로운 사회운동가", Traits: []string{"#리더십", "#배려"}, Desc: "주변 사람을 끌어올리는 타고난 멘토예요."},
	models.INTJ: {Title: "용의주도한 전략가", Traits: []string{"#계획", "#독립"}, Desc: "머릿속엔 늘 몇 수 앞의 시나리오가 있어요."},
	models.ENTJ: {Title: "대담한 통솔자", Traits: []string{"#추진력", "#결단"}, Desc: "목표가 생기면 길을 만들어서라도 가는 타입이에요."},
	models.INTP: {Title: "논리적인 사색가", Traits: []string{"#분석", "#호기심"}, Desc: "세상 모든 것이 '왜?'로 시작되는 탐구가예요."},
	models.ENTP: {Title: "뜨거운 논쟁을 즐기는 변론가", Traits: []string{"#아이디어", "#토론"}, Desc: "불가능하다는 말을 들으면 더 신나는 타입이에요."},
	models.ISFP: {Title: "호기심 많은 예술가", Traits: []string{"#감성", "#자유"}, Desc: "말없이 조용하지만 취향만큼은 확고해요."},
	models.ESFP: {Title: "자유로운 영혼의 연예인", Traits: []string{"#분위기메이커", "#현재"}, Desc: "지금 이 순간을 제일 즐겁게 만드는 사람이에요."},
	models.ISTP: {Title: "만능 재주꾼", Traits: []string{"#냉철함", "#해결사"}, Desc: "사고 현장에서도 수리비부터 계산할 쿨한 해결사군요!"},
	models.ESTP: {Title: "모험을 즐기는 사업가", Traits: []string{"#실전", "#스릴"}, Desc: "일단 부딪혀 보는 행동파, 고민은 그 다음이에요."},
	models.ISFJ: {Title: "용감한 수호자", Traits: []string{"#헌신", "#꼼꼼"}, Desc: "티 내지 않고 챙겨주는 다정한 수호자예요."},
	models.ESFJ: {Title: "사교적인 외교관", Traits: []string{"#친화력", "#챙김"}, Desc: "모두가 편안한 자리를 만드는 분위기 관리자예요."},
	models.ISTJ: {Title: "청렴결백한 논리주의자", Traits: []string{"#원칙", "#성실"}, Desc: "말보다 기록, 약속은 반드시 지키는 타입이에요."},
	models.ESTJ: {Title: "엄격한 관리자", Traits: []string{"#체계", "#책임감"}, Desc: "흐트러진 것을 보면 정리부터 시작하는 타입이에요."},
}

// TestProgress 질문/답변 진행 상태 응답
type TestProgress struct {
	SessionID      string                  `json:"sessionId"`
	QuestionNumber int                     `json:"questionNumber"`
	TotalQuestions int                     `json:"totalQuestions"`
	Question       string                  `json:"question,omitempty"`
	Completed      bool                    `json:"completed"`
	Result         *AnalysisResult         `json:"result,omitempty"`
	Description    *models.TypeDescription `json:"description,omitempty"`
}

// MBTITestService 대화형 MBTI 테스트 세션 관리
type MBTITestService struct {
	sessionRepo *repository.TestSessionRepository
	userRepo    *repository.UserRepository
	analyzer    *MBTIAnalyzer
}

func NewMBTITestService(
	sessionRepo *repository.TestSessionRepository,
	userRepo *repository.UserRepository,
	analyzer *MBTIAnalyzer,
) *MBTITestService {
	return &MBTITestService{
		sessionRepo: sessionRepo,
		userRepo:    userRepo,
		analyzer:    analyzer,
	}
}

// Start 새 테스트 시작. 진행 중인 세션이 있으면 ErrTestInProgress
func (s *MBTITestService) Start(userID string) (*TestProgress, error) {
	existing, err := s.sessionRepo.FindInProgressByUserID(userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrTestInProgress
	}

	session := &models.TestSession{
		ID:        uuid.NewString(),
		UserID:    userID,
		Answers:   []string{},
		Status:    models.TestStatusInProgress,
		CreatedAt: time.Now(),
	}
	if err := s.sessionRepo.Save(session); err != nil {
		return nil, err
	}

	return s.progressFor(session), nil
}

// Answer 현재 질문에 답하고 다음 질문(또는 결과)을 돌려준다
func (s *MBTITestService) Answer(sessionID, userID, answer string) (*TestProgress, error) {
	if answer == "" {
		return nil, ErrEmptyAnswer
	}

	session, err := s.sessionRepo.FindByID(sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil || session.UserID != userID {
		return nil, ErrTestNotFound
	}
	if session.Status == models.TestStatusCompleted {
		return nil, ErrTestAlreadyDone
	}

	session.Answers = append(session.Answers, answer)

	if session.CurrentQuestionIndex() >= TotalQuestions {
		return s.complete(session)
	}

	if err := s.sessionRepo.Save(session); err != nil {
		return nil, err
	}
	return s.progressFor(session), nil
}

// Resume 진행 중인 세션을 이어서 반환. 없으면 nil
func (s *MBTITestService) Resume(userID string) (*TestProgress, error) {
	session, err := s.sessionRepo.FindInProgressByUserID(userID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, nil
	}
	return s.progressFor(session), nil
}

// Abandon 진행 중인 세션 삭제
func (s *MBTITestService) Abandon(userID string) error {
	removed, err := s.sessionRepo.DeleteInProgress(userID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrTestNotFound
	}
	return nil
}

// complete 전체 답변을 분석해 결과를 확정하고 유저 프로필에 반영한다
func (s *MBTITestService) complete(session *models.TestSession) (*TestProgress, error) {
	result := s.analyzer.Analyze(session.Answers)

	session.Status = models.TestStatusCompleted
	session.ResultMBTI = &result.MBTI
	if err := s.sessionRepo.Save(session); err != nil {
		return nil, err
	}

	if err := s.userRepo.UpdateMBTI(session.UserID, result.MBTI); err != nil {
		// 프로필 반영 실패가 결과 자체를 막지는 않는다
		logger.Error("Failed to update user MBTI from test result",
			"userId", session.UserID, "error", err)
	}

	logger.Info("MBTI test completed", "userId", session.UserID, "result", result.MBTI)

	desc := typeDescriptions[result.MBTI]
	return &TestProgress{
		SessionID:      session.ID,
		QuestionNumber: TotalQuestions,
		TotalQuestions: TotalQuestions,
		Completed:      true,
		Result:         &result,
		Description:    &desc,
	}, nil
}

func (s *MBTITestService) progressFor(session *models.TestSession) *TestProgress {
	index := session.CurrentQuestionIndex()
	return &TestProgress{
		SessionID:      session.ID,
		QuestionNumber: index + 1,
		TotalQuestions: TotalQuestions,
		Question:       testQuestions[index],
	}
}
