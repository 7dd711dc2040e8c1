package models

import "time"

// Dimension MBTI 분석 차원 (EI/SN/TF/JP)
type Dimension string

const (
	DimensionEI Dimension = "EI"
	DimensionSN Dimension = "SN"
	DimensionTF Dimension = "TF"
	DimensionJP Dimension = "JP"
)

// TestSessionStatus 테스트 세션 상태
type TestSessionStatus string

const (
	TestStatusInProgress TestSessionStatus = "in_progress"
	TestStatusCompleted  TestSessionStatus = "completed"
)

// TestSession 진행 중이거나 완료된 MBTI 테스트 세션
type TestSession struct {
	ID         string            `json:"id" db:"id"`
	UserID     string            `json:"userId" db:"user_id"`
	Answers    []string          `json:"answers"`
	Status     TestSessionStatus `json:"status" db:"status"`
	ResultMBTI *MBTI             `json:"resultMbti,omitempty" db:"result_mbti"`
	CreatedAt  time.Time         `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time         `json:"updatedAt" db:"updated_at"`
}

// CurrentQuestionIndex 다음에 답해야 할 질문 번호 (0부터)
func (s *TestSession) CurrentQuestionIndex() int {
	return len(s.Answers)
}

// TypeDescription 결과 유형 소개 문구
type TypeDescription struct {
	Title  string   `json:"title"`
	Traits []string `json:"traits"`
	Desc   string   `json:"desc"`
}
