package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mbtimate/mbtimate-backend/internal/models"
	"github.com/mbtimate/mbtimate-backend/pkg/llm"
)

// Completer LLM 호출 포트
type Completer interface {
	Complete(ctx context.Context, messages []llm.Message) (string, error)
}

// Tones 지원하는 변환 톤
var Tones = []string{"공손한", "캐주얼한", "간결한"}

// mbtiProfiles 수신자 유형별 화법 가이드
var mbtiProfiles = map[models.MBTI]string{
	models.INTJ: "용의주도한 전략가. 미사여구와 감정 호소를 싫어함. 본론, 논리적 근거, 이득 위주로 건조하고 명확하게 서술해.",
	models.INTP: "논리적인 사색가. 강요 대신 왜인지 인과관계를 설명해. 흥미로운 정보나 새로운 관점을 던지는 게 효과적이야.",
	models.ENTJ: "대담한 통솔자. 결론부터 말해. 필요한 리소스와 데드라인을 명확히 제시하고 자신감 있는 어조를 유지해.",
	models.ENTP: "뜨거운 논쟁을 즐기는 변론가. 격식 차리지 말고 위트 있게 표현해. 호기심을 자극하는 뉘앙스도 좋아.",
	models.INFJ: "선의의 옹호자. 예의를 갖추되 가식적이지 않게, 상대의 가치를 인정해 주는 따뜻한 표현을 써.",
	models.INFP: "열정적인 중재자. 명령조 금지. 쿠션어를 듬뿍 넣고, 팩트보다 공감과 지지를 먼저 보내.",
	models.ENFJ: "정의로운 사회운동가. '우리'라는 단어를 자주 사용해. 공동체의 목표와 성장을 강조하고 칭찬을 아끼지 마.",
	models.ENFP: "재기발랄한 활동가. 딱딱하게 말하면 숨 막혀 함. 느낌표와 물결을 섞어 생동감 있게 표현해.",
	models.ISTJ: "청렴결백한 논리주의자. 육하원칙을 정확히 지켜. 감정 빼고 구체적인 데이터와 사실만 전달해.",
	models.ISFJ: "용감한 수호자. 조심스럽고 다정하게 말해. 부담을 느끼지 않도록 배려하는 문구와 구체적인 가이드를 줘.",
	models.ESTJ: "엄격한 관리자. 서론 빼고 본론만 말해. 군더더기 없이 깔끔하게 끝맺어.",
	models.ESFJ: "사교적인 외교관. 친근하게 안부를 먼저 묻고 시작해. 관계를 중요하게 생각한다는 뉘앙스를 풍겨.",
	models.ISTP: "만능 재주꾼. 최대한 짧고 간결하게. 구구절절 설명하지 말고 핵심 용건만 툭 던져.",
	models.ISFP: "호기심 많은 예술가. 부드럽고 상냥한 말투로 다가가. 재촉하지 말고 여유를 줘.",
	models.ESTP: "모험을 즐기는 사업가. 돌려 말하지 말고 시원시원하게 말해. 당장 할 수 있는 행동에 초점을 맞춰.",
	models.ESFP: "자유로운 영혼의 연예인. 신나게 말해. 복잡한 논리보다 당장의 즐거움을 강조해.",
}

var toneGuidelines = map[string]string{
	"공손한":  "원본 말투(반말/존댓말)는 유지하면서 배려 있고 부드러운 표현으로 다듬어.",
	"캐주얼한": "친구한테 말하듯 편하게. 원본 말투는 유지해.",
	"간결한":  "핵심만 짧게, 군더더기는 제거해. 원본 말투는 유지해.",
}

const converterSystemPrompt = "당신은 MBTI 심리 분석 및 커뮤니케이션 코칭 전문가입니다. " +
	"상대방의 성향(MBTI)에 맞춰 가장 효과적이고 기분 좋은 화법으로 메시지를 '번역'합니다."

// ConvertService 메시지를 수신자 MBTI에 맞는 말투로 변환.
// 요청한 톤마다 LLM을 한 번씩 호출한다
type ConvertService struct {
	llm Completer
}

func NewConvertService(completer Completer) *ConvertService {
	return &ConvertService{llm: completer}
}

// Convert 메시지를 세 가지 톤으로 변환한다.
// 개별 톤 실패는 건너뛰고, 전부 실패했을 때만 에러를 돌려준다
func (s *ConvertService) Convert(ctx context.Context, message string, senderMBTI, receiverMBTI models.MBTI) ([]models.ToneMessage, error) {
	if strings.TrimSpace(message) == "" {
		return nil, ErrInvalidInput
	}

	var (
		results []models.ToneMessage
		lastErr error
	)
	for _, tone := range Tones {
		converted, err := s.convertOne(ctx, message, senderMBTI, receiverMBTI, tone)
		if err != nil {
			lastErr = err
			continue
		}
		results = append(results, *converted)
	}

	if len(results) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return results, nil
}

func (s *ConvertService) convertOne(ctx context.Context, message string, senderMBTI, receiverMBTI models.MBTI, tone string) (*models.ToneMessage, error) {
	prompt := s.buildPrompt(message, senderMBTI, receiverMBTI, tone)

	raw, err := s.llm.Complete(ctx, []llm.Message{
		{Role: "system", Content: converterSystemPrompt},
		{Role: "user", Content: prompt},
	})
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Content     string `json:"content"`
		Explanation string `json:"explanation"`
	}
	if err := json.Unmarshal([]byte(extractJSON(raw)), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse converter response: %w", err)
	}
	if parsed.Content == "" {
		return nil, llm.ErrEmptyResponse
	}

	return &models.ToneMessage{
		Tone:        tone,
		Content:     parsed.Content,
		Explanation: parsed.Explanation,
	}, nil
}

func (s *ConvertService) buildPrompt(message string, senderMBTI, receiverMBTI models.MBTI, tone string) string {
	profile, ok := mbtiProfiles[receiverMBTI]
	if !ok {
		profile = "일반적인 공감 대화법을 사용하세요."
	}
	guideline, ok := toneGuidelines[tone]
	if !ok {
		guideline = "메시지의 의미를 유지하면서 자연스럽게 변환해주세요."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# 역할\n'%s' 성향의 발신자가 쓴 메시지를 '%s' 성향의 수신자가 가장 듣기 좋은 방식으로 다듬어줘.\n\n", senderMBTI, receiverMBTI)
	fmt.Fprintf(&b, "# 원본 메시지\n%q\n\n", message)
	fmt.Fprintf(&b, "# 수신자 페르소나 (%s)\n%s\n\n", receiverMBTI, profile)
	fmt.Fprintf(&b, "# 변환 원칙\n1. 날짜, 시간, 장소, 금액 등 핵심 정보는 절대 바꾸지 마.\n2. 원본의 목적(요청, 거절, 사과 등)은 그대로 유지해.\n\n")
	fmt.Fprintf(&b, "# 톤 가이드 (%s)\n%s\n\n", tone, guideline)
	b.WriteString(`# 출력 형식 (JSON)
{"content": "변환된 메시지", "explanation": "어떤 특성을 고려해 어떻게 표현했는지 1문장"}`)
	return b.String()
}

// extractJSON 코드 블록 등으로 감싸진 응답에서 JSON 본문만 추출
func extractJSON(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return raw
	}
	return raw[start : end+1]
}
