package service

import (
	"regexp"
	"strings"

	goahocorasick "github.com/anknown/ahocorasick"

	"github.com/mbtimate/mbtimate-backend/internal/models"
)

// traitKeyword 성향별 키워드와 가중치
type traitKeyword struct {
	word   string
	weight int
}

// dictionary 차원별/성향별 키워드 사전.
// 답변 텍스트에서 나타나는 단어로 성향 점수를 누적한다
var dictionary = map[models.Dimension]map[byte][]traitKeyword{
	models.DimensionEI: {
		'E': {
			{"같이", 5}, {"모임", 5}, {"친구들", 5}, {"다같이", 5}, {"수다", 5},
			{"사람", 3}, {"만나", 4}, {"파티", 4}, {"약속", 4}, {"놀", 4},
			{"함께", 4}, {"활발", 4}, {"떠들썩", 5}, {"전화", 3}, {"연락", 3},
		},
		'I': {
			{"혼자", 5}, {"집에", 5}, {"집콕", 5}, {"혼자만", 5}, {"집순이", 5},
			{"집돌이", 5}, {"조용", 4}, {"충전", 4}, {"피곤", 4}, {"귀찮", 4},
			{"차분", 4}, {"사색", 4}, {"생각", 3}, {"휴식", 3}, {"독서", 3},
			{"혼밥", 5}, {"이불", 4}, {"누워", 4},
		},
	},
	models.DimensionSN: {
		'S': {
			{"사실", 5}, {"구체적", 5}, {"실질적", 5}, {"실용적", 5}, {"경험상", 5},
			{"현실", 4}, {"경험", 4}, {"실제로", 4}, {"겪은", 4}, {"당장", 4},
			{"증거", 4}, {"데이터", 4}, {"디테일", 4}, {"팩트", 3}, {"지금", 3},
		},
		'N': {
			{"의미", 5}, {"상상", 5}, {"가능성", 5}, {"만약에", 5}, {"아이디어", 5},
			{"영감", 5}, {"본질", 5}, {"철학", 5}, {"창의", 5}, {"비전", 5},
			{"통찰", 5}, {"미래", 4}, {"직관", 4}, {"추상", 4}, {"어쩌면", 4},
			{"언젠가", 4}, {"꿈", 4}, {"느낌", 3}, {"뭔가", 3},
		},
	},
	models.DimensionTF: {
		'T': {
			{"이유", 5}, {"원인", 5}, {"논리", 5}, {"왜", 5}, {"합리", 5},
			{"객관", 5}, {"근거", 5}, {"인과", 5}, {"냉정", 5}, {"팩폭", 5},
			{"직설", 5}, {"분석", 4}, {"해결", 4}, {"효율", 4}, {"판단", 4},
			{"계산", 4}, {"반박", 5}, {"결론", 4},
		},
		'F': {
			{"기분", 5}, {"마음", 5}, {"공감", 5}, {"감정", 5}, {"속상", 5},
			{"어떡해", 5}, {"감성", 5}, {"위로", 5}, {"힐링", 5}, {"배려", 5},
			{"감동", 5}, {"눈물", 5}, {"상처", 5}, {"서운", 4}, {"따뜻", 4},
			{"걱정", 4}, {"미안", 4}, {"진심", 4}, {"힘내", 5}, {"응원", 5},
			{"ㅠㅠ", 5}, {"ㅜㅜ", 5},
		},
	},
	models.DimensionJP: {
		'J': {
			{"계획", 5}, {"미리", 5}, {"리스트", 5}, {"스케줄", 5}, {"일정", 5},
			{"미리미리", 5}, {"데드라인", 5}, {"체크리스트", 5}, {"투두", 5},
			{"정리", 4}, {"예약", 4}, {"준비", 4}, {"결정", 4}, {"체계", 4},
			{"순서", 4}, {"마감", 4}, {"깔끔", 4}, {"확인", 4},
		},
		'P': {
			{"즉흥", 5}, {"일단", 5}, {"융통", 5}, {"임기응변", 5}, {"애드립", 5},
			{"미루", 5}, {"자연스럽", 5}, {"흘러가", 5}, {"그때", 4}, {"유연", 4},
			{"대충", 4}, {"여유", 4}, {"자유", 4}, {"느긋", 4}, {"뭐든", 4},
			{"알아서", 4}, {"몰라", 4}, {"글쎄", 4}, {"그냥", 3},
		},
	},
}

// AllDimensions 분석 차원 순서 (질문 배치와 동일)
var AllDimensions = []models.Dimension{
	models.DimensionEI,
	models.DimensionSN,
	models.DimensionTF,
	models.DimensionJP,
}

// 말투 보정용 패턴
var (
	negativePattern  = regexp.MustCompile(`없|안|못|아무`)
	numericPattern   = regexp.MustCompile(`\d+|개|번|시|분|원`)
	hedgePattern     = regexp.MustCompile(`\.\.\.|~|것 같|듯|\?`)
	vaguePattern     = regexp.MustCompile(`뭔가|약간|좀|아니면|상상`)
	causalPattern    = regexp.MustCompile(`근데|하지만|그래서|즉|때문`)
	emotivePattern   = regexp.MustCompile(`[ㅠㅜㅎㅋ]{2,}|!|♥|♡`)
	politeEndPattern = regexp.MustCompile(`네요|아요|어요|죠|구나`)
	mustPattern      = regexp.MustCompile(`해야|할게|하자|필수|꼭|계획`)
	whateverPattern  = regexp.MustCompile(`글쎄|아마|몰라|일단|그냥|봐서`)
)

// AnalysisResult 답변 분석 결과
type AnalysisResult struct {
	MBTI       models.MBTI                  `json:"mbti"`
	Scores     map[string]int               `json:"scores"`
	Confidence map[models.Dimension]float64 `json:"confidence"`
}

// SingleAnswerResult 단일 답변 분석 결과
type SingleAnswerResult struct {
	Scores map[string]int `json:"scores"`
	Side   string         `json:"side"`
	Score  int            `json:"score"`
}

// MBTIAnalyzer 답변 텍스트에서 성향 점수를 뽑는 키워드 엔진.
// 성향별 Aho-Corasick 오토마톤으로 사전 전체를 한 번에 탐색한다
type MBTIAnalyzer struct {
	machines map[byte]*goahocorasick.Machine
	weights  map[byte]map[string]int
}

func NewMBTIAnalyzer() (*MBTIAnalyzer, error) {
	a := &MBTIAnalyzer{
		machines: make(map[byte]*goahocorasick.Machine),
		weights:  make(map[byte]map[string]int),
	}

	for _, traits := range dictionary {
		for trait, keywords := range traits {
			patterns := make([][]rune, len(keywords))
			weights := make(map[string]int, len(keywords))
			for i, kw := range keywords {
				patterns[i] = []rune(kw.word)
				weights[kw.word] = kw.weight
			}

			m := new(goahocorasick.Machine)
			if err := m.Build(patterns); err != nil {
				return nil, err
			}
			a.machines[trait] = m
			a.weights[trait] = weights
		}
	}

	return a, nil
}

// DimensionForQuestion 질문 번호(0부터)가 겨냥하는 차원.
// 12문항을 3문항씩 EI/SN/TF/JP에 배정한다
func DimensionForQuestion(index int) models.Dimension {
	switch {
	case index < 3:
		return models.DimensionEI
	case index < 6:
		return models.DimensionSN
	case index < 9:
		return models.DimensionTF
	default:
		return models.DimensionJP
	}
}

// keywordScore 해당 성향 사전에 걸린 키워드 가중치 합
func (a *MBTIAnalyzer) keywordScore(trait byte, answer string) int {
	machine := a.machines[trait]
	if machine == nil {
		return 0
	}

	total := 0
	for _, term := range machine.MultiPatternSearch([]rune(answer), false) {
		total += a.weights[trait][string(term.Word)]
	}
	return total
}

// Analyze 답변 전체로 MBTI를 산출한다.
// 질문이 겨냥한 차원과 무관하게 모든 답변을 모든 사전에 통과시켜 누적한다
func (a *MBTIAnalyzer) Analyze(answers []string) AnalysisResult {
	scores := map[string]int{"E": 0, "I": 0, "S": 0, "N": 0, "T": 0, "F": 0, "J": 0, "P": 0}

	for _, answer := range answers {
		if answer == "" {
			continue
		}

		for trait := range a.machines {
			scores[string(trait)] += a.keywordScore(trait, answer)
		}

		for _, dim := range AllDimensions {
			a.analyzeStyle(answer, dim, scores)
		}
	}

	mbti := models.MBTI(pick(scores, "E", "I") + pick(scores, "S", "N") + pick(scores, "T", "F") + pick(scores, "J", "P"))

	return AnalysisResult{
		MBTI:   mbti,
		Scores: scores,
		Confidence: map[models.Dimension]float64{
			models.DimensionEI: confidence(scores["E"], scores["I"]),
			models.DimensionSN: confidence(scores["S"], scores["N"]),
			models.DimensionTF: confidence(scores["T"], scores["F"]),
			models.DimensionJP: confidence(scores["J"], scores["P"]),
		},
	}
}

// AnalyzeSingle 단일 답변을 해당 차원에 대해서만 분석한다
func (a *MBTIAnalyzer) AnalyzeSingle(answer string, dim models.Dimension) SingleAnswerResult {
	trait1, trait2 := dim[0], dim[1]
	scores := map[string]int{string(trait1): 0, string(trait2): 0}

	scores[string(trait1)] += a.keywordScore(trait1, answer)
	scores[string(trait2)] += a.keywordScore(trait2, answer)
	a.analyzeStyle(answer, dim, scores)

	side, score := string(trait1), scores[string(trait1)]
	if scores[string(trait2)] > score {
		side, score = string(trait2), scores[string(trait2)]
	}

	return SingleAnswerResult{Scores: scores, Side: side, Score: score}
}

// analyzeStyle 키워드에 안 잡히는 말투/문체 신호 보정
func (a *MBTIAnalyzer) analyzeStyle(answer string, dim models.Dimension, scores map[string]int) {
	clean := strings.TrimSpace(answer)
	if clean == "" {
		return
	}
	length := len([]rune(strings.ReplaceAll(clean, " ", "")))

	switch dim {
	case models.DimensionEI:
		// E: 길고 활기찬 문장, I: 짧고 소극적인 문장
		if length > 30 {
			scores["E"] += 2
		}
		if strings.ContainsAny(clean, "!~") {
			scores["E"]++
		}
		if strings.Contains(clean, "ㅋㅋ") || strings.Contains(clean, "ㅎㅎ") {
			scores["E"]++
		}
		if length < 15 {
			scores["I"] += 2
		}
		if strings.HasSuffix(clean, ".") || strings.HasSuffix(clean, "요") {
			scores["I"]++
		}
		if negativePattern.MatchString(clean) {
			scores["I"]++
		}
	case models.DimensionSN:
		if numericPattern.MatchString(clean) {
			scores["S"] += 2
		}
		if hedgePattern.MatchString(clean) {
			scores["N"] += 2
		}
		if vaguePattern.MatchString(clean) {
			scores["N"]++
		}
	case models.DimensionTF:
		if strings.Contains(clean, "?") || strings.Contains(clean, "왜") {
			scores["T"] += 2
		}
		if causalPattern.MatchString(clean) {
			scores["T"]++
		}
		if emotivePattern.MatchString(clean) {
			scores["F"] += 2
		}
		if politeEndPattern.MatchString(clean) {
			scores["F"]++
		}
	case models.DimensionJP:
		if mustPattern.MatchString(clean) {
			scores["J"] += 2
		}
		if whateverPattern.MatchString(clean) {
			scores["P"] += 2
		}
	}
}

func pick(scores map[string]int, a, b string) string {
	if scores[a] >= scores[b] {
		return a
	}
	return b
}

// confidence 두 성향 점수 차이를 0~100 비율로 환산
func confidence(a, b int) float64 {
	total := float64(a+b) + 0.1
	diff := float64(a - b)
	if diff < 0 {
		diff = -diff
	}
	return diff / total * 100
}
