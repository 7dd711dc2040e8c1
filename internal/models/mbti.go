package models

import (
	"fmt"
	"strings"
)

// MBTI 16가지 성격 유형 코드
type MBTI string

const (
	INFP MBTI = "INFP"
	ENFP MBTI = "ENFP"
	INFJ MBTI = "INFJ"
	ENFJ MBTI = "ENFJ"
	INTJ MBTI = "INTJ"
	ENTJ MBTI = "ENTJ"
	INTP MBTI = "INTP"
	ENTP MBTI = "ENTP"
	ISFP MBTI = "ISFP"
	ESFP MBTI = "ESFP"
	ISTP MBTI = "ISTP"
	ESTP MBTI = "ESTP"
	ISFJ MBTI = "ISFJ"
	ESFJ MBTI = "ESFJ"
	ISTJ MBTI = "ISTJ"
	ESTJ MBTI = "ESTJ"
)

// AllMBTI 전체 유형 목록 (큐 순회 등에 사용)
var AllMBTI = []MBTI{
	INFP, ENFP, INFJ, ENFJ,
	INTJ, ENTJ, INTP, ENTP,
	ISFP, ESFP, ISTP, ESTP,
	ISFJ, ESFJ, ISTJ, ESTJ,
}

var validMBTI = func() map[MBTI]bool {
	m := make(map[MBTI]bool, len(AllMBTI))
	for _, t := range AllMBTI {
		m[t] = true
	}
	return m
}()

// ParseMBTI 문자열을 MBTI로 변환. 대소문자는 구분하지 않는다.
// 유효하지 않으면 에러 반환
func ParseMBTI(s string) (MBTI, error) {
	t := MBTI(strings.ToUpper(strings.TrimSpace(s)))
	if !validMBTI[t] {
		return "", fmt.Errorf("invalid MBTI type: %q", s)
	}
	return t, nil
}

// IsValid MBTI 코드 유효성 확인
func (t MBTI) IsValid() bool {
	return validMBTI[t]
}

func (t MBTI) String() string {
	return string(t)
}

// Gender 성별 값
type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
)

// ParseGender 문자열을 Gender로 변환
func ParseGender(s string) (Gender, error) {
	switch Gender(s) {
	case GenderMale, GenderFemale:
		return Gender(s), nil
	default:
		return "", fmt.Errorf("invalid gender: %q", s)
	}
}
