package service

import (
	"github.com/mbtimate/mbtimate-backend/internal/models"
	"github.com/samber/lo"
)

// primaryTargets MBTI별 1차 호환 타입 테이블 (레벨 1)
var primaryTargets = map[models.MBTI][]models.MBTI{
	models.INFP: {models.ENFJ, models.ENTJ},
	models.ENFP: {models.INFJ, models.INTJ},
	models.INFJ: {models.ENFP, models.ENTP},
	models.ENFJ: {models.INFP, models.ISFP},
	models.INTJ: {models.ENFP, models.ENTP},
	models.ENTJ: {models.INFP, models.INTP},
	models.INTP: {models.ENTJ, models.ESTJ},
	models.ENTP: {models.INFJ, models.INTJ},
	models.ISFP: {models.ENFJ, models.ESFJ, models.ESTJ},
	models.ESFP: {models.ISFJ, models.ISTJ},
	models.ISTP: {models.ESFJ, models.ESTJ},
	models.ESTP: {models.ISFJ, models.ISTJ},
	models.ISFJ: {models.ESFP, models.ESTP},
	models.ESFJ: {models.ISFP, models.ISTP},
	models.ISTJ: {models.ESFP, models.ESTP},
	models.ESTJ: {models.INTP, models.ISFP, models.ISTP},
}

// TargetsFor 주어진 MBTI와 레벨에 대한 호환 타입 목록을 순서대로 반환
//
// 레벨 1은 큐레이션된 1차 호환 테이블, 레벨 2는 1차 테이블에
// 같은 인식 기능(N/S)을 공유하는 타입을 추가, 레벨 3 이상은 전체 타입.
// 순수 함수이며 런타임에 변경되지 않는다.
func TargetsFor(mbti models.MBTI, level int) []models.MBTI {
	if !mbti.IsValid() {
		return nil
	}

	switch {
	case level <= 1:
		return append([]models.MBTI(nil), primaryTargets[mbti]...)
	case level == 2:
		widened := lo.Filter(models.AllMBTI, func(t models.MBTI, _ int) bool {
			return t[1] == mbti[1]
		})
		return lo.Uniq(append(append([]models.MBTI(nil), primaryTargets[mbti]...), widened...))
	default:
		return append([]models.MBTI(nil), models.AllMBTI...)
	}
}
