package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mbtimate/mbtimate-backend/internal/models"
)

func TestTargetsFor_Level1(t *testing.T) {
	targets := TargetsFor(models.INFP, 1)
	assert.Equal(t, []models.MBTI{models.ENFJ, models.ENTJ}, targets)
}

func TestTargetsFor_Level1_AllTypesHaveTargets(t *testing.T) {
	for _, mbti := range models.AllMBTI {
		targets := TargetsFor(mbti, 1)
		assert.NotEmpty(t, targets, "type %s has no level-1 targets", mbti)
	}
}

func TestTargetsFor_Level1_Symmetric(t *testing.T) {
	// A의 1차 호환 목록에 B가 있으면 B의 목록에도 A가 있어야 한다
	for mbti, targets := range primaryTargets {
		for _, target := range targets {
			assert.Contains(t, primaryTargets[target], mbti,
				"%s lists %s but not vice versa", mbti, target)
		}
	}
}

func TestTargetsFor_Level2_WidensLevel1(t *testing.T) {
	level1 := TargetsFor(models.INFP, 1)
	level2 := TargetsFor(models.INFP, 2)

	assert.Greater(t, len(level2), len(level1))
	for _, target := range level1 {
		assert.Contains(t, level2, target)
	}
	// 레벨 2는 같은 인식 기능(N)을 공유하는 타입을 포함한다
	assert.Contains(t, level2, models.INFJ)
}

func TestTargetsFor_Level3_AllTypes(t *testing.T) {
	targets := TargetsFor(models.ESTJ, 3)
	assert.Len(t, targets, 16)
}

func TestTargetsFor_HighLevel_SameAsLevel3(t *testing.T) {
	assert.Equal(t, TargetsFor(models.INTP, 3), TargetsFor(models.INTP, 99))
}

func TestTargetsFor_InvalidType(t *testing.T) {
	assert.Nil(t, TargetsFor(models.MBTI("XXXX"), 1))
}

func TestTargetsFor_NoDuplicates(t *testing.T) {
	for _, mbti := range models.AllMBTI {
		for _, level := range []int{1, 2, 3} {
			targets := TargetsFor(mbti, level)
			seen := make(map[models.MBTI]bool)
			for _, target := range targets {
				assert.False(t, seen[target], "%s level %d has duplicate %s", mbti, level, target)
				seen[target] = true
			}
		}
	}
}
