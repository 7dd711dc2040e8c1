package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mbtimate/mbtimate-backend/internal/models"
	"github.com/mbtimate/mbtimate-backend/internal/repository"
	"github.com/mbtimate/mbtimate-backend/pkg/logger"
)

// MatchStateStore 유저별 매칭 상태 포트
type MatchStateStore interface {
	GetState(ctx context.Context, userID string) (*models.UserMatchState, error)
	SetQueued(ctx context.Context, userID string, mbti models.MBTI) error
	SetMatched(ctx context.Context, userID string, mbti models.MBTI, roomID string, partner models.MatchPartner, ttl time.Duration) error
	ClearState(ctx context.Context, userID string) error
	IsAvailableForMatch(ctx context.Context, userID string) (bool, error)
}

// ChatRoomPort 매칭 성사 시 채팅 도메인을 호출하는 포트
type ChatRoomPort interface {
	CreateRoom(ctx context.Context, room models.RoomCreation) error
	ArePartners(ctx context.Context, userID, otherID string) (bool, error)
}

// MatchNotifier 매칭 성사를 상대에게 실시간으로 알리는 포트
type MatchNotifier interface {
	NotifyMatch(userID, roomID string, partner models.MatchPartner)
}

// MatchOrchestrator 매칭 요청/취소의 최상위 진입점.
// 탐색, 상태 전이, 채팅방 생성, 알림을 조율한다
type MatchOrchestrator struct {
	queue    TicketQueue
	states   MatchStateStore
	search   *PartnerSearchService
	rooms    ChatRoomPort
	notifier MatchNotifier
	stateTTL time.Duration
}

func NewMatchOrchestrator(
	queue TicketQueue,
	states MatchStateStore,
	search *PartnerSearchService,
	rooms ChatRoomPort,
	notifier MatchNotifier,
	stateTTL time.Duration,
) *MatchOrchestrator {
	return &MatchOrchestrator{
		queue:    queue,
		states:   states,
		search:   search,
		rooms:    rooms,
		notifier: notifier,
		stateTTL: stateTTL,
	}
}

// RequestMatch 매칭 요청 처리.
// 즉시 상대를 찾으면 matched, 없으면 대기열에 등록하고 waiting
func (o *MatchOrchestrator) RequestMatch(ctx context.Context, userID string, mbti models.MBTI, level int) (*models.MatchResult, error) {
	// 1. 이미 성사된 매칭(아직 채팅 접속 전)이 있으면 거부
	available, err := o.states.IsAvailableForMatch(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !available {
		state, err := o.states.GetState(ctx, userID)
		if err != nil {
			return nil, err
		}
		result := &models.MatchResult{
			Status:  models.MatchStatusAlreadyMatched,
			Message: "You already have a pending match",
			MyMBTI:  mbti,
		}
		if state != nil {
			result.RoomID = state.RoomID
			if state.PartnerID != "" {
				result.Partner = &models.MatchPartner{UserID: state.PartnerID, MBTI: state.PartnerMBTI}
			}
		}
		return result, nil
	}

	// 2. 재요청(MBTI나 레벨 변경 등)이면 어느 큐에 있든 기존 티켓을 먼저 제거
	if _, err := o.queue.RemoveAny(ctx, userID); err != nil {
		return nil, err
	}

	ticket := models.MatchTicket{UserID: userID, MBTI: mbti, QueuedAt: time.Now()}

	// 건너뛴 후보는 요청 처리가 끝난 뒤 정책에 따라 복귀시킨다
	var rejected []models.MatchTicket
	defer func() {
		o.search.ReleaseCandidates(ctx, rejected)
	}()

	// 3. 유효한 상대가 나올 때까지 탐색 반복
	for {
		candidate, err := o.search.FindPartner(ctx, ticket, level)
		if err != nil {
			return nil, err
		}
		if candidate == nil {
			break
		}

		// 성사됐지만 만료 전인 상대는 건너뛴다
		candidateAvailable, err := o.states.IsAvailableForMatch(ctx, candidate.UserID)
		if err != nil {
			return nil, err
		}
		if !candidateAvailable {
			logger.Debug("Skipping unavailable candidate", "candidateId", candidate.UserID)
			rejected = append(rejected, *candidate)
			continue
		}

		// 이미 같은 채팅방을 가진 상대와는 다시 매칭하지 않는다.
		// 조회 실패는 파트너가 아닌 것으로 간주하고 매칭을 진행한다
		alreadyPartners, err := o.rooms.ArePartners(ctx, userID, candidate.UserID)
		if err != nil {
			logger.Warn("Partner check failed, proceeding with match",
				"candidateId", candidate.UserID, "error", err)
			alreadyPartners = false
		}
		if alreadyPartners {
			logger.Debug("Skipping existing chat partner", "candidateId", candidate.UserID)
			rejected = append(rejected, *candidate)
			continue
		}

		return o.completeMatch(ctx, ticket, *candidate)
	}

	// 4. 상대가 없으면 대기열 등록
	if err := o.queue.Enqueue(ctx, ticket); err != nil {
		if err == repository.ErrDuplicateTicket {
			waitCount, _ := o.queue.Size(ctx, mbti)
			return &models.MatchResult{
				Status:    models.MatchStatusAlreadyWaiting,
				Message:   "You are already in the waiting queue",
				MyMBTI:    mbti,
				WaitCount: waitCount,
			}, nil
		}
		return nil, err
	}

	if err := o.states.SetQueued(ctx, userID, mbti); err != nil {
		return nil, err
	}

	waitCount, err := o.queue.Size(ctx, mbti)
	if err != nil {
		return nil, err
	}

	return &models.MatchResult{
		Status:    models.MatchStatusWaiting,
		Message:   "Added to the waiting queue",
		MyMBTI:    mbti,
		WaitCount: waitCount,
	}, nil
}

// completeMatch 방 생성, 상태 전이, 상대 알림까지 매칭 성사를 마무리한다
func (o *MatchOrchestrator) completeMatch(ctx context.Context, requester, partner models.MatchTicket) (*models.MatchResult, error) {
	roomID := uuid.NewString()
	room := models.RoomCreation{
		RoomID: roomID,
		Users: []models.MatchPartner{
			{UserID: requester.UserID, MBTI: requester.MBTI},
			{UserID: partner.UserID, MBTI: partner.MBTI},
		},
		Timestamp: time.Now(),
	}

	// 두 유저 모두 MATCHED로 전이. TTL 안에 채팅에 접속하지 않으면 만료된다
	if err := o.states.SetMatched(ctx, requester.UserID, requester.MBTI, roomID,
		models.MatchPartner{UserID: partner.UserID, MBTI: partner.MBTI}, o.stateTTL); err != nil {
		return nil, err
	}
	if err := o.states.SetMatched(ctx, partner.UserID, partner.MBTI, roomID,
		models.MatchPartner{UserID: requester.UserID, MBTI: requester.MBTI}, o.stateTTL); err != nil {
		return nil, err
	}

	// 채팅방 생성 실패가 매칭 자체를 되돌리지는 않는다
	if err := o.rooms.CreateRoom(ctx, room); err != nil {
		logger.Error("Failed to create chat room for match",
			"roomId", roomID, "error", err)
	}

	// 대기 중이던 상대에게 실시간 알림
	o.notifier.NotifyMatch(partner.UserID, roomID, models.MatchPartner{
		UserID: requester.UserID,
		MBTI:   requester.MBTI,
	})

	logger.Info("Match completed",
		"roomId", roomID, "requesterId", requester.UserID, "partnerId", partner.UserID)

	return &models.MatchResult{
		Status:  models.MatchStatusMatched,
		Message: "Match found",
		MyMBTI:  requester.MBTI,
		RoomID:  roomID,
		Partner: &models.MatchPartner{UserID: partner.UserID, MBTI: partner.MBTI},
	}, nil
}

// CancelMatch 대기열에서 티켓을 제거하고 매칭 상태를 정리한다.
// MBTI를 바꿔 취소해도 인덱스를 따라 실제 큐에서 제거된다.
// 이미 제거된 뒤 다시 호출해도 상태 정리는 항상 수행된다
func (o *MatchOrchestrator) CancelMatch(ctx context.Context, userID string, mbti models.MBTI) (*models.MatchResult, error) {
	removed, err := o.queue.RemoveAny(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := o.states.ClearState(ctx, userID); err != nil {
		return nil, err
	}

	if !removed {
		return &models.MatchResult{
			Status:  models.MatchStatusFail,
			Message: "No waiting ticket found",
			MyMBTI:  mbti,
		}, nil
	}

	return &models.MatchResult{
		Status:  models.MatchStatusCancelled,
		Message: "Match request cancelled",
		MyMBTI:  mbti,
	}, nil
}

// WaitingCount 특정 MBTI 큐의 대기 인원
func (o *MatchOrchestrator) WaitingCount(ctx context.Context, mbti models.MBTI) (int, error) {
	return o.queue.Size(ctx, mbti)
}

// MatchStatus 유저의 현재 매칭 상태 조회. 상태가 없으면 nil
func (o *MatchOrchestrator) MatchStatus(ctx context.Context, userID string) (*models.UserMatchState, error) {
	return o.states.GetState(ctx, userID)
}
