package service

import (
	"context"

	"github.com/mbtimate/mbtimate-backend/internal/models"
	"github.com/mbtimate/mbtimate-backend/internal/repository"
	"github.com/mbtimate/mbtimate-backend/pkg/logger"
)

// TicketQueue 매칭 대기열 포트
type TicketQueue interface {
	Enqueue(ctx context.Context, ticket models.MatchTicket) error
	Dequeue(ctx context.Context, mbti models.MBTI) (*models.MatchTicket, error)
	Remove(ctx context.Context, userID string, mbti models.MBTI) (bool, error)
	RemoveAny(ctx context.Context, userID string) (bool, error)
	Size(ctx context.Context, mbti models.MBTI) (int, error)
	SizesFor(ctx context.Context, types []models.MBTI) ([]repository.QueueSize, error)
	Contains(ctx context.Context, userID string, mbti models.MBTI) (bool, error)
}

// BlockChecker 차단 관계 조회 포트
type BlockChecker interface {
	IsBlockedEither(ctx context.Context, userID, otherID string) (bool, error)
}

// PartnerSearchService 호환 타입 큐를 탐색해 매칭 상대를 찾는 서비스
type PartnerSearchService struct {
	queue           TicketQueue
	blocks          BlockChecker
	requeueRejected bool
}

func NewPartnerSearchService(queue TicketQueue, blocks BlockChecker, requeueRejected bool) *PartnerSearchService {
	return &PartnerSearchService{
		queue:           queue,
		blocks:          blocks,
		requeueRejected: requeueRejected,
	}
}

// FindPartner 호환 타입 큐를 대기자가 많은 순서로 돌며 첫 번째 유효한
// 상대 티켓을 꺼내 반환한다. 없으면 nil.
//
// 큐에서 꺼낸 후보가 차단 관계이거나 본인이면 버리고 같은 큐의 다음
// 티켓을 계속 확인한다. requeueRejected가 켜져 있으면 버린 티켓을
// 탐색 종료 후 해당 큐 꼬리에 되돌려 넣는다.
func (s *PartnerSearchService) FindPartner(ctx context.Context, ticket models.MatchTicket, level int) (*models.MatchTicket, error) {
	targets := TargetsFor(ticket.MBTI, level)
	if len(targets) == 0 {
		return nil, nil
	}

	// 대기자가 많은 큐부터 방문해 매칭 확률을 높인다
	sizes, err := s.queue.SizesFor(ctx, targets)
	if err != nil {
		return nil, err
	}

	var rejected []models.MatchTicket
	defer func() {
		if s.requeueRejected {
			s.requeue(ctx, rejected)
		}
	}()

	for _, qs := range sizes {
		if qs.Size == 0 {
			continue
		}

		for {
			candidate, err := s.queue.Dequeue(ctx, qs.MBTI)
			if err != nil {
				return nil, err
			}
			if candidate == nil {
				// 해당 큐가 비었으면 다음 큐로 이동
				break
			}

			// 레벨 확장으로 같은 타입 큐를 탐색할 때 자기 자신이 나올 수 있다
			if candidate.UserID == ticket.UserID {
				continue
			}

			blocked, err := s.blocks.IsBlockedEither(ctx, ticket.UserID, candidate.UserID)
			if err != nil {
				// 차단 여부를 확인할 수 없는 후보는 매칭하지 않는다
				logger.Warn("Block check failed, skipping candidate",
					"userId", ticket.UserID, "candidateId", candidate.UserID, "error", err)
				rejected = append(rejected, *candidate)
				continue
			}
			if blocked {
				rejected = append(rejected, *candidate)
				continue
			}

			return candidate, nil
		}
	}

	return nil, nil
}

// ReleaseCandidates 탐색 바깥(가용성, 기존 파트너 검사)에서 탈락한 후보를
// 돌려받아 requeue 정책에 따라 원래 큐로 복귀시킨다
func (s *PartnerSearchService) ReleaseCandidates(ctx context.Context, tickets []models.MatchTicket) {
	if !s.requeueRejected || len(tickets) == 0 {
		return
	}
	s.requeue(ctx, tickets)
}

func (s *PartnerSearchService) requeue(ctx context.Context, tickets []models.MatchTicket) {
	for _, t := range tickets {
		if err := s.queue.Enqueue(ctx, t); err != nil && err != repository.ErrDuplicateTicket {
			logger.Error("Failed to requeue rejected ticket", "userId", t.UserID, "error", err)
		}
	}
}
