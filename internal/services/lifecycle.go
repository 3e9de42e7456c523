package services

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"calibration-system/internal/dto"
	"calibration-system/internal/repositories"
	"calibration-system/pkg/config"
	apperrors "calibration-system/pkg/errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type LifecycleServiceInterface interface {
	Archive(ctx context.Context, incomingID uint64, force bool) (*dto.ArchiveResultDTO, error)
	Restore(ctx context.Context, incomingID uint64) error
	IssueRecallNumber(ctx context.Context) (string, error)
}

// LifecycleService — оркестрация составных операций над парой
// приёмка/выдача и связанным активом: архивация с каскадом, восстановление,
// выдача recall-номеров.
type LifecycleService struct {
	txManager     repositories.TxManagerInterface
	incomingRepo  repositories.IncomingRepositoryInterface
	outgoingRepo  repositories.OutgoingRepositoryInterface
	equipmentRepo repositories.EquipmentRepositoryInterface
	recallCfg     config.RecallConfig
	logger        *zap.Logger
	now           func() time.Time
	rng           *rand.Rand
}

func NewLifecycleService(
	txManager repositories.TxManagerInterface,
	incomingRepo repositories.IncomingRepositoryInterface,
	outgoingRepo repositories.OutgoingRepositoryInterface,
	equipmentRepo repositories.EquipmentRepositoryInterface,
	recallCfg config.RecallConfig,
	logger *zap.Logger,
) *LifecycleService {
	return &LifecycleService{
		txManager:     txManager,
		incomingRepo:  incomingRepo,
		outgoingRepo:  outgoingRepo,
		equipmentRepo: equipmentRepo,
		recallCfg:     recallCfg,
		logger:        logger,
		now:           time.Now,
		rng:           rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *LifecycleService) WithClock(now func() time.Time) *LifecycleService {
	s.now = now
	return s
}

// Archive без force — мягкое удаление; блокируется, если у записи приёмки
// есть оформленная выдача. С force — каскадное жёсткое удаление: сначала
// выдачи, затем сама приёмка, затем актив, если эта приёмка была его
// единственной историей.
func (s *LifecycleService) Archive(ctx context.Context, incomingID uint64, force bool) (*dto.ArchiveResultDTO, error) {
	record, err := s.incomingRepo.FindByID(ctx, incomingID)
	if err != nil {
		if err == apperrors.ErrNotFound {
			return nil, apperrors.NewNotFoundError("Запись приёмки не найдена")
		}
		return nil, err
	}

	outgoing, err := s.outgoingRepo.FindByIncomingID(ctx, incomingID)
	if err != nil && err != apperrors.ErrNotFound {
		return nil, err
	}
	hasOutgoing := outgoing != nil

	if !force {
		if hasOutgoing {
			return nil, apperrors.NewValidationError("Запись нельзя архивировать: по ней оформлена выдача",
				map[string]string{"incoming_id": "используйте принудительное удаление либо оставьте запись"})
		}
		if err := s.incomingRepo.SoftDelete(ctx, incomingID); err != nil {
			return nil, err
		}
		s.logger.Info("запись приёмки архивирована", zap.Uint64("incomingId", incomingID))
		return &dto.ArchiveResultDTO{Kind: dto.ArchiveKindArchived, IncomingID: incomingID}, nil
	}

	// Актив уходит в каскад, только если удаляемая приёмка — единственная
	// история актива и выдач по ней не было.
	intakeCount, err := s.incomingRepo.CountByEquipment(ctx, record.EquipmentID)
	if err != nil {
		return nil, err
	}
	dropEquipment := intakeCount == 1 && !hasOutgoing

	result := &dto.ArchiveResultDTO{Kind: dto.ArchiveKindForceDeleted, IncomingID: incomingID}
	err = s.txManager.WithinTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		// Порядок каскада фиксирован: потомки раньше родителя.
		deletedOutgoing, err := s.outgoingRepo.HardDeleteByIncomingInTx(ctx, tx, incomingID)
		if err != nil {
			return fmt.Errorf("каскадное удаление выдач прервано: %w", err)
		}
		result.DeletedOutgoingIDs = deletedOutgoing

		if err := s.incomingRepo.HardDeleteInTx(ctx, tx, incomingID); err != nil {
			return fmt.Errorf("каскадное удаление приёмки прервано, выдачи уже удалены: %w", err)
		}

		if dropEquipment {
			if err := s.equipmentRepo.HardDeleteInTx(ctx, tx, record.EquipmentID); err != nil {
				return err
			}
			result.DeletedEquipmentID = &record.EquipmentID
		}
		return nil
	})
	if err != nil {
		s.logger.Error("ошибка принудительного удаления записи приёмки",
			zap.Error(err), zap.Uint64("incomingId", incomingID))
		return nil, err
	}

	s.logger.Info("запись приёмки удалена безвозвратно",
		zap.Uint64("incomingId", incomingID),
		zap.Int("deletedOutgoing", len(result.DeletedOutgoingIDs)))
	return result, nil
}

// Restore снимает отметку архивации. Принудительно удалённые выдачи не
// возвращаются: эта связь разорвана навсегда.
func (s *LifecycleService) Restore(ctx context.Context, incomingID uint64) error {
	if _, err := s.incomingRepo.FindArchivedByID(ctx, incomingID); err != nil {
		if err == apperrors.ErrNotFound {
			return apperrors.NewNotFoundError("Архивная запись приёмки не найдена")
		}
		return err
	}
	if err := s.incomingRepo.Restore(ctx, incomingID); err != nil {
		return err
	}
	s.logger.Info("запись приёмки восстановлена из архива", zap.Uint64("incomingId", incomingID))
	return nil
}

// IssueRecallNumber выдаёт свободный номер формата PREFIX-YYYY-NNNNN.
// Уникальность проверяется по активу и по всей истории приёмок, включая
// архив; повторы ограничены настройкой. Цикл повторов — оптимизация:
// гарантию даёт уникальный индекс в БД.
func (s *LifecycleService) IssueRecallNumber(ctx context.Context) (string, error) {
	year := s.now().Year()
	for attempt := 0; attempt < s.recallCfg.MaxAttempts; attempt++ {
		candidate := fmt.Sprintf("%s-%d-%05d", s.recallCfg.Prefix, year, s.rng.Intn(100000))

		taken, err := s.equipmentRepo.ExistsByRecallNumber(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			taken, err = s.incomingRepo.ExistsByRecallNumber(ctx, candidate)
			if err != nil {
				return "", err
			}
		}
		if !taken {
			return candidate, nil
		}
		s.logger.Warn("коллизия recall-номера, повтор генерации",
			zap.String("candidate", candidate), zap.Int("attempt", attempt+1))
	}
	return "", apperrors.NewConflictError("Не удалось подобрать свободный recall-номер, повторите попытку")
}
