package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"calibration-system/internal/dto"
	"calibration-system/internal/entities"
	"calibration-system/pkg/constants"
	apperrors "calibration-system/pkg/errors"
	"calibration-system/pkg/utils"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func mustHash(t *testing.T, plain string) string {
	t.Helper()
	h, err := utils.HashPassword(plain)
	require.NoError(t, err)
	return h
}

func testEmployee(t *testing.T, id uint64, login, role, pin string, dept *entities.Department) *entities.Employee {
	t.Helper()
	e := &entities.Employee{
		ID:         id,
		Fio:        login,
		Login:      login,
		Role:       role,
		PinHash:    mustHash(t, pin),
		Department: dept,
	}
	if dept != nil {
		e.DepartmentID = null.Uint64From(dept.ID)
	}
	return e
}

func TestCycleTimeDays(t *testing.T) {
	dateIn := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	// Ровно четверо суток.
	assert.Equal(t, 4, CycleTimeDays(dateIn, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)))
	// Неполные сутки округляются вверх.
	assert.Equal(t, 5, CycleTimeDays(dateIn, time.Date(2024, 1, 5, 6, 0, 0, 0, time.UTC)))
	// Выдача в тот же момент.
	assert.Equal(t, 0, CycleTimeDays(dateIn, dateIn))
	// Рассинхрон часов не даёт отрицательного цикла.
	assert.Equal(t, 0, CycleTimeDays(dateIn, dateIn.Add(-time.Hour)))
}

func newOutgoingServiceForTest(
	incomingRepo *fakeIncomingRepo,
	outgoingRepo *fakeOutgoingRepo,
	employeeRepo *fakeEmployeeRepo,
	equipmentSvc *fakeEquipmentService,
) *OutgoingService {
	return NewOutgoingService(&fakeTxManager{}, outgoingRepo, incomingRepo, employeeRepo, equipmentSvc, zap.NewNop())
}

func TestOutgoingComplete(t *testing.T) {
	ctx := context.Background()
	metrology := &entities.Department{ID: 1, Name: "Метрология"}
	production := &entities.Department{ID: 2, Name: "Производство"}

	submitter := testEmployee(t, 10, "n.karimova", constants.RoleEmployee, "2222", metrology)
	confirmer := testEmployee(t, 20, "f.rakhimov", constants.RoleTechnician, "1111", metrology)
	outsider := testEmployee(t, 30, "d.saidov", constants.RoleEmployee, "3333", production)

	dateIn := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	newIncoming := func() *entities.IncomingRecord {
		return &entities.IncomingRecord{
			ID:           1,
			RecallNumber: "PG-2024-00042",
			TechnicianID: confirmer.ID,
			EquipmentID:  7,
			EmployeeInID: submitter.ID,
			SerialNumber: "SN-100",
			Description:  "Манометр",
			DateIn:       dateIn,
			Status:       constants.IncomingStatusForConfirmation,
		}
	}

	t.Run("успешное завершение калибровки", func(t *testing.T) {
		incoming := newIncoming()
		incomingRepo := newFakeIncomingRepo(incoming)
		outgoingRepo := newFakeOutgoingRepo()
		employeeRepo := newFakeEmployeeRepo(submitter, confirmer)
		svc := newOutgoingServiceForTest(incomingRepo, outgoingRepo, employeeRepo, newFakeEquipmentService())

		ctReqd := 5
		result, err := svc.Complete(ctx, incoming.ID, confirmer.ID, dto.CompleteCalibrationDTO{
			Pin:     "1111",
			DateOut: "2024-01-05",
			CTReqd:  &ctReqd,
		})
		require.NoError(t, err)

		assert.Equal(t, constants.OutgoingStatusForPickup, result.Status)
		assert.Equal(t, 4, result.CycleTime)
		assert.False(t, result.Overdue)
		assert.Equal(t, "PG-2024-00042", result.RecallNumber)
		assert.Equal(t, constants.IncomingStatusPendingCalibration, incoming.Status)

		// Выдача возвращается вместе с родительской записью приёмки.
		require.NotNil(t, result.Incoming)
		assert.Equal(t, incoming.ID, result.Incoming.ID)
		assert.Equal(t, "SN-100", result.Incoming.SerialNumber)
		assert.Equal(t, constants.IncomingStatusPendingCalibration, result.Incoming.Status)
	})

	t.Run("превышение требуемого цикла помечается overdue", func(t *testing.T) {
		incoming := newIncoming()
		incomingRepo := newFakeIncomingRepo(incoming)
		outgoingRepo := newFakeOutgoingRepo()
		employeeRepo := newFakeEmployeeRepo(submitter, confirmer)
		svc := newOutgoingServiceForTest(incomingRepo, outgoingRepo, employeeRepo, newFakeEquipmentService())

		ctReqd := 3
		result, err := svc.Complete(ctx, incoming.ID, confirmer.ID, dto.CompleteCalibrationDTO{
			Pin:     "1111",
			DateOut: "2024-01-05",
			CTReqd:  &ctReqd,
		})
		require.NoError(t, err)
		assert.True(t, result.Overdue)
		assert.Equal(t, 4, result.CycleTime)
	})

	t.Run("без ct_reqd запись не считается просроченной", func(t *testing.T) {
		incoming := newIncoming()
		svc := newOutgoingServiceForTest(newFakeIncomingRepo(incoming), newFakeOutgoingRepo(),
			newFakeEmployeeRepo(submitter, confirmer), newFakeEquipmentService())

		result, err := svc.Complete(ctx, incoming.ID, confirmer.ID, dto.CompleteCalibrationDTO{
			Pin:     "1111",
			DateOut: "2024-02-01",
		})
		require.NoError(t, err)
		assert.False(t, result.Overdue)
		assert.Nil(t, result.CTReqd)
	})

	t.Run("несуществующая запись приёмки", func(t *testing.T) {
		svc := newOutgoingServiceForTest(newFakeIncomingRepo(), newFakeOutgoingRepo(),
			newFakeEmployeeRepo(submitter, confirmer), newFakeEquipmentService())

		_, err := svc.Complete(ctx, 99, confirmer.ID, dto.CompleteCalibrationDTO{Pin: "1111"})
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, http.StatusNotFound))
	})

	t.Run("неверный PIN", func(t *testing.T) {
		incoming := newIncoming()
		svc := newOutgoingServiceForTest(newFakeIncomingRepo(incoming), newFakeOutgoingRepo(),
			newFakeEmployeeRepo(submitter, confirmer), newFakeEquipmentService())

		_, err := svc.Complete(ctx, incoming.ID, confirmer.ID, dto.CompleteCalibrationDTO{Pin: "9999"})
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, http.StatusUnauthorized))
	})

	t.Run("подтверждающий из другого отдела", func(t *testing.T) {
		incoming := newIncoming()
		svc := newOutgoingServiceForTest(newFakeIncomingRepo(incoming), newFakeOutgoingRepo(),
			newFakeEmployeeRepo(submitter, outsider), newFakeEquipmentService())

		_, err := svc.Complete(ctx, incoming.ID, outsider.ID, dto.CompleteCalibrationDTO{Pin: "3333"})
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, http.StatusBadRequest))
		// Сообщение называет оба отдела.
		assert.Contains(t, err.Error(), "Производство")
		assert.Contains(t, err.Error(), "Метрология")
	})

	t.Run("у сотрудника не заполнен отдел", func(t *testing.T) {
		noDept := testEmployee(t, 40, "no.dept", constants.RoleTechnician, "4444", nil)
		incoming := newIncoming()
		svc := newOutgoingServiceForTest(newFakeIncomingRepo(incoming), newFakeOutgoingRepo(),
			newFakeEmployeeRepo(submitter, noDept), newFakeEquipmentService())

		_, err := svc.Complete(ctx, incoming.ID, noDept.ID, dto.CompleteCalibrationDTO{Pin: "4444"})
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, http.StatusBadRequest))
	})

	t.Run("повторная выдача по той же приёмке", func(t *testing.T) {
		incoming := newIncoming()
		existing := &entities.OutgoingRecord{
			ID:         5,
			IncomingID: incoming.ID,
			Status:     constants.OutgoingStatusForPickup,
			DateOut:    dateIn.AddDate(0, 0, 2),
		}
		svc := newOutgoingServiceForTest(newFakeIncomingRepo(incoming), newFakeOutgoingRepo(existing),
			newFakeEmployeeRepo(submitter, confirmer), newFakeEquipmentService())

		_, err := svc.Complete(ctx, incoming.ID, confirmer.ID, dto.CompleteCalibrationDTO{Pin: "1111"})
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, http.StatusConflict))
	})
}

func TestOutgoingConfirmPickup(t *testing.T) {
	ctx := context.Background()
	metrology := &entities.Department{ID: 1, Name: "Метрология"}

	submitter := testEmployee(t, 10, "n.karimova", constants.RoleEmployee, "2222", metrology)
	other := testEmployee(t, 30, "d.saidov", constants.RoleEmployee, "3333", metrology)

	dueDate := null.TimeFrom(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	newState := func() (*entities.IncomingRecord, *entities.OutgoingRecord) {
		incoming := &entities.IncomingRecord{
			ID:           1,
			RecallNumber: "PG-2024-00042",
			EquipmentID:  7,
			EmployeeInID: submitter.ID,
			DateIn:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			Status:       constants.IncomingStatusPendingCalibration,
		}
		outgoing := &entities.OutgoingRecord{
			ID:                 5,
			IncomingID:         incoming.ID,
			RecallNumber:       incoming.RecallNumber,
			Status:             constants.OutgoingStatusForPickup,
			DateOut:            time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
			CalibrationDueDate: dueDate,
		}
		return incoming, outgoing
	}

	t.Run("успешное подтверждение выдачи", func(t *testing.T) {
		incoming, outgoing := newState()
		equipmentSvc := newFakeEquipmentService()
		svc := newOutgoingServiceForTest(newFakeIncomingRepo(incoming), newFakeOutgoingRepo(outgoing),
			newFakeEmployeeRepo(submitter), equipmentSvc)

		result, err := svc.ConfirmPickup(ctx, outgoing.ID, submitter.ID, dto.ConfirmPickupDTO{Pin: "2222"})
		require.NoError(t, err)

		assert.Equal(t, constants.OutgoingStatusCompleted, result.Status)
		assert.Equal(t, constants.IncomingStatusCompleted, incoming.Status)
		require.NotNil(t, result.Incoming)
		assert.Equal(t, constants.IncomingStatusCompleted, result.Incoming.Status)

		// Актив возвращён в строй с новой датой следующей калибровки.
		require.Len(t, equipmentSvc.setStatusCalls, 1)
		call := equipmentSvc.setStatusCalls[0]
		assert.Equal(t, incoming.EquipmentID, call.AssetID)
		assert.Equal(t, constants.EquipmentStatusActive, call.Status)
		assert.Equal(t, dueDate, call.NextDue)
	})

	t.Run("забрать может только автор приёмки", func(t *testing.T) {
		incoming, outgoing := newState()
		svc := newOutgoingServiceForTest(newFakeIncomingRepo(incoming), newFakeOutgoingRepo(outgoing),
			newFakeEmployeeRepo(submitter, other), newFakeEquipmentService())

		_, err := svc.ConfirmPickup(ctx, outgoing.ID, other.ID, dto.ConfirmPickupDTO{Pin: "3333"})
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, http.StatusBadRequest))
	})

	t.Run("повторное подтверждение", func(t *testing.T) {
		incoming, outgoing := newState()
		outgoing.Status = constants.OutgoingStatusCompleted
		svc := newOutgoingServiceForTest(newFakeIncomingRepo(incoming), newFakeOutgoingRepo(outgoing),
			newFakeEmployeeRepo(submitter), newFakeEquipmentService())

		_, err := svc.ConfirmPickup(ctx, outgoing.ID, submitter.ID, dto.ConfirmPickupDTO{Pin: "2222"})
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, http.StatusBadRequest))
	})

	t.Run("неверный PIN получателя", func(t *testing.T) {
		incoming, outgoing := newState()
		svc := newOutgoingServiceForTest(newFakeIncomingRepo(incoming), newFakeOutgoingRepo(outgoing),
			newFakeEmployeeRepo(submitter), newFakeEquipmentService())

		_, err := svc.ConfirmPickup(ctx, outgoing.ID, submitter.ID, dto.ConfirmPickupDTO{Pin: "0000"})
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, http.StatusUnauthorized))
	})

	t.Run("несуществующая запись выдачи", func(t *testing.T) {
		svc := newOutgoingServiceForTest(newFakeIncomingRepo(), newFakeOutgoingRepo(),
			newFakeEmployeeRepo(submitter), newFakeEquipmentService())

		_, err := svc.ConfirmPickup(ctx, 99, submitter.ID, dto.ConfirmPickupDTO{Pin: "2222"})
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, http.StatusNotFound))
	})
}
