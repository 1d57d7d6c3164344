package master

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/master"
	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/master/holiday"
	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/master/office"
	"github.com/cmlabs-hris/attendance-hr-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type masterServiceImpl struct {
	officeRepo  office.OfficeRepository
	holidayRepo holiday.HolidayRepository
}

func NewMasterService(officeRepo office.OfficeRepository, holidayRepo holiday.HolidayRepository) master.MasterService {
	return &masterServiceImpl{
		officeRepo:  officeRepo,
		holidayRepo: holidayRepo,
	}
}

// ==================== OFFICE OPERATIONS ====================

func nullHours(h *decimal.Decimal) decimal.NullDecimal {
	if h == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*h)
}

func (s *masterServiceImpl) CreateOffice(ctx context.Context, req office.CreateOfficeRequest) (office.OfficeResponse, error) {
	if err := req.Validate(); err != nil {
		return office.OfficeResponse{}, err
	}

	created, err := s.officeRepo.Create(ctx, office.Office{
		Name:          req.Name,
		Address:       req.Address,
		Timezone:      req.Timezone,
		LateThreshold: req.LateThreshold,
		HalfDayHours:  nullHours(req.HalfDayHours),
	})
	if err != nil {
		return office.OfficeResponse{}, fmt.Errorf("failed to create office: %w", err)
	}
	return office.NewOfficeResponse(created), nil
}

func (s *masterServiceImpl) GetOffice(ctx context.Context, id string) (office.OfficeResponse, error) {
	if !validator.IsValidUUID(id) {
		return office.OfficeResponse{}, office.ErrOfficeNotFound
	}
	o, err := s.officeRepo.GetByID(ctx, id)
	if err != nil {
		return office.OfficeResponse{}, err
	}
	return office.NewOfficeResponse(o), nil
}

func (s *masterServiceImpl) ListOffices(ctx context.Context) ([]office.OfficeResponse, error) {
	offices, err := s.officeRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list offices: %w", err)
	}
	resp := make([]office.OfficeResponse, 0, len(offices))
	for _, o := range offices {
		resp = append(resp, office.NewOfficeResponse(o))
	}
	return resp, nil
}

func (s *masterServiceImpl) UpdateOffice(ctx context.Context, req office.UpdateOfficeRequest) (office.OfficeResponse, error) {
	if err := req.Validate(); err != nil {
		return office.OfficeResponse{}, err
	}

	o, err := s.officeRepo.GetByID(ctx, req.ID)
	if err != nil {
		return office.OfficeResponse{}, err
	}

	if req.Name != nil {
		o.Name = *req.Name
	}
	if req.Address != nil {
		o.Address = req.Address
	}
	if req.Timezone != nil {
		o.Timezone = *req.Timezone
	}
	if req.LateThreshold != nil {
		o.LateThreshold = req.LateThreshold
	}
	if req.HalfDayHours != nil {
		o.HalfDayHours = nullHours(req.HalfDayHours)
	}

	updated, err := s.officeRepo.Update(ctx, o)
	if err != nil {
		return office.OfficeResponse{}, fmt.Errorf("failed to update office: %w", err)
	}
	return office.NewOfficeResponse(updated), nil
}

func (s *masterServiceImpl) DeleteOffice(ctx context.Context, id string) error {
	if !validator.IsValidUUID(id) {
		return office.ErrOfficeNotFound
	}
	return s.officeRepo.Delete(ctx, id)
}

// ==================== HOLIDAY OPERATIONS ====================

func (s *masterServiceImpl) CreateHoliday(ctx context.Context, req holiday.CreateHolidayRequest) (holiday.HolidayResponse, error) {
	if err := req.Validate(); err != nil {
		return holiday.HolidayResponse{}, err
	}
	date, _ := validator.IsValidDate(req.Date)

	if req.OfficeID != nil {
		if _, err := s.officeRepo.GetByID(ctx, *req.OfficeID); err != nil {
			return holiday.HolidayResponse{}, err
		}
	}

	created, err := s.holidayRepo.Create(ctx, holiday.Holiday{
		Date:     date,
		Name:     req.Name,
		OfficeID: req.OfficeID,
	})
	if err != nil {
		return holiday.HolidayResponse{}, fmt.Errorf("failed to create holiday: %w", err)
	}
	return holiday.NewHolidayResponse(created), nil
}

func (s *masterServiceImpl) ListHolidays(ctx context.Context, filter holiday.HolidayFilter) ([]holiday.HolidayResponse, error) {
	holidays, err := s.holidayRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	resp := make([]holiday.HolidayResponse, 0, len(holidays))
	for _, h := range holidays {
		resp = append(resp, holiday.NewHolidayResponse(h))
	}
	return resp, nil
}

func (s *masterServiceImpl) DeleteHoliday(ctx context.Context, id string) error {
	if !validator.IsValidUUID(id) {
		return holiday.ErrHolidayNotFound
	}
	return s.holidayRepo.Delete(ctx, id)
}
