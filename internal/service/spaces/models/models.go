package models

import (
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SpaceBooking/internal/domain"
)

// CreateSpaceTypeRequest новый тип пространства; места добавляются через AddSpace
type CreateSpaceTypeRequest struct {
	Name                      string           `json:"name" validate:"required,max=255"`
	Description               *string          `json:"description,omitempty" validate:"omitempty,max=1000"`
	DefaultPrice              decimal.Decimal  `json:"defaultPrice"`
	HourlyRate                *decimal.Decimal `json:"hourlyRate,omitempty"`
	PricingType               string           `json:"pricingType" validate:"omitempty,oneof=per_person per_reservation"`
	DefaultDiscountHours      *int             `json:"defaultDiscountHours,omitempty" validate:"omitempty,gte=1"`
	DefaultDiscountPercentage *decimal.Decimal `json:"defaultDiscountPercentage,omitempty"`
}

// UpdatePricingRequest изменение цен типа; nil поля не меняются
type UpdatePricingRequest struct {
	DefaultPrice              *decimal.Decimal `json:"defaultPrice,omitempty"`
	HourlyRate                *decimal.Decimal `json:"hourlyRate,omitempty"`
	PricingType               *string          `json:"pricingType,omitempty" validate:"omitempty,oneof=per_person per_reservation"`
	DefaultDiscountHours      *int             `json:"defaultDiscountHours,omitempty" validate:"omitempty,gte=1"`
	DefaultDiscountPercentage *decimal.Decimal `json:"defaultDiscountPercentage,omitempty"`
}

// AddSpaceRequest новое физическое место в пуле типа
type AddSpaceRequest struct {
	Name               string           `json:"name" validate:"required,max=255"`
	HourlyRate         *decimal.Decimal `json:"hourlyRate,omitempty"`
	DiscountHours      *int             `json:"discountHours,omitempty" validate:"omitempty,gte=1"`
	DiscountPercentage *decimal.Decimal `json:"discountPercentage,omitempty"`
}

// SpaceResponse физическое место
type SpaceResponse struct {
	ID                int64   `json:"id"`
	SpaceTypeID       int64   `json:"spaceTypeId"`
	Name              string  `json:"name"`
	Status            string  `json:"status"`
	CurrentCustomerID *int64  `json:"currentCustomerId,omitempty"`
	HourlyRate        *string `json:"hourlyRate,omitempty"`
}

// SpaceTypeResponse тип пространства со счетчиками и местами
type SpaceTypeResponse struct {
	ID                        int64           `json:"id"`
	Name                      string          `json:"name"`
	Description               *string         `json:"description,omitempty"`
	TotalSlots                int             `json:"totalSlots"`
	AvailableSlots            int             `json:"availableSlots"`
	DefaultPrice              string          `json:"defaultPrice"`
	HourlyRate                string          `json:"hourlyRate"`
	PricingType               string          `json:"pricingType"`
	DefaultDiscountHours      *int            `json:"defaultDiscountHours,omitempty"`
	DefaultDiscountPercentage *string         `json:"defaultDiscountPercentage,omitempty"`
	Spaces                    []SpaceResponse `json:"spaces"`
}

// SpaceTypeListResponse все типы пространств
type SpaceTypeListResponse struct {
	SpaceTypes []*SpaceTypeResponse `json:"spaceTypes"`
}

// ToDomainSpaceType конвертирует запрос в доменный тип с пустым пулом
func (r *CreateSpaceTypeRequest) ToDomainSpaceType() *domain.SpaceType {
	st := &domain.SpaceType{
		Name:                      r.Name,
		Description:               r.Description,
		DefaultPrice:              r.DefaultPrice,
		HourlyRate:                r.HourlyRate,
		PricingType:               domain.PricingType(r.PricingType),
		DefaultDiscountHours:      r.DefaultDiscountHours,
		DefaultDiscountPercentage: r.DefaultDiscountPercentage,
	}
	if st.PricingType == "" {
		st.PricingType = domain.PricingPerPerson
	}
	if st.HourlyRate == nil {
		rate := r.DefaultPrice
		st.HourlyRate = &rate
	}
	return st
}

// FromDomainSpaceType конвертирует тип и его места
func FromDomainSpaceType(st *domain.SpaceType, spaces []*domain.Space) *SpaceTypeResponse {
	resp := &SpaceTypeResponse{
		ID:                   st.ID,
		Name:                 st.Name,
		Description:          st.Description,
		TotalSlots:           st.TotalSlots,
		AvailableSlots:       st.AvailableSlots,
		DefaultPrice:         domain.MoneyString(st.DefaultPrice),
		HourlyRate:           domain.MoneyString(st.Rate()),
		PricingType:          string(st.PricingType),
		DefaultDiscountHours: st.DefaultDiscountHours,
		Spaces:               make([]SpaceResponse, 0, len(spaces)),
	}
	if st.DefaultDiscountPercentage != nil {
		pct := st.DefaultDiscountPercentage.String()
		resp.DefaultDiscountPercentage = &pct
	}
	for _, sp := range spaces {
		resp.Spaces = append(resp.Spaces, *FromDomainSpace(sp))
	}
	return resp
}

// FromDomainSpace конвертирует место
func FromDomainSpace(sp *domain.Space) *SpaceResponse {
	resp := &SpaceResponse{
		ID:                sp.ID,
		SpaceTypeID:       sp.SpaceTypeID,
		Name:              sp.Name,
		Status:            string(sp.Status),
		CurrentCustomerID: sp.CurrentCustomerID,
	}
	if sp.HourlyRate != nil {
		rate := domain.MoneyString(*sp.HourlyRate)
		resp.HourlyRate = &rate
	}
	return resp
}
