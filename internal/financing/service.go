package financing

import (
	"context"
	"errors"

	"github.com/lukman83/autolot/internal/creditcar"
	"github.com/lukman83/autolot/internal/models"
)

// Quoter is the outbound credit provider call.
type Quoter interface {
	Quote(ctx context.Context, amount int64, modelo int) (*creditcar.Quote, error)
}

// Result is what the quote endpoint returns on success.
type Result struct {
	Price           float64              `json:"price"`
	AmountToFinance float64              `json:"amountToFinance"`
	Modelo          int                  `json:"modelo"`
	Options         []models.QuoteOption `json:"options"`
	RawText         string               `json:"rawText,omitempty"`
}

// Service runs validate → adjust → provider call.
type Service struct {
	quoter    Quoter
	floorYear int
}

func NewService(quoter Quoter, floorYear int) (*Service, error) {
	if quoter == nil {
		return nil, errors.New("financing: quoter is required")
	}
	if floorYear <= 0 {
		floorYear = DefaultFloorYear
	}
	return &Service{quoter: quoter, floorYear: floorYear}, nil
}

// Quote validates body and, when it passes, asks the provider for options.
// Validation failures never reach the provider.
func (s *Service) Quote(ctx context.Context, body map[string]any) (*Result, error) {
	req, err := Validate(body, s.floorYear)
	if err != nil {
		return nil, err
	}

	q, err := s.quoter.Quote(ctx, req.FinanceAmount(), req.Year)
	if err != nil {
		return nil, err
	}

	options := q.Options
	if options == nil {
		options = []models.QuoteOption{}
	}
	return &Result{
		Price:           req.Price,
		AmountToFinance: req.AmountToFinance,
		Modelo:          req.Year,
		Options:         options,
		RawText:         q.RawText,
	}, nil
}
