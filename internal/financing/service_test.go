package financing

import (
	"context"
	"errors"
	"testing"

	"github.com/lukman83/autolot/internal/creditcar"
	"github.com/lukman83/autolot/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingQuoter struct {
	calls  int
	amount int64
	modelo int
	quote  *creditcar.Quote
	err    error
}

func (r *recordingQuoter) Quote(ctx context.Context, amount int64, modelo int) (*creditcar.Quote, error) {
	r.calls++
	r.amount, r.modelo = amount, modelo
	return r.quote, r.err
}

func TestServiceQuoteAdjustsYear(t *testing.T) {
	q := &recordingQuoter{quote: &creditcar.Quote{Options: []models.QuoteOption{{Term: 12, Installment: 45000}}}}
	svc, err := NewService(q, 2013)
	require.NoError(t, err)

	res, err := svc.Quote(context.Background(), map[string]any{
		"price": 1000000.0, "amountToFinance": 300000.0, "modelo": 2008.0,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, q.calls)
	assert.Equal(t, int64(300000), q.amount)
	assert.Equal(t, 2013, q.modelo)
	assert.Equal(t, 2013, res.Modelo)
	assert.Equal(t, 1000000.0, res.Price)
	assert.Len(t, res.Options, 1)
}

func TestServiceRejectsBeforeCallingProvider(t *testing.T) {
	q := &recordingQuoter{}
	svc, err := NewService(q, 2013)
	require.NoError(t, err)

	_, err = svc.Quote(context.Background(), map[string]any{"price": 1000000.0, "amountToFinance": 500000.0})
	var limit *LimitError
	require.True(t, errors.As(err, &limit))
	assert.Equal(t, 0, q.calls)
}

func TestServicePassesUpstreamErrors(t *testing.T) {
	upErr := &creditcar.UpstreamError{Status: 500, URL: "https://provider"}
	svc, err := NewService(&recordingQuoter{err: upErr}, 0)
	require.NoError(t, err)

	_, err = svc.Quote(context.Background(), map[string]any{"price": 10.0, "amountToFinance": 1.0})
	assert.ErrorIs(t, err, upErr)
}

func TestServiceNilOptionsBecomeEmpty(t *testing.T) {
	svc, err := NewService(&recordingQuoter{quote: &creditcar.Quote{RawText: "oops"}}, 2013)
	require.NoError(t, err)

	res, err := svc.Quote(context.Background(), map[string]any{"price": 10.0, "amountToFinance": 1.0})
	require.NoError(t, err)
	assert.NotNil(t, res.Options)
	assert.Equal(t, "oops", res.RawText)
}
