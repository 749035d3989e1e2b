package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lukman83/autolot/internal/creditcar"
	"github.com/lukman83/autolot/internal/financing"
)

// Client-facing copy for the Spanish storefront.
const (
	msgInvalidPrice  = "Precio inválido."
	msgInvalidAmount = "Monto a financiar inválido."
	msgLimit         = "Entrega mínima 60% (financiación máxima 40% del valor del vehículo)."
	msgUpstream      = "Error en Creditcar."
	msgTimeout       = "Creditcar no respondió a tiempo."
	msgNoQuoter      = "Falta configurar CREDITCAR_API_URL en el entorno."
)

type quoteResponse struct {
	OK bool `json:"ok"`
	*financing.Result
}

// POST /api/creditcar/quote
func (h *handler) quote(c *gin.Context) {
	if h.Quotes == nil {
		fail(c, http.StatusInternalServerError, msgNoQuoter)
		return
	}

	body := map[string]any{}
	if raw, err := c.GetRawData(); err == nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, &body); err != nil || body == nil {
			body = map[string]any{}
		}
	}

	res, err := h.Quotes.Quote(c.Request.Context(), body)
	if err != nil {
		writeQuoteError(c, err)
		return
	}
	c.JSON(http.StatusOK, quoteResponse{OK: true, Result: res})
}

func writeQuoteError(c *gin.Context, err error) {
	var (
		limit *financing.LimitError
		upErr *creditcar.UpstreamError
	)
	switch {
	case errors.Is(err, financing.ErrInvalidPrice):
		fail(c, http.StatusBadRequest, msgInvalidPrice)
	case errors.Is(err, financing.ErrInvalidAmount):
		fail(c, http.StatusBadRequest, msgInvalidAmount)
	case errors.As(err, &limit):
		c.JSON(http.StatusBadRequest, gin.H{
			"ok":     false,
			"error":  msgLimit,
			"limits": gin.H{"maxFinance": limit.MaxFinance, "minDownPayment": limit.MinDownPayment},
		})
	case errors.As(err, &upErr) && upErr.Timeout():
		log.Printf("[quote] provider timeout: %s", upErr.URL)
		fail(c, http.StatusGatewayTimeout, msgTimeout)
	case errors.As(err, &upErr):
		log.Printf("[quote] provider error: status=%d url=%s", upErr.Status, upErr.URL)
		c.JSON(http.StatusBadGateway, gin.H{
			"ok":        false,
			"error":     msgUpstream,
			"creditcar": gin.H{"status": upErr.Status, "url": upErr.URL, "data": upErr.Data},
		})
	default:
		log.Printf("[quote] error: %v", err)
		fail(c, http.StatusInternalServerError, err.Error())
	}
}
