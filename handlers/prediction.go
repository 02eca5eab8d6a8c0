package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"time"

	"leadtime-prediction-api/features"
	"leadtime-prediction-api/services"

	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

// PredictRequest is the POST /predict body. Required numbers are pointers so
// an explicit 0 is distinguishable from a missing field.
type PredictRequest struct {
	SupplierID   string   `json:"supplier_id" binding:"required"`
	SKUID        string   `json:"sku_id" binding:"required"`
	DestSiteID   string   `json:"dest_site_id" binding:"required"`
	OrderQty     *float64 `json:"order_qty" binding:"required"`
	UnitPriceUSD *float64 `json:"unit_price_usd" binding:"required"`
	OrderDate    string   `json:"order_date" binding:"required,datetime=2006-01-02"`
	PromisedDate string   `json:"promised_date" binding:"required,datetime=2006-01-02"`

	Region        *string       `json:"region"`
	Country       *string       `json:"country"`
	StatusPO      nonNullString `json:"status_po"`
	StatusShip    *string       `json:"status_ship"`
	Mode          *string       `json:"mode"`
	Incoterm      *string       `json:"incoterm"`
	OriginCountry *string       `json:"origin_country"`

	ShipQty              *float64 `json:"ship_qty"`
	ShipLagFromOrderDays *float64 `json:"ship_lag_from_order_days"`
	PlannedTransitDays   *float64 `json:"planned_transit_days"`
	EtaSlipDays          *float64 `json:"eta_slip_days"`
}

// nonNullString is a string field that may be omitted but not sent as null.
type nonNullString struct {
	value *string
}

func (s *nonNullString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return &json.UnmarshalTypeError{Value: "null", Type: reflect.TypeOf("")}
	}
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	s.value = &v
	return nil
}

// toRequest converts a bound body. Dates were checked by the validator.
func (r PredictRequest) toRequest() (features.Request, error) {
	orderDate, err := time.Parse(dateLayout, r.OrderDate)
	if err != nil {
		return features.Request{}, err
	}
	promisedDate, err := time.Parse(dateLayout, r.PromisedDate)
	if err != nil {
		return features.Request{}, err
	}
	statusPO := r.StatusPO.value
	if statusPO == nil {
		open := "Open"
		statusPO = &open
	}
	return features.Request{
		SupplierID:           r.SupplierID,
		SKUID:                r.SKUID,
		DestSiteID:           r.DestSiteID,
		OrderQty:             *r.OrderQty,
		UnitPriceUSD:         *r.UnitPriceUSD,
		OrderDate:            orderDate,
		PromisedDate:         promisedDate,
		Region:               r.Region,
		Country:              r.Country,
		StatusPO:             statusPO,
		StatusShip:           r.StatusShip,
		Mode:                 r.Mode,
		Incoterm:             r.Incoterm,
		OriginCountry:        r.OriginCountry,
		ShipQty:              r.ShipQty,
		ShipLagFromOrderDays: r.ShipLagFromOrderDays,
		PlannedTransitDays:   r.PlannedTransitDays,
		EtaSlipDays:          r.EtaSlipDays,
	}, nil
}

type PredictionHandler struct {
	svc *services.PredictionService
}

func NewPredictionHandler(svc *services.PredictionService) *PredictionHandler {
	registerJSONFieldNames()
	return &PredictionHandler{svc: svc}
}

func (h *PredictionHandler) Predict(c *gin.Context) {
	var body PredictRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respondValidation(c, err)
		return
	}
	req, err := body.toRequest()
	if err != nil {
		respondValidation(c, err)
		return
	}

	res, err := h.svc.Predict(c.Request.Context(), req)
	if err != nil {
		var notFound *features.NotFoundError
		if errors.As(err, &notFound) {
			respondError(c, http.StatusNotFound, notFound.Error())
			return
		}
		_ = c.Error(err)
		respondError(c, http.StatusInternalServerError, services.ErrScoring.Error())
		return
	}

	c.JSON(http.StatusOK, res)
}
