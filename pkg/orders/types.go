package orders

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// ErrMalformed reports a body that does not match the proxy's response schema.
var ErrMalformed = errors.New("malformed order book response")

// Order is one resting order as reported by the order source.
// Amounts stay decimal strings end to end to avoid float rounding.
type Order struct {
	SellAmount string `json:"SellAmount" validate:"required,decimal"`
	BuyAmount  string `json:"BuyAmount" validate:"required,decimal"`
	Exchange   string `json:"Exchange" validate:"required"`
}

// Price returns BuyAmount per unit of SellAmount. A zero or unparsable
// SellAmount yields zero.
func (o Order) Price() decimal.Decimal {
	sell, err := decimal.NewFromString(o.SellAmount)
	if err != nil || sell.IsZero() {
		return decimal.Zero
	}
	buy, err := decimal.NewFromString(o.BuyAmount)
	if err != nil {
		return decimal.Zero
	}
	return buy.Div(sell)
}

// Book is one fetch of the order book. Each list keeps the order the source gave it.
type Book struct {
	BuyOrders  []Order `json:"buyOrders" validate:"required,dive"`
	SellOrders []Order `json:"sellOrders" validate:"required,dive"`
}

// Envelope is the proxy's wire format: exactly one of Response or Error is set.
type Envelope struct {
	Response *Book  `json:"response,omitempty"`
	Error    string `json:"error,omitempty"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("decimal", func(fl validator.FieldLevel) bool {
		_, err := decimal.NewFromString(fl.Field().String())
		return err == nil
	})
	return v
}

// Validate checks the book against the response schema.
func (b *Book) Validate() error {
	if err := validate.Struct(b); err != nil {
		return fmt.Errorf("%w: %s", ErrMalformed, formatValidationError(err))
	}
	return nil
}

// DecodeEnvelope parses a proxy body strictly. Unknown fields, a body carrying both
// a book and an error, and a body carrying neither are ErrMalformed.
func DecodeEnvelope(body []byte) (*Envelope, error) {
	var env Envelope
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if env.Error != "" {
		if env.Response != nil {
			return nil, fmt.Errorf("%w: both response and error set", ErrMalformed)
		}
		return &env, nil
	}
	if env.Response == nil {
		return nil, fmt.Errorf("%w: missing response", ErrMalformed)
	}
	if err := env.Response.Validate(); err != nil {
		return nil, err
	}
	return &env, nil
}

func formatValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, e := range verrs {
		parts = append(parts, e.Namespace()+" failed on tag '"+e.Tag()+"'")
	}
	return strings.Join(parts, "; ")
}
