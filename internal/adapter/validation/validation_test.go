package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type sampleRequest struct {
	ID     string `json:"id" validate:"required,uuid"`
	Type   string `json:"type" validate:"required,oneof=DEPOSIT WITHDRAWAL"`
	Amount string `json:"amount" validate:"required,positive_decimal"`
	Price  string `json:"price" validate:"omitempty,decimal"`
	Date   string `json:"date" validate:"required,datetime=2006-01-02"`
	Notes  string `json:"notes" validate:"max=5"`
}

func TestHelper_ValidateStruct(t *testing.T) {
	h := NewHelper()

	valid := sampleRequest{
		ID:     "6f1c1f5e-4b7a-4e57-9b55-7f4f5e0f6a10",
		Type:   "DEPOSIT",
		Amount: "5000.00",
		Date:   "2024-01-01",
	}
	assert.NoError(t, h.ValidateStruct(&valid))

	tests := []struct {
		name   string
		mutate func(r *sampleRequest)
		field  string
		reason string
	}{
		{name: "missing id", mutate: func(r *sampleRequest) { r.ID = "" }, field: "id", reason: "is required"},
		{name: "bad id", mutate: func(r *sampleRequest) { r.ID = "42" }, field: "id", reason: "must be a UUID"},
		{name: "bad type", mutate: func(r *sampleRequest) { r.Type = "TRANSFER" }, field: "type", reason: "must be one of DEPOSIT WITHDRAWAL"},
		{name: "zero amount", mutate: func(r *sampleRequest) { r.Amount = "0" }, field: "amount", reason: "must be a positive decimal number"},
		{name: "bad price", mutate: func(r *sampleRequest) { r.Price = "abc" }, field: "price", reason: "must be a decimal number"},
		{name: "huge price exponent", mutate: func(r *sampleRequest) { r.Price = "1e30000000" }, field: "price", reason: "must be a decimal number"},
		{name: "huge amount exponent", mutate: func(r *sampleRequest) { r.Amount = "1e30000000" }, field: "amount", reason: "must be a positive decimal number"},
		{name: "tiny amount exponent", mutate: func(r *sampleRequest) { r.Amount = "1e-30000000" }, field: "amount", reason: "must be a positive decimal number"},
		{name: "bad date", mutate: func(r *sampleRequest) { r.Date = "01/02/2024" }, field: "date", reason: "must be a date formatted YYYY-MM-DD"},
		{name: "long notes", mutate: func(r *sampleRequest) { r.Notes = "too long" }, field: "notes", reason: "must be at most 5 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)

			err := h.ValidateStruct(&req)

			details := Details(err)
			assert.Equal(t, map[string]string{tt.field: tt.reason}, details)
			assert.Equal(t, tt.field+" "+tt.reason, Message(err))
		})
	}
}

func TestMessage_SortsFields(t *testing.T) {
	err := NewHelper().ValidateStruct(&sampleRequest{})

	assert.Equal(t, "amount is required; date is required; id is required; type is required", Message(err))
}

func TestDetails_OtherErrors(t *testing.T) {
	err := errors.New("boom")

	assert.Nil(t, Details(err))
	assert.Equal(t, "boom", Message(err))
}
