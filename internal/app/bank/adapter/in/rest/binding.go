package rest

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/JoeShih716/go-bank-ledger/internal/app/bank/domain"
)

// fieldErrors 欄位 -> 錯誤訊息，回應格式 {"error": {...}}
type fieldErrors map[string]string

var errMalformedBody = errors.New("malformed request body")

var registerTagName sync.Once

// setupValidator 讓 validator 回報 json 欄位名稱
func setupValidator() {
	registerTagName.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

// bindJSON 解析 body 並以 binding tag 驗證
// 空 body 視為所有欄位皆為空值，仍然回報每個欄位的錯誤
// messages 為 欄位 -> 錯誤訊息，驗證失敗的欄位都會出現在回傳的 fieldErrors
func bindJSON(c *gin.Context, obj any, messages map[string]string) (fieldErrors, error) {
	errs := fieldErrors{}
	err := c.ShouldBindJSON(obj)
	if errors.Is(err, io.EOF) {
		err = binding.Validator.ValidateStruct(obj)
	}
	if err == nil {
		return errs, nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, errMalformedBody
	}
	for _, fe := range verrs {
		field := fe.Field()
		if _, ok := errs[field]; ok {
			continue
		}
		msg, ok := messages[field]
		if !ok {
			msg = "Invalid " + field
		}
		errs[field] = msg
	}
	return errs, nil
}

// maxAmountLength 金額原始 JSON 的長度上限 (含引號、正負號與指數)
const maxAmountLength = 64

// parseAmount 接受 JSON 數字或數字字串
// 超出儲存精度的金額視為無效數字
func parseAmount(raw json.RawMessage) (decimal.Decimal, string) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || len(trimmed) > maxAmountLength ||
		bytes.Equal(trimmed, []byte("null")) || bytes.Equal(trimmed, []byte(`""`)) {
		return decimal.Zero, msgInvalidNumber
	}
	var amount decimal.Decimal
	if err := amount.UnmarshalJSON(trimmed); err != nil {
		return decimal.Zero, msgInvalidNumber
	}
	if !amount.IsPositive() {
		return decimal.Zero, msgAmountPositive
	}
	if !domain.WithinPrecision(amount) {
		return decimal.Zero, msgInvalidNumber
	}
	return amount, ""
}

// checkMoney 驗證金額與幣別，錯誤寫入 errs
func checkMoney(errs fieldErrors, raw json.RawMessage, currency string, rates *domain.RateTable) decimal.Decimal {
	amount, msg := parseAmount(raw)
	if msg != "" {
		errs["amount"] = msg
	}
	if _, ok := errs["currency"]; !ok && !rates.Supports(currency) {
		errs["currency"] = msgInvalidCurrency
	}
	return amount
}
