package domain

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// RateTable 幣別換算表
// rates 為「每 1 單位參考幣別可換得多少外幣」，換算時 amount / rate
type RateTable struct {
	reference string
	rates     map[string]decimal.Decimal
}

// NewRateTable 建立換算表
//
// 參數:
//
//	reference: 參考幣別代碼 (餘額儲存用)
//	rates: 外幣代碼 -> 匯率，必須為正數
//
// 回傳:
//
//	*RateTable: 換算表
//	error: 匯率非正數或參考幣別為空
func NewRateTable(reference string, rates map[string]decimal.Decimal) (*RateTable, error) {
	reference = strings.ToUpper(strings.TrimSpace(reference))
	if reference == "" {
		return nil, fmt.Errorf("reference currency is required")
	}
	table := &RateTable{
		reference: reference,
		rates:     make(map[string]decimal.Decimal, len(rates)),
	}
	for code, rate := range rates {
		code = strings.ToUpper(strings.TrimSpace(code))
		if code == reference {
			continue
		}
		if !rate.IsPositive() {
			return nil, fmt.Errorf("rate for %s must be positive, got %s", code, rate)
		}
		table.rates[code] = rate
	}
	return table, nil
}

// Reference 參考幣別
func (t *RateTable) Reference() string {
	return t.reference
}

// Supports 是否支援此幣別
func (t *RateTable) Supports(code string) bool {
	if code == t.reference {
		return true
	}
	_, ok := t.rates[code]
	return ok
}

// Codes 回傳所有可接受的幣別 (排序)
func (t *RateTable) Codes() []string {
	codes := make([]string, 0, len(t.rates)+1)
	codes = append(codes, t.reference)
	for code := range t.rates {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Normalize 將金額換算為參考幣別，結果四捨五入至 CurrencyScale 位
func (t *RateTable) Normalize(amount decimal.Decimal, code string) (decimal.Decimal, error) {
	if code == t.reference {
		return amount.Round(CurrencyScale), nil
	}
	rate, ok := t.rates[code]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrUnsupportedCurrency, code)
	}
	return amount.DivRound(rate, CurrencyScale), nil
}

// maxCoefficientBits 足以容納 MaxIntegerDigits+MaxInputFractionDigits 位十進位數
const maxCoefficientBits = 120

// WithinPrecision 檢查金額是否落在儲存精度內
// 只讀取 exponent 與係數長度，不做任何 rescale，極端的指數 (例如 1e50000000) 也能立即回絕
func WithinPrecision(d decimal.Decimal) bool {
	exp := d.Exponent()
	if exp < -MaxInputFractionDigits || exp > MaxIntegerDigits {
		return false
	}
	if d.Coefficient().BitLen() > maxCoefficientBits {
		return false
	}
	return d.NumDigits()+int(exp) <= MaxIntegerDigits
}
