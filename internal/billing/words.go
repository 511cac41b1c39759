package billing

import (
	"fmt"

	"github.com/divan/num2words"
	"github.com/shopspring/decimal"
)

// AmountInWords возвращает сумму прописью для печатной формы счета.
func AmountInWords(amount decimal.Decimal) string {
	rub := amount.IntPart()
	kop := amount.Sub(decimal.NewFromInt(rub)).Mul(decimal.NewFromInt(100)).IntPart()
	if kop < 0 {
		kop = -kop
	}
	rubWords := num2words.Convert(int(rub))
	return fmt.Sprintf("%s рублей %02d копеек", rubWords, kop)
}
