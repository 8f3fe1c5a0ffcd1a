package orders

import "fmt"

// SaleNumber formats the n-th sale as S001, S002, ... S1000.
func SaleNumber(seq int64) string {
	return fmt.Sprintf("S%03d", seq)
}
