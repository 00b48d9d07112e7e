package utils

import "math"

func RoundWithTwoDecimalPlace(f float64) float64 {
	if f == 0 {
		return 0
	}

	return math.Round(f*100) / 100
}

// SafeDivide retorna a/b, ou zero quando o denominador é zero.
// Usado no recálculo de métricas derivadas (cpc, ctr, frequency).
func SafeDivide(a, b float64) float64 {
	if b == 0 {
		return 0
	}

	return a / b
}
