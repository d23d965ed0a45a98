package validate

import (
	"context"
	"fmt"

	"github.com/yungbote/converse-backend/internal/domain"
)

// Brazilian registry numbers. Both CPF and CNPJ carry two mod-11 check
// digits; CNPJ uses distinct weight tables for each.

func validateCPF(_ context.Context, in Input, _ domain.CaptureParams) Result {
	digits := onlyDigits(in.Text)
	if len(digits) != 11 {
		return Reject(KindFormatInvalid, "CPF must have 11 digits.")
	}

	allSame := true
	for i := 1; i < len(digits); i++ {
		if digits[i] != digits[0] {
			allSame = false
			break
		}
	}
	if allSame {
		return Reject(KindChecksumInvalid, "Please enter a valid CPF.")
	}

	d := digitValues(digits)

	sum1 := 0
	for i := 0; i < 9; i++ {
		sum1 += d[i] * (10 - i)
	}
	check1 := (sum1 * 10) % 11
	if check1 == 10 {
		check1 = 0
	}
	if check1 != d[9] {
		return Reject(KindChecksumInvalid, "Please enter a valid CPF.")
	}

	sum2 := 0
	for i := 0; i < 10; i++ {
		sum2 += d[i] * (11 - i)
	}
	check2 := (sum2 * 10) % 11
	if check2 == 10 {
		check2 = 0
	}
	if check2 != d[10] {
		return Reject(KindChecksumInvalid, "Please enter a valid CPF.")
	}

	formatted := fmt.Sprintf("%s.%s.%s-%s", digits[0:3], digits[3:6], digits[6:9], digits[9:11])
	return AcceptWithMetadata(formatted, map[string]any{"digits": digits})
}

var (
	cnpjWeights1 = []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	cnpjWeights2 = []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
)

func validateCNPJ(_ context.Context, in Input, _ domain.CaptureParams) Result {
	digits := onlyDigits(in.Text)
	if len(digits) != 14 {
		return Reject(KindFormatInvalid, "CNPJ must have 14 digits.")
	}

	d := digitValues(digits)

	sum1 := 0
	for i, w := range cnpjWeights1 {
		sum1 += d[i] * w
	}
	check1 := sum1 % 11
	if check1 < 2 {
		check1 = 0
	} else {
		check1 = 11 - check1
	}
	if check1 != d[12] {
		return Reject(KindChecksumInvalid, "Please enter a valid CNPJ.")
	}

	sum2 := 0
	for i, w := range cnpjWeights2 {
		sum2 += d[i] * w
	}
	check2 := sum2 % 11
	if check2 < 2 {
		check2 = 0
	} else {
		check2 = 11 - check2
	}
	if check2 != d[13] {
		return Reject(KindChecksumInvalid, "Please enter a valid CNPJ.")
	}

	formatted := fmt.Sprintf("%s.%s.%s/%s-%s", digits[0:2], digits[2:5], digits[5:8], digits[8:12], digits[12:14])
	return AcceptWithMetadata(formatted, map[string]any{"digits": digits})
}

func onlyDigits(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			out = append(out, s[i])
		}
	}
	return string(out)
}

func digitValues(digits string) []int {
	d := make([]int, len(digits))
	for i := 0; i < len(digits); i++ {
		d[i] = int(digits[i] - '0')
	}
	return d
}
