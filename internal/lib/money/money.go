// Package money реализует точную денежную арифметику с фиксированной
// точностью в два знака после запятой. Сумма хранится как целое число
// центов (int64), поэтому сравнения и вычитание не страдают от ошибок
// округления двоичной плавающей точки.
package money

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
)

// Amount — денежная сумма в центах.
type Amount int64

// Zero — нулевая сумма.
const Zero Amount = 0

// FromCents создает Amount из целого числа центов.
func FromCents(cents int64) Amount {
	return Amount(cents)
}

// Cents возвращает сумму как целое число центов.
func (a Amount) Cents() int64 {
	return int64(a)
}

// Parse разбирает строку вида "2500", "2500.5" или "2500.00" в Amount.
// Строки с более чем двумя знаками после запятой, экспонентой или
// посторонними символами отклоняются.
func Parse(s string) (Amount, error) {
	const op = "money.Parse"

	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%s: empty amount", op)
	}

	negative := false
	if s[0] == '+' || s[0] == '-' {
		negative = s[0] == '-'
		s = s[1:]
	}

	whole, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}
	if whole == "" && frac == "" {
		return 0, fmt.Errorf("%s: invalid amount %q", op, s)
	}
	if len(frac) > 2 {
		return 0, fmt.Errorf("%s: amount %q has more than two decimal places", op, s)
	}

	if whole == "" {
		whole = "0"
	}
	for i := 0; i < len(whole); i++ {
		if whole[i] < '0' || whole[i] > '9' {
			return 0, fmt.Errorf("%s: invalid amount %q", op, s)
		}
	}
	wholePart, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid amount %q", op, s)
	}

	var fracPart int64
	if frac != "" {
		for i := 0; i < len(frac); i++ {
			if frac[i] < '0' || frac[i] > '9' {
				return 0, fmt.Errorf("%s: invalid amount %q", op, s)
			}
		}
		fracPart, err = strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%s: invalid amount %q", op, s)
		}
		if len(frac) == 1 {
			fracPart *= 10
		}
	}

	cents := wholePart*100 + fracPart
	if negative {
		cents = -cents
	}
	return Amount(cents), nil
}

// MustParse разбирает строку и паникует при ошибке. Удобно в тестах.
func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

// String возвращает сумму в виде строки с двумя знаками после запятой.
func (a Amount) String() string {
	cents := int64(a)
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// Sub возвращает разность a - b. Переполнение не проверяется: суммы
// кредитов ограничены валидацией задолго до границ int64.
func (a Amount) Sub(b Amount) Amount {
	return a - b
}

// Add возвращает сумму a + b.
func (a Amount) Add(b Amount) Amount {
	return a + b
}

// IsZero сообщает, равна ли сумма точно нулю.
func (a Amount) IsZero() bool {
	return a == 0
}

// IsPositive сообщает, строго ли сумма больше нуля.
func (a Amount) IsPositive() bool {
	return a > 0
}

// LessThan сообщает, строго ли a меньше b.
func (a Amount) LessThan(b Amount) bool {
	return a < b
}

// GreaterThan сообщает, строго ли a больше b.
func (a Amount) GreaterThan(b Amount) bool {
	return a > b
}

// MarshalJSON сериализует сумму как JSON-число с двумя знаками после
// запятой, например 7500.00.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalJSON принимает как JSON-число (2500, 2500.5), так и строку
// ("2500.00"). Значения с точностью выше двух знаков отклоняются.
func (a *Amount) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Value реализует driver.Valuer: в базе сумма хранится как BIGINT центов.
func (a Amount) Value() (driver.Value, error) {
	return int64(a), nil
}

// Scan реализует sql.Scanner для чтения BIGINT центов из базы.
func (a *Amount) Scan(src any) error {
	const op = "money.Scan"
	switch v := src.(type) {
	case int64:
		*a = Amount(v)
		return nil
	case nil:
		*a = 0
		return nil
	default:
		return fmt.Errorf("%s: unsupported type %T", op, src)
	}
}
