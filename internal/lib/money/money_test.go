package money

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantCents int64
		wantErr   bool
	}{
		{name: "целое число", input: "2500", wantCents: 250000},
		{name: "один знак после запятой", input: "2500.5", wantCents: 250050},
		{name: "два знака после запятой", input: "2500.00", wantCents: 250000},
		{name: "минимальная сумма", input: "0.01", wantCents: 1},
		{name: "ноль", input: "0", wantCents: 0},
		{name: "без целой части", input: ".5", wantCents: 50},
		{name: "без дробной части после точки", input: "7.", wantCents: 700},
		{name: "отрицательное значение", input: "-5", wantCents: -500},
		{name: "явный плюс", input: "+5", wantCents: 500},
		{name: "пробелы по краям", input: "  10.25  ", wantCents: 1025},
		{name: "пустая строка", input: "", wantErr: true},
		{name: "только точка", input: ".", wantErr: true},
		{name: "три знака после запятой", input: "2.505", wantErr: true},
		{name: "не число", input: "abc", wantErr: true},
		{name: "экспонента", input: "1e3", wantErr: true},
		{name: "запятая вместо точки", input: "2,5", wantErr: true},
		{name: "знак внутри дробной части", input: "2.-5", wantErr: true},
		{name: "двойной знак", input: "--5", wantErr: true},
		{name: "две точки", input: "1.2.3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCents, got.Cents())
		})
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		name  string
		cents int64
		want  string
	}{
		{name: "круглая сумма", cents: 250000, want: "2500.00"},
		{name: "меньше доллара", cents: 50, want: "0.50"},
		{name: "один цент", cents: 1, want: "0.01"},
		{name: "ноль", cents: 0, want: "0.00"},
		{name: "отрицательная сумма", cents: -150, want: "-1.50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FromCents(tt.cents).String())
		})
	}
}

// Вычитание центов не накапливает ошибок округления, в отличие от
// двоичной плавающей точки (0.30 - 0.10 - 0.20 дает ровно ноль).
func TestSub_Exact(t *testing.T) {
	balance := MustParse("0.30")
	balance = balance.Sub(MustParse("0.10"))
	balance = balance.Sub(MustParse("0.20"))

	assert.True(t, balance.IsZero())

	assert.Equal(t, MustParse("7500.00"), MustParse("10000.00").Sub(MustParse("2500.00")))
}

func TestComparisons(t *testing.T) {
	assert.True(t, MustParse("0.01").IsPositive())
	assert.False(t, Zero.IsPositive())
	assert.False(t, MustParse("-0.01").IsPositive())

	assert.True(t, MustParse("7500.00").LessThan(MustParse("10000.00")))
	assert.True(t, MustParse("10000.00").GreaterThan(MustParse("7500.00")))
	assert.False(t, MustParse("7500.00").GreaterThan(MustParse("7500.00")))
}

func TestMarshalJSON(t *testing.T) {
	data, err := json.Marshal(map[string]Amount{"amount": MustParse("7500.5")})
	require.NoError(t, err)

	// Сумма сериализуется как число с двумя знаками, без кавычек.
	assert.JSONEq(t, `{"amount": 7500.50}`, string(data))
}

func TestUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantCents int64
		wantErr   bool
	}{
		{name: "число", input: `2500`, wantCents: 250000},
		{name: "число с дробной частью", input: `2500.5`, wantCents: 250050},
		{name: "строка", input: `"2500.00"`, wantCents: 250000},
		{name: "три знака после запятой", input: `2.505`, wantErr: true},
		{name: "мусор", input: `"abc"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a Amount
			err := json.Unmarshal([]byte(tt.input), &a)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCents, a.Cents())
		})
	}
}

func TestSQLRoundtrip(t *testing.T) {
	v, err := MustParse("1234.56").Value()
	require.NoError(t, err)
	assert.Equal(t, int64(123456), v)

	var a Amount
	require.NoError(t, a.Scan(int64(123456)))
	assert.Equal(t, "1234.56", a.String())

	require.NoError(t, a.Scan(nil))
	assert.True(t, a.IsZero())

	assert.Error(t, a.Scan("123456"))
}
