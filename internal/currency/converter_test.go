package currency

import (
	"context"
	"errors"
	"testing"

	"github.com/dvloznov/finance-dashboard/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestConvert(t *testing.T) {
	c := Default()

	tests := []struct {
		code   string
		amount string
		want   string
	}{
		{code: "INR", amount: "100", want: "8350"},
		{code: "USD", amount: "19.99", want: "19.99"},
		{code: "EUR", amount: "1000", want: "920"},
		{code: "JPY", amount: "2.5", want: "375"},
		{code: " gbp ", amount: "100", want: "79"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			got, err := c.Convert(d(tt.amount), tt.code)
			require.NoError(t, err)
			assert.True(t, got.Equal(d(tt.want)), "got %s, want %s", got, tt.want)
		})
	}
}

func TestConvert_UnknownCode(t *testing.T) {
	_, err := Default().Convert(d("100"), "XYZ")

	var cfgErr *domain.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Contains(t, cfgErr.Error(), "XYZ")

	_, err = Default().Meta("")
	assert.True(t, errors.As(err, &cfgErr))
}

func TestConvert_RoundTrip(t *testing.T) {
	c := Default()
	amount := d("1234.56")

	eur, err := c.Convert(amount, "EUR")
	require.NoError(t, err)
	rate, err := c.Rate("EUR")
	require.NoError(t, err)

	back := eur.Div(rate)
	assert.True(t, back.Sub(amount).Abs().LessThan(d("0.000001")), "round trip %s", back)
}

func TestMeta(t *testing.T) {
	m, err := Default().Meta("inr")
	require.NoError(t, err)
	assert.Equal(t, Meta{Code: "INR", Symbol: "₹", Label: "Indian Rupee"}, m)
}

func TestCodes(t *testing.T) {
	c := Default()
	codes := c.Codes()
	assert.Equal(t, []string{"AUD", "CAD", "EUR", "GBP", "INR", "JPY", "USD"}, codes)

	codes[0] = "mutated"
	assert.Equal(t, "AUD", c.Codes()[0])
}

func TestNewConverter_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		entries map[string]Currency
	}{
		{name: "missing base", entries: map[string]Currency{"EUR": {Symbol: "€", Rate: d("0.9")}}},
		{name: "base not one", entries: map[string]Currency{"USD": {Symbol: "$", Rate: d("1.1")}}},
		{name: "zero rate", entries: map[string]Currency{
			"USD": {Symbol: "$", Rate: d("1")},
			"EUR": {Symbol: "€", Rate: decimal.Zero},
		}},
		{name: "negative rate", entries: map[string]Currency{
			"USD": {Symbol: "$", Rate: d("1")},
			"EUR": {Symbol: "€", Rate: d("-0.9")},
		}},
		{name: "duplicate after normalizing", entries: map[string]Currency{
			"USD": {Symbol: "$", Rate: d("1")},
			"usd": {Symbol: "$", Rate: d("1")},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewConverter(tt.entries)
			var cfgErr *domain.ConfigurationError
			assert.True(t, errors.As(err, &cfgErr), "got %v", err)
		})
	}
}

type mockReader struct {
	ReadObjectFunc func(ctx context.Context, uri string) ([]byte, error)
}

func (m *mockReader) ReadObject(ctx context.Context, uri string) ([]byte, error) {
	return m.ReadObjectFunc(ctx, uri)
}

func TestLoadConverter(t *testing.T) {
	t.Run("empty uri uses default table", func(t *testing.T) {
		c, err := LoadConverter(context.Background(), nil, "")
		require.NoError(t, err)
		assert.Len(t, c.Codes(), 7)
	})

	t.Run("reads table from object", func(t *testing.T) {
		var gotURI string
		r := &mockReader{ReadObjectFunc: func(_ context.Context, uri string) ([]byte, error) {
			gotURI = uri
			return []byte(`{
				"USD": {"symbol": "$", "rate": 1, "label": "US Dollar"},
				"CHF": {"symbol": "Fr", "rate": 0.88, "label": "Swiss Franc"}
			}`), nil
		}}

		c, err := LoadConverter(context.Background(), r, "gs://rates/currencies.json")
		require.NoError(t, err)
		assert.Equal(t, "gs://rates/currencies.json", gotURI)
		assert.Equal(t, []string{"CHF", "USD"}, c.Codes())

		got, err := c.Convert(d("100"), "CHF")
		require.NoError(t, err)
		assert.True(t, got.Equal(d("88")))
	})

	t.Run("reader error", func(t *testing.T) {
		r := &mockReader{ReadObjectFunc: func(context.Context, string) ([]byte, error) {
			return nil, errors.New("boom")
		}}
		_, err := LoadConverter(context.Background(), r, "gs://rates/x.json")
		assert.ErrorContains(t, err, "boom")
	})

	t.Run("invalid table", func(t *testing.T) {
		r := &mockReader{ReadObjectFunc: func(context.Context, string) ([]byte, error) {
			return []byte(`{"EUR": {"symbol": "€", "rate": 0.9}}`), nil
		}}
		_, err := LoadConverter(context.Background(), r, "rates.json")
		var cfgErr *domain.ConfigurationError
		assert.True(t, errors.As(err, &cfgErr))
	})
}

func TestFormat(t *testing.T) {
	usd := Meta{Code: "USD", Symbol: "$"}
	inr := Meta{Code: "INR", Symbol: "₹"}

	assert.Equal(t, "$12.00", Format(d("12"), usd))
	assert.Equal(t, "₹1,234.57", Format(d("1234.567"), inr))
	assert.Equal(t, "-$1,500.50", Format(d("-1500.5"), usd))
	assert.Equal(t, "$999.00", Format(d("999"), usd))
	assert.Equal(t, "$100,000.00", Format(d("100000"), usd))
	assert.Equal(t, "₹12,345,678,901,234,567.89", Format(d("12345678901234567.89"), inr))
	assert.Equal(t, "$0.00", Format(d("-0.001"), usd))
}

type mockWriter struct {
	WriteObjectFunc func(ctx context.Context, uri string, data []byte) error
}

func (m *mockWriter) WriteObject(ctx context.Context, uri string, data []byte) error {
	return m.WriteObjectFunc(ctx, uri, data)
}

func TestSaveTable(t *testing.T) {
	var saved []byte
	w := &mockWriter{WriteObjectFunc: func(_ context.Context, uri string, data []byte) error {
		assert.Equal(t, "gs://rates/currencies.json", uri)
		saved = data
		return nil
	}}
	require.NoError(t, SaveTable(context.Background(), w, "gs://rates/currencies.json", Default()))

	reloaded, err := ParseTable(saved)
	require.NoError(t, err)
	assert.Equal(t, Default().Codes(), reloaded.Codes())
	rate, err := reloaded.Rate("inr")
	require.NoError(t, err)
	assert.True(t, rate.Equal(d("83.5")))

	w.WriteObjectFunc = func(context.Context, string, []byte) error { return errors.New("denied") }
	assert.ErrorContains(t, SaveTable(context.Background(), w, "gs://rates/x.json", Default()), "denied")
}
