package numwords

import (
	"math"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestWords(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "Zero"},
		{7, "Seven"},
		{19, "Nineteen"},
		{40, "Forty"},
		{45, "Forty Five"},
		{100, "One Hundred"},
		{999, "Nine Hundred Ninety Nine"},
		{1000, "One Thousand"},
		{9300, "Nine Thousand Three Hundred"},
		{99999, "Ninety Nine Thousand Nine Hundred Ninety Nine"},
		{100000, "One Lakh"},
		{150025, "One Lakh Fifty Thousand Twenty Five"},
		{2512000, "Twenty Five Lakh Twelve Thousand"},
		{10000000, "One Crore"},
		{123456789, "Twelve Crore Thirty Four Lakh Fifty Six Thousand Seven Hundred Eighty Nine"},
		{-15, "Minus Fifteen"},
		{math.MaxInt64, "Ninety Two Thousand Two Hundred Thirty Three Crore Seventy Two Lakh Three Thousand Six Hundred Eighty Five Crore Forty Seven Lakh Seventy Five Thousand Eight Hundred Seven"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Words(tt.n), "Words(%d)", tt.n)
	}
}

func TestRupees(t *testing.T) {
	tests := []struct {
		amount string
		want   string
	}{
		{"0", "Rupees Zero Only"},
		{"9300", "Rupees Nine Thousand Three Hundred Only"},
		{"9300.50", "Rupees Nine Thousand Three Hundred and Fifty Paise Only"},
		{"125000.07", "Rupees One Lakh Twenty Five Thousand and Seven Paise Only"},
		{"-200", "Minus Rupees Two Hundred Only"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Rupees(decimal.RequireFromString(tt.amount)), tt.amount)
	}
}

func TestGrouped(t *testing.T) {
	tests := map[string]string{
		"0":          "0.00",
		"999":        "999.00",
		"1000":       "1,000.00",
		"15000":      "15,000.00",
		"123456.789": "1,23,456.79",
		"1234567.5":  "12,34,567.50",
		"-360000":    "-3,60,000.00",
	}
	for in, want := range tests {
		assert.Equal(t, want, Grouped(decimal.RequireFromString(in)), in)
	}
}

func TestWords_MinInt64(t *testing.T) {
	got := Words(math.MinInt64)
	assert.True(t, strings.HasPrefix(got, "Minus Ninety Two Thousand"), got)
	assert.True(t, strings.HasSuffix(got, "Seventy Five Thousand Eight Hundred Eight"), got)
}
