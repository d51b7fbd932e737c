package format_test

import (
	"testing"

	"github.com/rafisgodoy/unibus-core-go/internal/format"
)

func TestPhone(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"eleven digits", "11987654321", "(11) 98765-4321"},
		{"eleven digits with noise", "(11) 98765-4321", "(11) 98765-4321"},
		{"ten digit landline passes through", "1132654321", "1132654321"},
		{"twelve digits pass through", "551198765432", "551198765432"},
		{"letters are stripped first", "tel: 11987654321", "(11) 98765-4321"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := format.Phone(tt.in); got != tt.want {
				t.Errorf("Phone(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestBirthDate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"iso datetime", "2001-03-07T00:00:00.000Z", "07/03/2001"},
		{"unpadded components", "2001-3-7T00:00:00", "07/03/2001"},
		{"date only passes through", "07/03/2001", "07/03/2001"},
		{"plain date without separator passes through", "2001-03-07", "2001-03-07"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := format.BirthDate(tt.in); got != tt.want {
				t.Errorf("BirthDate(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestPrice(t *testing.T) {
	if got := format.Price(150); got != "R$ 150,00" {
		t.Errorf("Price(150) = %q", got)
	}
	if got := format.Price(89.9); got != "R$ 89,90" {
		t.Errorf("Price(89.9) = %q", got)
	}
}

func TestCEP(t *testing.T) {
	if got := format.CEP("13480-970"); got != "13480970" {
		t.Errorf("CEP = %q", got)
	}
	if got := format.CEP("13480970"); got != "13480970" {
		t.Errorf("CEP without dash = %q", got)
	}
}

func TestHouseNumber(t *testing.T) {
	if got := format.HouseNumber("", "Não informado"); got != "Não informado" {
		t.Errorf("empty house number = %q", got)
	}
	if got := format.HouseNumber("142", "Não informado"); got != "142" {
		t.Errorf("house number = %q", got)
	}
}
