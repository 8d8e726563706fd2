// internal/services/blog_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		title    string
		expected string
	}{
		{"Cómo elegir tu primer SSD", "como-elegir-tu-primer-ssd"},
		{"Guía de compra 2026", "guia-de-compra-2026"},
		{"  Espacios   extra  ", "espacios-extra"},
		{"Ñandú & Cía.", "nandu-cia"},
		{"ALL CAPS TITLE", "all-caps-title"},
		{"---", ""},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.expected, Slugify(tt.title))
		})
	}
}
