package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Manejo de la ansiedad", "manejo-de-la-ansiedad"},
		{"¿Cómo acompañar el duelo?", "como-acompanar-el-duelo"},
		{"  Taller de Psicoeducación 2030  ", "taller-de-psicoeducacion-2030"},
		{"Niños y pantallas: una guía", "ninos-y-pantallas-una-guia"},
		{"---", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, slugify(tt.title), "title %q", tt.title)
	}
}
