package domain_test

import (
	"testing"

	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestMapParams(t *testing.T) {
	params := map[string]string{"id": "7", "slug": "a b"}

	tests := []struct {
		name     string
		template string
		query    map[string]string
		want     string
	}{
		{"colon placeholder", "/items/:id", nil, "/items/7"},
		{"brace placeholder", "/items/{id}/{slug}", nil, "/items/7/a%20b"},
		{"unknown placeholder", "/items/:missing", nil, "/items/"},
		{"query carried", "/items/:id", map[string]string{"tab": "info"}, "/items/7?tab=info"},
		{"template query kept", "/s?t=10:30", nil, "/s?t=10:30"},
		{"template query merged", "/items/:id?t=10:30", map[string]string{"tab": "info"}, "/items/7?t=10:30&tab=info"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.MapParams(tt.template, params, tt.query))
		})
	}
}
