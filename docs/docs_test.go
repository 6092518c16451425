package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestSwaggerDocIsRegistered(t *testing.T) {
	raw, err := swag.ReadDoc()
	require.NoError(t, err)

	var doc struct {
		Info  map[string]any            `json:"info"`
		Paths map[string]map[string]any `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	assert.Equal(t, "Good Place Events API", doc.Info["title"])
	require.Contains(t, doc.Paths, "/events/{eventID}/participants")
	assert.Contains(t, doc.Paths["/events/{eventID}/participants"], "delete")
	assert.Contains(t, doc.Paths, "/users/me/participations")
}
