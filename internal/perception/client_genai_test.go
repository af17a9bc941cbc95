package perception

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/Zoreslaw/kyiv-apts-f-sub001/internal/catalog"
	"github.com/Zoreslaw/kyiv-apts-f-sub001/internal/config"
)

func TestSchemaFromJSONMap(t *testing.T) {
	spec, ok := catalog.Lookup(catalog.OpManageAssignments)
	require.True(t, ok)

	s := schemaFromJSONMap(spec.Schema.JSONSchema())
	require.NotNil(t, s)
	assert.Equal(t, genai.TypeObject, s.Type)
	assert.ElementsMatch(t, []string{"targetUserId", "action", "apartmentIds", "isAdmin"}, s.Required)

	action, ok := s.Properties["action"]
	require.True(t, ok)
	assert.Equal(t, genai.TypeString, action.Type)
	assert.ElementsMatch(t, []string{"add", "remove"}, action.Enum)

	ids, ok := s.Properties["apartmentIds"]
	require.True(t, ok)
	assert.Equal(t, genai.TypeArray, ids.Type)
	require.NotNil(t, ids.Items)
	assert.Equal(t, genai.TypeString, ids.Items.Type)

	isAdmin, ok := s.Properties["isAdmin"]
	require.True(t, ok)
	assert.Equal(t, genai.TypeBoolean, isAdmin.Type)
}

func TestSchemaFromJSONMapNil(t *testing.T) {
	assert.Nil(t, schemaFromJSONMap(nil))
}

func TestGenaiType(t *testing.T) {
	assert.Equal(t, genai.TypeNumber, genaiType("number"))
	assert.Equal(t, genai.TypeInteger, genaiType("integer"))
	assert.Equal(t, genai.TypeUnspecified, genaiType("whatever"))
}

func TestNewClientProviderSelection(t *testing.T) {
	t.Run("default is REST", func(t *testing.T) {
		c, err := NewClient(context.Background(), config.LLMConfig{APIKey: "k"})
		require.NoError(t, err)
		_, ok := c.(*GeminiClient)
		assert.True(t, ok)
	})

	t.Run("explicit gemini", func(t *testing.T) {
		c, err := NewClient(context.Background(), config.LLMConfig{Provider: "gemini", APIKey: "k"})
		require.NoError(t, err)
		_, ok := c.(*GeminiClient)
		assert.True(t, ok)
	})

	t.Run("unknown provider", func(t *testing.T) {
		_, err := NewClient(context.Background(), config.LLMConfig{Provider: "oracle"})
		assert.Error(t, err)
	})

	t.Run("bad timeout", func(t *testing.T) {
		_, err := NewClient(context.Background(), config.LLMConfig{Provider: "gemini", Timeout: "soon"})
		assert.Error(t, err)
	})
}
