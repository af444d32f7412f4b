package ty

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v3"
)

type optHolder struct {
	Datasource Opt[string] `yaml:"datasource,omitempty" json:"datasource"`
	Limit      Opt[int]    `yaml:"limit,omitempty" json:"limit"`
}

func TestOpt_UnmarshalYAML(t *testing.T) {
	tests := []struct {
		name     string
		yamlData string
		expected optHolder
	}{
		{
			name: "both present",
			yamlData: `datasource: "loki"
limit: 500`,
			expected: optHolder{
				Datasource: Opt[string]{Value: "loki", Set: true, Valid: true},
				Limit:      Opt[int]{Value: 500, Set: true, Valid: true},
			},
		},
		{
			name:     "datasource omitted",
			yamlData: `limit: 500`,
			expected: optHolder{
				Limit: Opt[int]{Value: 500, Set: true, Valid: true},
			},
		},
		{
			name:     "explicit null is unset",
			yamlData: `datasource: null
limit: ~`,
			expected: optHolder{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var result optHolder
			err := yaml.Unmarshal([]byte(tt.yamlData), &result)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestOpt_MarshalYAMLOmitsUnset(t *testing.T) {
	out, err := yaml.Marshal(optHolder{Limit: Some(10)})
	assert.NoError(t, err)
	assert.Equal(t, "limit: 10\n", string(out))
}

func TestOpt_JSON(t *testing.T) {
	out, err := json.Marshal(optHolder{Datasource: Some("local")})
	assert.NoError(t, err)
	assert.JSONEq(t, `{"datasource":"local","limit":null}`, string(out))

	var back optHolder
	assert.NoError(t, json.Unmarshal(out, &back))
	assert.True(t, back.Datasource.Present())
	assert.False(t, back.Limit.Present())
	assert.True(t, back.Limit.Set)
}

func TestOpt_Accessors(t *testing.T) {
	o := None[string]()
	assert.Equal(t, "fallback", o.OrElse("fallback"))
	_, ok := o.Get()
	assert.False(t, ok)

	o.S("value")
	v, ok := o.Get()
	assert.True(t, ok)
	assert.Equal(t, "value", v)

	other := Some("other")
	o.Merge(&other)
	assert.Equal(t, "other", o.Value)

	o.U()
	assert.False(t, o.Present())
	assert.Equal(t, "", o.Value)
}
