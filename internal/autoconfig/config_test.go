package autoconfig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name           string
		json           string
		configType     string
		tokenizerClass string
	}{
		{"model_type", `{"model_type": "bert"}`, "BertConfig", ""},
		{"snake case model_type", `{"model_type": "blenderbot_small"}`, "BlenderbotSmallConfig", ""},
		{"dashed model_type", `{"model_type": "ernie-m"}`, "ErnieMConfig", ""},
		{"architectures fallback", `{"architectures": ["LlamaForCausalLM"]}`, "LlamaConfig", ""},
		{"lm head", `{"architectures": ["GPT2LMHeadModel"]}`, "GPT2Config", ""},
		{"legacy init_class", `{"init_class": "ErnieModel"}`, "ErnieConfig", ""},
		{"tokenizer_class", `{"model_type": "t5", "tokenizer_class": "T5Tokenizer"}`, "T5Config", "T5Tokenizer"},
		{"empty", `{}`, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse([]byte(tt.json))
			require.NoError(t, err)
			assert.Equal(t, tt.configType, cfg.ConfigType)
			assert.Equal(t, tt.tokenizerClass, cfg.TokenizerClass)
			assert.NotNil(t, cfg.Raw)
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte(`{"model_type":`))
	assert.Error(t, err)
}

func TestStripHead(t *testing.T) {
	assert.Equal(t, "Bert", StripHead("BertForMaskedLM"))
	assert.Equal(t, "RoFormer", StripHead("RoFormerModel"))
	assert.Equal(t, "RoFormer", StripHead("RoFormerForSequenceClassification"))
	assert.Equal(t, "Ernie", StripHead("ErniePretrainedModel"))
	assert.Equal(t, "Custom", StripHead("Custom"))
}

func TestCamelCase(t *testing.T) {
	assert.Equal(t, "Qwen2", CamelCase("qwen2"))
	assert.Equal(t, "LayoutLMv2", CamelCase("layoutLMv2"))
	assert.Equal(t, "ChatglmV2", CamelCase("chatglm_v2"))
}
