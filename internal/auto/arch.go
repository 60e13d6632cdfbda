package auto

import (
	"strings"

	"github.com/born-ml/autotokenizer/internal/tokenizer"
)

// Arch is an architecture family key, e.g. "bert" or "chatglm_v2".
type Arch string

// Architecture family keys.
const (
	ArchAlbert             Arch = "albert"
	ArchBart               Arch = "bart"
	ArchBert               Arch = "bert"
	ArchBlenderbot         Arch = "blenderbot"
	ArchBloom              Arch = "bloom"
	ArchCLIP               Arch = "clip"
	ArchCodeGen            Arch = "codegen"
	ArchConvBert           Arch = "convbert"
	ArchCTRL               Arch = "ctrl"
	ArchDistilBert         Arch = "distilbert"
	ArchElectra            Arch = "electra"
	ArchErnie              Arch = "ernie"
	ArchErnieM             Arch = "ernie_m"
	ArchFNet               Arch = "fnet"
	ArchFunnel             Arch = "funnel"
	ArchGemma              Arch = "gemma"
	ArchJamba              Arch = "jamba"
	ArchLayoutLM           Arch = "layoutlm"
	ArchLayoutLMv2         Arch = "layoutlmv2"
	ArchLayoutXLM          Arch = "layoutxlm"
	ArchLlama              Arch = "llama"
	ArchLuke               Arch = "luke"
	ArchMamba              Arch = "mamba"
	ArchMBart              Arch = "mbart"
	ArchMobileBert         Arch = "mobilebert"
	ArchMPNet              Arch = "mpnet"
	ArchNeZha              Arch = "nezha"
	ArchPegasus            Arch = "pegasus"
	ArchProphetNet         Arch = "prophetnet"
	ArchReformer           Arch = "reformer"
	ArchRemBert            Arch = "rembert"
	ArchRoberta            Arch = "roberta"
	ArchRoFormer           Arch = "roformer"
	ArchSpeechT5           Arch = "speecht5"
	ArchSqueezeBert        Arch = "squeezebert"
	ArchT5                 Arch = "t5"
	ArchXLM                Arch = "xlm"
	ArchXLNet              Arch = "xlnet"
	ArchBertJapanese       Arch = "bert_japanese"
	ArchBigBird            Arch = "bigbird"
	ArchBlenderbotSmall    Arch = "blenderbot_small"
	ArchChatGLM            Arch = "chatglm"
	ArchChatGLMv2          Arch = "chatglm_v2"
	ArchChineseBert        Arch = "chinesebert"
	ArchDalleBart          Arch = "dallebart"
	ArchErnieCtm           Arch = "ernie_ctm"
	ArchErnieDoc           Arch = "ernie_doc"
	ArchErnieGram          Arch = "ernie_gram"
	ArchErnieLayout        Arch = "ernie_layout"
	ArchErnieCode          Arch = "ernie_code"
	ArchMegatronBert       Arch = "megatronbert"
	ArchNystromformer      Arch = "nystromformer"
	ArchPPMiniLM           Arch = "ppminilm"
	ArchRoFormerv2         Arch = "roformerv2"
	ArchSkep               Arch = "skep"
	ArchTinyBert           Arch = "tinybert"
	ArchUnifiedTransformer Arch = "unified_transformer"
	ArchUNIMO              Arch = "unimo"
	ArchGPT                Arch = "gpt"
	ArchGAUAlpha           Arch = "gau_alpha"
	ArchArtist             Arch = "artist"
	ArchChineseCLIP        Arch = "chineseclip"
	ArchErnieViL           Arch = "ernie_vil"
	ArchGLM                Arch = "glm"
	ArchQWen               Arch = "qwen"
	ArchQwen2              Arch = "qwen2"
	ArchYuan               Arch = "yuan"
)

// Variants lists the class names registered for an architecture.
//
// Several reference names are regional or language variants of the same
// architecture; the first one is the default.
type Variants struct {
	Reference   []string
	Accelerated string
}

// Names returns the reference names followed by the accelerated name, if any.
func (v Variants) Names(withAccelerated bool) []string {
	names := make([]string, 0, len(v.Reference)+1)
	names = append(names, v.Reference...)
	if withAccelerated && v.Accelerated != "" {
		names = append(names, v.Accelerated)
	}
	return names
}

// Entry is one row of the architecture table.
type Entry struct {
	Arch     Arch
	Variants Variants
}

func one(arch Arch, name string) Entry {
	return Entry{Arch: arch, Variants: Variants{Reference: []string{name}}}
}

func pair(arch Arch, reference []string, accelerated string) Entry {
	// Accelerated classes only exist when the backend is compiled in.
	if !tokenizer.FastBackendAvailable {
		accelerated = ""
	}
	return Entry{Arch: arch, Variants: Variants{Reference: reference, Accelerated: accelerated}}
}

// DefaultArchitectures returns the built-in architecture table.
//
// Order matters: identifier pattern matching picks the first architecture
// whose key occurs in the identifier.
func DefaultArchitectures() []Entry {
	return []Entry{
		pair(ArchAlbert, []string{"AlbertChineseTokenizer", "AlbertEnglishTokenizer"}, ""),
		one(ArchBart, "BartTokenizer"),
		pair(ArchBert, []string{"BertTokenizer"}, "BertTokenizerFast"),
		one(ArchBlenderbot, "BlenderbotTokenizer"),
		pair(ArchBloom, []string{"BloomTokenizer"}, "BloomTokenizerFast"),
		one(ArchCLIP, "CLIPTokenizer"),
		one(ArchCodeGen, "CodeGenTokenizer"),
		one(ArchConvBert, "ConvBertTokenizer"),
		one(ArchCTRL, "CTRLTokenizer"),
		one(ArchDistilBert, "DistilBertTokenizer"),
		one(ArchElectra, "ElectraTokenizer"),
		one(ArchErnie, "ErnieTokenizer"),
		one(ArchErnieM, "ErnieMTokenizer"),
		one(ArchFNet, "FNetTokenizer"),
		one(ArchFunnel, "FunnelTokenizer"),
		one(ArchGemma, "GemmaTokenizer"),
		one(ArchJamba, "JambaTokenizer"),
		one(ArchLayoutLM, "LayoutLMTokenizer"),
		one(ArchLayoutLMv2, "LayoutLMv2Tokenizer"),
		one(ArchLayoutXLM, "LayoutXLMTokenizer"),
		pair(ArchLlama, []string{"LlamaTokenizer", "Llama3Tokenizer"}, "LlamaTokenizerFast"),
		one(ArchLuke, "LukeTokenizer"),
		one(ArchMamba, "MambaTokenizer"),
		pair(ArchMBart, []string{"MBartTokenizer", "MBart50Tokenizer"}, ""),
		one(ArchMobileBert, "MobileBertTokenizer"),
		one(ArchMPNet, "MPNetTokenizer"),
		one(ArchNeZha, "NeZhaTokenizer"),
		one(ArchPegasus, "PegasusChineseTokenizer"),
		one(ArchProphetNet, "ProphetNetTokenizer"),
		one(ArchReformer, "ReformerTokenizer"),
		one(ArchRemBert, "RemBertTokenizer"),
		one(ArchRoberta, "RobertaBPETokenizer"),
		one(ArchRoFormer, "RoFormerTokenizer"),
		one(ArchSpeechT5, "SpeechT5Tokenizer"),
		one(ArchSqueezeBert, "SqueezeBertTokenizer"),
		one(ArchT5, "T5Tokenizer"),
		one(ArchXLM, "XLMTokenizer"),
		one(ArchXLNet, "XLNetTokenizer"),
		one(ArchBertJapanese, "BertJapaneseTokenizer"),
		one(ArchBigBird, "BigBirdTokenizer"),
		one(ArchBlenderbotSmall, "BlenderbotSmallTokenizer"),
		one(ArchChatGLM, "ChatGLMTokenizer"),
		one(ArchChatGLMv2, "ChatGLMv2Tokenizer"),
		one(ArchChineseBert, "ChineseBertTokenizer"),
		one(ArchDalleBart, "DalleBartTokenizer"),
		one(ArchErnieCtm, "ErnieCtmTokenizer"),
		one(ArchErnieDoc, "ErnieDocBPETokenizer"),
		one(ArchErnieGram, "ErnieGramTokenizer"),
		one(ArchErnieLayout, "ErnieLayoutTokenizer"),
		one(ArchErnieCode, "ErnieCodeTokenizer"),
		one(ArchMegatronBert, "MegatronBertTokenizer"),
		one(ArchNystromformer, "NystromformerTokenizer"),
		one(ArchPPMiniLM, "PPMiniLMTokenizer"),
		one(ArchRoFormerv2, "RoFormerv2Tokenizer"),
		one(ArchSkep, "SkepTokenizer"),
		one(ArchTinyBert, "TinyBertTokenizer"),
		one(ArchUnifiedTransformer, "UnifiedTransformerTokenizer"),
		one(ArchUNIMO, "UNIMOTokenizer"),
		pair(ArchGPT, []string{"GPTTokenizer", "GPTChineseTokenizer"}, ""),
		one(ArchGAUAlpha, "GAUAlphaTokenizer"),
		one(ArchArtist, "ArtistTokenizer"),
		one(ArchChineseCLIP, "ChineseCLIPTokenizer"),
		one(ArchErnieViL, "ErnieViLTokenizer"),
		one(ArchGLM, "GLMGPT2Tokenizer"),
		one(ArchQWen, "QWenTokenizer"),
		pair(ArchQwen2, []string{"Qwen2Tokenizer"}, "Qwen2TokenizerFast"),
		one(ArchYuan, "YuanTokenizer"),
	}
}

// normalizeArch folds case and drops '_' and '-' so that "ErnieM",
// "ernie_m" and "ernie-m" compare equal.
func normalizeArch(s string) string {
	s = strings.ToLower(s)
	return strings.NewReplacer("_", "", "-", "").Replace(s)
}

// archForConfigType maps a configuration type name such as "ErnieMConfig"
// to its architecture key.
func archForConfigType(entries []Entry, configType string) (Arch, bool) {
	base, ok := strings.CutSuffix(configType, "Config")
	if !ok || base == "" {
		return "", false
	}
	want := normalizeArch(base)
	for _, e := range entries {
		if normalizeArch(string(e.Arch)) == want {
			return e.Arch, true
		}
	}
	return "", false
}
