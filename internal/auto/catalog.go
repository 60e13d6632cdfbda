package auto

import (
	"github.com/born-ml/autotokenizer/internal/tokenizer"
)

// GenericFastClassName names the accelerated class that loads any
// tokenizer.json regardless of architecture.
const GenericFastClassName = "PretrainedTokenizerFast"

// Chat template names attached to chat-capable classes.
const (
	chatLLaMA  = "llama"
	chatChatML = "chatml"
	chatGemma  = "gemma"
)

func reference(name string, arch Arch, family tokenizer.Family, pretrained ...string) *Class {
	return &Class{
		Name:       name,
		Kind:       KindReference,
		Arch:       arch,
		Pretrained: pretrained,
		New:        Pretrained(family),
	}
}

func accelerated(name, slow string, arch Arch) *Class {
	return &Class{
		Name:      name,
		Kind:      KindAccelerated,
		Arch:      arch,
		SlowClass: slow,
		New:       Pretrained(tokenizer.FamilyFast),
	}
}

func chat(c *Class, template string) *Class {
	c.ChatTemplate = template
	return c
}

// GenericFast returns the architecture-independent accelerated class.
func GenericFast() *Class {
	return &Class{
		Name: GenericFastClassName,
		Kind: KindAccelerated,
		New:  Pretrained(tokenizer.FamilyFast),
	}
}

// DefaultClasses returns the built-in class catalog.
//
// Accelerated classes are omitted when the backend is not compiled in.
func DefaultClasses() []*Class {
	const (
		wp = tokenizer.FamilyWordPiece
		bp = tokenizer.FamilyBPE
		gp = tokenizer.FamilyGPT
		sp = tokenizer.FamilySentencePiece
	)

	classes := []*Class{
		reference("AlbertChineseTokenizer", ArchAlbert, wp,
			"albert-chinese-tiny", "albert-chinese-small", "albert-chinese-base",
			"albert-chinese-large", "albert-chinese-xlarge", "albert-chinese-xxlarge"),
		reference("AlbertEnglishTokenizer", ArchAlbert, sp,
			"albert-base-v1", "albert-large-v1", "albert-xlarge-v1", "albert-xxlarge-v1",
			"albert-base-v2", "albert-large-v2", "albert-xlarge-v2", "albert-xxlarge-v2"),
		reference("BartTokenizer", ArchBart, bp, "bart-base", "bart-large"),
		reference("BertTokenizer", ArchBert, wp,
			"bert-base-uncased", "bert-large-uncased", "bert-base-cased", "bert-large-cased",
			"bert-base-multilingual-uncased", "bert-base-multilingual-cased", "bert-base-chinese",
			"bert-wwm-chinese", "bert-wwm-ext-chinese", "macbert-base-chinese", "macbert-large-chinese",
			"simbert-base-chinese", "uer/chinese-roberta-base", "uer/chinese-roberta-medium"),
		reference("BlenderbotTokenizer", ArchBlenderbot, bp,
			"blenderbot-400M-distill", "blenderbot-3B", "blenderbot-1B-distill"),
		reference("BloomTokenizer", ArchBloom, bp, "bigscience/bloom-560m", "bigscience/bloomz-560m"),
		reference("CLIPTokenizer", ArchCLIP, bp,
			"openai/clip-vit-base-patch32", "openai/clip-vit-base-patch16", "openai/clip-vit-large-patch14"),
		reference("CodeGenTokenizer", ArchCodeGen, gp,
			"Salesforce/codegen-350M-mono", "Salesforce/codegen-2B-mono", "Salesforce/codegen-6B-mono"),
		reference("ConvBertTokenizer", ArchConvBert, wp, "convbert-base", "convbert-medium-small", "convbert-small"),
		reference("CTRLTokenizer", ArchCTRL, bp, "ctrl", "sshleifer-tiny-ctrl"),
		reference("DistilBertTokenizer", ArchDistilBert, wp, "distilbert-base-uncased", "distilbert-base-cased"),
		reference("ElectraTokenizer", ArchElectra, wp,
			"electra-small", "electra-base", "electra-large",
			"chinese-electra-small", "chinese-electra-base", "ernie-health-chinese"),
		reference("ErnieTokenizer", ArchErnie, wp,
			"ernie-1.0", "ernie-1.0-base-zh", "ernie-1.0-large-zh-cw", "ernie-tiny",
			"ernie-2.0-base-en", "ernie-2.0-large-en", "ernie-3.0-base-zh", "ernie-3.0-medium-zh",
			"ernie-3.0-mini-zh", "ernie-3.0-micro-zh", "ernie-3.0-nano-zh"),
		reference("ErnieMTokenizer", ArchErnieM, sp, "ernie-m-base", "ernie-m-large"),
		reference("FNetTokenizer", ArchFNet, sp, "fnet-base", "fnet-large"),
		reference("FunnelTokenizer", ArchFunnel, wp,
			"funnel-transformer/small", "funnel-transformer/small-base",
			"funnel-transformer/medium", "funnel-transformer/large"),
		chat(reference("GemmaTokenizer", ArchGemma, sp,
			"google/gemma-2b", "google/gemma-7b", "google/gemma-2b-it", "google/gemma-7b-it"), chatGemma),
		reference("JambaTokenizer", ArchJamba, sp, "ai21labs/Jamba-v0.1"),
		reference("LayoutLMTokenizer", ArchLayoutLM, wp, "layoutlm-base-uncased", "layoutlm-large-uncased"),
		reference("LayoutLMv2Tokenizer", ArchLayoutLMv2, wp, "layoutlmv2-base-uncased", "layoutlmv2-large-uncased"),
		reference("LayoutXLMTokenizer", ArchLayoutXLM, sp, "layoutxlm-base-uncased"),
		chat(reference("LlamaTokenizer", ArchLlama, sp,
			"facebook/llama-7b", "facebook/llama-13b", "facebook/llama-30b", "facebook/llama-65b",
			"meta-llama/Llama-2-7b", "meta-llama/Llama-2-7b-chat"), chatLLaMA),
		reference("Llama3Tokenizer", ArchLlama, gp, "meta-llama/Meta-Llama-3-8B", "meta-llama/Meta-Llama-3-8B-Instruct"),
		reference("LukeTokenizer", ArchLuke, bp, "luke-base", "luke-large"),
		reference("MambaTokenizer", ArchMamba, bp, "state-spaces/mamba-2.8b-hf"),
		reference("MBartTokenizer", ArchMBart, sp, "mbart-large-cc25", "mbart-large-en-ro"),
		reference("MBart50Tokenizer", ArchMBart, sp,
			"mbart-large-50-one-to-many-mmt", "mbart-large-50-many-to-one-mmt", "mbart-large-50-many-to-many-mmt"),
		reference("MobileBertTokenizer", ArchMobileBert, wp, "mobilebert-uncased"),
		reference("MPNetTokenizer", ArchMPNet, wp, "mpnet-base"),
		reference("NeZhaTokenizer", ArchNeZha, wp,
			"nezha-base-chinese", "nezha-large-chinese", "nezha-base-wwm-chinese", "nezha-large-wwm-chinese"),
		reference("PegasusChineseTokenizer", ArchPegasus, sp,
			"IDEA-CCNL/Randeng-Pegasus-238M-Summary-Chinese", "IDEA-CCNL/Randeng-Pegasus-523M-Summary-Chinese"),
		reference("ProphetNetTokenizer", ArchProphetNet, wp, "prophetnet-large-uncased"),
		reference("ReformerTokenizer", ArchReformer, sp, "reformer-enwik8", "reformer-crime-and-punishment"),
		reference("RemBertTokenizer", ArchRemBert, sp, "rembert"),
		reference("RobertaBPETokenizer", ArchRoberta, bp, "roberta-base", "roberta-large"),
		reference("RoFormerTokenizer", ArchRoFormer, wp,
			"roformer-chinese-small", "roformer-chinese-base",
			"roformer-chinese-char-small", "roformer-chinese-char-base"),
		reference("SpeechT5Tokenizer", ArchSpeechT5, sp,
			"microsoft/speecht5_asr", "microsoft/speecht5_tts", "microsoft/speecht5_vc"),
		reference("SqueezeBertTokenizer", ArchSqueezeBert, wp,
			"squeezebert-uncased", "squeezebert-mnli", "squeezebert-mnli-headless"),
		reference("T5Tokenizer", ArchT5, sp, "t5-small", "t5-base", "t5-large", "t5-3b", "t5-11b"),
		reference("XLMTokenizer", ArchXLM, bp,
			"xlm-mlm-en-2048", "xlm-mlm-ende-1024", "xlm-mlm-enfr-1024", "xlm-mlm-enro-1024",
			"xlm-mlm-xnli15-1024", "xlm-clm-enfr-1024", "xlm-clm-ende-1024", "xlm-mlm-17-1280", "xlm-mlm-100-1280"),
		reference("XLNetTokenizer", ArchXLNet, sp,
			"xlnet-base-cased", "xlnet-large-cased", "chinese-xlnet-base", "chinese-xlnet-mid", "chinese-xlnet-large"),
		reference("BertJapaneseTokenizer", ArchBertJapanese, wp,
			"cl-tohoku/bert-base-japanese", "cl-tohoku/bert-base-japanese-whole-word-masking",
			"cl-tohoku/bert-base-japanese-char", "cl-tohoku/bert-base-japanese-char-whole-word-masking"),
		reference("BigBirdTokenizer", ArchBigBird, sp, "bigbird-base-uncased"),
		reference("BlenderbotSmallTokenizer", ArchBlenderbotSmall, bp, "blenderbot_small-90M"),
		reference("ChatGLMTokenizer", ArchChatGLM, sp, "THUDM/chatglm-6b", "THUDM/chatglm-6b-v1.1"),
		reference("ChatGLMv2Tokenizer", ArchChatGLMv2, sp, "THUDM/chatglm2-6b", "THUDM/chatglm3-6b"),
		reference("ChineseBertTokenizer", ArchChineseBert, wp, "ChineseBERT-base", "ChineseBERT-large"),
		reference("DalleBartTokenizer", ArchDalleBart, bp, "dalle-mini", "dalle-mega-v16", "dalle-mega-v26", "dalle-mega"),
		reference("ErnieCtmTokenizer", ArchErnieCtm, wp, "ernie-ctm", "wordtag", "nptag"),
		reference("ErnieDocBPETokenizer", ArchErnieDoc, bp, "ernie-doc-base-en"),
		reference("ErnieGramTokenizer", ArchErnieGram, wp, "ernie-gram-zh", "ernie-gram-zh-finetuned-dureader-robust"),
		reference("ErnieLayoutTokenizer", ArchErnieLayout, sp, "ernie-layoutx-base-uncased", "uie-x-base"),
		reference("ErnieCodeTokenizer", ArchErnieCode, sp, "ernie-code-base", "ernie-code-base-L512"),
		reference("MegatronBertTokenizer", ArchMegatronBert, wp, "megatronbert-cased", "megatronbert-uncased"),
		reference("NystromformerTokenizer", ArchNystromformer, wp, "nystromformer-base-zh"),
		reference("PPMiniLMTokenizer", ArchPPMiniLM, wp, "ppminilm-6l-768h"),
		reference("RoFormerv2Tokenizer", ArchRoFormerv2, wp,
			"roformer_v2_chinese_char_small", "roformer_v2_chinese_char_base", "roformer_v2_chinese_char_large"),
		reference("SkepTokenizer", ArchSkep, wp,
			"skep_ernie_1.0_large_ch", "skep_ernie_2.0_large_en", "skep_roberta_large_en"),
		reference("TinyBertTokenizer", ArchTinyBert, wp,
			"tinybert-4l-312d", "tinybert-6l-768d", "tinybert-4l-312d-v2", "tinybert-6l-768d-v2",
			"tinybert-4l-312d-zh", "tinybert-6l-768d-zh"),
		reference("UnifiedTransformerTokenizer", ArchUnifiedTransformer, sp,
			"unified_transformer-12L-cn", "unified_transformer-12L-cn-luge", "plato-mini"),
		reference("UNIMOTokenizer", ArchUNIMO, wp,
			"unimo-text-1.0", "unimo-text-1.0-lcsts-new", "unimo-text-1.0-large"),
		reference("GPTTokenizer", ArchGPT, gp, "gpt2-en", "gpt2-medium-en", "gpt2-large-en", "gpt2-xl-en"),
		reference("GPTChineseTokenizer", ArchGPT, sp, "gpt-cpm-large-cn", "gpt-cpm-small-cn-distill"),
		reference("GAUAlphaTokenizer", ArchGAUAlpha, wp, "chinese_GAU-alpha-char_L-24_H-768"),
		reference("ArtistTokenizer", ArchArtist, gp,
			"pai-painter-painting-base-zh", "pai-painter-scenery-base-zh",
			"pai-painter-commercial-base-zh", "pai-painter-base-zh", "pai-painter-large-zh"),
		reference("ChineseCLIPTokenizer", ArchChineseCLIP, wp,
			"OFA-Sys/chinese-clip-vit-base-patch16", "OFA-Sys/chinese-clip-vit-large-patch14"),
		reference("ErnieViLTokenizer", ArchErnieViL, wp, "PaddlePaddle/ernie_vil-2.0-base-zh"),
		reference("GLMGPT2Tokenizer", ArchGLM, gp, "THUDM/glm-2b", "THUDM/glm-10b"),
		chat(reference("QWenTokenizer", ArchQWen, gp,
			"qwen/qwen-7b", "qwen/qwen-7b-chat", "qwen/qwen-14b", "qwen/qwen-14b-chat"), chatChatML),
		chat(reference("Qwen2Tokenizer", ArchQwen2, bp,
			"Qwen/Qwen1.5-0.5B", "Qwen/Qwen1.5-0.5B-Chat", "Qwen/Qwen2-0.5B", "Qwen/Qwen2-7B-Instruct"), chatChatML),
		chat(reference("YuanTokenizer", ArchYuan, sp, "IEITYuan/Yuan2-2B", "IEITYuan/Yuan2-51B", "IEITYuan/Yuan2-102B"), chatChatML),
	}

	if tokenizer.FastBackendAvailable {
		classes = append(classes,
			accelerated("BertTokenizerFast", "BertTokenizer", ArchBert),
			accelerated("BloomTokenizerFast", "BloomTokenizer", ArchBloom),
			chat(accelerated("LlamaTokenizerFast", "LlamaTokenizer", ArchLlama), chatLLaMA),
			chat(accelerated("Qwen2TokenizerFast", "Qwen2Tokenizer", ArchQwen2), chatChatML),
		)
	}

	return classes
}
