// Package autoconfig loads the generic model configuration of a checkpoint.
//
// A ModelConfig carries the fields tokenizer resolution needs: the declared
// tokenizer class, if any, and a configuration type name such as
// "BertConfig" from which an architecture family can be derived.
//
// Configurations come from config.json (or the legacy model_config.json)
// located through a hub.Resolver, or from the metadata of a single-file
// GGUF checkpoint.
package autoconfig
