// Package auto resolves a model identifier to the tokenizer class that
// should load it, then hands construction to that class.
//
// Resolution tries three strategies in order:
//
//  1. builtin: the identifier is one of the pretrained names a reference
//     class declares (e.g. "bert-base-uncased").
//  2. tokenizer_config: tokenizer_config.json names the class through
//     init_class or tokenizer_class. Names that are not registered fall back
//     to matching architecture keys against the identifier.
//  3. model_config: the model configuration either names the class or has a
//     configuration type from which the architecture family is derived.
//
// A Registry holds the architecture table, the class catalog, the
// pretrained-name index and any runtime registrations. Registries are
// independent, so tests can build isolated ones with WithClasses and
// WithArchitectures.
//
// Example usage:
//
//	reg, err := auto.NewRegistry(auto.WithLogger(logger))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res, err := reg.ResolveClass(ctx, "./my_bert", auto.WithUseFast(true))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.Class.Name, res.Strategy)
package auto
