package auto

import (
	"fmt"

	"go.uber.org/zap"
)

// Register adds tokenizer classes for a model configuration type.
//
// When configType already has a registration, a nil argument keeps the
// class registered in that slot. Configuration types of built-in
// architectures can only be registered with allowOverwrite.
func (r *Registry) Register(configType string, reference, accelerated *Class, allowOverwrite bool) error {
	if configType == "" {
		return &ErrRegistration{Message: "configuration type is empty"}
	}
	if reference == nil && accelerated == nil {
		return &ErrRegistration{Message: "either a reference or an accelerated class is required"}
	}
	if reference != nil && reference.Kind == KindAccelerated {
		return &ErrRegistration{Message: fmt.Sprintf("%s is accelerated but was passed as the reference class", reference.Name)}
	}
	if accelerated != nil && accelerated.Kind == KindReference {
		return &ErrRegistration{Message: fmt.Sprintf("%s is a reference class but was passed as the accelerated class", accelerated.Name)}
	}
	if reference != nil && accelerated != nil &&
		accelerated.SlowClass != "" && accelerated.SlowClass != reference.Name {
		return &ErrRegistration{Message: fmt.Sprintf(
			"accelerated class %s expects reference class %q but %s was passed",
			accelerated.Name, accelerated.SlowClass, reference.Name)}
	}

	if arch, ok := archForConfigType(r.entries, configType); ok && !allowOverwrite {
		return &ErrRegistration{Message: fmt.Sprintf("%q is already used by the built-in architecture %q", configType, arch)}
	}

	r.extraMu.Lock()
	defer r.extraMu.Unlock()

	existing, exists := r.extras[configType]
	p := Pair{Accelerated: accelerated}
	if reference != nil {
		p.Reference = []*Class{reference}
	}
	if exists {
		if reference == nil {
			p.Reference = existing.Reference
		}
		if accelerated == nil {
			p.Accelerated = existing.Accelerated
		}
	} else {
		r.extraOrder = append(r.extraOrder, configType)
	}
	r.extras[configType] = p

	r.logger.Debug("registered tokenizer classes",
		zap.String("config_type", configType),
		zap.Stringers("classes", p.classes()))
	return nil
}
