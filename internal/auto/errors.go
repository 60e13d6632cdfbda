package auto

import (
	"errors"
	"fmt"
)

// ErrNotImplemented is returned for options that are accepted for
// compatibility but not supported yet.
var ErrNotImplemented = errors.New("not implemented")

// ErrUnresolvedClass reports a declared or matched class name that cannot be
// found.
type ErrUnresolvedClass struct {
	Name  string
	Cause error
}

func (e *ErrUnresolvedClass) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("tokenizer class %s is not currently imported: %v", e.Name, e.Cause)
	}
	return fmt.Sprintf("tokenizer class %s does not exist or is not currently imported", e.Name)
}

func (e *ErrUnresolvedClass) Unwrap() error {
	return e.Cause
}

// ErrMissingDependency reports an architecture whose tokenizer
// implementations are all unavailable in this build.
type ErrMissingDependency struct {
	Arch       Arch
	Capability string
}

func (e *ErrMissingDependency) Error() string {
	return fmt.Sprintf("tokenizer for %q cannot be instantiated: %s is not available", e.Arch, e.Capability)
}

// ErrAmbiguousInput reports an identifier that matches none of the accepted
// input forms.
type ErrAmbiguousInput struct {
	Identifier string
	Cause      error
}

func (e *ErrAmbiguousInput) Error() string {
	return fmt.Sprintf("can't load tokenizer for %q. Please make sure that %q is:\n"+
		"- a correct model-identifier of built-in pretrained models,\n"+
		"- or a correct model-identifier of community-contributed pretrained models,\n"+
		"- or the correct path to a directory containing relevant tokenizer files",
		e.Identifier, e.Identifier)
}

func (e *ErrAmbiguousInput) Unwrap() error {
	return e.Cause
}

// ErrRegistration reports invalid or conflicting Register arguments.
type ErrRegistration struct {
	Message string
}

func (e *ErrRegistration) Error() string {
	return fmt.Sprintf("invalid tokenizer registration: %s", e.Message)
}
