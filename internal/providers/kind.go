// Package providers defines the adapter contract over upstream
// text-generation APIs and the factory that builds adapter instances.
package providers

import (
	"fmt"

	"voxd/internal/core"
)

// Kind identifies an upstream provider. The set is closed; dispatch happens
// on Kind values, never on free-form strings.
type Kind string

const (
	KindGroq        Kind = "groq"
	KindTogether    Kind = "together"
	KindHuggingFace Kind = "huggingface"
	KindDeepgram    Kind = "deepgram"
)

// Kinds returns all known provider kinds in declaration order.
func Kinds() []Kind {
	return []Kind{KindGroq, KindTogether, KindHuggingFace, KindDeepgram}
}

// ParseKind validates a provider name against the closed kind set.
func ParseKind(name string) (Kind, error) {
	switch Kind(name) {
	case KindGroq, KindTogether, KindHuggingFace, KindDeepgram:
		return Kind(name), nil
	}
	return "", core.NewConfigurationError(fmt.Sprintf("unknown provider: %q", name), nil)
}

// String implements fmt.Stringer
func (k Kind) String() string {
	return string(k)
}
