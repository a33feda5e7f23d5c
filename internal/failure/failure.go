// Package failure turns the failures produced by wallets, nodes and the
// contract into the single message shown to the user.
//
// Inputs are classified into one Failure variant, then resolved by a fixed
// priority order. Provider messages are preferred over contract-data messages,
// which are preferred over generic messages.
package failure

import (
	"errors"
	"unicode"
	"unicode/utf8"

	dapperr "github.com/capnganj/PoisonToadsDapp/pkg/errors"
)

// FallbackText is shown when a failure carries no usable message.
const FallbackText = "Unknown error..."

// Kind tags a Failure variant.
type Kind int

// Failure variants.
const (
	KindClear Kind = iota
	KindText
	KindElement
	KindNested
	KindUnknown
)

// String returns the variant name.
func (k Kind) String() string {
	switch k {
	case KindClear:
		return "clear"
	case KindText:
		return "text"
	case KindElement:
		return "element"
	case KindNested:
		return "nested"
	case KindUnknown:
		return "unknown"
	default:
		return "unknown"
	}
}

// Failure is a classified failure value. Only the fields of its Kind are set.
type Failure struct {
	Kind Kind

	// KindText
	Text string

	// KindElement
	Element *Advisory

	// KindNested, probed in this order.
	Provider string
	Data     string
	Generic  string
}

// ProviderMessager is implemented by errors that carry the wallet's or node's own message.
type ProviderMessager interface {
	ProviderMessage() string
}

// DataMessager is implemented by errors that carry a contract revert message.
type DataMessager interface {
	DataMessage() string
}

// Classify maps v onto exactly one variant.
func Classify(v any) Failure {
	switch x := v.(type) {
	case nil:
		return Failure{Kind: KindClear}
	case string:
		return Failure{Kind: KindText, Text: x}
	case *Advisory:
		if x == nil {
			return Failure{Kind: KindClear}
		}
		return Failure{Kind: KindElement, Element: x}
	case error:
		return classifyError(x)
	case map[string]any:
		return classifyMap(x)
	default:
		return Failure{Kind: KindUnknown}
	}
}

func classifyError(err error) Failure {
	f := Failure{Kind: KindNested}

	var pm ProviderMessager
	if errors.As(err, &pm) {
		f.Provider = pm.ProviderMessage()
	}

	var dm DataMessager
	if errors.As(err, &dm) {
		f.Data = dm.DataMessage()
	}

	var de *dapperr.DappError
	if errors.As(err, &de) {
		f.Generic = de.Message
	} else {
		f.Generic = err.Error()
	}

	return f
}

// classifyMap handles decoded JSON error objects such as
// {"error": {"message": ...}}, {"data": {"message": ...}} or {"message": ...}.
func classifyMap(m map[string]any) Failure {
	return Failure{
		Kind:     KindNested,
		Provider: nestedMessage(m, "error"),
		Data:     nestedMessage(m, "data"),
		Generic:  stringField(m, "message"),
	}
}

func nestedMessage(m map[string]any, key string) string {
	inner, ok := m[key].(map[string]any)
	if !ok {
		return ""
	}
	return stringField(inner, "message")
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

// Message is what the error overlay displays: either text or an advisory element.
type Message struct {
	Text     string    `json:"text,omitempty"`
	Advisory *Advisory `json:"advisory,omitempty"`
}

// String renders the message as plain text.
func (m *Message) String() string {
	if m == nil {
		return ""
	}
	if m.Advisory != nil {
		return m.Advisory.String()
	}
	return m.Text
}

// Clone returns a deep copy.
func (m *Message) Clone() *Message {
	if m == nil {
		return nil
	}
	c := &Message{Text: m.Text}
	if m.Advisory != nil {
		c.Advisory = m.Advisory.Clone()
	}
	return c
}

// Resolve turns a classified failure into a display message. A nil result clears the overlay.
func Resolve(f Failure) *Message {
	switch f.Kind {
	case KindClear:
		return nil
	case KindText:
		if f.Text == "" {
			return nil
		}
		return &Message{Text: capitalize(f.Text)}
	case KindElement:
		return &Message{Advisory: f.Element}
	case KindNested:
		for _, candidate := range []string{f.Provider, f.Data, f.Generic} {
			if candidate != "" {
				return &Message{Text: capitalize(candidate)}
			}
		}
		return &Message{Text: FallbackText}
	case KindUnknown:
		return &Message{Text: FallbackText}
	default:
		return &Message{Text: FallbackText}
	}
}

// Normalize classifies and resolves v in one step.
func Normalize(v any) *Message {
	return Resolve(Classify(v))
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
