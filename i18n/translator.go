package i18n

import (
	"strings"
	"sync"
)

// Translator retrieves localized messages for error kinds.
// data provides values substituted for {name} placeholders in the message
// (for example, "key" or "expected").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var en = map[string]string{
	"unknown_key":              "unknown options {keys}, valid options are: {valid}",
	"missing_required":         "required {key} option not found, received options: {received}",
	"missing_required_many":    "required options {keys} not found, received options: {received}",
	"invalid_value":            "invalid value for {key} option: {reason}",
	"type_mismatch":            "expected {expected}, got: {value}",
	"literal":                  "expected literal {expected}, got: {value}",
	"one_of":                   "expected one of {expected}, got: {value}",
	"in_range":                 "expected an integer in {expected}, got: {value}",
	"or_failed":                "expected {value} to match at least one given type, but didn't match any. Here are the reasons why it didn't match each of the allowed types:\n\n{reasons}",
	"and_failed":               "expected {value} to match all of [{types}], but {failed} did not match: {reason}",
	"wrap_list":                "expected {elem} or a list of {elem}, got: {value}",
	"wrap_list_element":        "expected {elem} or a list of {elem}, got: {value}: {reason}",
	"tuple_arity":              "expected tuple with {expected} elements, got: tuple with {actual} elements: {value}",
	"arity_mismatch":           "expected function of arity {expected}, got: function of arity {actual}",
	"not_a_protocol":           "{protocol} is not a protocol",
	"protocol_not_implemented": "protocol {protocol} is not implemented by {value}",
	"empty_not_allowed":        "expected a non-empty {expected}, got: {value}",
	"function_behaviour":       "expected a module implementing {behaviour}, a {module, opts} pair, one of the builtins {builtins} or a function of arity {arity}, got: {value}",
	"behaviour":                "expected a module implementing {behaviour}, a {module, opts} pair or one of the builtins {builtins}, got: {value}",
	"map_key":                  "invalid map key {mapkey}: {reason}",
	"unhashable_key":           "key validation returned {value}, which cannot be used as a map key",
	"deprecated":               "{key} is deprecated. {reason}",
	"compile_wildcard":         "schemas with a {key} key cannot be compiled",
	"compile_nested_keys":      "option {key} uses {expected} with nested keys, which cannot be compiled; use a keyword list or map type over a schema instead",
}

var ja = map[string]string{
	"unknown_key":              "未知のオプション {keys} です。有効なオプション: {valid}",
	"missing_required":         "必須オプション {key} がありません。受け取ったオプション: {received}",
	"missing_required_many":    "必須オプション {keys} がありません。受け取ったオプション: {received}",
	"invalid_value":            "{key} オプションの値が不正です: {reason}",
	"type_mismatch":            "{expected} が必要ですが、{value} を受け取りました",
	"not_a_protocol":           "{protocol} はプロトコルではありません",
	"protocol_not_implemented": "プロトコル {protocol} は {value} に実装されていません",
	"empty_not_allowed":        "空でない {expected} が必要ですが、{value} を受け取りました",
	"deprecated":               "{key} は非推奨です。{reason}",
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	tmpl, ok := "", false
	if t.lang == "ja" {
		tmpl, ok = ja[code]
	}
	if !ok {
		tmpl, ok = en[code]
	}
	if !ok {
		return code
	}
	return Render(tmpl, data)
}

// Render substitutes {name} placeholders in tmpl with values from data.
// Placeholders without a value are left as they are.
func Render(tmpl string, data map[string]string) string {
	if len(data) == 0 {
		return tmpl
	}
	pairs := make([]string, 0, len(data)*2)
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

var (
	mu                           = sync.RWMutex{}
	currentTranslator Translator = dictTranslator{lang: "en"}
)

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	SetTranslator(dictTranslator{lang: lang})
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	mu.Lock()
	currentTranslator = tr
	mu.Unlock()
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	mu.RLock()
	tr := currentTranslator
	mu.RUnlock()
	return tr.Message(code, data)
}
