package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedLanguage is returned for a target language outside Languages.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// Language is a translation target.
type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
	RTL  bool   `json:"rtl"`
}

// Languages lists the supported translation targets.
var Languages = []Language{
	{Code: "en", Name: "English"},
	{Code: "ur", Name: "Urdu", RTL: true},
	{Code: "pa", Name: "Punjabi"},
	{Code: "ar", Name: "Arabic", RTL: true},
	{Code: "sd", Name: "Sindhi", RTL: true},
	{Code: "es", Name: "Spanish"},
	{Code: "fr", Name: "French"},
	{Code: "de", Name: "German"},
	{Code: "zh-cn", Name: "Chinese"},
}

// ResolveLanguage accepts a language code or name, case-insensitively.
func ResolveLanguage(s string) (Language, error) {
	s = strings.TrimSpace(s)
	for _, l := range Languages {
		if strings.EqualFold(s, l.Code) || strings.EqualFold(s, l.Name) {
			return l, nil
		}
	}
	return Language{}, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, s)
}

// Translate renders text in the target language. English returns text as is.
func Translate(ctx context.Context, c Completer, text, target string) (string, Language, error) {
	lang, err := ResolveLanguage(target)
	if err != nil {
		return "", Language{}, err
	}
	if lang.Code == "en" || strings.TrimSpace(text) == "" {
		return text, lang, nil
	}
	out, err := c.Complete(ctx, TranslationPrompt(text, lang))
	if err != nil {
		return "", lang, err
	}
	return out, lang, nil
}
