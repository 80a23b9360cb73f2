// Package languages holds the closed set of languages the translator supports.
package languages

import "strings"

// Language - коды одного языка для каждого внешнего сервиса.
type Language struct {
	Label     string `json:"label"`
	Speech    string `json:"speech"`    // диалект распознавания, en-US
	Translate string `json:"translate"` // код переводчика, en
	TTS       string `json:"tts"`       // код голоса синтеза, en
}

// новый язык = одна строка здесь
var table = []Language{
	{Label: "English", Speech: "en-US", Translate: "en", TTS: "en"},
	{Label: "Spanish", Speech: "es-ES", Translate: "es", TTS: "es"},
	{Label: "French", Speech: "fr-FR", Translate: "fr", TTS: "fr"},
	{Label: "German", Speech: "de-DE", Translate: "de", TTS: "de"},
	{Label: "Hindi", Speech: "hi-IN", Translate: "hi", TTS: "hi"},
	{Label: "Bhojpuri", Speech: "hi-IN", Translate: "bho", TTS: "hi"},
	{Label: "Punjabi", Speech: "pa-IN", Translate: "pa", TTS: "hi"},
	{Label: "Tamil", Speech: "ta-IN", Translate: "ta", TTS: "ta"},
	{Label: "Telugu", Speech: "te-IN", Translate: "te", TTS: "te"},
	{Label: "Kannada", Speech: "kn-IN", Translate: "kn", TTS: "kn"},
	{Label: "Malayalam", Speech: "ml-IN", Translate: "ml", TTS: "ml"},
	{Label: "Chinese", Speech: "zh-CN", Translate: "zh", TTS: "zh"},
	{Label: "Japanese", Speech: "ja-JP", Translate: "ja", TTS: "ja"},
	{Label: "Korean", Speech: "ko-KR", Translate: "ko", TTS: "ko"},
	{Label: "Arabic", Speech: "ar-SA", Translate: "ar", TTS: "ar"},
	{Label: "Portuguese", Speech: "pt-BR", Translate: "pt", TTS: "pt"},
}

// All returns the supported languages in display order.
func All() []Language {
	out := make([]Language, len(table))
	copy(out, table)
	return out
}

// Lookup finds a language by its label, case-insensitively.
func Lookup(label string) (Language, bool) {
	label = strings.TrimSpace(label)
	for _, l := range table {
		if strings.EqualFold(l.Label, label) {
			return l, true
		}
	}
	return Language{}, false
}

// BaseCode cuts the region off a speech dialect: "en-US" -> "en".
func BaseCode(speech string) string {
	if i := strings.IndexAny(speech, "-_"); i > 0 {
		return strings.ToLower(speech[:i])
	}
	return strings.ToLower(speech)
}
