package modlate

import "strings"

// LanguageNames maps locale codes to human-readable names for provider
// prompts.
var LanguageNames = map[string]string{
	"en_US": "English (United States)",
	"en_GB": "English (United Kingdom)",
	"de_DE": "German (Germany)",
	"es_ES": "Spanish (Spain)",
	"es_MX": "Spanish (Mexico)",
	"fr_FR": "French (France)",
	"it_IT": "Italian (Italy)",
	"ja_JP": "Japanese (Japan)",
	"ko_KR": "Korean (South Korea)",
	"nl_NL": "Dutch (Netherlands)",
	"pl_PL": "Polish (Poland)",
	"pt_BR": "Portuguese (Brazil)",
	"pt_PT": "Portuguese (Portugal)",
	"ru_RU": "Russian (Russia)",
	"tr_TR": "Turkish (Turkey)",
	"uk_UA": "Ukrainian (Ukraine)",
	"zh_CN": "Chinese (Simplified)",
	"zh_TW": "Chinese (Traditional)",
	"cs_CZ": "Czech (Czech Republic)",
	"da_DK": "Danish (Denmark)",
	"fi_FI": "Finnish (Finland)",
	"hu_HU": "Hungarian (Hungary)",
	"nb_NO": "Norwegian Bokmål (Norway)",
	"ro_RO": "Romanian (Romania)",
	"sv_SE": "Swedish (Sweden)",
	"vi_VN": "Vietnamese (Vietnam)",
}

// ShortCodeToLocale maps short language codes to full locale codes.
var ShortCodeToLocale = map[string]string{
	"en": "en_US",
	"de": "de_DE",
	"es": "es_ES",
	"fr": "fr_FR",
	"it": "it_IT",
	"ja": "ja_JP",
	"ko": "ko_KR",
	"nl": "nl_NL",
	"pl": "pl_PL",
	"pt": "pt_BR",
	"ru": "ru_RU",
	"tr": "tr_TR",
	"uk": "uk_UA",
	"zh": "zh_CN",
	"cs": "cs_CZ",
	"da": "da_DK",
	"fi": "fi_FI",
	"hu": "hu_HU",
	"nb": "nb_NO",
	"ro": "ro_RO",
	"sv": "sv_SE",
	"vi": "vi_VN",
}

// GetLanguageName returns the human-readable name for a language code.
// Falls back to the code itself if not found.
func GetLanguageName(langCode string) string {
	code := NormalizeLocale(langCode)
	if name, ok := LanguageNames[code]; ok {
		return name
	}
	if locale, ok := ShortCodeToLocale[code]; ok {
		if name, ok := LanguageNames[locale]; ok {
			return name
		}
	}
	return langCode
}

// KnownLanguage reports whether a language code resolves to a known locale.
func KnownLanguage(langCode string) bool {
	code := NormalizeLocale(langCode)
	if _, ok := LanguageNames[code]; ok {
		return true
	}
	_, ok := ShortCodeToLocale[code]
	return ok
}

// NormalizeLocale converts a language code to the standard format
// (e.g. "es-ES" → "es_ES").
func NormalizeLocale(langCode string) string {
	return strings.ReplaceAll(strings.TrimSpace(langCode), "-", "_")
}

// LocaleDirName converts a locale code to the directory form Hytale uses
// under Server/Languages (e.g. "ru_RU" → "ru-RU").
func LocaleDirName(langCode string) string {
	return strings.ReplaceAll(NormalizeLocale(langCode), "_", "-")
}

// baseLang extracts the base language code (e.g. "en" from "en_US").
func baseLang(lang string) string {
	parts := strings.Split(NormalizeLocale(lang), "_")
	return strings.ToLower(parts[0])
}

// SameLanguage reports whether two codes share a base language, in which
// case translation can be bypassed.
func SameLanguage(a, b string) bool {
	return baseLang(a) == baseLang(b)
}
