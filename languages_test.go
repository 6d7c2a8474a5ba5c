package modlate

import "testing"

func TestGetLanguageName(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"es_ES", "Spanish (Spain)"},
		{"es-ES", "Spanish (Spain)"},
		{"ja", "Japanese (Japan)"},
		{"xx_XX", "xx_XX"},
	}
	for _, tt := range tests {
		if got := GetLanguageName(tt.code); got != tt.want {
			t.Errorf("GetLanguageName(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestKnownLanguage(t *testing.T) {
	for _, code := range []string{"en_US", "es-ES", "pt", "zh_TW"} {
		if !KnownLanguage(code) {
			t.Errorf("KnownLanguage(%q) = false", code)
		}
	}
	for _, code := range []string{"xx_XX", "", "klingon"} {
		if KnownLanguage(code) {
			t.Errorf("KnownLanguage(%q) = true", code)
		}
	}
}

func TestNormalizeLocale(t *testing.T) {
	if got := NormalizeLocale(" es-ES "); got != "es_ES" {
		t.Errorf("NormalizeLocale = %q", got)
	}
}

func TestLocaleDirName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"ru_RU", "ru-RU"},
		{"ru-RU", "ru-RU"},
		{"en_US", "en-US"},
	}
	for _, tt := range tests {
		if got := LocaleDirName(tt.in); got != tt.want {
			t.Errorf("LocaleDirName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSameLanguage(t *testing.T) {
	if !SameLanguage("en_US", "en_GB") {
		t.Error("en_US and en_GB share a base language")
	}
	if SameLanguage("en_US", "es_ES") {
		t.Error("en_US and es_ES do not share a base language")
	}
}
