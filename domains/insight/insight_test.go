package insight

import "testing"

func TestToneForIndex(t *testing.T) {
	t.Parallel()
	cases := []struct {
		index int
		want  Tone
	}{
		{0, ToneWarm},
		{1, ToneWitty},
		{2, ToneHeartfelt},
		{3, ToneWarm},
		{17, ToneHeartfelt},
		{-1, ToneWitty},
	}
	for _, tc := range cases {
		if got := ToneForIndex(tc.index); got != tc.want {
			t.Fatalf("ToneForIndex(%d): expected %s, got %s", tc.index, tc.want, got)
		}
	}
}

func TestLanguageValid(t *testing.T) {
	t.Parallel()
	if !LangPT.Valid() || !LangEN.Valid() {
		t.Fatalf("pt and en must be valid")
	}
	for _, lang := range []Language{"fr", "PT", "", "pt-BR"} {
		if lang.Valid() {
			t.Fatalf("%q must not be valid", lang)
		}
	}
}
