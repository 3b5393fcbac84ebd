package signals

import (
	"reflect"
	"testing"
)

func TestExtractArchitecture(t *testing.T) {
	sig := Extract("Diseña una arquitectura para escalar a 1M usuarios")
	if !sig.MentionsArchitecture {
		t.Fatalf("expected architecture signal, got %+v", sig)
	}
}

func TestExtractCodeGenerationNeedsVerbAndNoun(t *testing.T) {
	cases := []struct {
		name string
		text string
		want bool
	}{
		{"verb and noun", "escribe una función de merge sort", true},
		{"verb and noun english", "write a function that sorts a list", true},
		{"verb with code mention", "implementa este script en python", true},
		{"noun alone", "me gusta esa función del teclado", false},
		{"verb alone", "dame tu opinión sobre el clima", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Extract(tc.text).WantsCodeGeneration; got != tc.want {
				t.Fatalf("WantsCodeGeneration(%q) = %v, want %v", tc.text, got, tc.want)
			}
		})
	}
}

func TestExtractDebugAndCodeAreSeparate(t *testing.T) {
	sig := Extract("arregla este error de python, aquí va el traceback")
	if !sig.MentionsDebug {
		t.Fatalf("expected debug signal, got %+v", sig)
	}
	if !sig.MentionsCode {
		t.Fatalf("expected code signal, got %+v", sig)
	}

	sig = Extract("escribe un algoritmo de ordenamiento")
	if sig.MentionsDebug {
		t.Fatalf("generation request should not look like debugging: %+v", sig)
	}
	if !sig.WantsCodeGeneration {
		t.Fatalf("expected code generation signal, got %+v", sig)
	}
}

func TestExtractQuestionAndShort(t *testing.T) {
	sig := Extract("hola")
	if !sig.IsShort {
		t.Fatal("single token should be short")
	}
	if sig.HasQuestion {
		t.Fatal("no question marker expected")
	}

	sig = Extract("¿Cómo funciona esto?")
	if !sig.HasQuestion {
		t.Fatal("expected question signal")
	}

	sig = Extract("what time is it")
	if !sig.HasQuestion {
		t.Fatal("interrogative opener should count as a question")
	}
}

func TestExtractIsDeterministic(t *testing.T) {
	text := "Analiza los riesgos de esta estrategia y escribe un plan detallado"
	first := Extract(text)
	for i := 0; i < 5; i++ {
		if got := Extract(text); !reflect.DeepEqual(got, first) {
			t.Fatalf("extraction not deterministic: %+v vs %+v", got, first)
		}
	}
}

func TestActiveListsOnlyTrueSignals(t *testing.T) {
	sig := Extract("hola")
	active := sig.Active()
	if len(active) != 1 || active[0] != "is_short" {
		t.Fatalf("expected only is_short, got %v", active)
	}

	if active = Extract("Describe la imagen adjunta por favor").Active(); len(active) == 0 {
		t.Fatal("expected image signal to be active")
	}
}

func TestExtractEmptyMessage(t *testing.T) {
	sig := Extract("")
	if !sig.IsShort {
		t.Fatal("empty message should be short")
	}
	if sig.MentionsCode || sig.WantsCodeGeneration || sig.MentionsArchitecture {
		t.Fatalf("empty message should carry no topic signals: %+v", sig)
	}
}
