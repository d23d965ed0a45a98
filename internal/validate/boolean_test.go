package validate

import "testing"

func TestBooleanTokenSets(t *testing.T) {
	fn := booleanValidator(DefaultPolicy())

	trueInputs := []string{"yes", "Y", "sim", "OK", "oui", "ja", "confirm", "1"}
	for _, input := range trueInputs {
		got := runText(t, fn, input)
		if !got.OK || got.Value != "true" {
			t.Fatalf("boolean %q: got value=%q ok=%v, want true", input, got.Value, got.OK)
		}
	}

	falseInputs := []string{"no", "n", "não", "nao", "nein", "cancel", "0"}
	for _, input := range falseInputs {
		got := runText(t, fn, input)
		if !got.OK || got.Value != "false" {
			t.Fatalf("boolean %q: got value=%q ok=%v, want false", input, got.Value, got.OK)
		}
	}

	rejected := []string{"maybe", "banana", "", "yes please"}
	for _, input := range rejected {
		if got := runText(t, fn, input); got.OK {
			t.Fatalf("boolean %q: expected rejection, got %q", input, got.Value)
		}
	}
}

func TestBooleanPolicyExtension(t *testing.T) {
	fn := booleanValidator(Policy{ExtraTrueTokens: []string{"hai"}, ExtraFalseTokens: []string{"iie"}})

	if got := runText(t, fn, "hai"); !got.OK || got.Value != "true" {
		t.Fatalf("extended true token: %+v", got)
	}
	if got := runText(t, fn, "iie"); !got.OK || got.Value != "false" {
		t.Fatalf("extended false token: %+v", got)
	}
}
