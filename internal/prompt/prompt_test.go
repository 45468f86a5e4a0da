// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package prompt

import (
	"errors"
	"strings"
	"testing"

	"github.com/pdiddy/datasheet-parser/pkg/types"
)

func TestBuildExtract(t *testing.T) {
	system, instruction, err := Build(3, 12, types.ModeExtract, "")
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(instruction, "page 3 of 12") {
		t.Errorf("instruction missing page position:\n%s", instruction)
	}
	for _, want := range []string{"Markdown", "LISTS INSTEAD OF TABLES"} {
		if !strings.Contains(system, want) {
			t.Errorf("system prompt missing %q", want)
		}
	}
	if strings.Contains(system, "translat") {
		t.Errorf("extraction system prompt mentions translation:\n%s", system)
	}
}

func TestBuildTranslate(t *testing.T) {
	system, instruction, err := Build(2, 5, types.ModeTranslate, "German")
	if err != nil {
		t.Fatal(err)
	}

	// The page 2 of 5 instruction must carry both positions and the
	// target language.
	for _, want := range []string{"2", "5", "German"} {
		if !strings.Contains(instruction, want) {
			t.Errorf("instruction missing %q:\n%s", want, instruction)
		}
	}

	for _, want := range []string{
		"German",
		"DO NOT include the source text",
		"unchanged",
	} {
		if !strings.Contains(system, want) && !strings.Contains(instruction, want) {
			t.Errorf("translation contract missing %q", want)
		}
	}
}

func TestBuildTranslateWithoutLanguage(t *testing.T) {
	_, _, err := Build(1, 1, types.ModeTranslate, "")
	if err == nil {
		t.Fatal("expected error for translate mode without language")
	}
	var cfgErr *types.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Errorf("error = %T, want *types.ConfigError", err)
	}
}

func TestBuildUnknownMode(t *testing.T) {
	_, _, err := Build(1, 1, types.Mode("summarize"), "")
	var cfgErr *types.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Errorf("error = %T, want *types.ConfigError", err)
	}
}

func TestBuildIsPure(t *testing.T) {
	s1, i1, err := Build(4, 9, types.ModeExtract, "")
	if err != nil {
		t.Fatal(err)
	}
	s2, i2, err := Build(4, 9, types.ModeExtract, "")
	if err != nil {
		t.Fatal(err)
	}
	if s1 != s2 || i1 != i2 {
		t.Error("Build is not deterministic for identical inputs")
	}
}
