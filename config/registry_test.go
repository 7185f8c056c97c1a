package config

import (
	"testing"

	"github.com/tidwall/gjson"
)

func TestRegistry(t *testing.T) {
	if err := Register(&Option{
		Name:            "name",
		Key:             "key",
		Description:     "description",
		ExpertiseLevel:  1,
		OptType:         OptTypeString,
		DefaultValue:    "default",
		ValidationRegex: "^(banana|water)$",
	}); err != nil {
		t.Error(err)
	}

	if err := Register(&Option{
		Name:            "name",
		Key:             "key",
		Description:     "description",
		ExpertiseLevel:  1,
		OptType:         0,
		DefaultValue:    "default",
		ValidationRegex: "^[A-Z][a-z]+$",
	}); err == nil {
		t.Error("should fail")
	}

	if err := Register(&Option{
		Name:            "name",
		Key:             "key",
		Description:     "description",
		ExpertiseLevel:  1,
		OptType:         OptTypeString,
		DefaultValue:    "default",
		ValidationRegex: "[",
	}); err == nil {
		t.Error("should fail")
	}
}

func TestOptionIteration(t *testing.T) {
	quickRegister(t, "fruit/banana", OptTypeString, "yellow")
	quickRegister(t, "fruit/apple", OptTypeString, "red")
	quickRegister(t, "vegetable/carrot", OptTypeString, "orange")

	var keys []string
	err := ForEachOption("fruit/", func(option *Option) error {
		keys = append(keys, option.Key)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 2 || keys[0] != "fruit/apple" || keys[1] != "fruit/banana" {
		t.Errorf("unexpected iteration result: %v", keys)
	}

	if err := SetConfigOption("fruit/banana", "green"); err != nil {
		t.Fatal(err)
	}

	exported, err := ExportOptions("fruit/")
	if err != nil {
		t.Fatal(err)
	}
	if cnt := gjson.GetBytes(exported, "#").Int(); cnt != 2 {
		t.Errorf("expected 2 exported options, got %d", cnt)
	}
	if v := gjson.GetBytes(exported, `#(Key=="fruit/banana").Value`).String(); v != "green" {
		t.Errorf("expected active value green, got %s", v)
	}
	if v := gjson.GetBytes(exported, `#(Key=="fruit/apple").DefaultValue`).String(); v != "red" {
		t.Errorf("expected default value red, got %s", v)
	}
}
