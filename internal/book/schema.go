package book

import (
	"encoding/json"

	"bookstore/internal/validation"
)

// CreateSchema validates POST /books bodies: every field, isbn included.
var CreateSchema = validation.Schema{
	Name:  "bookCreate",
	Rules: withISBN(mutableRules()),
}

// UpdateSchema validates PUT /books/{isbn} bodies: exactly the mutable
// fields. An isbn key is rejected like any other unknown key.
var UpdateSchema = validation.Schema{
	Name:  "bookUpdate",
	Rules: mutableRules(),
}

func mutableRules() map[string]validation.Rule {
	return map[string]validation.Rule{
		"amazon_url": {Required: true, Type: validation.String, Tag: "required,url"},
		"author":     {Required: true, Type: validation.String, Tag: "required"},
		"language":   {Required: true, Type: validation.String, Tag: "required"},
		"pages":      {Required: true, Type: validation.Integer, Tag: "gt=0"},
		"publisher":  {Required: true, Type: validation.String, Tag: "required"},
		"title":      {Required: true, Type: validation.String, Tag: "required"},
		"year":       {Required: true, Type: validation.Integer},
	}
}

func withISBN(rules map[string]validation.Rule) map[string]validation.Rule {
	rules["isbn"] = validation.Rule{Required: true, Type: validation.String, Tag: "required"}
	return rules
}

// CheckCreate validates an already-typed book against CreateSchema, for
// callers that build books in code rather than from a request body.
func CheckCreate(b Book) error {
	raw, err := json.Marshal(b)
	if err != nil {
		return err
	}
	payload, err := decodeObject(raw)
	if err != nil {
		return err
	}
	return validation.Validate(payload, CreateSchema).Err()
}
