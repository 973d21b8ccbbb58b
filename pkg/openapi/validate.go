package openapi

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/getkin/kin-openapi/openapi2"
	"github.com/getkin/kin-openapi/openapi2conv"
	"github.com/getkin/kin-openapi/openapi3"
)

// Validate checks the document against the OpenAPI schema rules. The Swagger 2.0
// document is converted to v3 first, references are resolved, then the v3 document
// is validated.
func Validate(ctx context.Context, doc *Document) error {
	root, err := parseNode(doc.raw)
	if err != nil {
		return &SpecError{Code: ParseError, Message: fmt.Sprintf("parse document: %v", err), Location: doc.Location, Cause: err}
	}
	plain, err := nodeToAny(root)
	if err != nil {
		return &SpecError{Code: ParseError, Message: err.Error(), Location: doc.Location, Cause: err}
	}
	data, err := json.Marshal(plain)
	if err != nil {
		return &SpecError{Code: ParseError, Message: err.Error(), Location: doc.Location, Cause: err}
	}

	var v2 openapi2.T
	if err := json.Unmarshal(data, &v2); err != nil {
		return &SpecError{Code: ParseError, Message: fmt.Sprintf("decode swagger 2.0: %v", err), Location: doc.Location, Cause: err}
	}
	v3, err := openapi2conv.ToV3(&v2)
	if err != nil {
		return &SpecError{Code: ValidationError, Message: fmt.Sprintf("convert to openapi 3: %v", err), Location: doc.Location, Cause: err}
	}
	loader := openapi3.NewLoader()
	loader.Context = ctx
	if err := loader.ResolveRefsIn(v3, nil); err != nil {
		return &SpecError{Code: ReferenceError, Message: fmt.Sprintf("resolve references: %v", err), Location: doc.Location, Cause: err}
	}
	if err := v3.Validate(ctx); err != nil {
		return &SpecError{Code: ValidationError, Message: err.Error(), Location: doc.Location, Cause: err}
	}
	return nil
}

// ValidateDocument loads and validates a document from a file path or URL
func ValidateDocument(ctx context.Context, input string, opts ...Option) error {
	doc, err := Load(ctx, input, opts...)
	if err != nil {
		return err
	}
	return Validate(ctx, doc)
}
