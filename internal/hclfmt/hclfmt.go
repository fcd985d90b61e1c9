// Package hclfmt formats rendered Terraform source and rejects anything
// that does not parse. Every generated .tf file goes through here before
// it is written to disk, so a rendering bug surfaces as an error at
// generation time instead of as a terraform syntax error later.
package hclfmt

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclwrite"
)

// Format canonicalizes the given HCL source and verifies it parses with
// zero diagnostics. filename only labels parse errors.
func Format(filename string, src []byte) ([]byte, error) {
	formatted := hclwrite.Format(src)

	parser := hclparse.NewParser()
	if _, diags := parser.ParseHCL(formatted, filename); diags.HasErrors() {
		return nil, fmt.Errorf("generated %s does not parse: %s", filename, diags.Error())
	}
	return formatted, nil
}
