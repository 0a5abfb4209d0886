package internalcheck

import (
	"fmt"
	"go/ast"
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

const paillierPkgPath = "github.com/openphe/paillier-go/pkg/phe/paillier"

// forbiddenOnWire lists paillier identifiers that carry or expose secret key
// material. The wire package must never touch them: a message type that can
// hold a private key is one serialization call away from leaking it.
var forbiddenOnWire = map[string]bool{
	"PrivateKey":     true,
	"KeyPair":        true,
	"Lambda":         true,
	"Mu":             true,
	"SavePrivateKey": true,
	"LoadPrivateKey": true,
}

func TestNoPrivateKeyOnWire(t *testing.T) {
	cfg := &packages.Config{
		Mode: packages.NeedSyntax | packages.NeedTypesInfo | packages.NeedFiles | packages.NeedName,
	}

	pkgs, err := packages.Load(cfg, "github.com/openphe/paillier-go/pkg/phe/wire")
	if err != nil {
		t.Fatalf("load package: %v", err)
	}

	var findings []string

	for _, pkg := range pkgs {
		for _, file := range pkg.Syntax {
			fset := pkg.Fset
			ast.Inspect(file, func(n ast.Node) bool {
				ident, ok := n.(*ast.Ident)
				if !ok {
					return true
				}

				obj := pkg.TypesInfo.Uses[ident]
				if obj == nil || obj.Pkg() == nil || obj.Pkg().Path() != paillierPkgPath {
					return true
				}

				if forbiddenOnWire[obj.Name()] {
					pos := fset.Position(ident.Pos())
					findings = append(findings, fmt.Sprintf("%s: wire package references %s.%s", pos, obj.Pkg().Name(), obj.Name()))
				}

				return true
			})
		}
	}

	if len(findings) > 0 {
		t.Fatalf("private key material referenced by the wire package:\n%s", strings.Join(findings, "\n"))
	}
}
