package catalog

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/stockku/inventory-core/internal/domain/entity"
)

// foldTransformer descompone, elimina marcas diacríticas y recompone, para
// que "Café" y "cafe" coincidan en la búsqueda.
var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Search filtra el snapshot de productos por subcadena en nombre o SKU,
// sin distinguir mayúsculas ni acentos. Con query vacío devuelve la lista
// completa tal cual para que el llamador conserve el orden del snapshot.
func Search(products []*entity.Product, query string) []*entity.Product {
	q := foldLower(query)
	if q == "" {
		return products
	}
	var out []*entity.Product
	for _, p := range products {
		if strings.Contains(foldLower(p.Name), q) || strings.Contains(foldLower(p.SKU), q) {
			out = append(out, p)
		}
	}
	return out
}

func foldLower(s string) string {
	folded, _, err := transform.String(foldTransformer, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(strings.TrimSpace(folded))
}
