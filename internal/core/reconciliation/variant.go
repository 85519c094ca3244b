package reconciliation

import (
	"strings"
)

// Variant carries the only things that differ between the outbound
// ("emitidas") and inbound ("destinadas") reconciliations: message texts.
type Variant struct {
	Name             string
	InboundMessage   string
	CancelledMessage string
}

// Emitidas reconciles invoices issued by the company (SAT Emitidas x Questor Saídas).
var Emitidas = Variant{
	Name:             "emitidas",
	InboundMessage:   "NOTA FISCAL DE ENTRADA - VERIFICAR NO MOVIMENTO DE ENTRADAS",
	CancelledMessage: "NOTA FISCAL CANCELADA",
}

// Destinadas reconciles invoices received by the company (SAT Destinadas x Questor Entradas).
var Destinadas = Variant{
	Name:             "destinadas",
	InboundMessage:   "NOTA FISCAL ENTRADA FORNECEDOR NÃO DEVE SER ESCRITURADA - VERIFICAR",
	CancelledMessage: "NOTA CANCELADA, NÃO DEVE SER ESCRITURADA",
}

// Variants lists the known variants.
var Variants = []Variant{Emitidas, Destinadas}

// VariantByName resolves a variant by its (case-insensitive) name.
func VariantByName(name string) (Variant, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, v := range Variants {
		if v.Name == name {
			return v, true
		}
	}
	return Variant{}, false
}
