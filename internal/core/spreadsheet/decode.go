package spreadsheet

import (
	"fmt"

	"reconciliation-service/internal/domain"

	"github.com/shopspring/decimal"
)

// Cabeçalhos de texto esperados na planilha SAT.
var satTextColumns = []string{
	"NumeroDocumento",
	"SerieDocumento",
	"DataEmissao",
	"CnpjOuCpfDoEmitente",
	"CnpjOuCpfDoDestinatario",
	"UfDestinatario",
	"ModeloDocumento",
	"TipoDocumento",
	"TipoDeOperacaoEntradaOuSaida",
	"Situacao",
}

// Cabeçalhos de texto esperados na planilha Questor.
var questorTextColumns = []string{
	"Número",
	"Série",
	"Data Escrituração/Serviço",
	"CNPJ EMITENTE",
	"CNPJ DESTINATARIO",
	"Estado",
}

// DecodeSat maps SAT records onto invoices. Missing columns read as empty or
// zero; an unparseable amount aborts the whole decode.
func DecodeSat(records []Record) ([]domain.SatInvoice, error) {
	wanted := append([]string{}, satTextColumns...)
	for _, field := range domain.SatAmountFields {
		wanted = append(wanted, string(field))
	}
	columns := newColumnResolver(records).resolve(wanted)

	invoices := make([]domain.SatInvoice, 0, len(records))
	for i, record := range records {
		get := func(name string) string {
			return lookup(record, columns[name])
		}

		invoice := domain.SatInvoice{
			NumeroDocumento:              get("NumeroDocumento"),
			SerieDocumento:               get("SerieDocumento"),
			DataEmissao:                  get("DataEmissao"),
			CnpjOuCpfDoEmitente:          get("CnpjOuCpfDoEmitente"),
			CnpjOuCpfDoDestinatario:      get("CnpjOuCpfDoDestinatario"),
			UfDestinatario:               get("UfDestinatario"),
			ModeloDocumento:              get("ModeloDocumento"),
			TipoDocumento:                get("TipoDocumento"),
			TipoDeOperacaoEntradaOuSaida: get("TipoDeOperacaoEntradaOuSaida"),
			Situacao:                     get("Situacao"),
		}
		for _, field := range domain.SatAmountFields {
			v, err := amountAt(record, columns[string(field)], i)
			if err != nil {
				return nil, err
			}
			invoice.SetAmount(field, v)
		}
		invoices = append(invoices, invoice)
	}
	return invoices, nil
}

// DecodeQuestor maps Questor records onto invoices, with the same rules as DecodeSat.
func DecodeQuestor(records []Record) ([]domain.QuestorInvoice, error) {
	wanted := append([]string{}, questorTextColumns...)
	for _, field := range domain.QuestorAmountFields {
		wanted = append(wanted, string(field))
	}
	columns := newColumnResolver(records).resolve(wanted)

	invoices := make([]domain.QuestorInvoice, 0, len(records))
	for i, record := range records {
		get := func(name string) string {
			return lookup(record, columns[name])
		}

		invoice := domain.QuestorInvoice{
			Numero:           get("Número"),
			Serie:            get("Série"),
			DataEscrituracao: get("Data Escrituração/Serviço"),
			CnpjEmitente:     get("CNPJ EMITENTE"),
			CnpjDestinatario: get("CNPJ DESTINATARIO"),
			Estado:           get("Estado"),
		}
		for _, field := range domain.QuestorAmountFields {
			v, err := amountAt(record, columns[string(field)], i)
			if err != nil {
				return nil, err
			}
			invoice.SetAmount(field, v)
		}
		invoices = append(invoices, invoice)
	}
	return invoices, nil
}

func lookup(record Record, header string) string {
	if header == "" {
		return ""
	}
	return record[header]
}

// amountAt parses one monetary cell. Line numbers count the header as line 1.
func amountAt(record Record, header string, index int) (decimal.Decimal, error) {
	v, err := ParseAmount(lookup(record, header))
	if err != nil {
		return decimal.Zero, fmt.Errorf("linha %d, coluna %q: %w", index+2, header, err)
	}
	return v, nil
}
