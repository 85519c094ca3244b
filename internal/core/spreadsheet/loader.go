package spreadsheet

import (
	"fmt"
	"io"

	"reconciliation-service/internal/domain"

	"golang.org/x/sync/errgroup"
)

// Source is one spreadsheet to load. Name carries the extension that picks the format.
type Source struct {
	Name string
	Open func() (io.ReadCloser, error)
}

// LoadPair reads and decodes the SAT and Questor spreadsheets concurrently.
// The first failure is returned, prefixed with the sheet it came from.
func LoadPair(reader Reader, sat, questor Source) ([]domain.SatInvoice, []domain.QuestorInvoice, error) {
	var (
		satRows     []domain.SatInvoice
		questorRows []domain.QuestorInvoice
		g           errgroup.Group
	)
	g.Go(func() error {
		records, err := load(reader, sat)
		if err == nil {
			satRows, err = DecodeSat(records)
		}
		if err != nil {
			return fmt.Errorf("planilha SAT: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		records, err := load(reader, questor)
		if err == nil {
			questorRows, err = DecodeQuestor(records)
		}
		if err != nil {
			return fmt.Errorf("planilha Questor: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return satRows, questorRows, nil
}

func load(reader Reader, src Source) ([]Record, error) {
	rc, err := src.Open()
	if err != nil {
		return nil, fmt.Errorf("não foi possível abrir o arquivo %s: %w", src.Name, err)
	}
	defer rc.Close()
	return reader.ReadRecords(rc, src.Name)
}
