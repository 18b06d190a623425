// Package pdf costruisce i documenti del magazzino: buono di prelievo,
// documento di trasporto ed etichetta colli.
package pdf

import (
	"fmt"
	"strconv"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"gestionale-magazzino/internal/models"
)

// maxLenEtichetta è il limite oltre cui i valori sull'etichetta vengono troncati.
const maxLenEtichetta = 35

func nuovoA4() core.Maroto {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(20).
		WithRightMargin(20).
		WithTopMargin(20).
		Build()
	return maroto.New(cfg)
}

// Buono genera il PDF del buono di prelievo per gli articoli selezionati.
func Buono(articoli []*models.Articolo) ([]byte, error) {
	m := nuovoA4()

	m.AddRow(14, text.NewCol(12, "Buono di Prelievo", props.Text{
		Size: 16, Style: fontstyle.Bold,
	}))
	m.AddRow(6, line.NewCol(12))

	aggiungiIntestazione(m, false)
	for _, art := range articoli {
		aggiungiRigaArticolo(m, art, false)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate buono: %w", err)
	}
	return doc.GetBytes(), nil
}

// Ddt genera il PDF del documento di trasporto. Il blocco destinatario è
// opzionale: compare solo se è stato indicato un profilo.
func Ddt(numero string, data time.Time, articoli []*models.Articolo, destinatario *models.Destinatario) ([]byte, error) {
	m := nuovoA4()

	m.AddRow(14, text.NewCol(12, fmt.Sprintf("Documento di Trasporto (DDT) N. %s", numero), props.Text{
		Size: 16, Style: fontstyle.Bold,
	}))
	m.AddRow(8, text.NewCol(12, "Data: "+data.Format("02/01/2006"), props.Text{Size: 10}))

	if destinatario != nil {
		m.AddRow(6, text.NewCol(12, "Destinatario:", props.Text{Size: 10, Style: fontstyle.Bold}))
		m.AddRow(5, text.NewCol(12, destinatario.RagioneSociale, props.Text{Size: 10}))
		if destinatario.Indirizzo != "" {
			m.AddRow(5, text.NewCol(12, destinatario.Indirizzo, props.Text{Size: 10}))
		}
		if destinatario.Piva != "" {
			m.AddRow(5, text.NewCol(12, "P.IVA "+destinatario.Piva, props.Text{Size: 10}))
		}
	}
	m.AddRow(6, line.NewCol(12))

	aggiungiIntestazione(m, true)
	for _, art := range articoli {
		aggiungiRigaArticolo(m, art, true)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate ddt: %w", err)
	}
	return doc.GetBytes(), nil
}

func aggiungiIntestazione(m core.Maroto, conPeso bool) {
	bold := props.Text{Size: 9, Style: fontstyle.Bold}
	cols := []core.Col{
		text.NewCol(1, "ID", bold),
		text.NewCol(3, "Codice Articolo", bold),
		text.NewCol(4, "Descrizione", bold),
		text.NewCol(2, "Cliente", bold),
		text.NewCol(1, "N. Colli", bold),
	}
	if conPeso {
		cols = append(cols, text.NewCol(1, "Peso", bold))
	} else {
		cols[2] = text.NewCol(5, "Descrizione", bold)
	}
	m.AddRow(7, cols...)
}

func aggiungiRigaArticolo(m core.Maroto, art *models.Articolo, conPeso bool) {
	normal := props.Text{Size: 9}
	cols := []core.Col{
		text.NewCol(1, strconv.Itoa(art.ID), normal),
		text.NewCol(3, art.CodiceArticolo, normal),
		text.NewCol(4, art.Descrizione, normal),
		text.NewCol(2, art.Cliente, normal),
		text.NewCol(1, fmtInt(art.NColli), normal),
	}
	if conPeso {
		cols = append(cols, text.NewCol(1, fmtFloat(art.Peso), normal))
	} else {
		cols[2] = text.NewCol(5, art.Descrizione, normal)
	}
	m.AddRow(6, cols...)
}

// Etichetta genera l'etichetta colli a formato fisso 100x62mm: un elenco
// compatto chiave/valore dei campi principali, con i valori troncati oltre i
// 35 caratteri.
func Etichetta(art *models.Articolo) ([]byte, error) {
	cfg := config.NewBuilder().
		WithDimensions(100, 62).
		WithLeftMargin(4).
		WithRightMargin(4).
		WithTopMargin(4).
		Build()
	m := maroto.New(cfg)

	m.AddRow(6, text.NewCol(12, "CAMAR - Posizione Magazzino", props.Text{
		Size: 9, Style: fontstyle.Bold, Align: align.Center,
	}))

	campi := []struct {
		nome   string
		valore string
	}{
		{"ID", strconv.Itoa(art.ID)},
		{"Codice", art.CodiceArticolo},
		{"Descrizione", art.Descrizione},
		{"Cliente", art.Cliente},
		{"Commessa", art.Commessa},
		{"N. Colli", fmtInt(art.NColli)},
		{"Posizione", art.Posizione},
	}

	for _, campo := range campi {
		m.AddRow(5,
			text.NewCol(4, campo.nome, props.Text{Size: 7, Style: fontstyle.Bold}),
			text.NewCol(8, tronca(campo.valore), props.Text{Size: 7}),
		)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate etichetta: %w", err)
	}
	return doc.GetBytes(), nil
}

func tronca(valore string) string {
	runes := []rune(valore)
	if len(runes) <= maxLenEtichetta {
		return valore
	}
	// L'ellissi rientra nel limite: mai più di maxLenEtichetta caratteri resi
	return string(runes[:maxLenEtichetta-1]) + "…"
}

func fmtInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func fmtFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
