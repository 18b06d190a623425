package fields

import (
	"time"

	"gestionale-magazzino/internal/models"
)

// Kind è il tipo dichiarato di un campo modificabile da form.
type Kind int

const (
	KindText Kind = iota
	KindInt
	KindFloat
	KindDate
)

// Descrittori è l'allow-list dei campi dell'articolo modificabili da form,
// consultata sia dalla modifica singola che da quella multipla e
// dall'importazione Excel. Tutto ciò che non compare qui (id, m2, m3) viene
// ignorato: m2 e m3 sono derivati e vengono sempre ricalcolati.
var Descrittori = map[string]Kind{
	"codice_articolo": KindText,
	"descrizione":     KindText,
	"cliente":         KindText,
	"fornitore":       KindText,
	"data_ingresso":   KindDate,
	"n_ddt_ingresso":  KindText,
	"commessa":        KindText,
	"ordine":          KindText,
	"n_colli":         KindInt,
	"peso":            KindFloat,
	"larghezza":       KindFloat,
	"lunghezza":       KindFloat,
	"altezza":         KindFloat,
	"posizione":       KindText,
	"stato":           KindText,
	"data_uscita":     KindDate,
	"n_ddt_uscita":    KindText,
	"buono_n":         KindText,
	"pezzo":           KindText,
	"protocollo":      KindText,
	"serial_number":   KindText,
	"n_arrivo":        KindText,
	"ns_rif":          KindText,
	"mezzi_in_uscita": KindText,
	"note":            KindText,
}

// campiMisure sono gli input del calcolo m2/m3: se un form ne tocca almeno
// uno le misure vanno ricalcolate.
var campiMisure = map[string]bool{
	"lunghezza": true,
	"larghezza": true,
	"altezza":   true,
	"n_colli":   true,
}

// ToccaMisure indica se il form modifica uno degli input di ComputeMisure.
func ToccaMisure(form map[string]string) bool {
	for name := range form {
		if campiMisure[name] {
			return true
		}
	}
	return false
}

// Apply applica al modello i soli campi presenti nell'allow-list, con la
// coercizione del tipo dichiarato. I valori non parsabili degradano a NULL.
// Il ricalcolo di m2/m3 è a carico del chiamante (vedi Ricalcola).
func Apply(art *models.Articolo, form map[string]string) {
	for name, raw := range form {
		kind, ok := Descrittori[name]
		if !ok {
			continue
		}
		switch kind {
		case KindText:
			setText(art, name, raw)
		case KindInt:
			setInt(art, name, ParseInt(raw))
		case KindFloat:
			setFloat(art, name, ParseFloat(raw))
		case KindDate:
			setDate(art, name, ParseDate(raw))
		}
	}
}

// Ricalcola sovrascrive m2 e m3 a partire dai valori correnti del modello.
func Ricalcola(art *models.Articolo) {
	m2, m3 := ComputeMisure(art.Lunghezza, art.Larghezza, art.Altezza, art.NColli)
	art.M2 = &m2
	art.M3 = &m3
}

func setText(art *models.Articolo, name, value string) {
	switch name {
	case "codice_articolo":
		art.CodiceArticolo = value
	case "descrizione":
		art.Descrizione = value
	case "cliente":
		art.Cliente = value
	case "fornitore":
		art.Fornitore = value
	case "n_ddt_ingresso":
		art.NDdtIngresso = value
	case "commessa":
		art.Commessa = value
	case "ordine":
		art.Ordine = value
	case "posizione":
		art.Posizione = value
	case "stato":
		art.Stato = value
	case "n_ddt_uscita":
		art.NDdtUscita = value
	case "buono_n":
		art.BuonoN = value
	case "pezzo":
		art.Pezzo = value
	case "protocollo":
		art.Protocollo = value
	case "serial_number":
		art.SerialNumber = value
	case "n_arrivo":
		art.NArrivo = value
	case "ns_rif":
		art.NsRif = value
	case "mezzi_in_uscita":
		art.MezziInUscita = value
	case "note":
		art.Note = value
	}
}

func setInt(art *models.Articolo, name string, value *int) {
	if name == "n_colli" {
		art.NColli = value
	}
}

func setFloat(art *models.Articolo, name string, value *float64) {
	switch name {
	case "peso":
		art.Peso = value
	case "larghezza":
		art.Larghezza = value
	case "lunghezza":
		art.Lunghezza = value
	case "altezza":
		art.Altezza = value
	}
}

func setDate(art *models.Articolo, name string, value *time.Time) {
	switch name {
	case "data_ingresso":
		art.DataIngresso = value
	case "data_uscita":
		art.DataUscita = value
	}
}
