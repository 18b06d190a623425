package models

import (
	"time"
)

// StatoInGiacenza è lo stato assegnato a un articolo appena entrato in magazzino.
const StatoInGiacenza = "In giacenza"

// Articolo rappresenta un lotto fisico di merce a magazzino (tabella articoli).
// I campi numerici e le date sono puntatori: una colonna NULL resta nil invece
// di degradare a zero.
type Articolo struct {
	ID             int        `json:"id" db:"id"`
	CodiceArticolo string     `json:"codice_articolo" db:"codice_articolo"`
	Descrizione    string     `json:"descrizione" db:"descrizione"`
	Cliente        string     `json:"cliente" db:"cliente"`
	Fornitore      string     `json:"fornitore" db:"fornitore"`
	DataIngresso   *time.Time `json:"data_ingresso" db:"data_ingresso"`
	NDdtIngresso   string     `json:"n_ddt_ingresso" db:"n_ddt_ingresso"`
	Commessa       string     `json:"commessa" db:"commessa"`
	Ordine         string     `json:"ordine" db:"ordine"`
	NColli         *int       `json:"n_colli" db:"n_colli"`
	Peso           *float64   `json:"peso" db:"peso"`
	Larghezza      *float64   `json:"larghezza" db:"larghezza"`
	Lunghezza      *float64   `json:"lunghezza" db:"lunghezza"`
	Altezza        *float64   `json:"altezza" db:"altezza"`
	M2             *float64   `json:"m2" db:"m2"`
	M3             *float64   `json:"m3" db:"m3"`
	Posizione      string     `json:"posizione" db:"posizione"`
	Stato          string     `json:"stato" db:"stato"`
	DataUscita     *time.Time `json:"data_uscita" db:"data_uscita"`
	NDdtUscita     string     `json:"n_ddt_uscita" db:"n_ddt_uscita"`
	BuonoN         string     `json:"buono_n" db:"buono_n"`
	Pezzo          string     `json:"pezzo" db:"pezzo"`
	Protocollo     string     `json:"protocollo" db:"protocollo"`
	SerialNumber   string     `json:"serial_number" db:"serial_number"`
	NArrivo        string     `json:"n_arrivo" db:"n_arrivo"`
	NsRif          string     `json:"ns_rif" db:"ns_rif"`
	MezziInUscita  string     `json:"mezzi_in_uscita" db:"mezzi_in_uscita"`
	Note           string     `json:"note" db:"note"`
}

// Uscito indica se l'articolo è stato scaricato con un DDT di uscita.
func (a *Articolo) Uscito() bool {
	return a.NDdtUscita != ""
}

// ArticoloWithAllegati include i metadati degli allegati dell'articolo.
type ArticoloWithAllegati struct {
	Articolo
	Allegati []*Allegato `json:"allegati"`
}
