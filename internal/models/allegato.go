package models

// Tipi di allegato, derivati dall'estensione del file caricato.
const (
	AllegatoTipoDoc  = "doc"
	AllegatoTipoFoto = "foto"
)

// Allegato rappresenta un file (PDF o immagine) associato a un articolo.
type Allegato struct {
	ID         int    `json:"id" db:"id"`
	Filename   string `json:"filename" db:"filename"`
	Tipo       string `json:"tipo" db:"tipo"`
	ArticoloID int    `json:"articolo_id" db:"articolo_id"`
}
