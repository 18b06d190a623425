package database

import (
	"database/sql"
	"fmt"
)

// schema del gestionale: articoli, allegati con cascata sull'articolo.
const schema = `
CREATE TABLE IF NOT EXISTS articoli (
	id              SERIAL PRIMARY KEY,
	codice_articolo TEXT,
	descrizione     TEXT,
	cliente         TEXT,
	fornitore       TEXT,
	data_ingresso   DATE,
	n_ddt_ingresso  TEXT,
	commessa        TEXT,
	ordine          TEXT,
	n_colli         INTEGER,
	peso            DOUBLE PRECISION,
	larghezza       DOUBLE PRECISION,
	lunghezza       DOUBLE PRECISION,
	altezza         DOUBLE PRECISION,
	m2              DOUBLE PRECISION,
	m3              DOUBLE PRECISION,
	posizione       TEXT,
	stato           TEXT DEFAULT 'In giacenza',
	data_uscita     DATE,
	n_ddt_uscita    TEXT,
	buono_n         TEXT,
	pezzo           TEXT,
	protocollo      TEXT,
	serial_number   TEXT,
	n_arrivo        TEXT,
	ns_rif          TEXT,
	mezzi_in_uscita TEXT,
	note            TEXT
);

CREATE TABLE IF NOT EXISTS allegati (
	id          SERIAL PRIMARY KEY,
	filename    TEXT NOT NULL,
	tipo        TEXT NOT NULL,
	articolo_id INTEGER NOT NULL REFERENCES articoli(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_articoli_cliente ON articoli (LOWER(cliente));
CREATE INDEX IF NOT EXISTS idx_allegati_articolo ON allegati (articolo_id);
`

// EnsureSchema crea le tabelle se non esistono. Va eseguita all'avvio, prima
// di preparare gli statement dei repository.
func EnsureSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}
